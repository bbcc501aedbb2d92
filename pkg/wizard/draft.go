package wizard

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Draft is the client-local state that survives restarts independently
// of the server-side submission: the uploaded deck, a counter bumped on
// every fresh upload, and an identity snapshot so the UI can gate
// itself without a round-trip.
type Draft struct {
	DocumentURL string `json:"document_url"`
	UploadTick  int64  `json:"upload_tick"`
	UserID      uint   `json:"user_id"`
	Email       string `json:"email"`
	Role        string `json:"role"`
}

// DraftStore persists a Draft. Injected into the controller so tests
// can substitute an in-memory implementation.
type DraftStore interface {
	Load() (Draft, error)
	Save(Draft) error
	Clear() error
}

// FileDraftStore keeps the draft as a JSON file.
type FileDraftStore struct {
	Path string
}

// DefaultDraftPath returns the draft location under the user config dir.
func DefaultDraftPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "pitchtank", "draft.json"), nil
}

// Load reads the draft. A missing or unreadable file yields an empty
// draft, not an error: the draft is best-effort state.
func (s *FileDraftStore) Load() (Draft, error) {
	b, err := os.ReadFile(s.Path)
	if err != nil {
		return Draft{}, nil
	}
	var d Draft
	if err := json.Unmarshal(b, &d); err != nil {
		return Draft{}, nil
	}
	return d, nil
}

func (s *FileDraftStore) Save(d Draft) error {
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.Path, b, 0o600)
}

func (s *FileDraftStore) Clear() error {
	err := os.Remove(s.Path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// RecordUpload stores a freshly uploaded document URL and bumps the
// upload tick so watchers (and other processes) see the change.
func RecordUpload(s DraftStore, url string) (Draft, error) {
	d, err := s.Load()
	if err != nil {
		return Draft{}, err
	}
	d.DocumentURL = url
	d.UploadTick++
	if err := s.Save(d); err != nil {
		return Draft{}, err
	}
	return d, nil
}

// ClearUpload drops the stored document from the draft while keeping
// the identity snapshot and the tick counter. Used when the document
// is deleted or the user declares they have none.
func ClearUpload(s DraftStore) error {
	d, err := s.Load()
	if err != nil {
		return err
	}
	if d.DocumentURL == "" {
		return nil
	}
	d.DocumentURL = ""
	return s.Save(d)
}

// WatchTicks watches the draft file and invokes onTick with the new
// counter whenever it changes. The parent directory is watched so the
// file may be created or atomically replaced after the watch starts.
// The returned stop function releases the watcher.
func WatchTicks(path string, onTick func(int64)) (func(), error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		w.Close()
		return nil, err
	}
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, err
	}
	store := &FileDraftStore{Path: path}
	var last int64
	if d, err := store.Load(); err == nil {
		last = d.UploadTick
	}
	go func() {
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if ev.Name != path {
					continue
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
					continue
				}
				d, err := store.Load()
				if err != nil || d.UploadTick == last {
					continue
				}
				last = d.UploadTick
				onTick(d.UploadTick)
			case _, ok := <-w.Errors:
				if !ok {
					return
				}
			}
		}
	}()
	return func() { w.Close() }, nil
}
