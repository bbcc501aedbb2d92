package wizard

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFileDraftStoreRoundTrip(t *testing.T) {
	s := &FileDraftStore{Path: filepath.Join(t.TempDir(), "draft.json")}

	// Missing file is an empty draft, not an error.
	d, err := s.Load()
	if err != nil || d != (Draft{}) {
		t.Fatalf("missing file: d=%+v err=%v", d, err)
	}

	in := Draft{DocumentURL: "/files/decks/x.pdf", UploadTick: 2, UserID: 7, Email: "sam@example.com", Role: "founder"}
	if err := s.Save(in); err != nil {
		t.Fatal(err)
	}
	out, err := s.Load()
	if err != nil || out != in {
		t.Fatalf("round trip: %+v err=%v", out, err)
	}

	if err := s.Clear(); err != nil {
		t.Fatal(err)
	}
	if err := s.Clear(); err != nil {
		t.Fatal("clearing an absent draft must not fail")
	}
	if d, _ := s.Load(); d != (Draft{}) {
		t.Fatalf("draft survived clear: %+v", d)
	}
}

func TestFileDraftStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "draft.json")
	if err := os.WriteFile(path, []byte("{nope"), 0o600); err != nil {
		t.Fatal(err)
	}
	s := &FileDraftStore{Path: path}
	d, err := s.Load()
	if err != nil || d != (Draft{}) {
		t.Fatalf("corrupt draft should read as empty: %+v err=%v", d, err)
	}
}

func TestRecordUploadBumpsTick(t *testing.T) {
	s := &FileDraftStore{Path: filepath.Join(t.TempDir(), "draft.json")}
	d1, err := RecordUpload(s, "/files/decks/a.pdf")
	if err != nil || d1.UploadTick != 1 {
		t.Fatalf("first upload: %+v err=%v", d1, err)
	}
	d2, err := RecordUpload(s, "/files/decks/b.pdf")
	if err != nil || d2.UploadTick != 2 || d2.DocumentURL != "/files/decks/b.pdf" {
		t.Fatalf("second upload: %+v err=%v", d2, err)
	}
}

func TestClearUploadKeepsIdentity(t *testing.T) {
	s := &FileDraftStore{Path: filepath.Join(t.TempDir(), "draft.json")}
	in := Draft{DocumentURL: "/files/decks/x.pdf", UploadTick: 5, UserID: 9, Email: "f@x.dev", Role: "founder"}
	if err := s.Save(in); err != nil {
		t.Fatal(err)
	}
	if err := ClearUpload(s); err != nil {
		t.Fatal(err)
	}
	d, err := s.Load()
	if err != nil {
		t.Fatal(err)
	}
	if d.DocumentURL != "" {
		t.Fatalf("document not cleared: %+v", d)
	}
	if d.UserID != 9 || d.Email != "f@x.dev" || d.Role != "founder" || d.UploadTick != 5 {
		t.Fatalf("identity or tick lost: %+v", d)
	}

	// Clearing an already-empty draft is a no-op.
	if err := ClearUpload(s); err != nil {
		t.Fatal(err)
	}
}

func TestWatchTicks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "draft.json")
	s := &FileDraftStore{Path: path}

	ticks := make(chan int64, 4)
	stop, err := WatchTicks(path, func(tick int64) { ticks <- tick })
	if err != nil {
		t.Fatal(err)
	}
	defer stop()

	if _, err := RecordUpload(s, "/files/decks/x.pdf"); err != nil {
		t.Fatal(err)
	}

	select {
	case tick := <-ticks:
		if tick != 1 {
			t.Fatalf("tick=%d, want 1", tick)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("watcher never reported the upload")
	}
}
