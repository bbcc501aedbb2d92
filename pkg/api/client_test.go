package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestStatusMapping(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/submission/user/1":
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"error": "submission not found"})
		case "/submission":
			w.WriteHeader(http.StatusConflict)
			json.NewEncoder(w).Encode(map[string]string{"error": "submission already exists"})
		case "/me":
			w.WriteHeader(http.StatusUnauthorized)
		default:
			w.WriteHeader(http.StatusBadGateway)
			json.NewEncoder(w).Encode(map[string]string{"error": "upstream sad"})
		}
	}))
	defer srv.Close()

	c := New(srv.URL)
	if _, err := c.FetchSubmission(context.Background(), 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("404: got %v", err)
	}
	if err := c.CreateSubmission(context.Background(), map[string]any{}); !errors.Is(err, ErrConflict) {
		t.Fatalf("409: got %v", err)
	}
	if _, err := c.Me(context.Background()); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("401: got %v", err)
	}
	var serr *StatusError
	if err := c.UpdateSubmission(context.Background(), 2, nil); !errors.As(err, &serr) || serr.Status != http.StatusBadGateway || serr.Msg != "upstream sad" {
		t.Fatalf("502: got %v", err)
	}
}

func TestAuthAndSubmissionFlow(t *testing.T) {
	var sawToken string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method + " " + r.URL.Path {
		case "POST /login":
			json.NewEncoder(w).Encode(LoginResult{Token: "tok123", RefreshToken: "ref456"})
		case "GET /submission/user/7":
			sawToken = r.Header.Get("Authorization")
			json.NewEncoder(w).Encode(map[string]any{"full_name": "Sam", "user_id": 7})
		case "PUT /submission/user/7":
			var body map[string]any
			json.NewDecoder(r.Body).Decode(&body)
			if body["sector"] != "fintech" {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			json.NewEncoder(w).Encode(map[string]string{"message": "saved"})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := New(srv.URL)
	res, err := c.Login(context.Background(), "sam", "secret")
	if err != nil || res.Token != "tok123" {
		t.Fatalf("login: %+v err=%v", res, err)
	}
	c.SetToken(res.Token)

	wire, err := c.FetchSubmission(context.Background(), 7)
	if err != nil || wire["full_name"] != "Sam" {
		t.Fatalf("fetch: %v err=%v", wire, err)
	}
	if sawToken != "Bearer tok123" {
		t.Fatalf("token not sent: %q", sawToken)
	}
	if err := c.UpdateSubmission(context.Background(), 7, map[string]any{"sector": "fintech"}); err != nil {
		t.Fatal(err)
	}
}

func TestUploadDocument(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/submission/upload-document" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		f, hdr, err := r.FormFile("file")
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		f.Close()
		json.NewEncoder(w).Encode(map[string]string{"url": "/files/decks/" + hdr.Filename})
	}))
	defer srv.Close()

	deck := filepath.Join(t.TempDir(), "deck.pdf")
	if err := os.WriteFile(deck, []byte("%PDF-1.4"), 0o600); err != nil {
		t.Fatal(err)
	}
	c := New(srv.URL)
	url, err := c.UploadDocument(context.Background(), deck)
	if err != nil || url != "/files/decks/deck.pdf" {
		t.Fatalf("upload: url=%q err=%v", url, err)
	}
}
