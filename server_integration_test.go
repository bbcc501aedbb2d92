package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
)

// helper to perform requests with auth token
func performRequest(r http.Handler, method, path string, body io.Reader, token string, contentType string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func setupTestServer(t *testing.T) *gin.Engine {
	// integration tests are opt-in. Set DB_DSN_TEST=1 and DB_DSN to run them.
	if os.Getenv("DB_DSN_TEST") != "1" {
		t.Skip("integration tests are disabled; set DB_DSN_TEST=1 to enable")
	}
	gin.SetMode(gin.TestMode)
	var err error
	cfg, err = loadConfig()
	if err != nil {
		t.Fatal(err)
	}
	cfg.UploadBase = t.TempDir()
	jwtSecret = []byte(cfg.JWTSecret)
	initDB()
	r := gin.Default()
	setupRoutes(r)
	return r
}

func TestFullFunnelFlow(t *testing.T) {
	r := setupTestServer(t)

	// 1. Register founder
	regBody, _ := json.Marshal(map[string]string{"username": "founder1@example.com", "password": "pass123"})
	resp := performRequest(r, http.MethodPost, "/register", bytes.NewBuffer(regBody), "", "application/json")
	if resp.Code != 200 && resp.Code != 409 {
		t.Fatalf("register failed status=%d body=%s", resp.Code, resp.Body.String())
	}

	// 2. Login
	resp = performRequest(r, http.MethodPost, "/login", bytes.NewBuffer(regBody), "", "application/json")
	if resp.Code != 200 {
		t.Fatalf("login failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	var loginResp map[string]any
	_ = json.Unmarshal(resp.Body.Bytes(), &loginResp)
	token, _ := loginResp["token"].(string)
	if token == "" {
		t.Fatalf("empty token in login response: %+v", loginResp)
	}

	// 3. Identity
	resp = performRequest(r, http.MethodGet, "/me", nil, token, "")
	if resp.Code != 200 {
		t.Fatalf("me failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	var me struct {
		UserID uint   `json:"user_id"`
		Role   string `json:"role"`
	}
	_ = json.Unmarshal(resp.Body.Bytes(), &me)
	if me.UserID == 0 || me.Role != "founder" {
		t.Fatalf("unexpected identity: %+v", me)
	}

	// 4. No submission yet: 404 is the "first visit" signal, not an error.
	resp = performRequest(r, http.MethodGet, fmt.Sprintf("/submission/user/%d", me.UserID), nil, token, "")
	if resp.Code != 404 {
		t.Fatalf("expected 404 before first save, got %d body=%s", resp.Code, resp.Body.String())
	}

	// 5. Create with the tab-1 payload
	tab1, _ := json.Marshal(map[string]string{
		"full_name": "Founder One", "startup_name": "Looply",
		"sector": "fintech", "has_pitch_deck": "no",
		"ignored_key": "must be dropped",
	})
	resp = performRequest(r, http.MethodPost, "/submission", bytes.NewBuffer(tab1), token, "application/json")
	if resp.Code != 200 {
		t.Fatalf("create failed status=%d body=%s", resp.Code, resp.Body.String())
	}

	// 6. Duplicate create conflicts so the client can fall back to update.
	resp = performRequest(r, http.MethodPost, "/submission", bytes.NewBuffer(tab1), token, "application/json")
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 on duplicate create, got %d", resp.Code)
	}

	// 7. Partial update with a later tab's payload
	tab2, _ := json.Marshal(map[string]string{"problem_statement": "expenses hurt", "solution": "one tap"})
	resp = performRequest(r, http.MethodPut, fmt.Sprintf("/submission/user/%d", me.UserID), bytes.NewBuffer(tab2), token, "application/json")
	if resp.Code != 200 {
		t.Fatalf("update failed status=%d body=%s", resp.Code, resp.Body.String())
	}

	// 8. Fetch merged record
	resp = performRequest(r, http.MethodGet, fmt.Sprintf("/submission/user/%d", me.UserID), nil, token, "")
	if resp.Code != 200 {
		t.Fatalf("get failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	var sub map[string]any
	_ = json.Unmarshal(resp.Body.Bytes(), &sub)
	if sub["full_name"] != "Founder One" || sub["problem_statement"] != "expenses hurt" {
		t.Fatalf("merged record wrong: %v", sub)
	}
	if _, leaked := sub["ignored_key"]; leaked {
		t.Fatal("unknown wire key leaked into the record")
	}

	// 9. Upload a deck (multipart) and see it linked
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	w, _ := mw.CreateFormFile("file", "deck.pdf")
	_, _ = w.Write([]byte("%PDF-1.4 fake deck"))
	_ = mw.Close()
	resp = performRequest(r, http.MethodPost, "/submission/upload-document", buf, token, mw.FormDataContentType())
	if resp.Code != 200 {
		t.Fatalf("upload failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	var up struct {
		URL string `json:"url"`
	}
	_ = json.Unmarshal(resp.Body.Bytes(), &up)
	if up.URL == "" {
		t.Fatalf("upload returned no url: %s", resp.Body.String())
	}
	resp = performRequest(r, http.MethodGet, fmt.Sprintf("/submission/user/%d", me.UserID), nil, token, "")
	_ = json.Unmarshal(resp.Body.Bytes(), &sub)
	if sub["pitch_deck_url"] != up.URL {
		t.Fatalf("deck not linked: %v", sub["pitch_deck_url"])
	}

	// 10. Delete the deck
	resp = performRequest(r, http.MethodDelete, fmt.Sprintf("/submission/user/%d/document", me.UserID), nil, token, "")
	if resp.Code != 200 {
		t.Fatalf("delete doc failed status=%d body=%s", resp.Code, resp.Body.String())
	}

	// 11. Unauthorized access to protected endpoint should be 401
	unauth := performRequest(r, http.MethodGet, fmt.Sprintf("/submission/user/%d", me.UserID), nil, "", "")
	if unauth.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", unauth.Code)
	}
}

func TestMigrateCommand(t *testing.T) {
	if os.Getenv("DB_DSN_TEST") != "1" {
		t.Skip("integration tests are disabled; set DB_DSN_TEST=1 to enable")
	}
	var err error
	cfg, err = loadConfig()
	if err != nil {
		t.Fatal(err)
	}
	initDB()
}
