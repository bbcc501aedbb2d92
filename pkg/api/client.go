// Package api is a thin HTTP client for the Pitch Tank platform API.
//
// Every call returns api.ErrNotFound, api.ErrConflict or
// api.ErrUnauthorized for the matching status codes so callers can
// branch with errors.Is; any other non-2xx status surfaces as a
// *StatusError carrying the server's error message.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Client talks to the platform API. Safe for concurrent use.
type Client struct {
	base  string
	token string
	http  *http.Client
}

// New returns a client for the given base URL ("http://host:port").
// Requests share a uniform 30-second timeout.
func New(base string) *Client {
	return &Client{
		base: strings.TrimRight(base, "/"),
		http: &http.Client{Timeout: 30 * time.Second},
	}
}

// SetToken installs the bearer token used on authenticated calls.
func (c *Client) SetToken(token string) { c.token = token }

// LoginResult is the token pair returned by Login.
type LoginResult struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token"`
}

// Identity describes the authenticated user.
type Identity struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

func (c *Client) Register(ctx context.Context, username, password string) error {
	return c.doJSON(ctx, http.MethodPost, "/register",
		map[string]string{"username": username, "password": password}, nil)
}

func (c *Client) Login(ctx context.Context, username, password string) (LoginResult, error) {
	var out LoginResult
	err := c.doJSON(ctx, http.MethodPost, "/login",
		map[string]string{"username": username, "password": password}, &out)
	return out, err
}

func (c *Client) Me(ctx context.Context) (Identity, error) {
	var out Identity
	err := c.doJSON(ctx, http.MethodGet, "/me", nil, &out)
	return out, err
}

// FetchSubmission returns the user's submission as a generic wire map,
// or ErrNotFound when none exists yet.
func (c *Client) FetchSubmission(ctx context.Context, userID uint) (map[string]any, error) {
	var out map[string]any
	err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/submission/user/%d", userID), nil, &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateSubmission(ctx context.Context, payload map[string]any) error {
	return c.doJSON(ctx, http.MethodPost, "/submission", payload, nil)
}

func (c *Client) UpdateSubmission(ctx context.Context, userID uint, payload map[string]any) error {
	return c.doJSON(ctx, http.MethodPut, fmt.Sprintf("/submission/user/%d", userID), payload, nil)
}

// UploadDocument uploads a pitch deck and returns its public URL.
func (c *Client) UploadDocument(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	part, err := mw.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, f); err != nil {
		return "", err
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/submission/upload-document", buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	var out struct {
		URL string `json:"url"`
	}
	if err := c.send(req, &out); err != nil {
		return "", err
	}
	return out.URL, nil
}

func (c *Client) DeleteDocument(ctx context.Context, userID uint) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/submission/user/%d/document", userID), nil, nil)
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("api: marshal request: %w", err)
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, rd)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req, out)
}

func (c *Client) send(req *http.Request, out any) error {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("api: decode response: %w", err)
	}
	return nil
}

func statusError(resp *http.Response) error {
	var body struct {
		Error string `json:"error"`
	}
	_ = json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&body)
	switch resp.StatusCode {
	case http.StatusNotFound:
		return fmt.Errorf("%s: %w", resp.Request.URL.Path, ErrNotFound)
	case http.StatusConflict:
		return fmt.Errorf("%s: %w", resp.Request.URL.Path, ErrConflict)
	case http.StatusUnauthorized:
		return fmt.Errorf("%s: %w", resp.Request.URL.Path, ErrUnauthorized)
	}
	return &StatusError{Status: resp.StatusCode, Msg: body.Error}
}
