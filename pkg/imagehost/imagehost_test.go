package imagehost

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/onlyonestudio/onlyone/pkg/config"
	"github.com/onlyonestudio/onlyone/pkg/errors"
)

func testClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	c, err := NewClient(config.ImageHostConfig{BaseURL: baseURL, ClientID: "test-id"})
	if err != nil {
		t.Fatalf("NewClient error: %v", err)
	}
	return c
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestNewClientRequiresClientID(t *testing.T) {
	if _, err := NewClient(config.ImageHostConfig{BaseURL: "https://x"}); err == nil {
		t.Error("missing client ID should fail")
	}
}

func TestUpload(t *testing.T) {
	content := []byte("fake png bytes")
	var gotAuth, gotTitle string
	var gotImage string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/upload" || r.Method != http.MethodPost {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")

		var payload struct {
			Image string `json:"image"`
			Type  string `json:"type"`
			Title string `json:"title"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatal(err)
		}
		gotImage = payload.Image
		gotTitle = payload.Title
		if payload.Type != "base64" {
			t.Errorf("type = %q, want base64", payload.Type)
		}

		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data":    map[string]string{"link": "https://i.example.com/abc.png"},
		})
	}))
	defer srv.Close()

	c := testClient(t, srv.URL)
	path := writeFile(t, "cavallo_front_light.png", content)

	url, err := c.Upload(context.Background(), path, "")
	if err != nil {
		t.Fatalf("Upload error: %v", err)
	}
	if url != "https://i.example.com/abc.png" {
		t.Errorf("url = %q", url)
	}
	if gotAuth != "Client-ID test-id" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotTitle != "cavallo_front_light" {
		t.Errorf("default title = %q, want filename stem", gotTitle)
	}
	if gotImage != base64.StdEncoding.EncodeToString(content) {
		t.Error("image should be base64 of the file contents")
	}
}

func TestUploadMemoizesURL(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data":    map[string]string{"link": "https://i.example.com/abc.png"},
		})
	}))
	defer srv.Close()

	c := testClient(t, srv.URL)
	path := writeFile(t, "art.png", []byte("x"))

	for i := 0; i < 3; i++ {
		if _, err := c.Upload(context.Background(), path, "t"); err != nil {
			t.Fatal(err)
		}
	}
	if calls != 1 {
		t.Errorf("server hit %d times, want 1 (memoized)", calls)
	}

	if url, ok := c.PublicURL(path); !ok || url == "" {
		t.Error("PublicURL should return the memoized URL")
	}
}

func TestUploadRetriesServerErrors(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 2 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data":    map[string]string{"link": "https://i.example.com/abc.png"},
		})
	}))
	defer srv.Close()

	c := testClient(t, srv.URL)
	path := writeFile(t, "art.png", []byte("x"))

	if _, err := c.Upload(context.Background(), path, "t"); err != nil {
		t.Fatalf("Upload should recover from a transient 502: %v", err)
	}
	if calls != 2 {
		t.Errorf("server hit %d times, want 2", calls)
	}
}

func TestUploadFailsFastOnUnauthorized(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := testClient(t, srv.URL)
	path := writeFile(t, "art.png", []byte("x"))

	_, err := c.Upload(context.Background(), path, "t")
	if !errors.Is(err, errors.ErrCodeUnauthorized) {
		t.Errorf("error = %v, want UNAUTHORIZED", err)
	}
	if calls != 1 {
		t.Errorf("server hit %d times, want 1 (no retry on auth failure)", calls)
	}
}

func TestUploadRejectedByHost(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"success": false,
			"data":    map[string]string{"error": "file too large"},
		})
	}))
	defer srv.Close()

	c := testClient(t, srv.URL)
	path := writeFile(t, "art.png", []byte("x"))

	_, err := c.Upload(context.Background(), path, "t")
	if !errors.Is(err, errors.ErrCodeUpload) {
		t.Errorf("error = %v, want UPLOAD_FAILED", err)
	}
}

func TestUploadMissingFile(t *testing.T) {
	c := testClient(t, "https://unused.example.com")
	_, err := c.Upload(context.Background(), filepath.Join(t.TempDir(), "nope.png"), "t")
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestVerifyURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodHead {
			t.Errorf("method = %s, want HEAD", r.Method)
		}
		if r.URL.Path == "/gone.png" {
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := testClient(t, srv.URL)
	if !c.VerifyURL(context.Background(), srv.URL+"/ok.png") {
		t.Error("reachable URL should verify")
	}
	if c.VerifyURL(context.Background(), srv.URL+"/gone.png") {
		t.Error("404 URL should not verify")
	}
}
