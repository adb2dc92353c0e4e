package server

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func newTestServer(t *testing.T) (*Server, string) {
	t.Helper()
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "opera-uno"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "opera-uno", "opera-uno_back.png"), []byte("png bytes"), 0644); err != nil {
		t.Fatal(err)
	}

	s, err := New(root, log.NewWithOptions(io.Discard, log.Options{}))
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	return s, root
}

func TestNewRejectsMissingDir(t *testing.T) {
	if _, err := New(filepath.Join(t.TempDir(), "nope"), nil); err == nil {
		t.Error("missing dir should fail")
	}
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), `"status":"ok"`) {
		t.Errorf("body = %s", body)
	}
}

func TestServeFile(t *testing.T) {
	s, _ := newTestServer(t)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/files/opera-uno/opera-uno_back.png")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if got := resp.Header.Get("Cache-Control"); got != "public, max-age=3600" {
		t.Errorf("Cache-Control = %q", got)
	}
	body, _ := io.ReadAll(resp.Body)
	if string(body) != "png bytes" {
		t.Errorf("body = %q", body)
	}
}

func TestServeFileNotFound(t *testing.T) {
	s, _ := newTestServer(t)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/files/opera-uno/missing.png")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}

	// Directories are not listable
	resp, err = http.Get(srv.URL + "/files/opera-uno")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("directory status = %d, want 404", resp.StatusCode)
	}
}

func TestServeFileBlocksTraversal(t *testing.T) {
	s, root := newTestServer(t)

	// A secret outside the root must stay unreachable
	secret := filepath.Join(filepath.Dir(root), "secret.txt")
	if err := os.WriteFile(secret, []byte("nope"), 0644); err != nil {
		t.Fatal(err)
	}

	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	for _, path := range []string{
		"/files/../secret.txt",
		"/files/..%2Fsecret.txt",
		"/files/opera-uno/../../secret.txt",
	} {
		req, err := http.NewRequest(http.MethodGet, srv.URL+path, nil)
		if err != nil {
			t.Fatal(err)
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatal(err)
		}
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		if strings.Contains(string(body), "nope") {
			t.Errorf("%s leaked the secret", path)
		}
	}
}

func TestStartAndURL(t *testing.T) {
	s, root := newTestServer(t)
	if err := s.Start(); err != nil {
		t.Fatalf("Start error: %v", err)
	}
	defer s.Shutdown(context.Background())

	if s.Addr() == "" {
		t.Fatal("no bound address")
	}

	url, err := s.URL(filepath.Join(root, "opera-uno", "opera-uno_back.png"))
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.Get(url)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d for %s", resp.StatusCode, url)
	}

	if _, err := s.URL("/etc/passwd"); err == nil {
		t.Error("URL outside the root should fail")
	}
}
