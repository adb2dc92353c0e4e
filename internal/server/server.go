// Package server exposes the artifact directory over HTTP.
//
// The marketplace pulls print files by URL, so during local runs the
// artifact tree can be served directly and tunneled instead of uploading
// every intermediate file. The server binds a free loopback port and only
// ever serves files under its root.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"github.com/onlyonestudio/onlyone/pkg/errors"
)

// Server serves one directory tree of print artifacts.
type Server struct {
	root   string
	logger *log.Logger

	srv  *http.Server
	addr string
}

// New creates a server rooted at dir. The directory must exist.
func New(dir string, logger *log.Logger) (*Server, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "resolving %q", dir)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "artifact dir %q", dir)
	}
	if !info.IsDir() {
		return nil, errors.New(errors.ErrCodeInvalidPath, "%q is not a directory", dir)
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Server{root: abs, logger: logger}, nil
}

// Handler builds the router. Exposed separately so tests can drive it
// without binding a port.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(s.logRequests)

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok", "root": filepath.Base(s.root)})
	})
	r.Get("/files/*", s.serveFile)

	return r
}

func (s *Server) serveFile(w http.ResponseWriter, req *http.Request) {
	rel := chi.URLParam(req, "*")

	// Reject anything that could climb out of the root.
	clean := filepath.Clean("/" + rel)
	path := filepath.Join(s.root, clean)
	if !strings.HasPrefix(path, s.root+string(filepath.Separator)) {
		http.Error(w, "invalid path", http.StatusBadRequest)
		return
	}

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		http.NotFound(w, req)
		return
	}

	// Print files never change once written, the marketplace may cache
	// them aggressively.
	w.Header().Set("Cache-Control", "public, max-age=3600")
	http.ServeFile(w, req, path)
}

// logRequests records method, path, status, and duration per request.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, req)
		s.logger.Debug("request",
			"method", req.Method,
			"path", req.URL.Path,
			"status", rec.status,
			"duration", time.Since(start))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Start binds a free loopback port and serves in the background until
// Shutdown is called.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return errors.Wrap(errors.ErrCodeNetwork, err, "binding artifact server")
	}
	s.addr = ln.Addr().String()
	s.srv = &http.Server{Handler: s.Handler()}

	go func() {
		if err := s.srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.logger.Error("artifact server stopped", "err", err)
		}
	}()

	s.logger.Info("artifact server listening", "addr", s.addr, "root", s.root)
	return nil
}

// Addr returns the bound address after Start.
func (s *Server) Addr() string { return s.addr }

// URL returns the public URL of a file inside the root. The path may be
// absolute (inside the root) or relative to it.
func (s *Server) URL(path string) (string, error) {
	rel := path
	if filepath.IsAbs(path) {
		var err error
		rel, err = filepath.Rel(s.root, path)
		if err != nil || strings.HasPrefix(rel, "..") {
			return "", errors.New(errors.ErrCodeInvalidPath, "%q is outside the artifact root", path)
		}
	}
	return fmt.Sprintf("http://%s/files/%s", s.addr, filepath.ToSlash(rel)), nil
}

// Shutdown stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}
