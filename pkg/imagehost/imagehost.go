// Package imagehost uploads print files to a public image host.
//
// The marketplace pulls print files by URL, so every asset must live
// somewhere public before a product can be created. Uploads go as base64
// JSON, which preserves PNG transparency end to end. Successful uploads
// are memoized per path so a re-run never uploads the same file twice.
package imagehost

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/onlyonestudio/onlyone/pkg/config"
	"github.com/onlyonestudio/onlyone/pkg/errors"
	"github.com/onlyonestudio/onlyone/pkg/httputil"
)

const (
	userAgent   = "OnlyOne-Uploader/1.0"
	description = "OnlyOne print file"
	// batchPause spaces out consecutive uploads to stay under the host's
	// anonymous rate limit.
	batchPause = 1500 * time.Millisecond
)

// Client talks to an image host API.
type Client struct {
	http     *http.Client
	baseURL  string
	clientID string

	mu       sync.Mutex
	uploaded map[string]string
}

// NewClient creates an upload client. The client ID credential is required.
func NewClient(cfg config.ImageHostConfig) (*Client, error) {
	if cfg.ClientID == "" {
		return nil, errors.New(errors.ErrCodeUnauthorized, "image host client ID not configured (set IMGBB_CLIENT_ID)")
	}
	return &Client{
		http:     &http.Client{Timeout: 60 * time.Second},
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		clientID: cfg.ClientID,
		uploaded: make(map[string]string),
	}, nil
}

type uploadPayload struct {
	Image       string `json:"image"`
	Type        string `json:"type"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type uploadResponse struct {
	Success bool `json:"success"`
	Data    struct {
		Link  string `json:"link"`
		Error string `json:"error"`
	} `json:"data"`
}

// Upload sends one file and returns its public URL. An empty title
// defaults to the filename without extension. Transient failures retry
// with backoff before surfacing.
func (c *Client) Upload(ctx context.Context, path, title string) (string, error) {
	if url, ok := c.PublicURL(path); ok {
		return url, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeFileNotFound, err, "print file %q", path)
	}
	if title == "" {
		title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	payload, err := json.Marshal(uploadPayload{
		Image:       base64.StdEncoding.EncodeToString(data),
		Type:        "base64",
		Title:       title,
		Description: description,
	})
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "encoding upload payload")
	}

	var url string
	err = httputil.RetryWithBackoff(ctx, func() error {
		var err error
		url, err = c.doUpload(ctx, payload)
		return err
	})
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	c.uploaded[path] = url
	c.mu.Unlock()
	return url, nil
}

func (c *Client) doUpload(ctx context.Context, payload []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload", bytes.NewReader(payload))
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "building upload request")
	}
	req.Header.Set("Authorization", "Client-ID "+c.clientID)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", &httputil.RetryableError{Err: errors.Wrap(errors.ErrCodeNetwork, err, "upload request")}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return "", errors.New(errors.ErrCodeUnauthorized, "image host rejected the client ID (status %d)", resp.StatusCode)
	case resp.StatusCode == http.StatusTooManyRequests:
		return "", &httputil.RetryableError{Err: errors.New(errors.ErrCodeRateLimited, "image host rate limit hit")}
	case resp.StatusCode >= 500:
		return "", &httputil.RetryableError{Err: errors.New(errors.ErrCodeNetwork, "image host error (status %d)", resp.StatusCode)}
	default:
		return "", errors.New(errors.ErrCodeUpload, "upload failed with status %d", resp.StatusCode)
	}

	var result uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", errors.Wrap(errors.ErrCodeUpload, err, "decoding upload response")
	}
	if !result.Success {
		msg := result.Data.Error
		if msg == "" {
			msg = "upload rejected"
		}
		return "", errors.New(errors.ErrCodeUpload, "image host: %s", msg)
	}
	if result.Data.Link == "" {
		return "", errors.New(errors.ErrCodeUpload, "image host returned an empty URL")
	}
	return result.Data.Link, nil
}

// UploadAll uploads files in order with a pause between them. It returns
// the URLs of the files that made it; failures are collected per file so
// one bad upload does not sink the batch.
func (c *Client) UploadAll(ctx context.Context, paths []string) (map[string]string, []error) {
	urls := make(map[string]string, len(paths))
	var failed []error

	batch := uuid.New().String()[:8]
	for i, path := range paths {
		title := fmt.Sprintf("onlyone_%s_%d", batch, i+1)

		url, err := c.Upload(ctx, path, title)
		if err != nil {
			failed = append(failed, errors.Wrap(errors.ErrCodeUpload, err, "uploading %q", filepath.Base(path)))
		} else {
			urls[path] = url
		}

		if i < len(paths)-1 {
			select {
			case <-ctx.Done():
				failed = append(failed, ctx.Err())
				return urls, failed
			case <-time.After(batchPause):
			}
		}
	}
	return urls, failed
}

// PublicURL returns the memoized URL for a previously uploaded path.
func (c *Client) PublicURL(path string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	url, ok := c.uploaded[path]
	return url, ok
}

// VerifyURL checks that an uploaded URL is still publicly reachable.
func (c *Client) VerifyURL(ctx context.Context, url string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return false
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}
