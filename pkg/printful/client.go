// Package printful is a client for the Printful store API.
//
// Every call carries the store credentials and passes through a windowed
// rate limiter before touching the wire. Responses come wrapped in a
// {code, result, error} envelope which the client unwraps into typed
// results and coded errors.
package printful

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/onlyonestudio/onlyone/pkg/config"
	"github.com/onlyonestudio/onlyone/pkg/errors"
	"github.com/onlyonestudio/onlyone/pkg/httputil"
)

// Client talks to the marketplace API for one store.
type Client struct {
	http    *http.Client
	baseURL string
	apiKey  string
	storeID string
	limiter *limiter

	mu      sync.Mutex
	catalog map[int][]CatalogVariant
}

// NewClient builds a client from config. The API key and store ID are
// required; both come from the environment.
func NewClient(cfg config.PrintfulConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New(errors.ErrCodeUnauthorized, "marketplace API key not configured (set PRINTFUL_API_KEY)")
	}
	if cfg.StoreID == "" {
		return nil, errors.New(errors.ErrCodeUnauthorized, "marketplace store ID not configured (set PRINTFUL_STORE_ID)")
	}
	return &Client{
		http:    &http.Client{Timeout: 30 * time.Second},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		storeID: cfg.StoreID,
		limiter: newLimiter(cfg.RateLimit, cfg.RatePause),
		catalog: make(map[int][]CatalogVariant),
	}, nil
}

type envelope struct {
	Code   int             `json:"code"`
	Result json.RawMessage `json:"result"`
	Error  struct {
		Message string `json:"message"`
	} `json:"error"`
}

// doRequest performs one API call and decodes the result envelope into out.
// Transient failures are retried with backoff.
func (c *Client) doRequest(ctx context.Context, method, path string, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "encoding %s %s body", method, path)
		}
	}

	return httputil.RetryWithBackoff(ctx, func() error {
		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "building %s %s", method, path)
		}
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
		req.Header.Set("X-PF-Store-Id", c.storeID)
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return &httputil.RetryableError{Err: errors.Wrap(errors.ErrCodeNetwork, err, "%s %s", method, path)}
		}
		defer resp.Body.Close()

		if err := c.checkStatus(resp, method, path); err != nil {
			return err
		}
		if out == nil {
			return nil
		}

		var env envelope
		if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
			return errors.Wrap(errors.ErrCodeNetwork, err, "decoding %s %s response", method, path)
		}
		if err := json.Unmarshal(env.Result, out); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "decoding %s %s result", method, path)
		}
		return nil
	})
}

func (c *Client) checkStatus(resp *http.Response, method, path string) error {
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return errors.New(errors.ErrCodeUnauthorized, "marketplace rejected the credentials (status %d)", resp.StatusCode)
	case resp.StatusCode == http.StatusNotFound:
		return errors.New(errors.ErrCodeEntryNotFound, "%s %s: not found", method, path)
	case resp.StatusCode == http.StatusTooManyRequests:
		return &httputil.RetryableError{Err: errors.New(errors.ErrCodeRateLimited, "marketplace rate limit hit on %s %s", method, path)}
	case resp.StatusCode >= 500:
		return &httputil.RetryableError{Err: errors.New(errors.ErrCodeNetwork, "%s %s: server error (status %d)", method, path, resp.StatusCode)}
	default:
		msg := apiMessage(resp.Body)
		if msg == "" {
			msg = fmt.Sprintf("status %d", resp.StatusCode)
		}
		return errors.New(errors.ErrCodeNetwork, "%s %s: %s", method, path, msg)
	}
}

func apiMessage(body io.Reader) string {
	var env envelope
	if err := json.NewDecoder(body).Decode(&env); err != nil {
		return ""
	}
	return env.Error.Message
}

// StoreInfo fetches the connected store's details. Useful as a
// credentials check before a long run.
func (c *Client) StoreInfo(ctx context.Context) (*StoreInfo, error) {
	var info StoreInfo
	if err := c.limiter.wait(ctx); err != nil {
		return nil, err
	}
	if err := c.doRequest(ctx, http.MethodGet, "/stores/"+c.storeID, nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// CatalogVariants lists the color/size variants of a catalog product.
// Results are cached per product for the life of the client.
func (c *Client) CatalogVariants(ctx context.Context, productID int) ([]CatalogVariant, error) {
	c.mu.Lock()
	if variants, ok := c.catalog[productID]; ok {
		c.mu.Unlock()
		return variants, nil
	}
	c.mu.Unlock()

	if err := c.limiter.wait(ctx); err != nil {
		return nil, err
	}
	var result struct {
		Variants []CatalogVariant `json:"variants"`
	}
	if err := c.doRequest(ctx, http.MethodGet, fmt.Sprintf("/products/%d", productID), nil, &result); err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.catalog[productID] = result.Variants
	c.mu.Unlock()
	return result.Variants, nil
}

// CreateSyncProduct creates a store product with all its variants.
func (c *Client) CreateSyncProduct(ctx context.Context, req *SyncProductRequest) (*SyncProduct, error) {
	if len(req.SyncVariants) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "product %q has no variants", req.SyncProduct.Name)
	}
	if err := c.limiter.wait(ctx); err != nil {
		return nil, err
	}
	var created SyncProduct
	if err := c.doRequest(ctx, http.MethodPost, "/store/products", req, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// GetSyncProduct fetches one store product by ID.
func (c *Client) GetSyncProduct(ctx context.Context, id int64) (*SyncProduct, error) {
	if err := c.limiter.wait(ctx); err != nil {
		return nil, err
	}
	var result struct {
		SyncProduct SyncProduct `json:"sync_product"`
	}
	if err := c.doRequest(ctx, http.MethodGet, fmt.Sprintf("/store/products/%d", id), nil, &result); err != nil {
		return nil, err
	}
	return &result.SyncProduct, nil
}

// ListSyncProducts lists store products, newest first.
func (c *Client) ListSyncProducts(ctx context.Context, limit int) ([]SyncProduct, error) {
	if limit <= 0 {
		limit = 100
	}
	if err := c.limiter.wait(ctx); err != nil {
		return nil, err
	}
	var products []SyncProduct
	if err := c.doRequest(ctx, http.MethodGet, fmt.Sprintf("/store/products?limit=%d", limit), nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// Publish flips a store product from hidden draft to live.
func (c *Client) Publish(ctx context.Context, id int64) error {
	if err := c.limiter.wait(ctx); err != nil {
		return err
	}
	body := map[string]any{
		"sync_product": map[string]any{"is_ignored": false},
	}
	return c.doRequest(ctx, http.MethodPut, fmt.Sprintf("/store/products/%d", id), body, nil)
}

// DeleteSyncProduct removes a store product.
func (c *Client) DeleteSyncProduct(ctx context.Context, id int64) error {
	if err := c.limiter.wait(ctx); err != nil {
		return err
	}
	return c.doRequest(ctx, http.MethodDelete, fmt.Sprintf("/store/products/%d", id), nil, nil)
}

// TestImageURL checks that a print file URL serves an image the
// marketplace will be able to pull.
func (c *Client) TestImageURL(ctx context.Context, url string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return false
	}
	return strings.HasPrefix(resp.Header.Get("Content-Type"), "image/")
}
