package probe

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/okian/happiness/pkg/logger"
)

// HTTPClient wraps http.Client with a base URL and request counting.
type HTTPClient struct {
	client   *http.Client
	baseURL  string
	verbose  bool
	requests atomic.Int64
}

func newHTTPClient(baseURL string, timeout time.Duration, verbose bool) *HTTPClient {
	return &HTTPClient{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
		verbose: verbose,
	}
}

// response is a fully read reply.
type response struct {
	status      int
	contentType string
	body        []byte
}

// get performs a GET of path with query q and reads the whole body.
func (c *HTTPClient) get(ctx context.Context, path string, q url.Values) (*response, error) {
	target := c.baseURL + path
	if len(q) > 0 {
		target += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	id := uuid.NewString()
	req.Header.Set("X-Request-ID", id)

	c.requests.Add(1)
	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if c.verbose {
		logger.Get().Debug(ctx, "probe request",
			logger.String("url", target),
			logger.Int("status", resp.StatusCode),
			logger.String("requestID", id),
			logger.Duration("took", time.Since(start)),
		)
	}
	return &response{status: resp.StatusCode, contentType: resp.Header.Get("Content-Type"), body: body}, nil
}

// getJSON expects 200 and decodes the body into v.
func (c *HTTPClient) getJSON(ctx context.Context, path string, q url.Values, v any) error {
	resp, err := c.get(ctx, path, q)
	if err != nil {
		return err
	}
	if resp.status != http.StatusOK {
		return fmt.Errorf("GET %s: status %d: %s", path, resp.status, resp.body)
	}
	if err := json.Unmarshal(resp.body, v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// Requests returns the number of requests sent so far.
func (c *HTTPClient) Requests() int { return int(c.requests.Load()) }
