package api

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// validate checks request payloads before they hit the wire, mirroring the
// server's binding rules so obvious mistakes fail fast.
var validate = validator.New()

// Client is the single outbound channel for every portal API call. Credential
// attachment and 401 interception are implemented here exactly once; the
// per-resource wrappers only shape URLs and payloads.
type Client struct {
	baseURL    string
	httpClient *http.Client
	transport  Transport
	log        zerolog.Logger

	mu             sync.Mutex
	onUnauthorized []func()
}

// New creates a new portal API client using the given credential transport.
func New(baseURL string, transport Transport, log zerolog.Logger) (*Client, error) {
	httpClient := &http.Client{
		Timeout: 30 * time.Second,
		// Skip TLS verification for self-signed certificates
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{
				InsecureSkipVerify: true,
			},
		},
	}

	if err := transport.Configure(httpClient); err != nil {
		return nil, err
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		transport:  transport,
		log:        log,
	}, nil
}

// SetHTTPClient sets a custom HTTP client
func (c *Client) SetHTTPClient(httpClient *http.Client) error {
	if err := c.transport.Configure(httpClient); err != nil {
		return err
	}
	c.httpClient = httpClient
	return nil
}

// OnUnauthorized registers an observer invoked whenever any response comes
// back 401. Observers signal de-authentication (session invalidation, the
// login redirect); the pipeline itself performs no navigation.
func (c *Client) OnUnauthorized(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onUnauthorized = append(c.onUnauthorized, fn)
}

func (c *Client) notifyUnauthorized() {
	c.mu.Lock()
	observers := make([]func(), len(c.onUnauthorized))
	copy(observers, c.onUnauthorized)
	c.mu.Unlock()

	for _, fn := range observers {
		fn()
	}
}

func (c *Client) url(path string, query url.Values) string {
	u := c.baseURL + "/api" + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// send issues a prepared request and applies the pipeline rules: 401 notifies
// the de-authentication observers and is returned as an error; every other
// non-2xx status propagates unchanged as *Error. No retries.
func (c *Client) send(req *http.Request) (*http.Response, error) {
	if err := c.transport.Prepare(req); err != nil {
		return nil, fmt.Errorf("failed to prepare request: %w", err)
	}

	c.log.Debug().
		Str("method", req.Method).
		Str("path", req.URL.Path).
		Msg("portal api request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		c.notifyUnauthorized()
		return nil, newError(resp.StatusCode, body)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, newError(resp.StatusCode, body)
	}

	return resp, nil
}

// do issues a JSON request and decodes a JSON response into out (when out is
// non-nil). All resource wrappers funnel through here.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(path, query), reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.send(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// download fetches a binary response (report output, CSV export) and returns
// the payload plus the server-suggested filename, if any.
func (c *Client) download(ctx context.Context, method, path string, query url.Values, body any) ([]byte, string, error) {
	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, "", fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(path, query), reader)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.send(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read response: %w", err)
	}

	filename := ""
	if cd := resp.Header.Get("Content-Disposition"); cd != "" {
		if _, params, err := mime.ParseMediaType(cd); err == nil {
			filename = params["filename"]
		}
	}

	return data, filename, nil
}
