package vrcsession

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/spf13/afero"
)

const (
	DefaultCookieFile = "cookies.json"

	acceptHeader = "application/json, */*"
)

func NewClient(cfg Config) *Client {
	if cfg.CookieFile == "" {
		cfg.CookieFile = DefaultCookieFile
	}
	if cfg.Fs == nil {
		cfg.Fs = afero.NewOsFs()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{}
	}

	headers := make(map[string]string, len(cfg.DefaultHeaders)+1)
	for k, v := range cfg.DefaultHeaders {
		headers[http.CanonicalHeaderKey(k)] = v
	}
	headers["Accept"] = acceptHeader
	cfg.DefaultHeaders = nil

	return &Client{
		config:  cfg,
		headers: headers,
		client:  client,
		jar:     make(map[string]CookieEntry),
	}
}

// Initialize restores the jar from the cookie file. A missing or unreadable
// file leaves the jar empty.
func (c *Client) Initialize() {
	jar, err := loadJar(c.config.Fs, c.config.CookieFile)
	if err != nil {
		jar = make(map[string]CookieEntry)
	}

	c.mu.Lock()
	c.jar = jar
	c.mu.Unlock()
}

// Get issues a GET to BaseURL+path and decodes the JSON response into v.
// v may be nil.
func (c *Client) Get(ctx context.Context, path string, header map[string]string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+path, nil)
	if err != nil {
		return errors.Wrap(err, "build request")
	}
	req.Header = c.generateHeaders(header)

	return c.do(req, v)
}

// Post issues a POST to BaseURL+path with body encoded as JSON and decodes
// the JSON response into v. v may be nil.
func (c *Client) Post(ctx context.Context, path string, header map[string]string, body, v any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return errors.Wrap(err, "encode request body")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return errors.Wrap(err, "build request")
	}
	req.Header = c.generateHeaders(header)
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, v)
}

func (c *Client) do(req *http.Request, v any) error {
	resp, err := c.client.Do(req)
	if err != nil {
		return &TransportError{Method: req.Method, URL: req.URL.String(), Err: err}
	}
	defer resp.Body.Close()

	// The jar is written before the status is inspected, so cookies sent
	// along with an error response survive.
	if err := c.storeCookies(resp); err != nil {
		return err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{
			Method: req.Method,
			URL:    req.URL.String(),
			Err:    errors.Wrapf(err, "read body of %s response", resp.Status),
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Header:     resp.Header.Clone(),
			Body:       body,
		}
	}

	if v == nil {
		var discard any
		v = &discard
	}
	if err := json.Unmarshal(body, v); err != nil {
		return &ParseError{What: "response body", Err: err}
	}

	return nil
}

func (c *Client) generateHeaders(additional map[string]string) http.Header {
	header := make(http.Header, len(c.headers)+len(additional)+1)
	for k, v := range copyHeaders(c.headers) {
		header.Set(k, v)
	}
	for k, v := range copyHeaders(additional) {
		header.Set(k, v)
	}

	c.mu.Lock()
	cookie := cookieHeader(c.jar, c.config.Now())
	c.mu.Unlock()

	if cookie != "" {
		header.Set("Cookie", cookie)
	} else {
		header.Del("Cookie")
	}

	return header
}

// Status returns a snapshot for diagnostics. It includes cookie values.
func (c *Client) Status() Status {
	return Status{
		BaseURL:        c.config.BaseURL,
		DefaultHeaders: copyHeaders(c.headers),
		Cookies:        c.Cookies(),
	}
}

// Cookies returns a copy of the jar, expired entries included.
func (c *Client) Cookies() map[string]CookieEntry {
	c.mu.Lock()
	defer c.mu.Unlock()

	jar := make(map[string]CookieEntry, len(c.jar))
	for k, v := range c.jar {
		jar[k] = v
	}
	return jar
}

func copyHeaders(h map[string]string) map[string]string {
	out := make(map[string]string, len(h)+1)
	for k, v := range h {
		out[k] = v
	}
	return out
}
