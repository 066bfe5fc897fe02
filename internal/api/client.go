package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"auctioneer/internal/model"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// DefaultBaseURL is used when no API URL is configured.
const DefaultBaseURL = "http://localhost:4941/api/v1"

// AuthHeader carries the session token on authenticated requests.
const AuthHeader = "X-Authorization"

// Options configures a Client. Zero values fall back to defaults.
type Options struct {
	BaseURL       string
	Timeout       time.Duration
	RateLimit     float64 // requests per second, 0 disables throttling
	Burst         int
	CategoriesTTL time.Duration // 0 disables the categories cache
	Logger        logrus.FieldLogger
	HTTPClient    *http.Client
}

// Client wraps the marketplace REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	cache      *cache.Cache
	log        logrus.FieldLogger
}

// NewClient creates a new marketplace API client.
func NewClient(opts Options) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		httpClient: opts.HTTPClient,
		log:        opts.Logger,
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 5 * time.Second
		}
		c.httpClient = &http.Client{Timeout: timeout}
	}
	if c.log == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		c.log = discard
	}
	if opts.RateLimit > 0 {
		burst := opts.Burst
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}
	if opts.CategoriesTTL > 0 {
		c.cache = cache.New(opts.CategoriesTTL, 2*opts.CategoriesTTL)
	}
	return c
}

// BaseURL returns the API root every path is resolved against.
func (c *Client) BaseURL() string {
	return c.baseURL
}

type request struct {
	method      string
	path        string
	query       url.Values
	token       string
	body        io.Reader
	contentType string
}

// do sends r and returns the response when the status is 2xx. Any other
// status is closed and converted to an *Error.
func (c *Client) do(ctx context.Context, r request) (*http.Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, unexpected(fmt.Errorf("rate limiter: %w", err))
		}
	}

	reqURL := c.baseURL + r.path
	if len(r.query) > 0 {
		reqURL += "?" + r.query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, r.method, reqURL, r.body)
	if err != nil {
		return nil, unexpected(fmt.Errorf("request creation failed: %w", err))
	}

	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)
	req.Header.Set("Accept", "application/json")
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	if r.token != "" {
		req.Header.Set(AuthHeader, r.token)
	}

	entry := c.log.WithFields(logrus.Fields{
		"method":     r.method,
		"path":       r.path,
		"request_id": requestID,
	})

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		entry.WithError(err).Warn("Request failed")
		return nil, unexpected(fmt.Errorf("network error: %w", err))
	}

	entry = entry.WithFields(logrus.Fields{
		"status":   resp.StatusCode,
		"duration": time.Since(start),
	})

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		resp.Body.Close()
		apiErr := statusError(resp)
		if apiErr.kind == model.KindNotFound {
			entry.Debug("Resource not found")
		} else {
			entry.Warn("Request rejected")
		}
		return nil, apiErr
	}

	entry.Debug("Request completed")
	return resp, nil
}

// getJSON issues a GET and decodes the body into out.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, token string, out any) error {
	resp, err := c.do(ctx, request{method: http.MethodGet, path: path, query: query, token: token})
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return decode(resp.Body, out)
}

// sendJSON issues a request with a JSON body. out may be nil when the
// response body is not needed.
func (c *Client) sendJSON(ctx context.Context, method, path, token string, in, out any) error {
	var body io.Reader
	contentType := ""
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return unexpected(fmt.Errorf("JSON encode error: %w", err))
		}
		body = bytes.NewReader(data)
		contentType = "application/json"
	}

	resp, err := c.do(ctx, request{method: method, path: path, token: token, body: body, contentType: contentType})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	return decode(resp.Body, out)
}

func decode(r io.Reader, out any) error {
	if err := json.NewDecoder(r).Decode(out); err != nil {
		return unexpected(fmt.Errorf("JSON decode error: %w", err))
	}
	return nil
}
