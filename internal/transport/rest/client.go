package rest

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

	"github.com/google/uuid"
	"github.com/oapi-codegen/runtime"
	"go.uber.org/zap"

	logpkg "github.com/kailas-cloud/consultdesk/internal/logger"
	"github.com/kailas-cloud/consultdesk/internal/metrics"
)

const (
	apiPrefix       = "/api/v1"
	defaultTimeout  = 30 * time.Second
	maxResponseBody = 8 << 20
)

// Client is the HTTP binding of the consultation API.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	logger  *zap.Logger
}

// Config holds the client settings.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// New creates a client for the API rooted at cfg.BaseURL.
func New(cfg Config) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", cfg.BaseURL)
	}

	hc := cfg.HTTPClient
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		hc = &http.Client{Timeout: timeout}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{baseURL: base, http: hc, logger: logger}, nil
}

// endpoint joins path segments under the API prefix.
func (c *Client) endpoint(path string, query url.Values) string {
	u := *c.baseURL
	u.Path = c.baseURL.Path + apiPrefix + path
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// pathID styles an id as a simple path parameter.
func pathID(id int64) (string, error) {
	s, err := runtime.StyleParamWithLocation("simple", false, "id", runtime.ParamLocationPath, id)
	if err != nil {
		return "", fmt.Errorf("style path param: %w", err)
	}
	return s, nil
}

// formQuery styles named values as exploded form query parameters.
func formQuery(params map[string]any) (url.Values, error) {
	values := url.Values{}
	for name, v := range params {
		frag, err := runtime.StyleParamWithLocation("form", true, name, runtime.ParamLocationQuery, v)
		if err != nil {
			return nil, fmt.Errorf("style query param %s: %w", name, err)
		}
		parsed, err := url.ParseQuery(frag)
		if err != nil {
			return nil, fmt.Errorf("parse query param %s: %w", name, err)
		}
		for k, vs := range parsed {
			for _, v := range vs {
				values.Add(k, v)
			}
		}
	}
	return values, nil
}

// do sends one request and decodes a 2xx body into out (when non-nil).
// Every call records remote metrics and carries a fresh X-Request-ID.
func (c *Client) do(ctx context.Context, op, method, target string, in, out any) error {
	start := time.Now()
	err := c.roundTrip(ctx, method, target, in, out)
	duration := time.Since(start)

	metrics.RemoteRequestDuration.WithLabelValues(op).Observe(duration.Seconds())
	if err != nil {
		metrics.RemoteRequestsTotal.WithLabelValues(op, "error").Inc()
		metrics.RemoteErrorsTotal.WithLabelValues(op, errorClass(err)).Inc()
		logpkg.FromContext(ctx, c.logger).Debug("consultation api call failed",
			zap.String("op", op),
			zap.Duration("latency", duration),
			zap.Error(err),
		)
		return err
	}
	metrics.RemoteRequestsTotal.WithLabelValues(op, "success").Inc()
	return nil
}

func (c *Client) roundTrip(ctx context.Context, method, target string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return networkError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return networkError(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp.StatusCode, raw)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return malformedResponse(resp.StatusCode, err)
	}
	if v, ok := out.(validator); ok {
		if err := v.validate(); err != nil {
			return malformedResponse(resp.StatusCode, err)
		}
	}
	return nil
}
