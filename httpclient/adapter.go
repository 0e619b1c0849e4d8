package httpclient

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/net/http2"
	"golang.org/x/time/rate"

	"github.com/kbukum/rxhttp/errors"
	"github.com/kbukum/rxhttp/logger"
	"github.com/kbukum/rxhttp/observability"
	"github.com/kbukum/rxhttp/provider"
	"github.com/kbukum/rxhttp/version"
)

// HeaderRequestID carries the per-request id. It is set on every request
// that does not already have one.
const HeaderRequestID = "X-Request-ID"

// Adapter is the HTTP Request Provider. It is a blocking
// provider.Progressive[Request, *Response]; use NewCaller or NewUploadCaller
// to issue it through the callback contract consumed by package rx.
type Adapter struct {
	httpClient *http.Client
	config     Config
	limiter    *rate.Limiter
	log        *logger.Logger
	metrics    *observability.Metrics
	closed     atomic.Bool
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithLogger sets the adapter logger. Requests are logged at debug level.
func WithLogger(log *logger.Logger) Option {
	return func(a *Adapter) {
		a.log = log
	}
}

// WithMetrics records request counts, durations and uploaded bytes.
func WithMetrics(m *observability.Metrics) Option {
	return func(a *Adapter) {
		a.metrics = m
	}
}

// WithTransport replaces the transport built from Config.
func WithTransport(rt http.RoundTripper) Option {
	return func(a *Adapter) {
		a.httpClient.Transport = rt
	}
}

// New creates a new HTTP adapter with the given configuration.
func New(cfg Config, opts ...Option) (*Adapter, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	transport, err := newTransport(cfg)
	if err != nil {
		return nil, err
	}

	a := &Adapter{
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   cfg.Timeout,
		},
		config: cfg,
	}
	if cfg.RateLimit.Enabled() {
		a.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit.RPS), cfg.RateLimit.Burst)
	}

	for _, opt := range opts {
		opt(a)
	}
	if a.log == nil {
		a.log = logger.NewNop()
	}
	a.log = a.log.WithComponent("httpclient").WithFields(logger.Fields(logger.FieldProvider, cfg.Name))

	return a, nil
}

func newTransport(cfg Config) (http.RoundTripper, error) {
	if cfg.H2C {
		return &http2.Transport{
			AllowHTTP: true,
			DialTLSContext: func(ctx context.Context, network, addr string, _ *tls.Config) (net.Conn, error) {
				var d net.Dialer
				return d.DialContext(ctx, network, addr)
			},
		}, nil
	}
	t := http.DefaultTransport.(*http.Transport).Clone()
	tlsCfg, err := cfg.TLS.Build()
	if err != nil {
		return nil, err
	}
	if tlsCfg != nil {
		t.TLSClientConfig = tlsCfg
	}
	return t, nil
}

// Do executes an HTTP request and returns the complete response. Non-2xx
// statuses return the response together with a classified *Error.
func (a *Adapter) Do(ctx context.Context, req Request) (*Response, error) {
	return a.execute(ctx, req, nil, nil)
}

// Upload sends form as the multipart body of req and reports upload progress
// as the transport consumes the body. onProgress may be nil and may be called
// from a transport goroutine.
func (a *Adapter) Upload(ctx context.Context, req Request, form *MultipartBody, onProgress provider.ProgressFunc) (*Response, error) {
	if form == nil {
		return nil, errors.MissingField("form")
	}
	if err := form.validate(); err != nil {
		return nil, err
	}
	return a.execute(ctx, req, form, onProgress)
}

// Execute implements provider.RequestResponse. A *MultipartBody in req.Body
// is sent as an upload.
func (a *Adapter) Execute(ctx context.Context, req Request) (*Response, error) {
	return a.ExecuteWithProgress(ctx, req, nil)
}

// ExecuteWithProgress implements provider.Progressive. Progress is only
// reported for multipart bodies.
func (a *Adapter) ExecuteWithProgress(ctx context.Context, req Request, onProgress provider.ProgressFunc) (*Response, error) {
	if form, ok := req.Body.(*MultipartBody); ok {
		req.Body = nil
		return a.Upload(ctx, req, form, onProgress)
	}
	return a.Do(ctx, req)
}

func (a *Adapter) execute(ctx context.Context, req Request, form *MultipartBody, onProgress provider.ProgressFunc) (*Response, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	if a.closed.Load() {
		return nil, errors.ServiceUnavailable(a.config.Name)
	}

	requestID := req.Headers[HeaderRequestID]
	if requestID == "" {
		requestID = uuid.NewString()
	}
	ctx = logger.ContextWithRequestID(ctx, requestID)
	log := a.log.WithContext(ctx)

	spanName := observability.SpanHTTPRequest
	if form != nil {
		spanName = observability.SpanHTTPUpload
	}
	ctx, op := observability.StartOperation(ctx, a.metrics, a.config.Name, req.Method+" "+req.Path, requestID, spanName,
		attribute.String(observability.AttrHTTPMethod, req.Method),
		attribute.String(observability.AttrHTTPURL, a.resolveURL(req.Path)),
	)

	resp, sent, err := a.roundTrip(ctx, req, requestID, form, onProgress)

	status := "error"
	if resp != nil {
		status = strconv.Itoa(resp.StatusCode)
		op.Span().SetAttributes(attribute.Int(observability.AttrHTTPStatus, resp.StatusCode))
	}
	if form != nil {
		op.Span().SetAttributes(attribute.Int64(observability.AttrBytesSent, sent))
		if a.metrics != nil {
			a.metrics.RecordUploadBytes(ctx, a.config.Name, sent)
		}
	}
	if err != nil && a.metrics != nil {
		a.metrics.RecordError(ctx, errorType(err), "httpclient")
	}
	op.End(ctx, status, err)

	fields := logger.DurationFields(op.Name, op.Elapsed())
	fields[logger.FieldStatus] = status
	if err != nil {
		fields[logger.FieldError] = err.Error()
		log.Debug("http request failed", fields)
	} else {
		log.Debug("http request completed", fields)
	}
	return resp, err
}

// roundTrip sends one request and reads the whole response. It also returns
// the number of upload body bytes handed to the transport.
func (a *Adapter) roundTrip(ctx context.Context, req Request, requestID string, form *MultipartBody, onProgress provider.ProgressFunc) (*Response, int64, error) {
	if a.limiter != nil {
		if err := a.limiter.Wait(ctx); err != nil {
			if ctx.Err() != nil {
				return nil, 0, transportError(ctx, err)
			}
			return nil, 0, &Error{Code: ErrCodeRateLimit, Message: err.Error(), Err: err}
		}
	}

	httpReq, counter, err := a.buildRequest(ctx, req, form, onProgress)
	if err != nil {
		return nil, 0, err
	}
	httpReq.Header.Set(HeaderRequestID, requestID)

	sent := func() int64 {
		if counter == nil {
			return 0
		}
		return counter.Sent()
	}

	resp, err := a.httpClient.Do(httpReq)
	if err != nil {
		return nil, sent(), transportError(ctx, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, sent(), transportError(ctx, fmt.Errorf("read response body: %w", err))
	}

	result := &Response{
		StatusCode: resp.StatusCode,
		Headers:    flattenHeaders(resp.Header),
		Body:       body,
		Proto:      resp.Proto,
	}
	if classErr := ClassifyStatusCode(resp.StatusCode, body); classErr != nil {
		return result, sent(), classErr
	}
	return result, sent(), nil
}

// buildRequest constructs an *http.Request from the adapter config and request.
func (a *Adapter) buildRequest(ctx context.Context, req Request, form *MultipartBody, onProgress provider.ProgressFunc) (*http.Request, *progressReader, error) {
	var (
		body        io.Reader
		contentType string
		length      int64 = -1
		counter     *progressReader
	)
	switch {
	case form != nil:
		encoded, ct, err := form.encode()
		if err != nil {
			return nil, nil, invalidRequest("encode multipart body: %v", err)
		}
		length = encoded.Size()
		counter = newProgressReader(encoded, length, onProgress)
		body, contentType = counter, ct
	default:
		var err error
		body, contentType, err = encodeBody(req.Body)
		if err != nil {
			return nil, nil, invalidRequest("encode body: %v", err)
		}
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, a.resolveURL(req.Path), body)
	if err != nil {
		return nil, nil, invalidRequest("create request: %v", err)
	}
	if length >= 0 {
		httpReq.ContentLength = length
	}

	if len(req.Query) > 0 {
		q := httpReq.URL.Query()
		for k, v := range req.Query {
			q.Set(k, v)
		}
		httpReq.URL.RawQuery = q.Encode()
	}

	httpReq.Header.Set("User-Agent", version.UserAgent())
	for k, v := range a.config.Headers {
		httpReq.Header.Set(k, v)
	}
	// Request headers override defaults.
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}
	if form != nil {
		httpReq.Header.Set("Content-Type", contentType)
	} else if body != nil && httpReq.Header.Get("Content-Type") == "" && contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}

	return httpReq, counter, nil
}

func (a *Adapter) resolveURL(path string) string {
	if a.config.BaseURL == "" || strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return strings.TrimRight(a.config.BaseURL, "/") + "/" + strings.TrimLeft(path, "/")
}

// encodeBody converts a body value into an io.Reader and content type.
func encodeBody(body any) (io.Reader, string, error) {
	if body == nil {
		return nil, "", nil
	}
	switch v := body.(type) {
	case io.Reader:
		return v, "", nil
	case []byte:
		return bytes.NewReader(v), "", nil
	case string:
		return strings.NewReader(v), "text/plain", nil
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return nil, "", err
		}
		return bytes.NewReader(data), "application/json", nil
	}
}

// flattenHeaders converts multi-value headers to single-value.
func flattenHeaders(h http.Header) map[string]string {
	result := make(map[string]string, len(h))
	for k, v := range h {
		if len(v) > 0 {
			result[k] = v[0]
		}
	}
	return result
}

func errorType(err error) string {
	if code, ok := CodeOf(err); ok {
		return code.String()
	}
	if appErr, ok := errors.AsAppError(err); ok {
		return string(appErr.Code)
	}
	return "unknown"
}

// Name implements provider.Provider.
func (a *Adapter) Name() string {
	return a.config.Name
}

// IsAvailable implements provider.Provider. A closed adapter is unavailable.
func (a *Adapter) IsAvailable(_ context.Context) bool {
	return !a.closed.Load()
}

// Close releases idle connections and rejects further requests. Implements
// provider.Closeable.
func (a *Adapter) Close(_ context.Context) error {
	if !a.closed.CompareAndSwap(false, true) {
		return nil
	}
	a.httpClient.CloseIdleConnections()
	a.log.Debug("http adapter closed")
	return nil
}

// Config returns the adapter's effective configuration.
func (a *Adapter) Config() Config {
	return a.config
}

