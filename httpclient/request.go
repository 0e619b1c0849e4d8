package httpclient

import (
	"net/http"

	"github.com/kbukum/rxhttp/validation"
)

// Request describes an outbound HTTP request.
type Request struct {
	// Method is the HTTP method (GET, POST, PUT, PATCH, DELETE, etc).
	Method string
	// Path is appended to the client's BaseURL. Can be a full URL if BaseURL is empty.
	Path string
	// Headers are request-specific headers (merged with client defaults).
	Headers map[string]string
	// Query are URL query parameters.
	Query map[string]string
	// Body is the request body. Accepts io.Reader, []byte, string, or any value
	// that will be JSON-encoded.
	Body any
}

// HTTPRequest implements Target.
func (r Request) HTTPRequest() Request { return r }

func (r Request) validate() error {
	return validation.New().
		Required("method", r.Method).
		Required("path", r.Path).
		Err()
}

// Response is the result of an HTTP request.
type Response struct {
	// StatusCode is the HTTP status code.
	StatusCode int
	// Headers are the response headers.
	Headers map[string]string
	// Body is the raw response body.
	Body []byte
	// Proto is the protocol the response arrived over, e.g. "HTTP/2.0".
	Proto string
}

// IsSuccess returns true if the status code is 2xx.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// IsError returns true if the status code is 4xx or 5xx.
func (r *Response) IsError() bool {
	return r.StatusCode >= 400
}

// Target is any descriptor that resolves to an HTTP request. Domain types
// implement it to be issued through NewCaller.
type Target interface {
	HTTPRequest() Request
}

// UploadTarget is a Target whose body is a multipart form. Its request Body
// is ignored; MultipartBody is sent instead.
type UploadTarget interface {
	Target
	MultipartBody() *MultipartBody
}

// Upload is the ready-made UploadTarget: a request plus its multipart form.
// Method defaults to POST.
type Upload struct {
	Request
	Form *MultipartBody
}

// HTTPRequest implements Target.
func (u Upload) HTTPRequest() Request {
	req := u.Request
	if req.Method == "" {
		req.Method = http.MethodPost
	}
	return req
}

// MultipartBody implements UploadTarget.
func (u Upload) MultipartBody() *MultipartBody { return u.Form }
