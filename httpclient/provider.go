package httpclient

import (
	"context"

	"github.com/kbukum/rxhttp/provider"
)

var (
	_ provider.Progressive[Request, *Response] = (*Adapter)(nil)
	_ provider.Closeable                       = (*Adapter)(nil)
	_ Target                                   = Request{}
	_ UploadTarget                             = Upload{}
)

// NewCaller issues any Target through a as a callback-based provider.Caller,
// ready for rx.New. Middlewares wrap the adapter in order, outermost first.
func NewCaller[T Target](a *Adapter, middlewares ...provider.Middleware[Request, *Response]) *provider.AsyncCaller[T, *Response] {
	return newCaller[T](a, func(t T) Request { return t.HTTPRequest() }, middlewares)
}

// NewUploadCaller is NewCaller for multipart uploads. Calls report upload
// progress, so the result can back rx.NewProgress.
func NewUploadCaller[T UploadTarget](a *Adapter, middlewares ...provider.Middleware[Request, *Response]) *provider.AsyncCaller[T, *Response] {
	return newCaller[T](a, func(t T) Request {
		req := t.HTTPRequest()
		req.Body = t.MultipartBody()
		return req
	}, middlewares)
}

func newCaller[T any](a *Adapter, resolve func(T) Request, middlewares []provider.Middleware[Request, *Response]) *provider.AsyncCaller[T, *Response] {
	chained := provider.ChainProgressive[Request, *Response](a, middlewares...)
	adapted := provider.Adapt[T, *Response, Request, *Response](chained, a.Name(),
		func(_ context.Context, t T) (Request, error) { return resolve(t), nil },
		func(resp *Response) (*Response, error) { return resp, nil },
	)
	return provider.Async(adapted, provider.WithAsyncLogger(a.log))
}
