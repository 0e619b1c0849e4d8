// Package httpclient is the HTTP Request Provider: a configurable client
// whose calls can be issued through the callback contract of package
// provider and turned into streams by package rx.
//
// # Basic Usage
//
//	client, err := httpclient.New(httpclient.Config{
//	    BaseURL: "https://api.example.com",
//	    Timeout: 30 * time.Second,
//	})
//
//	resp, err := client.Do(ctx, httpclient.Request{
//	    Method: http.MethodGet,
//	    Path:   "/users/123",
//	})
//
// # Uploads
//
// Upload sends a multipart form and reports (transferred, total) byte counts
// as the transport reads the body:
//
//	resp, err := client.Upload(ctx, httpclient.Request{Method: http.MethodPost, Path: "/files"},
//	    &httpclient.MultipartBody{Files: []httpclient.FileField{{FieldName: "file", FileName: "a.bin", Data: data}}},
//	    func(p provider.Progress) { log.Printf("%d/%d", p.Transferred, p.Expected) },
//	)
//
// # Reactive use
//
// NewCaller and NewUploadCaller adapt the client to provider.Caller for any
// descriptor type implementing Target or UploadTarget:
//
//	uploads := rx.NewProgress[httpclient.Upload, *httpclient.Response](
//	    httpclient.NewUploadCaller[httpclient.Upload](client),
//	)
//
// Config.RateLimit throttles requests with a token bucket, Config.H2C
// switches the transport to cleartext HTTP/2 and Config.TLS sets a private CA
// or client certificate for https backends.
package httpclient
