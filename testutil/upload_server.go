package testutil

import (
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/kbukum/rxhttp/component"
)

// UploadedFile is one file part received by the UploadServer.
type UploadedFile struct {
	Field       string
	FileName    string
	ContentType string
	Data        []byte
}

// ReceivedUpload is one multipart request received by the UploadServer.
type ReceivedUpload struct {
	Fields map[string]string
	Files  []UploadedFile
	Header http.Header
}

// UploadServer is a gin-backed test HTTP server speaking HTTP/1.1 and
// cleartext HTTP/2. Routes:
//
//	POST /upload        records the multipart form, replies 201 {"files":n,"bytes":total}
//	GET  /echo          replies 200 with the request method, proto, query and headers
//	ANY  /status/:code  replies with the given status code
//	GET  /slow          blocks until the client goes away or the server stops
type UploadServer struct {
	mu      sync.Mutex
	server  *httptest.Server
	uploads []ReceivedUpload
	stopped chan struct{}
}

var (
	_ TestComponent         = (*UploadServer)(nil)
	_ component.Describable = (*UploadServer)(nil)
)

// NewUploadServer creates an UploadServer. Call Start before use.
func NewUploadServer() *UploadServer {
	return &UploadServer{}
}

// Name implements component.Component.
func (s *UploadServer) Name() string { return "upload-server" }

// Start implements component.Component.
func (s *UploadServer) Start(_ context.Context) error {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.POST("/upload", s.handleUpload)
	engine.GET("/echo", handleEcho)
	engine.Any("/status/:code", handleStatus)

	s.mu.Lock()
	defer s.mu.Unlock()
	stopped := make(chan struct{})
	s.stopped = stopped
	engine.GET("/slow", func(c *gin.Context) {
		select {
		case <-c.Request.Context().Done():
		case <-stopped:
		}
		c.String(http.StatusOK, "late")
	})

	s.server = httptest.NewServer(h2c.NewHandler(engine, &http2.Server{}))
	return nil
}

// Stop implements component.Component.
func (s *UploadServer) Stop(_ context.Context) error {
	s.mu.Lock()
	srv, stopped := s.server, s.stopped
	s.server, s.stopped = nil, nil
	s.mu.Unlock()

	if srv == nil {
		return nil
	}
	close(stopped)
	srv.CloseClientConnections()
	srv.Close()
	return nil
}

// Health implements component.Component.
func (s *UploadServer) Health(_ context.Context) component.Health {
	s.mu.Lock()
	defer s.mu.Unlock()
	status := component.StatusHealthy
	if s.server == nil {
		status = component.StatusUnhealthy
	}
	return component.Health{Name: s.Name(), Status: status}
}

// Describe implements component.Describable.
func (s *UploadServer) Describe() component.Description {
	return component.Description{Type: "test-server", Details: s.URL()}
}

// Reset forgets every recorded upload.
func (s *UploadServer) Reset(_ context.Context) error {
	s.mu.Lock()
	s.uploads = nil
	s.mu.Unlock()
	return nil
}

// URL returns the server base URL, or "" when stopped.
func (s *UploadServer) URL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.server == nil {
		return ""
	}
	return s.server.URL
}

// Uploads returns the uploads received so far.
func (s *UploadServer) Uploads() []ReceivedUpload {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ReceivedUpload, len(s.uploads))
	copy(out, s.uploads)
	return out
}

func (s *UploadServer) handleUpload(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	upload := ReceivedUpload{
		Fields: make(map[string]string, len(form.Value)),
		Header: c.Request.Header.Clone(),
	}
	for k, v := range form.Value {
		if len(v) > 0 {
			upload.Fields[k] = v[0]
		}
	}

	var total int
	for field, headers := range form.File {
		for _, fh := range headers {
			data, err := readPart(fh)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			total += len(data)
			upload.Files = append(upload.Files, UploadedFile{
				Field:       field,
				FileName:    fh.Filename,
				ContentType: fh.Header.Get("Content-Type"),
				Data:        data,
			})
		}
	}

	s.mu.Lock()
	s.uploads = append(s.uploads, upload)
	s.mu.Unlock()

	c.JSON(http.StatusCreated, gin.H{"files": len(upload.Files), "bytes": total})
}

func readPart(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func handleEcho(c *gin.Context) {
	headers := make(map[string]string, len(c.Request.Header))
	for k := range c.Request.Header {
		headers[k] = c.Request.Header.Get(k)
	}
	query := make(map[string]string)
	for k, v := range c.Request.URL.Query() {
		query[k] = v[0]
	}
	c.JSON(http.StatusOK, gin.H{
		"method":  c.Request.Method,
		"proto":   c.Request.Proto,
		"query":   query,
		"headers": headers,
	})
}

func handleStatus(c *gin.Context) {
	code, err := strconv.Atoi(c.Param("code"))
	if err != nil || code < 100 || code > 599 {
		c.String(http.StatusBadRequest, "bad status %q", c.Param("code"))
		return
	}
	c.String(code, "status %d", code)
}
