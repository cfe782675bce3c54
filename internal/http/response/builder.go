package response // import "github.com/ihsan-khan/library-management-system/internal/http/response"

import (
	"io"
	"net/http"
	"strconv"
)

// Builder generates HTTP responses.
type Builder struct {
	w          http.ResponseWriter
	r          *http.Request
	statusCode int
	headers    map[string]string
	body       interface{}
}

// WithStatus uses the given status code to build the response.
func (b *Builder) WithStatus(statusCode int) *Builder {
	b.statusCode = statusCode
	return b
}

// WithHeader adds the given HTTP header to the response.
func (b *Builder) WithHeader(key, value string) *Builder {
	b.headers[key] = value
	return b
}

// WithBody uses the given body to build the response.
func (b *Builder) WithBody(body interface{}) *Builder {
	b.body = body
	return b
}

// WithCaching sets Cache-Control; a non-positive maxAge disables caching.
func (b *Builder) WithCaching(maxAge int) *Builder {
	if maxAge <= 0 {
		b.headers["Cache-Control"] = "no-store"
		return b
	}
	b.headers["Cache-Control"] = "private, max-age=" + strconv.Itoa(maxAge)
	return b
}

// Write generates the HTTP response.
func (b *Builder) Write() {
	if b.body == nil {
		b.writeHeaders()
		return
	}

	switch v := b.body.(type) {
	case []byte:
		b.write(v)
	case string:
		b.write([]byte(v))
	case error:
		b.write([]byte(v.Error()))
	case io.Reader:
		b.writeHeaders()
		io.Copy(b.w, v)
	}
}

func (b *Builder) writeHeaders() {
	b.headers["X-Content-Type-Options"] = "nosniff"
	b.headers["X-Frame-Options"] = "DENY"
	b.headers["Referrer-Policy"] = "no-referrer"

	for key, value := range b.headers {
		b.w.Header().Set(key, value)
	}

	b.w.WriteHeader(b.statusCode)
}

func (b *Builder) write(data []byte) {
	b.writeHeaders()
	b.w.Write(data)
}

// New creates a new response builder.
func New(w http.ResponseWriter, r *http.Request) *Builder {
	return &Builder{w: w, r: r, statusCode: http.StatusOK, headers: make(map[string]string)}
}
