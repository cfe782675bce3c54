package response // import "github.com/ihsan-khan/library-management-system/internal/http/response"

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/ihsan-khan/library-management-system/internal/http/request"
	"github.com/ihsan-khan/library-management-system/internal/log"
)

const (
	htmlContentType = "text/html; charset=utf-8"
	textContentType = "text/plain; charset=utf-8"
)

// OK writes a rendered page with a 200 status code.
func OK(w http.ResponseWriter, r *http.Request, body interface{}) {
	builder := New(w, r)
	builder.WithHeader("Content-Type", htmlContentType)
	builder.WithCaching(0)
	builder.WithBody(body)
	builder.Write()
}

// BadRequest writes a page, usually a form with its errors, with a 400 status code.
func BadRequest(w http.ResponseWriter, r *http.Request, body interface{}) {
	log.Warn(http.StatusText(http.StatusBadRequest), requestFields(r, http.StatusBadRequest)...)

	builder := New(w, r)
	builder.WithStatus(http.StatusBadRequest)
	builder.WithHeader("Content-Type", htmlContentType)
	builder.WithCaching(0)
	builder.WithBody(bodyOrStatusText(body, http.StatusBadRequest))
	builder.Write()
}

// NotFound writes a page not found response.
func NotFound(w http.ResponseWriter, r *http.Request, body interface{}) {
	log.Warn(http.StatusText(http.StatusNotFound), requestFields(r, http.StatusNotFound)...)

	builder := New(w, r)
	builder.WithStatus(http.StatusNotFound)
	builder.WithHeader("Content-Type", htmlContentType)
	builder.WithBody(bodyOrStatusText(body, http.StatusNotFound))
	builder.Write()
}

// ServerError logs err and writes an internal error page.
func ServerError(w http.ResponseWriter, r *http.Request, err error, body interface{}) {
	log.Error(http.StatusText(http.StatusInternalServerError),
		append(requestFields(r, http.StatusInternalServerError), zap.Error(err))...,
	)

	builder := New(w, r)
	builder.WithStatus(http.StatusInternalServerError)
	builder.WithHeader("Content-Type", htmlContentType)
	builder.WithCaching(0)
	builder.WithBody(bodyOrStatusText(body, http.StatusInternalServerError))
	builder.Write()
}

// Redirect sends a 302 redirect to uri, the usual answer to a successful form post.
func Redirect(w http.ResponseWriter, r *http.Request, uri string) {
	http.Redirect(w, r, uri, http.StatusFound)
}

// Text writes a plain text response.
func Text(w http.ResponseWriter, r *http.Request, body string) {
	builder := New(w, r)
	builder.WithHeader("Content-Type", textContentType)
	builder.WithBody(body)
	builder.Write()
}

func requestFields(r *http.Request, statusCode int) []zap.Field {
	return []zap.Field{
		zap.String("client_ip", request.FindClientIP(r)),
		zap.String("request_id", request.RequestID(r)),
		zap.String("request.method", r.Method),
		zap.String("request.uri", r.RequestURI),
		zap.String("request.user_agent", r.UserAgent()),
		zap.Int("response.status_code", statusCode),
	}
}

func bodyOrStatusText(body interface{}, statusCode int) interface{} {
	if body == nil {
		return http.StatusText(statusCode)
	}
	return body
}
