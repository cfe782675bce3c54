package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/ihsan-khan/library-management-system/internal/http/request"
	"github.com/ihsan-khan/library-management-system/internal/http/response"
	"github.com/ihsan-khan/library-management-system/internal/log"
	"github.com/ihsan-khan/library-management-system/internal/template"
	"github.com/ihsan-khan/library-management-system/internal/util"
)

const requestIDHeader = "X-Request-ID"

type Middleware struct {
	templates *template.Engine
}

func NewMiddleware(templates *template.Engine) *Middleware {
	return &Middleware{templates: templates}
}

// HandleRequestContext stores the request ID and the client IP in the request context.
// An incoming X-Request-ID header is reused, otherwise a new one is generated.
func (m *Middleware) HandleRequestContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(requestIDHeader)
		if _, err := uuid.Parse(requestID); err != nil {
			requestID = util.GenUUID()
		}
		w.Header().Set(requestIDHeader, requestID)

		ctx := r.Context()
		ctx = context.WithValue(ctx, request.RequestIDContextKey, requestID)
		ctx = context.WithValue(ctx, request.ClientIPContextKey, request.FindClientIP(r))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// LoggingRequest logs every request once it has been served.
func (m *Middleware) LoggingRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(recorder, r)

		log.Info("[HTTP] Request served",
			zap.String("request_id", request.RequestID(r)),
			zap.String("client_ip", request.ClientIP(r)),
			zap.String("request.method", r.Method),
			zap.String("request.uri", r.RequestURI),
			zap.Int("response.status_code", recorder.statusCode),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

// Recover turns a panic in a handler into an error page.
func (m *Middleware) Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			err, ok := rec.(error)
			if !ok {
				err = fmt.Errorf("%v", rec)
			}
			err = errors.Wrap(err, "panic while serving request")

			var body []byte
			if m.templates != nil {
				body, _ = m.templates.Render("error", map[string]interface{}{"request_id": request.RequestID(r)})
			}
			response.ServerError(w, r, err, body)
		}()
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (r *statusRecorder) WriteHeader(statusCode int) {
	r.statusCode = statusCode
	r.ResponseWriter.WriteHeader(statusCode)
}
