package response // import "github.com/ihsan-khan/library-management-system/internal/http/response"

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResponseHasCommonHeaders(t *testing.T) {
	r, err := http.NewRequest("GET", "/", nil)
	if err != nil {
		t.Fatal(err)
	}

	w := httptest.NewRecorder()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		New(w, r).Write()
	})

	handler.ServeHTTP(w, r)
	resp := w.Result()

	headers := map[string]string{
		"X-Content-Type-Options": "nosniff",
		"X-Frame-Options":        "DENY",
	}

	for header, expected := range headers {
		actual := resp.Header.Get(header)
		if actual != expected {
			t.Fatalf(`Unexpected header value, got %q instead of %q`, actual, expected)
		}
	}
}

func TestBuildResponseWithBody(t *testing.T) {
	tests := []struct {
		name     string
		body     interface{}
		expected string
	}{
		{name: "bytes", body: []byte("bytes"), expected: "bytes"},
		{name: "string", body: "string", expected: "string"},
		{name: "error", body: errors.New("failed"), expected: "failed"},
		{name: "reader", body: strings.NewReader("reader"), expected: "reader"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			w := httptest.NewRecorder()
			New(w, r).WithStatus(http.StatusAccepted).WithHeader("X-Custom", "1").WithBody(test.body).Write()

			assert.Equal(t, http.StatusAccepted, w.Code)
			assert.Equal(t, "1", w.Header().Get("X-Custom"))
			assert.Equal(t, test.expected, w.Body.String())
		})
	}
}

func TestHTMLResponses(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/books/missing/", nil)

	w := httptest.NewRecorder()
	OK(w, r, "<p>ok</p>")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, htmlContentType, w.Header().Get("Content-Type"))
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
	assert.Equal(t, "<p>ok</p>", w.Body.String())

	w = httptest.NewRecorder()
	NotFound(w, r, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Not Found", w.Body.String())

	w = httptest.NewRecorder()
	BadRequest(w, r, []byte("<form></form>"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "<form></form>", w.Body.String())

	w = httptest.NewRecorder()
	ServerError(w, r, errors.New("disk full"), nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Internal Server Error", w.Body.String())

	w = httptest.NewRecorder()
	Text(w, r, "OK")
	assert.Equal(t, textContentType, w.Header().Get("Content-Type"))
	assert.Equal(t, "OK", w.Body.String())
}

func TestRedirect(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/books/add/", nil)
	w := httptest.NewRecorder()
	Redirect(w, r, "/books/dune/")

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/books/dune/", w.Header().Get("Location"))
}
