package trace

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	applog "budgetapp/internal/log"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newEngine(t *testing.T, buf *bytes.Buffer) (*gin.Engine, *Middleware) {
	t.Helper()
	cfg := applog.DefaultConfig()
	cfg.Output = buf
	m := NewMiddleware(applog.New(cfg), nil)

	r := gin.New()
	r.Use(m.Handler())
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, GetRequestID(c.Request.Context()))
	})
	r.GET("/missing", func(c *gin.Context) {
		c.Status(http.StatusNotFound)
	})
	return r, m
}

func TestHandlerAssignsRequestID(t *testing.T) {
	var buf bytes.Buffer
	r, m := newEngine(t, &buf)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/ping", nil))

	id := rr.Header().Get(HeaderRequestID)
	if _, err := uuid.Parse(id); err != nil {
		t.Fatalf("expected uuid request id, got %q", id)
	}
	if rr.Body.String() != id {
		t.Fatalf("handler saw request id %q, header has %q", rr.Body.String(), id)
	}
	if !strings.Contains(buf.String(), "HTTP request completed") {
		t.Fatalf("expected completion log, got %q", buf.String())
	}
	if got := m.GetMetrics().TotalRequests; got != 1 {
		t.Fatalf("TotalRequests = %d, want 1", got)
	}
}

func TestHandlerReusesUpstreamID(t *testing.T) {
	var buf bytes.Buffer
	r, _ := newEngine(t, &buf)
	upstream := uuid.NewString()

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(HeaderRequestID, upstream)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if got := rr.Header().Get(HeaderRequestID); got != upstream {
		t.Fatalf("request id = %q, want %q", got, upstream)
	}
}

func TestHandlerLogsClientErrorsAtWarn(t *testing.T) {
	var buf bytes.Buffer
	r, _ := newEngine(t, &buf)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/missing", nil))
	if !strings.Contains(buf.String(), "level=WARN") || !strings.Contains(buf.String(), "status_code=404") {
		t.Fatalf("expected warn completion with 404, got %q", buf.String())
	}
}

func TestRequestIDFrom(t *testing.T) {
	valid := uuid.NewString()
	if got := RequestIDFrom(valid); got != valid {
		t.Errorf("RequestIDFrom(valid) = %q", got)
	}
	for _, header := range []string{"", "req_123", "<script>"} {
		got := RequestIDFrom(header)
		if got == header {
			t.Errorf("RequestIDFrom(%q) reused an invalid id", header)
		}
		if _, err := uuid.Parse(got); err != nil {
			t.Errorf("RequestIDFrom(%q) = %q, not a uuid", header, got)
		}
	}
}

func TestGetRequestIDMissing(t *testing.T) {
	if got := GetRequestID(context.Background()); got != "" {
		t.Fatalf("expected empty id, got %q", got)
	}
}
