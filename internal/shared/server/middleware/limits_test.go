package middleware

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestBodyLimitRejectsOversizedBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(BodyLimit(8))
	var readErr error
	router.POST("/user", func(c *gin.Context) {
		_, readErr = io.ReadAll(c.Request.Body)
		c.Status(http.StatusOK)
	})

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/user", strings.NewReader(`{"userId":"abcdefgh"}`)))

	var tooLarge *http.MaxBytesError
	if !errors.As(readErr, &tooLarge) {
		t.Fatalf("expected MaxBytesError, got %v", readErr)
	}
}

func TestBodyLimitAllowsSmallBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(BodyLimit(1024))
	var body []byte
	router.POST("/user", func(c *gin.Context) {
		body, _ = io.ReadAll(c.Request.Body)
		c.Status(http.StatusOK)
	})

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/user", strings.NewReader(`{"userId":"u1"}`)))

	if string(body) != `{"userId":"u1"}` {
		t.Fatalf("unexpected body %q", body)
	}
}

func TestTimeoutSetsDeadline(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Timeout(50 * time.Millisecond))
	var hasDeadline bool
	var ctxErr error
	router.GET("/slow", func(c *gin.Context) {
		_, hasDeadline = c.Request.Context().Deadline()
		<-c.Request.Context().Done()
		ctxErr = c.Request.Context().Err()
		c.Status(http.StatusOK)
	})

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/slow", nil))

	if !hasDeadline {
		t.Fatalf("expected request context deadline")
	}
	if !errors.Is(ctxErr, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", ctxErr)
	}
}

func TestTimeoutDisabled(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Timeout(0))
	var hasDeadline bool
	router.GET("/", func(c *gin.Context) {
		_, hasDeadline = c.Request.Context().Deadline()
		c.Status(http.StatusOK)
	})

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/", nil))

	if hasDeadline {
		t.Fatalf("expected no deadline when timeout is disabled")
	}
}
