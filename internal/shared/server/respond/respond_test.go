package respond

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestErrorOmitsEmptyMessage(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/user/missing", nil)

	Error(c, http.StatusNotFound, "not_found", "User not found", "")

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["error"] != "User not found" || body["code"] != "not_found" {
		t.Fatalf("unexpected body %v", body)
	}
	if _, ok := body["message"]; ok {
		t.Fatalf("did not expect message key: %v", body)
	}
	if !c.IsAborted() {
		t.Fatalf("expected context to be aborted")
	}
}

func TestBadBodyDistinguishesOversizedPayload(t *testing.T) {
	gin.SetMode(gin.TestMode)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/user", nil)
	BadBody(c, &http.MaxBytesError{Limit: 10})
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/user", nil)
	BadBody(c, errors.New("invalid character 'x'"))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "invalid request body") {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
}

func TestUpsertedStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	for created, want := range map[bool]int{true: http.StatusCreated, false: http.StatusOK} {
		rec := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(rec)
		Upserted(c, created, gin.H{"ok": true})
		if rec.Code != want {
			t.Fatalf("created=%v: expected %d, got %d", created, want, rec.Code)
		}
	}
}
