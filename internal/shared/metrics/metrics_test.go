package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestRenderCountsUpsertsAndErrors(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	ObserveUpsert("users", true)
	ObserveUpsert("users", false)
	ObserveUpsert("users", false)
	IncStoreError("userdetails", "upsert")

	out := Render()
	for _, want := range []string{
		`record_upserts_total{kind="users",outcome="created"} 1`,
		`record_upserts_total{kind="users",outcome="updated"} 2`,
		`store_errors_total{kind="userdetails",op="upsert"} 1`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}

func TestHistogramBucketsAreCumulative(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	ObserveStoreDuration(3 * time.Millisecond)
	ObserveStoreDuration(40 * time.Millisecond)
	ObserveStoreDuration(10 * time.Second)

	out := Render()
	for _, want := range []string{
		`store_op_duration_ms_bucket{le="5"} 1`,
		`store_op_duration_ms_bucket{le="50"} 2`,
		`store_op_duration_ms_bucket{le="5000"} 2`,
		`store_op_duration_ms_bucket{le="+Inf"} 3`,
		`store_op_duration_ms_count 3`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}

func TestHandlerServesText(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/metrics", Handler())

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if !strings.HasPrefix(resp.Header().Get("Content-Type"), "text/plain") {
		t.Fatalf("unexpected content type %q", resp.Header().Get("Content-Type"))
	}
	if !strings.Contains(resp.Body.String(), "# TYPE store_op_duration_ms histogram") {
		t.Fatalf("unexpected body %q", resp.Body.String())
	}
}
