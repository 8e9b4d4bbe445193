package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestQueryObserve(t *testing.T) {
	c := NewCollector()

	c.QueryObserve("isopen", "open", time.Millisecond)
	c.QueryObserve("isopen", "exception", time.Millisecond)
	c.QueryObserve("next", "exception", time.Millisecond)

	if got := testutil.ToFloat64(c.Queries.WithLabelValues("isopen", "open")); got != 1 {
		t.Errorf("Expected 1 open query, got %v", got)
	}
	if got := testutil.ToFloat64(c.ExceptionOverrides); got != 2 {
		t.Errorf("Expected 2 exception overrides, got %v", got)
	}
	if got := testutil.CollectAndCount(c.QueryDuration); got != 2 {
		t.Errorf("Expected 2 duration series, got %d", got)
	}
}

func TestReloadObserve(t *testing.T) {
	c := NewCollector()

	c.ReloadObserve(nil)
	c.ReloadObserve(errors.New("boom"))
	c.ReloadObserve(nil)
	c.TablesLoaded(28, 3)

	if got := testutil.ToFloat64(c.TableReloads.WithLabelValues("ok")); got != 2 {
		t.Errorf("Expected 2 ok reloads, got %v", got)
	}
	if got := testutil.ToFloat64(c.TableReloads.WithLabelValues("error")); got != 1 {
		t.Errorf("Expected 1 failed reload, got %v", got)
	}
	if got := testutil.ToFloat64(c.ScheduleEntries); got != 28 {
		t.Errorf("Expected 28 schedule entries, got %v", got)
	}
}

func TestHandler(t *testing.T) {
	c := NewCollector()
	c.TablesLoaded(1, 0)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), "station_schedule_entries 1") {
		t.Errorf("Expected gauge in exposition, got:\n%s", body)
	}
}
