package health

import (
	"net/http"
	"testing"
	"time"

	"github.com/giygas/cvdrisk-api/therapy"
)

// mockHealthCatalogStore for testing
type mockHealthCatalogStore struct {
	catalog     *therapy.Catalog
	lastUpdated time.Time
	isUpdating  bool
	startTime   time.Time
}

func (m *mockHealthCatalogStore) GetCatalog() *therapy.Catalog           { return m.catalog }
func (m *mockHealthCatalogStore) GetSource() string                      { return "embedded" }
func (m *mockHealthCatalogStore) GetLastUpdated() time.Time              { return m.lastUpdated }
func (m *mockHealthCatalogStore) IsUpdating() bool                       { return m.isUpdating }
func (m *mockHealthCatalogStore) GetServerStartTime() time.Time          { return m.startTime }
func (m *mockHealthCatalogStore) UpdateCatalog(*therapy.Catalog, string) {}
func (m *mockHealthCatalogStore) BeginUpdate() bool                      { return true }
func (m *mockHealthCatalogStore) EndUpdate()                             {}

var fixedNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func newTestChecker(store *mockHealthCatalogStore) *HealthCheckerImpl {
	h := NewHealthChecker(store, []string{"06:00", "18:00"})
	h.now = func() time.Time { return fixedNow }
	return h
}

func TestHealthCheckStatus(t *testing.T) {
	catalog := therapy.DefaultCatalog()

	tests := []struct {
		name       string
		store      *mockHealthCatalogStore
		wantStatus string
		wantCode   int
	}{
		{
			name:       "no catalog",
			store:      &mockHealthCatalogStore{},
			wantStatus: "unhealthy",
			wantCode:   http.StatusServiceUnavailable,
		},
		{
			name:       "fresh catalog",
			store:      &mockHealthCatalogStore{catalog: catalog, lastUpdated: fixedNow.Add(-time.Hour)},
			wantStatus: "healthy",
			wantCode:   http.StatusOK,
		},
		{
			name:       "updating recently loaded catalog",
			store:      &mockHealthCatalogStore{catalog: catalog, lastUpdated: fixedNow.Add(-time.Hour), isUpdating: true},
			wantStatus: "healthy",
			wantCode:   http.StatusOK,
		},
		{
			name:       "update stuck",
			store:      &mockHealthCatalogStore{catalog: catalog, lastUpdated: fixedNow.Add(-7 * time.Hour), isUpdating: true},
			wantStatus: "degraded",
			wantCode:   http.StatusServiceUnavailable,
		},
		{
			name:       "older than a day",
			store:      &mockHealthCatalogStore{catalog: catalog, lastUpdated: fixedNow.Add(-30 * time.Hour)},
			wantStatus: "degraded",
			wantCode:   http.StatusServiceUnavailable,
		},
		{
			name:       "older than two days",
			store:      &mockHealthCatalogStore{catalog: catalog, lastUpdated: fixedNow.Add(-49 * time.Hour)},
			wantStatus: "unhealthy",
			wantCode:   http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, _, code := newTestChecker(tt.store).HealthCheck()
			if status != tt.wantStatus {
				t.Errorf("status = %q, want %q", status, tt.wantStatus)
			}
			if code != tt.wantCode {
				t.Errorf("http status = %d, want %d", code, tt.wantCode)
			}
		})
	}
}

func TestHealthCheckDetails(t *testing.T) {
	store := &mockHealthCatalogStore{
		catalog:     therapy.DefaultCatalog(),
		lastUpdated: fixedNow.Add(-90 * time.Minute),
		startTime:   fixedNow.Add(-time.Minute),
	}

	_, details, _ := newTestChecker(store).HealthCheck()

	if details["statins"] != 3 {
		t.Errorf("statins = %v, want 3", details["statins"])
	}
	if details["add_ons"] != 4 {
		t.Errorf("add_ons = %v, want 4", details["add_ons"])
	}
	if details["catalog_age_hours"] != 1.5 {
		t.Errorf("catalog_age_hours = %v, want 1.5", details["catalog_age_hours"])
	}
	if details["catalog_source"] != "embedded" {
		t.Errorf("catalog_source = %v, want embedded", details["catalog_source"])
	}
	if details["next_update"] != "2026-03-10T18:00:00Z" {
		t.Errorf("next_update = %v, want 2026-03-10T18:00:00Z", details["next_update"])
	}
	if details["uptime_seconds"] != int64(60) {
		t.Errorf("uptime_seconds = %v, want 60", details["uptime_seconds"])
	}
}

func TestHealthCheckDetailsWithoutCatalog(t *testing.T) {
	_, details, _ := newTestChecker(&mockHealthCatalogStore{}).HealthCheck()

	if _, ok := details["last_update"]; ok {
		t.Error("last_update should be absent before the first load")
	}
	if details["statins"] != 0 {
		t.Errorf("statins = %v, want 0", details["statins"])
	}
	if _, ok := details["uptime_seconds"]; ok {
		t.Error("uptime_seconds should be absent without a start time")
	}
}

func TestNextUpdateAfter(t *testing.T) {
	h := NewHealthChecker(&mockHealthCatalogStore{}, []string{"18:00", "06:00"})
	loc := time.UTC

	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{"before first", time.Date(2026, 3, 10, 5, 0, 0, 0, loc), time.Date(2026, 3, 10, 6, 0, 0, 0, loc)},
		{"exactly at first", time.Date(2026, 3, 10, 6, 0, 0, 0, loc), time.Date(2026, 3, 10, 18, 0, 0, 0, loc)},
		{"between", time.Date(2026, 3, 10, 12, 0, 0, 0, loc), time.Date(2026, 3, 10, 18, 0, 0, 0, loc)},
		{"after last", time.Date(2026, 3, 10, 19, 0, 0, 0, loc), time.Date(2026, 3, 11, 6, 0, 0, 0, loc)},
		{"month end", time.Date(2026, 3, 31, 23, 0, 0, 0, loc), time.Date(2026, 4, 1, 6, 0, 0, 0, loc)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := h.nextUpdateAfter(tt.now); !got.Equal(tt.want) {
				t.Errorf("nextUpdateAfter(%v) = %v, want %v", tt.now, got, tt.want)
			}
		})
	}
}

func TestCalculateNextUpdateWithoutSchedule(t *testing.T) {
	h := NewHealthChecker(&mockHealthCatalogStore{}, nil)
	if !h.CalculateNextUpdate().IsZero() {
		t.Error("expected zero time without reload times")
	}
}
