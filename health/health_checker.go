// Package health reports whether the CVD risk API can serve requests: the
// therapy catalog must be loaded and recently reloaded.
package health

import (
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/giygas/cvdrisk-api/interfaces"
)

// Compile-time check to ensure HealthCheckerImpl implements HealthChecker
var _ interfaces.HealthChecker = (*HealthCheckerImpl)(nil)

// HealthCheckerImpl implements the interfaces.HealthChecker interface
type HealthCheckerImpl struct {
	store       interfaces.CatalogStore
	reloadTimes []string // "HH:MM", local time
	now         func() time.Time
}

// NewHealthChecker creates a health checker. reloadTimes are the daily
// catalog reload times, as returned by config.ParseReloadTimes.
func NewHealthChecker(store interfaces.CatalogStore, reloadTimes []string) *HealthCheckerImpl {
	return &HealthCheckerImpl{
		store:       store,
		reloadTimes: reloadTimes,
		now:         time.Now,
	}
}

// HealthCheck returns the status, the details served on /health and the
// HTTP code to answer with
func (h *HealthCheckerImpl) HealthCheck() (status string, details map[string]any, httpStatus int) {
	now := h.now()
	catalog := h.store.GetCatalog()
	lastUpdate := h.store.GetLastUpdated()
	isUpdating := h.store.IsUpdating()
	catalogAge := now.Sub(lastUpdate)

	switch {
	case catalog == nil:
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable

	case catalogAge > 48*time.Hour:
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable

	case catalogAge > 24*time.Hour:
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable

	case isUpdating && catalogAge > 6*time.Hour:
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable

	default:
		status = "healthy"
		httpStatus = http.StatusOK
	}

	details = map[string]any{
		"catalog_source": h.store.GetSource(),
		"is_updating":    isUpdating,
		"statins":        0,
		"add_ons":        0,
	}
	if catalog != nil {
		details["statins"] = len(catalog.Statins())
		details["add_ons"] = len(catalog.AddOns())
		details["last_update"] = lastUpdate.Format(time.RFC3339)
		details["catalog_age_hours"] = math.Round(catalogAge.Hours()*10) / 10
	}
	if next := h.nextUpdateAfter(now); !next.IsZero() {
		details["next_update"] = next.Format(time.RFC3339)
	}
	if start := h.store.GetServerStartTime(); !start.IsZero() {
		details["uptime_seconds"] = int64(now.Sub(start).Seconds())
	}

	return status, details, httpStatus
}

// CalculateNextUpdate returns the next scheduled catalog reload
func (h *HealthCheckerImpl) CalculateNextUpdate() time.Time {
	return h.nextUpdateAfter(h.now())
}

// nextUpdateAfter returns the first reload time strictly after now, zero
// when no reload times are configured
func (h *HealthCheckerImpl) nextUpdateAfter(now time.Time) time.Time {
	var next time.Time
	for _, hhmm := range h.reloadTimes {
		hh, mm, ok := strings.Cut(hhmm, ":")
		if !ok {
			continue
		}
		hour, errH := strconv.Atoi(hh)
		minute, errM := strconv.Atoi(mm)
		if errH != nil || errM != nil {
			continue
		}

		candidate := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
		if !candidate.After(now) {
			candidate = candidate.AddDate(0, 0, 1)
		}
		if next.IsZero() || candidate.Before(next) {
			next = candidate
		}
	}
	return next
}
