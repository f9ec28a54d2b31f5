// Package data provides thread-safe storage of the active therapy catalog.
// Readers always see a complete catalog; reloads replace it atomically.
package data

import (
	"sync/atomic"
	"time"

	"github.com/giygas/cvdrisk-api/interfaces"
	"github.com/giygas/cvdrisk-api/logging"
	"github.com/giygas/cvdrisk-api/therapy"
)

// Compile-time check to ensure CatalogContainer implements CatalogStore
var _ interfaces.CatalogStore = (*CatalogContainer)(nil)

// CatalogContainer holds the catalog with atomic pointers for zero-downtime reloads
type CatalogContainer struct {
	catalog         atomic.Pointer[therapy.Catalog]
	source          atomic.Value // string
	lastUpdated     atomic.Value // time.Time
	updating        atomic.Bool
	serverStartTime atomic.Value // time.Time
}

// NewCatalogContainer creates a container with no catalog loaded
func NewCatalogContainer() *CatalogContainer {
	cc := &CatalogContainer{}
	cc.source.Store("")
	cc.lastUpdated.Store(time.Time{})
	cc.serverStartTime.Store(time.Time{})
	return cc
}

// GetCatalog returns the active catalog, or nil before the first load
func (cc *CatalogContainer) GetCatalog() *therapy.Catalog {
	c := cc.catalog.Load()
	if c == nil {
		logging.Warn("Therapy catalog requested before it was loaded")
	}
	return c
}

// GetSource returns where the active catalog was read from
func (cc *CatalogContainer) GetSource() string {
	if s, ok := cc.source.Load().(string); ok {
		return s
	}
	return ""
}

// GetLastUpdated returns when the active catalog was stored
func (cc *CatalogContainer) GetLastUpdated() time.Time {
	if t, ok := cc.lastUpdated.Load().(time.Time); ok {
		return t
	}
	logging.Warn("Could not get the last updated value")
	return time.Time{}
}

// IsUpdating returns true if a reload is in progress
func (cc *CatalogContainer) IsUpdating() bool {
	return cc.updating.Load()
}

// SetServerStartTime sets the server start time
func (cc *CatalogContainer) SetServerStartTime(startTime time.Time) {
	cc.serverStartTime.Store(startTime)
}

// GetServerStartTime returns the server start time
func (cc *CatalogContainer) GetServerStartTime() time.Time {
	if t, ok := cc.serverStartTime.Load().(time.Time); ok {
		return t
	}
	return time.Time{}
}

// UpdateCatalog atomically replaces the catalog. A nil catalog is ignored.
func (cc *CatalogContainer) UpdateCatalog(catalog *therapy.Catalog, source string) {
	if catalog == nil {
		logging.Warn("Ignoring nil therapy catalog", "source", source)
		return
	}
	cc.source.Store(source)
	cc.catalog.Store(catalog)
	cc.lastUpdated.Store(time.Now())
}

// BeginUpdate marks the start of a reload.
// Returns true if the reload can proceed, false if another one is in progress
func (cc *CatalogContainer) BeginUpdate() bool {
	return cc.updating.CompareAndSwap(false, true)
}

// EndUpdate marks the end of a reload
func (cc *CatalogContainer) EndUpdate() {
	cc.updating.Store(false)
}
