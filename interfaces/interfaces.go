// Package interfaces defines core abstractions for the CVD risk API
// to improve testability, maintainability, and separation of concerns.
package interfaces

import (
	"net/http"
	"time"

	"github.com/giygas/cvdrisk-api/risk"
	"github.com/giygas/cvdrisk-api/therapy"
)

// CatalogStore defines the contract for therapy catalog storage.
// It provides thread-safe access to the current catalog with atomic
// replacement for zero-downtime reloads.
type CatalogStore interface {
	// Data retrieval methods
	GetCatalog() *therapy.Catalog
	GetSource() string
	GetLastUpdated() time.Time
	IsUpdating() bool
	GetServerStartTime() time.Time

	// Data update methods
	UpdateCatalog(catalog *therapy.Catalog, source string)
	BeginUpdate() bool
	EndUpdate()
}

// CatalogParser defines the contract for reading the therapy catalog
// from its source.
type CatalogParser interface {
	// ParseCatalog reads and validates the whole catalog
	ParseCatalog() (*therapy.Catalog, error)

	// Source names where the catalog is read from
	Source() string
}

// Scheduler defines the contract for job scheduling.
// It manages catalog reloads.
type Scheduler interface {
	// Lifecycle management
	Start() error
	Stop()
}

// HTTPHandler defines the contract for HTTP request handlers.
// It provides a consistent interface for all API endpoints.
type HTTPHandler interface {
	EstimateRisk(w http.ResponseWriter, r *http.Request)
	ConvertFiveYear(w http.ResponseWriter, r *http.Request)
	AdjustLDL(w http.ResponseWriter, r *http.Request)
	CreateAssessment(w http.ResponseWriter, r *http.Request)
	ListTherapies(w http.ResponseWriter, r *http.Request)
	HealthCheck(w http.ResponseWriter, r *http.Request)
}

// HealthChecker defines the contract for health check functionality.
type HealthChecker interface {
	// HealthCheck returns current status, details and the HTTP code to report
	HealthCheck() (status string, details map[string]any, httpStatus int)

	// CalculateNextUpdate returns the next scheduled catalog reload
	CalculateNextUpdate() time.Time
}

// InputValidator defines the contract for boundary validation of
// externally supplied inputs. Every method returns an error wrapping
// validation.ErrInvalidInput or validation.ErrUndefinedResult.
type InputValidator interface {
	// ValidateProfile checks every field of a patient profile
	ValidateProfile(p risk.PatientProfile) error

	// ValidateTenYearRisk checks a percentage before horizon conversion
	ValidateTenYearRisk(tenYearRiskPercent float64) error

	// ValidateBaselineLDL checks a baseline LDL-C value
	ValidateBaselineLDL(ldl float64) error

	// ResolveSelection checks a therapy selection against the catalog and
	// returns it with the statin replaced by its canonical id
	ResolveSelection(s therapy.TherapySelection, catalog *therapy.Catalog) (therapy.TherapySelection, error)

	// ValidateEligibility rejects options the eligibility rules do not allow
	ValidateEligibility(s therapy.TherapySelection, e therapy.Eligibility) error

	// ValidateBodyMeasurements checks weight, height and HbA1c
	ValidateBodyMeasurements(weightKg, heightCm, hba1c float64) error
}
