package handlers

import (
	"math"
	"net/http"
	"strconv"

	"github.com/giygas/cvdrisk-api/interfaces"
	"github.com/giygas/cvdrisk-api/logging"
	"github.com/giygas/cvdrisk-api/metrics"
	"github.com/giygas/cvdrisk-api/risk"
	"github.com/giygas/cvdrisk-api/therapy"
	"github.com/giygas/cvdrisk-api/validation"
	"github.com/google/uuid"
)

// Compile-time check to ensure HTTPHandlerImpl implements HTTPHandler
var _ interfaces.HTTPHandler = (*HTTPHandlerImpl)(nil)

// HTTPHandlerImpl implements the interfaces.HTTPHandler interface
type HTTPHandlerImpl struct {
	store     interfaces.CatalogStore
	validator interfaces.InputValidator
	health    interfaces.HealthChecker
}

// NewHTTPHandler creates a new HTTP handler with injected dependencies
func NewHTTPHandler(store interfaces.CatalogStore, validator interfaces.InputValidator, health interfaces.HealthChecker) interfaces.HTTPHandler {
	return &HTTPHandlerImpl{
		store:     store,
		validator: validator,
		health:    health,
	}
}

// FiveYearResponse is the answer of the horizon conversion endpoint
type FiveYearResponse struct {
	TenYearRiskPercent  float64 `json:"tenYearRiskPercent"`
	FiveYearRiskPercent float64 `json:"fiveYearRiskPercent"`
}

// LDLRequest is the body of the LDL adjustment endpoint
type LDLRequest struct {
	BaselineLDL float64                  `json:"baselineLDL"`
	Therapy     therapy.TherapySelection `json:"therapy"`
}

// AssessmentRequest is the body of the combined assessment endpoint.
// WeightKg, HeightCm and HbA1c are optional; zero means not supplied.
type AssessmentRequest struct {
	Profile  risk.PatientProfile      `json:"profile"`
	Therapy  therapy.TherapySelection `json:"therapy"`
	WeightKg float64                  `json:"weightKg"`
	HeightCm float64                  `json:"heightCm"`
	HbA1c    float64                  `json:"hba1c"`
}

// AssessmentResponse combines risk, anticipated lipids and eligibility
type AssessmentResponse struct {
	ID          string                       `json:"id"`
	Risk        risk.RiskResult              `json:"risk"`
	Lipids      therapy.AdjustedLipidProfile `json:"lipids"`
	Therapy     therapy.TherapySelection     `json:"therapy"`
	Eligibility therapy.Eligibility          `json:"eligibility"`
	BMI         *float64                     `json:"bmi,omitempty"`
	HbA1c       *float64                     `json:"hba1c,omitempty"`
}

// CatalogResponse lists the active therapy catalog
type CatalogResponse struct {
	Source      string                `json:"source"`
	LastUpdated string                `json:"lastUpdated"`
	Statins     []therapy.StatinEntry `json:"statins"`
	AddOns      []therapy.AddOnEntry  `json:"addOns"`
}

// HealthResponse defines the structure for consistent JSON ordering
type HealthResponse struct {
	Status string         `json:"status"`
	Data   map[string]any `json:"data"`
}

// round2 rounds LDL-C values for display
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func roundLipids(l therapy.AdjustedLipidProfile) therapy.AdjustedLipidProfile {
	l.AnticipatedLDL = round2(l.AnticipatedLDL)
	l.UnflooredLDL = round2(l.UnflooredLDL)
	return l
}

// catalog returns the active catalog, answering 503 when none is loaded
func (h *HTTPHandlerImpl) catalog(w http.ResponseWriter) (*therapy.Catalog, bool) {
	c := h.store.GetCatalog()
	if c == nil {
		RespondWithError(w, http.StatusServiceUnavailable, "Therapy catalog not loaded")
		return nil, false
	}
	return c, true
}

// EstimateRisk returns the 10-year and 5-year risk of a patient profile
func (h *HTTPHandlerImpl) EstimateRisk(w http.ResponseWriter, r *http.Request) {
	var profile risk.PatientProfile
	if !decodeJSON(w, r, "risk", &profile) {
		return
	}

	if err := h.validator.ValidateProfile(profile); err != nil {
		respondWithValidationError(w, "risk", err)
		return
	}

	result := risk.Assess(profile)
	metrics.ObserveEstimate("risk", result.TenYearRiskPercent)

	RespondWithJSON(w, http.StatusOK, result)
}

// ConvertFiveYear converts the tenYear query parameter to a 5-year risk
func (h *HTTPHandlerImpl) ConvertFiveYear(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("tenYear")
	if raw == "" {
		respondWithValidationError(w, "five-year", &validation.FieldError{
			Field: "tenYear", Value: raw, Reason: "is required",
		})
		return
	}

	tenYear, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		logging.Warn("Unusual user input", "tenYear", raw)
		respondWithValidationError(w, "five-year", &validation.FieldError{
			Field: "tenYear", Value: raw, Reason: "must be a number",
		})
		return
	}

	if err := h.validator.ValidateTenYearRisk(tenYear); err != nil {
		respondWithValidationError(w, "five-year", err)
		return
	}

	metrics.EstimatesTotal.WithLabelValues("five-year").Inc()
	RespondWithJSON(w, http.StatusOK, FiveYearResponse{
		TenYearRiskPercent:  tenYear,
		FiveYearRiskPercent: risk.ConvertToFiveYear(tenYear),
	})
}

// AdjustLDL returns the anticipated LDL-C under a therapy selection
func (h *HTTPHandlerImpl) AdjustLDL(w http.ResponseWriter, r *http.Request) {
	var req LDLRequest
	if !decodeJSON(w, r, "ldl", &req) {
		return
	}

	catalog, ok := h.catalog(w)
	if !ok {
		return
	}

	selection, selErr := h.validator.ResolveSelection(req.Therapy, catalog)
	if err := validation.Combine(h.validator.ValidateBaselineLDL(req.BaselineLDL), selErr); err != nil {
		respondWithValidationError(w, "ldl", err)
		return
	}

	lipids := catalog.AdjustLipids(req.BaselineLDL, selection)
	metrics.ObserveLDLAdjustment(string(selection.Statin), lipids.FloorApplied)

	RespondWithJSON(w, http.StatusOK, roundLipids(lipids))
}

// CreateAssessment runs the whole pipeline for one patient: risk,
// anticipated LDL-C and therapy eligibility. Nothing is stored; the id
// correlates the response with the service logs.
func (h *HTTPHandlerImpl) CreateAssessment(w http.ResponseWriter, r *http.Request) {
	var req AssessmentRequest
	if !decodeJSON(w, r, "assessment", &req) {
		return
	}

	catalog, ok := h.catalog(w)
	if !ok {
		return
	}

	selection, selErr := h.validator.ResolveSelection(req.Therapy, catalog)
	if err := validation.Combine(
		h.validator.ValidateProfile(req.Profile),
		h.validator.ValidateBodyMeasurements(req.WeightKg, req.HeightCm, req.HbA1c),
		selErr,
	); err != nil {
		respondWithValidationError(w, "assessment", err)
		return
	}

	result := risk.Assess(req.Profile)
	lipids := catalog.AdjustLipids(req.Profile.LDLBaseline, selection)

	eligCtx := therapy.EligibilityContext{
		AnticipatedLDL: lipids.AnticipatedLDL,
		Triglycerides:  selection.Triglycerides,
		Smoker:         req.Profile.Smoker,
	}
	var bmi *float64
	if req.WeightKg != 0 && req.HeightCm != 0 {
		v := math.Round(therapy.BMI(req.WeightKg, req.HeightCm)*10) / 10
		bmi = &v
		eligCtx.BMI, eligCtx.BMIKnown = v, true
	}
	eligibility := therapy.EvaluateEligibility(eligCtx)

	if err := h.validator.ValidateEligibility(selection, eligibility); err != nil {
		respondWithValidationError(w, "assessment", err)
		return
	}

	resp := AssessmentResponse{
		ID:          uuid.NewString(),
		Risk:        result,
		Lipids:      roundLipids(lipids),
		Therapy:     selection,
		Eligibility: eligibility,
		BMI:         bmi,
	}
	if req.HbA1c != 0 {
		hba1c := req.HbA1c
		resp.HbA1c = &hba1c
	}

	metrics.ObserveEstimate("assessment", result.TenYearRiskPercent)
	metrics.ObserveLDLAdjustment(string(selection.Statin), lipids.FloorApplied)
	logging.Info("Assessment computed",
		"assessment_id", resp.ID,
		"ten_year_risk", result.TenYearRiskPercent,
		"statin", selection.Statin,
	)

	RespondWithJSON(w, http.StatusCreated, resp)
}

// ListTherapies returns the active therapy catalog
func (h *HTTPHandlerImpl) ListTherapies(w http.ResponseWriter, r *http.Request) {
	catalog, ok := h.catalog(w)
	if !ok {
		return
	}

	RespondWithJSON(w, http.StatusOK, CatalogResponse{
		Source:      h.store.GetSource(),
		LastUpdated: h.store.GetLastUpdated().UTC().Format(http.TimeFormat),
		Statins:     catalog.Statins(),
		AddOns:      catalog.AddOns(),
	})
}

// HealthCheck returns service health
func (h *HTTPHandlerImpl) HealthCheck(w http.ResponseWriter, r *http.Request) {
	status, details, code := h.health.HealthCheck()
	RespondWithJSON(w, code, HealthResponse{Status: status, Data: details})
}
