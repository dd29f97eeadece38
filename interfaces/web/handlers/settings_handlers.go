package handlers

import (
	"net/http"
	"time"

	"sitegrade/application"
	"sitegrade/domain/scoring"
	"sitegrade/logging"
)

// SettingsHandlers serves the scoring configuration endpoints.
type SettingsHandlers struct {
	scoring *application.ScoringService
	logger  *logging.Logger
}

// NewSettingsHandlers creates the settings handler set.
func NewSettingsHandlers(scoringService *application.ScoringService) *SettingsHandlers {
	return &SettingsHandlers{
		scoring: scoringService,
		logger:  logging.Default().WithComponent("settings_handlers"),
	}
}

type settingsDTO struct {
	ID                  string    `json:"id,omitempty"`
	WeightW3C           float64   `json:"weight_w3c"`
	WeightPSIMobile     float64   `json:"weight_psi_mobile"`
	WeightAccessibility float64   `json:"weight_accessibility"`
	WeightDesign        float64   `json:"weight_design"`
	WeightAI            float64   `json:"weight_ai"`
	W3CIssuePenalty     float64   `json:"w3c_issue_penalty"`
	GradeAMin           float64   `json:"grade_a_min"`
	GradeBMin           float64   `json:"grade_b_min"`
	GradeCMin           float64   `json:"grade_c_min"`
	GradeDMin           float64   `json:"grade_d_min"`
	UpdatedAt           time.Time `json:"updated_at,omitempty"`
	UpdatedBy           string    `json:"updated_by,omitempty"`
}

func toSettingsDTO(s *scoring.Settings) settingsDTO {
	return settingsDTO{
		ID:                  s.ID,
		WeightW3C:           s.WeightW3C,
		WeightPSIMobile:     s.WeightPSIMobile,
		WeightAccessibility: s.WeightAccessibility,
		WeightDesign:        s.WeightDesign,
		WeightAI:            s.WeightAI,
		W3CIssuePenalty:     s.W3CIssuePenalty,
		GradeAMin:           s.GradeAMin,
		GradeBMin:           s.GradeBMin,
		GradeCMin:           s.GradeCMin,
		GradeDMin:           s.GradeDMin,
		UpdatedAt:           s.UpdatedAt,
		UpdatedBy:           s.UpdatedBy,
	}
}

// GetSettings handles GET /settings/scoring.
func (h *SettingsHandlers) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.scoring.GetSettings(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSettingsDTO(settings))
}

// UpdateSettings handles PUT /settings/scoring. Weights must sum to 1.0 and
// grade minimums must strictly decrease.
func (h *SettingsHandlers) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req settingsDTO
	if !decodeJSON(w, r, &req) {
		return
	}

	settings := &scoring.Settings{
		WeightW3C:           req.WeightW3C,
		WeightPSIMobile:     req.WeightPSIMobile,
		WeightAccessibility: req.WeightAccessibility,
		WeightDesign:        req.WeightDesign,
		WeightAI:            req.WeightAI,
		W3CIssuePenalty:     req.W3CIssuePenalty,
		GradeAMin:           req.GradeAMin,
		GradeBMin:           req.GradeBMin,
		GradeCMin:           req.GradeCMin,
		GradeDMin:           req.GradeDMin,
		UpdatedBy:           req.UpdatedBy,
	}
	if err := settings.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	if err := h.scoring.UpdateSettings(r.Context(), settings); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSettingsDTO(settings))
}

type recalculateRequest struct {
	SinceDays int `json:"since_days"`
}

// RecalculateAll handles POST /settings/scoring/recalculate.
func (h *SettingsHandlers) RecalculateAll(w http.ResponseWriter, r *http.Request) {
	var req recalculateRequest
	if r.ContentLength > 0 && !decodeJSON(w, r, &req) {
		return
	}

	updated, err := h.scoring.RecalculateAll(r.Context(), req.SinceDays)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"updated": updated})
}
