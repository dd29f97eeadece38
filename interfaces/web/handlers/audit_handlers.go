package handlers

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"sitegrade/application"
	"sitegrade/logging"
)

// AuditHandlers serves the audit CRUD surface.
type AuditHandlers struct {
	audits  *application.AuditService
	scoring *application.ScoringService
	logger  *logging.Logger
}

// NewAuditHandlers creates the audit handler set.
func NewAuditHandlers(audits *application.AuditService, scoring *application.ScoringService) *AuditHandlers {
	return &AuditHandlers{
		audits:  audits,
		scoring: scoring,
		logger:  logging.Default().WithComponent("audit_handlers"),
	}
}

type createAuditRequest struct {
	CompanyName string `json:"company_name"`
	WebsiteURL  string `json:"website_url"`
}

// CreateAudit handles POST /audits.
func (h *AuditHandlers) CreateAudit(w http.ResponseWriter, r *http.Request) {
	var req createAuditRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	a, err := h.audits.Create(r.Context(), req.CompanyName, req.WebsiteURL)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusCreated, toAuditDTO(a))
}

// GetAudit handles GET /audits/{auditID}.
func (h *AuditHandlers) GetAudit(w http.ResponseWriter, r *http.Request) {
	a, err := h.audits.Get(r.Context(), chi.URLParam(r, "auditID"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAuditDTO(a))
}

// ListAudits handles GET /audits.
func (h *AuditHandlers) ListAudits(w http.ResponseWriter, r *http.Request) {
	audits, err := h.audits.List(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAuditDTOs(audits))
}

// DeleteAudit handles DELETE /audits/{auditID}. Soft by default; ?hard=1
// removes the row permanently.
func (h *AuditHandlers) DeleteAudit(w http.ResponseWriter, r *http.Request) {
	auditID := chi.URLParam(r, "auditID")
	hard := r.URL.Query().Get("hard") == "1"

	if err := h.audits.Delete(r.Context(), auditID, hard); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

type designScoreRequest struct {
	DesignScore *float64 `json:"design_score"`
}

// SetDesignScore handles PUT /audits/{auditID}/design.
func (h *AuditHandlers) SetDesignScore(w http.ResponseWriter, r *http.Request) {
	var req designScoreRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.DesignScore == nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("design_score is required"))
		return
	}
	if *req.DesignScore < 0 || *req.DesignScore > 100 {
		writeError(w, http.StatusBadRequest, fmt.Errorf("design_score must be between 0 and 100"))
		return
	}

	auditID := chi.URLParam(r, "auditID")
	if err := h.scoring.SetDesignScore(r.Context(), auditID, *req.DesignScore); err != nil {
		writeDomainError(w, err)
		return
	}

	a, err := h.audits.Get(r.Context(), auditID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAuditDTO(a))
}

// Recalculate handles POST /audits/{auditID}/recalculate.
func (h *AuditHandlers) Recalculate(w http.ResponseWriter, r *http.Request) {
	score, grade, err := h.scoring.Recompute(r.Context(), chi.URLParam(r, "auditID"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"overall_score": score,
		"overall_grade": grade,
	})
}
