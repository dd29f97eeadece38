package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"sitegrade/application"
	"sitegrade/domain/content"
	"sitegrade/logging"
)

// CopyHandlers serves the report copy template endpoints.
type CopyHandlers struct {
	copy   *application.CopyService
	logger *logging.Logger
}

// NewCopyHandlers creates the copy template handler set.
func NewCopyHandlers(copyService *application.CopyService) *CopyHandlers {
	return &CopyHandlers{
		copy:   copyService,
		logger: logging.Default().WithComponent("copy_handlers"),
	}
}

type templateDTO struct {
	Name      string    `json:"name"`
	Content   string    `json:"content"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ListTemplates handles GET /templates.
func (h *CopyHandlers) ListTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := h.copy.List(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	dtos := make([]templateDTO, 0, len(templates))
	for _, t := range templates {
		dtos = append(dtos, templateDTO{Name: t.Name, Content: t.Content, UpdatedAt: t.UpdatedAt})
	}
	writeJSON(w, http.StatusOK, dtos)
}

// RenderTemplate handles GET /templates/{name}/render. Query parameters are
// passed through as substitution variables.
func (h *CopyHandlers) RenderTemplate(w http.ResponseWriter, r *http.Request) {
	vars := make(map[string]string)
	for key, values := range r.URL.Query() {
		if len(values) > 0 {
			vars[key] = values[0]
		}
	}

	rendered, err := h.copy.Render(r.Context(), chi.URLParam(r, "name"), vars)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"rendered": rendered})
}

type updateTemplateRequest struct {
	Content string `json:"content"`
}

// UpdateTemplate handles PUT /templates/{name}.
func (h *CopyHandlers) UpdateTemplate(w http.ResponseWriter, r *http.Request) {
	var req updateTemplateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Content == "" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("content is required"))
		return
	}

	t := &content.CopyTemplate{Name: chi.URLParam(r, "name"), Content: req.Content}
	if err := h.copy.Update(r.Context(), t); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, templateDTO{Name: t.Name, Content: t.Content, UpdatedAt: t.UpdatedAt})
}
