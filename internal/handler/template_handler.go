package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"propertypulse/internal/service"

	"github.com/gorilla/mux"
)

// TemplateHandler handles HTTP requests for message template operations
type TemplateHandler struct {
	templateService *service.TemplateService
}

// NewTemplateHandler creates a new template handler
func NewTemplateHandler(templateService *service.TemplateService) *TemplateHandler {
	return &TemplateHandler{
		templateService: templateService,
	}
}

// List handles GET /communications/templates
func (h *TemplateHandler) List(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")

	templates, err := h.templateService.List(r.Context(), category)
	if err != nil {
		HandleServiceError(w, err)
		return
	}

	WriteOK(w, ListTemplatesResponse{Templates: templates})
}

// Create handles POST /communications/templates
func (h *TemplateHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.CreateTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err == io.EOF {
			WriteError(w, http.StatusBadRequest, "INVALID_JSON", "Request body is empty")
			return
		}
		WriteError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON format")
		return
	}

	template, err := h.templateService.Create(r.Context(), &req)
	if err != nil {
		HandleServiceError(w, err)
		return
	}

	WriteCreated(w, template)
}

// Delete handles DELETE /communications/templates/{id}
func (h *TemplateHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id <= 0 {
		WriteValidationError(w, "invalid template ID")
		return
	}

	if err := h.templateService.Delete(r.Context(), id); err != nil {
		HandleServiceError(w, err)
		return
	}

	WriteOK(w, map[string]string{"message": "Template deleted successfully"})
}

// SeedDefaults handles POST /communications/templates/seed-defaults
func (h *TemplateHandler) SeedDefaults(w http.ResponseWriter, r *http.Request) {
	count, err := h.templateService.SeedDefaults(r.Context())
	if err != nil {
		HandleServiceError(w, err)
		return
	}

	WriteOK(w, SeedDefaultsResponse{Count: count})
}

// Request/Response types

// ListTemplatesResponse represents the response for listing templates
type ListTemplatesResponse struct {
	Templates []*service.TemplateWithVariables `json:"templates"`
}

// SeedDefaultsResponse reports how many default templates were created
type SeedDefaultsResponse struct {
	Count int `json:"count"`
}
