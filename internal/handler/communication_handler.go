package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"propertypulse/internal/models"
	"propertypulse/internal/service"

	"github.com/gorilla/mux"
)

// CommunicationHandler handles HTTP requests for bulk messaging and logs
type CommunicationHandler struct {
	communicationService *service.CommunicationService
}

// NewCommunicationHandler creates a new communication handler
func NewCommunicationHandler(communicationService *service.CommunicationService) *CommunicationHandler {
	return &CommunicationHandler{
		communicationService: communicationService,
	}
}

// BulkSend handles POST /communications/bulk-send
func (h *CommunicationHandler) BulkSend(w http.ResponseWriter, r *http.Request) {
	var req service.BulkMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err == io.EOF {
			WriteError(w, http.StatusBadRequest, "INVALID_JSON", "Request body is empty")
			return
		}
		WriteError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON format")
		return
	}

	result, err := h.communicationService.SendBulk(r.Context(), &req)
	if err != nil {
		HandleServiceError(w, err)
		return
	}

	WriteOK(w, result)
}

// RecipientGroups handles GET /communications/recipient-groups
func (h *CommunicationHandler) RecipientGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := h.communicationService.RecipientGroups(r.Context())
	if err != nil {
		HandleServiceError(w, err)
		return
	}

	WriteOK(w, groups)
}

// ListLogs handles GET /communications/logs
func (h *CommunicationHandler) ListLogs(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	page := 1
	if pageStr := query.Get("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			page = p
		}
	}

	perPage := 20
	if perPageStr := query.Get("per_page"); perPageStr != "" {
		if pp, err := strconv.Atoi(perPageStr); err == nil && pp > 0 {
			perPage = pp
		}
	}
	if perPage > 100 {
		perPage = 100
	}

	logs, pagination, err := h.communicationService.ListLogs(r.Context(), query.Get("status_filter"), page, perPage)
	if err != nil {
		HandleServiceError(w, err)
		return
	}

	WriteOK(w, ListLogsResponse{
		Logs:       logs,
		Pagination: pagination,
	})
}

// GetLog handles GET /communications/logs/{id}
func (h *CommunicationHandler) GetLog(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id <= 0 {
		WriteValidationError(w, "invalid log ID")
		return
	}

	entry, err := h.communicationService.GetLog(r.Context(), id)
	if err != nil {
		HandleServiceError(w, err)
		return
	}

	WriteOK(w, entry)
}

// SendScheduled handles POST /communications/send-scheduled. It queues every
// due scheduled log for the worker; an external scheduler calls this
// periodically.
func (h *CommunicationHandler) SendScheduled(w http.ResponseWriter, r *http.Request) {
	queued, err := h.communicationService.QueueDueScheduled(r.Context())
	if err != nil {
		HandleServiceError(w, err)
		return
	}

	WriteOK(w, SendScheduledResponse{
		Status:    "completed",
		Processed: queued,
	})
}

// Request/Response types

// ListLogsResponse represents the response for listing communication logs
type ListLogsResponse struct {
	Logs       []*models.CommunicationLog `json:"logs"`
	Pagination *service.PaginationInfo    `json:"pagination"`
}

// SendScheduledResponse reports how many scheduled sends were queued
type SendScheduledResponse struct {
	Status    string `json:"status"`
	Processed int    `json:"processed"`
}
