package handlers

import (
	"net/http"

	"github.com/localkart/dispatch/internal/logx"
)

// DispatchHandler serves HTTP endpoints for creating assignments.
type DispatchHandler struct {
	usecase dispatchUsecase
	logger  logx.Logger
}

// NewDispatchHandler creates a new DispatchHandler.
func NewDispatchHandler(logger logx.Logger, uc dispatchUsecase) *DispatchHandler {
	return &DispatchHandler{usecase: uc, logger: logger}
}

// AutoAssign handles POST /assignments/auto.
func (h *DispatchHandler) AutoAssign(w http.ResponseWriter, r *http.Request) {
	var req autoAssignRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}

	a, err := h.usecase.AutoAssign(r.Context(), req.OrderID, req.AssignedBy)
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusCreated, assignmentToDTO(a))
}

// ManualAssign handles POST /assignments/manual.
func (h *DispatchHandler) ManualAssign(w http.ResponseWriter, r *http.Request) {
	var req manualAssignRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}

	a, err := h.usecase.ManualAssign(r.Context(), req.OrderID, req.PartnerID, req.AssignedBy)
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusCreated, assignmentToDTO(a))
}
