package handlers

import (
	"net/http"

	"github.com/localkart/dispatch/internal/logx"
)

// AssignmentHandler serves HTTP endpoints for the assignment lifecycle.
type AssignmentHandler struct {
	usecase assignmentUsecase
	logger  logx.Logger
}

// NewAssignmentHandler creates a new AssignmentHandler.
func NewAssignmentHandler(logger logx.Logger, uc assignmentUsecase) *AssignmentHandler {
	return &AssignmentHandler{usecase: uc, logger: logger}
}

// GetByID handles GET /assignments/{id}.
func (h *AssignmentHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}

	a, err := h.usecase.Get(r.Context(), id)
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, assignmentToDTO(a))
}

// ListByOrder handles GET /orders/{orderID}/assignments.
func (h *AssignmentHandler) ListByOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := idFromURL(r, "orderID")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid order id")
		return
	}

	list, err := h.usecase.ListByOrder(r.Context(), orderID)
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, assignmentsToDTO(list))
}

// ListActiveByPartner handles GET /partners/{id}/assignments.
func (h *AssignmentHandler) ListActiveByPartner(w http.ResponseWriter, r *http.Request) {
	partnerID, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}

	list, err := h.usecase.ListActiveByPartner(r.Context(), partnerID)
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, assignmentsToDTO(list))
}

// Accept handles POST /assignments/{id}/accept.
func (h *AssignmentHandler) Accept(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}
	var req transitionRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}

	a, err := h.usecase.Accept(r.Context(), id, req.PartnerID)
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, assignmentToDTO(a))
}

// Reject handles POST /assignments/{id}/reject.
func (h *AssignmentHandler) Reject(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}
	var req rejectRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}

	a, err := h.usecase.Reject(r.Context(), id, req.PartnerID, req.Reason)
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, assignmentToDTO(a))
}

// Pickup handles POST /assignments/{id}/pickup.
func (h *AssignmentHandler) Pickup(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}
	var req transitionRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}

	a, err := h.usecase.MarkPickedUp(r.Context(), id, req.PartnerID)
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, assignmentToDTO(a))
}

// Transit handles POST /assignments/{id}/transit.
func (h *AssignmentHandler) Transit(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}
	var req transitionRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}

	a, err := h.usecase.MarkInTransit(r.Context(), id, req.PartnerID)
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, assignmentToDTO(a))
}

// Deliver handles POST /assignments/{id}/deliver.
func (h *AssignmentHandler) Deliver(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}
	var req deliverRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}

	a, err := h.usecase.MarkDelivered(r.Context(), id, req.PartnerID, req.Notes)
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, assignmentToDTO(a))
}

// Cancel handles POST /assignments/{id}/cancel.
func (h *AssignmentHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}
	var req cancelRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}

	a, err := h.usecase.Cancel(r.Context(), id, req.Reason)
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, assignmentToDTO(a))
}
