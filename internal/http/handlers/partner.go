package handlers

import (
	"net/http"
	"strconv"

	"github.com/localkart/dispatch/internal/domain"
	"github.com/localkart/dispatch/internal/logx"
	"github.com/localkart/dispatch/internal/service/registry"
)

// PartnerHandler serves HTTP endpoints for delivery partner presence.
type PartnerHandler struct {
	usecase partnerUsecase
	logger  logx.Logger
}

// NewPartnerHandler creates a new PartnerHandler.
func NewPartnerHandler(logger logx.Logger, uc partnerUsecase) *PartnerHandler {
	return &PartnerHandler{usecase: uc, logger: logger}
}

// Create handles POST /partners.
func (h *PartnerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createPartnerRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}

	id, err := h.usecase.Create(r.Context(), &domain.DeliveryPartner{
		Name:  req.Name,
		Phone: req.Phone,
	})
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	w.Header().Set("Location", "/partners/"+strconv.FormatInt(id, 10))
	writeJSON(h.logger, w, r, http.StatusCreated, map[string]any{"id": id})
}

// GetByID handles GET /partners/{id}.
func (h *PartnerHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}

	p, err := h.usecase.Get(r.Context(), id)
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, partnerToDTO(p))
}

// SetOnline handles PUT /partners/{id}/online.
func (h *PartnerHandler) SetOnline(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}
	var req setOnlineRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}

	if err := h.usecase.SetOnline(r.Context(), id, req.Online); err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, map[string]string{"status": "ok"})
}

// SetAvailability handles PUT /partners/{id}/availability.
func (h *PartnerHandler) SetAvailability(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}
	var req setAvailableRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}

	if err := h.usecase.SetAvailable(r.Context(), id, req.Available); err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, map[string]string{"status": "ok"})
}

// SetRideStatus handles PUT /partners/{id}/ride-status.
func (h *PartnerHandler) SetRideStatus(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}
	var req setRideStatusRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}
	st, err := registry.ParseRideStatus(req.RideStatus)
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid ride status")
		return
	}

	if err := h.usecase.SetRideStatus(r.Context(), id, st); err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, map[string]string{"status": "ok"})
}
