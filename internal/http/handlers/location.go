package handlers

import (
	"net/http"
	"time"

	"github.com/localkart/dispatch/internal/logx"
	"github.com/localkart/dispatch/internal/service/tracking"
)

// LocationHandler serves HTTP endpoints for partner location tracking.
type LocationHandler struct {
	usecase trackingUsecase
	logger  logx.Logger
}

// NewLocationHandler creates a new LocationHandler.
func NewLocationHandler(logger logx.Logger, uc trackingUsecase) *LocationHandler {
	return &LocationHandler{usecase: uc, logger: logger}
}

// Record handles POST /partners/{id}/location.
func (h *LocationHandler) Record(w http.ResponseWriter, r *http.Request) {
	partnerID, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}
	var req recordLocationRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}

	loc, err := h.usecase.RecordLocation(r.Context(), tracking.RecordInput{
		PartnerID:    partnerID,
		Lat:          req.Lat,
		Lng:          req.Lng,
		AccuracyM:    req.AccuracyM,
		SpeedMPS:     req.SpeedMPS,
		HeadingDeg:   req.HeadingDeg,
		AssignmentID: req.AssignmentID,
		OrderStatus:  req.OrderStatus,
	})
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusCreated, locationToDTO(loc))
}

// Current handles GET /partners/{id}/location.
func (h *LocationHandler) Current(w http.ResponseWriter, r *http.Request) {
	partnerID, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}

	loc, err := h.usecase.CurrentLocation(r.Context(), partnerID)
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, locationToDTO(loc))
}

// History handles GET /partners/{id}/location/history?start=...&end=...
// with RFC3339 bounds.
func (h *LocationHandler) History(w http.ResponseWriter, r *http.Request) {
	partnerID, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}
	q := r.URL.Query()
	start, err := time.Parse(time.RFC3339, q.Get("start"))
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid start")
		return
	}
	end, err := time.Parse(time.RFC3339, q.Get("end"))
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid end")
		return
	}

	list, err := h.usecase.History(r.Context(), partnerID, start, end)
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, locationsToDTO(list))
}

// Route handles GET /partners/{id}/route/{assignmentID}.
func (h *LocationHandler) Route(w http.ResponseWriter, r *http.Request) {
	partnerID, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}
	assignmentID, err := idFromURL(r, "assignmentID")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid assignment id")
		return
	}

	list, err := h.usecase.Route(r.Context(), partnerID, assignmentID)
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, locationsToDTO(list))
}

// ETA handles GET /partners/{id}/eta?lat=...&lng=...
func (h *LocationHandler) ETA(w http.ResponseWriter, r *http.Request) {
	partnerID, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}
	lat, ok := floatQuery(r, "lat")
	if !ok {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid lat")
		return
	}
	lng, ok := floatQuery(r, "lng")
	if !ok {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid lng")
		return
	}

	eta, err := h.usecase.EstimateArrival(r.Context(), partnerID, lat, lng)
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, etaDTO{
		DistanceKm:  eta.DistanceKm,
		Minutes:     eta.Minutes,
		SpeedKmh:    eta.SpeedKmh,
		CurrentLat:  eta.CurrentLat,
		CurrentLng:  eta.CurrentLng,
		LastUpdated: eta.LastUpdated,
	})
}

// Online handles GET /partners/{id}/online.
func (h *LocationHandler) Online(w http.ResponseWriter, r *http.Request) {
	partnerID, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}

	online, err := h.usecase.IsOnline(r.Context(), partnerID)
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, onlineDTO{PartnerID: partnerID, Online: online})
}

// Nearby handles GET /partners/nearby?lat=...&lng=...&radius_km=...
func (h *LocationHandler) Nearby(w http.ResponseWriter, r *http.Request) {
	lat, ok := floatQuery(r, "lat")
	if !ok {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid lat")
		return
	}
	lng, ok := floatQuery(r, "lng")
	if !ok {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid lng")
		return
	}
	radius, ok := floatQuery(r, "radius_km")
	if !ok {
		radius = 5
	}

	list, err := h.usecase.Nearby(r.Context(), lat, lng, radius)
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, locationsToDTO(list))
}
