package handler

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wanderplan/wanderplan/internal/api/models"
	"github.com/wanderplan/wanderplan/internal/api/response"
	"github.com/wanderplan/wanderplan/internal/featureflags"
	"github.com/wanderplan/wanderplan/internal/trip"
)

// ShareHandler handles trip share-link endpoints.
type ShareHandler struct {
	trips *trip.Service
	flags *featureflags.Service

	// baseURL is the public site prefix used to build share URLs,
	// e.g. "https://wanderplan.app".
	baseURL string
}

// NewShareHandler creates a new ShareHandler.
func NewShareHandler(trips *trip.Service, flags *featureflags.Service, baseURL string) *ShareHandler {
	return &ShareHandler{
		trips:   trips,
		flags:   flags,
		baseURL: baseURL,
	}
}

// CreateShareLink handles POST /v1/trips/{tripID}/share - mint or return the
// trip's share link. Repeated calls return the same token until it is
// revoked.
func (h *ShareHandler) CreateShareLink(w http.ResponseWriter, r *http.Request) {
	if h.flags.IsTripSharingDisabled(r.Context()) {
		response.ServiceUnavailable(w, r, "trip sharing is temporarily disabled")
		return
	}

	userID := GetUserID(r.Context())
	tripID := chi.URLParam(r, "tripID")

	token, err := h.trips.GenerateShareToken(r.Context(), userID, tripID)
	if err != nil {
		writeTripError(w, r, err)
		return
	}

	response.JSON(w, r, http.StatusOK, models.ShareResponse{
		Token: token,
		URL:   fmt.Sprintf("%s/shared/%s", h.baseURL, token),
	})
}

// RevokeShareLink handles DELETE /v1/trips/{tripID}/share - revoke the
// trip's share link. Previously issued URLs stop resolving.
func (h *ShareHandler) RevokeShareLink(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	tripID := chi.URLParam(r, "tripID")

	if err := h.trips.RevokeShareToken(r.Context(), userID, tripID); err != nil {
		writeTripError(w, r, err)
		return
	}

	response.NoContent(w, r)
}

// GetSharedTrip handles GET /v1/shared/{token} - the public read-only view
// of a shared trip. No authentication required.
func (h *ShareHandler) GetSharedTrip(w http.ResponseWriter, r *http.Request) {
	if h.flags.IsTripSharingDisabled(r.Context()) {
		response.ServiceUnavailable(w, r, "trip sharing is temporarily disabled")
		return
	}

	token := chi.URLParam(r, "token")

	shared, err := h.trips.GetShared(r.Context(), token)
	if err != nil {
		if trip.IsNotFound(err) {
			response.NotFound(w, r, "shared trip not found")
			return
		}
		response.InternalError(w, r, "failed to load shared trip")
		return
	}

	items, err := toItemModels(shared.Items)
	if err != nil {
		response.InternalError(w, r, "failed to encode itinerary")
		return
	}

	response.JSON(w, r, http.StatusOK, models.SharedTrip{
		Trip:  toTripModel(shared.Trip),
		Items: items,
	})
}
