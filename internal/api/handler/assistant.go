package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wanderplan/wanderplan/internal/api/models"
	"github.com/wanderplan/wanderplan/internal/api/response"
	"github.com/wanderplan/wanderplan/internal/assistant"
	"github.com/wanderplan/wanderplan/internal/featureflags"
	"github.com/wanderplan/wanderplan/internal/trip"
)

// AssistantHandler handles itinerary assistant endpoints.
type AssistantHandler struct {
	trips     *trip.Service
	assistant *assistant.Service
	flags     *featureflags.Service
}

// NewAssistantHandler creates a new AssistantHandler.
func NewAssistantHandler(trips *trip.Service, assistantSvc *assistant.Service, flags *featureflags.Service) *AssistantHandler {
	return &AssistantHandler{
		trips:     trips,
		assistant: assistantSvc,
		flags:     flags,
	}
}

// Run handles POST /v1/trips/{tripID}/assistant - one assistant round for a
// trip. The suggestions are returned for review, and optionally persisted
// into the itinerary when the request asks for it.
func (h *AssistantHandler) Run(w http.ResponseWriter, r *http.Request) {
	if h.flags.IsAssistantDisabled(r.Context()) {
		response.ServiceUnavailable(w, r, "the itinerary assistant is temporarily disabled")
		return
	}

	userID := GetUserID(r.Context())
	tripID := chi.URLParam(r, "tripID")

	var req models.AssistantRunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	mode := assistant.Mode(req.Mode)
	if !mode.Valid() {
		response.BadRequest(w, r, "mode must be one of generate, improve, fill_gaps, suggest", nil)
		return
	}

	t, err := h.trips.Get(r.Context(), userID, tripID)
	if err != nil {
		writeTripError(w, r, err)
		return
	}

	items, err := h.trips.ListItems(r.Context(), userID, tripID)
	if err != nil {
		writeItemError(w, r, err)
		return
	}

	tripCtx, err := toTripContext(t, items)
	if err != nil {
		response.InternalError(w, r, "failed to prepare trip context")
		return
	}

	result, err := h.assistant.Run(r.Context(), mode, tripCtx, req.Prompt)
	if err != nil {
		writeAssistantError(w, r, err)
		return
	}

	out := models.AssistantRunResponse{
		Items:   make([]models.AssistantItem, 0, len(result.Items)),
		Preview: result.Preview,
	}
	for _, draft := range result.Items {
		m, err := toAssistantItemModel(draft)
		if err != nil {
			response.InternalError(w, r, "failed to encode suggestions")
			return
		}
		out.Items = append(out.Items, m)
	}

	if req.Persist && len(result.Items) > 0 {
		inputs := make([]*trip.ItemInput, 0, len(result.Items))
		for _, draft := range result.Items {
			input, err := toDraftInput(draft)
			if err != nil {
				response.InternalError(w, r, "failed to encode suggestions")
				return
			}
			inputs = append(inputs, input)
		}

		created, err := h.trips.AddItems(r.Context(), userID, tripID, inputs)
		if err != nil {
			// Model output that fails itinerary validation is a model
			// problem, not a client one.
			var validationErr *trip.ValidationError
			if errors.As(err, &validationErr) {
				response.Unprocessable(w, r, "assistant produced items that failed validation")
				return
			}
			writeItemError(w, r, err)
			return
		}

		persisted, err := toItemModels(created)
		if err != nil {
			response.InternalError(w, r, "failed to encode itinerary")
			return
		}
		out.Persisted = persisted
	}

	response.JSON(w, r, http.StatusOK, out)
}

// toTripContext assembles what the assistant is told about the trip.
func toTripContext(t *trip.Trip, items []*trip.ItineraryItem) (assistant.TripContext, error) {
	ctx := assistant.TripContext{
		DestinationName: t.Destination.Name,
		StartDate:       t.StartDate,
		EndDate:         t.EndDate,
	}

	for _, item := range items {
		encoded, err := trip.EncodeDetails(item.Details)
		if err != nil {
			return assistant.TripContext{}, err
		}
		var details map[string]any
		if err := json.Unmarshal(encoded, &details); err != nil {
			return assistant.TripContext{}, err
		}
		if len(details) == 0 {
			details = nil
		}

		existing := assistant.ExistingItem{
			ID:        item.ID,
			Type:      string(item.Type),
			Date:      item.Date,
			StartTime: item.StartTime,
			EndTime:   item.EndTime,
			Title:     item.Title,
			Details:   details,
			Notes:     item.Notes,
		}
		if item.Location != (trip.Geo{}) {
			existing.Location = &assistant.Geo{Lat: item.Location.Lat, Lon: item.Location.Lon}
		}
		ctx.Items = append(ctx.Items, existing)
	}

	return ctx, nil
}

// toAssistantItemModel converts a draft to its API representation.
func toAssistantItemModel(draft assistant.ItemDraft) (models.AssistantItem, error) {
	out := models.AssistantItem{
		Type:      draft.Type,
		Date:      draft.Date,
		StartTime: draft.StartTime,
		EndTime:   draft.EndTime,
		Title:     draft.Title,
		Notes:     draft.Notes,
	}

	if len(draft.Details) > 0 {
		encoded, err := json.Marshal(draft.Details)
		if err != nil {
			return models.AssistantItem{}, err
		}
		out.Details = encoded
	}
	if draft.Location != nil {
		out.Location = &models.Point{Lat: draft.Location.Lat, Lon: draft.Location.Lon}
	}

	return out, nil
}

// toDraftInput converts a draft to an itinerary insert input.
func toDraftInput(draft assistant.ItemDraft) (*trip.ItemInput, error) {
	input := &trip.ItemInput{
		Type:      trip.ItemType(draft.Type),
		Date:      draft.Date,
		StartTime: draft.StartTime,
		EndTime:   draft.EndTime,
		Title:     draft.Title,
		Notes:     draft.Notes,
	}

	if len(draft.Details) > 0 {
		encoded, err := json.Marshal(draft.Details)
		if err != nil {
			return nil, err
		}
		input.Details = encoded
	}
	if draft.Location != nil {
		input.Location = trip.Geo{Lat: draft.Location.Lat, Lon: draft.Location.Lon}
	}

	return input, nil
}

// writeAssistantError maps assistant errors onto problem responses.
// Malformed model output is reported as 422 so clients can distinguish a
// retryable model failure from a bad request of their own.
func writeAssistantError(w http.ResponseWriter, r *http.Request, err error) {
	var invalidJSON *assistant.InvalidJSONError
	switch {
	case errors.Is(err, assistant.ErrInvalidMode):
		response.BadRequest(w, r, "unrecognized assistant mode", nil)
	case errors.Is(err, assistant.ErrUnavailable):
		response.ServiceUnavailable(w, r, "assistant provider unavailable")
	case errors.As(err, &invalidJSON),
		errors.Is(err, assistant.ErrEmptyResponse),
		errors.Is(err, assistant.ErrUnparsable),
		errors.Is(err, assistant.ErrEmptyItemSet):
		response.Unprocessable(w, r, "the assistant did not produce a usable itinerary")
	default:
		response.InternalError(w, r, "assistant run failed")
	}
}
