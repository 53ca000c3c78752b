package assistant_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wanderplan/wanderplan/internal/assistant"
)

func testTripContext() assistant.TripContext {
	return assistant.TripContext{
		DestinationName: "Lisbon",
		StartDate:       "2025-06-01",
		EndDate:         "2025-06-05",
		Items: []assistant.ExistingItem{
			{
				ID:    "itm_abc123",
				Type:  "activity",
				Date:  "2025-06-02",
				Title: "Tram 28 ride",
			},
		},
	}
}

func TestBuildRequest_InvalidMode(t *testing.T) {
	_, err := assistant.BuildRequest("summarize", testTripContext(), "hello")
	assert.ErrorIs(t, err, assistant.ErrInvalidMode)
}

func TestBuildRequest_Deterministic(t *testing.T) {
	first, err := assistant.BuildRequest(assistant.ModeSuggest, testTripContext(), "seafood places")
	require.NoError(t, err)
	second, err := assistant.BuildRequest(assistant.ModeSuggest, testTripContext(), "seafood places")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestBuildRequest_SystemPromptPerMode(t *testing.T) {
	tests := []struct {
		mode     assistant.Mode
		fragment string
	}{
		{assistant.ModeGenerate, "Generate a complete trip itinerary"},
		{assistant.ModeImprove, "IMPROVE an existing itinerary"},
		{assistant.ModeFillGaps, "FILL GAPS in an existing itinerary"},
		{assistant.ModeSuggest, "SUGGEST restaurants and activities"},
	}

	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			req, err := assistant.BuildRequest(tt.mode, testTripContext(), "prompt")
			require.NoError(t, err)

			assert.Contains(t, req.SystemPrompt, tt.fragment)
			// Every mode embeds the item shape and the shared rules.
			assert.Contains(t, req.SystemPrompt, `"type": "flight" | "hotel" | "transport" | "activity" | "restaurant" | "other"`)
			assert.Contains(t, req.SystemPrompt, "Return ONLY a valid JSON array")
		})
	}
}

func TestBuildRequest_UserMessageContext(t *testing.T) {
	req, err := assistant.BuildRequest(assistant.ModeSuggest, testTripContext(), "seafood places")
	require.NoError(t, err)

	assert.Contains(t, req.UserMessage, "Destination: Lisbon")
	assert.Contains(t, req.UserMessage, "Start Date: 2025-06-01")
	assert.Contains(t, req.UserMessage, "End Date: 2025-06-05")
	assert.Contains(t, req.UserMessage, "User Request: seafood places")
}

func TestBuildRequest_Fallbacks(t *testing.T) {
	req, err := assistant.BuildRequest(assistant.ModeGenerate, assistant.TripContext{}, "plan my trip")
	require.NoError(t, err)

	assert.Contains(t, req.UserMessage, "Destination: the destination")
	assert.Contains(t, req.UserMessage, "Start Date: Not specified")
	assert.Contains(t, req.UserMessage, "End Date: Not specified")
}

func TestBuildRequest_GenerateOmitsExistingItems(t *testing.T) {
	req, err := assistant.BuildRequest(assistant.ModeGenerate, testTripContext(), "plan my trip")
	require.NoError(t, err)

	assert.NotContains(t, req.UserMessage, "Existing Itinerary")
	assert.NotContains(t, req.UserMessage, "itm_abc123")
}

func TestBuildRequest_NonGenerateModesEmbedExistingItems(t *testing.T) {
	for _, mode := range []assistant.Mode{assistant.ModeImprove, assistant.ModeFillGaps, assistant.ModeSuggest} {
		t.Run(string(mode), func(t *testing.T) {
			req, err := assistant.BuildRequest(mode, testTripContext(), "prompt")
			require.NoError(t, err)

			assert.Contains(t, req.UserMessage, "Existing Itinerary (1 items):")
			assert.Contains(t, req.UserMessage, "itm_abc123")
			assert.Contains(t, req.UserMessage, "Tram 28 ride")
		})
	}
}

func TestBuildRequest_EmptyItineraryNotEmbedded(t *testing.T) {
	trip := testTripContext()
	trip.Items = nil

	req, err := assistant.BuildRequest(assistant.ModeImprove, trip, "prompt")
	require.NoError(t, err)

	assert.NotContains(t, req.UserMessage, "Existing Itinerary")
}

func TestDefaultPrompt(t *testing.T) {
	assert.NotEmpty(t, assistant.DefaultPrompt(assistant.ModeGenerate))
	assert.NotEmpty(t, assistant.DefaultPrompt(assistant.ModeSuggest))
	assert.Empty(t, assistant.DefaultPrompt("bogus"))
}
