package models

import "encoding/json"

// AssistantRunRequest asks the itinerary assistant for item suggestions.
type AssistantRunRequest struct {
	Mode   string `json:"mode"`
	Prompt string `json:"prompt,omitempty"`

	// Persist inserts the suggested items into the trip's itinerary when
	// true. When false the items are only returned for review.
	Persist bool `json:"persist,omitempty"`
}

// AssistantItem is one itinerary item proposed by the assistant.
type AssistantItem struct {
	Type      string          `json:"type"`
	Date      string          `json:"date"`
	StartTime string          `json:"startTime,omitempty"`
	EndTime   *string         `json:"endTime,omitempty"`
	Title     string          `json:"title"`
	Details   json.RawMessage `json:"details,omitempty"`
	Location  *Point          `json:"location,omitempty"`
	Notes     string          `json:"notes,omitempty"`
}

// AssistantRunResponse carries the assistant's suggestions. Preview holds
// one human-readable line per item, index aligned with Items. Persisted
// holds the stored items when the request asked for persistence.
type AssistantRunResponse struct {
	Items     []AssistantItem `json:"items"`
	Preview   []string        `json:"preview"`
	Persisted []ItineraryItem `json:"persisted,omitempty"`
}
