// Package assistant builds itinerary-assistant requests and recovers typed
// itinerary drafts from free-text model replies.
package assistant

import (
	"errors"
	"fmt"
)

// Assistant errors.
var (
	ErrInvalidMode   = errors.New("unrecognized assistant mode")
	ErrEmptyResponse = errors.New("empty response from model")
	ErrUnparsable    = errors.New("could not locate a JSON array in model response")
	ErrEmptyItemSet  = errors.New("model response contained no itinerary items")
	ErrUnavailable   = errors.New("assistant provider unavailable")
)

// InvalidJSONError reports a JSON candidate that failed to parse. It carries
// the offending text so callers can log or display it; the parse is never
// retried automatically.
type InvalidJSONError struct {
	Err  error
	Text string
}

func (e *InvalidJSONError) Error() string {
	return fmt.Sprintf("model produced invalid JSON: %v", e.Err)
}

func (e *InvalidJSONError) Unwrap() error {
	return e.Err
}

// Mode selects what the assistant is asked to do with the itinerary.
type Mode string

const (
	// ModeGenerate creates a new itinerary from scratch.
	ModeGenerate Mode = "generate"

	// ModeImprove enhances an existing itinerary.
	ModeImprove Mode = "improve"

	// ModeFillGaps adds items to empty time slots.
	ModeFillGaps Mode = "fill_gaps"

	// ModeSuggest recommends restaurants and activities only.
	ModeSuggest Mode = "suggest"
)

// Valid reports whether the mode is one of the four recognized values.
func (m Mode) Valid() bool {
	switch m {
	case ModeGenerate, ModeImprove, ModeFillGaps, ModeSuggest:
		return true
	}
	return false
}

// FinishReasonLength is the provider signal that generation stopped because
// it hit the response length limit. It enables truncation recovery in Parse.
const FinishReasonLength = "length"

// TripContext is what the assistant knows about the trip being planned.
type TripContext struct {
	// DestinationName is the trip destination's display name.
	DestinationName string

	// StartDate and EndDate are calendar dates in YYYY-MM-DD form.
	StartDate string
	EndDate   string

	// Items is the existing itinerary, in schedule order, identities
	// included. It is embedded verbatim for every mode except generate.
	Items []ExistingItem
}

// ExistingItem is one persisted itinerary entry as shown to the model.
type ExistingItem struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Date      string         `json:"date"`
	StartTime string         `json:"startTime,omitempty"`
	EndTime   *string        `json:"endTime,omitempty"`
	Title     string         `json:"title"`
	Details   map[string]any `json:"details,omitempty"`
	Location  *Geo           `json:"location,omitempty"`
	Notes     string         `json:"notes,omitempty"`
}

// Request is the outbound model request, built deterministically from the
// mode, the trip context, and the user's free-text prompt.
type Request struct {
	Mode         Mode
	SystemPrompt string
	UserMessage  string
}

// Completion is what the model call returns: the raw text and the provider's
// reason for stopping.
type Completion struct {
	Content      string
	FinishReason string
}

// Geo is a latitude/longitude pair.
type Geo struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// ItemDraft is one itinerary item proposed by the model. Drafts carry no
// identity; the persistence layer assigns IDs on insert. Field completeness
// is not guaranteed by the parser, only array-of-object structure.
type ItemDraft struct {
	Type      string         `json:"type"`
	Date      string         `json:"date"`
	StartTime string         `json:"startTime"`
	EndTime   *string        `json:"endTime"`
	Title     string         `json:"title"`
	Details   map[string]any `json:"details"`
	Location  *Geo           `json:"location"`
	Notes     string         `json:"notes"`
}

// detail returns a string detail field, or "" when absent or not a string.
func (d ItemDraft) detail(key string) string {
	if d.Details == nil {
		return ""
	}
	if s, ok := d.Details[key].(string); ok {
		return s
	}
	return ""
}
