package assistant

import (
	"encoding/json"
	"fmt"
	"strings"
)

// jsonStructure is the exact item shape the model must emit. It is embedded
// in every system prompt.
const jsonStructure = `Each item must follow this exact structure:
{
  "type": "flight" | "hotel" | "transport" | "activity" | "restaurant" | "other",
  "date": "YYYY-MM-DD",
  "startTime": "HH:MM",
  "endTime": "HH:MM" or null,
  "title": "string",
  "details": {
    For flight: { "from": "city", "fromIata": "CODE", "to": "city", "toIata": "CODE", "airline": "name", "pnr": "" }
    For hotel: { "hotelName": "name", "address": "address", "checkInDate": "YYYY-MM-DD", "checkIn": "HH:MM", "checkOutDate": "YYYY-MM-DD", "checkOut": "HH:MM" }
    For transport: { "mode": "Taxi|Bus|Train|Auto|Car Rental|Metro|Bike|Walk|Other", "from": "location", "to": "location" }
    For activity: { "place": "name", "category": "Sightseeing|Adventure|Beach|Museum|Shopping|Nightlife|Wellness|Tour|Other", "location": "address" }
    For restaurant: { "restaurantName": "name", "cuisine": "type", "location": "address" }
    For other: { "description": "text", "location": "address" }
  },
  "location": { "lat": number, "lon": number },
  "notes": "string"
}`

// baseRules is the shared rule set appended to every system prompt.
const baseRules = `
IMPORTANT RULES:
1. Return ONLY a valid JSON array. No markdown, no explanation, no code blocks.
2. Use realistic times and proper scheduling (don't overlap activities).
3. Include location coordinates when possible.
4. IDs are NOT needed - they will be added later.
5. Dates must be within the trip date range provided.
6. Be specific with place names and addresses for the destination.
7. Keep notes brief (under 20 words each).`

// systemPrompt returns the fixed system prompt for a mode.
func systemPrompt(mode Mode) string {
	switch mode {
	case ModeGenerate:
		return fmt.Sprintf(`You are an AI travel itinerary assistant. Generate a complete trip itinerary in JSON format.

%s

%s
8. Create a balanced mix of activities, restaurants, and sightseeing.
9. Generate a reasonable number of items (not too hectic).`, jsonStructure, baseRules)

	case ModeImprove:
		return fmt.Sprintf(`You are an AI travel itinerary assistant. Your task is to IMPROVE an existing itinerary.

%s

%s
8. Analyze the existing itinerary and suggest BETTER alternatives or additions.
9. Replace generic places with more interesting/authentic options.
10. Optimize timing and logistics.
11. Return ONLY the NEW or IMPROVED items (not the unchanged existing ones).`, jsonStructure, baseRules)

	case ModeFillGaps:
		return fmt.Sprintf(`You are an AI travel itinerary assistant. Your task is to FILL GAPS in an existing itinerary.

%s

%s
8. Analyze the existing itinerary to find empty time slots or days.
9. Add activities/restaurants for morning, afternoon, or evening gaps.
10. Don't duplicate or overlap with existing items.
11. Return ONLY the NEW items to fill the gaps.`, jsonStructure, baseRules)

	case ModeSuggest:
		return fmt.Sprintf(`You are an AI travel itinerary assistant. Your task is to SUGGEST restaurants and activities.

%s

%s
8. Focus ONLY on restaurants and activities (type: "restaurant" or "activity").
9. Suggest local favorites, hidden gems, and must-visit places.
10. Consider the existing itinerary to avoid duplicates.
11. Provide a variety of cuisines and activity types.`, jsonStructure, baseRules)
	}

	return ""
}

// BuildRequest constructs the outbound model request for a mode, trip
// context, and user prompt. The construction is deterministic: identical
// inputs always produce an identical request. Returns ErrInvalidMode for an
// unrecognized mode.
func BuildRequest(mode Mode, trip TripContext, prompt string) (Request, error) {
	if !mode.Valid() {
		return Request{}, fmt.Errorf("%w: %q", ErrInvalidMode, mode)
	}

	return Request{
		Mode:         mode,
		SystemPrompt: systemPrompt(mode),
		UserMessage:  userMessage(mode, trip, prompt),
	}, nil
}

// userMessage assembles the per-request message: trip context, the existing
// itinerary for modes that revise one, and mode-specific closing instructions.
func userMessage(mode Mode, trip TripContext, prompt string) string {
	destination := trip.DestinationName
	if destination == "" {
		destination = "the destination"
	}
	startDate := trip.StartDate
	if startDate == "" {
		startDate = "Not specified"
	}
	endDate := trip.EndDate
	if endDate == "" {
		endDate = "Not specified"
	}

	var b strings.Builder
	fmt.Fprintf(&b, `
Trip Context:
- Destination: %s
- Start Date: %s
- End Date: %s
`, destination, startDate, endDate)

	// Generate always starts from a blank slate; the other modes need the
	// current itinerary to avoid duplication and overlap.
	if mode != ModeGenerate && len(trip.Items) > 0 {
		serialized, err := json.MarshalIndent(trip.Items, "", "  ")
		if err == nil {
			fmt.Fprintf(&b, "\nExisting Itinerary (%d items):\n%s\n", len(trip.Items), serialized)
		}
	}

	switch mode {
	case ModeGenerate:
		fmt.Fprintf(&b, `
User Request: %s

Generate a realistic itinerary based on the user's request. Don't make it too hectic. Focus on quality activities. Be specific to %s with real places.`, prompt, destination)
	case ModeImprove:
		fmt.Fprintf(&b, `
User Request: %s

Review the existing itinerary above and suggest improvements. Replace generic items with better alternatives. Optimize the schedule. Return only NEW or IMPROVED items.`, prompt)
	case ModeFillGaps:
		fmt.Fprintf(&b, `
User Request: %s

Analyze the existing itinerary and find empty time slots. Fill gaps with appropriate activities or meals. Don't overlap with existing items. Return only NEW items to add.`, prompt)
	case ModeSuggest:
		fmt.Fprintf(&b, `
User Request: %s

Based on the trip to %s, suggest the best restaurants and activities. Include local favorites and hidden gems. Avoid duplicating existing items. Focus on food and experiences.`, prompt, destination)
	}

	return b.String()
}

// DefaultPrompt returns the suggested starting prompt for a mode, shown to
// users before they customize their request.
func DefaultPrompt(mode Mode) string {
	switch mode {
	case ModeGenerate:
		return "Plan a complete itinerary with sightseeing, activities, and dining options"
	case ModeImprove:
		return "Suggest better alternatives and add more authentic local experiences"
	case ModeFillGaps:
		return "Fill empty morning, afternoon, and evening slots with activities and meals"
	case ModeSuggest:
		return "Recommend the best local restaurants and must-do activities"
	}
	return ""
}
