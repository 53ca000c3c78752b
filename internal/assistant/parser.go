package assistant

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/rs/zerolog"
)

// fencedBlockRe matches an optional markdown code fence, optionally tagged
// "json", capturing its inner content.
var fencedBlockRe = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")

// Parser recovers itinerary drafts from messy model output.
type Parser struct {
	logger zerolog.Logger
}

// NewParser creates a parser. The logger carries the single observable side
// effect of parsing: a warning when a truncated response is partially
// recovered.
func NewParser(logger zerolog.Logger) *Parser {
	return &Parser{logger: logger}
}

// Parse extracts a typed item list from a raw model reply.
//
// The pipeline, each step attempted only when the previous produced no
// candidate: strip a fenced code block; capture the first-`[`-to-last-`]`
// span; if the reply was cut off by a length limit, repair the truncated
// array by dropping the trailing incomplete object and re-closing it.
//
// The bracket capture is deliberately naive (not nested-aware): if the model
// emits an unrelated array before or after the item array the span will
// cover both. Model output in practice contains a single array, so a full
// brace-balancing parser has not been warranted.
//
// Items come back in the order the model produced them. Only
// array-of-object structure is validated here; per-field conformance is the
// persistence layer's concern.
func (p *Parser) Parse(rawText, finishReason string) ([]ItemDraft, error) {
	if rawText == "" {
		return nil, ErrEmptyResponse
	}

	working := rawText
	if m := fencedBlockRe.FindStringSubmatch(rawText); m != nil {
		working = m[1]
	}

	candidate := bracketSpan(working)

	if candidate == "" && finishReason == FinishReasonLength {
		if recovered := repairTruncated(working); recovered != "" {
			p.logger.Warn().
				Str("finish_reason", finishReason).
				Msg("model response was truncated, recovered partial items")
			candidate = recovered
		}
	}

	if candidate == "" {
		return nil, ErrUnparsable
	}

	return decodeItems(candidate)
}

// bracketSpan captures the first `[` through the matching last `]`, or ""
// when no complete span exists.
func bracketSpan(text string) string {
	first := strings.Index(text, "[")
	last := strings.LastIndex(text, "]")
	if first == -1 || last <= first {
		return ""
	}
	return text[first : last+1]
}

// repairTruncated salvages a length-limited reply: everything from the first
// `[` up to the last complete `}` becomes the array body, re-closed with `]`.
// Returns "" when nothing salvageable exists.
func repairTruncated(text string) string {
	first := strings.Index(text, "[")
	if first == -1 {
		return ""
	}
	tail := text[first:]
	lastObject := strings.LastIndex(tail, "}")
	if lastObject <= 0 {
		return ""
	}
	return tail[:lastObject+1] + "]"
}

// decodeItems parses the JSON candidate and enforces non-empty-array shape.
func decodeItems(candidate string) ([]ItemDraft, error) {
	var items []ItemDraft
	if err := json.Unmarshal([]byte(candidate), &items); err != nil {
		// Valid JSON that is not an array of items is an empty item set,
		// not a parse failure.
		var probe any
		if probeErr := json.Unmarshal([]byte(candidate), &probe); probeErr == nil {
			if _, isArray := probe.([]any); !isArray {
				return nil, ErrEmptyItemSet
			}
		}
		return nil, &InvalidJSONError{Err: err, Text: candidate}
	}

	if len(items) == 0 {
		return nil, ErrEmptyItemSet
	}

	return items, nil
}
