package assistant

import (
	"fmt"
	"strings"
	"time"
)

// ItemToReadableText renders a draft as a single preview line so users can
// review proposals before committing them. It always produces a string,
// falling back to the bare title for unrecognized or sparse items.
func ItemToReadableText(item ItemDraft) string {
	dateStr := readableDate(item.Date)
	timeStr := readableTimeRange(item.StartTime, item.EndTime)

	switch item.Type {
	case "flight":
		line := fmt.Sprintf("%s %s: ✈️ Flight from %s to %s", dateStr, timeStr, item.detail("from"), item.detail("to"))
		if airline := item.detail("airline"); airline != "" {
			line += fmt.Sprintf(" (%s)", airline)
		}
		return line
	case "hotel":
		name := item.detail("hotelName")
		if name == "" {
			name = item.Title
		}
		line := fmt.Sprintf("%s: 🏨 Check-in at %s", dateStr, name)
		if address := item.detail("address"); address != "" {
			line += " - " + address
		}
		return line
	case "transport":
		mode := item.detail("mode")
		if mode == "" {
			mode = "Transport"
		}
		return fmt.Sprintf("%s %s: 🚗 %s from %s to %s", dateStr, timeStr, mode, item.detail("from"), item.detail("to"))
	case "activity":
		name := item.Title
		if name == "" {
			name = item.detail("place")
		}
		line := fmt.Sprintf("%s %s: 🎫 %s", dateStr, timeStr, name)
		if category := item.detail("category"); category != "" {
			line += fmt.Sprintf(" (%s)", category)
		}
		return line
	case "restaurant":
		name := item.detail("restaurantName")
		if name == "" {
			name = item.Title
		}
		line := fmt.Sprintf("%s %s: 🍴 %s", dateStr, timeStr, name)
		if cuisine := item.detail("cuisine"); cuisine != "" {
			line += " - " + cuisine
		}
		return line
	case "other":
		line := fmt.Sprintf("%s %s: 📌 %s", dateStr, timeStr, item.Title)
		if description := item.detail("description"); description != "" {
			line += " - " + description
		}
		return line
	}

	return strings.TrimSpace(fmt.Sprintf("%s %s: %s", dateStr, timeStr, item.Title))
}

// readableDate renders "Jun 2" from a YYYY-MM-DD date, or "" when the date
// is absent or malformed.
func readableDate(date string) string {
	if date == "" {
		return ""
	}
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return ""
	}
	return t.Format("Jan 2")
}

// readableTimeRange renders "10:00 - 12:00", "10:00", or "".
func readableTimeRange(start string, end *string) string {
	if start == "" {
		return ""
	}
	if end != nil && *end != "" {
		return start + " - " + *end
	}
	return start
}
