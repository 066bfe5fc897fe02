package util

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// AuctionDateLayout is the end date format the server accepts on writes.
const AuctionDateLayout = "2006-01-02 15:04:05.000"

// serverLayouts are the timestamp formats the server has been seen to return.
var serverLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.000Z",
	AuctionDateLayout,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// ParseServerTime parses a timestamp returned by the API.
func ParseServerTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range serverLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
}

// FormatAuctionDate formats t for an auction create or edit request.
func FormatAuctionDate(t time.Time) string {
	return t.Format(AuctionDateLayout)
}

// ParseEndDateInput parses flexible user input for an auction end date.
// Date-only input closes at midnight local time.
func ParseEndDateInput(input string) (time.Time, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}

	layouts := []string{
		"2006-01-02 15:04",
		"2006-01-02 15:04:05",
		"2006-01-02",
		"Jan 2, 2006 15:04",
		"Jan 2, 2006",
		"1/2/2006",
	}

	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("invalid date format")
}

// FormatEndDateInput renders t in the primary format ParseEndDateInput accepts.
func FormatEndDateInput(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02 15:04")
}

// FormatMoney formats a whole-dollar amount, "$1,250".
func FormatMoney(amount int) string {
	return "$" + humanize.Comma(int64(amount))
}

// FormatHighestBid formats an optional highest bid.
func FormatHighestBid(amount *int) string {
	if amount == nil {
		return "—"
	}
	return FormatMoney(*amount)
}

// FormatClosing describes when an auction closes relative to now.
// "closes 3 days from now", "closed 2 hours ago"
func FormatClosing(end, now time.Time) string {
	if end.IsZero() {
		return "—"
	}
	rel := humanize.RelTime(end, now, "ago", "from now")
	if end.After(now) {
		return "closes " + rel
	}
	return "closed " + rel
}

// FormatBidTime formats a bid timestamp for the bid history.
func FormatBidTime(t time.Time) string {
	if t.IsZero() {
		return "—"
	}
	return humanize.Time(t)
}

// FullName joins a first and last name.
func FullName(first, last string) string {
	return strings.TrimSpace(first + " " + last)
}

// TruncateString truncates a string to maxLen and adds "..." if needed.
func TruncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen < 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
