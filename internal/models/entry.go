// Package models defines the diary entry record persisted by the entry store
// and the draft assembled by the presentation layer before saving.
package models

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dmitrijs2005/mydiary/internal/common"
)

// DateLayout is the ISO 8601 form used for DiaryEntry.Date
// (millisecond precision, UTC, e.g. 2024-05-01T10:20:30.123Z).
const DateLayout = "2006-01-02T15:04:05.000Z07:00"

// DiaryEntry is the only persisted entity.
type DiaryEntry struct {
	// ID is assigned at creation and never reassigned.
	ID      string `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
	// Date is set to "now" on create and on every update.
	Date string `json:"date"`
	// ImageURLs holds external URLs or inline data URIs in display order.
	ImageURLs []string `json:"imageUrls"`
	// AudioURL is an inline data URI or empty when absent.
	AudioURL string `json:"audioUrl,omitempty"`
}

// FormatDate renders t the way DiaryEntry.Date stores it.
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// Time parses Date. Entries written by other tools may use plain RFC 3339.
func (e DiaryEntry) Time() (time.Time, error) {
	return time.Parse(time.RFC3339Nano, e.Date)
}

// Validate applies the form rules: title and content must be non-empty after
// trimming. The store does not call this.
func (e DiaryEntry) Validate() error {
	if strings.TrimSpace(e.Title) == "" {
		return fmt.Errorf("%w: title is required", common.ErrorValidation)
	}
	if strings.TrimSpace(e.Content) == "" {
		return fmt.Errorf("%w: content is required", common.ErrorValidation)
	}
	return CheckUTF8(e.Title, e.Content)
}

// CheckEncoding fails if any text field would not survive a JSON round trip.
func (e DiaryEntry) CheckEncoding() error {
	return CheckUTF8(append([]string{e.ID, e.Title, e.Content, e.Date, e.AudioURL}, e.ImageURLs...)...)
}

// CheckUTF8 rejects strings that are not valid UTF-8. encoding/json would
// replace the bad bytes with U+FFFD and the value would no longer round-trip.
func CheckUTF8(values ...string) error {
	for _, v := range values {
		if !utf8.ValidString(v) {
			return fmt.Errorf("%w: text is not valid UTF-8: %q", common.ErrorValidation, v)
		}
	}
	return nil
}

// Preview returns content truncated to maxLen runes with an ellipsis.
func (e DiaryEntry) Preview(maxLen int) string {
	content := strings.Join(strings.Fields(e.Content), " ")
	r := []rune(content)
	if maxLen >= 0 && len(r) > maxLen {
		return string(r[:maxLen]) + "..."
	}
	return content
}

// HasAudio reports whether an audio payload is attached.
func (e DiaryEntry) HasAudio() bool {
	return e.AudioURL != ""
}
