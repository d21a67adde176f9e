package model

import (
	"fmt"
	"time"
)

// TimeFormat renders timestamps as ISO-8601 UTC with millisecond precision.
const TimeFormat = "2006-01-02T15:04:05.000Z"

// Submission is the body accepted by POST /log.
type Submission struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// LogEntry represents a single accepted client log record.
type LogEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Client    string    `json:"client"` // forwarded-for value or peer address
	Level     string    `json:"level"`
	Message   string    `json:"message"`
}

// NewEntry stamps a submission with the receive time and client address.
func NewEntry(s Submission, client string, now time.Time) LogEntry {
	return LogEntry{
		Timestamp: now.UTC(),
		Client:    client,
		Level:     s.Level,
		Message:   s.Message,
	}
}

// Line formats the entry as it is stored in the log file, without the trailing newline.
func (e LogEntry) Line() string {
	return fmt.Sprintf("[%s] [%s] %s: %s", FormatTime(e.Timestamp), e.Client, e.Level, e.Message)
}

// FormatTime formats t using TimeFormat.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeFormat)
}

// StartMarker is the header line written when the log file is initialized.
func StartMarker(t time.Time) string {
	return fmt.Sprintf("=== Server started at %s ===", FormatTime(t))
}
