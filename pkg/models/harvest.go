package models

import (
	"fmt"
	"time"
)

// ErrorLog collects the errors encountered during a single harvest. A fresh
// log is created per harvest and travels with the result, so repeated
// harvests never share error state.
type ErrorLog struct {
	entries []string
}

// NewErrorLog creates an empty error log.
func NewErrorLog() *ErrorLog {
	return &ErrorLog{}
}

// Add appends an error message to the log.
func (l *ErrorLog) Add(message string) {
	l.entries = append(l.entries, message)
}

// Addf appends a formatted error message to the log.
func (l *ErrorLog) Addf(format string, args ...interface{}) {
	l.entries = append(l.entries, fmt.Sprintf(format, args...))
}

// Count returns the number of errors recorded so far.
func (l *ErrorLog) Count() int {
	if l == nil {
		return 0
	}
	return len(l.entries)
}

// Entries returns a copy of the recorded error messages.
func (l *ErrorLog) Entries() []string {
	if l == nil {
		return nil
	}
	out := make([]string, len(l.entries))
	copy(out, l.entries)
	return out
}

// HarvestResult holds the records collected by one harvest run, in
// page-arrival then within-page order, together with the errors encountered
// along the way.
type HarvestResult struct {
	Keyword      string      `json:"keyword"`
	Location     string      `json:"location,omitempty"`
	Records      []JobRecord `json:"records"`
	Errors       *ErrorLog   `json:"-"`
	ErrorCount   int         `json:"error_count"`
	PagesFetched int         `json:"pages_fetched"`
	StartedAt    time.Time   `json:"started_at"`
	FinishedAt   time.Time   `json:"finished_at"`
}
