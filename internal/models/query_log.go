package models

import "time"

// Outcome classifies how a logged query ended.
type Outcome string

const (
	OutcomeOK         Outcome = "ok"
	OutcomeValidation Outcome = "validation"
	OutcomeHTTP       Outcome = "http"
	OutcomeTransport  Outcome = "transport"
	OutcomeCanceled   Outcome = "canceled"
	OutcomeParse      Outcome = "parse"
)

// IsFailure reports whether the outcome represents a failed query.
func (o Outcome) IsFailure() bool {
	return o != OutcomeOK
}

// QueryLogEntry represents an executed query stored in the database.
// Results are never stored, only the request and how it ended.
type QueryLogEntry struct {
	Timestamp   time.Time
	ID          string
	Technology  string
	StartDate   string
	EndDate     string
	Element     string
	Site        string
	Outcome     Outcome
	Error       string
	KPIs        []string
	Limit       int
	StatusCode  int
	DurationMs  int
	RecordCount int
}
