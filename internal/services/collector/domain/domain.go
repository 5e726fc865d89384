// Package domain holds the collector's types and the ports other services consume
package domain

// QueryStatus is the state reported to result listeners
type QueryStatus uint8

const (
	// StatusRunning means the query was dispatched and answers are still arriving
	StatusRunning QueryStatus = iota + 1
	// StatusCompleted means a site result was resolved and stored
	StatusCompleted
	// StatusError means a site reported a failure
	StatusError
)

// String returns the wire name of the status
func (s QueryStatus) String() string {
	switch s {
	case StatusRunning:
		return "RUNNING"
	case StatusCompleted:
		return "COMPLETED"
	case StatusError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// CompletionEvent is a classified site result task, valid only while it is processed
type CompletionEvent struct {
	QueryID          string
	SiteID           string
	MeasureReportRef string
	Profile          string
	TaskID           string
}

// ResultListener is notified once per newly stored (queryID, siteID) result
// It runs on the event's goroutine and must not block for long
type ResultListener func(queryID, siteID string, status QueryStatus)
