// Package domain holds the persisted result types and the sink contract
package domain

import "time"

// ResultTypeSuccess is written with every collected result; the column leaves room for other outcomes
const ResultTypeSuccess = "success"

// Result is one site answer as it is persisted
type Result struct {
	QueryID    string
	SiteID     string
	ResultType string
	Result     int
	ReceivedAt time.Time
}
