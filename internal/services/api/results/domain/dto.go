// Package domain holds DTOs for the query result read API
package domain

// QueryInput addresses every result of one query
type QueryInput struct {
	QueryID string `json:"queryId" validate:"required,max=128,ident" example:"q-42"`
}

// SiteInput addresses the result of one site for one query
type SiteInput struct {
	QueryID string `json:"queryId" validate:"required,max=128,ident" example:"q-42"`
	SiteID  string `json:"siteId" validate:"required,max=128,ident" example:"DIC-7"`
}

// ResultLine is the answer of a single site
type ResultLine struct {
	SiteName         string `json:"siteName" example:"DIC-7"`
	NumberOfPatients int    `json:"numberOfPatients" example:"5"`
}

// QueryResult sums the site answers collected so far
type QueryResult struct {
	QueryID               string       `json:"queryId" example:"q-42"`
	TotalNumberOfPatients int          `json:"totalNumberOfPatients" example:"5"`
	ResultLines           []ResultLine `json:"resultLines"`
}

// SiteResult is the answer of one site to one query
type SiteResult struct {
	QueryID          string `json:"queryId" example:"q-42"`
	SiteID           string `json:"siteId" example:"DIC-7"`
	NumberOfPatients int    `json:"numberOfPatients" example:"5"`
}
