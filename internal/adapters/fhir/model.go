// Package fhir is a small FHIR R4 client for the DSF endpoints the collector talks to
// It covers the resources the result pipeline reads and nothing else
package fhir

import "encoding/json"

// Resource types the adapter decodes into typed views
const (
	TypeTask          = "Task"
	TypeMeasureReport = "MeasureReport"
	TypeBundle        = "Bundle"
	TypeSubscription  = "Subscription"
)

// Resource is a decoded FHIR document
// At most one of the typed views is set, matching Type
type Resource struct {
	Type string
	ID   string
	Meta Meta

	Task          *Task
	MeasureReport *MeasureReport
	Bundle        *Bundle
}

// Meta carries profile claims and versioning
type Meta struct {
	VersionID   string   `json:"versionId,omitempty"`
	LastUpdated string   `json:"lastUpdated,omitempty"`
	Profile     []string `json:"profile,omitempty"`
}

// HasProfile reports whether the canonical url is claimed
func (m Meta) HasProfile(canonical string) bool {
	for _, p := range m.Profile {
		if p == canonical {
			return true
		}
	}
	return false
}

// Coding is a (system, code) pair
type Coding struct {
	System  string `json:"system,omitempty"`
	Code    string `json:"code,omitempty"`
	Display string `json:"display,omitempty"`
}

// CodeableConcept groups codings for the same concept
type CodeableConcept struct {
	Coding []Coding `json:"coding,omitempty"`
	Text   string   `json:"text,omitempty"`
}

// Has reports whether any coding matches system and code
func (c CodeableConcept) Has(system, code string) bool {
	for _, cd := range c.Coding {
		if cd.System == system && cd.Code == code {
			return true
		}
	}
	return false
}

// Identifier is a business identifier scoped by a naming system
type Identifier struct {
	System string `json:"system,omitempty"`
	Value  string `json:"value,omitempty"`
}

// Reference points at another resource, literally or by identifier
type Reference struct {
	Reference  string      `json:"reference,omitempty"`
	Type       string      `json:"type,omitempty"`
	Identifier *Identifier `json:"identifier,omitempty"`
}

// Task is the subset of the FHIR Task the DSF processes exchange
type Task struct {
	ResourceType    string          `json:"resourceType"`
	ID              string          `json:"id,omitempty"`
	Meta            Meta            `json:"meta"`
	InstantiatesURI string          `json:"instantiatesUri,omitempty"`
	Status          string          `json:"status,omitempty"`
	Intent          string          `json:"intent,omitempty"`
	AuthoredOn      string          `json:"authoredOn,omitempty"`
	Requester       *Reference      `json:"requester,omitempty"`
	Input           []TaskParameter `json:"input,omitempty"`
	Output          []TaskParameter `json:"output,omitempty"`
}

// TaskParameter is one Task.input or Task.output entry
type TaskParameter struct {
	Type           CodeableConcept `json:"type"`
	ValueString    *string         `json:"valueString,omitempty"`
	ValueReference *Reference      `json:"valueReference,omitempty"`
}

// InputByCode returns the first input whose type carries (system, code)
func (t *Task) InputByCode(system, code string) (TaskParameter, bool) {
	return byCode(t.Input, system, code)
}

// OutputByCode returns the first output whose type carries (system, code)
func (t *Task) OutputByCode(system, code string) (TaskParameter, bool) {
	return byCode(t.Output, system, code)
}

func byCode(params []TaskParameter, system, code string) (TaskParameter, bool) {
	for _, p := range params {
		if p.Type.Has(system, code) {
			return p, true
		}
	}
	return TaskParameter{}, false
}

// MeasureReport is the subset of the FHIR MeasureReport carrying population counts
type MeasureReport struct {
	ResourceType string               `json:"resourceType"`
	ID           string               `json:"id,omitempty"`
	Meta         Meta                 `json:"meta"`
	Status       string               `json:"status,omitempty"`
	Type         string               `json:"type,omitempty"`
	Measure      string               `json:"measure,omitempty"`
	Date         string               `json:"date,omitempty"`
	Group        []MeasureReportGroup `json:"group,omitempty"`
}

// MeasureReportGroup is one stratification group
type MeasureReportGroup struct {
	Code       *CodeableConcept          `json:"code,omitempty"`
	Population []MeasureReportPopulation `json:"population,omitempty"`
}

// MeasureReportPopulation is a counted population inside a group
type MeasureReportPopulation struct {
	Code  CodeableConcept `json:"code"`
	Count *int            `json:"count,omitempty"`
}

// PopulationCount returns the count of the first population coded (system, code)
func (m *MeasureReport) PopulationCount(system, code string) (int, bool) {
	for _, g := range m.Group {
		for _, p := range g.Population {
			if p.Code.Has(system, code) && p.Count != nil {
				return *p.Count, true
			}
		}
	}
	return 0, false
}

// Bundle is a search result set
type Bundle struct {
	ResourceType string        `json:"resourceType"`
	Type         string        `json:"type,omitempty"`
	Total        *int          `json:"total,omitempty"`
	Entry        []BundleEntry `json:"entry,omitempty"`
}

// BundleEntry holds one undecoded entry resource
type BundleEntry struct {
	FullURL  string          `json:"fullUrl,omitempty"`
	Resource json.RawMessage `json:"resource,omitempty"`
}

// Resources decodes every entry, skipping entries that fail to parse
func (b *Bundle) Resources() []Resource {
	out := make([]Resource, 0, len(b.Entry))
	for _, e := range b.Entry {
		if len(e.Resource) == 0 {
			continue
		}
		r, err := Parse(e.Resource)
		if err != nil {
			continue
		}
		out = append(out, r)
	}
	return out
}
