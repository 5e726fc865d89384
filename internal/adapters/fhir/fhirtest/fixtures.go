// Package fhirtest provides DSF style fixtures and an in-process FHIR server for tests
package fhirtest

import (
	"encoding/json"

	"feasibility/internal/adapters/fhir"
)

// TaskSpec describes a result Task; empty fields are left out of the document
type TaskSpec struct {
	ID               string
	QueryID          string
	SiteID           string
	MeasureReportRef string

	// Profile defaults to the versioned result profile, use "-" for none
	Profile string
	// Status defaults to completed
	Status string
	// Intent defaults to order
	Intent string
}

// ResultTaskDoc builds a Task resource the way a DIC site reports its result
func ResultTaskDoc(s TaskSpec) fhir.Task {
	profile := s.Profile
	if profile == "" {
		profile = fhir.VersionedResultTaskProfile
	}
	status := s.Status
	if status == "" {
		status = fhir.TaskStatusCompleted
	}
	intent := s.Intent
	if intent == "" {
		intent = fhir.TaskIntentOrder
	}

	t := fhir.Task{
		ResourceType:    fhir.TypeTask,
		ID:              s.ID,
		InstantiatesURI: "http://medizininformatik-initiative.de/bpe/Process/requestSimpleFeasibility/0.1.0",
		Status:          status,
		Intent:          intent,
		AuthoredOn:      "2021-03-01T12:00:00+00:00",
	}
	if profile != "-" {
		t.Meta.Profile = []string{profile}
	}
	if s.SiteID != "" {
		t.Requester = &fhir.Reference{
			Type:       "Organization",
			Identifier: &fhir.Identifier{System: fhir.OrganizationIdentifierSystem, Value: s.SiteID},
		}
	}

	msg := "resultSingleDicSimpleFeasibility"
	t.Input = append(t.Input, fhir.TaskParameter{
		Type:        concept(fhir.BPMNMessageSystem, "message-name"),
		ValueString: &msg,
	})
	if s.QueryID != "" {
		q := s.QueryID
		t.Input = append(t.Input, fhir.TaskParameter{
			Type:        concept(fhir.BPMNMessageSystem, fhir.BusinessKeyCode),
			ValueString: &q,
		})
	}
	if s.MeasureReportRef != "" {
		t.Output = append(t.Output, fhir.TaskParameter{
			Type:           concept(fhir.FeasibilitySystem, fhir.MeasureReportRefCode),
			ValueReference: &fhir.Reference{Reference: s.MeasureReportRef},
		})
	}
	return t
}

// ResultTask is ResultTaskDoc encoded as JSON
func ResultTask(s TaskSpec) []byte { return mustJSON(ResultTaskDoc(s)) }

// MeasureReport builds a MeasureReport whose initial population counts n
func MeasureReport(id string, n int) []byte {
	mr := fhir.MeasureReport{
		ResourceType: fhir.TypeMeasureReport,
		ID:           id,
		Status:       "complete",
		Type:         "summary",
		Measure:      "urn:uuid:" + id,
		Group: []fhir.MeasureReportGroup{{
			Population: []fhir.MeasureReportPopulation{{
				Code:  concept(fhir.MeasurePopulationSystem, fhir.InitialPopulationCode),
				Count: &n,
			}},
		}},
	}
	return mustJSON(mr)
}

// MeasureReportWithout builds a MeasureReport that has no initial population
func MeasureReportWithout(id string) []byte {
	return mustJSON(fhir.MeasureReport{ResourceType: fhir.TypeMeasureReport, ID: id, Status: "complete"})
}

// Parsed decodes a fixture and panics on error
func Parsed(doc []byte) fhir.Resource {
	r, err := fhir.Parse(doc)
	if err != nil {
		panic(err)
	}
	return r
}

func concept(system, code string) fhir.CodeableConcept {
	return fhir.CodeableConcept{Coding: []fhir.Coding{{System: system, Code: code}}}
}

func mustJSON(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}
