package service

import (
	"errors"
	"strings"

	"feasibility/internal/adapters/fhir"
	"feasibility/internal/services/collector/domain"
)

// Skip reasons, also used as metric labels
const (
	ReasonResourceType = "resource_type"
	ReasonProfile      = "profile"
	ReasonStatus       = "status"
	ReasonIntent       = "intent"
	ReasonSiteID       = "site_id"
	ReasonQueryID      = "query_id"
	ReasonReference    = "measure_report_reference"
)

// SkipError reports why a document is not a site result
// It is an expected outcome, not a failure
type SkipError struct {
	Reason string
	Detail string
}

func (e *SkipError) Error() string {
	if e.Detail == "" {
		return "not a feasibility result: " + e.Reason
	}
	return "not a feasibility result: " + e.Reason + ": " + e.Detail
}

// IsSkip reports whether err is a *SkipError and returns it
func IsSkip(err error) (*SkipError, bool) {
	var se *SkipError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

func skip(reason, detail string) error { return &SkipError{Reason: reason, Detail: detail} }

// Classify extracts a CompletionEvent from a single site result Task
// Any other document yields a *SkipError
func Classify(res fhir.Resource) (domain.CompletionEvent, error) {
	if res.Type != fhir.TypeTask || res.Task == nil {
		return domain.CompletionEvent{}, skip(ReasonResourceType, res.Type)
	}
	t := res.Task

	profile, ok := resultProfile(t.Meta)
	if !ok {
		return domain.CompletionEvent{}, skip(ReasonProfile, strings.Join(t.Meta.Profile, ","))
	}
	if t.Status != fhir.TaskStatusCompleted {
		return domain.CompletionEvent{}, skip(ReasonStatus, t.Status)
	}
	if t.Intent != fhir.TaskIntentOrder {
		return domain.CompletionEvent{}, skip(ReasonIntent, t.Intent)
	}

	site := siteID(t)
	if site == "" {
		return domain.CompletionEvent{}, skip(ReasonSiteID, "")
	}

	in, ok := t.InputByCode(fhir.BPMNMessageSystem, fhir.BusinessKeyCode)
	if !ok || in.ValueString == nil || strings.TrimSpace(*in.ValueString) == "" {
		return domain.CompletionEvent{}, skip(ReasonQueryID, "")
	}

	out, ok := t.OutputByCode(fhir.FeasibilitySystem, fhir.MeasureReportRefCode)
	if !ok || out.ValueReference == nil || strings.TrimSpace(out.ValueReference.Reference) == "" {
		return domain.CompletionEvent{}, skip(ReasonReference, "")
	}

	return domain.CompletionEvent{
		QueryID:          *in.ValueString,
		SiteID:           site,
		MeasureReportRef: strings.TrimSpace(out.ValueReference.Reference),
		Profile:          profile,
		TaskID:           t.ID,
	}, nil
}

// resultProfile accepts the versioned canonical and the bare one, preferring the versioned
func resultProfile(m fhir.Meta) (string, bool) {
	for _, p := range []string{fhir.VersionedResultTaskProfile, fhir.ResultTaskProfile} {
		if m.HasProfile(p) {
			return p, true
		}
	}
	return "", false
}

func siteID(t *fhir.Task) string {
	if t.Requester == nil || t.Requester.Identifier == nil {
		return ""
	}
	id := t.Requester.Identifier
	if id.System != fhir.OrganizationIdentifierSystem {
		return ""
	}
	return strings.TrimSpace(id.Value)
}
