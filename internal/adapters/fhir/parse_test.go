package fhir_test

import (
	"testing"

	"feasibility/internal/adapters/fhir"
	"feasibility/internal/adapters/fhir/fhirtest"
	perr "feasibility/internal/platform/errors"
)

func TestParse_TaskView(t *testing.T) {
	t.Parallel()

	doc := fhirtest.ResultTask(fhirtest.TaskSpec{
		ID:               "t-1",
		QueryID:          "q-42",
		SiteID:           "DIC-7",
		MeasureReportRef: "MeasureReport/mr-9",
	})
	res, err := fhir.Parse(doc)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if res.Type != fhir.TypeTask || res.ID != "t-1" || res.Task == nil {
		t.Fatalf("unexpected resource: %+v", res)
	}
	if res.MeasureReport != nil || res.Bundle != nil {
		t.Fatal("only the task view should be set")
	}
	if !res.Meta.HasProfile(fhir.VersionedResultTaskProfile) {
		t.Fatalf("profile missing: %v", res.Meta.Profile)
	}

	in, ok := res.Task.InputByCode(fhir.BPMNMessageSystem, fhir.BusinessKeyCode)
	if !ok || in.ValueString == nil || *in.ValueString != "q-42" {
		t.Fatalf("business key lookup failed: %+v", in)
	}
	out, ok := res.Task.OutputByCode(fhir.FeasibilitySystem, fhir.MeasureReportRefCode)
	if !ok || out.ValueReference == nil || out.ValueReference.Reference != "MeasureReport/mr-9" {
		t.Fatalf("reference lookup failed: %+v", out)
	}
	if _, ok := res.Task.InputByCode(fhir.BPMNMessageSystem, "nope"); ok {
		t.Fatal("lookup must match both system and code")
	}
}

func TestParse_LookupIgnoresPosition(t *testing.T) {
	t.Parallel()

	doc := []byte(`{"resourceType":"Task","input":[
		{"type":{"coding":[{"system":"x","code":"business-key"}]},"valueString":"wrong-system"},
		{"type":{"coding":[{"system":"other","code":"a"},{"system":"http://highmed.org/fhir/CodeSystem/bpmn-message","code":"business-key"}]},"valueString":"q-1"}
	]}`)
	res, err := fhir.Parse(doc)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	in, ok := res.Task.InputByCode(fhir.BPMNMessageSystem, fhir.BusinessKeyCode)
	if !ok || *in.ValueString != "q-1" {
		t.Fatalf("got %+v ok=%v", in, ok)
	}
}

func TestParse_MeasureReportCount(t *testing.T) {
	t.Parallel()

	res, err := fhir.Parse(fhirtest.MeasureReport("mr-9", 5))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	n, ok := res.MeasureReport.PopulationCount(fhir.MeasurePopulationSystem, fhir.InitialPopulationCode)
	if !ok || n != 5 {
		t.Fatalf("count=%d ok=%v", n, ok)
	}

	res, _ = fhir.Parse(fhirtest.MeasureReportWithout("mr-0"))
	if _, ok := res.MeasureReport.PopulationCount(fhir.MeasurePopulationSystem, fhir.InitialPopulationCode); ok {
		t.Fatal("expected no population")
	}
}

func TestParse_ZeroCountIsPresent(t *testing.T) {
	t.Parallel()

	res, _ := fhir.Parse(fhirtest.MeasureReport("mr-z", 0))
	n, ok := res.MeasureReport.PopulationCount(fhir.MeasurePopulationSystem, fhir.InitialPopulationCode)
	if !ok || n != 0 {
		t.Fatalf("count=%d ok=%v", n, ok)
	}
}

func TestParse_UnknownTypeKeepsHeader(t *testing.T) {
	t.Parallel()

	res, err := fhir.Parse([]byte(`{"resourceType":"Patient","id":"p1"}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if res.Type != "Patient" || res.ID != "p1" || res.Task != nil {
		t.Fatalf("unexpected: %+v", res)
	}
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"empty":      "   ",
		"not json":   "ping",
		"no type":    `{"id":"x"}`,
		"bad task":   `{"resourceType":"Task","status":7}`,
		"not object": `[1,2]`,
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			_, err := fhir.Parse([]byte(in))
			if err == nil {
				t.Fatal("expected error")
			}
			if !perr.IsCode(err, perr.ErrorCodeJSON) {
				t.Fatalf("code=%v err=%v", perr.CodeOf(err), err)
			}
		})
	}
}

func TestBundle_ResourcesSkipsBadEntries(t *testing.T) {
	t.Parallel()

	res, err := fhir.Parse([]byte(`{"resourceType":"Bundle","type":"searchset","entry":[
		{"resource":{"resourceType":"Subscription","id":"s1"}},
		{"resource":{"id":"broken"}},
		{"fullUrl":"x"}
	]}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	got := res.Bundle.Resources()
	if len(got) != 1 || got[0].ID != "s1" {
		t.Fatalf("got %+v", got)
	}
}
