package service

import (
	"context"
	"net/url"
	"strings"

	"feasibility/internal/adapters/fhir"
	perr "feasibility/internal/platform/errors"
)

// Resolver turns a MeasureReport reference into its initial population count
type Resolver struct {
	reader fhir.ResourceReader
}

// NewResolver returns a Resolver reading through r
func NewResolver(r fhir.ResourceReader) *Resolver { return &Resolver{reader: r} }

// Resolve fetches the referenced MeasureReport and returns its initial population count
func (r *Resolver) Resolve(ctx context.Context, ref string) (int, error) {
	typ, id, err := ParseReference(ref)
	if err != nil {
		return 0, err
	}
	if typ != fhir.TypeMeasureReport {
		return 0, perr.InvalidArgf("reference %q does not point at a MeasureReport", ref)
	}

	res, err := r.reader.Read(ctx, typ, id)
	if err != nil {
		return 0, perr.WithOp(err, "resolve "+ref)
	}
	if res.MeasureReport == nil {
		return 0, perr.InvalidArgf("reference %q resolved to %s", ref, res.Type)
	}

	n, ok := res.MeasureReport.PopulationCount(fhir.MeasurePopulationSystem, fhir.InitialPopulationCode)
	if !ok {
		return 0, perr.InvalidArgf("measure report %s has no initial population count", id)
	}
	if n < 0 {
		return 0, perr.InvalidArgf("measure report %s has negative count %d", id, n)
	}
	return n, nil
}

// ParseReference splits a literal reference into type and id
// It accepts Type/id, absolute urls and trailing _history/<version> segments
func ParseReference(ref string) (resourceType, id string, err error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", "", perr.InvalidArgf("empty reference")
	}
	if u, uerr := url.Parse(ref); uerr == nil && u.IsAbs() {
		ref = u.Path
	}
	if i := strings.IndexAny(ref, "?#"); i >= 0 {
		ref = ref[:i]
	}

	parts := strings.Split(strings.Trim(ref, "/"), "/")
	if n := len(parts); n >= 4 && parts[n-2] == "_history" {
		parts = parts[:n-2]
	}
	if len(parts) < 2 {
		return "", "", perr.InvalidArgf("reference %q is not Type/id", ref)
	}
	resourceType, id = parts[len(parts)-2], parts[len(parts)-1]
	if resourceType == "" || id == "" || resourceType == "_history" {
		return "", "", perr.InvalidArgf("reference %q is not Type/id", ref)
	}
	return resourceType, id, nil
}
