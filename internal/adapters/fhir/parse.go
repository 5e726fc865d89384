package fhir

import (
	"bytes"
	"encoding/json"

	perr "feasibility/internal/platform/errors"
)

type header struct {
	ResourceType string `json:"resourceType"`
	ID           string `json:"id"`
	Meta         Meta   `json:"meta"`
}

// Parse decodes a FHIR JSON document once into a Resource
// Unknown resource types are returned with only the header set
func Parse(data []byte) (Resource, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return Resource{}, perr.JSONErrf("fhir: empty document")
	}

	var h header
	if err := json.Unmarshal(data, &h); err != nil {
		return Resource{}, perr.Wrap(err, perr.ErrorCodeJSON, "fhir: decode header")
	}
	if h.ResourceType == "" {
		return Resource{}, perr.JSONErrf("fhir: document has no resourceType")
	}

	res := Resource{Type: h.ResourceType, ID: h.ID, Meta: h.Meta}

	var err error
	switch h.ResourceType {
	case TypeTask:
		res.Task = &Task{}
		err = json.Unmarshal(data, res.Task)
	case TypeMeasureReport:
		res.MeasureReport = &MeasureReport{}
		err = json.Unmarshal(data, res.MeasureReport)
	case TypeBundle:
		res.Bundle = &Bundle{}
		err = json.Unmarshal(data, res.Bundle)
	}
	if err != nil {
		return Resource{}, perr.Wrapf(err, perr.ErrorCodeJSON, "fhir: decode %s", h.ResourceType)
	}
	return res, nil
}
