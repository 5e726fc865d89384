package net

import (
	"net/http"

	perr "feasibility/internal/platform/errors"
)

// Wire is the JSON envelope around every API body
// Data is set on success; Code and Error are set on failure
type Wire struct {
	StatusCode int            `json:"status_code"`
	Status     string         `json:"status"`
	Code       perr.ErrorCode `json:"code,omitempty"`
	Error      string         `json:"error,omitempty"`
	RequestID  string         `json:"request_id,omitempty"`
	Data       any            `json:"data,omitempty"`
}

func envelope(status int, rid string) Wire {
	return Wire{StatusCode: status, Status: http.StatusText(status), RequestID: rid}
}

// OK wraps data in a 200 envelope
func OK(data any, rid string) (int, Wire) {
	w := envelope(http.StatusOK, rid)
	w.Data = data
	return w.StatusCode, w
}

// Error wraps err in the envelope its code maps to, a nil err is OK(nil)
func Error(err error, rid string) (int, Wire) {
	if err == nil {
		return OK(nil, rid)
	}
	e := perr.WireFrom(err)
	w := envelope(perr.HTTPStatus(err), rid)
	w.Code, w.Error = e.Code, e.Message
	return w.StatusCode, w
}
