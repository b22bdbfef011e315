package cli

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"strings"

	"github.com/rileyhilliard/mdash/internal/errors"
	"github.com/rileyhilliard/mdash/internal/maintenance"
	"github.com/rileyhilliard/mdash/internal/route"
	"github.com/rileyhilliard/mdash/internal/store"
)

// Machine mode flag - when true, outputs JSON and suppresses human-friendly decorations
var machineMode bool

// MachineMode returns true if machine-readable output is enabled
func MachineMode() bool {
	return machineMode
}

// JSONEnvelope wraps command output in a consistent structure for machine parsing.
// All --json output should use this envelope.
type JSONEnvelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *JSONError  `json:"error,omitempty"`
}

// JSONError provides structured error information for machine parsing.
type JSONError struct {
	Code       string      `json:"code"`
	Message    string      `json:"message"`
	Suggestion string      `json:"suggestion,omitempty"`
	Details    interface{} `json:"details,omitempty"`
}

// Error codes for machine-readable output.
const (
	ErrCodeConfigNotFound     = "CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid      = "CONFIG_INVALID"
	ErrCodeSnapshotInvalid    = "SNAPSHOT_INVALID"
	ErrCodeTriggerNotFound    = "TRIGGER_NOT_FOUND"
	ErrCodeMetricNotFound     = "METRIC_NOT_FOUND"
	ErrCodeUnknownMaintenance = "MAINTENANCE_UNKNOWN"
	ErrCodeRouteInvalid       = "ROUTE_INVALID"
	ErrCodeStoreFailed        = "STORE_FAILED"
	ErrCodeUnknown            = "UNKNOWN"
)

// WriteJSONSuccess writes a successful response with data to the writer.
func WriteJSONSuccess(w io.Writer, data interface{}) error {
	return writeJSONEnvelope(w, JSONEnvelope{Success: true, Data: data})
}

// WriteJSONFromError converts a Go error to a JSON error response.
func WriteJSONFromError(w io.Writer, err error) error {
	return writeJSONEnvelope(w, JSONEnvelope{Success: false, Error: ErrorToJSON(err)})
}

// writeJSONEnvelope writes the envelope with consistent formatting.
func writeJSONEnvelope(w io.Writer, env JSONEnvelope) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(env)
}

// ErrorToJSON converts a Go error to a JSONError with appropriate code mapping.
func ErrorToJSON(err error) *JSONError {
	if err == nil {
		return nil
	}

	out := &JSONError{Code: ErrCodeUnknown, Message: err.Error()}
	var mdErr *errors.Error
	if stderrors.As(err, &mdErr) {
		out.Code = mapErrorCode(mdErr.Code, mdErr.Message)
		out.Message = mdErr.Message
		out.Suggestion = mdErr.Suggestion
	}

	// Domain errors carry the most specific code, even when wrapped.
	var unknownOpt *maintenance.UnknownOptionError
	var missing *route.MissingParameterError
	var unknownPage *route.UnknownPageError
	switch {
	case stderrors.Is(err, store.ErrTriggerNotFound):
		out.Code = ErrCodeTriggerNotFound
	case stderrors.Is(err, store.ErrMetricNotFound):
		out.Code = ErrCodeMetricNotFound
	case stderrors.As(err, &unknownOpt):
		out.Code = ErrCodeUnknownMaintenance
		out.Details = map[string]interface{}{"option": string(unknownOpt.Key), "valid": maintenance.Default().Keys()}
	case stderrors.As(err, &missing):
		out.Code = ErrCodeRouteInvalid
		out.Details = map[string]interface{}{"page": string(missing.Page), "param": missing.Param}
	case stderrors.As(err, &unknownPage):
		out.Code = ErrCodeRouteInvalid
	}
	return out
}

// mapErrorCode maps internal error codes to machine-readable codes.
func mapErrorCode(internalCode, message string) string {
	switch internalCode {
	case errors.ErrConfig:
		// Distinguish between not found and invalid
		msgLower := strings.ToLower(message)
		if strings.Contains(msgLower, "not found") || strings.Contains(msgLower, "couldn't find") {
			return ErrCodeConfigNotFound
		}
		return ErrCodeConfigInvalid
	case errors.ErrSnapshot:
		return ErrCodeSnapshotInvalid
	case errors.ErrRoute:
		return ErrCodeRouteInvalid
	case errors.ErrMaintenance:
		return ErrCodeUnknownMaintenance
	case errors.ErrStore:
		return ErrCodeStoreFailed
	}

	return ErrCodeUnknown
}
