package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/rileyhilliard/mdash/internal/errors"
	"github.com/rileyhilliard/mdash/internal/maintenance"
	"github.com/rileyhilliard/mdash/internal/route"
	"github.com/rileyhilliard/mdash/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMachineMode_DefaultValue(t *testing.T) {
	oldMode := machineMode
	defer func() { machineMode = oldMode }()

	machineMode = false
	assert.False(t, MachineMode())

	machineMode = true
	assert.True(t, MachineMode())
}

func TestWriteJSONSuccess(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, WriteJSONSuccess(&buf, map[string]string{"key": "value"}))

	var env JSONEnvelope
	require.NoError(t, json.Unmarshal(buf.Bytes(), &env))
	assert.True(t, env.Success)
	assert.Nil(t, env.Error)
	dataMap, ok := env.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "value", dataMap["key"])
}

func TestWriteJSONFromError(t *testing.T) {
	var buf bytes.Buffer
	err := errors.New(errors.ErrSnapshot, "Snapshot is not valid JSON", "Check the file")

	require.NoError(t, WriteJSONFromError(&buf, err))

	var env JSONEnvelope
	require.NoError(t, json.Unmarshal(buf.Bytes(), &env))
	assert.False(t, env.Success)
	assert.Nil(t, env.Data)
	require.NotNil(t, env.Error)
	assert.Equal(t, ErrCodeSnapshotInvalid, env.Error.Code)
	assert.Equal(t, "Snapshot is not valid JSON", env.Error.Message)
	assert.Equal(t, "Check the file", env.Error.Suggestion)
}

func TestErrorToJSON(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code string
	}{
		{"nil", nil, ""},
		{"plain", fmt.Errorf("boom"), ErrCodeUnknown},
		{"config not found", errors.New(errors.ErrConfig, "Config file not found", ""), ErrCodeConfigNotFound},
		{"config invalid", errors.New(errors.ErrConfig, "refresh 1ms is too short", ""), ErrCodeConfigInvalid},
		{"store", errors.New(errors.ErrStore, "Can't save", ""), ErrCodeStoreFailed},
		{"route code", errors.New(errors.ErrRoute, "bad", ""), ErrCodeRouteInvalid},
		{
			"trigger wrapped",
			errors.WrapWithCode(fmt.Errorf("%w: x", store.ErrTriggerNotFound), errors.ErrStore, "Trigger 'x' not found", ""),
			ErrCodeTriggerNotFound,
		},
		{
			"metric wrapped",
			errors.WrapWithCode(fmt.Errorf("%w: m", store.ErrMetricNotFound), errors.ErrStore, "Metric 'm' not found", ""),
			ErrCodeMetricNotFound,
		},
		{"unknown option", &maintenance.UnknownOptionError{Key: "year"}, ErrCodeUnknownMaintenance},
		{"missing param", &route.MissingParameterError{Page: route.PageTrigger, Param: "id"}, ErrCodeRouteInvalid},
		{"unknown page", &route.UnknownPageError{Page: "nope"}, ErrCodeRouteInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ErrorToJSON(tt.err)
			if tt.err == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.code, got.Code)
		})
	}
}

func TestErrorToJSON_Details(t *testing.T) {
	got := ErrorToJSON(errors.WrapWithCode(&maintenance.UnknownOptionError{Key: "year"},
		errors.ErrMaintenance, "Unknown maintenance option 'year'", "Use one of the options"))

	assert.Equal(t, "Unknown maintenance option 'year'", got.Message)
	assert.Equal(t, "Use one of the options", got.Suggestion)
	details, ok := got.Details.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "year", details["option"])
	assert.Equal(t, maintenance.Default().Keys(), details["valid"])
}
