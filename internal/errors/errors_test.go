package errors

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorCodes(t *testing.T) {
	codes := []string{
		ErrConfig,
		ErrSnapshot,
		ErrRoute,
		ErrMaintenance,
		ErrStore,
	}

	seen := make(map[string]bool)
	for _, code := range codes {
		assert.NotEmpty(t, code, "error code should not be empty")
		assert.False(t, seen[code], "error code %q should be unique", code)
		seen[code] = true
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name       string
		code       string
		message    string
		suggestion string
	}{
		{
			name:       "config error",
			code:       ErrConfig,
			message:    "Invalid configuration in .mdash.yaml",
			suggestion: "Check your configuration file syntax",
		},
		{
			name:       "snapshot error",
			code:       ErrSnapshot,
			message:    "Snapshot file is not valid JSON",
			suggestion: "Re-export the snapshot",
		},
		{
			name:       "route error",
			code:       ErrRoute,
			message:    "Missing parameter 'id' for page trigger",
			suggestion: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code, tt.message, tt.suggestion)

			require.NotNil(t, err)
			assert.Equal(t, tt.code, err.Code)
			assert.Equal(t, tt.message, err.Message)
			assert.Equal(t, tt.suggestion, err.Suggestion)
			assert.Nil(t, err.Cause)
		})
	}
}

func TestError_Format(t *testing.T) {
	t.Run("message only", func(t *testing.T) {
		err := New(ErrStore, "Metric not found", "")
		assert.Equal(t, "✗ Metric not found\n", err.Error())
	})

	t.Run("message cause and suggestion", func(t *testing.T) {
		err := WrapWithCode(errors.New("open snap.json: no such file"), ErrSnapshot,
			"Can't read snapshot", "Check the 'snapshot' path in your config")

		out := err.Error()
		lines := strings.Split(out, "\n")
		assert.Equal(t, "✗ Can't read snapshot", lines[0])
		assert.Contains(t, out, "  open snap.json: no such file")
		assert.Contains(t, out, "  Check the 'snapshot' path in your config")
		assert.Less(t, strings.Index(out, "no such file"), strings.Index(out, "Check the"))
	})
}

func TestIsCode(t *testing.T) {
	err := New(ErrRoute, "bad route", "")
	wrapped := WrapWithCode(err, ErrConfig, "outer", "")

	assert.True(t, IsCode(err, ErrRoute))
	assert.False(t, IsCode(err, ErrConfig))
	assert.True(t, IsCode(wrapped, ErrConfig))
	assert.False(t, IsCode(nil, ErrConfig))
	assert.False(t, IsCode(errors.New("plain"), ErrConfig))
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, ErrSnapshot, CodeOf(New(ErrSnapshot, "x", "")))
	assert.Equal(t, "", CodeOf(errors.New("plain")))
	assert.Equal(t, "", CodeOf(nil))
}
