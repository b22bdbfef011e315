package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rileyhilliard/mdash/internal/errors"
	"github.com/rileyhilliard/mdash/internal/metric"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTriggersCommand(t *testing.T) {
	a := testApp(t)
	var buf bytes.Buffer

	require.NoError(t, triggersCommand(&buf, a))

	out := buf.String()
	assert.Contains(t, out, "cpu")
	assert.Contains(t, out, "CPU load")
	assert.Contains(t, out, "Disk usage")
	assert.Contains(t, out, "prod, web")
}

func TestTriggersCommand_JSON(t *testing.T) {
	a := testApp(t)
	withMachineMode(t)
	var buf bytes.Buffer

	require.NoError(t, triggersCommand(&buf, a))

	var env struct {
		Success bool          `json:"success"`
		Data    []triggerJSON `json:"data"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &env))
	assert.True(t, env.Success)
	require.Len(t, env.Data, 2)
	assert.Equal(t, triggerJSON{ID: "cpu", Name: "CPU load", Tags: []string{"prod", "web"}, Metrics: 3, NoData: 2}, env.Data[0])
	assert.Equal(t, 1, env.Data[1].NoData)
}

func TestMetricsCommand_Table(t *testing.T) {
	a := testApp(t)
	var buf bytes.Buffer

	require.NoError(t, metricsCommand(&buf, a, "cpu", metricsOptions{Status: true}))

	out := buf.String()
	assert.Contains(t, out, "State")
	assert.Contains(t, out, "Name ↑")
	assert.Contains(t, out, "web1.cpu")
	assert.Contains(t, out, "1.5")
	assert.Contains(t, out, "Maintenance")
}

func decodeMetrics(t *testing.T, data []byte) metricsJSON {
	t.Helper()
	var env struct {
		Success bool        `json:"success"`
		Data    metricsJSON `json:"data"`
	}
	require.NoError(t, json.Unmarshal(data, &env))
	require.True(t, env.Success)
	return env.Data
}

func TestMetricsCommand_Sorting(t *testing.T) {
	tests := []struct {
		name string
		opts metricsOptions
		want []string
	}{
		{
			name: "default by name",
			opts: metricsOptions{},
			want: []string{"web1.cpu", "web2.cpu", "web3.cpu"},
		},
		{
			name: "desc flips configured column",
			opts: metricsOptions{Desc: true},
			want: []string{"web3.cpu", "web2.cpu", "web1.cpu"},
		},
		{
			name: "value descending puts numbers first",
			opts: metricsOptions{Sort: "value", Desc: true},
			want: []string{"web1.cpu", "web2.cpu", "web3.cpu"},
		},
		{
			name: "state descending puts NODATA first",
			opts: metricsOptions{Sort: "state", Desc: true},
			want: []string{"web2.cpu", "web3.cpu", "web1.cpu"},
		},
		{
			name: "state ascending",
			opts: metricsOptions{Sort: "STATE"},
			want: []string{"web1.cpu", "web2.cpu", "web3.cpu"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := testApp(t)
			withMachineMode(t)
			var buf bytes.Buffer

			require.NoError(t, metricsCommand(&buf, a, "cpu", tt.opts))

			out := decodeMetrics(t, buf.Bytes())
			var keys []string
			for _, m := range out.Metrics {
				keys = append(keys, m.Key)
			}
			assert.Equal(t, tt.want, keys)
		})
	}
}

func TestMetricsCommand_JSONFields(t *testing.T) {
	a := testApp(t)
	withMachineMode(t)
	var buf bytes.Buffer

	require.NoError(t, metricsCommand(&buf, a, "disk", metricsOptions{}))

	out := decodeMetrics(t, buf.Bytes())
	assert.Equal(t, "disk", out.Trigger)
	assert.Equal(t, "name", out.Sort)
	assert.Equal(t, 1, out.NoData)
	require.Len(t, out.Metrics, 2)
	assert.Equal(t, metric.State("WARN"), out.Metrics[0].State)
	assert.Equal(t, "80", out.Metrics[0].Value)
	assert.Equal(t, metric.FormatUnix(1700000100, a.loc), out.Metrics[0].LastEvent)
}

func TestMetricsCommand_UnknownTrigger(t *testing.T) {
	a := testApp(t)

	err := metricsCommand(&bytes.Buffer{}, a, "nope", metricsOptions{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Trigger 'nope' not found")
	assert.Equal(t, ErrCodeTriggerNotFound, ErrorToJSON(err).Code)
}

func TestMetricsCommand_BadSort(t *testing.T) {
	a := testApp(t)

	err := metricsCommand(&bytes.Buffer{}, a, "cpu", metricsOptions{Sort: "color"})

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestMetricsCommand_PicksTrigger(t *testing.T) {
	a := testApp(t)
	old := pickTrigger
	defer func() { pickTrigger = old }()

	var offered []string
	pickTrigger = func(triggers []metric.Trigger) (*metric.Trigger, error) {
		for _, tr := range triggers {
			offered = append(offered, tr.ID)
		}
		return &triggers[1], nil
	}

	var buf bytes.Buffer
	require.NoError(t, metricsCommand(&buf, a, "", metricsOptions{}))

	assert.Equal(t, []string{"cpu", "disk"}, offered)
	assert.Contains(t, buf.String(), "db1.disk")
}

func TestMetricsCommand_PickerCancelled(t *testing.T) {
	a := testApp(t)
	old := pickTrigger
	defer func() { pickTrigger = old }()
	pickTrigger = func([]metric.Trigger) (*metric.Trigger, error) { return nil, nil }

	var buf bytes.Buffer
	require.NoError(t, metricsCommand(&buf, a, "", metricsOptions{}))
	assert.Empty(t, buf.String())
}
