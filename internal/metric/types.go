package metric

import "math"

// State is the status level reported for a single metric.
type State string

const (
	StateOK        State = "OK"
	StateWarn      State = "WARN"
	StateError     State = "ERROR"
	StateNoData    State = "NODATA"
	StateException State = "EXCEPTION"
)

// States lists the known states in severity order, least severe first.
var States = []State{StateOK, StateWarn, StateError, StateNoData, StateException}

// Rank returns the severity rank of the state. Unknown states rank after
// every known state so the ordering stays total.
func (s State) Rank() int {
	for i, known := range States {
		if s == known {
			return i
		}
	}
	return len(States)
}

// Known reports whether s is one of the enumerated states.
func (s State) Known() bool {
	return s.Rank() < len(States)
}

// Who records the user and time a maintenance window was last set.
type Who struct {
	StartUser string `json:"start_user,omitempty"`
	StartTime int64  `json:"start_time,omitempty"`
}

// Present reports whether both the user and the start time are set.
func (w Who) Present() bool {
	return w.StartUser != "" && w.StartTime != 0
}

// Metric is one monitored series of a trigger, keyed by its name in the
// owning mapping.
type Metric struct {
	// Value is nil when the source reported no value.
	Value          *float64 `json:"value,omitempty"`
	EventTimestamp int64    `json:"event_timestamp"`
	State          State    `json:"state"`
	// Maintenance is the Unix-seconds expiry of the maintenance window, 0 when unset.
	Maintenance    int64 `json:"maintenance,omitempty"`
	MaintenanceWho Who   `json:"maintenance_who"`
}

// Number returns the metric value and whether it is usable. Absent and NaN
// values both report false.
func (m Metric) Number() (float64, bool) {
	if m.Value == nil || math.IsNaN(*m.Value) {
		return 0, false
	}
	return *m.Value, true
}

// Float returns a pointer to v, for building metrics in code and tests.
func Float(v float64) *float64 {
	return &v
}

// Trigger groups the metrics evaluated by one alerting rule.
type Trigger struct {
	ID      string            `json:"id"`
	Name    string            `json:"name"`
	Tags    []string          `json:"tags,omitempty"`
	Metrics map[string]Metric `json:"metrics"`
}

// Notification is a past state change event for a trigger metric.
type Notification struct {
	Timestamp int64  `json:"timestamp"`
	TriggerID string `json:"trigger"`
	Metric    string `json:"metric"`
	State     State  `json:"state"`
}

// Snapshot is the full data set the client works from.
type Snapshot struct {
	Triggers      []Trigger      `json:"triggers"`
	Patterns      []string       `json:"patterns,omitempty"`
	Notifications []Notification `json:"notifications,omitempty"`
}

// Trigger returns the trigger with the given ID.
func (s *Snapshot) Trigger(id string) (*Trigger, bool) {
	for i := range s.Triggers {
		if s.Triggers[i].ID == id {
			return &s.Triggers[i], true
		}
	}
	return nil, false
}

// Tags returns the distinct tags across all triggers, in first-seen order.
func (s *Snapshot) Tags() []string {
	seen := make(map[string]bool)
	var tags []string
	for _, t := range s.Triggers {
		for _, tag := range t.Tags {
			if !seen[tag] {
				seen[tag] = true
				tags = append(tags, tag)
			}
		}
	}
	return tags
}

// CountState returns how many metrics in items are in the given state.
func CountState(items map[string]Metric, state State) int {
	n := 0
	for _, m := range items {
		if m.State == state {
			n++
		}
	}
	return n
}
