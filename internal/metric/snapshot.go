package metric

import (
	"encoding/json"
	"math"
	"strconv"

	"github.com/rileyhilliard/mdash/internal/errors"
	"github.com/rileyhilliard/mdash/internal/logger"
	"github.com/tidwall/gjson"
)

// Decode parses a snapshot document. Individual malformed triggers or
// metrics are skipped with a warning so one bad record never hides the rest.
func Decode(data []byte, log logger.Logger) (*Snapshot, error) {
	if log == nil {
		log = logger.Noop()
	}
	if !gjson.ValidBytes(data) {
		return nil, errors.New(errors.ErrSnapshot,
			"Snapshot is not valid JSON",
			"Re-export the snapshot or fix the file by hand.")
	}

	doc := gjson.ParseBytes(data)
	snap := &Snapshot{}

	doc.Get("triggers").ForEach(func(_, t gjson.Result) bool {
		if !t.IsObject() {
			log.Warn("skipping trigger entry of type %s", t.Type)
			return true
		}
		id := t.Get("id").String()
		if id == "" {
			log.Warn("skipping trigger without id")
			return true
		}
		trigger := Trigger{
			ID:      id,
			Name:    t.Get("name").String(),
			Metrics: make(map[string]Metric),
		}
		t.Get("tags").ForEach(func(_, tag gjson.Result) bool {
			if s := tag.String(); s != "" {
				trigger.Tags = append(trigger.Tags, s)
			}
			return true
		})
		t.Get("metrics").ForEach(func(name, m gjson.Result) bool {
			if !m.IsObject() {
				log.Warn("trigger %s: skipping metric %q of type %s", id, name.String(), m.Type)
				return true
			}
			trigger.Metrics[name.String()] = decodeMetric(m, log)
			return true
		})
		snap.Triggers = append(snap.Triggers, trigger)
		return true
	})

	doc.Get("patterns").ForEach(func(_, p gjson.Result) bool {
		if s := p.String(); s != "" {
			snap.Patterns = append(snap.Patterns, s)
		}
		return true
	})

	doc.Get("notifications").ForEach(func(_, n gjson.Result) bool {
		if !n.IsObject() {
			return true
		}
		snap.Notifications = append(snap.Notifications, Notification{
			Timestamp: n.Get("timestamp").Int(),
			TriggerID: n.Get("trigger").String(),
			Metric:    n.Get("metric").String(),
			State:     State(n.Get("state").String()),
		})
		return true
	})

	return snap, nil
}

func decodeMetric(m gjson.Result, log logger.Logger) Metric {
	out := Metric{
		EventTimestamp: m.Get("event_timestamp").Int(),
		State:          State(m.Get("state").String()),
		Maintenance:    m.Get("maintenance").Int(),
		MaintenanceWho: Who{
			StartUser: m.Get("maintenance_who.start_user").String(),
			StartTime: m.Get("maintenance_who.start_time").Int(),
		},
	}
	if !out.State.Known() && out.State != "" {
		log.Debug("unknown metric state %q", out.State)
	}

	v := m.Get("value")
	switch v.Type {
	case gjson.Number:
		out.Value = Float(v.Float())
	case gjson.String:
		// Some exporters quote numbers, including "NaN".
		if f, err := strconv.ParseFloat(v.Str, 64); err == nil {
			out.Value = Float(f)
		}
	}
	return out
}

// Encode renders the snapshot back to indented JSON. Values that JSON
// cannot carry (NaN, ±Inf) are written as absent.
func Encode(s *Snapshot) ([]byte, error) {
	clean := Snapshot{
		Triggers:      make([]Trigger, len(s.Triggers)),
		Patterns:      s.Patterns,
		Notifications: s.Notifications,
	}
	for i, t := range s.Triggers {
		ct := t
		ct.Metrics = make(map[string]Metric, len(t.Metrics))
		for name, m := range t.Metrics {
			if m.Value != nil && (math.IsNaN(*m.Value) || math.IsInf(*m.Value, 0)) {
				m.Value = nil
			}
			ct.Metrics[name] = m
		}
		clean.Triggers[i] = ct
	}

	data, err := json.MarshalIndent(clean, "", "  ")
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrSnapshot,
			"Failed to encode snapshot", "")
	}
	return append(data, '\n'), nil
}
