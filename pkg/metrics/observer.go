package metrics

import "time"

type MetricsEvent struct {
	Name   string
	Time   time.Time
	Value  float64
	Tags   map[string]string
	Fields map[string]any
}

type Observer interface {
	RecordEvent(ev MetricsEvent)
}

type NoopObserver struct{}

func (NoopObserver) RecordEvent(MetricsEvent) {}

// Event builds a timestamped event for the capture loop's hot path.
func Event(name string, tags map[string]string) MetricsEvent {
	return MetricsEvent{Name: name, Time: time.Now(), Tags: tags}
}
