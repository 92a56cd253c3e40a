// Package telemetry defines the event model for recorded mobile sessions.
//
// An Event is a timestamped record of something that happened during a
// session: a tap, an outgoing API call, a screen transition. Events carry
// an open string-typed tag so unseen telemetry kinds pass through intact,
// while the five first-class kinds get typed constants and exhaustive
// handling in the correlation engine.
package telemetry

import (
	"fmt"
	"strings"
)

// EventType tags the kind of telemetry event. Open-ended: values outside
// the known constants are preserved as-is.
type EventType string

const (
	UIInteraction EventType = "UI_INTERACTION"
	APICall       EventType = "API_CALL"
	APIResponse   EventType = "API_RESPONSE"
	Navigation    EventType = "NAVIGATION"
	ScreenChange  EventType = "SCREEN_CHANGE"
)

// Known reports whether t is one of the five first-class kinds.
func (t EventType) Known() bool {
	switch t {
	case UIInteraction, APICall, APIResponse, Navigation, ScreenChange:
		return true
	}
	return false
}

// Normalize returns the tag in canonical form: uppercased, spaces
// replaced with underscores. Known constants are already canonical.
func (t EventType) Normalize() string {
	return strings.ReplaceAll(strings.ToUpper(string(t)), " ", "_")
}

// Event is a single record in a session timeline.
//
// Timestamp is epoch milliseconds as recorded by the capture tool. It is
// not sanitized on ingest: NaN and ±Inf from malformed captures are
// allowed through, and the correlation engine is total over them.
type Event struct {
	ID        string            `json:"event_id"`
	Type      EventType         `json:"event_type"`
	Timestamp float64           `json:"timestamp"`
	Data      map[string]string `json:"data,omitempty"`
}

// NewEvent creates an event with an empty data map.
func NewEvent(id string, typ EventType, timestamp float64) Event {
	return Event{
		ID:        id,
		Type:      typ,
		Timestamp: timestamp,
		Data:      make(map[string]string),
	}
}

// AddData attaches a context key/value pair to the event. This is the only
// mutation events see after creation.
func (e *Event) AddData(key, value string) {
	if e.Data == nil {
		e.Data = make(map[string]string)
	}
	e.Data[key] = value
}

func (e Event) String() string {
	return fmt.Sprintf("Event(id=%s, type=%s, time=%.3f)", e.ID, e.Type, e.Timestamp)
}
