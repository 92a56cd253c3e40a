// Package correlation reconstructs causal chains in session telemetry.
//
// The engine joins events of compatible kinds across a forward time
// window and scores each inferred link: "this tap likely triggered this
// API call, which triggered this screen change." It is deterministic and
// total over any snapshot, including ones carrying NaN or infinite
// timestamps from malformed captures - such events simply never
// correlate.
//
// Correlations are derived, never stored: every query recomputes from the
// snapshot it is handed. The engine holds no state beyond its two
// thresholds.
package correlation

import (
	"fmt"

	"github.com/abelbrown/tracelens/internal/telemetry"
)

// Correlation is an inferred directed link between two events.
// Invariants: TimeDeltaMS >= 0 and Confidence in [0, 1].
type Correlation struct {
	SourceID    string  `json:"source_event_id"`
	TargetID    string  `json:"target_event_id"`
	Confidence  float64 `json:"confidence"`
	TimeDeltaMS float64 `json:"time_delta_ms"`
	Type        string  `json:"correlation_type"`
}

func (c Correlation) String() string {
	return fmt.Sprintf("Correlation(%s→%s, confidence=%.2f, delta=%.0fms, type=%s)",
		c.SourceID, c.TargetID, c.Confidence, c.TimeDeltaMS, c.Type)
}

// Graph is the adjacency view of a correlation set: source event ID to
// target event IDs in correlation-discovery order. Multi-edges are kept;
// events sharing an ID merge their outgoing edges under one node.
type Graph map[string][]string

// Stats summarizes a correlation set.
type Stats struct {
	Total          int            `json:"total_correlations"`
	AvgConfidence  float64        `json:"avg_confidence"`
	AvgTimeDeltaMS float64        `json:"avg_time_delta_ms"`
	ByType         map[string]int `json:"by_type"`
}

// correlationLabel builds the type label for a windowed-scan correlation:
// the two normalized tags joined with an underscore, e.g.
// "UI_INTERACTION_API_CALL".
func correlationLabel(source, target telemetry.EventType) string {
	return source.Normalize() + "_" + target.Normalize()
}
