package correlation

import (
	"math"
	"sort"

	"github.com/abelbrown/tracelens/internal/telemetry"
)

// Engine defaults, chosen to match typical mobile interaction latency:
// a tap's consequences land well inside five seconds.
const (
	DefaultMaxTimeDeltaMS = 5000.0
	DefaultMinConfidence  = 0.5
)

// Engine correlates events within a forward time window. Thresholds are
// fixed at construction for the engine's lifetime. An Engine is stateless
// across calls and safe for concurrent use.
type Engine struct {
	maxTimeDeltaMS float64
	minConfidence  float64
}

// NewEngine creates an engine with the given window (ms) and confidence
// floor. Non-positive window or out-of-range floor fall back to defaults.
func NewEngine(maxTimeDeltaMS, minConfidence float64) *Engine {
	if maxTimeDeltaMS <= 0 || math.IsNaN(maxTimeDeltaMS) {
		maxTimeDeltaMS = DefaultMaxTimeDeltaMS
	}
	if minConfidence < 0 || minConfidence > 1 || math.IsNaN(minConfidence) {
		minConfidence = DefaultMinConfidence
	}
	return &Engine{maxTimeDeltaMS: maxTimeDeltaMS, minConfidence: minConfidence}
}

// NewDefaultEngine creates an engine with the default thresholds.
func NewDefaultEngine() *Engine {
	return NewEngine(DefaultMaxTimeDeltaMS, DefaultMinConfidence)
}

// MaxTimeDeltaMS returns the engine's window in milliseconds.
func (e *Engine) MaxTimeDeltaMS() float64 { return e.maxTimeDeltaMS }

// MinConfidence returns the engine's confidence floor.
func (e *Engine) MinConfidence() float64 { return e.minConfidence }

// Correlate finds all correlations in the snapshot.
//
// Events are sorted ascending by timestamp (lessTimestamp total order,
// stable), then each source scans forward over later events. Sortedness
// lets the scan stop once a finite delta exceeds the window. A NaN delta
// - either endpoint has a NaN timestamp - compares false against the
// window under IEEE rules and would defeat that break, so it is skipped
// explicitly: the pair is not correlatable, and the scan continues.
//
// Output is in discovery order: sources ascending by timestamp, each
// source's targets ascending by timestamp.
func (e *Engine) Correlate(events []telemetry.Event) []Correlation {
	sorted := make([]telemetry.Event, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		return lessTimestamp(sorted[i].Timestamp, sorted[j].Timestamp)
	})

	var correlations []Correlation
	for i := range sorted {
		source := &sorted[i]
		for j := i + 1; j < len(sorted); j++ {
			target := &sorted[j]
			delta := target.Timestamp - source.Timestamp

			if math.IsNaN(delta) {
				// Not correlatable; later targets may still pair with a
				// finite source, so keep scanning.
				continue
			}
			if delta > e.maxTimeDeltaMS {
				break
			}
			if delta < 0 {
				continue
			}
			if !ShouldCorrelate(source.Type, target.Type) {
				continue
			}

			confidence := e.confidence(source, target, delta)
			if confidence >= e.minConfidence {
				correlations = append(correlations, Correlation{
					SourceID:    source.ID,
					TargetID:    target.ID,
					Confidence:  confidence,
					TimeDeltaMS: delta,
					Type:        correlationLabel(source.Type, target.Type),
				})
			}
		}
	}
	return correlations
}

// CorrelateUIToAPI links UI interactions to the API calls they likely
// triggered. Unlike Correlate it scans the full cross-product of the two
// kinds rather than pruning on sortedness; time ordering within the
// window is still required.
func (e *Engine) CorrelateUIToAPI(events []telemetry.Event) []Correlation {
	var correlations []Correlation
	for i := range events {
		ui := &events[i]
		if ui.Type != telemetry.UIInteraction {
			continue
		}
		for j := range events {
			api := &events[j]
			if api.Type != telemetry.APICall {
				continue
			}

			delta := api.Timestamp - ui.Timestamp
			if !(delta >= 0 && delta <= e.maxTimeDeltaMS) {
				// Also rejects NaN deltas: both comparisons are false.
				continue
			}

			confidence := e.confidence(ui, api, delta)
			if confidence >= e.minConfidence {
				correlations = append(correlations, Correlation{
					SourceID:    ui.ID,
					TargetID:    api.ID,
					Confidence:  confidence,
					TimeDeltaMS: delta,
					Type:        "UI_TO_API",
				})
			}
		}
	}
	return correlations
}

// CorrelateAPIToNavigation links API responses to the navigation or
// screen-change events that likely followed them. Full cross-product, as
// with CorrelateUIToAPI.
func (e *Engine) CorrelateAPIToNavigation(events []telemetry.Event) []Correlation {
	var correlations []Correlation
	for i := range events {
		api := &events[i]
		if api.Type != telemetry.APIResponse {
			continue
		}
		for j := range events {
			nav := &events[j]
			if nav.Type != telemetry.Navigation && nav.Type != telemetry.ScreenChange {
				continue
			}

			delta := nav.Timestamp - api.Timestamp
			if !(delta >= 0 && delta <= e.maxTimeDeltaMS) {
				continue
			}

			confidence := e.confidence(api, nav, delta)
			if confidence >= e.minConfidence {
				correlations = append(correlations, Correlation{
					SourceID:    api.ID,
					TargetID:    nav.ID,
					Confidence:  confidence,
					TimeDeltaMS: delta,
					Type:        "API_TO_NAVIGATION",
				})
			}
		}
	}
	return correlations
}

// BuildGraph recomputes the correlation set and folds it into an
// adjacency mapping.
func (e *Engine) BuildGraph(events []telemetry.Event) Graph {
	graph := make(Graph)
	for _, corr := range e.Correlate(events) {
		graph[corr.SourceID] = append(graph[corr.SourceID], corr.TargetID)
	}
	return graph
}

// Statistics recomputes the correlation set and summarizes it. With zero
// correlations all averages are 0.0 and ByType is empty but non-nil.
func (e *Engine) Statistics(events []telemetry.Event) Stats {
	correlations := e.Correlate(events)

	stats := Stats{
		Total:  len(correlations),
		ByType: make(map[string]int),
	}
	if len(correlations) == 0 {
		return stats
	}

	var sumConfidence, sumDelta float64
	for _, corr := range correlations {
		sumConfidence += corr.Confidence
		sumDelta += corr.TimeDeltaMS
		stats.ByType[corr.Type]++
	}
	stats.AvgConfidence = sumConfidence / float64(len(correlations))
	stats.AvgTimeDeltaMS = sumDelta / float64(len(correlations))
	return stats
}

// confidence scores how likely source caused target, for a pair already
// inside the window (delta in [0, maxTimeDeltaMS], so timeScore is in
// (0, 1] and the result can never be NaN):
//
//	0.4 x temporal proximity + 0.3 x kind compatibility + 0.3 x shared data
//
// The compatibility term re-checks ShouldCorrelate even though the
// windowed scan pre-filters incompatible pairs. The directional views
// share this code path, so the check stays.
func (e *Engine) confidence(source, target *telemetry.Event, delta float64) float64 {
	confidence := 0.0

	timeScore := 1.0 - delta/e.maxTimeDeltaMS
	confidence += timeScore * 0.4

	if ShouldCorrelate(source.Type, target.Type) {
		confidence += 0.3
	}

	confidence += dataSimilarity(source, target) * 0.3

	return clamp01(confidence)
}

// dataSimilarity is the fraction of keys present in both events' data
// maps whose values are exactly equal. 0 if either map is empty or no
// keys are shared.
func dataSimilarity(source, target *telemetry.Event) float64 {
	if len(source.Data) == 0 || len(target.Data) == 0 {
		return 0
	}

	common := 0
	matches := 0
	for key, sv := range source.Data {
		tv, ok := target.Data[key]
		if !ok {
			continue
		}
		common++
		if sv == tv {
			matches++
		}
	}
	if common == 0 {
		return 0
	}
	return float64(matches) / float64(common)
}
