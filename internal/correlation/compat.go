package correlation

import (
	"math"

	"github.com/abelbrown/tracelens/internal/telemetry"
)

// typePair is an ordered (source, target) kind pair.
type typePair struct {
	source telemetry.EventType
	target telemetry.EventType
}

// compatible is the fixed relation of causally plausible kind pairs. It is
// data, not behavior: the engine consults it, nothing dispatches on it.
// Identical-type pairs and anything absent here are never correlated,
// regardless of timing.
var compatible = map[typePair]bool{
	{telemetry.UIInteraction, telemetry.APICall}:    true,
	{telemetry.APICall, telemetry.APIResponse}:      true,
	{telemetry.APIResponse, telemetry.Navigation}:   true,
	{telemetry.APIResponse, telemetry.ScreenChange}: true,
	{telemetry.UIInteraction, telemetry.Navigation}: true,
}

// ShouldCorrelate reports whether the ordered kind pair is eligible for
// correlation.
func ShouldCorrelate(source, target telemetry.EventType) bool {
	return compatible[typePair{source, target}]
}

// lessTimestamp is the total-order comparator for event timestamps.
// Finite values compare normally. IEEE leaves comparisons involving NaN
// undefined, so placement is made explicit: NaN sorts after everything,
// including +Inf; -Inf sorts first. Used with a stable sort so equal (and
// NaN) timestamps keep insertion order, which makes the scan
// deterministic.
func lessTimestamp(a, b float64) bool {
	if math.IsNaN(a) {
		return false
	}
	if math.IsNaN(b) {
		return true
	}
	return a < b
}

// clamp01 bounds a confidence score to [0, 1].
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
