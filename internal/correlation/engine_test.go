package correlation

import (
	"math"
	"testing"

	"github.com/abelbrown/tracelens/internal/telemetry"
)

func event(id string, typ telemetry.EventType, ts float64) telemetry.Event {
	return telemetry.NewEvent(id, typ, ts)
}

func TestCorrelateBasicPair(t *testing.T) {
	// Scenario: UI tap at 1000 followed by API call at 1050 inside a
	// 5000ms window.
	engine := NewEngine(5000, 0.5)
	events := []telemetry.Event{
		event("u1", telemetry.UIInteraction, 1000),
		event("a1", telemetry.APICall, 1050),
	}

	correlations := engine.Correlate(events)
	if len(correlations) != 1 {
		t.Fatalf("Correlate() returned %d correlations, want 1: %v", len(correlations), correlations)
	}

	c := correlations[0]
	if c.SourceID != "u1" || c.TargetID != "a1" {
		t.Errorf("correlation = %s→%s, want u1→a1", c.SourceID, c.TargetID)
	}
	if c.TimeDeltaMS != 50 {
		t.Errorf("TimeDeltaMS = %v, want 50", c.TimeDeltaMS)
	}
	// 0.4*(1 - 50/5000) + 0.3 + 0 = 0.696
	if math.Abs(c.Confidence-0.696) > 1e-9 {
		t.Errorf("Confidence = %v, want 0.696", c.Confidence)
	}
	if c.Type != "UI_INTERACTION_API_CALL" {
		t.Errorf("Type = %q, want UI_INTERACTION_API_CALL", c.Type)
	}
}

func TestCorrelateSharedDataClampsToOne(t *testing.T) {
	// UI and Navigation on the same screen: data similarity 1.0 pushes
	// the raw score over 1, which must clamp.
	engine := NewEngine(5000, 0.5)
	ui := event("u1", telemetry.UIInteraction, 1000)
	ui.AddData("screen", "A")
	nav := event("n1", telemetry.Navigation, 1100)
	nav.AddData("screen", "A")

	correlations := engine.Correlate([]telemetry.Event{ui, nav})
	if len(correlations) != 1 {
		t.Fatalf("Correlate() returned %d correlations, want 1", len(correlations))
	}
	if correlations[0].Confidence != 1.0 {
		t.Errorf("Confidence = %v, want 1.0 (clamped)", correlations[0].Confidence)
	}
}

func TestCorrelateRejectsIdenticalTypes(t *testing.T) {
	engine := NewEngine(5000, 0.0)
	events := []telemetry.Event{
		event("u1", telemetry.UIInteraction, 1000),
		event("u2", telemetry.UIInteraction, 1001),
	}
	if got := engine.Correlate(events); len(got) != 0 {
		t.Errorf("identical-type pair produced %d correlations, want 0", len(got))
	}
}

func TestCorrelateInvariants(t *testing.T) {
	engine := NewDefaultEngine()
	ui := event("u1", telemetry.UIInteraction, 1000)
	ui.AddData("screen", "login")
	ui.AddData("element", "submit")
	api := event("a1", telemetry.APICall, 1200)
	api.AddData("screen", "login")
	resp := event("r1", telemetry.APIResponse, 1400)
	nav := event("n1", telemetry.Navigation, 1600)

	correlations := engine.Correlate([]telemetry.Event{ui, api, resp, nav})
	if len(correlations) == 0 {
		t.Fatal("expected correlations from a well-formed chain")
	}
	for _, c := range correlations {
		if c.TimeDeltaMS < 0 {
			t.Errorf("%v: TimeDeltaMS < 0", c)
		}
		if c.Confidence < 0 || c.Confidence > 1 {
			t.Errorf("%v: Confidence outside [0,1]", c)
		}
	}
}

func TestCorrelateNaNTimestamp(t *testing.T) {
	// A NaN event mixed into an otherwise-correlatable pair must not
	// panic, must never appear in output, and must not suppress the
	// valid correlation.
	engine := NewEngine(5000, 0.5)
	events := []telemetry.Event{
		event("e1", telemetry.UIInteraction, 1000),
		event("e2", telemetry.APICall, 1100),
		event("e_nan", telemetry.UIInteraction, math.NaN()),
	}

	correlations := engine.Correlate(events)
	for _, c := range correlations {
		if c.SourceID == "e_nan" || c.TargetID == "e_nan" {
			t.Errorf("NaN event appeared in correlation %v", c)
		}
	}
	if len(correlations) != 1 {
		t.Fatalf("valid events should still correlate, got %d correlations", len(correlations))
	}
	if correlations[0].SourceID != "e1" || correlations[0].TargetID != "e2" {
		t.Errorf("correlation = %s→%s, want e1→e2", correlations[0].SourceID, correlations[0].TargetID)
	}

	// Derived views must be equally robust.
	engine.BuildGraph(events)
	engine.Statistics(events)
}

func TestCorrelateInfinityTimestamps(t *testing.T) {
	engine := NewEngine(5000, 0.5)
	events := []telemetry.Event{
		event("e1", telemetry.UIInteraction, 1000),
		event("e_inf", telemetry.APICall, math.Inf(1)),
		event("e_neg_inf", telemetry.UIInteraction, math.Inf(-1)),
	}

	correlations := engine.Correlate(events)
	for _, c := range correlations {
		if c.SourceID == "e_inf" {
			t.Errorf("+Inf event correlated as source: %v", c)
		}
	}
}

func TestCorrelateDeterministic(t *testing.T) {
	engine := NewDefaultEngine()
	events := []telemetry.Event{
		event("u1", telemetry.UIInteraction, 1000),
		event("a1", telemetry.APICall, 1050),
		event("r1", telemetry.APIResponse, 1300),
		event("n1", telemetry.Navigation, 1500),
		event("x1", "CUSTOM_SENSOR", 1200),
	}

	first := engine.Correlate(events)
	second := engine.Correlate(events)
	if len(first) != len(second) {
		t.Fatalf("repeated calls differ in length: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("correlation %d differs: %v vs %v", i, first[i], second[i])
		}
	}
}

func TestCorrelateOrderIndependentSet(t *testing.T) {
	engine := NewDefaultEngine()
	events := []telemetry.Event{
		event("u1", telemetry.UIInteraction, 1000),
		event("a1", telemetry.APICall, 1050),
		event("r1", telemetry.APIResponse, 1300),
		event("n1", telemetry.Navigation, 1500),
	}
	permuted := []telemetry.Event{events[3], events[1], events[0], events[2]}

	toSet := func(cs []Correlation) map[string]bool {
		set := make(map[string]bool)
		for _, c := range cs {
			set[c.SourceID+"→"+c.TargetID] = true
		}
		return set
	}

	a := toSet(engine.Correlate(events))
	b := toSet(engine.Correlate(permuted))
	if len(a) != len(b) {
		t.Fatalf("permuted input changed the correlation set: %v vs %v", a, b)
	}
	for pair := range a {
		if !b[pair] {
			t.Errorf("pair %s missing after permutation", pair)
		}
	}
}

func TestCorrelateWindowBreak(t *testing.T) {
	// Target outside the window must not correlate even though the types
	// are compatible.
	engine := NewEngine(5000, 0.0)
	events := []telemetry.Event{
		event("u1", telemetry.UIInteraction, 1000),
		event("a1", telemetry.APICall, 7000),
	}
	if got := engine.Correlate(events); len(got) != 0 {
		t.Errorf("out-of-window pair produced %d correlations, want 0", len(got))
	}
}

func TestCorrelateDiscoveryOrder(t *testing.T) {
	engine := NewEngine(5000, 0.0)
	events := []telemetry.Event{
		event("a2", telemetry.APICall, 1300),
		event("u1", telemetry.UIInteraction, 1000),
		event("a1", telemetry.APICall, 1100),
	}

	correlations := engine.Correlate(events)
	if len(correlations) != 2 {
		t.Fatalf("got %d correlations, want 2", len(correlations))
	}
	// Grouped by source ascending, targets ascending.
	if correlations[0].TargetID != "a1" || correlations[1].TargetID != "a2" {
		t.Errorf("targets out of discovery order: %v", correlations)
	}
}

func TestCorrelateUIToAPI(t *testing.T) {
	engine := NewEngine(5000, 0.5)
	events := []telemetry.Event{
		event("n1", telemetry.Navigation, 900),
		event("u1", telemetry.UIInteraction, 1000),
		event("a1", telemetry.APICall, 1050),
		event("a0", telemetry.APICall, 500), // before the tap: wrong order
	}

	correlations := engine.CorrelateUIToAPI(events)
	if len(correlations) != 1 {
		t.Fatalf("got %d correlations, want 1: %v", len(correlations), correlations)
	}
	c := correlations[0]
	if c.SourceID != "u1" || c.TargetID != "a1" || c.Type != "UI_TO_API" {
		t.Errorf("unexpected correlation %v", c)
	}
}

func TestCorrelateAPIToNavigation(t *testing.T) {
	engine := NewEngine(5000, 0.5)
	events := []telemetry.Event{
		event("r1", telemetry.APIResponse, 1000),
		event("n1", telemetry.Navigation, 1200),
		event("s1", telemetry.ScreenChange, 1400),
		event("u1", telemetry.UIInteraction, 1100), // not a navigation target
	}

	correlations := engine.CorrelateAPIToNavigation(events)
	if len(correlations) != 2 {
		t.Fatalf("got %d correlations, want 2: %v", len(correlations), correlations)
	}
	for _, c := range correlations {
		if c.Type != "API_TO_NAVIGATION" {
			t.Errorf("Type = %q, want API_TO_NAVIGATION", c.Type)
		}
		if c.SourceID != "r1" {
			t.Errorf("SourceID = %q, want r1", c.SourceID)
		}
	}
}

func TestBuildGraph(t *testing.T) {
	engine := NewEngine(5000, 0.0)
	events := []telemetry.Event{
		event("u1", telemetry.UIInteraction, 1000),
		event("a1", telemetry.APICall, 1100),
		event("a2", telemetry.APICall, 1200),
	}

	graph := engine.BuildGraph(events)
	targets := graph["u1"]
	if len(targets) != 2 || targets[0] != "a1" || targets[1] != "a2" {
		t.Errorf("graph[u1] = %v, want [a1 a2]", targets)
	}
}

func TestBuildGraphMergesDuplicateIDs(t *testing.T) {
	// Two unrelated UI events share an id; their outgoing edges merge
	// under one node.
	engine := NewEngine(5000, 0.0)
	events := []telemetry.Event{
		event("dup", telemetry.UIInteraction, 1000),
		event("a1", telemetry.APICall, 1100),
		event("dup", telemetry.UIInteraction, 20000),
		event("a2", telemetry.APICall, 20100),
	}

	graph := engine.BuildGraph(events)
	if len(graph) != 1 {
		t.Fatalf("graph has %d nodes, want 1: %v", len(graph), graph)
	}
	if got := len(graph["dup"]); got != 2 {
		t.Errorf("graph[dup] has %d edges, want 2", got)
	}
}

func TestStatistics(t *testing.T) {
	engine := NewEngine(5000, 0.5)
	events := []telemetry.Event{
		event("u1", telemetry.UIInteraction, 1000),
		event("a1", telemetry.APICall, 1050),
	}

	stats := engine.Statistics(events)
	if stats.Total != 1 {
		t.Fatalf("Total = %d, want 1", stats.Total)
	}
	if math.Abs(stats.AvgConfidence-0.696) > 1e-9 {
		t.Errorf("AvgConfidence = %v, want 0.696", stats.AvgConfidence)
	}
	if stats.AvgTimeDeltaMS != 50 {
		t.Errorf("AvgTimeDeltaMS = %v, want 50", stats.AvgTimeDeltaMS)
	}
	if stats.ByType["UI_INTERACTION_API_CALL"] != 1 {
		t.Errorf("ByType = %v, want UI_INTERACTION_API_CALL:1", stats.ByType)
	}
}

func TestStatisticsEmpty(t *testing.T) {
	engine := NewDefaultEngine()
	stats := engine.Statistics(nil)
	if stats.Total != 0 {
		t.Errorf("Total = %d, want 0", stats.Total)
	}
	if stats.AvgConfidence != 0.0 || stats.AvgTimeDeltaMS != 0.0 {
		t.Errorf("averages = %v/%v, want 0.0/0.0", stats.AvgConfidence, stats.AvgTimeDeltaMS)
	}
	if stats.ByType == nil || len(stats.ByType) != 0 {
		t.Errorf("ByType = %v, want empty non-nil map", stats.ByType)
	}
}

func TestNewEngineDefaults(t *testing.T) {
	tests := []struct {
		window, floor         float64
		wantWindow, wantFloor float64
	}{
		{5000, 0.5, 5000, 0.5},
		{0, 0.5, DefaultMaxTimeDeltaMS, 0.5},
		{-1, 0.5, DefaultMaxTimeDeltaMS, 0.5},
		{3000, -0.1, 3000, DefaultMinConfidence},
		{3000, 1.5, 3000, DefaultMinConfidence},
		{math.NaN(), math.NaN(), DefaultMaxTimeDeltaMS, DefaultMinConfidence},
	}
	for _, tt := range tests {
		e := NewEngine(tt.window, tt.floor)
		if e.MaxTimeDeltaMS() != tt.wantWindow || e.MinConfidence() != tt.wantFloor {
			t.Errorf("NewEngine(%v, %v) = (%v, %v), want (%v, %v)",
				tt.window, tt.floor, e.MaxTimeDeltaMS(), e.MinConfidence(), tt.wantWindow, tt.wantFloor)
		}
	}
}
