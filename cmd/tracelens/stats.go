package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"sort"

	"github.com/abelbrown/tracelens/internal/telemetry"
)

func runStats() {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	window := fs.Float64("window", 0, "Correlation window in ms (0 = configured default)")
	minConf := fs.Float64("min-conf", -1, "Minimum confidence 0..1 (-1 = configured default)")
	jsonOut := fs.Bool("json", false, "Emit JSON instead of text")
	fs.Parse(os.Args[1:])

	path := requireArg(fs.Args(), "session file", "tracelens stats [flags] <session-file>")
	sess := loadSession(path)
	engine := buildEngine(*window, *minConf)

	stats := engine.Statistics(sess.Events)

	if *jsonOut {
		printJSON(stats)
		return
	}

	// --- Session shape ---

	fmt.Printf("Session:              %s\n", sess.ID)
	fmt.Printf("Events:               %d\n", len(sess.Events))

	byKind := map[telemetry.EventType]int{}
	badTimestamps := 0
	for _, ev := range sess.Events {
		byKind[ev.Type]++
		if math.IsNaN(ev.Timestamp) || math.IsInf(ev.Timestamp, 0) {
			badTimestamps++
		}
	}

	kinds := make([]string, 0, len(byKind))
	for k := range byKind {
		kinds = append(kinds, string(k))
	}
	sort.Strings(kinds)
	for _, k := range kinds {
		fmt.Printf("  %-20s %d\n", k, byKind[telemetry.EventType(k)])
	}
	if badTimestamps > 0 {
		fmt.Printf("Non-finite timestamps: %d\n", badTimestamps)
	}

	// --- Correlation statistics ---

	fmt.Printf("\nCorrelations:         %d\n", stats.Total)
	fmt.Printf("Avg confidence:       %.3f\n", stats.AvgConfidence)
	fmt.Printf("Avg time delta:       %.1fms\n", stats.AvgTimeDeltaMS)

	if len(stats.ByType) > 0 {
		fmt.Println("\nBy type:")
		types := make([]string, 0, len(stats.ByType))
		for t := range stats.ByType {
			types = append(types, t)
		}
		sort.Strings(types)
		for _, t := range types {
			fmt.Printf("  %-30s %d\n", t, stats.ByType[t])
		}
	}
}
