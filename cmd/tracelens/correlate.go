package main

import (
	"flag"
	"fmt"
	"os"
)

func runCorrelate() {
	fs := flag.NewFlagSet("correlate", flag.ExitOnError)
	window := fs.Float64("window", 0, "Correlation window in ms (0 = configured default)")
	minConf := fs.Float64("min-conf", -1, "Minimum confidence 0..1 (-1 = configured default)")
	jsonOut := fs.Bool("json", false, "Emit JSON instead of text")
	pair := fs.String("pair", "", "Restrict to a fixed pair: ui-api or api-nav")
	fs.Parse(os.Args[1:])

	path := requireArg(fs.Args(), "session file", "tracelens correlate [flags] <session-file>")
	sess := loadSession(path)
	engine := buildEngine(*window, *minConf)

	correlations := engine.Correlate(sess.Events)
	switch *pair {
	case "ui-api":
		correlations = engine.CorrelateUIToAPI(sess.Events)
	case "api-nav":
		correlations = engine.CorrelateAPIToNavigation(sess.Events)
	case "":
	default:
		fmt.Fprintf(os.Stderr, "tracelens: unknown pair %q (want ui-api or api-nav)\n", *pair)
		os.Exit(1)
	}

	if *jsonOut {
		printJSON(correlations)
		return
	}

	fmt.Printf("Session:       %s\n", sess.ID)
	fmt.Printf("Events:        %d\n", len(sess.Events))
	fmt.Printf("Correlations:  %d\n\n", len(correlations))

	for _, c := range correlations {
		fmt.Printf("  %.2f  %-12s → %-12s  +%.0fms  %s\n",
			c.Confidence, c.SourceID, c.TargetID, c.TimeDeltaMS, c.Type)
	}
}
