// Command tracelens is the CLI for session telemetry correlation and
// codebase analysis.
//
// Usage:
//
//	tracelens                     Show help
//	tracelens correlate <file>    Correlate a session's events
//	tracelens graph <file>        Correlation graph (adjacency view)
//	tracelens stats <file>        Correlation statistics
//	tracelens scan <dir>          Complexity + pattern scan over a codebase
//	tracelens view <file>         Interactive session browser
package main

import (
	"fmt"
	"os"

	"github.com/abelbrown/tracelens/internal/logging"
)

const usage = `tracelens — session telemetry correlation CLI

Usage:
  tracelens <command> [flags]

Commands:
  correlate   Correlate a session's events (JSON or capture DB)
  graph       Correlation graph as source -> targets adjacency
  stats       Correlation statistics for a session
  scan        Complexity and business-logic scan over a codebase
  view        Interactive session browser (timeline, correlations, stats)

Run 'tracelens <command> -h' for command-specific help.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Print(usage)
		os.Exit(0)
	}

	if err := logging.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "tracelens: logging init failed: %v\n", err)
	}
	defer logging.Close()

	cmd := os.Args[1]
	// Strip the program name + subcommand so flag sets see only their flags
	os.Args = os.Args[1:]

	switch cmd {
	case "correlate":
		runCorrelate()
	case "graph":
		runGraph()
	case "stats":
		runStats()
	case "scan":
		runScan()
	case "view":
		runView()
	case "-h", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "tracelens: unknown command %q\n\n", cmd)
		fmt.Print(usage)
		os.Exit(1)
	}
}
