package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/abelbrown/tracelens/internal/logging"
	"github.com/abelbrown/tracelens/internal/ui/traceview"
)

func runView() {
	fs := flag.NewFlagSet("view", flag.ExitOnError)
	window := fs.Float64("window", 0, "Correlation window in ms (0 = configured default)")
	minConf := fs.Float64("min-conf", -1, "Minimum confidence 0..1 (-1 = configured default)")
	fs.Parse(os.Args[1:])

	path := requireArg(fs.Args(), "session file", "tracelens view [flags] <session-file>")
	sess := loadSession(path)
	engine := buildEngine(*window, *minConf)

	model := traceview.New(sess, engine)
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		logging.Error("View crashed", "error", err)
		fmt.Fprintf(os.Stderr, "tracelens: %v\n", err)
		os.Exit(1)
	}
}
