package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/abelbrown/tracelens/internal/config"
	"github.com/abelbrown/tracelens/internal/correlation"
	"github.com/abelbrown/tracelens/internal/logging"
	"github.com/abelbrown/tracelens/internal/session"
)

// loadSession loads the session at path or exits with a message.
func loadSession(path string) *session.Session {
	sess, err := session.Load(path)
	if err != nil {
		logging.Error("Failed to load session", "path", path, "error", err)
		fmt.Fprintf(os.Stderr, "tracelens: %v\n", err)
		os.Exit(1)
	}
	return sess
}

// buildEngine applies config, then flag overrides when set (>0 window,
// >=0 threshold means the flag was passed).
func buildEngine(window, minConf float64) *correlation.Engine {
	cfg, err := config.Load()
	if err != nil {
		logging.Warn("Config load failed, using defaults", "error", err)
		cfg = config.DefaultConfig()
	}
	if window > 0 {
		cfg.Engine.MaxTimeDeltaMS = window
	}
	if minConf >= 0 {
		cfg.Engine.MinConfidence = minConf
	}
	return cfg.NewEngine()
}

// printJSON writes v as indented JSON to stdout, exiting on encode
// failure.
func printJSON(v interface{}) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "tracelens: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(data))
}

// requireArg returns the first positional argument of a parsed flag set
// or exits with the command's usage line.
func requireArg(args []string, what, usage string) string {
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "tracelens: missing %s\nusage: %s\n", what, usage)
		os.Exit(1)
	}
	return args[0]
}
