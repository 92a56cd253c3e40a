package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/abelbrown/tracelens/internal/analysis"
	"github.com/abelbrown/tracelens/internal/config"
	"github.com/abelbrown/tracelens/internal/logging"
)

func runScan() {
	fs := flag.NewFlagSet("scan", flag.ExitOnError)
	ext := fs.String("ext", "", "Comma-separated extension filter (empty = configured default)")
	workers := fs.Int("workers", 0, "Concurrent file workers (0 = configured default)")
	rate := fs.Float64("rate", 0, "Max files per second (0 = unthrottled)")
	jsonOut := fs.Bool("json", false, "Emit JSON instead of text")
	patterns := fs.Bool("patterns", false, "Show per-file pattern hits in text output")
	fs.Parse(os.Args[1:])

	root := requireArg(fs.Args(), "directory", "tracelens scan [flags] <dir>")

	cfg, err := config.Load()
	if err != nil {
		logging.Warn("Config load failed, using defaults", "error", err)
		cfg = config.DefaultConfig()
	}

	opts := analysis.BatchOptions{
		Extensions:     cfg.Scan.Extensions,
		Workers:        cfg.Scan.Workers,
		FilesPerSecond: cfg.Scan.FilesPerSecond,
	}
	if *ext != "" {
		opts.Extensions = strings.Split(*ext, ",")
	}
	if *workers > 0 {
		opts.Workers = *workers
	}
	if *rate > 0 {
		opts.FilesPerSecond = *rate
	}

	reports, err := analysis.AnalyzeDirectory(context.Background(), root, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tracelens: %v\n", err)
		os.Exit(1)
	}

	if *jsonOut {
		printJSON(reports)
		return
	}

	fmt.Printf("Scanned %d files under %s\n\n", len(reports), root)
	fmt.Printf("%-50s %5s %5s %5s %6s %5s\n", "FILE", "CYC", "COG", "NEST", "LOC", "PAT")

	var allPatterns []analysis.Pattern
	for _, r := range reports {
		fmt.Printf("%-50s %5d %5d %5d %6d %5d\n",
			truncatePath(r.Path, 50),
			r.Complexity.Cyclomatic,
			r.Complexity.Cognitive,
			r.Complexity.MaxNesting,
			r.Complexity.LinesOfCode,
			len(r.Patterns))
		allPatterns = append(allPatterns, r.Patterns...)

		if *patterns {
			for _, p := range r.Patterns {
				fmt.Printf("    %s:%d  %s (%s, %.2f)\n", r.Path, p.Line, p.Name, p.Category, p.Confidence)
			}
		}
	}

	stats := analysis.SummarizePatterns(allPatterns)
	fmt.Printf("\nPatterns:        %d (avg confidence %.2f)\n", stats.Total, stats.AvgConfidence)
	for category, count := range stats.ByCategory {
		fmt.Printf("  %-18s %d\n", category, count)
	}
}

func truncatePath(path string, max int) string {
	if len(path) <= max {
		return path
	}
	return "..." + path[len(path)-max+3:]
}
