package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
)

func runGraph() {
	fs := flag.NewFlagSet("graph", flag.ExitOnError)
	window := fs.Float64("window", 0, "Correlation window in ms (0 = configured default)")
	minConf := fs.Float64("min-conf", -1, "Minimum confidence 0..1 (-1 = configured default)")
	jsonOut := fs.Bool("json", false, "Emit JSON instead of text")
	fs.Parse(os.Args[1:])

	path := requireArg(fs.Args(), "session file", "tracelens graph [flags] <session-file>")
	sess := loadSession(path)
	engine := buildEngine(*window, *minConf)

	graph := engine.BuildGraph(sess.Events)

	if *jsonOut {
		printJSON(graph)
		return
	}

	if len(graph) == 0 {
		fmt.Println("No correlations above threshold")
		return
	}

	sources := make([]string, 0, len(graph))
	for src := range graph {
		sources = append(sources, src)
	}
	sort.Strings(sources)

	for _, src := range sources {
		fmt.Printf("%s\n", src)
		for _, target := range graph[src] {
			fmt.Printf("  → %s\n", target)
		}
	}
}
