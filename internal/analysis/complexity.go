// Package analysis provides line-heuristic source inspection for the
// mobile codebases whose sessions tracelens correlates: complexity
// metrics, business-logic pattern tagging, and parallel batch scans over
// directories.
//
// These are deliberately cheap approximations - no parsing, no LLM -
// meant to run instantly over whole repositories.
package analysis

import (
	"os"
	"strings"
	"sync"
)

// Metrics holds complexity measurements for one source file.
type Metrics struct {
	Cyclomatic   int `json:"cyclomatic_complexity"`
	Cognitive    int `json:"cognitive_complexity"`
	MaxNesting   int `json:"max_nesting_depth"`
	LinesOfCode  int `json:"lines_of_code"`
}

// controlFlowKeywords are the statements that open a decision point.
var controlFlowKeywords = []string{"if", "else", "elif", "for", "while", "try", "except", "with"}

// continuationKeywords re-enter an existing construct rather than nesting
// deeper.
var continuationKeywords = map[string]bool{"else": true, "elif": true, "except": true}

// AnalyzeSource computes line-heuristic complexity for source text.
// Cyclomatic starts at 1; cognitive weights each decision by its nesting
// depth; a blank line resets the nesting approximation.
func AnalyzeSource(source string) Metrics {
	m := Metrics{Cyclomatic: 1}

	nesting := 0
	for _, line := range strings.Split(source, "\n") {
		m.LinesOfCode++
		trimmed := strings.TrimSpace(line)

		for _, keyword := range controlFlowKeywords {
			if !strings.HasPrefix(trimmed, keyword) {
				continue
			}
			m.Cyclomatic++
			m.Cognitive += 1 + nesting

			if !continuationKeywords[keyword] {
				nesting++
				if nesting > m.MaxNesting {
					m.MaxNesting = nesting
				}
			}
		}

		if trimmed == "" {
			nesting = 0
		}
	}

	return m
}

// Analyzer caches per-file complexity results. Safe for concurrent use;
// the batch scanner shares one across its workers.
type Analyzer struct {
	mu    sync.Mutex
	cache map[string]Metrics
}

// NewAnalyzer creates an analyzer with an empty cache.
func NewAnalyzer() *Analyzer {
	return &Analyzer{cache: make(map[string]Metrics)}
}

// AnalyzeFile reads and analyzes one file, caching the result by path.
func (a *Analyzer) AnalyzeFile(path string) (Metrics, error) {
	a.mu.Lock()
	cached, ok := a.cache[path]
	a.mu.Unlock()
	if ok {
		return cached, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return Metrics{}, err
	}

	m := AnalyzeSource(string(content))

	a.mu.Lock()
	a.cache[path] = m
	a.mu.Unlock()
	return m, nil
}

// ClearCache drops all cached results.
func (a *Analyzer) ClearCache() {
	a.mu.Lock()
	a.cache = make(map[string]Metrics)
	a.mu.Unlock()
}

// CacheSize returns the number of cached results.
func (a *Analyzer) CacheSize() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.cache)
}
