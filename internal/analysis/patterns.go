package analysis

import (
	"regexp"
	"strings"
)

// Category classifies a detected business-logic pattern.
type Category string

const (
	CategoryValidation      Category = "Validation"
	CategoryAuthentication  Category = "Authentication"
	CategoryStateManagement Category = "StateManagement"
	CategoryErrorHandling   Category = "ErrorHandling"
	CategoryIntegration     Category = "Integration"
)

// Pattern is one business-logic construct found on a source line.
type Pattern struct {
	Name       string   `json:"name"`
	Category   Category `json:"category"`
	Confidence float64  `json:"confidence"`
	Path       string   `json:"file_path"`
	Line       int      `json:"line_number"`
	Snippet    string   `json:"code_snippet"`
}

// PatternStats summarizes a tagging run.
type PatternStats struct {
	Total         int              `json:"total_patterns"`
	AvgConfidence float64          `json:"avg_confidence"`
	ByCategory    map[Category]int `json:"by_category"`
}

// Regex tables - compiled once, matched per line. No LLM required.
var (
	validationPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(validate|check|verify|ensure|require|assert)[A-Z]\w+`),
		regexp.MustCompile(`(?i)(is_?valid|is_?empty|is_?null|has_?error)`),
		regexp.MustCompile(`\.length\s*[<>=]+\s*\d+`),
		regexp.MustCompile(`(?i)(email|phone|password|username).*validation`),
	}

	authPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(login|logout|sign_?in|sign_?out|authenticate)`),
		regexp.MustCompile(`(?i)(token|session|credentials|password|auth)`),
		regexp.MustCompile(`(?i)(is_?authenticated|is_?logged_?in|has_?permission)`),
	}

	statePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(state|store|redux|mobx|riverpod)`),
		regexp.MustCompile(`(?i)(get_?state|set_?state|update_?state)`),
		regexp.MustCompile(`(?i)(observable|stream|subject|controller)`),
	}
)

// Per-category confidence weights. Keyword hits are weaker signals than
// an explicit try/catch.
const (
	validationConfidence  = 0.8
	authConfidence        = 0.85
	stateConfidence       = 0.75
	errorConfidence       = 0.9
	integrationConfidence = 0.7
)

// TagSource scans source text line by line and returns every detected
// pattern in line order.
func TagSource(path, source string) []Pattern {
	var patterns []Pattern
	for i, line := range strings.Split(source, "\n") {
		patterns = tagLine(patterns, path, i+1, line)
	}
	return patterns
}

func tagLine(patterns []Pattern, path string, lineNum int, line string) []Pattern {
	snippet := strings.TrimSpace(line)

	for _, re := range validationPatterns {
		if m := re.FindString(line); m != "" {
			patterns = append(patterns, Pattern{
				Name: m, Category: CategoryValidation, Confidence: validationConfidence,
				Path: path, Line: lineNum, Snippet: snippet,
			})
		}
	}

	for _, re := range authPatterns {
		if m := re.FindString(line); m != "" {
			patterns = append(patterns, Pattern{
				Name: m, Category: CategoryAuthentication, Confidence: authConfidence,
				Path: path, Line: lineNum, Snippet: snippet,
			})
		}
	}

	for _, re := range statePatterns {
		if m := re.FindString(line); m != "" {
			patterns = append(patterns, Pattern{
				Name: m, Category: CategoryStateManagement, Confidence: stateConfidence,
				Path: path, Line: lineNum, Snippet: snippet,
			})
		}
	}

	if strings.Contains(line, "try") || strings.Contains(line, "catch") || strings.Contains(line, "except") {
		patterns = append(patterns, Pattern{
			Name: "ErrorHandling", Category: CategoryErrorHandling, Confidence: errorConfidence,
			Path: path, Line: lineNum, Snippet: snippet,
		})
	}

	if strings.Contains(line, "fetch") || strings.Contains(line, "request") || strings.Contains(line, "api") {
		patterns = append(patterns, Pattern{
			Name: "APIIntegration", Category: CategoryIntegration, Confidence: integrationConfidence,
			Path: path, Line: lineNum, Snippet: snippet,
		})
	}

	return patterns
}

// FilterByCategory returns the patterns matching one category, in order.
func FilterByCategory(patterns []Pattern, category Category) []Pattern {
	var out []Pattern
	for _, p := range patterns {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out
}

// SummarizePatterns aggregates a pattern list. Zero patterns yield 0.0
// average confidence and an empty (non-nil) category map.
func SummarizePatterns(patterns []Pattern) PatternStats {
	stats := PatternStats{
		Total:      len(patterns),
		ByCategory: make(map[Category]int),
	}
	if len(patterns) == 0 {
		return stats
	}

	var sum float64
	for _, p := range patterns {
		sum += p.Confidence
		stats.ByCategory[p.Category]++
	}
	stats.AvgConfidence = sum / float64(len(patterns))
	return stats
}
