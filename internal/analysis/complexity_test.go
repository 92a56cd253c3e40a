package analysis

import (
	"os"
	"path/filepath"
	"testing"
)

func TestAnalyzeSourceSimple(t *testing.T) {
	source := "def simple_function():\n    return 42"
	m := AnalyzeSource(source)

	if m.LinesOfCode != 2 {
		t.Errorf("LinesOfCode = %d, want 2", m.LinesOfCode)
	}
	if m.Cyclomatic != 1 {
		t.Errorf("Cyclomatic = %d, want 1", m.Cyclomatic)
	}
	if m.Cognitive != 0 {
		t.Errorf("Cognitive = %d, want 0", m.Cognitive)
	}
	if m.MaxNesting != 0 {
		t.Errorf("MaxNesting = %d, want 0", m.MaxNesting)
	}
}

func TestAnalyzeSourceNested(t *testing.T) {
	source := "if a:\n" +
		"    for b in c:\n" +
		"        if d:\n" +
		"            pass"
	m := AnalyzeSource(source)

	// 1 + three decision points.
	if m.Cyclomatic != 4 {
		t.Errorf("Cyclomatic = %d, want 4", m.Cyclomatic)
	}
	// 1 + 2 + 3: each decision weighted by its depth.
	if m.Cognitive != 6 {
		t.Errorf("Cognitive = %d, want 6", m.Cognitive)
	}
	if m.MaxNesting != 3 {
		t.Errorf("MaxNesting = %d, want 3", m.MaxNesting)
	}
}

func TestAnalyzeSourceElseDoesNotNest(t *testing.T) {
	source := "if a:\n" +
		"    x = 1\n" +
		"else:\n" +
		"    x = 2"
	m := AnalyzeSource(source)

	if m.Cyclomatic != 3 {
		t.Errorf("Cyclomatic = %d, want 3", m.Cyclomatic)
	}
	if m.MaxNesting != 1 {
		t.Errorf("MaxNesting = %d, want 1 (else re-enters, does not nest)", m.MaxNesting)
	}
}

func TestAnalyzeSourceBlankLineResetsNesting(t *testing.T) {
	source := "if a:\n" +
		"    pass\n" +
		"\n" +
		"if b:\n" +
		"    pass"
	m := AnalyzeSource(source)

	if m.MaxNesting != 1 {
		t.Errorf("MaxNesting = %d, want 1 (blank line resets)", m.MaxNesting)
	}
	if m.Cyclomatic != 3 {
		t.Errorf("Cyclomatic = %d, want 3", m.Cyclomatic)
	}
}

func TestAnalyzerCache(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.py")
	if err := os.WriteFile(path, []byte("if x:\n    pass"), 0644); err != nil {
		t.Fatal(err)
	}

	a := NewAnalyzer()
	first, err := a.AnalyzeFile(path)
	if err != nil {
		t.Fatalf("AnalyzeFile: %v", err)
	}
	if a.CacheSize() != 1 {
		t.Errorf("CacheSize = %d, want 1", a.CacheSize())
	}

	// Rewrite the file; the cached result must still be served.
	if err := os.WriteFile(path, []byte("x = 1"), 0644); err != nil {
		t.Fatal(err)
	}
	second, err := a.AnalyzeFile(path)
	if err != nil {
		t.Fatalf("AnalyzeFile (cached): %v", err)
	}
	if first != second {
		t.Errorf("cached result differs: %+v vs %+v", first, second)
	}

	a.ClearCache()
	if a.CacheSize() != 0 {
		t.Errorf("CacheSize after ClearCache = %d, want 0", a.CacheSize())
	}
}

func TestAnalyzerMissingFile(t *testing.T) {
	a := NewAnalyzer()
	if _, err := a.AnalyzeFile(filepath.Join(t.TempDir(), "missing.py")); err == nil {
		t.Error("AnalyzeFile on missing file returned nil error")
	}
	if a.CacheSize() != 0 {
		t.Errorf("failed read was cached: CacheSize = %d", a.CacheSize())
	}
}
