package analysis

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/abelbrown/tracelens/internal/logging"
)

// FileReport is the merged analysis result for one file.
type FileReport struct {
	Path       string    `json:"path"`
	Complexity Metrics   `json:"complexity"`
	Patterns   []Pattern `json:"patterns,omitempty"`
}

// BatchOptions configures a directory scan.
type BatchOptions struct {
	// Extensions filters files by suffix (without the dot). Empty means
	// all files.
	Extensions []string

	// Workers bounds concurrent file analysis. <= 0 uses NumCPU.
	Workers int

	// FilesPerSecond throttles how fast files are picked up, to keep a
	// scan polite on shared disks. <= 0 disables throttling.
	FilesPerSecond float64
}

// AnalyzeDirectory walks root and analyzes every matching file on a
// bounded worker pool. Each file is independent: a failed read is logged
// and omitted from the result, never aborting the batch. Results are
// merged only after all workers finish, keyed and sorted by path.
func AnalyzeDirectory(ctx context.Context, root string, opts BatchOptions) ([]FileReport, error) {
	files, err := collectFiles(root, opts.Extensions)
	if err != nil {
		return nil, err
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	var limiter *rate.Limiter
	if opts.FilesPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.FilesPerSecond), 1)
	}

	logging.Info("Batch analysis starting", "root", root, "files", len(files), "workers", workers)

	var (
		mu      sync.Mutex
		reports []FileReport
		skipped int
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, path := range files {
		path := path
		g.Go(func() error {
			if limiter != nil {
				if err := limiter.Wait(ctx); err != nil {
					return err
				}
			}

			content, err := os.ReadFile(path)
			if err != nil {
				logging.Warn("Batch analysis: skipping unreadable file", "path", path, "error", err)
				mu.Lock()
				skipped++
				mu.Unlock()
				return nil
			}

			source := string(content)
			report := FileReport{
				Path:       path,
				Complexity: AnalyzeSource(source),
				Patterns:   TagSource(path, source),
			}

			mu.Lock()
			reports = append(reports, report)
			mu.Unlock()
			return nil
		})
	}

	// Only context cancellation surfaces as an error; per-file failures
	// were swallowed above.
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(reports, func(i, j int) bool { return reports[i].Path < reports[j].Path })

	logging.Info("Batch analysis complete", "analyzed", len(reports), "skipped", skipped)
	return reports, nil
}

// collectFiles walks root and returns paths matching the extension
// filter, in walk order.
func collectFiles(root string, extensions []string) ([]string, error) {
	allowed := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		allowed[strings.TrimPrefix(ext, ".")] = true
	}

	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable directory entries are skipped, not fatal.
			logging.Debug("Batch analysis: walk error", "path", path, "error", err)
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if len(allowed) > 0 {
			ext := strings.TrimPrefix(filepath.Ext(path), ".")
			if !allowed[ext] {
				return nil
			}
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}
