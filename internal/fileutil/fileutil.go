// Package fileutil wraps the filesystem operations the scanners and
// session loaders share: whole-file and chunked reads, parallel
// multi-file reads, recursive size and search helpers.
package fileutil

import (
	"bufio"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// ReadFile returns the file's contents as a string.
func ReadFile(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	return string(content), nil
}

// WriteFile writes content to path, creating or truncating it.
func WriteFile(path, content string) error {
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// ReadFilesParallel reads every path concurrently and returns a map
// from path to content. Unreadable paths are omitted rather than
// failing the whole read.
func ReadFilesParallel(paths []string) map[string]string {
	var (
		mu       sync.Mutex
		contents = make(map[string]string, len(paths))
	)

	var g errgroup.Group
	for _, path := range paths {
		path := path
		g.Go(func() error {
			content, err := os.ReadFile(path)
			if err != nil {
				return nil
			}
			mu.Lock()
			contents[path] = string(content)
			mu.Unlock()
			return nil
		})
	}
	g.Wait()

	return contents
}

// FindFiles walks root and returns every file whose base name contains
// pattern. Walk errors skip the entry, they do not fail the search.
func FindFiles(root, pattern string) []string {
	var matches []string
	filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if strings.Contains(d.Name(), pattern) {
			matches = append(matches, path)
		}
		return nil
	})
	return matches
}

// FileSize returns the file's size in bytes.
func FileSize(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("failed to get file size: %w", err)
	}
	return info.Size(), nil
}

// Exists reports whether path exists.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// DirSize returns the total size in bytes of every file under path.
func DirSize(path string) int64 {
	var total int64
	filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if info, err := d.Info(); err == nil {
			total += info.Size()
		}
		return nil
	})
	return total
}

// ListDir returns the entry names directly inside path.
func ListDir(path string) ([]string, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("failed to list directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	return names, nil
}

// CopyFile copies source to destination and returns the bytes written.
func CopyFile(source, destination string) (int64, error) {
	src, err := os.Open(source)
	if err != nil {
		return 0, fmt.Errorf("failed to copy file: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(destination)
	if err != nil {
		return 0, fmt.Errorf("failed to copy file: %w", err)
	}

	n, err := io.Copy(dst, src)
	if err != nil {
		dst.Close()
		return 0, fmt.Errorf("failed to copy file: %w", err)
	}
	if err := dst.Close(); err != nil {
		return 0, fmt.Errorf("failed to copy file: %w", err)
	}
	return n, nil
}

// MoveFile renames source to destination.
func MoveFile(source, destination string) error {
	if err := os.Rename(source, destination); err != nil {
		return fmt.Errorf("failed to move file: %w", err)
	}
	return nil
}

// DeleteFile removes path.
func DeleteFile(path string) error {
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// CreateDir creates path and any missing parents.
func CreateDir(path string) error {
	if err := os.MkdirAll(path, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	return nil
}

// DeleteDir removes path and everything under it.
func DeleteDir(path string) error {
	if err := os.RemoveAll(path); err != nil {
		return fmt.Errorf("failed to delete directory: %w", err)
	}
	return nil
}

// FileMtime returns the file's modification time as Unix seconds with
// fractional precision, matching the timestamps carried on telemetry
// events.
func FileMtime(path string) (float64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("failed to get file metadata: %w", err)
	}
	mtime := info.ModTime()
	return float64(mtime.UnixNano()) / float64(time.Second), nil
}

// ReadChunked reads path in chunkSize pieces, for streaming large
// captures without holding them whole in memory.
func ReadChunked(path string, chunkSize int) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	reader := bufio.NewReader(f)
	buffer := make([]byte, chunkSize)

	var chunks []string
	for {
		n, err := reader.Read(buffer)
		if n > 0 {
			chunks = append(chunks, string(buffer[:n]))
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read chunk: %w", err)
		}
	}
	return chunks, nil
}
