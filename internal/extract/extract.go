// Package extract writes selected bundle entries to disk, preserving each
// entry's stored relative path under a destination root.
package extract

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/lpaktools/lpak/internal/lpak"
)

// ProgressCallback is called after each entry is handled.
type ProgressCallback func(current int, total int, path string)

// Stats summarizes one extraction run.
type Stats struct {
	// Written counts destination files created, including empty ones.
	Written int
	// Skipped counts entries passed over for being compressed or unsafe.
	Skipped int
	// Bytes is the total payload bytes copied to disk.
	Bytes int64
}

// Extractor copies entry byte ranges out of a bundle into files under a
// destination root.
type Extractor struct {
	bundle   *lpak.Bundle
	destRoot string
}

// NewExtractor creates an extractor writing under destRoot.
func NewExtractor(bundle *lpak.Bundle, destRoot string) *Extractor {
	return &Extractor{
		bundle:   bundle,
		destRoot: destRoot,
	}
}

// Extract writes the given entries in table order. Entries whose stored path
// would escape the destination root are skipped with a warning, as are
// compressed entries. Any read or write failure aborts the run; the returned
// stats report how many files were completed before the failure.
func (e *Extractor) Extract(entries []lpak.Entry, progress ProgressCallback) (Stats, error) {
	var stats Stats

	for i, entry := range entries {
		if entry.Compressed {
			slog.Warn("Skipping compressed entry", "path", entry.Path)
			stats.Skipped++
			if progress != nil {
				progress(i+1, len(entries), entry.Path)
			}
			continue
		}

		target, err := e.resolve(entry.Path)
		if err != nil {
			slog.Warn("Skipping entry with unsafe path", "path", entry.Path, "error", err)
			stats.Skipped++
			if progress != nil {
				progress(i+1, len(entries), entry.Path)
			}
			continue
		}

		if err := e.writeEntry(entry, target); err != nil {
			return stats, fmt.Errorf("extracting %q: %w", entry.Path, err)
		}
		stats.Written++
		stats.Bytes += entry.Size

		if progress != nil {
			progress(i+1, len(entries), entry.Path)
		}

		slog.Debug("Extracted entry", "path", entry.Path, "size", entry.Size, "output", target)
	}

	return stats, nil
}

// resolve joins an entry's stored path under the destination root, rejecting
// any path that would land outside it via traversal segments or an absolute
// prefix.
func (e *Extractor) resolve(storedPath string) (string, error) {
	rel := filepath.FromSlash(storedPath)
	if !filepath.IsLocal(rel) {
		return "", fmt.Errorf("entry path %q escapes destination root: %w", storedPath, lpak.ErrUnsafePath)
	}
	return filepath.Join(e.destRoot, rel), nil
}

func (e *Extractor) writeEntry(entry lpak.Entry, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("creating parent directory: %w", err)
	}

	out, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}

	_, err = io.Copy(out, e.bundle.Section(entry.Offset, entry.Size))
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("copying %d bytes from offset %d: %w", entry.Size, entry.Offset, err)
	}

	return nil
}
