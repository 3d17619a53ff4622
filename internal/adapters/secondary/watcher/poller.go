package watcher

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fredcamaral/inkpost/internal/domain/ports"
)

// MarkdownExt is the extension of the files a watcher tracks
const MarkdownExt = ".md"

// ErrAlreadyWatching is returned when Watch is called twice on one watcher
var ErrAlreadyWatching = errors.New("watcher already started")

// PollingWatcher implements ports.DirectoryWatcher by polling
type PollingWatcher struct {
	interval  time.Duration
	debounce  time.Duration
	fileInfos map[string]FileInfo
	pending   map[string]pendingChange
	events    chan ports.FileChangeEvent
	mu        sync.Mutex
	wg        sync.WaitGroup
	started   bool
	stopped   bool
	stopCh    chan struct{}
}

// FileInfo stores information about a file
type FileInfo struct {
	Size     int64
	ModTime  time.Time
	Checksum string
}

// pendingChange is a change held back until the file has been quiet for
// the debounce period
type pendingChange struct {
	typ   ports.ChangeType
	since time.Time
}

// NewPollingWatcher creates a watcher that polls every interval and reports
// a change once the file has stopped changing for debounce
func NewPollingWatcher(interval, debounce time.Duration) *PollingWatcher {
	return &PollingWatcher{
		interval:  interval,
		debounce:  debounce,
		fileInfos: make(map[string]FileInfo),
		pending:   make(map[string]pendingChange),
		events:    make(chan ports.FileChangeEvent, 16),
		stopCh:    make(chan struct{}),
	}
}

// Watch records the current markdown files under dir and reports later
// changes on the returned channel. Files present at the start produce no
// events; use ListMarkdownFiles to process them.
func (w *PollingWatcher) Watch(ctx context.Context, dir string) (<-chan ports.FileChangeEvent, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	w.mu.Lock()
	if w.started || w.stopped {
		w.mu.Unlock()
		return nil, ErrAlreadyWatching
	}
	w.started = true
	w.mu.Unlock()

	current, err := ListMarkdownFiles(absDir)
	if err != nil {
		return nil, fmt.Errorf("initial scan: %w", err)
	}
	for _, path := range current {
		info, err := readFileInfo(path)
		if err != nil {
			return nil, fmt.Errorf("initial scan: %w", err)
		}
		w.fileInfos[path] = info
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.pollLoop(ctx, absDir)
	}()

	return w.events, nil
}

// Stop stops the file watcher
func (w *PollingWatcher) Stop() error {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return nil
	}
	w.stopped = true
	close(w.stopCh)
	w.mu.Unlock()

	// the poll loop may need the lock to finish its current pass
	w.wg.Wait()
	close(w.events)
	return nil
}

// pollLoop continuously polls for file changes
func (w *PollingWatcher) pollLoop(ctx context.Context, dir string) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case <-ticker.C:
			if err := w.checkForChanges(dir); err != nil {
				log.Printf("[WARN] watch error: %v", err)
				continue
			}
			for _, event := range w.due(time.Now()) {
				select {
				case w.events <- event:
				case <-ctx.Done():
					return
				case <-w.stopCh:
					return
				}
			}
		}
	}
}

// checkForChanges compares the directory with the last scan and records
// every difference as pending
func (w *PollingWatcher) checkForChanges(dir string) error {
	current, err := ListMarkdownFiles(dir)
	if err != nil {
		return err
	}
	now := time.Now()

	w.mu.Lock()
	defer w.mu.Unlock()

	seen := make(map[string]bool, len(current))
	for _, path := range current {
		seen[path] = true

		stat, err := os.Stat(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				// removed since the listing; the next pass reports it
				continue
			}
			return fmt.Errorf("stat file: %w", err)
		}

		oldInfo, exists := w.fileInfos[path]
		// Skip the checksum when size and modification time are unchanged
		if exists && oldInfo.Size == stat.Size() && oldInfo.ModTime.Equal(stat.ModTime()) {
			continue
		}

		checksum, err := calculateChecksum(path)
		if err != nil {
			return fmt.Errorf("calculate checksum: %w", err)
		}
		w.fileInfos[path] = FileInfo{Size: stat.Size(), ModTime: stat.ModTime(), Checksum: checksum}

		switch {
		case !exists:
			w.markPending(path, ports.Created, now)
		case oldInfo.Checksum != checksum:
			w.markPending(path, ports.Modified, now)
		}
	}

	for path := range w.fileInfos {
		if !seen[path] {
			delete(w.fileInfos, path)
			w.markPending(path, ports.Deleted, now)
		}
	}
	return nil
}

// markPending merges a new change into the one already waiting for path.
// Callers hold w.mu.
func (w *PollingWatcher) markPending(path string, typ ports.ChangeType, now time.Time) {
	prev, ok := w.pending[path]
	switch {
	case ok && prev.typ == ports.Created && typ == ports.Deleted:
		// never reported, so nothing to undo
		delete(w.pending, path)
		return
	case ok && prev.typ == ports.Created:
		typ = ports.Created
	case ok && prev.typ == ports.Deleted && typ == ports.Created:
		typ = ports.Modified
	}
	w.pending[path] = pendingChange{typ: typ, since: now}
}

// due removes and returns the pending changes that have been quiet for the
// debounce period, ordered by path
func (w *PollingWatcher) due(now time.Time) []ports.FileChangeEvent {
	w.mu.Lock()
	defer w.mu.Unlock()

	var events []ports.FileChangeEvent
	for path, change := range w.pending {
		if now.Sub(change.since) < w.debounce {
			continue
		}
		events = append(events, ports.FileChangeEvent{Path: path, Type: change.typ, Timestamp: now})
		delete(w.pending, path)
	}
	sort.Slice(events, func(i, j int) bool { return events[i].Path < events[j].Path })
	return events
}

// ListMarkdownFiles returns the absolute paths of the markdown files under
// dir, sorted. Hidden files and directories are skipped.
func ListMarkdownFiles(dir string) ([]string, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}
	info, err := os.Stat(absDir)
	if err != nil {
		return nil, fmt.Errorf("accessing %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", dir)
	}

	var files []string
	err = filepath.WalkDir(absDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path != absDir && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() && strings.EqualFold(filepath.Ext(path), MarkdownExt) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", dir, err)
	}
	sort.Strings(files)
	return files, nil
}

func readFileInfo(path string) (FileInfo, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return FileInfo{}, fmt.Errorf("stat file: %w", err)
	}
	checksum, err := calculateChecksum(path)
	if err != nil {
		return FileInfo{}, fmt.Errorf("calculate checksum: %w", err)
	}
	return FileInfo{Size: stat.Size(), ModTime: stat.ModTime(), Checksum: checksum}, nil
}

// calculateChecksum calculates SHA256 checksum of a file
func calculateChecksum(path string) (string, error) {
	file, err := os.Open(path) // #nosec G304 - path comes from a directory listing
	if err != nil {
		return "", err
	}
	defer func() { _ = file.Close() }()

	hash := sha256.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", err
	}

	return hex.EncodeToString(hash.Sum(nil)), nil
}

// Ensure PollingWatcher implements ports.DirectoryWatcher
var _ ports.DirectoryWatcher = (*PollingWatcher)(nil)
