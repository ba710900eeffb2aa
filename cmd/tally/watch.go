package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"tally/interpreter-go/pkg/driver"
)

const watchDebounce = 100 * time.Millisecond

// programWatcher reruns a program whenever a document next to it changes.
type programWatcher struct {
	watcher *fsnotify.Watcher
	rerun   func()
	stdout  io.Writer
	stderr  io.Writer

	mu         sync.Mutex
	lastChange time.Time
	runs       int
}

func newProgramWatcher(rerun func(), stdout, stderr io.Writer) (*programWatcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &programWatcher{watcher: fsWatcher, rerun: rerun, stdout: stdout, stderr: stderr}, nil
}

// watchDirs adds each distinct directory once.
func (w *programWatcher) watchDirs(dirs ...string) error {
	seen := make(map[string]bool, len(dirs))
	for _, dir := range dirs {
		if dir == "" || seen[dir] {
			continue
		}
		seen[dir] = true
		if err := w.watcher.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
		w.logInfo("watching %s", dir)
	}
	return nil
}

func (w *programWatcher) run(ctx context.Context) {
	w.eventLoop(ctx, w.watcher.Events, w.watcher.Errors)
}

func (w *programWatcher) eventLoop(ctx context.Context, events <-chan fsnotify.Event, errs <-chan error) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if !isProgramDocument(event.Name) {
				continue
			}
			w.mu.Lock()
			if time.Since(w.lastChange) < watchDebounce {
				w.mu.Unlock()
				continue
			}
			w.lastChange = time.Now()
			w.runs++
			w.mu.Unlock()

			w.logInfo("%s changed, running again", event.Name)
			w.rerun()
		case err, ok := <-errs:
			if !ok {
				return
			}
			w.logError("watcher error: %v", err)
		}
	}
}

func (w *programWatcher) reruns() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.runs
}

func (w *programWatcher) Close() error {
	return w.watcher.Close()
}

func (w *programWatcher) logInfo(format string, args ...any) {
	fmt.Fprintf(w.stdout, "[WATCH] "+format+"\n", args...)
}

func (w *programWatcher) logError(format string, args ...any) {
	fmt.Fprintf(w.stderr, "[WATCH ERROR] "+format+"\n", args...)
}

func isProgramDocument(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml", ".json":
		return true
	}
	return false
}

func runWatch(args []string) int {
	positional, trace, err := splitFlags(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	entry, manifest, err := resolveEntry(positional)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	// Each run picks up manifest edits as well as program edits.
	rerun := func() {
		current, m, err := resolveEntry(positional)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return
		}
		executeEntry(current, m, trace)
	}

	w, err := newProgramWatcher(rerun, os.Stdout, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start watcher: %v\n", err)
		return 1
	}
	defer w.Close()

	dirs := []string{}
	if abs, err := filepath.Abs(entry); err == nil {
		dirs = append(dirs, filepath.Dir(abs))
	}
	if manifest != nil && manifest.Path != "" {
		dirs = append(dirs, filepath.Dir(manifest.Path))
	} else if cwd, err := os.Getwd(); err == nil {
		if _, statErr := os.Stat(filepath.Join(cwd, driver.ManifestFileName)); statErr == nil {
			dirs = append(dirs, cwd)
		}
	}
	if err := w.watchDirs(dirs...); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	executeEntry(entry, manifest, trace)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	w.run(ctx)
	return 0
}
