package runner

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"sfcwizard/pkg/logging"
)

// Tail follows a log file and retains the most recent lines in a bounded
// buffer. It tolerates the file not existing yet, which happens briefly
// between process launch and the first write.
type Tail struct {
	path     string
	maxLines int

	mu     sync.Mutex
	lines  []string
	offset int64

	watcher *fsnotify.Watcher
	done    chan struct{}
	stopped sync.Once
}

// NewTail creates a tail over the file at path, retaining maxLines lines.
func NewTail(path string, maxLines int) *Tail {
	if maxLines <= 0 {
		maxLines = 200
	}
	return &Tail{
		path:     path,
		maxLines: maxLines,
		done:     make(chan struct{}),
	}
}

// Start begins following the file. The watch covers the containing directory
// so that creation of the file itself is observed.
func (t *Tail) Start() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create log watcher: %w", err)
	}
	t.watcher = watcher

	dir := filepath.Dir(t.path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch log directory %s: %w", dir, err)
	}

	// Pick up anything already written before the watch began.
	t.drain()

	go t.loop()
	return nil
}

// Stop ends the watch. Lines remain readable after stopping.
func (t *Tail) Stop() {
	t.stopped.Do(func() {
		close(t.done)
		if t.watcher != nil {
			t.watcher.Close()
		}
	})
}

// Lines returns up to n of the most recent log lines, oldest first. n <= 0
// returns everything retained.
func (t *Tail) Lines(n int) []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	if n <= 0 || n > len(t.lines) {
		n = len(t.lines)
	}
	out := make([]string, n)
	copy(out, t.lines[len(t.lines)-n:])
	return out
}

func (t *Tail) loop() {
	for {
		select {
		case <-t.done:
			return
		case event, ok := <-t.watcher.Events:
			if !ok {
				return
			}
			if event.Name != t.path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				t.drain()
			}
		case err, ok := <-t.watcher.Errors:
			if !ok {
				return
			}
			logging.Warn("runner", "Log watcher error: %v", err)
		}
	}
}

// drain reads newly appended content from the current offset.
func (t *Tail) drain() {
	file, err := os.Open(t.path)
	if err != nil {
		return
	}
	defer file.Close()

	t.mu.Lock()
	defer t.mu.Unlock()

	if _, err := file.Seek(t.offset, io.SeekStart); err != nil {
		return
	}

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		t.lines = append(t.lines, scanner.Text())
		if len(t.lines) > t.maxLines {
			t.lines = t.lines[len(t.lines)-t.maxLines:]
		}
	}

	if pos, err := file.Seek(0, io.SeekCurrent); err == nil {
		t.offset = pos
	}
}
