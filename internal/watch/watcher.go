// Package watch re-triggers document rendering when a document or a JSON
// file next to it changes.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Op describes the state of a document when its change is delivered.
type Op int

const (
	// Changed indicates the document or one of its data files was written
	Changed Op = iota
	// Removed indicates the document no longer exists
	Removed
)

// String returns a human-readable representation of the operation
func (op Op) String() string {
	switch op {
	case Changed:
		return "changed"
	case Removed:
		return "removed"
	default:
		return "unknown"
	}
}

// Event reports a document that needs re-rendering.
type Event struct {
	Document  string    // Absolute path of the affected document
	Trigger   string    // Absolute path of the file that changed
	Op        Op        // Document state after the change
	Timestamp time.Time // When the event was delivered
}

// DefaultDebounceDelay is the default delay for coalescing rapid writes
const DefaultDebounceDelay = 100 * time.Millisecond

// DataExtensions are the file extensions whose changes re-render every
// watched document in the same directory.
var DataExtensions = []string{".json"}

// Watcher watches documents and the JSON files beside them.
type Watcher struct {
	watcher *fsnotify.Watcher
	events  chan Event
	errors  chan error
	done    chan struct{}

	documents map[string]bool
	dirs      map[string][]string // directory -> documents in it

	mu            sync.Mutex
	debounceDelay time.Duration
	debounceMap   map[string]*time.Timer
	closed        bool
}

// New creates a Watcher for the given documents. Their parent directories
// are watched, since editors often replace files rather than write them.
func New(documents []string) (*Watcher, error) {
	if len(documents) == 0 {
		return nil, fmt.Errorf("no documents to watch")
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		watcher:       fsw,
		events:        make(chan Event, 100),
		errors:        make(chan error, 10),
		done:          make(chan struct{}),
		documents:     make(map[string]bool),
		dirs:          make(map[string][]string),
		debounceDelay: DefaultDebounceDelay,
		debounceMap:   make(map[string]*time.Timer),
	}

	for _, doc := range documents {
		abs, err := filepath.Abs(doc)
		if err != nil {
			fsw.Close()
			return nil, err
		}
		if w.documents[abs] {
			continue
		}
		w.documents[abs] = true
		dir := filepath.Dir(abs)
		w.dirs[dir] = append(w.dirs[dir], abs)
	}

	for dir := range w.dirs {
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}

	go w.processEvents()

	return w, nil
}

// Documents returns the watched documents, sorted.
func (w *Watcher) Documents() []string {
	out := make([]string, 0, len(w.documents))
	for doc := range w.documents {
		out = append(out, doc)
	}
	sort.Strings(out)
	return out
}

// Run delivers events to onChange until ctx is done, then closes the
// watcher. onError, when non-nil, receives watcher errors.
func (w *Watcher) Run(ctx context.Context, onChange func(Event), onError func(error)) error {
	defer w.Close()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-w.events:
			onChange(ev)
		case err := <-w.errors:
			if onError != nil {
				onError(err)
			}
		}
	}
}

// processEvents processes fsnotify events until the watcher is closed
func (w *Watcher) processEvents() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.errors <- err:
			default:
				// Error channel full, drop the error
			}
		}
	}
}

// handleEvent maps one fsnotify event to the documents it affects
func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		// Ignore chmod events
		return
	}

	path := filepath.Clean(event.Name)
	if w.documents[path] {
		w.debounce(path, path)
		return
	}
	if !isDataFile(path) {
		return
	}
	for _, doc := range w.dirs[filepath.Dir(path)] {
		w.debounce(doc, path)
	}
}

func isDataFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, want := range DataExtensions {
		if ext == want {
			return true
		}
	}
	return false
}

// debounce coalesces rapid changes for the same document
func (w *Watcher) debounce(document, trigger string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}

	if timer, exists := w.debounceMap[document]; exists {
		timer.Stop()
	}

	var timer *time.Timer
	timer = time.AfterFunc(w.debounceDelay, func() {
		w.fire(document, trigger, timer)
	})
	w.debounceMap[document] = timer
}

// fire sends the event for a debounce timer that expired. A timer that was
// replaced while waiting for the lock is stale and sends nothing; the
// newer timer owns the map entry and the event.
func (w *Watcher) fire(document, trigger string, timer *time.Timer) {
	w.mu.Lock()
	if w.debounceMap[document] != timer {
		w.mu.Unlock()
		return
	}
	delete(w.debounceMap, document)
	w.mu.Unlock()

	w.sendEvent(document, trigger)
}

// sendEvent sends an Event, stating the document to decide its Op
func (w *Watcher) sendEvent(document, trigger string) {
	op := Changed
	if _, err := os.Stat(document); os.IsNotExist(err) {
		op = Removed
	}

	event := Event{
		Document:  document,
		Trigger:   trigger,
		Op:        op,
		Timestamp: time.Now(),
	}

	select {
	case w.events <- event:
	case <-w.done:
	default:
		// Events channel full, drop the event
	}
}

// Events returns the channel for receiving document events
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Errors returns the channel for receiving errors
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// Close stops the watcher and releases resources
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true

	for _, timer := range w.debounceMap {
		timer.Stop()
	}
	w.debounceMap = nil
	w.mu.Unlock()

	close(w.done)

	return w.watcher.Close()
}

// SetDebounceDelay sets the debounce delay for coalescing rapid writes
// This should only be called before the watcher starts receiving events
func (w *Watcher) SetDebounceDelay(delay time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.debounceDelay = delay
}
