package vision

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchDebounce drops repeated events for the same file within this window.
const watchDebounce = 100 * time.Millisecond

// BankWatcher reports changes to bank manifests in a set of directories.
// Paths arrive on Events; the caller reloads them on its own goroutine, for
// example with Banks.LoadBankFile at the start of a frame.
type BankWatcher struct {
	watcher *fsnotify.Watcher
	Events  chan string
	Errors  chan error
	closeCh chan struct{}
	done    chan struct{}
	once    sync.Once
}

// NewBankWatcher starts watching dirs.
func NewBankWatcher(dirs ...string) (*BankWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	for _, dir := range dirs {
		if err := w.Add(dir); err != nil {
			_ = w.Close()
			return nil, err
		}
	}

	bw := &BankWatcher{
		watcher: w,
		Events:  make(chan string, 16),
		Errors:  make(chan error, 1),
		closeCh: make(chan struct{}),
		done:    make(chan struct{}),
	}
	go bw.run()
	return bw, nil
}

// Close stops the watcher and closes Events and Errors. It is safe to call
// more than once.
func (bw *BankWatcher) Close() error {
	var err error
	bw.once.Do(func() {
		close(bw.closeCh)
		err = bw.watcher.Close()
		<-bw.done
	})
	return err
}

// Poll returns the manifest paths that changed since the last call without
// blocking.
func (bw *BankWatcher) Poll() []string {
	var paths []string
	for {
		select {
		case p, ok := <-bw.Events:
			if !ok {
				return paths
			}
			paths = append(paths, p)
		default:
			return paths
		}
	}
}

func (bw *BankWatcher) run() {
	defer func() {
		close(bw.Events)
		close(bw.Errors)
		close(bw.done)
	}()
	last := make(map[string]time.Time)
	for {
		select {
		case event, ok := <-bw.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 || !isManifestFile(event.Name) {
				continue
			}
			now := time.Now()
			if !debounce(last, event.Name, now) {
				continue
			}
			select {
			case bw.Events <- event.Name:
			case <-bw.closeCh:
				return
			}
		case err, ok := <-bw.watcher.Errors:
			if !ok {
				return
			}
			select {
			case bw.Errors <- err:
			default:
			}
		case <-bw.closeCh:
			return
		}
	}
}

// debounce reports whether an event for name at now should be delivered and
// records it. Entries older than watchDebounce are dropped first, so last
// only holds files seen within the window.
func debounce(last map[string]time.Time, name string, now time.Time) bool {
	for n, t := range last {
		if now.Sub(t) >= watchDebounce {
			delete(last, n)
		}
	}
	if _, ok := last[name]; ok {
		return false
	}
	last[name] = now
	return true
}

func isManifestFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
		return true
	}
	return false
}
