//go:build linux

package watch

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"
	"unsafe"

	"golang.org/x/sys/unix"
)

// inotifyWatcher is grounded on the teacher pack's own filewatcher_unix.go
// (xyproto/vibe67), adapted from a general-purpose file watcher into one
// scoped to Tack's driver: it debounces bursts of writes (editors often
// emit several events per save) before invoking onChange.
type inotifyWatcher struct {
	fd          int
	mu          sync.Mutex
	watchMap    map[int]string
	debounceMap map[string]*time.Timer
}

func New() (Watcher, error) {
	fd, err := unix.InotifyInit1(unix.IN_NONBLOCK | unix.IN_CLOEXEC)
	if err != nil {
		return nil, fmt.Errorf("inotify_init1: %w", err)
	}
	return &inotifyWatcher{fd: fd, watchMap: make(map[int]string), debounceMap: make(map[string]*time.Timer)}, nil
}

func (w *inotifyWatcher) Add(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	wd, err := unix.InotifyAddWatch(w.fd, abs, unix.IN_MODIFY|unix.IN_CLOSE_WRITE)
	if err != nil {
		return fmt.Errorf("watching %s: %w", abs, err)
	}
	w.mu.Lock()
	w.watchMap[wd] = abs
	w.mu.Unlock()
	return nil
}

func (w *inotifyWatcher) Run(onChange func(path string)) error {
	buf := make([]byte, unix.SizeofInotifyEvent*10)
	for {
		n, err := unix.Read(w.fd, buf)
		if err != nil {
			if err == unix.EAGAIN {
				time.Sleep(100 * time.Millisecond)
				continue
			}
			return fmt.Errorf("reading inotify events: %w", err)
		}

		offset := 0
		for offset < n {
			event := (*unix.InotifyEvent)(unsafe.Pointer(&buf[offset]))
			offset += unix.SizeofInotifyEvent + int(event.Len)

			if event.Mask&(unix.IN_MODIFY|unix.IN_CLOSE_WRITE) == 0 {
				continue
			}
			w.mu.Lock()
			path := w.watchMap[int(event.Wd)]
			w.mu.Unlock()
			if path != "" {
				w.debounced(path, onChange)
			}
		}
	}
}

func (w *inotifyWatcher) debounced(path string, onChange func(string)) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.debounceMap[path]; ok {
		t.Stop()
	}
	w.debounceMap[path] = time.AfterFunc(200*time.Millisecond, func() {
		onChange(path)
		w.mu.Lock()
		delete(w.debounceMap, path)
		w.mu.Unlock()
	})
}

func (w *inotifyWatcher) Close() error {
	return unix.Close(w.fd)
}
