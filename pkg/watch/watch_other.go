//go:build !linux

package watch

import "fmt"

// New reports watch mode as unsupported outside linux, rather than
// silently falling back to polling.
func New() (Watcher, error) {
	return nil, fmt.Errorf("watch mode is only implemented on linux (inotify)")
}
