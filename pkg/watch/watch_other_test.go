//go:build !linux

package watch

import "testing"

func TestNewReportsUnsupportedOffLinux(t *testing.T) {
	if _, err := New(); err == nil {
		t.Fatal("expected watch mode to report unsupported outside linux")
	}
}
