// Package testutil holds small helpers shared by package-level tests
// across the compiler: stack assertions and golden-IR fixture loading.
package testutil

import (
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/vsthijs/tack/pkg/types"
)

// AssertStackEqual fails the test, printing both stacks, if got != want.
func AssertStackEqual(t *testing.T, got, want types.Stack) {
	t.Helper()
	if !types.Equal(got, want) {
		t.Errorf("stack mismatch: got %s, want %s", got, want)
	}
}

// GoldenIR reads a fixture file under testdata/, comparing it against got
// unless TACK_UPDATE_GOLDEN is set, in which case it overwrites the fixture with
// got so a human can review the diff in version control.
func GoldenIR(t *testing.T, path, got string) {
	t.Helper()
	if os.Getenv("TACK_UPDATE_GOLDEN") != "" {
		if err := os.WriteFile(path, []byte(got), 0o644); err != nil {
			t.Fatalf("writing golden file %s: %v", path, err)
		}
		return
	}
	want, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading golden file %s: %v (set TACK_UPDATE_GOLDEN=1 to create it)", path, err)
	}
	if diff := cmp.Diff(string(want), got); diff != "" {
		t.Errorf("golden mismatch for %s (-want +got):\n%s", path, diff)
	}
}
