//go:build !windows

package codegen

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/vsthijs/tack/pkg/config"
	"github.com/vsthijs/tack/pkg/ir"
	"modernc.org/libqbe"
)

// Assemble runs libqbe in-process, so a plain `go install` gives a working
// compiler with no external `qbe` binary on PATH.
func (b *qbeBackend) Assemble(prog *ir.Program, cfg *config.Config) (*bytes.Buffer, error) {
	ssa := Emit(prog)

	var asm bytes.Buffer
	if err := libqbe.Main(cfg.QbeTarget, "tack.ssa", strings.NewReader(ssa), &asm, nil); err != nil {
		return nil, fmt.Errorf("qbe assembly failed for target %s: %w\ngenerated IR:\n%s", cfg.QbeTarget, err, ssa)
	}
	return &asm, nil
}
