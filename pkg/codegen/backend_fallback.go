//go:build windows

package codegen

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/google/uuid"

	"github.com/vsthijs/tack/pkg/config"
	"github.com/vsthijs/tack/pkg/ir"
)

// Assemble shells out to a system `qbe` binary. libqbe's in-process
// backend targets amd64_sysv/arm64/rv64 hosts only; on Windows Tack falls
// back to whatever native `qbe` the user has on PATH.
func (b *qbeBackend) Assemble(prog *ir.Program, cfg *config.Config) (*bytes.Buffer, error) {
	if _, err := exec.LookPath("qbe"); err != nil {
		return nil, fmt.Errorf("qbe not found on PATH: %w", err)
	}

	ssa := Emit(prog)

	inputPath := os.TempDir() + "\\tack-" + uuid.NewString() + ".ssa"
	if err := os.WriteFile(inputPath, []byte(ssa), 0o644); err != nil {
		return nil, err
	}
	defer os.Remove(inputPath)

	outputPath := inputPath + ".s"
	cmd := exec.Command("qbe", "-o", outputPath, "-t", cfg.QbeTarget, inputPath)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("qbe failed: %w\n%s\ngenerated IR:\n%s", err, stderr.String(), ssa)
	}
	defer os.Remove(outputPath)

	f, err := os.Open(outputPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var asm bytes.Buffer
	if _, err := io.Copy(&asm, f); err != nil {
		return nil, err
	}
	return &asm, nil
}
