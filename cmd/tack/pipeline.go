package main

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/goforj/godump"
	"github.com/google/uuid"

	"github.com/vsthijs/tack/pkg/ast"
	"github.com/vsthijs/tack/pkg/codegen"
	"github.com/vsthijs/tack/pkg/config"
	"github.com/vsthijs/tack/pkg/diag"
	"github.com/vsthijs/tack/pkg/ir"
	"github.com/vsthijs/tack/pkg/parser"
	"github.com/vsthijs/tack/pkg/token"
	"github.com/vsthijs/tack/pkg/types"
)

// compileResult is what the front end and backend hand back to the
// driver's later stages.
type compileResult struct {
	Program *ast.Program
	IR      *ir.Program
	SSA     string
}

// logStage prints one verbose progress line per pipeline stage, mirroring
// the teacher's stage-by-stage fmt.Println calls in cmd/gbc/main.go; the
// parsing stage's caller formats the input size with go-humanize.
func logStage(verbose bool, format string, args ...interface{}) {
	if !verbose {
		return
	}
	fmt.Fprintf(os.Stderr, "tack: "+format+"\n", args...)
}

// compile runs the front end (lex, fused parse/type-check, include
// resolution) and the backend (lower to IR, emit QBE text) for one input
// file, per SPEC_FULL.md §2's package layout and spec.md §2's pipeline.
func compile(input string, cfg *config.Config, sink *diag.Sink, sources *diag.SourceSet, verbose, dumpAST, dumpStack bool) (*compileResult, error) {
	data, err := os.ReadFile(input)
	if err != nil {
		return nil, err
	}
	content := string(data)
	sources.Add(input, content)

	logStage(verbose, "parsing and type-checking %s (%s)", input, humanize.Bytes(uint64(len(data))))

	p, err := parser.New(input, content, cfg.IncludeDirs, sources, sink)
	if err != nil {
		return nil, err
	}
	if dumpStack {
		p.SetTrace(func(pos token.Position, stack types.Stack) {
			fmt.Fprintf(os.Stderr, "%s: %s\n", pos, stack)
		})
	}

	prog, err := p.ParseProgram()
	if err != nil {
		return nil, err
	}
	if dumpAST {
		godump.Dump(prog)
	}

	logStage(verbose, "lowering %d function(s) to QBE IR", len(prog.Funcs))
	lowered, err := codegen.Lower(prog)
	if err != nil {
		return nil, err
	}

	ssa := codegen.Emit(lowered)
	return &compileResult{Program: prog, IR: lowered, SSA: ssa}, nil
}

// renderFatal prints a *diag.Fatal with its source snippet (decorating it
// from sources first, since the parser doesn't have a length hint to
// attach a caret span at construction time) and returns a plain error so
// main can set the process exit code without printing twice.
func renderFatal(err error, sources *diag.SourceSet) error {
	if f, ok := err.(*diag.Fatal); ok {
		sources.Decorate(f, 1).Render(os.Stderr)
		return fmt.Errorf("compilation failed")
	}
	fmt.Fprintf(os.Stderr, "tack: error: %v\n", err)
	return fmt.Errorf("compilation failed")
}

// resolveOutput implements spec §6's "-o FILE (default: input with suffix
// replaced)".
func resolveOutput(input, explicit, suffix string) string {
	if explicit != "" {
		return explicit
	}
	base := strings.TrimSuffix(input, filepath.Ext(input))
	if suffix == "" {
		return base
	}
	return base + suffix
}

func writeStage(content, dest string) error {
	return os.WriteFile(dest, []byte(content), 0o644)
}

// exeDir locates the running binary's directory, used for standard
// library discovery (spec §6).
func exeDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// stdlibArchive implements spec §6's two-path standard library discovery.
func stdlibArchive() (string, bool) {
	dir := exeDir()
	for _, candidate := range []string{
		filepath.Join(dir, "libtack.a"),
		filepath.Join(dir, "lib", "libtack.a"),
	} {
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true
		}
	}
	return "", false
}

// assembleNative pipes QBE-generated native assembly through the system
// `as` to produce a .o file, using a UUID-named temp file (spec §5
// "Resource scopes": temp files removed on the success path; the caller
// decides what happens on error).
func assembleNative(asm *bytes.Buffer, input string) (string, error) {
	asPath, err := exec.LookPath("as")
	if err != nil {
		return "", fmt.Errorf("native assembler not found: %w", err)
	}

	tmpDir := os.TempDir()
	asmFile := filepath.Join(tmpDir, "tack-"+uuid.NewString()+".s")
	if err := os.WriteFile(asmFile, asm.Bytes(), 0o644); err != nil {
		return "", err
	}
	defer os.Remove(asmFile)

	objFile := filepath.Join(tmpDir, "tack-"+uuid.NewString()+".o")
	cmd := exec.Command(asPath, "-o", objFile, asmFile)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("as failed: %w\n%s", err, stderr.String())
	}
	return objFile, nil
}

// link invokes the system C compiler to link one object file into a final
// executable (spec §4.5 Driver, §6 standard-library discovery).
func link(objFile string, cfg *config.Config, output string) error {
	ccPath := os.Getenv("CC")
	if ccPath == "" {
		ccPath = "cc"
	}
	cc, err := exec.LookPath(ccPath)
	if err != nil {
		return fmt.Errorf("C compiler not found (set $CC): %w", err)
	}

	args := []string{"-o", output, objFile}
	if !cfg.NoStdlib {
		if archive, ok := stdlibArchive(); ok {
			args = append(args, archive)
		}
	}
	args = append(args, cfg.LinkInputs...)

	cmd := exec.Command(cc, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("link failed: %w\n%s", err, stderr.String())
	}
	return nil
}
