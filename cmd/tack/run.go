package main

import (
	"os"
	"os/exec"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/vsthijs/tack/pkg/codegen"
	"github.com/vsthijs/tack/pkg/config"
	"github.com/vsthijs/tack/pkg/diag"
)

var runCmd = &cobra.Command{
	Use:   "run <input.tack> [-- program-args...]",
	Short: "Compile and immediately execute a source file, like `go run`",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runRun,
}

func init() {
	fs := runCmd.Flags()
	fs.StringArrayP("include", "I", nil, "append an include directory (may be repeated)")
	fs.BoolP("verbose", "v", false, "verbose logging to stderr")
	fs.Bool("nostdlib", false, "do not auto-link the standard library")
}

func runRun(cmd *cobra.Command, args []string) error {
	input := args[0]
	programArgs := args[1:]

	fs := cmd.Flags()
	includes, _ := fs.GetStringArray("include")
	verbose, _ := fs.GetBool("verbose")
	noStdlib, _ := fs.GetBool("nostdlib")

	cfg := config.New()
	cfg.IncludeDirs = append(cfg.IncludeDirs, includes...)
	cfg.NoStdlib = noStdlib
	cfg.Verbose = verbose

	sink := &diag.Sink{}
	sources := diag.NewSourceSet()

	result, err := compile(input, cfg, sink, sources, verbose, false, false)
	if err != nil {
		return renderFatal(err, sources)
	}
	sink.Flush(os.Stderr)

	backend := codegen.NewBackend()
	asm, err := backend.Assemble(result.IR, cfg)
	if err != nil {
		return err
	}

	objFile, err := assembleNative(asm, input)
	if err != nil {
		return err
	}
	defer os.Remove(objFile)

	exePath := filepath.Join(os.TempDir(), "tack-run-"+uuid.NewString())
	if err := link(objFile, cfg, exePath); err != nil {
		return err
	}
	defer os.Remove(exePath)

	child := exec.Command(exePath, programArgs...)
	child.Stdin = os.Stdin
	child.Stdout = os.Stdout
	child.Stderr = os.Stderr
	if err := child.Run(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			// os.Exit skips the deferred removals above.
			os.Remove(exePath)
			os.Remove(objFile)
			os.Exit(exitErr.ExitCode())
		}
		return err
	}
	return nil
}
