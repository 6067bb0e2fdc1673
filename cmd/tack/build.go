package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vsthijs/tack/pkg/codegen"
	"github.com/vsthijs/tack/pkg/config"
	"github.com/vsthijs/tack/pkg/diag"
)

var buildCmd = &cobra.Command{
	Use:   "build <input.tack>",
	Short: "Compile a Tack source file (same as bare `tack <file>`)",
	Args:  cobra.ExactArgs(1),
	RunE:  runBuild,
}

func init() {
	fs := buildCmd.Flags()
	fs.StringP("output", "o", "", "output path (default: input with suffix replaced)")
	fs.Bool("cssa", false, "stop after emitting QBE SSA IR")
	fs.Bool("cs", false, "stop after the IR assembler (emit native .s)")
	fs.BoolP("c", "c", false, "stop after the native assembler (emit .o)")
	fs.StringArrayP("link", "l", nil, "append a link input (may be repeated)")
	fs.Bool("nostdlib", false, "do not auto-link the standard library nor add its include path")
	fs.StringArrayP("include", "I", nil, "append an include directory (may be repeated)")
	fs.BoolP("verbose", "v", false, "verbose logging to stderr")
	fs.Bool("dump-ast", false, "pretty-print the parsed AST to stdout, then continue the build")
	fs.Bool("dump-stack", false, "print the type stack after every op while parsing")
}

// runBuild is the driver's default action: lex, parse+type-check, lower,
// emit QBE SSA, and (unless stopped early) assemble and link (spec §4.5,
// §6). It is shared by the bare `tack <file>` root invocation and the
// explicit `tack build <file>` subcommand.
func runBuild(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		cmd.Help()
		os.Exit(1)
	}
	input := args[0]
	if _, err := os.Stat(input); err != nil {
		fmt.Fprintf(os.Stderr, "tack: %s: %v\n", input, err)
		cmd.Help()
		os.Exit(1)
	}

	fs := cmd.Flags()
	output, _ := fs.GetString("output")
	cssa, _ := fs.GetBool("cssa")
	cs, _ := fs.GetBool("cs")
	stopAtObj, _ := fs.GetBool("c")
	links, _ := fs.GetStringArray("link")
	noStdlib, _ := fs.GetBool("nostdlib")
	includes, _ := fs.GetStringArray("include")
	verbose, _ := fs.GetBool("verbose")
	dumpAST, _ := fs.GetBool("dump-ast")
	dumpStack, _ := fs.GetBool("dump-stack")

	cfg := config.New()
	if err := cfg.LoadFile("tack.toml"); err != nil {
		return err
	}
	cfg.IncludeDirs = append(cfg.IncludeDirs, includes...)
	cfg.LinkInputs = append(cfg.LinkInputs, links...)
	cfg.NoStdlib = cfg.NoStdlib || noStdlib
	cfg.Verbose = verbose
	if !cfg.NoStdlib {
		cfg.IncludeDirs = append(cfg.IncludeDirs, exeDir()+"/lib/include", "/usr/include")
	}

	sink := &diag.Sink{}
	sources := diag.NewSourceSet()

	result, err := compile(input, cfg, sink, sources, verbose, dumpAST, dumpStack)
	if err != nil {
		return renderFatal(err, sources)
	}
	sink.Flush(os.Stderr)

	if cssa {
		return writeStage(result.SSA, resolveOutput(input, output, ".ssa"))
	}

	backend := codegen.NewBackend()
	logStage(verbose, "assembling via QBE target %s", cfg.QbeTarget)
	asm, err := backend.Assemble(result.IR, cfg)
	if err != nil {
		return err
	}

	if cs {
		return writeStage(asm.String(), resolveOutput(input, output, ".s"))
	}

	logStage(verbose, "invoking native assembler")
	objFile, err := assembleNative(asm, input)
	if err != nil {
		return err
	}

	if stopAtObj {
		dest := resolveOutput(input, output, ".o")
		data, err := os.ReadFile(objFile)
		os.Remove(objFile)
		if err != nil {
			return err
		}
		return os.WriteFile(dest, data, 0o644)
	}
	defer os.Remove(objFile)

	logStage(verbose, "linking %s", resolveOutput(input, output, ""))
	return link(objFile, cfg, resolveOutput(input, output, ""))
}
