package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vsthijs/tack/pkg/codegen"
	"github.com/vsthijs/tack/pkg/config"
	"github.com/vsthijs/tack/pkg/diag"
	"github.com/vsthijs/tack/pkg/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch <input.tack>",
	Short: "Rebuild on every save (linux only, via inotify)",
	Args:  cobra.ExactArgs(1),
	RunE:  runWatch,
}

func init() {
	fs := watchCmd.Flags()
	fs.StringP("output", "o", "", "output path (default: input with suffix replaced)")
	fs.StringArrayP("include", "I", nil, "append an include directory (may be repeated)")
	fs.BoolP("verbose", "v", true, "verbose logging to stderr")
}

func runWatch(cmd *cobra.Command, args []string) error {
	input := args[0]
	fs := cmd.Flags()
	output, _ := fs.GetString("output")
	includes, _ := fs.GetStringArray("include")
	verbose, _ := fs.GetBool("verbose")

	w, err := watch.New()
	if err != nil {
		return err
	}
	defer w.Close()
	if err := w.Add(input); err != nil {
		return err
	}

	rebuild := func() {
		cfg := config.New()
		cfg.IncludeDirs = append(cfg.IncludeDirs, includes...)
		cfg.Verbose = verbose

		sink := &diag.Sink{}
		sources := diag.NewSourceSet()

		result, err := compile(input, cfg, sink, sources, verbose, false, false)
		if err != nil {
			renderFatal(err, sources)
			return
		}
		sink.Flush(os.Stderr)

		backend := codegen.NewBackend()
		asm, err := backend.Assemble(result.IR, cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "tack: %v\n", err)
			return
		}
		objFile, err := assembleNative(asm, input)
		if err != nil {
			fmt.Fprintf(os.Stderr, "tack: %v\n", err)
			return
		}
		defer os.Remove(objFile)
		if err := link(objFile, cfg, resolveOutput(input, output, "")); err != nil {
			fmt.Fprintf(os.Stderr, "tack: %v\n", err)
			return
		}
		logStage(true, "rebuilt %s", resolveOutput(input, output, ""))
	}

	rebuild()
	return w.Run(func(path string) { rebuild() })
}
