package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vsthijs/tack/pkg/config"
	"github.com/vsthijs/tack/pkg/diag"
)

var dumpIRCmd = &cobra.Command{
	Use:   "dump-ir <input.tack>",
	Short: "Print the lowered QBE SSA IR for a source file without assembling it",
	Args:  cobra.ExactArgs(1),
	RunE:  runDumpIR,
}

func init() {
	dumpIRCmd.Flags().StringArrayP("include", "I", nil, "append an include directory (may be repeated)")
}

func runDumpIR(cmd *cobra.Command, args []string) error {
	includes, _ := cmd.Flags().GetStringArray("include")

	cfg := config.New()
	cfg.IncludeDirs = append(cfg.IncludeDirs, includes...)

	sink := &diag.Sink{}
	sources := diag.NewSourceSet()

	result, err := compile(args[0], cfg, sink, sources, false, false, false)
	if err != nil {
		return renderFatal(err, sources)
	}
	sink.Flush(os.Stderr)

	fmt.Print(result.SSA)
	return nil
}
