// Command tack is the Tack compiler driver (spec §4.5, §6): it lexes,
// parses and type-checks, lowers to QBE SSA IR, assembles, and links a
// Tack source file into a native executable, with subcommands to stop
// at an intermediate stage or watch a file for changes.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var rootCmd = &cobra.Command{
	Use:   "tack <input.tack>",
	Short: "Tack: a stack-oriented language compiling to QBE",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return cmd.Help()
		}
		return runBuild(cmd, args)
	},
}

func init() {
	// The bare `tack file.tack` invocation shares build's flags directly,
	// per spec §6's flag table living at the top level, not under a verb.
	rootCmd.Flags().AddFlagSet(buildCmd.Flags())

	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(dumpIRCmd)
	rootCmd.AddCommand(watchCmd)

	rootCmd.SetUsageFunc(usageAtTerminalWidth)
}

// usageAtTerminalWidth prints flag usage wrapped to the actual terminal
// width when stdout is a tty, rather than cobra's fixed-column default,
// so --help reads cleanly in both narrow and wide terminals.
func usageAtTerminalWidth(c *cobra.Command) error {
	width := 80
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		width = w
	}
	out := c.OutOrStderr()
	fmt.Fprintf(out, "Usage:\n  %s\n", c.UseLine())
	if c.HasAvailableSubCommands() {
		fmt.Fprintf(out, "\nAvailable Commands:\n")
		for _, sub := range c.Commands() {
			if sub.IsAvailableCommand() {
				fmt.Fprintf(out, "  %-12s %s\n", sub.Name(), sub.Short)
			}
		}
	}
	fmt.Fprintf(out, "\nFlags:\n%s", c.Flags().FlagUsagesWrapped(width))
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "tack: %v\n", err)
		os.Exit(1)
	}
}
