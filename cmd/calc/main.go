// Package main is the entry point for the calc command.
//
// Usage:
//
//	calc 3 + 4 x 2
//	calc serve --port 8787
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lemonberrylabs/calc/pkg/calc"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "calc <number> [<operator> <number>]...",
		Short: "Evaluate an integer expression such as 3 + 4 x 2",
		Long: `Evaluate an integer expression given as separate arguments.

Operators are + - x / % ("x" multiplies; "*" is rejected because shells
expand it). x, / and % bind tighter than + and -, and each tier is
evaluated left to right.

Run "calc help" or "calc --help" for this message.`,
		Args: cobra.ArbitraryArgs,
		// Tokens like "-" and "-5" must reach the evaluator untouched.
		DisableFlagParsing: true,
		SilenceUsage:       true,
		RunE:               runEvaluate,
	}
	root.AddCommand(newServeCmd(), newVersionCmd())
	return root
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	// Flag parsing is off, so a lone help flag arrives as a token.
	if len(args) == 1 && (args[0] == "-h" || args[0] == "--help") {
		return cmd.Help()
	}
	result, err := calc.Evaluate(args)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), result)
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "calc version %s (commit=%s, built=%s)\n", version, commit, date)
		},
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
