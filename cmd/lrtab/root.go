package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "lrtab",
	Short: "Build a packed LALR(1) action table from a grammar",
	Long: `lrtab builds a packed, overlap-exploiting LALR(1) action table from a
small JSON grammar description:
- "build" prints the packed table, per-state offsets, and conflict counts.
- "describe" prints a readable text report of conflicts, terminals,
  productions, and each state's kernel items (no packed table or offsets).`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return err
	}
	return nil
}
