package main

import (
	"os"

	"github.com/relgen/lrtab/grammar"
	"github.com/spf13/cobra"
)

var describeFlags = struct {
	output *string
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "describe <grammar.json>",
		Short:   "Print a readable report of a grammar's compiled automaton",
		Example: `  lrtab describe grammar.json`,
		Args:    cobra.MaximumNArgs(1),
		RunE:    runDescribe,
	}
	describeFlags.output = cmd.Flags().StringP("output", "o", "", "output file path (default stdout)")
	rootCmd.AddCommand(cmd)
}

func runDescribe(cmd *cobra.Command, args []string) error {
	in, err := readInputGrammar(args)
	if err != nil {
		return err
	}

	w := os.Stdout
	if *describeFlags.output != "" {
		f, err := os.OpenFile(*describeFlags.output, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	b := grammar.GrammarBuilder{Input: in}
	gram, err := b.Build()
	if err != nil {
		return err
	}

	_, err = grammar.Compile(gram, grammar.EnableDescription(w))
	if err != nil {
		return err
	}

	return nil
}
