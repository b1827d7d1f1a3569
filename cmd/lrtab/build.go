package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/relgen/lrtab/grammar"
	"github.com/relgen/lrtab/table"
	"github.com/spf13/cobra"
)

var buildFlags = struct {
	output     *string
	noCompress *bool
	noResort   *bool
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "build <grammar.json>",
		Short:   "Compile a grammar into a packed action table",
		Example: `  lrtab build grammar.json -o table.json`,
		Args:    cobra.MaximumNArgs(1),
		RunE:    runBuild,
	}
	buildFlags.output = cmd.Flags().StringP("output", "o", "", "output file path (default stdout)")
	buildFlags.noCompress = cmd.Flags().Bool("no-compress", false, "disable default-reduce compression")
	buildFlags.noResort = cmd.Flags().Bool("no-resort", false, "disable state renumbering")
	rootCmd.AddCommand(cmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	in, err := readInputGrammar(args)
	if err != nil {
		return err
	}

	_, ptab, err := compileInputGrammar(in)
	if err != nil {
		return err
	}

	out := newTableOutput(in.Name, ptab)

	b, err := json.Marshal(out)
	if err != nil {
		return err
	}

	w := os.Stdout
	if *buildFlags.output != "" {
		f, err := os.OpenFile(*buildFlags.output, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	fmt.Fprintf(w, "%v\n", string(b))

	if n := ptab.ConflictCount(); n > 0 {
		fmt.Fprintf(os.Stderr, "%v conflicts\n", n)
	}

	return nil
}

func readInputGrammar(args []string) (*grammar.InputGrammar, error) {
	var r io.Reader = os.Stdin
	if len(args) > 0 {
		f, err := os.Open(args[0])
		if err != nil {
			return nil, fmt.Errorf("cannot open the grammar file %s: %w", args[0], err)
		}
		defer f.Close()
		r = f
	}
	return grammar.ParseInputGrammar(r)
}

func compileInputGrammar(in *grammar.InputGrammar, opts ...grammar.CompileOption) (*grammar.Grammar, *grammar.ParsingTable, error) {
	b := grammar.GrammarBuilder{Input: in}
	gram, err := b.Build()
	if err != nil {
		return nil, nil, fmt.Errorf("cannot build grammar: %w", err)
	}

	tableOpts := table.DefaultOptions()
	tableOpts.Compress = !*buildFlags.noCompress
	tableOpts.Resort = !*buildFlags.noResort
	opts = append(opts, grammar.WithTableOptions(tableOpts))

	ptab, err := grammar.Compile(gram, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot compile grammar: %w", err)
	}
	return gram, ptab, nil
}

type tableOutput struct {
	Name         string            `json:"name"`
	InitialState int               `json:"initial_state"`
	NState       int               `json:"n_state"`
	NRule        int               `json:"n_rule"`
	NxState      int               `json:"nx_state"`
	TermCount    int               `json:"term_count"`
	Conflicts    int               `json:"conflicts"`
	Packed       table.PackedTable `json:"packed"`
	States       []stateOutput     `json:"states"`
}

type stateOutput struct {
	FinalIndex        int  `json:"final_index"`
	TokenOffset       int  `json:"token_offset"`
	GotoOffset        int  `json:"goto_offset"`
	DefaultReduceRule int  `json:"default_reduce_rule"`
	IsErrorTrap       bool `json:"is_error_trap"`
}

func newTableOutput(name string, ptab *grammar.ParsingTable) *tableOutput {
	snap := ptab.Snapshot()

	states := make([]stateOutput, len(snap.States))
	for i, s := range snap.States {
		states[i] = stateOutput{
			FinalIndex:        s.FinalIndex,
			TokenOffset:       s.TokenOffset,
			GotoOffset:        s.GotoOffset,
			DefaultReduceRule: s.DefaultReduceRule,
			IsErrorTrap:       s.IsErrorTrap,
		}
	}

	return &tableOutput{
		Name:         name,
		InitialState: snap.InitialState,
		NState:       snap.NState,
		NRule:        snap.NRule,
		NxState:      ptab.NxState(),
		TermCount:    snap.TermCount,
		Conflicts:    ptab.ConflictCount(),
		Packed:       snap.Packed,
		States:       states,
	}
}
