package driver

import (
	"testing"

	"github.com/relgen/lrtab/grammar"
)

func genTestParser(t *testing.T) (*Parser, map[string]int) {
	t.Helper()

	in := &grammar.InputGrammar{
		Name:      "expr",
		Start:     "expr",
		Terminals: []string{"add", "mul", "l_paren", "r_paren", "id"},
		Productions: []grammar.InputProduction{
			{LHS: "expr", RHS: []string{"expr", "add", "term"}},
			{LHS: "expr", RHS: []string{"term"}},
			{LHS: "term", RHS: []string{"term", "mul", "factor"}},
			{LHS: "term", RHS: []string{"factor"}},
			{LHS: "factor", RHS: []string{"l_paren", "expr", "r_paren"}},
			{LHS: "factor", RHS: []string{"id"}},
		},
	}

	b := grammar.GrammarBuilder{Input: in}
	gram, err := b.Build()
	if err != nil {
		t.Fatalf("failed to build a grammar: %v", err)
	}

	ptab, err := grammar.Compile(gram)
	if err != nil {
		t.Fatalf("failed to compile a grammar: %v", err)
	}

	return NewParser(NewGrammar(ptab)), in.TerminalNumbers()
}

func TestParser_Parse(t *testing.T) {
	p, nums := genTestParser(t)

	tok := func(names ...string) []int {
		toks := make([]int, len(names))
		for i, n := range names {
			if n == "$" {
				toks[i] = grammar.EOFTerminal
				continue
			}
			toks[i] = nums[n]
		}
		return toks
	}

	tests := []struct {
		caption   string
		tokens    []int
		wantRules int
	}{
		{
			caption:   "a single identifier reduces through factor, term, and expr",
			tokens:    tok("id", "$"),
			wantRules: 3,
		},
		{
			caption: "addition and multiplication both parse, multiplication binding tighter",
			tokens:  tok("id", "add", "id", "mul", "id", "$"),
		},
		{
			caption: "a parenthesized expression parses",
			tokens:  tok("l_paren", "id", "add", "id", "r_paren", "$"),
		},
		{
			caption: "a deeply left-recursive sum parses",
			tokens:  tok("id", "add", "id", "add", "id", "add", "id", "$"),
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			reductions, err := p.Parse(tt.tokens)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(reductions) == 0 {
				t.Fatalf("expected at least one reduction")
			}
			if tt.wantRules != 0 && len(reductions) != tt.wantRules {
				t.Fatalf("reduction count is mismatched; want: %v, got: %v", tt.wantRules, len(reductions))
			}
		})
	}
}

func TestParser_Parse_SyntaxError(t *testing.T) {
	p, nums := genTestParser(t)

	tok := func(names ...string) []int {
		toks := make([]int, len(names))
		for i, n := range names {
			if n == "$" {
				toks[i] = grammar.EOFTerminal
				continue
			}
			toks[i] = nums[n]
		}
		return toks
	}

	_, err := p.Parse(tok("id", "add", "$"))
	if err == nil {
		t.Fatal("expected a syntax error")
	}
	synErr, ok := err.(*SyntaxError)
	if !ok {
		t.Fatalf("expected a *SyntaxError, got: %T: %v", err, err)
	}
	if synErr.Symbol != grammar.EOFTerminal {
		t.Errorf("unexpected symbol; want: %v, got: %v", grammar.EOFTerminal, synErr.Symbol)
	}
}
