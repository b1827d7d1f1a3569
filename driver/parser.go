// Package driver implements a minimal shift-reduce engine over a compiled
// parsing table, grounded on vartan's driver/parser.go stack loop but
// trimmed of its lexer and AST/CST semantic-action machinery: grammar-file
// lexing and code-template expansion are out of scope here, so a caller
// supplies an already-tokenized stream of terminal symbol numbers and gets
// back the sequence of rules a parse reduced by, or a syntax error.
package driver

import (
	"fmt"

	"github.com/relgen/lrtab/grammar"
	"github.com/relgen/lrtab/table"
)

// Grammar is the plain, exported-only view of a compiled table a Parser
// drives: the packed table plus the per-state and per-rule metadata
// table.Build produced, detached from grammar's unexported state/symbol
// numbering types so this package can do its own probe-contract lookups.
type Grammar struct {
	packed       table.PackedTable
	states       []*table.State
	rules        []*table.Rule
	ruleLHS      []int
	termCount    int
	nState       int
	nRule        int
	initialState int
}

// NewGrammar adapts a compiled grammar.ParsingTable into the form this
// package's shift-reduce loop runs against.
func NewGrammar(ptab *grammar.ParsingTable) *Grammar {
	snap := ptab.Snapshot()
	return &Grammar{
		packed:       snap.Packed,
		states:       snap.States,
		rules:        snap.Rules,
		ruleLHS:      snap.RuleLHS,
		termCount:    snap.TermCount,
		nState:       snap.NState,
		nRule:        snap.NRule,
		initialState: snap.InitialState,
	}
}

// action mirrors grammar.ParsingTable.Action: a tail state's default reduce
// applies before ever touching the packed table.
func (g *Grammar) action(state, term int) table.Decoded {
	s := g.states[state]
	if s.TokenOffset != table.NoOffset {
		idx := s.TokenOffset + term
		if idx >= 0 && idx < len(g.packed) && g.packed[idx].Lookahead == term {
			return table.DecodeAction(g.packed[idx].Action, g.nState, g.nRule)
		}
	}
	if s.DefaultReduceRule >= 0 {
		return table.Decoded{Kind: table.Reduce, Rule: s.DefaultReduceRule}
	}
	return table.Decoded{Kind: table.Error}
}

// goTo mirrors grammar.ParsingTable.Goto.
func (g *Grammar) goTo(state, nonterm int) (int, bool) {
	s := g.states[state]
	if s.GotoOffset == table.NoOffset {
		return 0, false
	}
	global := g.termCount + nonterm
	idx := s.GotoOffset + global
	if idx < 0 || idx >= len(g.packed) || g.packed[idx].Lookahead != global {
		return 0, false
	}
	d := table.DecodeAction(g.packed[idx].Action, g.nState, g.nRule)
	return d.State, true
}

// SyntaxError reports a parse failure: the offending token's position in
// the input stream and the terminal symbol numbers that would have been
// accepted instead.
type SyntaxError struct {
	Position int
	Symbol   int
	Expected []int
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("unexpected symbol at position %v: %v, expected one of %v", e.Position, e.Symbol, e.Expected)
}

// Reduction records one reduce action a parse performed, in the order it
// happened; a caller building a parse tree or running a semantic action
// walks this trace alongside the original token stream.
type Reduction struct {
	Rule int
	LHS  int
}

// Parser runs the shift-reduce loop of grammar.Compile's output over a
// pre-tokenized input. It has no lexer: tokens are terminal symbol numbers
// in the same numbering grammar.InputGrammar's terminal list produced,
// ending in the EOF terminal (symbol number 1, the same constant the
// grammar package reserves for it).
type Parser struct {
	gram *Grammar
}

// NewParser creates a Parser bound to a compiled grammar.
func NewParser(gram *Grammar) *Parser {
	return &Parser{gram: gram}
}

// Parse drives tokens through the compiled table, returning the reduction
// trace of a successful parse or a *SyntaxError.
func (p *Parser) Parse(tokens []int) ([]Reduction, error) {
	stack := []int{p.gram.initialState}
	var reductions []Reduction

	pos := 0
	for {
		if pos >= len(tokens) {
			return nil, fmt.Errorf("token stream ended without reaching an accept action")
		}
		term := tokens[pos]
		d := p.gram.action(stack[len(stack)-1], term)
		switch d.Kind {
		case table.Shift:
			stack = append(stack, d.State)
			pos++
		case table.Reduce:
			rule := p.gram.rules[d.Rule]
			lhs := p.gram.ruleLHS[d.Rule]
			stack = stack[:len(stack)-rule.RHSLen]
			next, ok := p.gram.goTo(stack[len(stack)-1], lhs)
			if !ok {
				return nil, fmt.Errorf("no goto entry for state %v on nonterminal %v", stack[len(stack)-1], lhs)
			}
			stack = append(stack, next)
			reductions = append(reductions, Reduction{Rule: d.Rule, LHS: lhs})
		case table.Accept:
			return reductions, nil
		default:
			return nil, &SyntaxError{Position: pos, Symbol: term, Expected: p.expected(stack[len(stack)-1])}
		}
	}
}

// expected lists the terminal symbol numbers a state's packed entries
// accept. A state with a default reduce accepts every terminal, so it
// gets an empty list.
func (p *Parser) expected(state int) []int {
	var syms []int
	s := p.gram.states[state]
	if s.DefaultReduceRule >= 0 {
		return syms
	}
	if s.TokenOffset == table.NoOffset {
		return syms
	}
	for term := 0; term < p.gram.termCount; term++ {
		idx := s.TokenOffset + term
		if idx >= 0 && idx < len(p.gram.packed) && p.gram.packed[idx].Lookahead == term {
			syms = append(syms, term)
		}
	}
	return syms
}
