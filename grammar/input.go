package grammar

import (
	"encoding/json"
	"fmt"
	"io"
)

// InputProduction is one production rule of an InputGrammar: LHS -> RHS...
// An empty RHS is a valid epsilon production.
type InputProduction struct {
	LHS string   `json:"lhs"`
	RHS []string `json:"rhs"`

	// Prec names the terminal whose precedence and associativity this
	// production inherits, overriding the default of the rightmost
	// terminal in RHS. Empty means use the default.
	Prec string `json:"prec,omitempty"`
}

// InputPrecedence assigns a precedence level and associativity to a
// terminal symbol, used to resolve shift/reduce conflicts the way yacc and
// lemon do: a production inherits its precedence from the rightmost
// terminal in its RHS unless InputProduction.Prec overrides it.
type InputPrecedence struct {
	Symbol string `json:"symbol"`
	Level  int    `json:"level"`
	Assoc  string `json:"assoc"` // "left", "right", or "none"
}

// InputGrammar is the small, JSON-serializable grammar definition this
// package compiles, replacing the original textual DSL: an explicit
// terminal vocabulary plus a production list, instead of a parsed grammar
// source file. Lexing is out of scope here; InputGrammar assumes its
// caller already has a token stream labeled with these terminal names.
type InputGrammar struct {
	Name        string            `json:"name"`
	Start       string            `json:"start"`
	Terminals   []string          `json:"terminals"`
	Productions []InputProduction `json:"productions"`
	Precedence  []InputPrecedence `json:"precedence"`
}

// EOFTerminal is the terminal symbol number a token stream uses for
// end-of-input: every compiled grammar reserves this number for it
// regardless of how many terminals it declares.
const EOFTerminal = int(symbolNumEOF)

// TerminalNumbers maps each declared terminal name to the symbol number a
// token stream must use for it when driving the table Compile returns:
// declaration order is numbering order, starting two past EOFTerminal
// (the number right after EOFTerminal belongs to the reserved "error"
// terminal, which GrammarBuilder registers first).
func (g *InputGrammar) TerminalNumbers() map[string]int {
	nums := make(map[string]int, len(g.Terminals))
	for i, name := range g.Terminals {
		nums[name] = int(terminalNumMin) + 1 + i
	}
	return nums
}

// ParseInputGrammar decodes an InputGrammar from JSON.
func ParseInputGrammar(r io.Reader) (*InputGrammar, error) {
	var g InputGrammar
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&g); err != nil {
		return nil, fmt.Errorf("grammar: invalid input: %w", err)
	}
	if g.Start == "" {
		return nil, fmt.Errorf("grammar: missing start symbol")
	}
	if len(g.Productions) == 0 {
		return nil, fmt.Errorf("grammar: no productions")
	}
	return &g, nil
}
