package grammar

import (
	"fmt"
	"io"
	"strings"

	"github.com/relgen/lrtab/table"
)

// conflict records a shift/reduce or reduce/reduce conflict the precedence
// rules in precAndAssoc couldn't settle, surfaced so a caller can report it
// rather than silently picking a winner.
type conflict interface {
	conflict()
}

type shiftReduceConflict struct {
	state     stateNum
	sym       symbol
	nextState stateNum
	prodNum   productionNum
}

func (c *shiftReduceConflict) conflict() {}

type reduceReduceConflict struct {
	state    stateNum
	sym      symbol
	prodNum1 productionNum
	prodNum2 productionNum
}

func (c *reduceReduceConflict) conflict() {}

// ParsingTable is the compiled probe contract: Action and
// Goto answer what a driver does for a given state and symbol, backed by
// the packed table table.Build produced. State and rule numbers here are
// final indices (post StateResorter), matching what EncodeAction/
// DecodeAction use internally.
type ParsingTable struct {
	packed  table.PackedTable
	nxState int
	nState  int
	nRule   int

	initialState  stateNum
	states        []*table.State // indexed by FinalIndex
	rules         []*table.Rule  // indexed by rule ID
	ruleLHS       []int          // indexed by rule ID, raw (non-global) nonterminal symbol number
	termCount     int
	nonTermCount  int
	conflicts     []conflict
}

// Snapshot is the plain, exported-only view of a compiled table a driver
// needs to run its own shift-reduce loop directly against table.PackedTable
// (the §6 probe contract), without depending on grammar's unexported
// state/symbol numbering types. RuleLHS[id] is the nonterminal a reduce by
// that rule goes to, as a raw (non-global) symbol number: a caller doing
// its own packed-table lookup must add TermCount to it first, exactly as
// Goto does internally.
type Snapshot struct {
	Packed       table.PackedTable
	States       []*table.State
	Rules        []*table.Rule
	RuleLHS      []int
	TermCount    int
	NState       int
	NRule        int
	InitialState int
}

// Snapshot exports t in plain form.
func (t *ParsingTable) Snapshot() Snapshot {
	return Snapshot{
		Packed:       t.packed,
		States:       t.states,
		Rules:        t.rules,
		RuleLHS:      t.ruleLHS,
		TermCount:    t.termCount,
		NState:       t.nState,
		NRule:        t.nRule,
		InitialState: t.initialState.Int(),
	}
}

// errProbe is what Action/Goto return for a symbol with no explicit entry
// and no default reduce: the generated parser's syntax-error path.
var errProbe = table.Decoded{Kind: table.Error}

// Action returns the compiled action for (state, terminal), both given as
// final indices. It applies a tail (auto-reduce) state's default before
// ever touching the packed table, matching the probe contract's "no
// explicit entry -> default reduce, else error" rule.
func (t *ParsingTable) Action(state stateNum, term symbolNum) table.Decoded {
	s := t.states[state.Int()]
	if s.TokenOffset != table.NoOffset {
		idx := s.TokenOffset + term.Int()
		if idx >= 0 && idx < len(t.packed) && t.packed[idx].Lookahead == term.Int() {
			return table.DecodeAction(t.packed[idx].Action, t.nState, t.nRule)
		}
	}
	if s.DefaultReduceRule >= 0 {
		return table.Decoded{Kind: table.Reduce, Rule: s.DefaultReduceRule}
	}
	return errProbe
}

// Goto returns the compiled target state for (state, nonterminal), or
// (0, false) if the grammar has no such transition (an InvariantViolation
// in a correctly built table, since every nonterminal reaching a state
// must have a goto entry there).
func (t *ParsingTable) Goto(state stateNum, nonterm symbolNum) (stateNum, bool) {
	s := t.states[state.Int()]
	if s.GotoOffset == table.NoOffset {
		return 0, false
	}
	global := t.termCount + nonterm.Int()
	idx := s.GotoOffset + global
	if idx < 0 || idx >= len(t.packed) || t.packed[idx].Lookahead != global {
		return 0, false
	}
	d := table.DecodeAction(t.packed[idx].Action, t.nState, t.nRule)
	return stateNum(d.State), true
}

// Rule returns a compiled rule by ID; its RHSLen is the only extra fact a
// driver needs to pop a reduce's symbols off its stack.
func (t *ParsingTable) Rule(id int) *table.Rule { return t.rules[id] }

// InitialState is the compiled start state's final index.
func (t *ParsingTable) InitialState() stateNum { return t.initialState }

// NxState is the index at which tail (auto-reduce) states begin; states at
// or past it never need a packed-table probe for their terminal half.
func (t *ParsingTable) NxState() int { return t.nxState }

// ConflictCount reports how many shift/reduce and reduce/reduce conflicts
// precedence resolution couldn't settle, for a caller that just wants a
// pass/fail number rather than the full description report.
func (t *ParsingTable) ConflictCount() int { return len(t.conflicts) }

type lalrTableBuilder struct {
	automaton    *lalr1Automaton
	prods        *productionSet
	termCount    int
	nonTermCount int
	symTab       *symbolTable
	pa           *precAndAssoc
	opts         table.Options
}

// globalSymbol maps a grammar symbol onto the single flat index space
// table.Symbol.IsTerminal expects. Terminal and non-terminal symbols each
// have their own independently-numbered range starting at 2 (symbol.go),
// so a non-terminal's raw number collides with a terminal's; shifting
// non-terminals past termCount gives every symbol a unique global index
// and keeps IsTerminal's "< terminalCount" test correct.
func (b *lalrTableBuilder) globalSymbol(sym symbol) table.Symbol {
	if sym.isTerminal() {
		return table.Symbol(sym.num().Int())
	}
	return table.Symbol(b.termCount + sym.num().Int())
}

// build walks the LALR(1) automaton, turns every state's raw shift/goto/
// reduce set into table.Action entries (resolving shift/reduce conflicts
// by precedence and associativity the way yacc and lemon do, and flagging
// anything left over as a conflict instead of guessing), then hands the
// whole state set to table.Build for compression, resorting, and packing.
func (b *lalrTableBuilder) build() (*ParsingTable, error) {
	byInitial := map[stateNum]*table.State{}
	// table.Rule.ID must be a contiguous 0-based index, but productionNum
	// reserves 0 for "nil" and starts real productions at 1, so IDs here
	// are productionNum-1.
	ruleByNum := map[productionNum]*table.Rule{}
	ruleLHSByNum := map[productionNum]int{}
	for _, prod := range b.prods.getAllProductions() {
		ruleByNum[prod.num] = &table.Rule{ID: prod.num.Int() - 1, RHSLen: prod.rhsLen}
		ruleLHSByNum[prod.num] = prod.lhs.num().Int()
	}

	for _, st := range b.automaton.states {
		byInitial[st.num] = &table.State{InitialIndex: st.num.Int(), IsErrorTrap: st.isErrorTrapper}
	}

	var conflicts []conflict
	var states []*table.State
	for _, st := range b.automaton.states {
		ts := byInitial[st.num]
		states = append(states, ts)

		shifts := map[symbol]stateNum{}
		for sym, kID := range st.next {
			shifts[sym] = b.automaton.states[kID].num
		}

		reduces := map[symbol]productionNum{} // winning reduce per lookahead, after resolution
		for prodID := range st.reducible {
			prod, ok := b.prods.findByID(prodID)
			if !ok {
				return nil, fmt.Errorf("reducible production not found: %v", prodID)
			}
			item := findReducibleItem(st, prodID)
			if item == nil {
				return nil, fmt.Errorf("reducible item not found; state: %v, production: %v", st.num, prod.num)
			}
			for a := range item.lookAhead.symbols {
				if existing, ok := reduces[a]; ok {
					winner, rrc := b.resolveReduceReduce(st.num, a, existing, prod.num)
					reduces[a] = winner
					if rrc != nil {
						conflicts = append(conflicts, rrc)
					}
					continue
				}
				reduces[a] = prod.num
			}
		}

		var actions []table.Action
		for sym, target := range shifts {
			if !sym.isTerminal() {
				actions = append(actions, table.Action{
					Lookahead:   b.globalSymbol(sym),
					Kind:        table.Shift,
					TargetState: byInitial[target],
				})
				continue
			}
			if prodNum, isReduce := reduces[sym]; isReduce {
				winner, src := b.resolveShiftReduce(st.num, sym, target, prodNum)
				if src != nil {
					conflicts = append(conflicts, src)
				}
				if winner == shiftWins {
					actions = append(actions, table.Action{
						Lookahead:   b.globalSymbol(sym),
						Kind:        table.Shift,
						TargetState: byInitial[target],
					})
				} else {
					actions = append(actions, table.Action{
						Lookahead:  b.globalSymbol(sym),
						Kind:       table.Reduce,
						TargetRule: ruleByNum[prodNum],
					})
				}
				delete(reduces, sym)
				continue
			}
			actions = append(actions, table.Action{
				Lookahead:   b.globalSymbol(sym),
				Kind:        table.Shift,
				TargetState: byInitial[target],
			})
		}
		for sym, prodNum := range reduces {
			if prodNum == productionNumStart {
				actions = append(actions, table.Action{Lookahead: b.globalSymbol(sym), Kind: table.Accept})
				continue
			}
			actions = append(actions, table.Action{
				Lookahead:  b.globalSymbol(sym),
				Kind:       table.Reduce,
				TargetRule: ruleByNum[prodNum],
			})
		}

		ts.Actions = actions
	}

	initialStateNum := b.automaton.states[b.automaton.initialState].num.Int()
	result, err := table.Build(states, initialStateNum, b.termCount, len(ruleByNum), b.opts)
	if err != nil {
		return nil, err
	}

	rules := make([]*table.Rule, len(ruleByNum))
	ruleLHS := make([]int, len(ruleByNum))
	for prodNum, r := range ruleByNum {
		rules[r.ID] = r
		ruleLHS[r.ID] = ruleLHSByNum[prodNum]
	}

	return &ParsingTable{
		packed:       result.Packed,
		nxState:      result.NxState,
		nState:       len(states),
		nRule:        len(ruleByNum),
		initialState: stateNum(byInitial[b.automaton.states[b.automaton.initialState].num].FinalIndex),
		states:       sortByFinalIndex(states),
		rules:        rules,
		ruleLHS:      ruleLHS,
		termCount:    b.termCount,
		nonTermCount: b.nonTermCount,
		conflicts:    conflicts,
	}, nil
}

func sortByFinalIndex(states []*table.State) []*table.State {
	out := make([]*table.State, len(states))
	for _, s := range states {
		out[s.FinalIndex] = s
	}
	return out
}

func findReducibleItem(st *lrState, prodID productionID) *lrItem {
	for _, item := range st.items {
		if item.prod == prodID {
			return item
		}
	}
	for _, item := range st.emptyProdItems {
		if item.prod == prodID {
			return item
		}
	}
	return nil
}

type resolution int

const (
	shiftWins resolution = iota
	reduceWins
)

// resolveShiftReduce applies the classic yacc/lemon rule: compare the
// shifted terminal's precedence against the reducible production's
// precedence (inherited from its rightmost terminal); higher precedence
// wins, equal precedence defers to the terminal's associativity (left
// reduces, right shifts, none is an unresolved conflict), and if either
// side has no declared precedence the conflict is unresolved and defaults
// to shift, matching lemon's default.
func (b *lalrTableBuilder) resolveShiftReduce(state stateNum, sym symbol, next stateNum, prod productionNum) (resolution, conflict) {
	if b.pa == nil {
		return shiftWins, &shiftReduceConflict{state: state, sym: sym, nextState: next, prodNum: prod}
	}
	tp := b.pa.terminalPrecedence(sym.num())
	pp := b.pa.productionPredence(prod)
	if tp == precNil || pp == precNil {
		return shiftWins, &shiftReduceConflict{state: state, sym: sym, nextState: next, prodNum: prod}
	}
	switch {
	case tp > pp:
		return shiftWins, nil
	case pp > tp:
		return reduceWins, nil
	}
	switch b.pa.terminalAssociativity(sym.num()) {
	case assocTypeLeft:
		return reduceWins, nil
	case assocTypeRight:
		return shiftWins, nil
	default:
		return shiftWins, &shiftReduceConflict{state: state, sym: sym, nextState: next, prodNum: prod}
	}
}

// resolveReduceReduce keeps the lower-numbered (earlier-declared)
// production, the conventional yacc/lemon tiebreak, and always reports
// the conflict since there is no principled precedence rule for it.
func (b *lalrTableBuilder) resolveReduceReduce(state stateNum, sym symbol, a, c productionNum) (productionNum, conflict) {
	rrc := &reduceReduceConflict{state: state, sym: sym, prodNum1: a, prodNum2: c}
	if a <= c {
		return a, rrc
	}
	return c, rrc
}

// descriptionWriter renders a human-readable report: conflicts, terminals,
// productions, and for every state its kernel items and any conflicts in
// it. Action/goto records and packed-table offsets are not printed.
type descriptionWriter struct {
	automaton *lalr1Automaton
	prods     *productionSet
	symTab    *symbolTable
	ptab      *ParsingTable
	conflicts []conflict
}

func (dw *descriptionWriter) write(w io.Writer) {
	byState := map[stateNum][]conflict{}
	for _, con := range dw.conflicts {
		switch c := con.(type) {
		case *shiftReduceConflict:
			byState[c.state] = append(byState[c.state], c)
		case *reduceReduceConflict:
			byState[c.state] = append(byState[c.state], c)
		}
	}

	fmt.Fprintf(w, "# Conflicts\n\n")
	if len(dw.conflicts) > 0 {
		fmt.Fprintf(w, "%v conflicts:\n\n", len(dw.conflicts))
		for _, con := range dw.conflicts {
			switch c := con.(type) {
			case *shiftReduceConflict:
				fmt.Fprintf(w, "%v: shift/reduce conflict (shift %v, reduce %v) on %v\n", c.state, c.nextState, c.prodNum, dw.symbolToText(c.sym))
			case *reduceReduceConflict:
				fmt.Fprintf(w, "%v: reduce/reduce conflict (reduce %v and %v) on %v\n", c.state, c.prodNum1, c.prodNum2, dw.symbolToText(c.sym))
			}
		}
		fmt.Fprintf(w, "\n")
	} else {
		fmt.Fprintf(w, "no conflicts\n\n")
	}

	fmt.Fprintf(w, "# Terminals\n\n")
	termSyms := dw.symTab.reader().terminalSymbols()
	fmt.Fprintf(w, "%v symbols:\n\n", len(termSyms))
	for _, sym := range termSyms {
		text, _ := dw.symTab.reader().toText(sym)
		fmt.Fprintf(w, "%4v %v\n", sym.num(), text)
	}

	fmt.Fprintf(w, "\n# Productions\n\n")
	fmt.Fprintf(w, "%v productions:\n\n", len(dw.prods.getAllProductions()))
	for _, prod := range dw.prods.getAllProductions() {
		fmt.Fprintf(w, "%4v %v\n", prod.num, dw.productionToString(prod, -1))
	}

	fmt.Fprintf(w, "\n# States\n\n")
	fmt.Fprintf(w, "%v states (%v packed, %v tail):\n\n", len(dw.automaton.states), dw.ptab.nxState, len(dw.automaton.states)-dw.ptab.nxState)
	for _, st := range dw.automaton.states {
		fmt.Fprintf(w, "state %v\n", st.num)
		for _, item := range st.items {
			prod, ok := dw.prods.findByID(item.prod)
			if !ok {
				continue
			}
			fmt.Fprintf(w, "    %v\n", dw.productionToString(prod, item.dot))
		}
		fmt.Fprintf(w, "\n")

		cons := byState[st.num]
		for _, con := range cons {
			switch c := con.(type) {
			case *shiftReduceConflict:
				fmt.Fprintf(w, "    shift/reduce conflict (shift %v, reduce %v) on %v\n", c.nextState, c.prodNum, dw.symbolToText(c.sym))
			case *reduceReduceConflict:
				fmt.Fprintf(w, "    reduce/reduce conflict (reduce %v and %v) on %v\n", c.prodNum1, c.prodNum2, dw.symbolToText(c.sym))
			}
		}
		fmt.Fprintf(w, "\n")
	}
}

func (dw *descriptionWriter) productionToString(prod *production, dot int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%v →", dw.symbolToText(prod.lhs))
	for n, rhs := range prod.rhs {
		if n == dot {
			fmt.Fprintf(&b, " ・")
		}
		fmt.Fprintf(&b, " %v", dw.symbolToText(rhs))
	}
	if dot == len(prod.rhs) {
		fmt.Fprintf(&b, " ・")
	}
	return b.String()
}

func (dw *descriptionWriter) symbolToText(sym symbol) string {
	if sym.isNil() {
		return "<NULL>"
	}
	if sym.isEOF() {
		return "<EOF>"
	}
	text, ok := dw.symTab.reader().toText(sym)
	if !ok {
		return fmt.Sprintf("<symbol not found: %v>", sym)
	}
	return text
}
