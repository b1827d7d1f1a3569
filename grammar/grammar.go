package grammar

import (
	"fmt"
	"io"

	"github.com/relgen/lrtab/internal/lrerr"
	"github.com/relgen/lrtab/table"
)

type assocType string

const (
	assocTypeNil   = assocType("")
	assocTypeLeft  = assocType("left")
	assocTypeRight = assocType("right")
)

const (
	precNil = 0
	precMin = 1
)

// precAndAssoc holds the precedence and associativity of terminal symbols
// and the productions that inherit from them, used to resolve
// shift/reduce conflicts the way yacc and lemon do.
type precAndAssoc struct {
	termPrec  map[symbolNum]int
	termAssoc map[symbolNum]assocType

	// prodPrec and prodAssoc are inherited from the rightmost terminal in
	// a production's RHS, or from an explicit override.
	prodPrec  map[productionNum]int
	prodAssoc map[productionNum]assocType
}

func (pa *precAndAssoc) terminalPrecedence(sym symbolNum) int {
	prec, ok := pa.termPrec[sym]
	if !ok {
		return precNil
	}
	return prec
}

func (pa *precAndAssoc) terminalAssociativity(sym symbolNum) assocType {
	assoc, ok := pa.termAssoc[sym]
	if !ok {
		return assocTypeNil
	}
	return assoc
}

func (pa *precAndAssoc) productionPredence(prod productionNum) int {
	prec, ok := pa.prodPrec[prod]
	if !ok {
		return precNil
	}
	return prec
}

func (pa *precAndAssoc) productionAssociativity(prod productionNum) assocType {
	assoc, ok := pa.prodAssoc[prod]
	if !ok {
		return assocTypeNil
	}
	return assoc
}

// reservedSymbolNameError is always registered as a terminal so states can
// be tested for an "error" shift (table.State.IsErrorTrap) whether or not
// a grammar actually uses error recovery.
const reservedSymbolNameError = "error"

// Grammar is a fully resolved, validated grammar ready for LALR(1) table
// construction: a symbol table, an augmented production set, and the
// precedence/associativity data needed to settle conflicts.
type Grammar struct {
	name                 string
	productionSet        *productionSet
	augmentedStartSymbol symbol
	startSymbol          symbol
	errorSymbol          symbol
	symbolTable          *symbolTable
	precAndAssoc         *precAndAssoc
}

// GrammarBuilder turns an InputGrammar into a Grammar: it interns every
// terminal and non-terminal name into the symbol table, builds the
// augmented start production, validates every RHS reference, and resolves
// precedence declarations into per-production values.
type GrammarBuilder struct {
	Input *InputGrammar

	errs lrerr.BuildErrors
}

func (b *GrammarBuilder) fail(sym string, cause error) {
	b.errs = append(b.errs, &lrerr.BuildError{Symbol: sym, Cause: cause})
}

// Build validates and compiles the input into a Grammar. On failure it
// returns a lrerr.BuildErrors listing every problem found, not just the
// first.
func (b *GrammarBuilder) Build() (*Grammar, error) {
	in := b.Input

	for _, name := range in.Terminals {
		if name == reservedSymbolNameError {
			b.fail(name, fmt.Errorf("'%v' is reserved as a terminal symbol", reservedSymbolNameError))
		}
	}

	symTab := newSymbolTable()
	w := symTab.writer()

	errSym, err := w.registerTerminalSymbol(reservedSymbolNameError)
	if err != nil {
		return nil, err
	}

	termSet := map[string]struct{}{}
	for _, name := range in.Terminals {
		if _, dup := termSet[name]; dup {
			b.fail(name, fmt.Errorf("duplicate terminal"))
			continue
		}
		termSet[name] = struct{}{}
		if _, err := w.registerTerminalSymbol(name); err != nil {
			return nil, err
		}
	}

	lhsSet := map[string]struct{}{}
	for _, p := range in.Productions {
		if p.LHS == "" {
			b.fail("", fmt.Errorf("a production needs a non-empty LHS"))
			continue
		}
		if _, isTerm := termSet[p.LHS]; isTerm {
			b.fail(p.LHS, fmt.Errorf("duplicate names are not allowed between terminals and non-terminals"))
			continue
		}
		lhsSet[p.LHS] = struct{}{}
		if _, err := w.registerNonTerminalSymbol(p.LHS); err != nil {
			return nil, err
		}
	}

	if _, ok := lhsSet[in.Start]; !ok {
		b.fail(in.Start, fmt.Errorf("undefined start symbol"))
	}

	if len(b.errs) > 0 {
		return nil, b.errs
	}

	augStartText := fmt.Sprintf("%s'", in.Start)
	augStartSym, err := w.registerStartSymbol(augStartText)
	if err != nil {
		return nil, err
	}
	startSym, _ := symTab.toSymbol(in.Start)

	prods := newProductionSet()
	augProd, err := newProduction(augStartSym, []symbol{startSym})
	if err != nil {
		return nil, err
	}
	prods.append(augProd)

	type precOverride struct {
		prodID productionID
		term   string
	}
	var overrides []precOverride
	seenProd := map[productionID]struct{}{}
	for _, p := range in.Productions {
		lhsSym, _ := symTab.toSymbol(p.LHS)

		rhsSyms := make([]symbol, 0, len(p.RHS))
		for _, name := range p.RHS {
			sym, ok := symTab.toSymbol(name)
			if !ok {
				b.fail(name, fmt.Errorf("undefined symbol"))
				continue
			}
			rhsSyms = append(rhsSyms, sym)
		}
		if len(rhsSyms) != len(p.RHS) {
			continue
		}

		prod, err := newProduction(lhsSym, rhsSyms)
		if err != nil {
			return nil, err
		}
		if _, dup := seenProd[prod.id]; dup {
			b.fail(p.LHS, fmt.Errorf("duplicate production"))
			continue
		}
		seenProd[prod.id] = struct{}{}
		prods.append(prod)

		if p.Prec != "" {
			overrides = append(overrides, precOverride{prodID: prod.id, term: p.Prec})
		}
	}

	if len(b.errs) > 0 {
		return nil, b.errs
	}

	prodPrecSyms := map[productionID]symbol{}
	for _, ov := range overrides {
		sym, ok := symTab.toSymbol(ov.term)
		if !ok || !sym.isTerminal() {
			b.fail(ov.term, fmt.Errorf("precedence override must name a terminal symbol"))
			continue
		}
		prodPrecSyms[ov.prodID] = sym
	}

	pa, err := b.genPrecAndAssoc(symTab, prods, prodPrecSyms)
	if err != nil {
		return nil, err
	}

	if len(b.errs) > 0 {
		return nil, b.errs
	}

	return &Grammar{
		name:                 in.Name,
		productionSet:        prods,
		augmentedStartSymbol: augStartSym,
		startSymbol:          startSym,
		errorSymbol:          errSym,
		symbolTable:          symTab,
		precAndAssoc:         pa,
	}, nil
}

func (b *GrammarBuilder) genPrecAndAssoc(symTab *symbolTable, prods *productionSet, prodPrecSyms map[productionID]symbol) (*precAndAssoc, error) {
	termPrec := map[symbolNum]int{}
	termAssoc := map[symbolNum]assocType{}

	precN := precMin
	for _, p := range b.Input.Precedence {
		sym, ok := symTab.toSymbol(p.Symbol)
		if !ok {
			b.fail(p.Symbol, fmt.Errorf("undefined symbol in precedence declaration"))
			continue
		}
		if !sym.isTerminal() {
			b.fail(p.Symbol, fmt.Errorf("precedence can only be declared for a terminal symbol"))
			continue
		}
		if _, dup := termPrec[sym.num()]; dup {
			b.fail(p.Symbol, fmt.Errorf("precedence declared more than once for the same symbol"))
			continue
		}

		var assoc assocType
		switch p.Assoc {
		case "left":
			assoc = assocTypeLeft
		case "right":
			assoc = assocTypeRight
		case "none", "":
			assoc = assocTypeNil
		default:
			b.fail(p.Symbol, fmt.Errorf("associativity must be 'left', 'right', or 'none'"))
			continue
		}

		level := p.Level
		if level == 0 {
			level = precN
		}
		termPrec[sym.num()] = level
		termAssoc[sym.num()] = assoc
		precN = level + 1
	}

	prodPrec := map[productionNum]int{}
	prodAssoc := map[productionNum]assocType{}
	for _, prod := range prods.getAllProductions() {
		term, ok := prodPrecSyms[prod.id]
		if !ok {
			mostRightTerm := symbolNil
			for _, sym := range prod.rhs {
				if !sym.isTerminal() {
					continue
				}
				mostRightTerm = sym
			}
			term = mostRightTerm
		}
		if term.isNil() {
			continue
		}

		prec, ok := termPrec[term.num()]
		if !ok {
			continue
		}
		assoc := termAssoc[term.num()]

		prodPrec[prod.num] = prec
		prodAssoc[prod.num] = assoc
	}

	return &precAndAssoc{
		termPrec:  termPrec,
		termAssoc: termAssoc,
		prodPrec:  prodPrec,
		prodAssoc: prodAssoc,
	}, nil
}

type compileConfig struct {
	description  io.Writer
	tableOptions table.Options
}

// CompileOption configures an optional pass of Compile.
type CompileOption func(config *compileConfig)

// EnableDescription makes Compile also render a human-readable report of
// the compiled automaton (states, conflicts, terminals, productions) to w.
func EnableDescription(w io.Writer) CompileOption {
	return func(c *compileConfig) {
		c.description = w
	}
}

// WithTableOptions overrides the table.Options the packed table is built
// with, letting a caller turn off compression or resorting to inspect an
// uncompressed or unrenumbered table while debugging a grammar.
func WithTableOptions(opts table.Options) CompileOption {
	return func(c *compileConfig) {
		c.tableOptions = opts
	}
}

// Compile runs the full pipeline an external grammar builder hands off to
// the table-construction core: LR(0) item sets, first sets, LALR(1)
// lookahead propagation, conflict resolution, and finally the packed
// action table itself.
func Compile(gram *Grammar, opts ...CompileOption) (*ParsingTable, error) {
	config := &compileConfig{tableOptions: table.DefaultOptions()}
	for _, opt := range opts {
		opt(config)
	}

	lr0, err := genLR0Automaton(gram.productionSet, gram.augmentedStartSymbol, gram.errorSymbol)
	if err != nil {
		return nil, fmt.Errorf("failed to generate a LR0 automaton: %w", err)
	}

	first, err := genFirstSet(gram.productionSet)
	if err != nil {
		return nil, fmt.Errorf("failed to generate a first set: %w", err)
	}

	lalr1, err := genLALR1Automaton(lr0, gram.productionSet, first)
	if err != nil {
		return nil, fmt.Errorf("failed to generate a LALR1 automaton: %w", err)
	}

	r := gram.symbolTable.reader()
	termTexts, err := r.terminalTexts()
	if err != nil {
		return nil, err
	}
	nonTermTexts, err := r.nonTerminalTexts()
	if err != nil {
		return nil, err
	}

	builder := &lalrTableBuilder{
		automaton:    lalr1,
		prods:        gram.productionSet,
		termCount:    len(termTexts),
		nonTermCount: len(nonTermTexts),
		symTab:       gram.symbolTable,
		pa:           gram.precAndAssoc,
		opts:         config.tableOptions,
	}

	ptab, err := builder.build()
	if err != nil {
		return nil, err
	}

	if config.description != nil {
		dw := &descriptionWriter{
			automaton: lalr1,
			prods:     gram.productionSet,
			symTab:    gram.symbolTable,
			ptab:      ptab,
			conflicts: ptab.conflicts,
		}
		dw.write(config.description)
	}

	return ptab, nil
}
