// Package table implements the packed action-table construction core of an
// LALR(1) parser generator: the ActionList canonicalizer, the overlap
// exploiting TablePacker, the default-reduce Compressor, the
// action-count-driven StateResorter, and the Driver that ties them
// together. Everything upstream of it — grammar parsing, LR(0)/LALR(1)
// item-set construction, first/follow sets — is an external collaborator;
// this package only ever reads finished per-state action sets and writes
// the handful of output fields a generated parser needs.
package table

// Symbol is the stable integer identity of a grammar symbol once the
// terminal/nonterminal partition is final. Terminals occupy [0, nTerminal)
// and nonterminals occupy [nTerminal, nSymbol); callers are responsible for
// assigning indices that respect this split before handing actions to the
// core, since the core itself never inspects a Symbol beyond its ordering.
type Symbol int

// IsTerminal reports whether sym falls in the terminal partition, given the
// grammar's terminal count.
func (sym Symbol) IsTerminal(terminalCount int) bool {
	return int(sym) < terminalCount
}
