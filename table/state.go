package table

// State is one LALR(1) automaton state plus the output fields the packed
// table format needs. The external construction fills InitialIndex and
// Actions; the core fills everything else as Build runs.
type State struct {
	// InitialIndex is the state's number as the external LR(0)/LALR(1)
	// construction produced it, stable across a Build call. Other
	// states' Shift actions reference a State by pointer, not by this
	// index, so renumbering never invalidates them.
	InitialIndex int

	// FinalIndex is the state's number after StateResorter has run (or
	// equal to InitialIndex when resorting is disabled). Shift actions
	// are encoded against this field, so it must only be read after
	// Build returns.
	FinalIndex int

	// Actions is the state's raw, unsorted, possibly-conflicting action
	// set, supplied by the caller.
	Actions []Action

	// IsErrorTrap marks a state with a shift on the error symbol, which
	// must never be folded away by default-reduce compression since
	// losing it would silently disable a grammar's error-recovery path.
	IsErrorTrap bool

	// Output fields, written only by Build.
	NTknAct             int
	NNtAct              int
	TokenOffset         int
	GotoOffset          int
	DefaultReduceRule   int // -1 when the state has no default reduce
	DefaultReduceTarget *Rule
	AutoReduce          bool

	termEmit []Action
	ntEmit   []Action
}
