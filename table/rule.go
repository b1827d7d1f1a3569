package table

// Rule is a reduce production, identified by the index an external
// collaborator (LR(0)/LALR(1) construction) assigned it. RHSLen is unused by
// the core but is carried alongside ID because a parse loop driving the
// built table needs it to pop a reduce's symbols off its stack.
type Rule struct {
	ID     int
	RHSLen int
}
