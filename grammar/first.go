package grammar

import (
	"fmt"
)

// firstEntry is the FIRST set for one symbol: every terminal that can
// start a derivation from it, plus whether it can also derive the empty
// string.
type firstEntry struct {
	symbols map[symbol]struct{}
	empty   bool
}

func newFirstEntry() *firstEntry {
	return &firstEntry{symbols: map[symbol]struct{}{}}
}

func (e *firstEntry) add(sym symbol) bool {
	if _, ok := e.symbols[sym]; ok {
		return false
	}
	e.symbols[sym] = struct{}{}
	return true
}

func (e *firstEntry) addEmpty() bool {
	if e.empty {
		return false
	}
	e.empty = true
	return true
}

func (e *firstEntry) mergeExceptEmpty(target *firstEntry) bool {
	if target == nil {
		return false
	}
	changed := false
	for sym := range target.symbols {
		if e.add(sym) {
			changed = true
		}
	}
	return changed
}

// firstSet is FIRST for every non-terminal in a grammar, keyed by LHS
// symbol.
type firstSet struct {
	set map[symbol]*firstEntry
}

func newFirstSet(prods *productionSet) *firstSet {
	fst := &firstSet{set: map[symbol]*firstEntry{}}
	for _, prod := range prods.getAllProductions() {
		if _, ok := fst.set[prod.lhs]; ok {
			continue
		}
		fst.set[prod.lhs] = newFirstEntry()
	}
	return fst
}

// find computes FIRST of the RHS tail starting at head, the lookahead a
// LALR1 closure step needs when it derives a new item past this
// production's dotted position.
func (fst *firstSet) find(prod *production, head int) (*firstEntry, error) {
	entry := newFirstEntry()
	if prod.rhsLen <= head {
		entry.addEmpty()
		return entry, nil
	}
	for _, sym := range prod.rhs[head:] {
		if sym.isTerminal() {
			entry.add(sym)
			return entry, nil
		}

		e := fst.findBySymbol(sym)
		if e == nil {
			return nil, fmt.Errorf("an entry of FIRST was not found; symbol: %s", sym)
		}
		for s := range e.symbols {
			entry.add(s)
		}
		if !e.empty {
			return entry, nil
		}
	}
	entry.addEmpty()
	return entry, nil
}

func (fst *firstSet) findBySymbol(sym symbol) *firstEntry {
	return fst.set[sym]
}

// genFirstSet runs the standard fixed-point iteration: keep folding every
// production's contribution into its LHS's entry until a full pass over
// the grammar changes nothing.
func genFirstSet(prods *productionSet) (*firstSet, error) {
	fst := newFirstSet(prods)
	for {
		more := false
		for _, prod := range prods.getAllProductions() {
			changed, err := mergeProductionFirst(fst, fst.findBySymbol(prod.lhs), prod)
			if err != nil {
				return nil, err
			}
			if changed {
				more = true
			}
		}
		if !more {
			break
		}
	}
	return fst, nil
}

func mergeProductionFirst(fst *firstSet, acc *firstEntry, prod *production) (bool, error) {
	if prod.isEmpty() {
		return acc.addEmpty(), nil
	}
	for _, sym := range prod.rhs {
		if sym.isTerminal() {
			return acc.add(sym), nil
		}
		e := fst.findBySymbol(sym)
		changed := acc.mergeExceptEmpty(e)
		if !e.empty {
			return changed, nil
		}
	}
	return acc.addEmpty(), nil
}
