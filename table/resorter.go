package table

import "sort"

// ResortResult is the outcome of renumbering a state set: the states in
// their final order (FinalIndex already assigned on each) and NxState, the
// index at which the trailing run of tail (auto-reduce) states begins.
// States at or past NxState never need a packed-table offset; a driver can
// jump straight to their default reduce.
type ResortResult struct {
	Order   []*State
	NxState int
}

// Resort renumbers states by descending action count so that states with
// more in common pack more densely against each other, keeps the start
// state at index 0, and trails every auto-reduce (tail) state after every
// other state so a driver can test "state >= NxState" instead of probing
// the packed table at all for the common case of a state that only ever
// reduces.
//
// The ordering key is total action count first, then terminal-action
// count, then default-reduce rule index, with original index as the
// final, stable tie-break.
func Resort(states []*State, startInitialIndex int, enabled bool) ResortResult {
	order := append([]*State(nil), states...)

	if !enabled {
		sort.SliceStable(order, func(i, j int) bool {
			return order[i].InitialIndex < order[j].InitialIndex
		})
		for i, s := range order {
			s.FinalIndex = i
		}
		return ResortResult{Order: order, NxState: len(order)}
	}

	var start *State
	rest := make([]*State, 0, len(order))
	for _, s := range order {
		if s.InitialIndex == startInitialIndex {
			start = s
			continue
		}
		rest = append(rest, s)
	}

	sort.SliceStable(rest, func(i, j int) bool {
		a, b := rest[i], rest[j]
		at, bt := a.NTknAct+a.NNtAct, b.NTknAct+b.NNtAct
		if at != bt {
			return at > bt
		}
		if a.NTknAct != b.NTknAct {
			return a.NTknAct > b.NTknAct
		}
		if a.DefaultReduceRule != b.DefaultReduceRule {
			return a.DefaultReduceRule > b.DefaultReduceRule
		}
		return a.InitialIndex < b.InitialIndex
	})

	var body, tail []*State
	for _, s := range rest {
		if s.AutoReduce {
			tail = append(tail, s)
		} else {
			body = append(body, s)
		}
	}

	final := make([]*State, 0, len(order))
	if start != nil {
		final = append(final, start)
	}
	final = append(final, body...)
	nx := len(final)
	final = append(final, tail...)

	for i, s := range final {
		s.FinalIndex = i
	}

	return ResortResult{Order: final, NxState: nx}
}
