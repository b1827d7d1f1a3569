package table

import "sort"

// ActionList canonicalizes a state's raw action set: stable sort into
// canonical order, then duplicate removal. It is grounded on lemon's
// actioncmp/Action_sort (_examples/original_source/src/action.c), which
// sorts by (lookahead symbol index, action-kind ordinal, rule index) and
// breaks remaining ties on pointer difference between the two Action
// allocations. A pointer difference has no Go equivalent worth keeping —
// it's an artifact of lemon's arena allocator, not a semantic tie-break —
// so the last tie-break here is insertion order instead, which keeps the
// canonicalization deterministic across runs without depending on
// allocation layout.
type ActionList struct {
	all []Action
}

// NewActionList sorts and dedups actions into canonical order. It does not
// mutate the input slice.
func NewActionList(actions []Action) *ActionList {
	tagged := make([]Action, len(actions))
	copy(tagged, actions)
	for i := range tagged {
		tagged[i].order = i
	}
	sort.SliceStable(tagged, func(i, j int) bool {
		return less(tagged[i], tagged[j])
	})
	return &ActionList{all: dedup(tagged)}
}

func less(a, b Action) bool {
	if a.Lookahead != b.Lookahead {
		return a.Lookahead < b.Lookahead
	}
	if a.Kind != b.Kind {
		return a.Kind < b.Kind
	}
	if a.Kind == Reduce || a.Kind == ShiftReduce {
		ar, br := ruleID(a.TargetRule), ruleID(b.TargetRule)
		if ar != br {
			return ar < br
		}
	}
	return a.order < b.order
}

func ruleID(r *Rule) int {
	if r == nil {
		return -1
	}
	return r.ID
}

func stateIndex(s *State) int {
	if s == nil {
		return -1
	}
	return s.InitialIndex
}

// dedup removes consecutive duplicates from an already-sorted slice. Two
// actions are duplicates when they share a lookahead, kind, and target;
// this collapses the same shift or reduce reaching a state through more
// than one LR(0) item without losing a genuine conflict (which would have
// a different target and so sort to a different position but the same
// lookahead/kind pair would not dedup against it).
func dedup(sorted []Action) []Action {
	if len(sorted) == 0 {
		return sorted
	}
	out := sorted[:1]
	for _, a := range sorted[1:] {
		if sameAction(a, out[len(out)-1]) {
			continue
		}
		out = append(out, a)
	}
	return out
}

func sameAction(a, b Action) bool {
	if a.Lookahead != b.Lookahead || a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case Shift:
		return stateIndex(a.TargetState) == stateIndex(b.TargetState)
	case Reduce, ShiftReduce:
		return ruleID(a.TargetRule) == ruleID(b.TargetRule)
	default:
		return true
	}
}

// All returns the full canonical list, including report-only annotations.
func (l *ActionList) All() []Action { return l.all }

// Emittable returns the canonical list with report-only annotations
// (NOT_USED and conflict markers) filtered out — the subset a packer may
// legally emit.
func (l *ActionList) Emittable() []Action {
	out := make([]Action, 0, len(l.all))
	for _, a := range l.all {
		if a.Kind.reportOnly() {
			continue
		}
		out = append(out, a)
	}
	return out
}
