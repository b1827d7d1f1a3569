package table

import "fmt"

// EncodeAction implements the action-encoding scheme for a
// bijection from (kind, target) onto a single flat integer, so a packed
// slot needs only one action field instead of a tagged union. nState and
// nRule are the grammar's final state and rule counts, so the scheme must
// only run after StateResorter has assigned final indices.
//
//	SHIFT        -> target state's FinalIndex,          range [0, nState)
//	SHIFTREDUCE  -> nState + rule.ID,                    range [nState, nState+nRule)
//	REDUCE       -> nState + nRule + rule.ID,             range [nState+nRule, nState+2*nRule)
//	ERROR        -> nState + 2*nRule
//	ACCEPT       -> nState + 2*nRule + 1
func EncodeAction(a Action, nState, nRule int) (int, error) {
	switch a.Kind {
	case Shift:
		if a.TargetState == nil {
			return 0, ErrInvariantViolation("shift action has no target state")
		}
		return a.TargetState.FinalIndex, nil
	case ShiftReduce:
		if a.TargetRule == nil {
			return 0, ErrInvariantViolation("shift-reduce action has no target rule")
		}
		return nState + a.TargetRule.ID, nil
	case Reduce:
		if a.TargetRule == nil {
			return 0, ErrInvariantViolation("reduce action has no target rule")
		}
		return nState + nRule + a.TargetRule.ID, nil
	case Error:
		return nState + 2*nRule, nil
	case Accept:
		return nState + 2*nRule + 1, nil
	default:
		return 0, ErrInvariantViolation(fmt.Sprintf("action kind %s has no packed encoding", a.Kind))
	}
}

// Decoded is the result of inverting EncodeAction: a driver's probe
// contract reads a packed slot's Action field and calls DecodeAction to
// learn what to do next.
type Decoded struct {
	Kind  ActionKind
	State int
	Rule  int
}

// DecodeAction inverts EncodeAction.
func DecodeAction(encoded, nState, nRule int) Decoded {
	switch {
	case encoded < nState:
		return Decoded{Kind: Shift, State: encoded}
	case encoded < nState+nRule:
		return Decoded{Kind: ShiftReduce, Rule: encoded - nState}
	case encoded < nState+2*nRule:
		return Decoded{Kind: Reduce, Rule: encoded - nState - nRule}
	case encoded == nState+2*nRule:
		return Decoded{Kind: Error}
	default:
		return Decoded{Kind: Accept}
	}
}
