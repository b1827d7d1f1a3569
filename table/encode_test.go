package table

import "testing"

func TestEncodeDecodeAction_RoundTrip(t *testing.T) {
	const nState, nRule = 7, 4
	cases := []Action{
		{Kind: Shift, TargetState: &State{FinalIndex: 3}},
		{Kind: ShiftReduce, TargetRule: &Rule{ID: 2}},
		{Kind: Reduce, TargetRule: &Rule{ID: 1}},
		{Kind: Error},
		{Kind: Accept},
	}
	for _, a := range cases {
		encoded, err := EncodeAction(a, nState, nRule)
		if err != nil {
			t.Fatalf("EncodeAction(%+v): %v", a, err)
		}
		decoded := DecodeAction(encoded, nState, nRule)
		if decoded.Kind != a.Kind {
			t.Fatalf("round trip kind mismatch: want %v, got %v", a.Kind, decoded.Kind)
		}
		switch a.Kind {
		case Shift:
			if decoded.State != a.TargetState.FinalIndex {
				t.Fatalf("round trip state mismatch: want %d, got %d", a.TargetState.FinalIndex, decoded.State)
			}
		case ShiftReduce, Reduce:
			if decoded.Rule != a.TargetRule.ID {
				t.Fatalf("round trip rule mismatch: want %d, got %d", a.TargetRule.ID, decoded.Rule)
			}
		}
	}
}

func TestEncodeAction_RangesDoNotOverlap(t *testing.T) {
	const nState, nRule = 5, 3
	seen := map[int]string{}
	record := func(label string, a Action) {
		v, err := EncodeAction(a, nState, nRule)
		if err != nil {
			t.Fatalf("EncodeAction(%s): %v", label, err)
		}
		if prior, ok := seen[v]; ok {
			t.Fatalf("encoding collision: %s and %s both encode to %d", label, prior, v)
		}
		seen[v] = label
	}
	for i := 0; i < nState; i++ {
		record("shift", Action{Kind: Shift, TargetState: &State{FinalIndex: i}})
	}
	for i := 0; i < nRule; i++ {
		record("shiftreduce", Action{Kind: ShiftReduce, TargetRule: &Rule{ID: i}})
	}
	for i := 0; i < nRule; i++ {
		record("reduce", Action{Kind: Reduce, TargetRule: &Rule{ID: i}})
	}
	record("error", Action{Kind: Error})
	record("accept", Action{Kind: Accept})
}

func TestEncodeAction_MissingTargetIsInvariantViolation(t *testing.T) {
	if _, err := EncodeAction(Action{Kind: Shift}, 5, 2); !IsInvariantViolation(err) {
		t.Fatalf("expected invariant violation for shift with no target state")
	}
	if _, err := EncodeAction(Action{Kind: Reduce}, 5, 2); !IsInvariantViolation(err) {
		t.Fatalf("expected invariant violation for reduce with no target rule")
	}
}
