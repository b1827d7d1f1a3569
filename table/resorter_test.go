package table

import "testing"

func TestResort_Disabled(t *testing.T) {
	states := []*State{
		{InitialIndex: 0},
		{InitialIndex: 1},
		{InitialIndex: 2},
	}
	result := Resort(states, 0, false)
	for i, s := range result.Order {
		if s.FinalIndex != i {
			t.Fatalf("disabled resort should preserve initial order, state %d got FinalIndex %d", i, s.FinalIndex)
		}
	}
	if result.NxState != len(states) {
		t.Fatalf("disabled resort should not trim any tail states, got NxState %d", result.NxState)
	}
}

func TestResort_StartStateStaysFirst(t *testing.T) {
	states := []*State{
		{InitialIndex: 0, NTknAct: 1},
		{InitialIndex: 1, NTknAct: 10},
		{InitialIndex: 2, NTknAct: 5},
	}
	result := Resort(states, 0, true)
	if result.Order[0].InitialIndex != 0 {
		t.Fatalf("expected start state (InitialIndex 0) to stay first, got %d", result.Order[0].InitialIndex)
	}
}

func TestResort_OrdersByDescendingActionCount(t *testing.T) {
	start := &State{InitialIndex: 0, NTknAct: 0}
	busy := &State{InitialIndex: 1, NTknAct: 10}
	quiet := &State{InitialIndex: 2, NTknAct: 1}
	result := Resort([]*State{start, quiet, busy}, 0, true)

	if result.Order[1] != busy {
		t.Fatalf("expected the busier state to sort before the quieter one")
	}
	if result.Order[2] != quiet {
		t.Fatalf("expected the quieter state to sort last among non-tail states")
	}
}

func TestResort_TailStatesTrailAndAreCounted(t *testing.T) {
	start := &State{InitialIndex: 0}
	normal := &State{InitialIndex: 1, NTknAct: 3}
	tail1 := &State{InitialIndex: 2, AutoReduce: true}
	tail2 := &State{InitialIndex: 3, AutoReduce: true}

	result := Resort([]*State{start, tail1, normal, tail2}, 0, true)

	if result.NxState != 2 {
		t.Fatalf("expected NxState to split before the two tail states, got %d", result.NxState)
	}
	for i, s := range result.Order[:result.NxState] {
		if s.AutoReduce {
			t.Fatalf("state at packed index %d is unexpectedly a tail state", i)
		}
	}
	for i := result.NxState; i < len(result.Order); i++ {
		if !result.Order[i].AutoReduce {
			t.Fatalf("state at tail index %d is unexpectedly not a tail state", i)
		}
	}
}

func TestResort_IsStableOnTies(t *testing.T) {
	a := &State{InitialIndex: 1, NTknAct: 2}
	b := &State{InitialIndex: 2, NTknAct: 2}
	start := &State{InitialIndex: 0}
	result := Resort([]*State{start, a, b}, 0, true)
	if result.Order[1] != a || result.Order[2] != b {
		t.Fatalf("expected ties to break on InitialIndex ascending")
	}
}
