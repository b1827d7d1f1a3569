package table

import "testing"

func TestCompressTerminalActions_PicksMostFrequentReduce(t *testing.T) {
	common := &Rule{ID: 1}
	rare := &Rule{ID: 2}
	actions := []Action{
		{Lookahead: 0, Kind: Reduce, TargetRule: common},
		{Lookahead: 1, Kind: Reduce, TargetRule: common},
		{Lookahead: 2, Kind: Reduce, TargetRule: rare},
		{Lookahead: 3, Kind: Shift, TargetState: &State{}},
	}

	result := CompressTerminalActions(actions, false, false)
	if result.DefaultRule == nil || result.DefaultRule.ID != 1 {
		t.Fatalf("expected rule 1 to become the default, got %+v", result.DefaultRule)
	}
	for _, a := range result.Actions {
		if a.Lookahead == 0 || a.Lookahead == 1 {
			if a.Kind != NotUsed {
				t.Fatalf("expected lookahead %d to be marked NOT_USED, got %v", a.Lookahead, a.Kind)
			}
		}
	}
	if result.AutoReduce {
		t.Fatalf("state has a surviving shift, should not be auto-reduce")
	}
}

func TestCompressTerminalActions_NoDefaultWhenNoRepeat(t *testing.T) {
	actions := []Action{
		{Lookahead: 0, Kind: Reduce, TargetRule: &Rule{ID: 1}},
		{Lookahead: 1, Kind: Reduce, TargetRule: &Rule{ID: 2}},
	}
	result := CompressTerminalActions(actions, false, false)
	if result.DefaultRule != nil {
		t.Fatalf("expected no default when every reduce target occurs once, got %+v", result.DefaultRule)
	}
}

func TestCompressTerminalActions_SkipsErrorTrapAndAccept(t *testing.T) {
	r := &Rule{ID: 1}
	actions := []Action{
		{Lookahead: 0, Kind: Reduce, TargetRule: r},
		{Lookahead: 1, Kind: Reduce, TargetRule: r},
	}
	if r := CompressTerminalActions(actions, true, false); r.DefaultRule != nil {
		t.Fatalf("expected error-trapping state to keep its actions explicit, got default %+v", r.DefaultRule)
	}
	if r := CompressTerminalActions(actions, false, true); r.DefaultRule != nil {
		t.Fatalf("expected accepting state to keep its actions explicit, got default %+v", r.DefaultRule)
	}
}

func TestCompressTerminalActions_AutoReduceWhenDefaultCoversEverything(t *testing.T) {
	r := &Rule{ID: 1}
	actions := []Action{
		{Lookahead: 0, Kind: Reduce, TargetRule: r},
		{Lookahead: 1, Kind: Reduce, TargetRule: r},
		{Lookahead: 2, Kind: Reduce, TargetRule: r},
	}
	result := CompressTerminalActions(actions, false, false)
	if !result.AutoReduce {
		t.Fatalf("expected a state whose only reduce target becomes the default to be auto-reduce")
	}
}
