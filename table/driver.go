package table

// Options controls which optional passes Build runs. Both default to
// on; a caller mainly turns them off to inspect an uncompressed/unsorted
// table while debugging a grammar.
type Options struct {
	Compress bool
	Resort   bool
}

// DefaultOptions returns the options a normal build uses.
func DefaultOptions() Options {
	return Options{Compress: true, Resort: true}
}

// BuildResult is everything a generated parser's probe contract needs: the
// shared packed table and the split point between packed and tail states.
type BuildResult struct {
	Packed  PackedTable
	NxState int
}

// Build orchestrates ActionList, Compressor, StateResorter, and
// TablePacker over a whole automaton: for every state, canonicalize its
// raw actions into terminal and nonterminal halves, optionally fold the
// terminal half's most common reduce into a default, optionally renumber
// states by action count, then pack every non-tail state's two halves into
// the shared table. It writes State's output fields in place and returns
// the shared table plus the tail-state split point.
//
// terminalCount and nRule must describe the whole grammar: terminalCount
// partitions each state's actions into its terminal and nonterminal
// halves, and nRule sizes the encoding in EncodeAction.
func Build(states []*State, startInitialIndex, terminalCount, nRule int, opts Options) (*BuildResult, error) {
	for _, s := range states {
		term, nonterm := partition(s.Actions, terminalCount)

		termEmit := NewActionList(term).Emittable()
		s.ntEmit = NewActionList(nonterm).Emittable()

		if opts.Compress {
			cr := CompressTerminalActions(termEmit, s.IsErrorTrap, hasAccept(termEmit))
			s.termEmit = stripNotUsed(cr.Actions)
			s.AutoReduce = cr.AutoReduce && len(s.ntEmit) == 0
			if cr.DefaultRule != nil {
				s.DefaultReduceRule = cr.DefaultRule.ID
				s.DefaultReduceTarget = cr.DefaultRule
			} else {
				s.DefaultReduceRule = -1
			}
		} else {
			s.termEmit = termEmit
			s.DefaultReduceRule = -1
		}

		s.NTknAct = len(s.termEmit)
		s.NNtAct = len(s.ntEmit)
	}

	resorted := Resort(states, startInitialIndex, opts.Resort)
	nState := len(resorted.Order)

	packer := NewTablePacker()
	for _, s := range resorted.Order {
		s.TokenOffset = NoOffset
		s.GotoOffset = NoOffset

		if s.FinalIndex >= resorted.NxState {
			continue
		}

		if off, err := packHalf(packer, s.termEmit, nState, nRule); err != nil {
			return nil, err
		} else if off != NoOffset {
			s.TokenOffset = off
		}

		if off, err := packHalf(packer, s.ntEmit, nState, nRule); err != nil {
			return nil, err
		} else if off != NoOffset {
			s.GotoOffset = off
		}
	}

	return &BuildResult{Packed: packer.Export(), NxState: resorted.NxState}, nil
}

func packHalf(packer *TablePacker, actions []Action, nState, nRule int) (int, error) {
	if len(actions) == 0 {
		return NoOffset, nil
	}
	packer.BeginState()
	for _, a := range actions {
		encoded, err := EncodeAction(a, nState, nRule)
		if err != nil {
			return 0, err
		}
		packer.Emit(int(a.Lookahead), encoded)
	}
	return packer.CommitState()
}

func partition(actions []Action, terminalCount int) (terminals, nonterminals []Action) {
	for _, a := range actions {
		if a.Lookahead.IsTerminal(terminalCount) {
			terminals = append(terminals, a)
		} else {
			nonterminals = append(nonterminals, a)
		}
	}
	return terminals, nonterminals
}

func hasAccept(terminalActions []Action) bool {
	for _, a := range terminalActions {
		if a.Kind == Accept {
			return true
		}
	}
	return false
}

func stripNotUsed(actions []Action) []Action {
	out := actions[:0:0]
	for _, a := range actions {
		if a.Kind == NotUsed {
			continue
		}
		out = append(out, a)
	}
	return out
}
