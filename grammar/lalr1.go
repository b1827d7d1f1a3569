package grammar

import (
	"fmt"
)

// stateAndLRItem addresses one item by the kernel it lives in and its own
// content ID, the only way to name an item across the automaton before
// states carry final numbers.
type stateAndLRItem struct {
	kernelID kernelID
	itemID   lrItemID
}

// propagation is one look-ahead edge: src's look-ahead symbols flow to
// every item in dest whenever src gains a new one.
type propagation struct {
	src  *stateAndLRItem
	dest []*stateAndLRItem
}

type lalr1Automaton struct {
	*lr0Automaton
}

func findItemByID(items []*lrItem, id lrItemID) *lrItem {
	for _, item := range items {
		if item.id == id {
			return item
		}
	}
	return nil
}

func findStateItemByID(state *lrState, id lrItemID) (*lrItem, error) {
	if item := findItemByID(state.items, id); item != nil {
		return item, nil
	}
	if item := findItemByID(state.emptyProdItems, id); item != nil {
		return item, nil
	}
	return nil, fmt.Errorf("item not found: %v", id)
}

// genLALR1Automaton attaches look-ahead sets to an LR0 automaton: it seeds
// the start item with <EOF>, runs a LALR1 closure from every kernel item to
// find which other items its look-ahead symbols must propagate to, then
// iterates propagation to a fixed point.
func genLALR1Automaton(lr0 *lr0Automaton, prods *productionSet, first *firstSet) (*lalr1Automaton, error) {
	iniState := lr0.states[lr0.initialState]
	iniState.items[0].lookAhead.symbols = map[symbol]struct{}{
		symbolEOF: {},
	}

	var props []*propagation
	for _, state := range lr0.states {
		for _, kItem := range state.items {
			kItem.lookAhead.propagation = true
			dest, err := genPropagationTargets(state, kItem, prods, first, lr0)
			if err != nil {
				return nil, err
			}
			if len(dest) > 0 {
				props = append(props, &propagation{
					src:  &stateAndLRItem{kernelID: state.id, itemID: kItem.id},
					dest: dest,
				})
			}
		}
	}

	if err := propagateLookAhead(lr0, props); err != nil {
		return nil, fmt.Errorf("failed to propagate look-ahead symbols: %v", err)
	}

	return &lalr1Automaton{lr0Automaton: lr0}, nil
}

// genPropagationTargets runs kItem's LALR1 closure and, for each item it
// derives, either merges a spontaneously-generated look-ahead directly
// into the target item (reducible empty productions, and any derived item
// whose closure gave it a concrete look-ahead) or records a propagation
// edge for one whose look-ahead only ever forwards kItem's own.
func genPropagationTargets(state *lrState, kItem *lrItem, prods *productionSet, first *firstSet, lr0 *lr0Automaton) ([]*stateAndLRItem, error) {
	items, err := genLALR1Closure(kItem, prods, first)
	if err != nil {
		return nil, err
	}

	var dest []*stateAndLRItem
	for _, item := range items {
		if item.reducible {
			prod, ok := prods.findByID(item.prod)
			if !ok {
				return nil, fmt.Errorf("production not found: %v", item.prod)
			}
			if !prod.isEmpty() {
				continue
			}

			target := findItemByID(state.emptyProdItems, item.id)
			if target == nil {
				return nil, fmt.Errorf("reducible item not found: %v", item.id)
			}
			mergeLookAhead(target, item.lookAhead.symbols)
			dest = append(dest, &stateAndLRItem{kernelID: state.id, itemID: item.id})
			continue
		}

		nextKID := state.next[item.dottedSymbol]
		prod, ok := prods.findByID(item.prod)
		if !ok {
			return nil, fmt.Errorf("production not found: %v", item.prod)
		}
		nextItem, err := newLR0Item(prod, item.dot+1)
		if err != nil {
			return nil, fmt.Errorf("failed to generate an item ID: %v", err)
		}

		if item.lookAhead.propagation {
			dest = append(dest, &stateAndLRItem{kernelID: nextKID, itemID: nextItem.id})
			continue
		}

		target, err := findStateItemByID(lr0.states[nextKID], nextItem.id)
		if err != nil {
			return nil, err
		}
		mergeLookAhead(target, item.lookAhead.symbols)
	}

	return dest, nil
}

func mergeLookAhead(item *lrItem, symbols map[symbol]struct{}) {
	if item.lookAhead.symbols == nil {
		item.lookAhead.symbols = map[symbol]struct{}{}
	}
	for a := range symbols {
		item.lookAhead.symbols[a] = struct{}{}
	}
}

// genLALR1Closure expands srcItem the way genLR0Closure expands a kernel,
// but every derived item also carries a look-ahead: either a concrete set
// computed from FIRST of what follows the dotted symbol, or a propagation
// marker when that follow position can itself vanish and the look-ahead
// has to come from srcItem later.
func genLALR1Closure(srcItem *lrItem, prods *productionSet, first *firstSet) ([]*lrItem, error) {
	items := []*lrItem{srcItem}
	seenWithLookAhead := map[lrItemID]map[symbol]struct{}{}
	seenPropagating := map[lrItemID]struct{}{}

	for i := 0; i < len(items); i++ {
		item := items[i]
		if item.dottedSymbol.isTerminal() {
			continue
		}

		prod, ok := prods.findByID(item.prod)
		if !ok {
			return nil, fmt.Errorf("production not found: %v", item.prod)
		}

		fst, err := first.find(prod, item.dot+1)
		if err != nil {
			return nil, err
		}

		derived, _ := prods.findByLHS(item.dottedSymbol)
		for _, dProd := range derived {
			for a := range fst.symbols {
				newItem, err := newLR0Item(dProd, 0)
				if err != nil {
					return nil, err
				}
				if _, ok := seenWithLookAhead[newItem.id][a]; ok {
					continue
				}
				newItem.lookAhead.symbols = map[symbol]struct{}{a: {}}
				items = append(items, newItem)
				if seenWithLookAhead[newItem.id] == nil {
					seenWithLookAhead[newItem.id] = map[symbol]struct{}{}
				}
				seenWithLookAhead[newItem.id][a] = struct{}{}
			}

			if fst.empty {
				for a := range item.lookAhead.symbols {
					newItem, err := newLR0Item(dProd, 0)
					if err != nil {
						return nil, err
					}
					if _, ok := seenWithLookAhead[newItem.id][a]; ok {
						continue
					}
					newItem.lookAhead.symbols = map[symbol]struct{}{a: {}}
					items = append(items, newItem)
					if seenWithLookAhead[newItem.id] == nil {
						seenWithLookAhead[newItem.id] = map[symbol]struct{}{}
					}
					seenWithLookAhead[newItem.id][a] = struct{}{}
				}

				newItem, err := newLR0Item(dProd, 0)
				if err != nil {
					return nil, err
				}
				if _, ok := seenPropagating[newItem.id]; !ok {
					newItem.lookAhead.propagation = true
					items = append(items, newItem)
					seenPropagating[newItem.id] = struct{}{}
				}
			}
		}
	}

	return items, nil
}

// propagateLookAhead runs props to a fixed point: each pass, every source
// item's current look-ahead set is pushed to its destinations, and the
// pass repeats as long as any destination actually grew.
func propagateLookAhead(lr0 *lr0Automaton, props []*propagation) error {
	for {
		changed := false
		for _, prop := range props {
			srcState, ok := lr0.states[prop.src.kernelID]
			if !ok {
				return fmt.Errorf("source state not found: %v", prop.src.kernelID)
			}
			srcItem, err := findStateItemByID(srcState, prop.src.itemID)
			if err != nil {
				return fmt.Errorf("source item not found: %v", prop.src.itemID)
			}

			for _, dest := range prop.dest {
				destState, ok := lr0.states[dest.kernelID]
				if !ok {
					return fmt.Errorf("destination state not found: %v", dest.kernelID)
				}
				destItem, err := findStateItemByID(destState, dest.itemID)
				if err != nil {
					return fmt.Errorf("destination item not found: %v", dest.itemID)
				}

				for a := range srcItem.lookAhead.symbols {
					if _, ok := destItem.lookAhead.symbols[a]; ok {
						continue
					}
					if destItem.lookAhead.symbols == nil {
						destItem.lookAhead.symbols = map[symbol]struct{}{}
					}
					destItem.lookAhead.symbols[a] = struct{}{}
					changed = true
				}
			}
		}
		if !changed {
			break
		}
	}

	return nil
}
