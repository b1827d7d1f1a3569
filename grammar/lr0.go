package grammar

import (
	"fmt"
	"sort"
)

// lr0Automaton is the unlabeled state graph: states and the kernel each
// shift symbol leads to, before LALR1 attaches look-ahead sets.
type lr0Automaton struct {
	initialState kernelID
	states       map[kernelID]*lrState
}

func genLR0Automaton(prods *productionSet, startSym symbol, errSym symbol) (*lr0Automaton, error) {
	if !startSym.isStart() {
		return nil, fmt.Errorf("passed symbold is not a start symbol")
	}

	startProds, _ := prods.findByLHS(startSym)
	startItem, err := newLR0Item(startProds[0], 0)
	if err != nil {
		return nil, err
	}
	startKernel, err := newKernel([]*lrItem{startItem})
	if err != nil {
		return nil, err
	}

	automaton := &lr0Automaton{
		initialState: startKernel.id,
		states:       map[kernelID]*lrState{},
	}

	seen := map[kernelID]struct{}{startKernel.id: {}}
	pending := []*kernel{startKernel}
	nextNum := stateNumInitial

	for len(pending) > 0 {
		k := pending[0]
		pending = pending[1:]

		state, neighbours, err := genStateAndNeighbourKernels(k, prods, errSym)
		if err != nil {
			return nil, err
		}
		state.num = nextNum
		nextNum = nextNum.next()
		automaton.states[state.id] = state

		for _, n := range neighbours {
			if _, ok := seen[n.id]; ok {
				continue
			}
			seen[n.id] = struct{}{}
			pending = append(pending, n)
		}
	}

	return automaton, nil
}

func genStateAndNeighbourKernels(k *kernel, prods *productionSet, errSym symbol) (*lrState, []*kernel, error) {
	items, err := genLR0Closure(k, prods)
	if err != nil {
		return nil, nil, err
	}
	neighbours, err := genNeighbourKernels(items, prods)
	if err != nil {
		return nil, nil, err
	}

	next := make(map[symbol]kernelID, len(neighbours))
	kernels := make([]*kernel, len(neighbours))
	for i, n := range neighbours {
		next[n.symbol] = n.kernel.id
		kernels[i] = n.kernel
	}

	reducible := map[productionID]struct{}{}
	var emptyProdItems []*lrItem
	isErrorTrapper := false
	for _, item := range items {
		if item.dottedSymbol == errSym {
			isErrorTrapper = true
		}
		if !item.reducible {
			continue
		}
		reducible[item.prod] = struct{}{}

		prod, ok := prods.findByID(item.prod)
		if !ok {
			return nil, nil, fmt.Errorf("reducible production not found: %v", item.prod)
		}
		if prod.isEmpty() {
			emptyProdItems = append(emptyProdItems, item)
		}
	}

	return &lrState{
		kernel:         k,
		next:           next,
		reducible:      reducible,
		isErrorTrapper: isErrorTrapper,
		emptyProdItems: emptyProdItems,
	}, kernels, nil
}

// genLR0Closure expands a kernel into every item reachable by repeatedly
// deriving the production for a dotted non-terminal. items grows in place
// and doubles as its own work queue: i tracks how far the scan has gotten,
// len(items) how far it has to go.
func genLR0Closure(k *kernel, prods *productionSet) ([]*lrItem, error) {
	items := append([]*lrItem{}, k.items...)
	known := make(map[lrItemID]struct{}, len(items))
	for _, item := range items {
		known[item.id] = struct{}{}
	}

	for i := 0; i < len(items); i++ {
		dotted := items[i].dottedSymbol
		if dotted.isTerminal() {
			continue
		}
		derived, _ := prods.findByLHS(dotted)
		for _, prod := range derived {
			next, err := newLR0Item(prod, 0)
			if err != nil {
				return nil, err
			}
			if _, ok := known[next.id]; ok {
				continue
			}
			known[next.id] = struct{}{}
			items = append(items, next)
		}
	}

	return items, nil
}

type neighbourKernel struct {
	symbol symbol
	kernel *kernel
}

// genNeighbourKernels groups a closure's items by the symbol just past
// their dot and advances each group into the kernel a shift on that
// symbol would land in.
func genNeighbourKernels(items []*lrItem, prods *productionSet) ([]*neighbourKernel, error) {
	bySymbol := map[symbol][]*lrItem{}
	for _, item := range items {
		if item.dottedSymbol.isNil() {
			continue
		}
		prod, ok := prods.findByID(item.prod)
		if !ok {
			return nil, fmt.Errorf("a production was not found: %v", item.prod)
		}
		advanced, err := newLR0Item(prod, item.dot+1)
		if err != nil {
			return nil, err
		}
		bySymbol[item.dottedSymbol] = append(bySymbol[item.dottedSymbol], advanced)
	}

	syms := make([]symbol, 0, len(bySymbol))
	for sym := range bySymbol {
		syms = append(syms, sym)
	}
	sort.Slice(syms, func(i, j int) bool { return syms[i] < syms[j] })

	neighbours := make([]*neighbourKernel, 0, len(syms))
	for _, sym := range syms {
		k, err := newKernel(bySymbol[sym])
		if err != nil {
			return nil, err
		}
		neighbours = append(neighbours, &neighbourKernel{symbol: sym, kernel: k})
	}

	return neighbours, nil
}
