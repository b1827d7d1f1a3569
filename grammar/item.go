package grammar

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"sort"
	"strconv"
)

// contentID is a structural identity for a set of grammar symbols or
// productions: two sets that sum to the same bytes get the same ID, so
// kernels and items can be deduplicated by map lookup instead of a deep
// slice comparison.
type contentID [32]byte

func hashParts(parts ...[]byte) contentID {
	h := sha256.New()
	for _, p := range parts {
		h.Write(p)
	}
	var id contentID
	copy(id[:], h.Sum(nil))
	return id
}

type lrItemID = contentID

type lookAhead struct {
	symbols map[symbol]struct{}

	// propagation marks an item that forwards its look-ahead symbols to
	// other items rather than owning them outright.
	propagation bool
}

// lrItem is one dotted production in a state: E -> E . + T reads as "E has
// been recognized, + is expected next". dot counts symbols consumed so
// far; dottedSymbol is the one just past it, or symbolNil past the end.
type lrItem struct {
	id   lrItemID
	prod productionID

	dot          int
	dottedSymbol symbol

	// initial marks the single item S' -> . S every automaton starts from.
	initial bool

	// reducible marks a finished item, E -> E + T . , ready to pop its RHS
	// and replace it with the LHS once a look-ahead symbol confirms it.
	reducible bool

	// kernel marks an item that defines a state rather than one the
	// closure derived from it: the augmented start item, or any item with
	// dot > 0.
	kernel bool

	lookAhead lookAhead
}

func newLR0Item(prod *production, dot int) (*lrItem, error) {
	if prod == nil {
		return nil, fmt.Errorf("production must be non-nil")
	}
	if dot < 0 || dot > prod.rhsLen {
		return nil, fmt.Errorf("dot must be between 0 and %v", prod.rhsLen)
	}

	dotBytes := make([]byte, 8)
	binary.LittleEndian.PutUint64(dotBytes, uint64(dot))
	id := hashParts(prod.id[:], dotBytes)

	dottedSymbol := symbolNil
	if dot < prod.rhsLen {
		dottedSymbol = prod.rhs[dot]
	}

	return &lrItem{
		id:           id,
		prod:         prod.id,
		dot:          dot,
		dottedSymbol: dottedSymbol,
		initial:      prod.lhs.isStart() && dot == 0,
		reducible:    dot == prod.rhsLen,
		kernel:       (prod.lhs.isStart() && dot == 0) || dot > 0,
	}, nil
}

type kernelID = contentID

// kernel is the set of items that defines a state: everything a state's
// closure can derive traces back to one of these.
type kernel struct {
	id    kernelID
	items []*lrItem
}

func newKernel(items []*lrItem) (*kernel, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("a kernel need at least one item")
	}

	dedup := map[lrItemID]*lrItem{}
	for _, item := range items {
		if !item.kernel {
			return nil, fmt.Errorf("not a kernel item: %v", item)
		}
		dedup[item.id] = item
	}

	sortedItems := make([]*lrItem, 0, len(dedup))
	for _, item := range dedup {
		sortedItems = append(sortedItems, item)
	}
	sort.Slice(sortedItems, func(i, j int) bool {
		return bytesLess(sortedItems[i].id[:], sortedItems[j].id[:])
	})

	parts := make([][]byte, len(sortedItems))
	for i, item := range sortedItems {
		parts[i] = item.id[:]
	}

	return &kernel{
		id:    hashParts(parts...),
		items: sortedItems,
	}, nil
}

func bytesLess(a, b []byte) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

type stateNum int

const stateNumInitial = stateNum(0)

func (n stateNum) Int() int {
	return int(n)
}

func (n stateNum) String() string {
	return strconv.Itoa(int(n))
}

func (n stateNum) next() stateNum {
	return stateNum(n + 1)
}

// lrState is one automaton state: a kernel plus everything genStateAndNeighbourKernels
// derived from its closure.
type lrState struct {
	*kernel
	num       stateNum
	next      map[symbol]kernelID
	reducible map[productionID]struct{}

	// isErrorTrapper marks a state that can shift the reserved error symbol
	// (one of its items has the error symbol right after the dot): table
	// construction must never fold this state's terminal
	// actions into a default reduce, or the grammar's error-recovery path
	// silently stops firing.
	isErrorTrapper bool

	// emptyProdItems holds this state's reducible items for productions
	// with an empty RHS (p -> epsilon): closure never adds "p -> . epsilon"
	// to a kernel since it has no dotted symbol to derive from, so LALR1's
	// look-ahead propagation has to track these separately.
	emptyProdItems []*lrItem
}
