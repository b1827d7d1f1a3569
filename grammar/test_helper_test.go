package grammar

import "testing"

// testProd builds an InputProduction from a bare LHS/RHS name list; an
// empty rhs makes an epsilon production.
func testProd(lhs string, rhs ...string) InputProduction {
	return InputProduction{LHS: lhs, RHS: rhs}
}

// testInputGrammar assembles an InputGrammar for a test case, inferring
// its terminal vocabulary from the caller-supplied list rather than
// requiring every test to spell out a lexical grammar.
func testInputGrammar(start string, terminals []string, prods ...InputProduction) *InputGrammar {
	return &InputGrammar{
		Name:        "test",
		Start:       start,
		Terminals:   terminals,
		Productions: prods,
	}
}

// withLookAhead stamps a lookahead set onto an LR(0) item so a test can
// describe the LALR(1) kernel it expects.
func withLookAhead(item *lrItem, syms ...symbol) *lrItem {
	item.lookAhead.symbols = map[symbol]struct{}{}
	for _, s := range syms {
		item.lookAhead.symbols[s] = struct{}{}
	}
	return item
}

// genTestGrammar builds and validates a Grammar from an InputGrammar,
// failing the test immediately if the grammar doesn't build.
func genTestGrammar(t *testing.T, in *InputGrammar) *Grammar {
	t.Helper()

	b := GrammarBuilder{Input: in}
	gram, err := b.Build()
	if err != nil {
		t.Fatalf("failed to build a grammar: %v", err)
	}
	return gram
}

type testSymbolGenerator func(text string) symbol

func newTestSymbolGenerator(t *testing.T, symTab *symbolTable) testSymbolGenerator {
	return func(text string) symbol {
		t.Helper()

		sym, ok := symTab.toSymbol(text)
		if !ok {
			t.Fatalf("symbol was not found: %v", text)
		}
		return sym
	}
}

type testProductionGenerator func(lhs string, rhs ...string) *production

func newTestProductionGenerator(t *testing.T, genSym testSymbolGenerator) testProductionGenerator {
	return func(lhs string, rhs ...string) *production {
		t.Helper()

		rhsSym := []symbol{}
		for _, text := range rhs {
			rhsSym = append(rhsSym, genSym(text))
		}
		prod, err := newProduction(genSym(lhs), rhsSym)
		if err != nil {
			t.Fatalf("failed to create a production: %v", err)
		}

		return prod
	}
}

type testLR0ItemGenerator func(lhs string, dot int, rhs ...string) *lrItem

func newTestLR0ItemGenerator(t *testing.T, genProd testProductionGenerator) testLR0ItemGenerator {
	return func(lhs string, dot int, rhs ...string) *lrItem {
		t.Helper()

		prod := genProd(lhs, rhs...)
		item, err := newLR0Item(prod, dot)
		if err != nil {
			t.Fatalf("failed to create a LR0 item: %v", err)
		}

		return item
	}
}
