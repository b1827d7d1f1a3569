// Package lrerr collects the errors a grammar build can report, so a CLI
// caller can print every problem found in one pass instead of stopping at
// the first one.
package lrerr

import (
	"fmt"
	"strings"
)

// BuildError is one problem found while validating or compiling a grammar.
// Symbol names it when the problem is about a specific production or
// symbol; it's empty for errors that don't localize to one.
type BuildError struct {
	Cause  error
	Symbol string
}

func (e *BuildError) Error() string {
	if e.Symbol == "" {
		return fmt.Sprintf("error: %v", e.Cause)
	}
	return fmt.Sprintf("%v: error: %v", e.Symbol, e.Cause)
}

// BuildErrors accumulates every BuildError found during a single build so
// a caller can report them all together.
type BuildErrors []*BuildError

func (es BuildErrors) Error() string {
	lines := make([]string, len(es))
	for i, e := range es {
		lines[i] = e.Error()
	}
	return strings.Join(lines, "\n")
}
