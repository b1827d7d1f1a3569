package table

// InvariantViolation reports a violated precondition of a core operation —
// a caller bug (an empty transaction committed, an action with a nil
// target), not a grammar error. Grammar-level conflicts are reported
// through Action annotations (SSCONFLICT, SRCONFLICT, RRCONFLICT), never
// through an error return.
type InvariantViolation struct {
	msg string
}

func (e *InvariantViolation) Error() string { return "table: invariant violation: " + e.msg }

// ErrInvariantViolation constructs an InvariantViolation with the given
// message.
func ErrInvariantViolation(msg string) error { return &InvariantViolation{msg: msg} }

// IsInvariantViolation reports whether err is an InvariantViolation.
func IsInvariantViolation(err error) bool {
	_, ok := err.(*InvariantViolation)
	return ok
}
