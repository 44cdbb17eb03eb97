package types

// ErrKind classifies errors so callers can branch on intent rather than text.
type ErrKind int

const (
	ErrKindData        ErrKind = iota // malformed structure (bad sizes, overruns, versions)
	ErrKindBoxNotFound                // node holds a different payload kind than requested
)

func (k ErrKind) String() string {
	switch k {
	case ErrKindData:
		return "data"
	case ErrKindBoxNotFound:
		return "box-not-found"
	default:
		return "unknown"
	}
}

// Error is a typed error with an optional underlying cause.
type Error struct {
	Kind ErrKind
	Msg  string
	Err  error // optional underlying cause

	sentinel bool
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is the category sentinel for e's kind, so that
// errors.Is(err, ErrInvalidData) matches every data error regardless of reason.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil || t == nil {
		return false
	}
	if t == e {
		return true
	}
	return t.sentinel && t.Kind == e.Kind
}

// Sentinels matched by errors.Is against any error of the same kind.
var (
	// ErrInvalidData indicates the stream violates the box structure.
	ErrInvalidData = &Error{Kind: ErrKindData, Msg: "invalid data", sentinel: true}
	// ErrBoxNotFound indicates a downcast to a payload kind the node does not hold.
	ErrBoxNotFound = &Error{Kind: ErrKindBoxNotFound, Msg: "box not found", sentinel: true}
)

// InvalidData returns a data error carrying a static reason.
func InvalidData(reason string) *Error {
	return &Error{Kind: ErrKindData, Msg: reason}
}

// BoxNotFound returns a kind-mismatch error naming both kinds.
func BoxNotFound(want, got string) *Error {
	return &Error{Kind: ErrKindBoxNotFound, Msg: "box not found: want " + want + ", have " + got}
}
