// Package apperr classifies the error taxonomy used across the node so the
// gRPC layer and the transactor can map failures to behavior with
// errors.As instead of matching on error strings.
package apperr

import "fmt"

// Kind distinguishes how a caller should react to an error.
type Kind int

const (
	// KindInternal covers storage failures, missing-but-expected state, and
	// anything else that indicates a bug or an operational problem on this
	// node rather than bad caller input.
	KindInternal Kind = iota
	// KindValidation covers malformed or inconsistent caller input: bad
	// lengths, curve/subgroup failures, deserialize failures, index
	// mismatches, and verifier rejections.
	KindValidation
	// KindTransient covers chain/RPC errors that are expected to clear up on
	// retry: the surrounding loop sleeps and tries again.
	KindTransient
	// KindResourceExhausted covers admission-control rejections.
	KindResourceExhausted
)

// Error wraps an underlying cause with a Kind so callers can branch on it.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Op == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Internal wraps err as a KindInternal error.
func Internal(op string, err error) error {
	return &Error{Kind: KindInternal, Op: op, Err: err}
}

// Validation wraps err as a KindValidation error.
func Validation(op string, err error) error {
	return &Error{Kind: KindValidation, Op: op, Err: err}
}

// Transient wraps err as a KindTransient error.
func Transient(op string, err error) error {
	return &Error{Kind: KindTransient, Op: op, Err: err}
}

// ResourceExhausted constructs a KindResourceExhausted error.
func ResourceExhausted(op string) error {
	return &Error{Kind: KindResourceExhausted, Op: op, Err: fmt.Errorf("resource exhausted")}
}

// KindOf returns the Kind of err if it (or something it wraps) is an *Error,
// and KindInternal otherwise — an unclassified error is treated as the most
// conservative case.
func KindOf(err error) Kind {
	var e *Error
	if ok := asError(err, &e); ok {
		return e.Kind
	}
	return KindInternal
}

func asError(err error, target **Error) bool {
	for err != nil {
		if e, ok := err.(*Error); ok {
			*target = e
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
