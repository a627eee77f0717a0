package tinyparam

import (
	"errors"
	"strings"
)

// Sentinel errors returned by the public API.
//
// I/O failures are not collapsed into these: they wrap the underlying
// *os.PathError so callers can retry on errors.Is(err, os.ErrNotExist) etc.
// without confusing a missing key with a failing disk.
var (
	// ErrNilStore indicates an operation on a nil *Store.
	ErrNilStore = errors.New("store is nil")

	// ErrKeyEmpty indicates an empty dotted key.
	ErrKeyEmpty = errors.New("key is empty")

	// ErrNotFound indicates a dotted key whose path does not exist in the tree.
	ErrNotFound = errors.New("key not found")

	// ErrNotLeaf indicates a dotted key that resolves to a node which is not
	// a string value (an object, array, number, boolean, or null).
	ErrNotLeaf = errors.New("key does not resolve to a string value")

	// ErrParse indicates the backing file is not a well-formed object tree.
	ErrParse = errors.New("invalid parameter file")

	// ErrClosed indicates an operation on a closed store.
	ErrClosed = errors.New("store closed")

	// ErrReopen indicates the backing file was replaced successfully but the
	// kept-open descriptor could not be reopened against the new file. The
	// written value is durable; the descriptor is reacquired on the next Set.
	ErrReopen = errors.New("reopen after replace failed")
)

// ResolveError reports where a dotted-key walk failed.
//
// Err is one of [ErrNotFound] or [ErrNotLeaf]; use [errors.Is] to tell a
// missing path apart from a path ending on the wrong node kind:
//
//	_, err := store.Get("system.audio")
//	if errors.Is(err, tinyparam.ErrNotLeaf) { ... } // exists, but is an object
type ResolveError struct {
	// Key is the full dotted key as passed by the caller.
	Key string

	// Segment is the path segment at which resolution failed.
	Segment string

	// Err is the reason sentinel.
	Err error
}

// Error formats as "<reason>: <key> (at segment <segment>)".
func (e *ResolveError) Error() string {
	var b strings.Builder

	b.WriteString(e.Err.Error())
	b.WriteString(": ")
	b.WriteString(e.Key)

	if e.Segment != "" && e.Segment != e.Key {
		b.WriteString(" (at segment ")
		b.WriteString(e.Segment)
		b.WriteString(")")
	}

	return b.String()
}

// Unwrap returns the reason sentinel for use with [errors.Is].
func (e *ResolveError) Unwrap() error {
	return e.Err
}
