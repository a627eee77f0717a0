package tinyparam

import "github.com/tailscale/hujson"

// Get returns the string stored at the dotted key.
//
// The returned string is an independent copy; holding it does not alias the
// store's tree. Resolution failures are a [*ResolveError] satisfying
// errors.Is against [ErrNotFound] or [ErrNotLeaf]. Get never touches the
// filesystem.
func (s *Store) Get(key string) (string, error) {
	if s == nil {
		return "", ErrNilStore
	}

	if key == "" {
		return "", ErrKeyEmpty
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return "", ErrClosed
	}

	leaf, err := resolveLeaf(&s.root, key)
	if err != nil {
		return "", err
	}

	// resolveLeaf guarantees a string literal.
	return leaf.Value.(hujson.Literal).String(), nil
}
