package tinyparam

import (
	"slices"

	"github.com/tailscale/hujson"
)

// Keys returns the dotted path of every string leaf in the tree, sorted.
//
// Non-string leaves and anything nested under arrays are skipped; only paths
// that Get would resolve are reported.
func (s *Store) Keys() ([]string, error) {
	if s == nil {
		return nil, ErrNilStore
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrClosed
	}

	var keys []string

	collectLeafKeys(&s.root, "", &keys)
	slices.Sort(keys)

	return keys, nil
}

// collectLeafKeys appends the dotted key of every string leaf under v to out.
func collectLeafKeys(v *hujson.Value, prefix string, out *[]string) {
	obj, ok := v.Value.(*hujson.Object)
	if !ok {
		return
	}

	for i := range obj.Members {
		member := &obj.Members[i]

		name, ok := member.Name.Value.(hujson.Literal)
		if !ok {
			continue
		}

		key := name.String()
		if prefix != "" {
			key = prefix + "." + key
		}

		if isStringLeaf(&member.Value) {
			*out = append(*out, key)

			continue
		}

		collectLeafKeys(&member.Value, key, out)
	}
}
