package tinyparam

import (
	"strings"

	"github.com/tailscale/hujson"
)

// resolveLeaf walks a dotted key against the tree rooted at root and returns
// the terminal value, which is guaranteed to be a string literal.
//
// A key with no dot is a direct lookup under the root. For multi-segment
// keys, every non-final segment must name an existing child that is itself an
// object; the final segment must name an existing string leaf. Any broken
// link yields a [*ResolveError]: [ErrNotFound] for a missing child or an
// intermediate of the wrong kind, [ErrNotLeaf] for a terminal node that
// exists but holds no string.
//
// Pure with respect to the tree: resolveLeaf never mutates, callers do.
func resolveLeaf(root *hujson.Value, key string) (*hujson.Value, error) {
	// Single-segment keys skip the intermediate must-be-an-object walk.
	if !strings.Contains(key, ".") {
		return lookupLeaf(root, key, key)
	}

	segments := strings.Split(key, ".")
	cur := root

	for _, seg := range segments[:len(segments)-1] {
		child := childNamed(cur, seg)
		if child == nil {
			return nil, &ResolveError{Key: key, Segment: seg, Err: ErrNotFound}
		}

		if _, ok := child.Value.(*hujson.Object); !ok {
			// The path continues below a non-object; nothing can exist there.
			return nil, &ResolveError{Key: key, Segment: seg, Err: ErrNotFound}
		}

		cur = child
	}

	return lookupLeaf(cur, key, segments[len(segments)-1])
}

// lookupLeaf resolves the final segment under parent, requiring a string leaf.
func lookupLeaf(parent *hujson.Value, key, segment string) (*hujson.Value, error) {
	child := childNamed(parent, segment)
	if child == nil {
		return nil, &ResolveError{Key: key, Segment: segment, Err: ErrNotFound}
	}

	if !isStringLeaf(child) {
		return nil, &ResolveError{Key: key, Segment: segment, Err: ErrNotLeaf}
	}

	return child, nil
}

// childNamed returns the member value named name if v is an object, else nil.
func childNamed(v *hujson.Value, name string) *hujson.Value {
	obj, ok := v.Value.(*hujson.Object)
	if !ok {
		return nil
	}

	for i := range obj.Members {
		lit, ok := obj.Members[i].Name.Value.(hujson.Literal)
		if ok && lit.String() == name {
			return &obj.Members[i].Value
		}
	}

	return nil
}

// isStringLeaf reports whether v holds a string literal.
func isStringLeaf(v *hujson.Value) bool {
	lit, ok := v.Value.(hujson.Literal)

	return ok && lit.Kind() == '"'
}
