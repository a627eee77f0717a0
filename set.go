package tinyparam

import (
	"fmt"
	"os"

	"github.com/tailscale/hujson"
)

// Set overwrites the string leaf at the dotted key with value and persists
// the whole tree to disk before returning.
//
// Set never creates new keys: the path must already resolve to a string
// leaf, otherwise Set fails with a [*ResolveError] and changes nothing.
//
// The mutation is applied to a deep copy of the tree, the copy is serialized
// to <path>.tmp and renamed over the original, and only then does the copy
// become the live tree. Concurrent Gets therefore never observe a value the
// file does not hold, and a failed persist needs no rollback - the on-disk
// file and the live tree are both untouched.
//
// After a successful rename the kept-open descriptor is reopened against the
// new file. If that reopen fails the written value is already durable and
// visible to Get; Set reports it with an error satisfying errors.Is(err,
// ErrReopen), and the next Set reacquires the descriptor.
func (s *Store) Set(key, value string) error {
	if s == nil {
		return ErrNilStore
	}

	if key == "" {
		return ErrKeyEmpty
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}

	next := s.root.Clone()

	leaf, err := resolveLeaf(&next, key)
	if err != nil {
		return err
	}

	leaf.Value = hujson.String(value)

	if err := s.persist(next.Pack()); err != nil {
		return err
	}

	s.root = next

	return s.reopen()
}

// persist writes data to <path>.tmp, syncs it, and renames it over the
// backing file. The rename is the atomicity boundary: an external reader of
// the file sees either the fully old or fully new content, never a partial
// write. The temp file is removed on every failure path.
func (s *Store) persist(data []byte) error {
	tmp := s.path + ".tmp"

	file, err := s.fsys.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, paramFilePerms)
	if err != nil {
		return fmt.Errorf("create temp file %q: %w", tmp, err)
	}

	if _, err := file.Write(data); err != nil {
		_ = file.Close()
		_ = s.fsys.Remove(tmp)

		return fmt.Errorf("write temp file %q: %w", tmp, err)
	}

	if err := file.Sync(); err != nil {
		_ = file.Close()
		_ = s.fsys.Remove(tmp)

		return fmt.Errorf("sync temp file %q: %w", tmp, err)
	}

	if err := file.Close(); err != nil {
		_ = s.fsys.Remove(tmp)

		return fmt.Errorf("close temp file %q: %w", tmp, err)
	}

	if err := s.fsys.Rename(tmp, s.path); err != nil {
		_ = s.fsys.Remove(tmp)

		return fmt.Errorf("rename %q over %q: %w", tmp, s.path, err)
	}

	return nil
}

// reopen swaps the kept-open descriptor to the file now at path.
// Called with the exclusive lock held.
func (s *Store) reopen() error {
	if s.file != nil {
		_ = s.file.Close()
		s.file = nil
	}

	file, err := s.fsys.Open(s.path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrReopen, err)
	}

	s.file = file

	return nil
}
