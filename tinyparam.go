// Package tinyparam is an embedded key-value parameter store backed by a
// single JSON (or HuJSON) file on disk.
//
// Callers open the file once to obtain a [Store], then read and write named
// parameters addressed by a dotted path:
//
//	store, err := tinyparam.Open("params.json")
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//
//	volume, err := store.Get("system.audio.volume")
//	...
//	err = store.Set("system.audio.volume", "75")
//
// All leaf values are strings; Set overwrites existing leaves only and never
// creates, deletes, or reshapes keys. Writes are persisted immediately: the
// whole tree is serialized to <path>.tmp and renamed over the original, so an
// external reader of the file sees either the fully old or fully new content.
// Comments and formatting in the backing file survive writes.
//
// # Concurrency
//
// A Store is safe for concurrent use. Reads ([Store.Get], [Store.Keys]) hold
// a shared lock; writes ([Store.Set]) hold an exclusive lock. [Store.Close]
// must not race an in-flight operation on the same handle; the owner closes
// after all other users are done. Coordination is in-process only - the store
// does not arbitrate between processes.
package tinyparam

import (
	"errors"
	"fmt"
	"sync"

	"github.com/tailscale/hujson"

	"github.com/teddyxiong53/tinyparam/internal/fs"
)

// paramFilePerms is the mode for files created by the persist path.
const paramFilePerms = 0o644

// Store is the open, in-memory representation of one backing file.
//
// The zero value is not usable; obtain a Store from [Open].
type Store struct {
	path string
	fsys fs.FS

	// mu guards root, file, and closed. Get/Keys take the shared side,
	// Set/Close the exclusive side.
	mu     sync.RWMutex
	root   hujson.Value
	file   fs.File
	closed bool
}

// Open reads and parses the parameter file at path and returns a handle to it.
//
// The file must exist, be readable, and parse into an object tree; otherwise
// Open fails with no resource left allocated. A file descriptor is held open
// for the lifetime of the handle and released by [Store.Close].
//
// Parse failures satisfy errors.Is(err, ErrParse). A missing file surfaces
// the underlying os error (errors.Is(err, os.ErrNotExist)).
func Open(path string) (*Store, error) {
	return openFS(path, fs.NewReal())
}

// openFS is Open with an injectable filesystem, used by tests.
func openFS(path string, fsys fs.FS) (*Store, error) {
	if path == "" {
		return nil, errors.New("path is empty")
	}

	data, err := fsys.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read parameter file: %w", err)
	}

	root, err := hujson.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrParse, path, err)
	}

	if _, ok := root.Value.(*hujson.Object); !ok {
		return nil, fmt.Errorf("%w %s: root is not an object", ErrParse, path)
	}

	file, err := fsys.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open parameter file: %w", err)
	}

	return &Store{
		path: path,
		fsys: fsys,
		root: root,
		file: file,
	}, nil
}

// Path returns the on-disk location of the backing file.
func (s *Store) Path() string {
	if s == nil {
		return ""
	}

	return s.path
}

// Close releases the file descriptor and drops the parsed tree.
//
// Safe on a nil receiver and safe to call more than once. Not safe to call
// concurrently with an in-flight Get or Set on the same handle - the caller
// must ensure no other operation is in progress.
func (s *Store) Close() error {
	if s == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	s.closed = true
	s.root = hujson.Value{}

	if s.file == nil {
		return nil
	}

	file := s.file
	s.file = nil

	if err := file.Close(); err != nil {
		return fmt.Errorf("close parameter file: %w", err)
	}

	return nil
}
