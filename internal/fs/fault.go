package fs

import (
	"errors"
	"os"
	"sync"
)

// Op identifies a filesystem operation that [Fault] can fail.
type Op string

// Valid Op values for fault injection.
const (
	OpOpen            Op = "open"
	OpOpenFile        Op = "openfile"
	OpReadFile        Op = "readfile"
	OpWriteFileAtomic Op = "writefile_atomic"
	OpRename          Op = "rename"
	OpRemove          Op = "remove"
	OpStat            Op = "stat"
	OpExists          Op = "exists"
	OpFileWrite       Op = "file.write"
	OpFileSync        Op = "file.sync"
	OpFileClose       Op = "file.close"
)

// InjectedError marks an error as intentionally injected by [Fault].
//
// It wraps the underlying error so errors.Is/As continue to work.
type InjectedError struct {
	Err error
}

// Error returns the underlying error's message.
func (e *InjectedError) Error() string {
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *InjectedError) Unwrap() error {
	return e.Err
}

// IsInjected reports whether err (or any wrapped error) was injected by [Fault].
// Returns false if err is nil.
func IsInjected(err error) bool {
	if err == nil {
		return false
	}

	var injected *InjectedError

	return errors.As(err, &injected)
}

// Fault wraps an [FS] and fails scripted operations deterministically.
//
// Arm an operation with [Fault.FailWith]; every call to that operation fails
// with the given error (wrapped in [InjectedError]) until [Fault.Clear].
// Unarmed operations pass through to the inner filesystem. Safe for
// concurrent use.
type Fault struct {
	inner FS

	mu    sync.Mutex
	fail  map[Op]error
	calls map[Op]int
}

// NewFault wraps inner with fault injection. Panics if inner is nil.
func NewFault(inner FS) *Fault {
	if inner == nil {
		panic("inner fs is nil")
	}

	return &Fault{
		inner: inner,
		fail:  make(map[Op]error),
		calls: make(map[Op]int),
	}
}

// FailWith arms op to fail with err on every subsequent call.
func (f *Fault) FailWith(op Op, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.fail[op] = err
}

// Clear disarms op.
func (f *Fault) Clear(op Op) {
	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.fail, op)
}

// Calls returns how many times op was invoked (failed or not).
func (f *Fault) Calls(op Op) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.calls[op]
}

// check records the call and returns the armed error, if any.
func (f *Fault) check(op Op) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls[op]++

	if err, ok := f.fail[op]; ok {
		return &InjectedError{Err: err}
	}

	return nil
}

func (f *Fault) Open(path string) (File, error) {
	if err := f.check(OpOpen); err != nil {
		return nil, err
	}

	file, err := f.inner.Open(path)
	if err != nil {
		return nil, err
	}

	return &faultFile{fault: f, inner: file}, nil
}

func (f *Fault) OpenFile(path string, flag int, perm os.FileMode) (File, error) {
	if err := f.check(OpOpenFile); err != nil {
		return nil, err
	}

	file, err := f.inner.OpenFile(path, flag, perm)
	if err != nil {
		return nil, err
	}

	return &faultFile{fault: f, inner: file}, nil
}

func (f *Fault) ReadFile(path string) ([]byte, error) {
	if err := f.check(OpReadFile); err != nil {
		return nil, err
	}

	return f.inner.ReadFile(path)
}

func (f *Fault) WriteFileAtomic(path string, data []byte) error {
	if err := f.check(OpWriteFileAtomic); err != nil {
		return err
	}

	return f.inner.WriteFileAtomic(path, data)
}

func (f *Fault) Rename(oldpath, newpath string) error {
	if err := f.check(OpRename); err != nil {
		return err
	}

	return f.inner.Rename(oldpath, newpath)
}

func (f *Fault) Remove(path string) error {
	if err := f.check(OpRemove); err != nil {
		return err
	}

	return f.inner.Remove(path)
}

func (f *Fault) Stat(path string) (os.FileInfo, error) {
	if err := f.check(OpStat); err != nil {
		return nil, err
	}

	return f.inner.Stat(path)
}

func (f *Fault) Exists(path string) (bool, error) {
	if err := f.check(OpExists); err != nil {
		return false, err
	}

	return f.inner.Exists(path)
}

// faultFile intercepts write, sync, and close on files opened through [Fault].
type faultFile struct {
	fault *Fault
	inner File
}

func (f *faultFile) Read(p []byte) (int, error) {
	return f.inner.Read(p)
}

func (f *faultFile) Write(p []byte) (int, error) {
	if err := f.fault.check(OpFileWrite); err != nil {
		return 0, err
	}

	return f.inner.Write(p)
}

func (f *faultFile) Sync() error {
	if err := f.fault.check(OpFileSync); err != nil {
		return err
	}

	return f.inner.Sync()
}

func (f *faultFile) Close() error {
	if err := f.fault.check(OpFileClose); err != nil {
		_ = f.inner.Close()

		return err
	}

	return f.inner.Close()
}

func (f *faultFile) Stat() (os.FileInfo, error) {
	return f.inner.Stat()
}

// Compile-time interface checks.
var (
	_ FS   = (*Fault)(nil)
	_ File = (*faultFile)(nil)
)
