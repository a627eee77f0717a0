package fs

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// TestFault_PassthroughWhenUnarmed verifies unarmed operations behave exactly
// like the inner filesystem.
func TestFault_PassthroughWhenUnarmed(t *testing.T) {
	faulty := NewFault(NewReal())
	path := filepath.Join(t.TempDir(), "a.json")

	if err := os.WriteFile(path, []byte("hi"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	data, err := faulty.ReadFile(path)
	if err != nil {
		t.Fatalf("readfile: %v", err)
	}

	if string(data) != "hi" {
		t.Fatalf("content=%q, want=%q", data, "hi")
	}

	if got, want := faulty.Calls(OpReadFile), 1; got != want {
		t.Fatalf("calls=%d, want=%d", got, want)
	}
}

// TestFault_ArmedOpFails verifies an armed operation fails with the injected
// error until cleared.
func TestFault_ArmedOpFails(t *testing.T) {
	faulty := NewFault(NewReal())
	path := filepath.Join(t.TempDir(), "a.json")

	if err := os.WriteFile(path, []byte("hi"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	cause := errors.New("boom")
	faulty.FailWith(OpReadFile, cause)

	_, err := faulty.ReadFile(path)

	if !errors.Is(err, cause) {
		t.Fatalf("err=%v, want wrapped %v", err, cause)
	}

	if !IsInjected(err) {
		t.Fatalf("IsInjected=false for %v", err)
	}

	faulty.Clear(OpReadFile)

	if _, err := faulty.ReadFile(path); err != nil {
		t.Fatalf("readfile after clear: %v", err)
	}

	if got, want := faulty.Calls(OpReadFile), 2; got != want {
		t.Fatalf("calls=%d, want=%d", got, want)
	}
}

// TestFault_FileOpsIntercepted verifies write/sync on files opened through
// Fault are injectable.
func TestFault_FileOpsIntercepted(t *testing.T) {
	faulty := NewFault(NewReal())
	path := filepath.Join(t.TempDir(), "a.json")

	f, err := faulty.OpenFile(path, os.O_WRONLY|os.O_CREATE, 0o644)
	if err != nil {
		t.Fatalf("openfile: %v", err)
	}

	defer func() { _ = f.Close() }()

	cause := errors.New("disk full")
	faulty.FailWith(OpFileWrite, cause)

	if _, err := f.Write([]byte("x")); !errors.Is(err, cause) {
		t.Fatalf("write err=%v, want wrapped %v", err, cause)
	}

	faulty.Clear(OpFileWrite)
	faulty.FailWith(OpFileSync, cause)

	if _, err := f.Write([]byte("x")); err != nil {
		t.Fatalf("write after clear: %v", err)
	}

	if err := f.Sync(); !errors.Is(err, cause) {
		t.Fatalf("sync err=%v, want wrapped %v", err, cause)
	}
}

// TestIsInjected_RealErrorsAreNotInjected guards against Fault masking real
// filesystem failures as injected ones.
func TestIsInjected_RealErrorsAreNotInjected(t *testing.T) {
	faulty := NewFault(NewReal())

	_, err := faulty.ReadFile(filepath.Join(t.TempDir(), "missing.json"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}

	if IsInjected(err) {
		t.Fatalf("real error reported as injected: %v", err)
	}

	if IsInjected(nil) {
		t.Fatal("IsInjected(nil)=true")
	}
}
