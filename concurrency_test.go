package tinyparam

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// Contract: concurrent Gets and Sets on one handle never tear a value and
// always leave the store holding something some writer actually wrote.
func TestConcurrent_ReadersAndWriters(t *testing.T) {
	t.Parallel()

	const (
		readers         = 4
		writers         = 3
		writesPerWriter = 20
		readsPerReader  = 50
	)

	store, err := Open(writeParams(t, testParams))
	require.NoError(t, err)

	defer func() { _ = store.Close() }()

	// Every value any writer will ever submit, plus the initial one.
	valid := map[string]bool{"50": true}

	for w := range writers {
		for i := range writesPerWriter {
			valid[fmt.Sprintf("w%d-%d", w, i)] = true
		}
	}

	var wg sync.WaitGroup

	var mu sync.Mutex

	var torn []string

	for r := range readers {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for range readsPerReader {
				value, err := store.Get("system.audio.volume")
				require.NoError(t, err, "reader %d", r)

				if !valid[value] {
					mu.Lock()
					torn = append(torn, value)
					mu.Unlock()
				}
			}
		}()
	}

	for w := range writers {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for i := range writesPerWriter {
				err := store.Set("system.audio.volume", fmt.Sprintf("w%d-%d", w, i))
				require.NoError(t, err, "writer %d write %d", w, i)
			}
		}()
	}

	wg.Wait()

	require.Empty(t, torn, "readers observed values no writer submitted")

	// After all writers join, the value is the last write of some writer.
	final, err := store.Get("system.audio.volume")
	require.NoError(t, err)
	require.True(t, valid[final] && final != "50", "final value %q was never written", final)

	// The file on disk parses cleanly and agrees with the live tree.
	fresh, err := Open(store.Path())
	require.NoError(t, err)

	defer func() { _ = fresh.Close() }()

	onDisk, err := fresh.Get("system.audio.volume")
	require.NoError(t, err)
	require.Equal(t, final, onDisk)
}

// Contract: concurrent Gets on distinct keys proceed without interference.
func TestConcurrent_Readers(t *testing.T) {
	t.Parallel()

	store, err := Open(writeParams(t, testParams))
	require.NoError(t, err)

	defer func() { _ = store.Close() }()

	keys := map[string]string{
		"system.audio.volume":       "50",
		"system.audio.mute":         "false",
		"system.display.brightness": "75",
		"hostname":                  "box-01",
	}

	var wg sync.WaitGroup

	for key, want := range keys {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for range 100 {
				got, err := store.Get(key)
				require.NoError(t, err)
				require.Equal(t, want, got)
			}
		}()
	}

	wg.Wait()
}
