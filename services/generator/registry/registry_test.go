// Copyright (C) 2025 Fairlens Labs (oss@fairlens.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package registry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// openTestStore opens an in-memory store and closes it with the test.
func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(InMemoryConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

// TestOpen_PersistentRequiresPath verifies the on-disk mode refuses an empty
// path.
func TestOpen_PersistentRequiresPath(t *testing.T) {
	_, err := Open(Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "path required")
}

// TestOpen_Persistent verifies the store creates its directory and survives
// a reopen.
func TestOpen_Persistent(t *testing.T) {
	dir := t.TempDir() + "/registry"

	store, err := Open(DefaultConfig(dir))
	require.NoError(t, err)
	require.NoError(t, store.Put(Manifest{RunID: "r1", Seed: 42, Rows: 100}))
	require.NoError(t, store.Close())

	store, err = Open(DefaultConfig(dir))
	require.NoError(t, err)
	defer store.Close()

	m, err := store.Get("r1")
	require.NoError(t, err)
	assert.Equal(t, uint64(42), m.Seed)
	assert.Equal(t, 100, m.Rows)
}

// TestStore_PutGet verifies round-tripping a manifest and the CreatedAt
// default.
func TestStore_PutGet(t *testing.T) {
	store := openTestStore(t)

	in := Manifest{
		RunID:          "run-abc",
		Seed:           7,
		Rows:           1000,
		ConfigDigest:   "deadbeef",
		TrainRows:      600,
		ValidationRows: 200,
		TestRows:       200,
		Artifacts:      []string{"out/train.csv"},
	}
	require.NoError(t, store.Put(in))

	out, err := store.Get("run-abc")
	require.NoError(t, err)
	assert.Equal(t, in.Seed, out.Seed)
	assert.Equal(t, in.ConfigDigest, out.ConfigDigest)
	assert.Equal(t, in.Artifacts, out.Artifacts)
	assert.False(t, out.CreatedAt.IsZero(), "CreatedAt should default to now")
}

// TestStore_Put_EmptyRunID verifies the run ID guard.
func TestStore_Put_EmptyRunID(t *testing.T) {
	store := openTestStore(t)
	require.ErrorIs(t, store.Put(Manifest{}), ErrEmptyRunID)
}

// TestStore_Get_NotFound verifies missing runs map to ErrNotFound.
func TestStore_Get_NotFound(t *testing.T) {
	store := openTestStore(t)

	_, err := store.Get("ghost")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = store.Get("")
	require.ErrorIs(t, err, ErrEmptyRunID)
}

// TestStore_List verifies listing returns all manifests newest first.
func TestStore_List(t *testing.T) {
	store := openTestStore(t)

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"old", "mid", "new"} {
		require.NoError(t, store.Put(Manifest{
			RunID:     id,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}))
	}

	manifests, err := store.List()
	require.NoError(t, err)
	require.Len(t, manifests, 3)
	assert.Equal(t, "new", manifests[0].RunID)
	assert.Equal(t, "mid", manifests[1].RunID)
	assert.Equal(t, "old", manifests[2].RunID)
}

// TestStore_List_Empty verifies an empty store lists nothing without error.
func TestStore_List_Empty(t *testing.T) {
	store := openTestStore(t)

	manifests, err := store.List()
	require.NoError(t, err)
	assert.Empty(t, manifests)
}

// TestStore_Put_Overwrite verifies re-recording a run ID replaces the
// manifest.
func TestStore_Put_Overwrite(t *testing.T) {
	store := openTestStore(t)

	require.NoError(t, store.Put(Manifest{RunID: "r1", Rows: 10}))
	require.NoError(t, store.Put(Manifest{RunID: "r1", Rows: 20}))

	m, err := store.Get("r1")
	require.NoError(t, err)
	assert.Equal(t, 20, m.Rows)

	manifests, err := store.List()
	require.NoError(t, err)
	assert.Len(t, manifests, 1)
}
