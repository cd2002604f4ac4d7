// Copyright (C) 2025 Fairlens Labs (oss@fairlens.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package registry persists run manifests in a local embedded BadgerDB.
//
// A manifest records everything needed to reproduce or audit a generation
// run: the seed, the configuration digest, partition sizes, and the written
// artifact paths. The store is append-only in practice — manifests are
// written once per run and read back for audits.
//
// License: BadgerDB is Apache 2.0 licensed (github.com/dgraph-io/badger).
package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// keyPrefix namespaces manifest keys in the database.
const keyPrefix = "run/"

// Sentinel errors for the registry package.
var (
	// ErrNotFound is returned when no manifest exists for a run ID.
	ErrNotFound = errors.New("run manifest not found")

	// ErrEmptyRunID is returned for a manifest without a run ID.
	ErrEmptyRunID = errors.New("run id must not be empty")
)

// Manifest records one generation run.
type Manifest struct {
	RunID          string    `json:"run_id"`
	CreatedAt      time.Time `json:"created_at"`
	Seed           uint64    `json:"seed"`
	Rows           int       `json:"rows"`
	ConfigDigest   string    `json:"config_digest"`
	TrainRows      int       `json:"train_rows"`
	ValidationRows int       `json:"validation_rows"`
	TestRows       int       `json:"test_rows"`
	Artifacts      []string  `json:"artifacts,omitempty"`
}

// Config holds store configuration.
type Config struct {
	// Path is the directory for the database files. Ignored when InMemory.
	Path string

	// InMemory enables in-memory mode (no disk persistence). For tests.
	InMemory bool

	// SyncWrites enables synchronous writes for durability.
	SyncWrites bool

	// Logger receives badger's internal logs. Nil disables them.
	Logger *slog.Logger
}

// DefaultConfig returns durable on-disk defaults rooted at path.
func DefaultConfig(path string) Config {
	return Config{
		Path:       path,
		SyncWrites: true,
	}
}

// InMemoryConfig returns a configuration for tests: no disk I/O, no sync.
func InMemoryConfig() Config {
	return Config{InMemory: true}
}

// Store is a manifest store backed by BadgerDB.
type Store struct {
	db     *badger.DB
	logger *slog.Logger
}

// Open creates and opens the store. Caller must Close when done.
func Open(cfg Config) (*Store, error) {
	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if cfg.Path == "" {
			return nil, fmt.Errorf("open registry: path required for persistent store")
		}
		if err := os.MkdirAll(cfg.Path, 0750); err != nil {
			return nil, fmt.Errorf("open registry: create dir: %w", err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.
		WithSyncWrites(cfg.SyncWrites).
		WithNumVersionsToKeep(1)
	if cfg.Logger != nil {
		opts = opts.WithLogger(&badgerLogger{logger: cfg.Logger})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open registry: %w", err)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{db: db, logger: logger}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Put writes a manifest. CreatedAt defaults to now if unset.
func (s *Store) Put(m Manifest) error {
	if m.RunID == "" {
		return ErrEmptyRunID
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("put manifest %s: %w", m.RunID, err)
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyPrefix+m.RunID), data)
	})
	if err != nil {
		return fmt.Errorf("put manifest %s: %w", m.RunID, err)
	}
	s.logger.Debug("manifest recorded", "run_id", m.RunID, "seed", m.Seed)
	return nil
}

// Get returns the manifest for a run ID.
func (s *Store) Get(runID string) (Manifest, error) {
	if runID == "" {
		return Manifest{}, ErrEmptyRunID
	}
	var m Manifest
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyPrefix + runID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("run %s: %w", runID, ErrNotFound)
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &m)
		})
	})
	if err != nil {
		return Manifest{}, err
	}
	return m, nil
}

// List returns all manifests, newest first.
func (s *Store) List() ([]Manifest, error) {
	var out []Manifest
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(keyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Seek(opts.Prefix); it.ValidForPrefix(opts.Prefix); it.Next() {
			var m Manifest
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &m)
			})
			if err != nil {
				return err
			}
			out = append(out, m)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list manifests: %w", err)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// badgerLogger adapts slog.Logger to badger's Logger interface.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Info(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}
