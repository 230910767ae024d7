// Semestra - Academic Knowledge Graph Advisor
// Copyright 2026 Semestra Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/semestra/semestra

// Package store persists saved queries in BadgerDB so they survive
// restarts. The graph itself is never persisted; it is rebuilt from
// the CSV data directory on every start.
package store

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

const savedQueryKeyPrefix = "saved_query:"

// ErrNotFound is returned when a saved query does not exist.
var ErrNotFound = errors.New("saved query not found")

// SavedQuery is a named query kept for reuse.
type SavedQuery struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Query     string    `json:"query"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SavedQueryStore is a BadgerDB-backed store for saved queries.
type SavedQueryStore struct {
	db *badger.DB
}

// Options configure the store.
type Options struct {
	// Path is the database directory. Ignored when InMemory is set.
	Path string

	// InMemory keeps the store in memory; used in tests and when no
	// persistence path is configured.
	InMemory bool
}

// Open opens or creates the store.
func Open(opts Options) (*SavedQueryStore, error) {
	badgerOpts := badger.DefaultOptions(opts.Path).
		WithLogger(nil).
		WithInMemory(opts.InMemory)
	if opts.InMemory {
		badgerOpts.Dir = ""
		badgerOpts.ValueDir = ""
	}
	db, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, fmt.Errorf("open saved query store: %w", err)
	}
	return &SavedQueryStore{db: db}, nil
}

// Close releases the underlying database.
func (s *SavedQueryStore) Close() error {
	return s.db.Close()
}

// Create stores a new saved query and returns it with its generated ID.
func (s *SavedQueryStore) Create(name, query string) (*SavedQuery, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("saved query name must not be empty")
	}
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("saved query text must not be empty")
	}

	now := time.Now().UTC()
	sq := &SavedQuery{
		ID:        uuid.NewString(),
		Name:      name,
		Query:     query,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.put(sq); err != nil {
		return nil, err
	}
	return sq, nil
}

// Get retrieves a saved query by ID.
func (s *SavedQueryStore) Get(id string) (*SavedQuery, error) {
	var sq SavedQuery
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get saved query: %w", err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &sq)
		})
	})
	if err != nil {
		return nil, err
	}
	return &sq, nil
}

// List returns all saved queries sorted by name, then creation time.
func (s *SavedQueryStore) List() ([]*SavedQuery, error) {
	var out []*SavedQuery
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(savedQueryKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var sq SavedQuery
				if err := json.Unmarshal(val, &sq); err != nil {
					return err
				}
				out = append(out, &sq)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// Update replaces the name and query of an existing saved query.
func (s *SavedQueryStore) Update(id, name, query string) (*SavedQuery, error) {
	sq, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if name = strings.TrimSpace(name); name != "" {
		sq.Name = name
	}
	if strings.TrimSpace(query) != "" {
		sq.Query = query
	}
	sq.UpdatedAt = time.Now().UTC()
	if err := s.put(sq); err != nil {
		return nil, err
	}
	return sq, nil
}

// Delete removes a saved query.
func (s *SavedQueryStore) Delete(id string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(key(id)); errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		} else if err != nil {
			return fmt.Errorf("get saved query: %w", err)
		}
		return txn.Delete(key(id))
	})
}

func (s *SavedQueryStore) put(sq *SavedQuery) error {
	data, err := json.Marshal(sq)
	if err != nil {
		return fmt.Errorf("marshal saved query: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key(sq.ID), data)
	})
}

func key(id string) []byte {
	return []byte(savedQueryKeyPrefix + id)
}
