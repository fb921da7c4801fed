// Aerys - Location Tracking and Map Layer Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aerys

package docstore

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync/atomic"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/aerys/internal/metrics"
)

// Keys are "<collection>:<id>". ObjectIDs sort by creation time, so prefix
// iteration yields insertion order.
const keySeparator = ":"

// maxConflictRetries bounds retries of read-modify-write transactions that
// lose a race with a concurrent writer.
const maxConflictRetries = 10

// BadgerStore implements Store on an embedded BadgerDB.
type BadgerStore struct {
	db     *badger.DB
	ownsDB bool
	closed atomic.Bool
}

// BadgerOptions configures OpenBadger.
type BadgerOptions struct {
	Path     string
	InMemory bool
}

// OpenBadger opens (or creates) a BadgerDB and wraps it in a BadgerStore.
func OpenBadger(opts BadgerOptions) (*BadgerStore, error) {
	bopts := badger.DefaultOptions(opts.Path)
	if opts.InMemory {
		bopts = badger.DefaultOptions("").WithInMemory(true)
	}
	bopts = bopts.WithLogger(nil)

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %q: %w", opts.Path, err)
	}
	return &BadgerStore{db: db, ownsDB: true}, nil
}

// NewBadgerStore wraps an already open database. Close will not close db.
func NewBadgerStore(db *badger.DB) *BadgerStore {
	return &BadgerStore{db: db}
}

func collectionPrefix(collection string) []byte {
	return []byte(collection + keySeparator)
}

func documentKey(collection, id string) []byte {
	return []byte(collection + keySeparator + id)
}

func (s *BadgerStore) observe(op, collection string, start time.Time, err error) {
	metrics.RecordStoreOperation("badger", op, collection, time.Since(start), err)
}

func (s *BadgerStore) InsertOne(ctx context.Context, collection string, doc Document) (id string, err error) {
	defer func(start time.Time) { s.observe("insert_one", collection, start, err) }(time.Now())
	if err := s.check(ctx); err != nil {
		return "", err
	}

	stored, err := normalizeDocument(doc)
	if err != nil {
		return "", err
	}
	id = stored.ID()
	if id == "" {
		id = NewID()
		stored[IDField] = id
	}

	data, err := json.Marshal(stored)
	if err != nil {
		return "", fmt.Errorf("marshal document: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		key := documentKey(collection, id)
		if _, err := txn.Get(key); err == nil {
			return fmt.Errorf("duplicate %s in %s: %s", IDField, collection, id)
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		return txn.Set(key, data)
	})
	if err != nil {
		return "", fmt.Errorf("insert into %s: %w", collection, err)
	}
	return id, nil
}

func (s *BadgerStore) Find(ctx context.Context, collection string, filter Filter) (docs []Document, err error) {
	defer func(start time.Time) { s.observe("find", collection, start, err) }(time.Now())
	if err := s.check(ctx); err != nil {
		return nil, err
	}

	f, err := filter.normalized()
	if err != nil {
		return nil, err
	}

	docs = []Document{}
	err = s.db.View(func(txn *badger.Txn) error {
		return scan(txn, collection, func(_ []byte, doc Document) (bool, error) {
			if f.Matches(doc) {
				docs = append(docs, doc)
			}
			return true, nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("find in %s: %w", collection, err)
	}
	return docs, nil
}

func (s *BadgerStore) FindOne(ctx context.Context, collection string, filter Filter) (doc Document, err error) {
	defer func(start time.Time) { s.observe("find_one", collection, start, err) }(time.Now())
	if err := s.check(ctx); err != nil {
		return nil, err
	}

	f, err := filter.normalized()
	if err != nil {
		return nil, err
	}

	err = s.db.View(func(txn *badger.Txn) error {
		var found error
		doc, _, found = findFirst(txn, collection, f)
		return found
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find one in %s: %w", collection, err)
	}
	return doc, nil
}

func (s *BadgerStore) UpdateOne(ctx context.Context, collection string, filter Filter, set Document) (res UpdateResult, err error) {
	defer func(start time.Time) { s.observe("update_one", collection, start, err) }(time.Now())
	if err := s.check(ctx); err != nil {
		return UpdateResult{}, err
	}

	f, err := filter.normalized()
	if err != nil {
		return UpdateResult{}, err
	}
	changes, err := normalizeDocument(set)
	if err != nil {
		return UpdateResult{}, err
	}
	if _, ok := changes[IDField]; ok {
		return UpdateResult{}, fmt.Errorf("update of %s is not allowed", IDField)
	}

	err = s.retryOnConflict(ctx, func(txn *badger.Txn) error {
		res = UpdateResult{}
		doc, key, err := findFirst(txn, collection, f)
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		res.MatchedCount = 1

		modified := false
		for k, v := range changes {
			if old, ok := doc[k]; !ok || !reflect.DeepEqual(old, v) {
				doc[k] = v
				modified = true
			}
		}
		if !modified {
			return nil
		}

		data, err := json.Marshal(doc)
		if err != nil {
			return fmt.Errorf("marshal document: %w", err)
		}
		if err := txn.Set(key, data); err != nil {
			return err
		}
		res.ModifiedCount = 1
		return nil
	})
	if err != nil {
		return UpdateResult{}, fmt.Errorf("update in %s: %w", collection, err)
	}
	return res, nil
}

func (s *BadgerStore) DeleteOne(ctx context.Context, collection string, filter Filter) (deleted int64, err error) {
	defer func(start time.Time) { s.observe("delete_one", collection, start, err) }(time.Now())
	if err := s.check(ctx); err != nil {
		return 0, err
	}

	f, err := filter.normalized()
	if err != nil {
		return 0, err
	}

	err = s.retryOnConflict(ctx, func(txn *badger.Txn) error {
		deleted = 0
		_, key, err := findFirst(txn, collection, f)
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := txn.Delete(key); err != nil {
			return err
		}
		deleted = 1
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("delete in %s: %w", collection, err)
	}
	return deleted, nil
}

// Ping verifies the database is open and readable.
func (s *BadgerStore) Ping(ctx context.Context) error {
	if err := s.check(ctx); err != nil {
		return err
	}
	return s.db.View(func(*badger.Txn) error { return nil })
}

// Close closes the underlying database when the store opened it.
func (s *BadgerStore) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	if !s.ownsDB {
		return nil
	}
	return s.db.Close()
}

func (s *BadgerStore) check(ctx context.Context) error {
	if s.closed.Load() || s.db.IsClosed() {
		return ErrClosed
	}
	return ctx.Err()
}

func (s *BadgerStore) retryOnConflict(ctx context.Context, fn func(txn *badger.Txn) error) error {
	var err error
	for attempt := 0; attempt < maxConflictRetries; attempt++ {
		err = s.db.Update(fn)
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt+1) * time.Millisecond):
		}
	}
	return err
}

// scan walks every document of a collection in key order until fn returns false.
func scan(txn *badger.Txn, collection string, fn func(key []byte, doc Document) (bool, error)) error {
	prefix := collectionPrefix(collection)
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	it := txn.NewIterator(opts)
	defer it.Close()

	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		item := it.Item()
		var doc Document
		if err := item.Value(func(val []byte) error {
			return DecodeJSON(val, &doc)
		}); err != nil {
			return fmt.Errorf("decode %s: %w", item.Key(), err)
		}
		more, err := fn(item.KeyCopy(nil), doc)
		if err != nil {
			return err
		}
		if !more {
			return nil
		}
	}
	return nil
}

// findFirst returns the first document matching f, using a direct key
// lookup when the filter is on _id alone.
func findFirst(txn *badger.Txn, collection string, f Filter) (Document, []byte, error) {
	if id, ok := f[IDField].(string); ok {
		key := documentKey(collection, id)
		item, err := txn.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, nil, ErrNotFound
		}
		if err != nil {
			return nil, nil, err
		}
		var doc Document
		if err := item.Value(func(val []byte) error {
			return DecodeJSON(val, &doc)
		}); err != nil {
			return nil, nil, fmt.Errorf("decode %s: %w", key, err)
		}
		if !f.Matches(doc) {
			return nil, nil, ErrNotFound
		}
		return doc, key, nil
	}

	var (
		found    Document
		foundKey []byte
	)
	err := scan(txn, collection, func(key []byte, doc Document) (bool, error) {
		if f.Matches(doc) {
			found, foundKey = doc, key
			return false, nil
		}
		return true, nil
	})
	if err != nil {
		return nil, nil, err
	}
	if found == nil {
		return nil, nil, ErrNotFound
	}
	return found, foundKey, nil
}
