// Package badger provides a Badger-based implementation of the archive interface.
package badger

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/simplesearch/simplesearch/pkg/storage"
)

// Config holds configuration for BadgerStore.
type Config struct {
	Path       string
	SyncWrites bool
	InMemory   bool
}

// BadgerStore implements the DocumentStore interface using Badger.
type BadgerStore struct {
	db *badger.DB
}

// NewBadgerStore opens a Badger-backed archive.
func NewBadgerStore(cfg *Config) (*BadgerStore, error) {
	opts := badger.DefaultOptions(cfg.Path)
	opts.SyncWrites = cfg.SyncWrites
	opts.InMemory = cfg.InMemory
	opts.Logger = nil
	if cfg.InMemory {
		opts.Dir = ""
		opts.ValueDir = ""
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, &storage.StorageUnavailableError{Cause: err}
	}
	return &BadgerStore{db: db}, nil
}

const docKeyPrefix = "doc:"

// docKey builds a fixed-width key so that byte order matches doc id order.
func docKey(docID int) []byte {
	return []byte(fmt.Sprintf("%s%012d", docKeyPrefix, docID))
}

func serialize(doc *storage.Document) ([]byte, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, &storage.SerializationError{Operation: "marshal", Cause: err}
	}
	return data, nil
}

func deserialize(data []byte, doc *storage.Document) error {
	if err := json.Unmarshal(data, doc); err != nil {
		return &storage.SerializationError{Operation: "unmarshal", Cause: err}
	}
	return nil
}

// Put stores or replaces a document.
func (b *BadgerStore) Put(ctx context.Context, doc *storage.Document) error {
	data, err := serialize(doc)
	if err != nil {
		return err
	}
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(docKey(doc.DocID), data)
	})
}

// Get retrieves a document by id.
func (b *BadgerStore) Get(ctx context.Context, docID int) (*storage.Document, error) {
	var doc storage.Document
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(docKey(docID))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return &storage.NotFoundError{DocID: docID}
			}
			return err
		}
		return item.Value(func(val []byte) error {
			return deserialize(val, &doc)
		})
	})
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// Delete removes a document by id.
func (b *BadgerStore) Delete(ctx context.Context, docID int) error {
	return b.db.Update(func(txn *badger.Txn) error {
		key := docKey(docID)
		if _, err := txn.Get(key); err != nil {
			if err == badger.ErrKeyNotFound {
				return &storage.NotFoundError{DocID: docID}
			}
			return err
		}
		return txn.Delete(key)
	})
}

// List returns documents in ascending doc id order with pagination.
func (b *BadgerStore) List(ctx context.Context, limit, offset int) ([]*storage.Document, int, error) {
	var docs []*storage.Document
	total := 0

	err := b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(docKeyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			idx := total
			total++
			if idx < offset {
				continue
			}
			if limit > 0 && len(docs) >= limit {
				continue
			}
			var doc storage.Document
			err := it.Item().Value(func(val []byte) error {
				return deserialize(val, &doc)
			})
			if err != nil {
				return err
			}
			docs = append(docs, &doc)
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return docs, total, nil
}

// Count returns the number of archived documents.
func (b *BadgerStore) Count(ctx context.Context) (int, error) {
	count := 0
	err := b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(docKeyPrefix)
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			count++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

// Clear removes every archived document.
func (b *BadgerStore) Clear(ctx context.Context) error {
	return b.db.DropPrefix([]byte(docKeyPrefix))
}

// Close closes the underlying Badger database.
func (b *BadgerStore) Close() error {
	return b.db.Close()
}
