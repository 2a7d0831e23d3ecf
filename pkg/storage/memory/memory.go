// Package memory provides an in-memory implementation of the archive interface.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/simplesearch/simplesearch/pkg/storage"
)

// MemoryStore implements the DocumentStore interface using an in-memory map.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[int]*storage.Document
}

// NewMemoryStore creates a new in-memory archive.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		docs: make(map[int]*storage.Document),
	}
}

// Put stores or replaces a document.
func (m *MemoryStore) Put(ctx context.Context, doc *storage.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Copy to avoid external modifications
	copied := *doc
	m.docs[doc.DocID] = &copied
	return nil
}

// Get retrieves a document by id.
func (m *MemoryStore) Get(ctx context.Context, docID int) (*storage.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	doc, ok := m.docs[docID]
	if !ok {
		return nil, &storage.NotFoundError{DocID: docID}
	}
	copied := *doc
	return &copied, nil
}

// Delete removes a document by id.
func (m *MemoryStore) Delete(ctx context.Context, docID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.docs[docID]; !ok {
		return &storage.NotFoundError{DocID: docID}
	}
	delete(m.docs, docID)
	return nil
}

// List returns documents in ascending doc id order with pagination.
func (m *MemoryStore) List(ctx context.Context, limit, offset int) ([]*storage.Document, int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]int, 0, len(m.docs))
	for id := range m.docs {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	total := len(ids)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if limit <= 0 || end > total {
		end = total
	}

	docs := make([]*storage.Document, 0, end-offset)
	for _, id := range ids[offset:end] {
		copied := *m.docs[id]
		docs = append(docs, &copied)
	}
	return docs, total, nil
}

// Count returns the number of archived documents.
func (m *MemoryStore) Count(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.docs), nil
}

// Clear removes every archived document.
func (m *MemoryStore) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs = make(map[int]*storage.Document)
	return nil
}

// Close is a no-op for the in-memory archive.
func (m *MemoryStore) Close() error {
	return nil
}
