package memory

import (
	"context"
	"testing"

	"github.com/simplesearch/simplesearch/pkg/storage"
)

// TestMemoryStoreSuite runs the full conformance suite against MemoryStore.
func TestMemoryStoreSuite(t *testing.T) {
	suite := &storage.DocumentStoreTestSuite{
		NewStore: func(t *testing.T) storage.DocumentStore {
			return NewMemoryStore()
		},
	}
	suite.RunAllTests(t)
}

func TestMemoryStore_CopiesOnPutAndGet(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	doc := &storage.Document{DocID: 1, Slug: "mutable", Content: "original"}
	if err := store.Put(ctx, doc); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	// Mutating the caller's struct must not change the stored copy.
	doc.Content = "mutated"
	got, err := store.Get(ctx, 1)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Content != "original" {
		t.Errorf("stored document aliased caller memory: %q", got.Content)
	}

	// Mutating a returned struct must not change the stored copy either.
	got.Slug = "changed"
	again, err := store.Get(ctx, 1)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if again.Slug != "mutable" {
		t.Errorf("returned document aliased store memory: %q", again.Slug)
	}
}
