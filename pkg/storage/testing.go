package storage

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
)

// DocumentStoreTestSuite defines a conformance suite that can be run
// against any DocumentStore implementation.
type DocumentStoreTestSuite struct {
	NewStore func(t *testing.T) DocumentStore
}

// RunAllTests runs every conformance test against the provided store.
func (s *DocumentStoreTestSuite) RunAllTests(t *testing.T) {
	t.Run("PutGet", s.TestPutGet)
	t.Run("Replace", s.TestReplace)
	t.Run("Delete", s.TestDelete)
	t.Run("NotFound", s.TestNotFound)
	t.Run("ListPagination", s.TestListPagination)
	t.Run("Count", s.TestCount)
	t.Run("Clear", s.TestClear)
	t.Run("ConcurrentAccess", s.TestConcurrentAccess)
}

// TestPutGet stores a document and reads it back.
func (s *DocumentStoreTestSuite) TestPutGet(t *testing.T) {
	store := s.NewStore(t)
	defer store.Close()

	ctx := context.Background()
	doc := &Document{DocID: 1, Slug: "first", Content: "a quick brown fox"}

	if err := store.Put(ctx, doc); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, err := store.Get(ctx, 1)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.DocID != doc.DocID {
		t.Errorf("expected DocID %d, got %d", doc.DocID, got.DocID)
	}
	if got.Slug != doc.Slug {
		t.Errorf("expected Slug %s, got %s", doc.Slug, got.Slug)
	}
	if got.Content != doc.Content {
		t.Errorf("expected Content %q, got %q", doc.Content, got.Content)
	}
}

// TestReplace overwrites a document under the same id.
func (s *DocumentStoreTestSuite) TestReplace(t *testing.T) {
	store := s.NewStore(t)
	defer store.Close()

	ctx := context.Background()
	if err := store.Put(ctx, &Document{DocID: 1, Slug: "v1", Content: "old"}); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := store.Put(ctx, &Document{DocID: 1, Slug: "v2", Content: "new"}); err != nil {
		t.Fatalf("Put (replace) failed: %v", err)
	}

	got, err := store.Get(ctx, 1)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Slug != "v2" || got.Content != "new" {
		t.Errorf("expected replaced document, got %+v", got)
	}

	n, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 document after replace, got %d", n)
	}
}

// TestDelete removes a document.
func (s *DocumentStoreTestSuite) TestDelete(t *testing.T) {
	store := s.NewStore(t)
	defer store.Close()

	ctx := context.Background()
	if err := store.Put(ctx, &Document{DocID: 1, Slug: "doomed", Content: "x"}); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := store.Delete(ctx, 1); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.Get(ctx, 1); err == nil {
		t.Error("expected error when getting deleted document")
	}
}

// TestNotFound checks the typed not-found error.
func (s *DocumentStoreTestSuite) TestNotFound(t *testing.T) {
	store := s.NewStore(t)
	defer store.Close()

	_, err := store.Get(context.Background(), 42)
	if err == nil {
		t.Fatal("expected error for missing document")
	}
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Errorf("expected NotFoundError, got %T: %v", err, err)
	}
}

// TestListPagination checks ordering and limit/offset behavior.
func (s *DocumentStoreTestSuite) TestListPagination(t *testing.T) {
	store := s.NewStore(t)
	defer store.Close()

	ctx := context.Background()
	for i := 1; i <= 5; i++ {
		doc := &Document{DocID: i, Slug: fmt.Sprintf("doc-%d", i), Content: "body"}
		if err := store.Put(ctx, doc); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
	}

	docs, total, err := store.List(ctx, 2, 1)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if total != 5 {
		t.Errorf("expected total 5, got %d", total)
	}
	if len(docs) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(docs))
	}
	if docs[0].DocID != 2 || docs[1].DocID != 3 {
		t.Errorf("expected doc ids [2 3], got [%d %d]", docs[0].DocID, docs[1].DocID)
	}

	// Offset past the end
	docs, _, err = store.List(ctx, 10, 10)
	if err != nil {
		t.Fatalf("List (past end) failed: %v", err)
	}
	if len(docs) != 0 {
		t.Errorf("expected no documents past the end, got %d", len(docs))
	}
}

// TestCount checks the count after a few operations.
func (s *DocumentStoreTestSuite) TestCount(t *testing.T) {
	store := s.NewStore(t)
	defer store.Close()

	ctx := context.Background()
	n, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != 0 {
		t.Errorf("expected empty store, got %d", n)
	}

	for i := 1; i <= 3; i++ {
		if err := store.Put(ctx, &Document{DocID: i, Slug: "s", Content: "c"}); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
	}
	if err := store.Delete(ctx, 2); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	n, err = store.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 documents, got %d", n)
	}
}

// TestClear empties the store.
func (s *DocumentStoreTestSuite) TestClear(t *testing.T) {
	store := s.NewStore(t)
	defer store.Close()

	ctx := context.Background()
	for i := 1; i <= 3; i++ {
		if err := store.Put(ctx, &Document{DocID: i, Slug: "s", Content: "c"}); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
	}
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	n, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != 0 {
		t.Errorf("expected empty store after clear, got %d", n)
	}
}

// TestConcurrentAccess hammers the store from multiple goroutines.
func (s *DocumentStoreTestSuite) TestConcurrentAccess(t *testing.T) {
	store := s.NewStore(t)
	defer store.Close()

	ctx := context.Background()
	var wg sync.WaitGroup
	for i := 1; i <= 20; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			doc := &Document{DocID: id, Slug: fmt.Sprintf("doc-%d", id), Content: "body"}
			if err := store.Put(ctx, doc); err != nil {
				t.Errorf("Put %d failed: %v", id, err)
				return
			}
			if _, err := store.Get(ctx, id); err != nil {
				t.Errorf("Get %d failed: %v", id, err)
			}
		}(i)
	}
	wg.Wait()

	n, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != 20 {
		t.Errorf("expected 20 documents, got %d", n)
	}
}
