package badger

import (
	"testing"

	"github.com/simplesearch/simplesearch/pkg/storage"
)

// TestBadgerStoreSuite runs the full conformance suite against BadgerStore.
func TestBadgerStoreSuite(t *testing.T) {
	suite := &storage.DocumentStoreTestSuite{
		NewStore: func(t *testing.T) storage.DocumentStore {
			store, err := NewBadgerStore(&Config{Path: t.TempDir()})
			if err != nil {
				t.Fatalf("failed to open badger store: %v", err)
			}
			return store
		},
	}
	suite.RunAllTests(t)
}

func TestBadgerStore_InMemory(t *testing.T) {
	suite := &storage.DocumentStoreTestSuite{
		NewStore: func(t *testing.T) storage.DocumentStore {
			s, err := NewBadgerStore(&Config{InMemory: true})
			if err != nil {
				t.Fatalf("failed to open in-memory badger store: %v", err)
			}
			return s
		},
	}
	suite.TestPutGet(t)
	suite.TestListPagination(t)
}
