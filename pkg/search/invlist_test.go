package search

import (
	"reflect"
	"testing"
)

func TestInvertedList_AddPostingCoalesces(t *testing.T) {
	list := NewInvertedList("fox")
	list.AddPosting(1, 0)
	list.AddPosting(1, 4)
	list.AddPosting(3, 2)

	if list.NumDocs() != 2 {
		t.Errorf("expected 2 docs, got %d", list.NumDocs())
	}
	if list.NumPostings() != 3 {
		t.Errorf("expected 3 postings, got %d", list.NumPostings())
	}
	if !reflect.DeepEqual(list.groups[0].Positions, []int{0, 4}) {
		t.Errorf("expected positions [0 4] for doc 1, got %v", list.groups[0].Positions)
	}
	if list.groups[1].DocID != 3 {
		t.Errorf("expected second group for doc 3, got %d", list.groups[1].DocID)
	}
}

func TestCursor_Walk(t *testing.T) {
	list := NewInvertedList("fox")
	list.AddPosting(1, 0)
	list.AddPosting(4, 1)
	list.AddPosting(4, 7)
	list.AddPosting(9, 3)

	c := list.Cursor()
	if c.Finished() {
		t.Fatal("fresh cursor should not be finished")
	}
	if c.CurrentDocID() != 1 || c.CurrentTermFrequency() != 1 {
		t.Errorf("expected (1, 1), got (%d, %d)", c.CurrentDocID(), c.CurrentTermFrequency())
	}

	c.AdvanceTo(2)
	if c.CurrentDocID() != 4 || c.CurrentTermFrequency() != 2 {
		t.Errorf("expected (4, 2), got (%d, %d)", c.CurrentDocID(), c.CurrentTermFrequency())
	}

	// Advancing to a doc id behind the cursor must not move it backwards.
	c.AdvanceTo(1)
	if c.CurrentDocID() != 4 {
		t.Errorf("cursor moved backwards to %d", c.CurrentDocID())
	}

	c.AdvanceTo(10)
	if !c.Finished() {
		t.Error("expected finished cursor")
	}
	if c.CurrentTermFrequency() != 0 {
		t.Errorf("expected term frequency 0 when finished, got %d", c.CurrentTermFrequency())
	}

	c.Reset()
	if c.CurrentDocID() != 1 {
		t.Errorf("expected reset cursor at doc 1, got %d", c.CurrentDocID())
	}
}

func TestCursor_Independent(t *testing.T) {
	list := NewInvertedList("fox")
	list.AddPosting(1, 0)
	list.AddPosting(2, 0)
	list.AddPosting(3, 0)

	a := list.Cursor()
	b := list.Cursor()
	a.AdvanceTo(3)
	if b.CurrentDocID() != 1 {
		t.Errorf("advancing one cursor moved another: b at %d", b.CurrentDocID())
	}
	if a.CurrentDocID() != 3 {
		t.Errorf("expected a at 3, got %d", a.CurrentDocID())
	}
}
