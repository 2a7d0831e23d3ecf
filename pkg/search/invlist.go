package search

// PostingGroup records the positions at which one term occurs in one
// document. Positions are strictly increasing.
type PostingGroup struct {
	DocID     int
	Positions []int
}

// InvertedList holds the postings for a single term as posting groups in
// ascending doc id order. Mutation happens only during ingestion; retrieval
// reads the list through per-query Cursor values and never mutates it.
type InvertedList struct {
	Term string

	groups      []PostingGroup
	numPostings int
}

// NewInvertedList creates an empty inverted list for term.
func NewInvertedList(term string) *InvertedList {
	return &InvertedList{Term: term}
}

// AddPosting appends an occurrence of the term at position in docID.
// Callers must supply non-decreasing doc ids across calls and strictly
// increasing positions within a doc id; appends to the last group are
// coalesced so the group ordering invariant holds without re-sorting.
func (l *InvertedList) AddPosting(docID, position int) {
	l.numPostings++
	if n := len(l.groups); n > 0 && l.groups[n-1].DocID == docID {
		l.groups[n-1].Positions = append(l.groups[n-1].Positions, position)
		return
	}
	l.groups = append(l.groups, PostingGroup{DocID: docID, Positions: []int{position}})
}

// NumDocs returns the number of documents containing the term.
func (l *InvertedList) NumDocs() int {
	return len(l.groups)
}

// NumPostings returns the collection frequency of the term.
func (l *InvertedList) NumPostings() int {
	return l.numPostings
}

// Cursor returns a fresh forward-only cursor positioned at the first group.
// Cursors are independent values: any number of them may walk the same list
// concurrently as long as the list is not being mutated.
func (l *InvertedList) Cursor() *Cursor {
	return &Cursor{list: l}
}

// Cursor is a forward-only view over an inverted list's posting groups.
type Cursor struct {
	list *InvertedList
	idx  int
}

// Reset moves the cursor back to the first group.
func (c *Cursor) Reset() {
	c.idx = 0
}

// Finished reports whether no group remains.
func (c *Cursor) Finished() bool {
	return c.idx >= len(c.list.groups)
}

// CurrentDocID returns the doc id at the cursor, or 0 when finished.
func (c *Cursor) CurrentDocID() int {
	if c.Finished() {
		return 0
	}
	return c.list.groups[c.idx].DocID
}

// CurrentTermFrequency returns the number of positions at the cursor,
// or 0 when finished.
func (c *Cursor) CurrentTermFrequency() int {
	if c.Finished() {
		return 0
	}
	return len(c.list.groups[c.idx].Positions)
}

// AdvanceTo moves the cursor forward to the first group whose doc id is
// >= target. The cursor never moves backwards and may end up finished.
func (c *Cursor) AdvanceTo(target int) {
	for c.idx < len(c.list.groups) && c.list.groups[c.idx].DocID < target {
		c.idx++
	}
}
