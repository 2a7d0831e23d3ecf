// Package search implements an embeddable full-text search engine with a
// positional inverted index, document-at-a-time retrieval, and pluggable
// scoring. Engine state persists as a single JSON artifact.
package search

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/simplesearch/simplesearch/pkg/logger"
	"github.com/simplesearch/simplesearch/pkg/metrics"
	"github.com/simplesearch/simplesearch/pkg/storage"
)

// DocInfo stores the metadata kept for an indexed document.
type DocInfo struct {
	// Slug is the caller-supplied external name returned in results.
	Slug string
	// NumTerms is the number of post-stemming tokens the document produced.
	NumTerms int
}

// Result is one ranked search hit.
type Result struct {
	Slug  string  `json:"slug"`
	Score float64 `json:"score"`
}

// Engine owns the inverted index and document table and drives ingestion,
// retrieval and persistence. A single Engine instance owns its on-disk
// artifact exclusively.
//
// Searches take the read lock and keep all cursor state per call, so any
// number of concurrent Search calls are safe; ingestion and ClearAllData
// serialize behind the write lock. Commit takes the read lock, so it
// excludes mutation but may run alongside searches.
type Engine struct {
	mu sync.RWMutex

	id       string
	filepath string

	index    map[string]*InvertedList
	docs     map[int]DocInfo
	numDocs  int
	numTerms int

	tokenizer Tokenizer
	stopper   Stopper
	stemmer   Stemmer
	scorer    Scorer

	log     logger.Logger
	metrics *metrics.Manager
	archive storage.DocumentStore
}

// Option configures an Engine.
type Option func(*Engine)

// WithTokenizer replaces the default alphanumeric tokenizer.
func WithTokenizer(t Tokenizer) Option {
	return func(e *Engine) { e.tokenizer = t }
}

// WithStopper sets a stop-word filter. By default no token is stopped.
func WithStopper(s Stopper) Option {
	return func(e *Engine) { e.stopper = s }
}

// WithStemmer replaces the default Porter step-1 stemmer.
func WithStemmer(s Stemmer) Option {
	return func(e *Engine) { e.stemmer = s }
}

// WithScorer replaces the default query-likelihood scorer.
func WithScorer(s Scorer) Option {
	return func(e *Engine) { e.scorer = s }
}

// WithLogger sets the engine logger. Defaults to the global logger.
func WithLogger(l logger.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithMetrics attaches a metrics manager.
func WithMetrics(m *metrics.Manager) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithArchive attaches a raw-document archive. When set, every indexed
// document's original text is stored and can be fetched with Content.
func WithArchive(store storage.DocumentStore) Option {
	return func(e *Engine) { e.archive = store }
}

// New creates an engine persisted at path, which must end in ".json".
// If the artifact exists its state is loaded; otherwise the engine starts
// empty. Nothing is written to disk until Commit.
func New(path string, opts ...Option) (*Engine, error) {
	if filepath.Ext(path) != ".json" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPath, path)
	}

	e := &Engine{
		id:        uuid.NewString()[:8],
		filepath:  path,
		index:     make(map[string]*InvertedList),
		docs:      make(map[int]DocInfo),
		tokenizer: AlphanumericTokenizer{},
		stemmer:   PorterStemmer{},
		scorer:    NewQLScorer(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.log == nil {
		e.log = logger.Global()
	}
	e.log = e.log.With("component", "engine", "engine_id", e.id)

	index, docs, err := loadArtifact(path)
	if err != nil {
		return nil, err
	}
	e.index = index
	e.docs = docs
	e.numDocs = len(docs)
	for _, list := range index {
		e.numTerms += list.NumPostings()
	}
	if e.metrics != nil {
		e.metrics.SetCorpusSize(e.numDocs, e.numTerms)
	}

	e.log.Info("engine opened",
		"path", path,
		"num_docs", e.numDocs,
		"num_terms", e.numTerms,
		"scorer", e.scorer.Name(),
	)
	return e, nil
}

// analyze runs the text-processing chain (tokenize, stop, stem) over text
// and calls yield for every emitted stem, in order.
func (e *Engine) analyze(text string, yield func(stem string)) {
	stream := e.tokenizer.Tokenize(text)
	for {
		token, ok := stream.Next()
		if !ok {
			return
		}
		if e.stopper != nil && e.stopper.IsStopword(token) {
			continue
		}
		yield(e.stemmer.Stem(token))
	}
}

// IndexText indexes text under the given slug and returns the assigned
// doc id. Postings are buffered per document and applied to the index only
// after processing completes, so a failure leaves the engine unchanged.
func (e *Engine) IndexText(ctx context.Context, text, slug string) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	start := time.Now()
	docID := e.numDocs + 1

	pending := make(map[string][]int)
	numTerms := 0
	e.analyze(text, func(stem string) {
		pending[stem] = append(pending[stem], numTerms)
		numTerms++
	})

	if e.archive != nil {
		doc := &storage.Document{
			DocID:    docID,
			Slug:     slug,
			Content:  text,
			StoredAt: time.Now().UTC(),
		}
		if err := e.archive.Put(ctx, doc); err != nil {
			return 0, fmt.Errorf("search: archive document %q: %w", slug, err)
		}
	}

	for term, positions := range pending {
		list, ok := e.index[term]
		if !ok {
			list = NewInvertedList(term)
			e.index[term] = list
		}
		for _, pos := range positions {
			list.AddPosting(docID, pos)
		}
	}
	e.docs[docID] = DocInfo{Slug: slug, NumTerms: numTerms}
	e.numDocs++
	e.numTerms += numTerms

	if e.metrics != nil {
		e.metrics.ObserveIndex(numTerms, time.Since(start))
		e.metrics.SetCorpusSize(e.numDocs, e.numTerms)
	}
	e.log.DebugContext(ctx, "indexed document",
		"doc_id", docID,
		"slug", slug,
		"num_terms", numTerms,
	)
	return docID, nil
}

// IndexFile reads the UTF-8 file at path and indexes its contents under
// slug. I/O errors are surfaced and no partial document is indexed.
func (e *Engine) IndexFile(ctx context.Context, path, slug string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("search: read %q: %w", path, err)
	}
	return e.IndexText(ctx, string(data), slug)
}

type scoredDoc struct {
	docID int
	score float64
}

// termCursor pairs one query term's statistics with a cursor over its
// inverted list for the duration of one search.
type termCursor struct {
	qf     int
	cf     int
	nd     int
	cursor *Cursor
}

// Search processes the query through the text chain and scores every
// document containing at least one query term, document-at-a-time.
// Results are ordered by descending score, ties by ascending doc id.
// Query terms absent from the index are dropped; an empty index yields no
// results.
func (e *Engine) Search(query string) []Result {
	e.mu.RLock()
	defer e.mu.RUnlock()

	start := time.Now()
	results := e.searchLocked(query)
	if e.metrics != nil {
		e.metrics.ObserveSearch(e.scorer.Name(), len(results), time.Since(start))
	}
	return results
}

func (e *Engine) searchLocked(query string) []Result {
	if e.numDocs == 0 {
		return nil
	}

	pq := e.processQuery(query)
	cursors := make([]termCursor, 0, len(pq.terms))
	for _, term := range pq.terms {
		list, ok := e.index[term]
		if !ok {
			continue
		}
		cursors = append(cursors, termCursor{
			qf:     pq.counts[term],
			cf:     list.NumPostings(),
			nd:     list.NumDocs(),
			cursor: list.Cursor(),
		})
	}
	if len(cursors) == 0 {
		return nil
	}

	avdl := float64(e.numTerms) / float64(e.numDocs)
	var scored []scoredDoc

	for {
		// Next candidate: smallest current doc id among unfinished cursors.
		next := 0
		found := false
		for i := range cursors {
			if cursors[i].cursor.Finished() {
				continue
			}
			if id := cursors[i].cursor.CurrentDocID(); !found || id < next {
				next, found = id, true
			}
		}
		if !found {
			break
		}

		info := e.docs[next]
		score := 0.0
		for i := range cursors {
			tc := &cursors[i]
			df := 0
			if !tc.cursor.Finished() && tc.cursor.CurrentDocID() == next {
				df = tc.cursor.CurrentTermFrequency()
			}
			score += e.scorer.Contribution(TermStats{
				QF:   tc.qf,
				DF:   df,
				CF:   tc.cf,
				ND:   tc.nd,
				NC:   e.numDocs,
				DL:   info.NumTerms,
				DC:   e.numTerms,
				AvDL: avdl,
			})
		}
		scored = append(scored, scoredDoc{docID: next, score: score})

		for i := range cursors {
			cursors[i].cursor.AdvanceTo(next + 1)
		}
	}

	// The merge emits ascending doc ids, so a stable sort leaves ties
	// ordered by ascending doc id.
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	results := make([]Result, len(scored))
	for i, sd := range scored {
		results[i] = Result{Slug: e.docs[sd.docID].Slug, Score: sd.score}
	}
	return results
}

// Commit writes the entire engine state to the artifact path. The artifact
// is written to a temporary file and renamed into place so a crash cannot
// leave a torn file.
func (e *Engine) Commit() error {
	e.mu.RLock()
	defer e.mu.RUnlock()

	start := time.Now()
	data, err := encodeState(e.index, e.docs)
	if err != nil {
		return fmt.Errorf("search: encode index: %w", err)
	}

	tmp := fmt.Sprintf("%s.tmp-%s", e.filepath, uuid.NewString()[:8])
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("search: write index artifact: %w", err)
	}
	if err := os.Rename(tmp, e.filepath); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("search: replace index artifact: %w", err)
	}

	if e.metrics != nil {
		e.metrics.ObserveCommit(len(data), time.Since(start))
	}
	e.log.Info("committed index",
		"path", e.filepath,
		"num_docs", e.numDocs,
		"num_terms", e.numTerms,
		"bytes", len(data),
	)
	return nil
}

// ClearAllData resets the in-memory state to empty. The on-disk artifact
// and the archive are untouched until the next Commit.
func (e *Engine) ClearAllData() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.index = make(map[string]*InvertedList)
	e.docs = make(map[int]DocInfo)
	e.numDocs = 0
	e.numTerms = 0

	if e.metrics != nil {
		e.metrics.SetCorpusSize(0, 0)
	}
	e.log.Warn("cleared all engine data", "path", e.filepath)
}

// Content fetches the archived raw text of a document.
func (e *Engine) Content(ctx context.Context, docID int) (string, error) {
	if e.archive == nil {
		return "", ErrNoArchive
	}
	doc, err := e.archive.Get(ctx, docID)
	if err != nil {
		return "", err
	}
	return doc.Content, nil
}

// NumDocs returns the number of indexed documents.
func (e *Engine) NumDocs() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.numDocs
}

// NumTerms returns the total number of term occurrences in the index.
func (e *Engine) NumTerms() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.numTerms
}

// Doc returns the document record for a doc id.
func (e *Engine) Doc(docID int) (DocInfo, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	info, ok := e.docs[docID]
	return info, ok
}

// Filepath returns the artifact path the engine persists to.
func (e *Engine) Filepath() string {
	return e.filepath
}
