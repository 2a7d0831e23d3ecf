package search

import "math"

// TermStats carries the per-(term, candidate document) quantities a scorer
// consumes. All counts come from the engine and the term's inverted list;
// scorers never see positions or each other's state.
type TermStats struct {
	// QF is the number of occurrences of the term in the query.
	QF int
	// DF is the number of occurrences of the term in the candidate
	// document (0 if absent).
	DF int
	// CF is the number of occurrences of the term across the corpus.
	CF int
	// ND is the number of documents containing the term.
	ND int
	// NC is the total number of documents.
	NC int
	// DL is the length, in terms, of the candidate document.
	DL int
	// DC is the total number of terms across the corpus.
	DC int
	// AvDL is DC / NC.
	AvDL float64
}

// Scorer computes one term's contribution to a document's score. The
// engine sums contributions over the query's unique terms.
type Scorer interface {
	// Contribution returns the score contribution for one term.
	Contribution(stats TermStats) float64
	// Name identifies the scorer in logs and metrics.
	Name() string
}

// BM25Scorer scores with the Okapi BM25 ranking function.
type BM25Scorer struct {
	K1 float64
	K2 float64
	B  float64
}

// NewBM25Scorer returns a BM25 scorer with the standard parameters
// k1=1.2, k2=100, b=0.75.
func NewBM25Scorer() *BM25Scorer {
	return &BM25Scorer{K1: 1.2, K2: 100, B: 0.75}
}

// Name implements Scorer.
func (s *BM25Scorer) Name() string { return "bm25" }

// Contribution implements Scorer.
func (s *BM25Scorer) Contribution(st TermStats) float64 {
	k := s.K1 * ((1 - s.B) + s.B*float64(st.DL)/st.AvDL)
	idf := math.Log10(1 / ((float64(st.ND) + 0.5) / (float64(st.NC) - float64(st.ND) + 0.5)))
	return idf *
		(((s.K1 + 1) * float64(st.DF)) / (k + float64(st.DF))) *
		(((s.K2 + 1) * float64(st.QF)) / (s.K2 + float64(st.QF)))
}

// QLScorer scores with query likelihood under Dirichlet smoothing.
type QLScorer struct {
	Mu float64
}

// NewQLScorer returns a query-likelihood scorer with mu=1500.
func NewQLScorer() *QLScorer {
	return &QLScorer{Mu: 1500}
}

// Name implements Scorer.
func (s *QLScorer) Name() string { return "ql" }

// Contribution implements Scorer. A non-positive smoothed probability
// contributes zero.
func (s *QLScorer) Contribution(st TermStats) float64 {
	p := (float64(st.DF) + s.Mu*float64(st.CF)/float64(st.DC)) / (float64(st.DL) + s.Mu)
	if p <= 0 {
		return 0
	}
	return math.Log10(p)
}
