package search

import (
	"math"
	"testing"
)

func TestBM25Scorer_Contribution(t *testing.T) {
	s := NewBM25Scorer()
	stats := TermStats{
		QF:   1,
		DF:   2,
		CF:   5,
		ND:   3,
		NC:   10,
		DL:   20,
		DC:   200,
		AvDL: 20,
	}

	k := s.K1 * ((1 - s.B) + s.B*float64(stats.DL)/stats.AvDL)
	want := math.Log10(1/((3+0.5)/(10-3+0.5))) *
		((s.K1 + 1) * 2 / (k + 2)) *
		((s.K2 + 1) * 1 / (s.K2 + 1))

	got := s.Contribution(stats)
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("Contribution = %v, want %v", got, want)
	}
	if got <= 0 {
		t.Errorf("expected positive contribution for a rare term, got %v", got)
	}
}

func TestBM25Scorer_ZeroDF(t *testing.T) {
	s := NewBM25Scorer()
	got := s.Contribution(TermStats{QF: 1, DF: 0, CF: 5, ND: 3, NC: 10, DL: 20, DC: 200, AvDL: 20})
	if got != 0 {
		t.Errorf("expected zero contribution for absent term, got %v", got)
	}
}

func TestBM25Scorer_CommonTermNegative(t *testing.T) {
	// A term in more than half the documents gets a negative idf.
	s := NewBM25Scorer()
	got := s.Contribution(TermStats{QF: 1, DF: 1, CF: 50, ND: 9, NC: 10, DL: 20, DC: 200, AvDL: 20})
	if got >= 0 {
		t.Errorf("expected negative contribution for a ubiquitous term, got %v", got)
	}
}

func TestQLScorer_Contribution(t *testing.T) {
	s := NewQLScorer()
	stats := TermStats{DF: 2, CF: 5, DL: 20, DC: 200}

	p := (2 + s.Mu*5.0/200.0) / (20 + s.Mu)
	want := math.Log10(p)

	got := s.Contribution(stats)
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("Contribution = %v, want %v", got, want)
	}
}

func TestQLScorer_BackgroundSmoothing(t *testing.T) {
	// A term absent from the document still contributes its corpus-level
	// probability.
	s := NewQLScorer()
	got := s.Contribution(TermStats{DF: 0, CF: 5, DL: 20, DC: 200})
	want := math.Log10((s.Mu * 5.0 / 200.0) / (20 + s.Mu))
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("Contribution = %v, want %v", got, want)
	}
}

func TestQLScorer_NonPositiveProbability(t *testing.T) {
	s := NewQLScorer()
	if got := s.Contribution(TermStats{DF: 0, CF: 0, DL: 20, DC: 200}); got != 0 {
		t.Errorf("expected 0 for zero probability, got %v", got)
	}
}

func TestScorer_Names(t *testing.T) {
	if NewBM25Scorer().Name() != "bm25" {
		t.Error("wrong bm25 scorer name")
	}
	if NewQLScorer().Name() != "ql" {
		t.Error("wrong ql scorer name")
	}
}
