package search

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
)

// sonnetsEngine indexes the sonnet corpus under testdata/sonnets, one file
// per sonnet, slugged "SONNET-{n}".
func sonnetsEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	eng := newTestEngine(t, opts...)

	n, err := eng.IndexDir(context.Background(), filepath.Join("testdata", "sonnets"), sonnetSlug)
	if err != nil {
		t.Fatalf("IndexDir failed: %v", err)
	}
	if n == 0 {
		t.Fatal("no sonnets indexed")
	}
	return eng
}

func sonnetSlug(name string) string {
	return "SONNET-" + strings.TrimSuffix(name, filepath.Ext(name))
}

func TestSonnets_FirstLineQueries(t *testing.T) {
	eng := sonnetsEngine(t)

	cases := []struct {
		query string
		want  string
	}{
		{"Weary with toil, I haste me to my bed", "SONNET-27"},
		{"Let me not to the marriage of true minds", "SONNET-116"},
		{"My mistress' eyes are nothing like the sun", "SONNET-130"},
		{"Shall I compare thee to a summer's day?", "SONNET-18"},
	}
	for _, tc := range cases {
		t.Run(tc.want, func(t *testing.T) {
			results := eng.Search(tc.query)
			if len(results) == 0 {
				t.Fatalf("no results for %q", tc.query)
			}
			if results[0].Slug != tc.want {
				t.Errorf("query %q: top slug %q (%.4f), want %q",
					tc.query, results[0].Slug, results[0].Score, tc.want)
			}
		})
	}
}

func TestSonnets_FirstLineQueriesBM25(t *testing.T) {
	eng := sonnetsEngine(t, WithScorer(NewBM25Scorer()))

	cases := []struct {
		query string
		want  string
	}{
		{"Weary with toil, I haste me to my bed", "SONNET-27"},
		{"Let me not to the marriage of true minds", "SONNET-116"},
	}
	for _, tc := range cases {
		results := eng.Search(tc.query)
		if len(results) == 0 {
			t.Fatalf("no results for %q", tc.query)
		}
		if results[0].Slug != tc.want {
			t.Errorf("query %q: top slug %q, want %q", tc.query, results[0].Slug, tc.want)
		}
	}
}

func TestSonnets_ScoresNonIncreasing(t *testing.T) {
	eng := sonnetsEngine(t)
	results := eng.Search("love and time and death")
	for i := 1; i < len(results); i++ {
		if results[i].Score > results[i-1].Score {
			t.Errorf("scores not non-increasing at rank %d", i)
		}
	}
}

func TestSonnets_CommitRoundTrip(t *testing.T) {
	eng := sonnetsEngine(t)
	if err := eng.Commit(); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	reopened, err := New(eng.Filepath())
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}

	query := "Weary with toil, I haste me to my bed"
	before := eng.Search(query)
	after := reopened.Search(query)
	if len(before) != len(after) {
		t.Fatalf("result counts differ: %d vs %d", len(before), len(after))
	}
	for i := range before {
		if before[i] != after[i] {
			t.Errorf("rank %d differs after reload: %+v vs %+v", i, before[i], after[i])
		}
	}
}

func TestSonnets_InvariantsAfterBulkIngest(t *testing.T) {
	eng := sonnetsEngine(t)
	checkInvariants(t, eng)

	sum := 0
	for id := 1; id <= eng.NumDocs(); id++ {
		info, ok := eng.Doc(id)
		if !ok {
			t.Fatalf("missing doc %d", id)
		}
		sum += info.NumTerms
	}
	if sum != eng.NumTerms() {
		t.Errorf("doc length sum %d != num_terms %d", sum, eng.NumTerms())
	}
}

func TestSonnets_RateLimitedIngest(t *testing.T) {
	eng := newTestEngine(t)
	// High enough not to slow the test; exercises the limiter path.
	n, err := eng.IndexDir(context.Background(), filepath.Join("testdata", "sonnets"),
		sonnetSlug, WithRateLimit(10000))
	if err != nil {
		t.Fatalf("IndexDir failed: %v", err)
	}
	if n != eng.NumDocs() {
		t.Errorf("IndexDir reported %d, engine has %d", n, eng.NumDocs())
	}
}

func TestSonnets_CancelledIngestStopsAtBoundary(t *testing.T) {
	eng := newTestEngine(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	n, err := eng.IndexDir(ctx, filepath.Join("testdata", "sonnets"), sonnetSlug)
	if err == nil {
		t.Fatal("expected context error")
	}
	if n != 0 || eng.NumDocs() != 0 {
		t.Errorf("expected no documents indexed, got %d", eng.NumDocs())
	}
	checkInvariants(t, eng)
}

func ExampleEngine_Search() {
	eng, err := New(filepath.Join("testdata", "example-index.json"))
	if err != nil {
		fmt.Println(err)
		return
	}
	_, _ = eng.IndexText(context.Background(), "the quick brown fox", "fable")
	for _, res := range eng.Search("quick fox") {
		fmt.Println(res.Slug)
	}
	// Output: fable
}
