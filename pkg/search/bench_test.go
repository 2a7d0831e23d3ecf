package search

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
)

func benchCorpusEngine(b *testing.B) *Engine {
	b.Helper()
	eng, err := New(filepath.Join(b.TempDir(), "index.json"))
	if err != nil {
		b.Fatal(err)
	}
	ctx := context.Background()
	words := []string{"search", "engine", "index", "token", "stem", "score",
		"document", "query", "posting", "cursor", "merge", "rank"}
	for i := 0; i < 200; i++ {
		var sb strings.Builder
		for j := 0; j < 60; j++ {
			sb.WriteString(words[(i+j*7)%len(words)])
			sb.WriteByte(' ')
		}
		if _, err := eng.IndexText(ctx, sb.String(), fmt.Sprintf("doc-%d", i)); err != nil {
			b.Fatal(err)
		}
	}
	return eng
}

func BenchmarkIndexText(b *testing.B) {
	eng, err := New(filepath.Join(b.TempDir(), "index.json"))
	if err != nil {
		b.Fatal(err)
	}
	ctx := context.Background()
	text := strings.Repeat("the quick brown fox jumps over the lazy dog ", 20)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := eng.IndexText(ctx, text, "bench"); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkSearch(b *testing.B) {
	eng := benchCorpusEngine(b)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if res := eng.Search("document ranking score"); len(res) == 0 {
			b.Fatal("no results")
		}
	}
}

func BenchmarkStem(b *testing.B) {
	var s PorterStemmer
	words := []string{"running", "agreed", "ponies", "hopping", "classes", "motoring"}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Stem(words[i%len(words)])
	}
}
