package search

import (
	"reflect"
	"testing"
)

func collectTokens(text string) []string {
	var tokens []string
	stream := AlphanumericTokenizer{}.Tokenize(text)
	for {
		tok, ok := stream.Next()
		if !ok {
			return tokens
		}
		tokens = append(tokens, tok)
	}
}

func TestTokenizer_Basic(t *testing.T) {
	got := collectTokens("Hello, world! 123abc")
	want := []string{"hello", "world", "123abc"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestTokenizer_TrailingToken(t *testing.T) {
	got := collectTokens("end of input")
	want := []string{"end", "of", "input"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestTokenizer_SeparatorRuns(t *testing.T) {
	got := collectTokens("--a...b,,   c--")
	want := []string{"a", "b", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestTokenizer_OnlySeparators(t *testing.T) {
	if got := collectTokens("?!... --- ,,,"); got != nil {
		t.Errorf("expected no tokens, got %v", got)
	}
}

func TestTokenizer_Empty(t *testing.T) {
	if got := collectTokens(""); got != nil {
		t.Errorf("expected no tokens, got %v", got)
	}
}

func TestTokenizer_NonASCIIIsSeparator(t *testing.T) {
	got := collectTokens("café naïve 世界 abc")
	want := []string{"caf", "na", "ve", "abc"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestTokenizer_Lowercases(t *testing.T) {
	got := collectTokens("MiXeD CASE Words123")
	want := []string{"mixed", "case", "words123"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestTokenizer_Streaming(t *testing.T) {
	// The stream yields tokens one at a time without materializing the rest.
	stream := AlphanumericTokenizer{}.Tokenize("one two three")
	tok, ok := stream.Next()
	if !ok || tok != "one" {
		t.Fatalf("expected first token %q, got %q (%v)", "one", tok, ok)
	}
	tok, ok = stream.Next()
	if !ok || tok != "two" {
		t.Fatalf("expected second token %q, got %q (%v)", "two", tok, ok)
	}
	tok, ok = stream.Next()
	if !ok || tok != "three" {
		t.Fatalf("expected third token %q, got %q (%v)", "three", tok, ok)
	}
	if _, ok := stream.Next(); ok {
		t.Error("expected exhausted stream")
	}
}
