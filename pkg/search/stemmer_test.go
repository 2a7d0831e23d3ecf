package search

import "testing"

var stemCases = []struct {
	in   string
	want string
}{
	{"ponies", "poni"},
	{"ties", "tie"},
	{"caress", "caress"},
	{"cats", "cat"},
	{"feed", "feed"},
	{"agreed", "agree"},
	{"plastered", "plaster"},
	{"bled", "bled"},
	{"motoring", "motor"},
	{"sing", "sing"},
	{"conflated", "conflate"},
	{"troubled", "trouble"},
	{"sized", "size"},
	{"hopping", "hop"},
	{"tanned", "tan"},
	{"falling", "fall"},
	{"hissing", "hiss"},
	{"fizzed", "fizz"},
	{"failing", "fail"},
	{"filing", "file"},
}

func TestPorterStemmer_Reference(t *testing.T) {
	var s PorterStemmer
	for _, tc := range stemCases {
		if got := s.Stem(tc.in); got != tc.want {
			t.Errorf("Stem(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestPorterStemmer_Step1a(t *testing.T) {
	var s PorterStemmer
	cases := []struct {
		in   string
		want string
	}{
		{"focus", "focus"},     // 'us' suffix is left alone
		{"glasses", "glass"},   // sses -> ss
		{"cried", "cri"},       // ied, long word -> i
		{"died", "die"},        // ied, short word -> ie
		{"gas", "gas"},         // vowel immediately before the s
		{"this", "this"},       // vowel immediately before the s
		{"dogs", "dog"},        // consonant before the s, vowel earlier
		{"ss", "ss"},
		{"s", "s"},
	}
	for _, tc := range cases {
		if got := s.Stem(tc.in); got != tc.want {
			t.Errorf("Stem(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestPorterStemmer_EedEedly(t *testing.T) {
	var s PorterStemmer
	cases := []struct {
		in   string
		want string
	}{
		{"agreed", "agree"},
		{"agreedly", "agree"},
		{"indeed", "indee"}, // eed bookkeeping lands on 'ee'
		{"feed", "feed"},    // no non-vowel after the first vowel in 'f'
	}
	for _, tc := range cases {
		if got := s.Stem(tc.in); got != tc.want {
			t.Errorf("Stem(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestPorterStemmer_Idempotent(t *testing.T) {
	var s PorterStemmer
	words := make([]string, 0, len(stemCases)+4)
	for _, tc := range stemCases {
		words = append(words, tc.in)
	}
	words = append(words, "running", "carelessly", "believed", "stopping")
	for _, w := range words {
		once := s.Stem(w)
		twice := s.Stem(once)
		if once != twice {
			t.Errorf("stem not idempotent for %q: %q != %q", w, once, twice)
		}
	}
}
