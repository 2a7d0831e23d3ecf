package search

// Tokenizer splits raw text into a stream of raw tokens.
type Tokenizer interface {
	Tokenize(text string) TokenStream
}

// TokenStream yields tokens one at a time, in order. The second return
// value is false once the stream is exhausted.
type TokenStream interface {
	Next() (string, bool)
}

// AlphanumericTokenizer emits maximal runs of ASCII letters and digits,
// lowercased. Every other byte, including non-ASCII runes, is a separator.
type AlphanumericTokenizer struct{}

// Tokenize returns a lazy stream over text. The stream holds only a cursor
// into the input; no token slice is materialized up front.
func (AlphanumericTokenizer) Tokenize(text string) TokenStream {
	return &alnumStream{src: text}
}

type alnumStream struct {
	src string
	pos int
}

func (s *alnumStream) Next() (string, bool) {
	for s.pos < len(s.src) && !isTokenByte(s.src[s.pos]) {
		s.pos++
	}
	if s.pos >= len(s.src) {
		return "", false
	}
	start := s.pos
	for s.pos < len(s.src) && isTokenByte(s.src[s.pos]) {
		s.pos++
	}
	return lowerASCII(s.src[start:s.pos]), true
}

func isTokenByte(c byte) bool {
	return ('a' <= c && c <= 'z') ||
		('A' <= c && c <= 'Z') ||
		('0' <= c && c <= '9')
}

// lowerASCII lowercases a token that is known to contain only ASCII
// alphanumerics. Tokens that are already lowercase are returned unchanged.
func lowerASCII(s string) string {
	hasUpper := false
	for i := 0; i < len(s); i++ {
		if 'A' <= s[i] && s[i] <= 'Z' {
			hasUpper = true
			break
		}
	}
	if !hasUpper {
		return s
	}
	b := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if 'A' <= c && c <= 'Z' {
			c += 'a' - 'A'
		}
		b[i] = c
	}
	return string(b)
}
