package search

import "strings"

// Stemmer reduces a token to the normalized form used as an index key.
type Stemmer interface {
	Stem(term string) string
}

// PorterStemmer implements Step 1 (1a followed by 1b) of the Porter
// stemming algorithm. Note the eed/eedly rule removes one and three
// trailing characters respectively, landing on "ee"; this diverges from
// canonical Porter and is load-bearing for index compatibility.
type PorterStemmer struct{}

// Stem applies rule 1a followed by rule 1b.
func (PorterStemmer) Stem(term string) string {
	return step1b(step1a(term))
}

func isVowel(c byte) bool {
	switch c {
	case 'a', 'e', 'i', 'o', 'u':
		return true
	}
	return false
}

func containsVowel(s string) bool {
	for i := 0; i < len(s); i++ {
		if isVowel(s[i]) {
			return true
		}
	}
	return false
}

// firstVowel returns the index of the first vowel in s, or -1.
func firstVowel(s string) int {
	for i := 0; i < len(s); i++ {
		if isVowel(s[i]) {
			return i
		}
	}
	return -1
}

// step1a handles plural suffixes: sses, ied/ies, and a trailing s.
func step1a(term string) string {
	// Words ending in 'us' or 'ss' are left alone
	if strings.HasSuffix(term, "us") || strings.HasSuffix(term, "ss") {
		return term
	}
	if strings.HasSuffix(term, "sses") {
		return term[:len(term)-2]
	}
	if strings.HasSuffix(term, "ied") || strings.HasSuffix(term, "ies") {
		// Replace by 'i' if preceded by more than one letter, else by 'ie'
		if len(term) > 4 {
			return term[:len(term)-3] + "i"
		}
		return term[:len(term)-3] + "ie"
	}
	if strings.HasSuffix(term, "s") {
		stem := term[:len(term)-1]
		if containsVowel(stem) && !isVowel(term[len(term)-2]) {
			return stem
		}
	}
	return term
}

// step1b attempts the eed/eedly and ed/edly/ing/ingly rule groups and keeps
// the result of whichever removed the longest suffix; ties go to the group
// tried first.
func step1b(term string) string {
	best := term
	longest := 0
	if n, stemmed := ruleEedEedly(term); n > longest {
		longest, best = n, stemmed
	}
	if n, stemmed := ruleEdEdlyIngIngly(term); n > longest {
		longest, best = n, stemmed
	}
	return best
}

// ruleEedEedly replaces 'eed' or 'eedly' by 'ee' when the suffix sits after
// the first non-vowel that follows a vowel. Returns the length of the
// suffix matched and the resulting stem.
func ruleEedEedly(term string) (int, string) {
	var stem string
	eedly := false
	switch {
	case strings.HasSuffix(term, "eedly"):
		stem, eedly = term[:len(term)-5], true
	case strings.HasSuffix(term, "eed"):
		stem = term[:len(term)-3]
	default:
		return 0, term
	}
	i0 := firstVowel(stem)
	if i0 < 0 {
		return 0, term
	}
	for i := i0 + 1; i < len(stem); i++ {
		if !isVowel(stem[i]) {
			if eedly {
				return 5, term[:len(term)-3]
			}
			return 3, term[:len(term)-1]
		}
	}
	return 0, term
}

// ruleEdEdlyIngIngly deletes 'ed', 'edly', 'ing' or 'ingly' when the
// preceding part contains a vowel, then repairs the stem: restore a final
// 'e' after at/bl/iz, undouble a trailing double letter (other than l, s,
// z), or append 'e' to a short stem.
func ruleEdEdlyIngIngly(term string) (int, string) {
	// A word ending in eed/eedly belongs to the eed rule even when that
	// rule's condition fails (feed stays feed).
	if strings.HasSuffix(term, "eed") || strings.HasSuffix(term, "eedly") {
		return 0, term
	}

	var n int
	switch {
	case strings.HasSuffix(term, "edly"):
		n = 4
	case strings.HasSuffix(term, "ed"):
		n = 2
	case strings.HasSuffix(term, "ingly"):
		n = 5
	case strings.HasSuffix(term, "ing"):
		n = 3
	default:
		return 0, term
	}

	stem := term[:len(term)-n]
	if !containsVowel(stem) {
		return 0, term
	}
	switch {
	case strings.HasSuffix(stem, "at"), strings.HasSuffix(stem, "bl"), strings.HasSuffix(stem, "iz"):
		return n, stem + "e"
	case len(stem) >= 2 && stem[len(stem)-1] == stem[len(stem)-2] && !isLSZ(stem[len(stem)-1]):
		return n, stem[:len(stem)-1]
	case len(stem) < 4:
		return n, stem + "e"
	default:
		return n, stem
	}
}

func isLSZ(c byte) bool {
	return c == 'l' || c == 's' || c == 'z'
}
