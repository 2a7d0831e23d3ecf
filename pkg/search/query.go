package search

// processedQuery holds a query's unique terms, in first-appearance order,
// with their in-query frequencies.
type processedQuery struct {
	terms  []string
	counts map[string]int
}

// processQuery runs the text-processing chain over the query string and
// aggregates term frequencies.
func (e *Engine) processQuery(query string) processedQuery {
	pq := processedQuery{counts: make(map[string]int)}
	e.analyze(query, func(stem string) {
		if _, seen := pq.counts[stem]; !seen {
			pq.terms = append(pq.terms, stem)
		}
		pq.counts[stem]++
	})
	return pq
}
