package search

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strconv"
)

// Artifact schema. Two top-level members, "doc_data" and "index"; key names
// are part of the on-disk contract.
type docRecord struct {
	Slug     string `json:"slug"`
	NumTerms int    `json:"num_terms"`
}

type postingGroupRecord struct {
	DocID    int   `json:"doc_id"`
	Postings []int `json:"postings"`
}

type invertedListRecord struct {
	Term        string               `json:"term"`
	PostingList []postingGroupRecord `json:"posting_list"`
}

type artifact struct {
	DocData map[string]docRecord `json:"doc_data"`
	Index   []invertedListRecord `json:"index"`
}

// encodeState serializes the index and document table. Terms are emitted in
// lexicographic order so the artifact is deterministic and diffable.
func encodeState(index map[string]*InvertedList, docs map[int]DocInfo) ([]byte, error) {
	art := artifact{
		DocData: make(map[string]docRecord, len(docs)),
		Index:   make([]invertedListRecord, 0, len(index)),
	}
	for id, info := range docs {
		art.DocData[strconv.Itoa(id)] = docRecord{Slug: info.Slug, NumTerms: info.NumTerms}
	}

	terms := make([]string, 0, len(index))
	for term := range index {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	for _, term := range terms {
		list := index[term]
		rec := invertedListRecord{
			Term:        term,
			PostingList: make([]postingGroupRecord, 0, len(list.groups)),
		}
		for _, g := range list.groups {
			positions := make([]int, len(g.Positions))
			copy(positions, g.Positions)
			rec.PostingList = append(rec.PostingList, postingGroupRecord{
				DocID:    g.DocID,
				Postings: positions,
			})
		}
		art.Index = append(art.Index, rec)
	}

	return json.MarshalIndent(art, "", "  ")
}

// decodeState parses an artifact and rebuilds the index and document table.
// Derived counters are recomputed, never trusted from the file; schema
// violations are rejected wholesale so the engine is never partially
// populated.
func decodeState(data []byte) (map[string]*InvertedList, map[int]DocInfo, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrMalformedIndex, err)
	}
	for key := range top {
		if key != "doc_data" && key != "index" {
			return nil, nil, fmt.Errorf("%w: unknown top-level key %q", ErrMalformedIndex, key)
		}
	}
	rawDocs, ok := top["doc_data"]
	if !ok {
		return nil, nil, fmt.Errorf("%w: missing doc_data", ErrMalformedIndex)
	}
	rawIndex, ok := top["index"]
	if !ok {
		return nil, nil, fmt.Errorf("%w: missing index", ErrMalformedIndex)
	}

	var docRecords map[string]docRecord
	if err := json.Unmarshal(rawDocs, &docRecords); err != nil {
		return nil, nil, fmt.Errorf("%w: doc_data: %v", ErrMalformedIndex, err)
	}
	var listRecords []invertedListRecord
	if err := json.Unmarshal(rawIndex, &listRecords); err != nil {
		return nil, nil, fmt.Errorf("%w: index: %v", ErrMalformedIndex, err)
	}

	docs := make(map[int]DocInfo, len(docRecords))
	for key, rec := range docRecords {
		id, err := strconv.Atoi(key)
		if err != nil || id < 1 {
			return nil, nil, fmt.Errorf("%w: bad doc id %q", ErrMalformedIndex, key)
		}
		if rec.NumTerms < 0 {
			return nil, nil, fmt.Errorf("%w: doc %d has negative num_terms", ErrMalformedIndex, id)
		}
		docs[id] = DocInfo{Slug: rec.Slug, NumTerms: rec.NumTerms}
	}

	index := make(map[string]*InvertedList, len(listRecords))
	for _, rec := range listRecords {
		if rec.Term == "" {
			return nil, nil, fmt.Errorf("%w: empty term", ErrMalformedIndex)
		}
		if _, dup := index[rec.Term]; dup {
			return nil, nil, fmt.Errorf("%w: duplicate term %q", ErrMalformedIndex, rec.Term)
		}
		if len(rec.PostingList) == 0 {
			return nil, nil, fmt.Errorf("%w: term %q has no postings", ErrMalformedIndex, rec.Term)
		}

		list := NewInvertedList(rec.Term)
		prevDoc := 0
		for _, group := range rec.PostingList {
			if group.DocID <= prevDoc {
				return nil, nil, fmt.Errorf("%w: term %q: doc ids not strictly increasing", ErrMalformedIndex, rec.Term)
			}
			info, known := docs[group.DocID]
			if !known {
				return nil, nil, fmt.Errorf("%w: term %q references unknown doc %d", ErrMalformedIndex, rec.Term, group.DocID)
			}
			if len(group.Postings) == 0 {
				return nil, nil, fmt.Errorf("%w: term %q: empty posting group for doc %d", ErrMalformedIndex, rec.Term, group.DocID)
			}
			prevPos := -1
			for _, pos := range group.Postings {
				if pos <= prevPos || pos < 0 || pos >= info.NumTerms {
					return nil, nil, fmt.Errorf("%w: term %q: bad position %d in doc %d", ErrMalformedIndex, rec.Term, pos, group.DocID)
				}
				list.AddPosting(group.DocID, pos)
				prevPos = pos
			}
			prevDoc = group.DocID
		}
		index[rec.Term] = list
	}

	return index, docs, nil
}

// loadArtifact reads and decodes the artifact at path. A missing file is
// not an error; the engine starts empty.
func loadArtifact(path string) (map[string]*InvertedList, map[int]DocInfo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return make(map[string]*InvertedList), make(map[int]DocInfo), nil
		}
		return nil, nil, fmt.Errorf("search: read index artifact: %w", err)
	}
	index, docs, err := decodeState(data)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return index, docs, nil
}
