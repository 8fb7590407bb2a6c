package resolve

import "math"

// bm25 parameters, standard Okapi values.
const (
	bm25K1 = 1.5
	bm25B  = 0.75
)

// bm25Index is a small in-memory BM25 ranking over tokenized documents.
// It catches multi-word ingredient phrases that edit distance misses
// ("chondroitin sulfate with glucosamine" vs "glucosamine chondroitin").
type bm25Index struct {
	docs      [][]string
	docFreq   map[string]int
	docLen    []int
	avgDocLen float64
}

func newBM25Index(docs [][]string) *bm25Index {
	idx := &bm25Index{
		docs:    docs,
		docFreq: make(map[string]int),
		docLen:  make([]int, len(docs)),
	}

	total := 0
	for i, doc := range docs {
		idx.docLen[i] = len(doc)
		total += len(doc)

		seen := make(map[string]bool, len(doc))
		for _, term := range doc {
			if !seen[term] {
				seen[term] = true
				idx.docFreq[term]++
			}
		}
	}
	if len(docs) > 0 {
		idx.avgDocLen = float64(total) / float64(len(docs))
	}
	return idx
}

// scores returns the BM25 score of every document for the query terms.
func (idx *bm25Index) scores(query []string) []float64 {
	out := make([]float64, len(idx.docs))
	if len(query) == 0 || len(idx.docs) == 0 {
		return out
	}

	n := float64(len(idx.docs))
	for _, term := range query {
		df := idx.docFreq[term]
		if df == 0 {
			continue
		}
		idf := math.Log(1 + (n-float64(df)+0.5)/(float64(df)+0.5))

		for i, doc := range idx.docs {
			tf := 0
			for _, t := range doc {
				if t == term {
					tf++
				}
			}
			if tf == 0 {
				continue
			}
			norm := 1 - bm25B + bm25B*float64(idx.docLen[i])/idx.avgDocLen
			out[i] += idf * float64(tf) * (bm25K1 + 1) / (float64(tf) + bm25K1*norm)
		}
	}
	return out
}

// best returns the index and score of the highest-scoring document.
func (idx *bm25Index) best(query []string) (int, float64) {
	scores := idx.scores(query)
	bestIdx, bestScore := -1, 0.0
	for i, s := range scores {
		if s > bestScore {
			bestIdx, bestScore = i, s
		}
	}
	return bestIdx, bestScore
}

// rankConfidence maps an unbounded BM25 score into (0,1) so ranked-match
// confidence is comparable with the other strategies.
func rankConfidence(score float64) float64 {
	return score / (score + 10)
}
