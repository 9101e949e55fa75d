package search

import (
	"encoding/json"
	"time"

	"github.com/olivere/elastic/v7"
)

// Hit is one matched document.
type Hit struct {
	ID         string                 `json:"id"`
	Score      float64                `json:"score"`
	Source     map[string]interface{} `json:"source,omitempty"`
	Highlights map[string][]string    `json:"highlights,omitempty"`
}

// FacetBucket is one bucket of a facet: a distinct value (or band) and the
// number of documents carrying it. From/To are set for range facets only.
type FacetBucket struct {
	Value interface{} `json:"value,omitempty"`
	From  *float64    `json:"from,omitempty"`
	To    *float64    `json:"to,omitempty"`
	Count int64       `json:"count"`
}

// Results is the parsed response envelope for an executed spec.
type Results struct {
	Took   time.Duration
	Total  int64
	Hits   []Hit
	facets map[string][]FacetBucket
}

// Facets returns the requested facets keyed by field name.
func (r *Results) Facets() map[string][]FacetBucket {
	if r.facets == nil {
		return map[string][]FacetBucket{}
	}
	return r.facets
}

// Excerpts returns highlight fragments for the given fields in order,
// substituting a single empty fragment for fields without highlights.
func (h Hit) Excerpts(fields ...string) [][]string {
	out := make([][]string, 0, len(fields))
	for _, f := range fields {
		if frags, ok := h.Highlights[f]; ok {
			out = append(out, frags)
			continue
		}
		out = append(out, []string{""})
	}
	return out
}

// IDs returns the hit document IDs in result order.
func (r *Results) IDs() []string {
	ids := make([]string, len(r.Hits))
	for i, h := range r.Hits {
		ids[i] = h.ID
	}
	return ids
}

func emptyResults() *Results {
	return &Results{Hits: []Hit{}, facets: map[string][]FacetBucket{}}
}

func newResults(res *elastic.SearchResult, facets []facetReq) (*Results, error) {
	out := &Results{
		Took:   time.Duration(res.TookInMillis) * time.Millisecond,
		Total:  res.TotalHits(),
		Hits:   []Hit{},
		facets: map[string][]FacetBucket{},
	}

	if res.Hits != nil {
		for _, h := range res.Hits.Hits {
			hit := Hit{ID: h.Id, Highlights: h.Highlight}
			if h.Score != nil {
				hit.Score = *h.Score
			}
			if len(h.Source) > 0 {
				if err := json.Unmarshal(h.Source, &hit.Source); err != nil {
					return nil, err
				}
			}
			out.Hits = append(out.Hits, hit)
		}
	}

	for _, req := range facets {
		buckets, ok := parseFacet(res.Aggregations, req)
		if !ok {
			continue
		}
		out.facets[req.field] = buckets
	}

	return out, nil
}

// parseFacet unwraps the aggregation nesting Build produced: global facets
// sit under a global bucket, filtered ones under a filter bucket, and the
// terms or range payload always carries the field name.
func parseFacet(aggs elastic.Aggregations, req facetReq) ([]FacetBucket, bool) {
	if aggs == nil {
		return nil, false
	}
	sub := aggs
	if req.global {
		bucket, ok := aggs.Global(req.field)
		if !ok {
			return nil, false
		}
		sub = bucket.Aggregations
	} else if outer, ok := aggs.Filter(req.field); ok && outer.Aggregations != nil {
		if _, nested := outer.Aggregations[req.field]; nested {
			sub = outer.Aggregations
		}
	}

	if req.kind == facetRange {
		ra, ok := sub.Range(req.field)
		if !ok {
			return nil, false
		}
		buckets := make([]FacetBucket, 0, len(ra.Buckets))
		for _, b := range ra.Buckets {
			buckets = append(buckets, FacetBucket{From: b.From, To: b.To, Count: b.DocCount})
		}
		return buckets, true
	}

	ta, ok := sub.Terms(req.field)
	if !ok {
		return nil, false
	}
	buckets := make([]FacetBucket, 0, len(ta.Buckets))
	for _, b := range ta.Buckets {
		buckets = append(buckets, FacetBucket{Value: b.Key, Count: b.DocCount})
	}
	return buckets, true
}
