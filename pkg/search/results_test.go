package search

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"

	"github.com/olivere/elastic/v7"
)

const sampleResponse = `{
	"took": 7,
	"hits": {
		"total": {"value": 4, "relation": "eq"},
		"hits": [
			{"_id": "1", "_score": 1.5, "_source": {"name": "train car", "style": "korean"}, "highlight": {"name": ["train <em>car</em>"]}},
			{"_id": "3", "_score": 1.1, "_source": {"name": "car", "style": "thai"}}
		]
	},
	"aggregations": {
		"style": {
			"doc_count": 4,
			"style": {
				"doc_count_error_upper_bound": 0,
				"sum_other_doc_count": 0,
				"buckets": [
					{"key": "korean", "doc_count": 3},
					{"key": "thai", "doc_count": 1}
				]
			}
		},
		"price": {
			"doc_count": 10,
			"price": {
				"buckets": [
					{"key": "FREE", "doc_count": 6},
					{"key": "PAID", "doc_count": 4}
				]
			}
		},
		"width": {
			"buckets": [
				{"to": 3, "doc_count": 1},
				{"from": 3, "to": 8, "doc_count": 2}
			]
		}
	}
}`

func parseSample(t *testing.T) *Results {
	t.Helper()
	var raw elastic.SearchResult
	if err := json.Unmarshal([]byte(sampleResponse), &raw); err != nil {
		t.Fatalf("unmarshal sample: %v", err)
	}
	res, err := newResults(&raw, []facetReq{
		{field: "style", kind: facetTerms},
		{field: "price", kind: facetTerms, global: true},
		{field: "width", kind: facetRange},
	})
	if err != nil {
		t.Fatalf("newResults: %v", err)
	}
	return res
}

func TestResultsEnvelope(t *testing.T) {
	res := parseSample(t)

	if res.Total != 4 {
		t.Fatalf("total = %d, want 4", res.Total)
	}
	if res.Took != 7*time.Millisecond {
		t.Fatalf("took = %v, want 7ms", res.Took)
	}
	if len(res.Hits) != 2 {
		t.Fatalf("got %d hits, want 2", len(res.Hits))
	}
	if !reflect.DeepEqual(res.IDs(), []string{"1", "3"}) {
		t.Fatalf("ids = %v", res.IDs())
	}

	first := res.Hits[0]
	if first.Score != 1.5 {
		t.Fatalf("score = %v", first.Score)
	}
	if first.Source["name"] != "train car" {
		t.Fatalf("source = %v", first.Source)
	}
}

func TestResultsFacets(t *testing.T) {
	facets := parseSample(t).Facets()

	style := facets["style"]
	if len(style) != 2 || style[0].Value != "korean" || style[0].Count != 3 {
		t.Fatalf("style facet = %v", style)
	}

	// Global facets parse from under the global bucket.
	price := facets["price"]
	if len(price) != 2 || price[0].Value != "FREE" || price[0].Count != 6 {
		t.Fatalf("price facet = %v", price)
	}

	width := facets["width"]
	if len(width) != 2 {
		t.Fatalf("width facet = %v", width)
	}
	if width[0].To == nil || *width[0].To != 3 || width[0].From != nil {
		t.Fatalf("open low band = %+v", width[0])
	}
	if width[1].From == nil || *width[1].From != 3 || width[1].To == nil || *width[1].To != 8 {
		t.Fatalf("middle band = %+v", width[1])
	}
	if width[1].Count != 2 {
		t.Fatalf("middle band count = %d", width[1].Count)
	}
}

func TestExcerpts(t *testing.T) {
	res := parseSample(t)

	got := res.Hits[0].Excerpts("style", "name")
	want := [][]string{{""}, {"train <em>car</em>"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("excerpts = %v, want %v", got, want)
	}
}

func TestMissingFacetIsSkipped(t *testing.T) {
	var raw elastic.SearchResult
	if err := json.Unmarshal([]byte(`{"took": 1, "hits": {"total": {"value": 0}, "hits": []}}`), &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	res, err := newResults(&raw, []facetReq{{field: "style", kind: facetTerms}})
	if err != nil {
		t.Fatalf("newResults: %v", err)
	}
	if len(res.Facets()) != 0 {
		t.Fatalf("facets = %v, want none", res.Facets())
	}
}
