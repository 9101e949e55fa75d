package listing

import (
	"reflect"
	"testing"
)

func filterSource(t *testing.T, p SearchParams) map[string]interface{} {
	t.Helper()
	src, err := buildFilter(p).Source()
	if err != nil {
		t.Fatalf("filter source: %v", err)
	}
	m, ok := src.(map[string]interface{})
	if !ok {
		t.Fatalf("filter source is %T", src)
	}
	return m
}

func specSource(t *testing.T, p SearchParams) map[string]interface{} {
	t.Helper()
	src, err := buildSpec(p).Source()
	if err != nil {
		t.Fatalf("spec source: %v", err)
	}
	return src.(map[string]interface{})
}

func TestBuildFilterEmptyParams(t *testing.T) {
	if !buildFilter(SearchParams{}).Empty() {
		t.Fatalf("no params should build no filter")
	}
}

func TestBuildFilterSingleField(t *testing.T) {
	m := filterSource(t, SearchParams{Styles: []string{"korean"}})

	// A single style is still set membership: values within a field OR.
	terms, ok := m["terms"].(map[string]interface{})
	if !ok {
		t.Fatalf("filter = %v, want terms", m)
	}
	if !reflect.DeepEqual(terms["style"], []interface{}{"korean"}) {
		t.Fatalf("style terms = %v", terms["style"])
	}
}

func TestBuildFilterFieldsMustAllHold(t *testing.T) {
	m := filterSource(t, SearchParams{
		Styles: []string{"korean", "thai"},
		Prices: []string{"FREE"},
	})

	b, ok := m["bool"].(map[string]interface{})
	if !ok {
		t.Fatalf("filter = %v, want bool", m)
	}
	clauses, ok := b["filter"].([]interface{})
	if !ok || len(clauses) != 2 {
		t.Fatalf("clauses = %v, want style AND price", b["filter"])
	}
}

func TestBuildFilterExcludedTagsAreNegated(t *testing.T) {
	m := filterSource(t, SearchParams{ExcludeTags: []string{"boring"}})

	b, ok := m["bool"].(map[string]interface{})
	if !ok {
		t.Fatalf("filter = %v, want bool", m)
	}
	mustNot, ok := b["must_not"].(map[string]interface{})
	if !ok {
		t.Fatalf("excluded tags should negate, got %v", b)
	}
	if _, ok := mustNot["terms"]; !ok {
		t.Fatalf("negated clause = %v, want terms", mustNot)
	}
}

func TestBuildSpecDefaults(t *testing.T) {
	m := specSource(t, SearchParams{})

	if _, ok := m["from"]; ok {
		t.Fatalf("page 1 needs no offset: %v", m["from"])
	}
	if m["size"] != defaultPerPage {
		t.Fatalf("size = %v, want the default page size", m["size"])
	}
	if _, ok := m["post_filter"]; ok {
		t.Fatalf("no params should set no filter: %v", m)
	}
	want := map[string]interface{}{"match_all": map[string]interface{}{}}
	if !reflect.DeepEqual(m["query"], want) {
		t.Fatalf("query = %v, want match_all", m["query"])
	}
}

func TestBuildSpecFreeTextExpandsWithNameBoost(t *testing.T) {
	m := specSource(t, SearchParams{Query: "car"})

	q, ok := m["query"].(map[string]interface{})
	if !ok {
		t.Fatalf("query = %v", m["query"])
	}
	b, ok := q["bool"].(map[string]interface{})
	if !ok {
		t.Fatalf("free text should expand under bool.should, got %v", q)
	}
	should, ok := b["should"].([]interface{})
	if !ok || len(should) != len(queryFields) {
		t.Fatalf("should = %v, want one clause per query field", b["should"])
	}

	var boosted bool
	for _, clause := range should {
		match, ok := clause.(map[string]interface{})["match"].(map[string]interface{})
		if !ok {
			continue
		}
		if body, ok := match["name"].(map[string]interface{}); ok && body["boost"] == 2.0 {
			boosted = true
		}
	}
	if !boosted {
		t.Fatalf("name clause should carry its weight, got %v", should)
	}
}

func TestBuildSpecPagination(t *testing.T) {
	m := specSource(t, SearchParams{Page: 3, PerPage: 10})
	if m["from"] != 20 || m["size"] != 10 {
		t.Fatalf("from/size = %v/%v, want 20/10", m["from"], m["size"])
	}

	// Oversized pages clamp to the default.
	m = specSource(t, SearchParams{PerPage: 5000})
	if m["size"] != defaultPerPage {
		t.Fatalf("oversized per_page should clamp, got %v", m["size"])
	}
}

func TestBuildSpecFacets(t *testing.T) {
	m := specSource(t, SearchParams{
		Styles:       []string{"korean"},
		Facets:       []string{"tag"},
		GlobalFacets: []string{"price"},
	})

	aggs, ok := m["aggregations"].(map[string]interface{})
	if !ok {
		t.Fatalf("no aggregations in %v", m)
	}
	tag, ok := aggs["tag"].(map[string]interface{})
	if !ok {
		t.Fatalf("missing tag facet: %v", aggs)
	}
	if _, ok := tag["filter"]; !ok {
		t.Fatalf("tag facet should respect the style filter: %v", tag)
	}
	price, ok := aggs["price"].(map[string]interface{})
	if !ok {
		t.Fatalf("missing price facet: %v", aggs)
	}
	if _, ok := price["global"]; !ok {
		t.Fatalf("price facet should be global: %v", price)
	}
}
