package search

import (
	"strings"

	"github.com/olivere/elastic/v7"
)

const (
	facetTerms = "terms"
	facetRange = "range"
)

// Band is one bucket boundary of a range facet. A nil bound leaves that
// side open.
type Band struct {
	From *float64
	To   *float64
}

// Span returns a band covering [from, to).
func Span(from, to float64) Band { return Band{From: &from, To: &to} }

// Below returns a band open on the low side.
func Below(to float64) Band { return Band{To: &to} }

// Above returns a band open on the high side.
func Above(from float64) Band { return Band{From: &from} }

type facetReq struct {
	field  string
	kind   string
	global bool
	bands  []Band
}

// S is a fluent, immutable search specification. Every method clones the
// receiver and returns the updated copy, so a chain never aliases state with
// an earlier step and independent chains can branch from a shared prefix.
// Nothing is sent to the engine until a Client executes the spec.
type S struct {
	docType     string
	freeText    string
	hasFreeText bool
	queryFields []string
	queries     []Q
	weights     map[string]float64
	filter      F
	facets      []facetReq
	sortFields  []string
	fields      []string
	highlight   []string
	hlBefore    string
	hlAfter     string
	from        int
	size        int
}

// New starts a search spec for the given doc type. The doc type picks the
// target index through the client's index mapping.
func New(docType string) S {
	return S{docType: docType, size: -1}
}

func (s S) clone() S {
	n := s
	n.queryFields = append([]string(nil), s.queryFields...)
	n.queries = append([]Q(nil), s.queries...)
	n.facets = append([]facetReq(nil), s.facets...)
	n.sortFields = append([]string(nil), s.sortFields...)
	n.fields = append([]string(nil), s.fields...)
	n.highlight = append([]string(nil), s.highlight...)
	if s.weights != nil {
		n.weights = make(map[string]float64, len(s.weights))
		for k, v := range s.weights {
			n.weights[k] = v
		}
	}
	return n
}

// QueryText sets the free-text query. With declared query fields it expands
// to a should-match over them; without any it is handed to the engine as a
// bare multi_match over its default fields. An empty spec stays match-all.
func (s S) QueryText(text string) S {
	n := s.clone()
	n.freeText = text
	n.hasFreeText = true
	return n
}

// QueryFields adds to the set of fields a QueryText call matches against.
func (s S) QueryFields(fields ...string) S {
	n := s.clone()
	for _, f := range fields {
		if !containsStr(n.queryFields, f) {
			n.queryFields = append(n.queryFields, f)
		}
	}
	return n
}

// Query appends scored constraints; all of them must match.
func (s S) Query(qs ...Q) S {
	n := s.clone()
	n.queries = append(n.queries, qs...)
	return n
}

// Weight sets the scoring boost for a field. Later calls for the same field
// override earlier ones. Weights apply to constraints added via Query and
// to the QueryText expansion.
func (s S) Weight(field string, boost float64) S {
	n := s.clone()
	if n.weights == nil {
		n.weights = make(map[string]float64)
	}
	n.weights[field] = boost
	return n
}

// Filter sets the filter expression for the spec, replacing any previously
// set expression wholesale. This is deliberate: compose with F.And / F.Or
// first if both constraints should apply.
func (s S) Filter(f F) S {
	n := s.clone()
	n.filter = f
	return n
}

// Facet requests bucketed value counts for the given fields, computed over
// the filtered result set.
func (s S) Facet(fields ...string) S {
	n := s.clone()
	for _, f := range fields {
		n.facets = append(n.facets, facetReq{field: f, kind: facetTerms})
	}
	return n
}

// FacetGlobal requests value counts unfiltered by the current filter
// expression, i.e. computed over the full matched-query set before filters
// apply. The counting itself is the engine's job; this only marks the
// request.
func (s S) FacetGlobal(fields ...string) S {
	n := s.clone()
	for _, f := range fields {
		n.facets = append(n.facets, facetReq{field: f, kind: facetTerms, global: true})
	}
	return n
}

// FacetRange requests counts bucketed into the given bands.
func (s S) FacetRange(field string, bands ...Band) S {
	n := s.clone()
	n.facets = append(n.facets, facetReq{field: field, kind: facetRange, bands: bands})
	return n
}

// OrderBy replaces the sort order. A leading "-" sorts a field descending.
func (s S) OrderBy(fields ...string) S {
	n := s.clone()
	n.sortFields = append([]string(nil), fields...)
	return n
}

// Fields restricts which source fields come back with each hit.
func (s S) Fields(fields ...string) S {
	n := s.clone()
	n.fields = append([]string(nil), fields...)
	return n
}

// Highlight requests excerpting for the given fields.
func (s S) Highlight(fields ...string) S {
	n := s.clone()
	n.highlight = append(n.highlight, fields...)
	return n
}

// HighlightTags sets the markers inserted around each highlighted portion.
func (s S) HighlightTags(before, after string) S {
	n := s.clone()
	n.hlBefore = before
	n.hlAfter = after
	return n
}

// From skips the first n results.
func (s S) From(n int) S {
	c := s.clone()
	c.from = n
	return c
}

// Limit caps the number of results returned.
func (s S) Limit(n int) S {
	c := s.clone()
	c.size = n
	return c
}

// DocType returns the doc type the spec targets.
func (s S) DocType() string { return s.docType }

func (s S) buildQuery() (elastic.Query, error) {
	var qs []elastic.Query
	for _, q := range s.queries {
		built, err := q.build(s.weights)
		if err != nil {
			return nil, err
		}
		qs = append(qs, built)
	}
	if s.hasFreeText {
		if len(s.queryFields) > 0 {
			should := make([]elastic.Query, 0, len(s.queryFields))
			for _, f := range s.queryFields {
				built, err := MatchQ(f, s.freeText).build(s.weights)
				if err != nil {
					return nil, err
				}
				should = append(should, built)
			}
			qs = append(qs, elastic.NewBoolQuery().Should(should...).MinimumNumberShouldMatch(1))
		} else {
			qs = append(qs, elastic.NewMultiMatchQuery(s.freeText))
		}
	}
	switch len(qs) {
	case 0:
		return elastic.NewMatchAllQuery(), nil
	case 1:
		return qs[0], nil
	default:
		return elastic.NewBoolQuery().Must(qs...), nil
	}
}

// Build assembles the engine request body. The filter expression rides as a
// post_filter so facets see the unfiltered query set; non-global facets then
// re-apply the filter through a filter aggregation, which is almost always
// what the caller wants.
func (s S) Build() (*elastic.SearchSource, error) {
	src := elastic.NewSearchSource()

	query, err := s.buildQuery()
	if err != nil {
		return nil, err
	}
	src.Query(query)

	filterQ, err := s.filter.Build()
	if err != nil {
		return nil, err
	}
	if filterQ != nil {
		src.PostFilter(filterQ)
	}

	for _, req := range s.facets {
		var agg elastic.Aggregation
		switch req.kind {
		case facetRange:
			ra := elastic.NewRangeAggregation().Field(req.field)
			for _, b := range req.bands {
				switch {
				case b.From != nil && b.To != nil:
					ra = ra.AddRange(*b.From, *b.To)
				case b.From != nil:
					ra = ra.AddUnboundedTo(*b.From)
				case b.To != nil:
					ra = ra.AddUnboundedFrom(*b.To)
				}
			}
			agg = ra
		default:
			agg = elastic.NewTermsAggregation().Field(req.field)
		}
		switch {
		case req.global:
			src.Aggregation(req.field, elastic.NewGlobalAggregation().SubAggregation(req.field, agg))
		case filterQ != nil:
			src.Aggregation(req.field, elastic.NewFilterAggregation().Filter(filterQ).SubAggregation(req.field, agg))
		default:
			src.Aggregation(req.field, agg)
		}
	}

	if len(s.sortFields) > 0 {
		sorters := make([]elastic.Sorter, 0, len(s.sortFields))
		for _, f := range s.sortFields {
			if strings.HasPrefix(f, "-") {
				sorters = append(sorters, elastic.NewFieldSort(strings.TrimPrefix(f, "-")).Desc())
			} else {
				sorters = append(sorters, elastic.NewFieldSort(f).Asc())
			}
		}
		src.SortBy(sorters...)
	}

	if len(s.fields) > 0 {
		src.FetchSourceContext(elastic.NewFetchSourceContext(true).Include(s.fields...))
	}

	if len(s.highlight) > 0 {
		hl := elastic.NewHighlight()
		for _, f := range dedupeStr(s.highlight) {
			hl.Field(f)
		}
		if s.hlBefore != "" {
			hl.PreTags(s.hlBefore)
		}
		if s.hlAfter != "" {
			hl.PostTags(s.hlAfter)
		}
		src.Highlight(hl)
	}

	if s.from > 0 {
		src.From(s.from)
	}
	if s.size >= 0 {
		src.Size(s.size)
	}

	return src, nil
}

// Source returns the raw request body the spec serializes to.
func (s S) Source() (interface{}, error) {
	src, err := s.Build()
	if err != nil {
		return nil, err
	}
	return src.Source()
}

func containsStr(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}

func dedupeStr(ss []string) []string {
	seen := make(map[string]struct{}, len(ss))
	out := make([]string, 0, len(ss))
	for _, s := range ss {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
