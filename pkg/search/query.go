package search

import (
	"fmt"

	"github.com/olivere/elastic/v7"
)

const (
	qMatch  = "match"
	qTerm   = "term"
	qPrefix = "prefix"
	qFuzzy  = "fuzzy"
	qRange  = "range"
)

// Q is a scoring query constraint, as opposed to F which never scores.
type Q struct {
	kind    string
	field   string
	value   interface{}
	rangeOp string
	err     error
}

// MatchQ scores documents whose analyzed field matches text.
func MatchQ(field, text string) Q {
	return Q{kind: qMatch, field: field, value: text}
}

// TermQ scores documents whose field equals value exactly.
func TermQ(field string, value interface{}) Q {
	if err := checkScalar(field, value); err != nil {
		return Q{err: err}
	}
	return Q{kind: qTerm, field: field, value: value}
}

// PrefixQ scores documents whose field starts with prefix.
func PrefixQ(field, prefix string) Q {
	return Q{kind: qPrefix, field: field, value: prefix}
}

// FuzzyQ scores documents whose field approximately matches value.
func FuzzyQ(field string, value interface{}) Q {
	if err := checkScalar(field, value); err != nil {
		return Q{err: err}
	}
	return Q{kind: qFuzzy, field: field, value: value}
}

// GtQ, GteQ, LtQ and LteQ score documents by a range comparison.
func GtQ(field string, value interface{}) Q  { return rangeQ(field, "gt", value) }
func GteQ(field string, value interface{}) Q { return rangeQ(field, "gte", value) }
func LtQ(field string, value interface{}) Q  { return rangeQ(field, "lt", value) }
func LteQ(field string, value interface{}) Q { return rangeQ(field, "lte", value) }

func rangeQ(field, op string, value interface{}) Q {
	if err := checkScalar(field, value); err != nil {
		return Q{err: err}
	}
	return Q{kind: qRange, field: field, rangeOp: op, value: value}
}

// build turns the constraint into an engine query, applying the per-field
// boost when one was declared via S.Weight.
func (q Q) build(weights map[string]float64) (elastic.Query, error) {
	if q.err != nil {
		return nil, q.err
	}
	boost, boosted := weights[q.field]
	switch q.kind {
	case qMatch:
		mq := elastic.NewMatchQuery(q.field, q.value)
		if boosted {
			mq.Boost(boost)
		}
		return mq, nil
	case qTerm:
		tq := elastic.NewTermQuery(q.field, q.value)
		if boosted {
			tq.Boost(boost)
		}
		return tq, nil
	case qPrefix:
		pq := elastic.NewPrefixQuery(q.field, q.value.(string))
		if boosted {
			pq.Boost(boost)
		}
		return pq, nil
	case qFuzzy:
		fq := elastic.NewFuzzyQuery(q.field, q.value)
		if boosted {
			fq.Boost(boost)
		}
		return fq, nil
	case qRange:
		rq := elastic.NewRangeQuery(q.field)
		switch q.rangeOp {
		case "gt":
			rq.Gt(q.value)
		case "gte":
			rq.Gte(q.value)
		case "lt":
			rq.Lt(q.value)
		case "lte":
			rq.Lte(q.value)
		}
		if boosted {
			rq.Boost(boost)
		}
		return rq, nil
	default:
		return nil, fmt.Errorf("search: unsupported query kind %q on field %q", q.kind, q.field)
	}
}
