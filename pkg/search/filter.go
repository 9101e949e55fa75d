package search

import (
	"fmt"
	"reflect"

	"github.com/olivere/elastic/v7"
)

const (
	opNone  = ""
	opTerm  = "term"
	opTerms = "terms"
	opRange = "range"
	opAnd   = "and"
	opOr    = "or"
	opNot   = "not"
)

type fnode struct {
	op       string
	field    string
	value    interface{}
	values   []interface{}
	rangeOp  string
	children []fnode
}

// F is an immutable filter expression: a tree whose leaves are field
// constraints and whose inner nodes combine children with and/or/not.
// Combinators never mutate their operands; every call returns a fresh tree,
// so expressions can be shared across chains safely.
//
// A malformed constraint (unsupported value type) is recorded inside the
// expression at construction and surfaces from Build/Source, propagating
// through any combinator it is folded into.
type F struct {
	node fnode
	err  error
}

// Term constrains field to equal value. A slice or array value means
// set membership, same as In.
func Term(field string, value interface{}) F {
	if vs, ok := sliceValues(value); ok {
		return In(field, vs...)
	}
	if err := checkScalar(field, value); err != nil {
		return F{err: err}
	}
	return F{node: fnode{op: opTerm, field: field, value: value}}
}

// In constrains field to be one of values.
func In(field string, values ...interface{}) F {
	for _, v := range values {
		if err := checkScalar(field, v); err != nil {
			return F{err: err}
		}
	}
	return F{node: fnode{op: opTerms, field: field, values: values}}
}

// Gt constrains field to be strictly greater than value.
func Gt(field string, value interface{}) F { return rangeF(field, "gt", value) }

// Gte constrains field to be greater than or equal to value.
func Gte(field string, value interface{}) F { return rangeF(field, "gte", value) }

// Lt constrains field to be strictly less than value.
func Lt(field string, value interface{}) F { return rangeF(field, "lt", value) }

// Lte constrains field to be less than or equal to value.
func Lte(field string, value interface{}) F { return rangeF(field, "lte", value) }

func rangeF(field, op string, value interface{}) F {
	if err := checkScalar(field, value); err != nil {
		return F{err: err}
	}
	return F{node: fnode{op: opRange, field: field, rangeOp: op, value: value}}
}

// And combines two expressions so both must hold. An empty operand acts as
// identity. Nested ands flatten into a single node.
func (f F) And(other F) F { return combine(opAnd, f, other) }

// Or combines two expressions so at least one must hold.
func (f F) Or(other F) F { return combine(opOr, f, other) }

// Not negates the whole expression, combined subtrees included. Negating a
// negated expression unwraps it back to the original.
func (f F) Not() F {
	if f.err != nil || f.node.op == opNone {
		return f
	}
	if f.node.op == opNot {
		return F{node: f.node.children[0]}
	}
	return F{node: fnode{op: opNot, children: []fnode{f.node}}}
}

// Empty reports whether the expression carries no constraint at all.
func (f F) Empty() bool { return f.node.op == opNone && f.err == nil }

// Err returns the construction error recorded in the expression, if any.
func (f F) Err() error { return f.err }

func combine(op string, left, right F) F {
	if left.err != nil {
		return F{err: left.err}
	}
	if right.err != nil {
		return F{err: right.err}
	}
	if left.node.op == opNone {
		return right
	}
	if right.node.op == opNone {
		return left
	}
	children := make([]fnode, 0, 2)
	children = appendOperand(children, op, left.node)
	children = appendOperand(children, op, right.node)
	return F{node: fnode{op: op, children: children}}
}

func appendOperand(dst []fnode, op string, n fnode) []fnode {
	if n.op == op {
		return append(dst, n.children...)
	}
	return append(dst, n)
}

// Build serializes the expression into the engine's native filter
// representation. An empty expression builds to a nil query, meaning no
// filter is applied. A single clause renders bare, without a bool wrapper.
func (f F) Build() (elastic.Query, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.node.op == opNone {
		return nil, nil
	}
	return buildNode(f.node)
}

// Source returns the raw query body the expression serializes to, mostly
// useful for inspection and tests.
func (f F) Source() (interface{}, error) {
	q, err := f.Build()
	if err != nil || q == nil {
		return nil, err
	}
	return q.Source()
}

func buildNode(n fnode) (elastic.Query, error) {
	switch n.op {
	case opTerm:
		return elastic.NewTermQuery(n.field, n.value), nil
	case opTerms:
		return elastic.NewTermsQuery(n.field, n.values...), nil
	case opRange:
		rq := elastic.NewRangeQuery(n.field)
		switch n.rangeOp {
		case "gt":
			rq.Gt(n.value)
		case "gte":
			rq.Gte(n.value)
		case "lt":
			rq.Lt(n.value)
		case "lte":
			rq.Lte(n.value)
		default:
			return nil, fmt.Errorf("search: unsupported range operator %q on field %q", n.rangeOp, n.field)
		}
		return rq, nil
	case opAnd:
		qs, err := buildChildren(n.children)
		if err != nil {
			return nil, err
		}
		return elastic.NewBoolQuery().Filter(qs...), nil
	case opOr:
		qs, err := buildChildren(n.children)
		if err != nil {
			return nil, err
		}
		return elastic.NewBoolQuery().Should(qs...).MinimumNumberShouldMatch(1), nil
	case opNot:
		child, err := buildNode(n.children[0])
		if err != nil {
			return nil, err
		}
		return elastic.NewBoolQuery().MustNot(child), nil
	default:
		return nil, fmt.Errorf("search: unsupported filter operator %q", n.op)
	}
}

func buildChildren(nodes []fnode) ([]elastic.Query, error) {
	qs := make([]elastic.Query, 0, len(nodes))
	for _, c := range nodes {
		q, err := buildNode(c)
		if err != nil {
			return nil, err
		}
		qs = append(qs, q)
	}
	return qs, nil
}

func checkScalar(field string, value interface{}) error {
	if value == nil {
		return fmt.Errorf("search: nil value for field %q", field)
	}
	switch reflect.TypeOf(value).Kind() {
	case reflect.String, reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return nil
	default:
		return fmt.Errorf("search: unsupported value of type %T for field %q", value, field)
	}
}

func sliceValues(value interface{}) ([]interface{}, bool) {
	if value == nil {
		return nil, false
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	// A []byte is not a value set; it falls through to the scalar check,
	// which rejects it with a descriptive error.
	if rv.Type().Elem().Kind() == reflect.Uint8 {
		return nil, false
	}
	out := make([]interface{}, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}
