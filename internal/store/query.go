package store

import (
	"fmt"
	"strings"
)

// Query selects complexes. It is a sealed interface: only Equals, And and
// All implement it, so the SQL compiler can switch over every case.
//
// The zero value of a Query-typed variable (nil) selects every complex.
type Query interface {
	queryNode()
}

// Equals matches complexes whose Field equals Value.
type Equals struct {
	Field string
	Value any
}

// And matches complexes satisfying every predicate. An empty And matches
// everything.
type And struct {
	Predicates []Query
}

// All matches every complex.
type All struct{}

func (Equals) queryNode() {}
func (And) queryNode()    {}
func (All) queryNode()    {}

// queryFields maps the field names a Query may filter on to their columns.
// Field names never reach SQL text unless they appear here.
var queryFields = map[string]string{
	"ac":               "ac",
	"version":          "version",
	"recommended_name": "recommended_name",
	"systematic_name":  "systematic_name",
	"tax_id":           "tax_id",
	"source_mi":        "source_mi",
	"source_name":      "source_name",
	"evidence_mi":      "evidence_mi",
	"evidence_name":    "evidence_name",
}

// complexOrder is the mandatory ordering of every complex listing.
const complexOrder = "ac COLLATE BINARY ASC"

// compileWhere converts q to a WHERE fragment and its parameters.
// Values are always bound as parameters, never interpolated.
func compileWhere(q Query) (string, []any, error) {
	if q == nil {
		return "1 = 1", nil, nil
	}

	switch pred := q.(type) {
	case All, *All:
		return "1 = 1", nil, nil
	case Equals:
		return compileEquals(pred)
	case *Equals:
		return compileEquals(*pred)
	case And:
		return compileAnd(pred)
	case *And:
		return compileAnd(*pred)
	default:
		return "", nil, fmt.Errorf("unsupported query type: %T", q)
	}
}

func compileEquals(eq Equals) (string, []any, error) {
	column, ok := queryFields[eq.Field]
	if !ok {
		return "", nil, fmt.Errorf("unknown query field %q", eq.Field)
	}
	switch eq.Value.(type) {
	case string, int, int64, bool:
	default:
		return "", nil, fmt.Errorf("field %s: unsupported value type %T", eq.Field, eq.Value)
	}
	return column + " = ?", []any{eq.Value}, nil
}

func compileAnd(and And) (string, []any, error) {
	if len(and.Predicates) == 0 {
		return "1 = 1", nil, nil
	}

	parts := make([]string, 0, len(and.Predicates))
	var params []any
	for _, p := range and.Predicates {
		sql, ps, err := compileWhere(p)
		if err != nil {
			return "", nil, err
		}
		parts = append(parts, sql)
		params = append(params, ps...)
	}
	return strings.Join(parts, " AND "), params, nil
}

// compileListing builds the paged complex-accession query for q.
func compileListing(q Query, offset, limit int) (string, []any, error) {
	where, params, err := compileWhere(q)
	if err != nil {
		return "", nil, err
	}
	sql := "SELECT ac FROM complexes WHERE " + where + " ORDER BY " + complexOrder
	switch {
	case limit > 0:
		sql += " LIMIT ? OFFSET ?"
		params = append(params, limit, offset)
	case offset > 0:
		sql += " LIMIT -1 OFFSET ?"
		params = append(params, offset)
	}
	return sql, params, nil
}
