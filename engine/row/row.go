// Package row implements the solution-mapping value (spec §3 "Row"):
// a fixed-width vector of optional term values plus a sequence offset
// and optional ordering keys.
package row

import (
	"sparqlcore/engine/variable"
	"sparqlcore/pkg/rdf"
)

// Row is one solution mapping produced by a rowsource. values[i] is nil
// when the variable at column i is unbound for this row (spec §3: "None
// when the variable at that column is unbound").
type Row struct {
	Table  *variable.Table
	values []rdf.Term
	order  []rdf.Term
	Offset uint64
}

// New allocates a row of the given width, all columns unbound.
func New(table *variable.Table, width int, offset uint64) *Row {
	return &Row{Table: table, values: make([]rdf.Term, width), Offset: offset}
}

// Width returns the number of declared columns.
func (r *Row) Width() int { return len(r.values) }

// Get returns the term bound at off, or nil if unbound.
func (r *Row) Get(off variable.Offset) rdf.Term {
	if int(off) >= len(r.values) {
		return nil
	}
	return r.values[off]
}

// Set binds off to term (possibly nil to unbind).
func (r *Row) Set(off variable.Offset, term rdf.Term) {
	for int(off) >= len(r.values) {
		r.values = append(r.values, nil)
	}
	r.values[off] = term
}

// Bound reports whether off has a value in this row.
func (r *Row) Bound(off variable.Offset) bool {
	return int(off) < len(r.values) && r.values[off] != nil
}

// Clone copies the row's column vector (terms themselves are shared and
// immutable, so copying is a shallow slice copy — spec §9 reference
// counted term sharing).
func (r *Row) Clone() *Row {
	values := make([]rdf.Term, len(r.values))
	copy(values, r.values)
	order := make([]rdf.Term, len(r.order))
	copy(order, r.order)
	return &Row{Table: r.Table, values: values, order: order, Offset: r.Offset}
}

// SetOrderKeys attaches the evaluated ORDER BY condition values to this
// row, in condition order.
func (r *Row) SetOrderKeys(keys []rdf.Term) { r.order = keys }

// OrderKeys returns the row's ordering keys, or nil if none were set.
func (r *Row) OrderKeys() []rdf.Term { return r.order }

// Merge builds a new row over the union width by copying this row's
// bound columns and overlaying other's bound columns on top. Both rows
// must share the same variable table. Used by Join/LeftJoin (spec
// §4.6–§4.9) once compatibility has already been checked by the caller.
func Merge(width int, offset uint64, left, right *Row) *Row {
	out := New(left.Table, width, offset)
	for i, v := range left.values {
		if v != nil {
			out.values[i] = v
		}
	}
	for i, v := range right.values {
		if v != nil {
			out.values[i] = v
		}
	}
	return out
}

// Compatible reports whether left and right agree on every variable both
// bind (spec GLOSSARY "Compatibility", §4.6). Terms are compared with
// same-term equality.
func Compatible(left, right *Row) bool {
	n := len(left.values)
	if len(right.values) < n {
		n = len(right.values)
	}
	for i := 0; i < n; i++ {
		lv, rv := left.values[i], right.values[i]
		if lv == nil || rv == nil {
			continue
		}
		if !rdf.SameTerm(lv, rv) {
			return false
		}
	}
	return true
}

// SharedBound reports whether left and right have at least one variable
// bound on both sides (spec §4.8 "vacuous compatibility" test for MINUS).
func SharedBound(left, right *Row) bool {
	n := len(left.values)
	if len(right.values) < n {
		n = len(right.values)
	}
	for i := 0; i < n; i++ {
		if left.values[i] != nil && right.values[i] != nil {
			return true
		}
	}
	return false
}
