// Package variable implements the process-of-query scoped variables
// table (spec §3 "Variable", §4.3 "get_variable_offset_by_name"):
// every row and every rowsource references variables through stable
// integer offsets handed out by a Table.
package variable

import "fmt"

// Offset is a stable column index into a Table, valid for the lifetime of
// the query that owns the table.
type Offset int

// Var is one registered variable: its name, its stable offset, and the
// BGP column that first declares it (spec §3 "declared-at").
type Var struct {
	Name       string
	Offset     Offset
	DeclaredAt int
}

// Table is the process-of-query scoped variable registry. It is built up
// during algebra translation (new variables are registered as nodes are
// visited) and never shrinks; offsets, once assigned, remain valid for
// the table's lifetime (spec §3 invariant).
type Table struct {
	byName map[string]Offset
	vars   []Var
}

// NewTable creates an empty variables table.
func NewTable() *Table {
	return &Table{byName: make(map[string]Offset)}
}

// Intern registers name if not already present and returns its offset.
// declaredAt is only recorded the first time a name is interned.
func (t *Table) Intern(name string, declaredAt int) Offset {
	if off, ok := t.byName[name]; ok {
		return off
	}
	off := Offset(len(t.vars))
	t.byName[name] = off
	t.vars = append(t.vars, Var{Name: name, Offset: off, DeclaredAt: declaredAt})
	return off
}

// OffsetByName returns the offset for name, and whether it is registered.
func (t *Table) OffsetByName(name string) (Offset, bool) {
	off, ok := t.byName[name]
	return off, ok
}

// MustOffsetByName is a convenience for callers that have already
// validated the name is registered (e.g. during translation after a
// BGP pass). It panics otherwise, matching the "must remain valid for
// the rowsource's lifetime" invariant of spec §3 — a lookup miss here
// is a translator bug, not a runtime condition.
func (t *Table) MustOffsetByName(name string) Offset {
	off, ok := t.byName[name]
	if !ok {
		panic(fmt.Sprintf("variable %q not registered", name))
	}
	return off
}

// NameAt returns the variable name registered at off.
func (t *Table) NameAt(off Offset) string {
	return t.vars[off].Name
}

// Len returns the number of registered variables.
func (t *Table) Len() int { return len(t.vars) }

// Vars returns the registered variables in offset order. The slice must
// not be mutated by callers.
func (t *Table) Vars() []Var { return t.vars }
