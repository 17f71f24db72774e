// Package queryresults implements the query-results façade (spec §4.19):
// a small state machine driving the top rowsource of a translated query
// and exposing the bindings / boolean / triple-stream consumer surface
// of spec §6.3, grounded on the teacher's Execute + Select/Ask/Construct
// result shapes in pkg/sparql/executor/executor.go.
package queryresults

import (
	"fmt"
	"log/slog"

	"sparqlcore/engine/algebra"
	"sparqlcore/engine/row"
	"sparqlcore/engine/rowsource"
	"sparqlcore/engine/variable"
	"sparqlcore/pkg/rdf"
	"sparqlcore/triplesource"
)

// State is one of the façade's four states (spec §4.19).
type State int

const (
	StatePending State = iota
	StateExecuting
	StateFinished
	StateFailed
)

// Kind selects which consumer view a Facade exposes: bindings (SELECT),
// boolean (ASK), or graph (CONSTRUCT/DESCRIBE).
type Kind int

const (
	KindBindings Kind = iota
	KindBoolean
	KindGraph
)

// Facade drives one query's top rowsource to completion. It is built
// once the translator has produced a rowsource tree; ExecuteInit then
// moves it from pending to executing.
type Facade struct {
	state  State
	kind   Kind
	table  *variable.Table
	source triplesource.Source
	top    rowsource.Rowsource
	env    *rowsource.EvalEnv
	logger *slog.Logger
	err    error

	// bindings
	bindingVars []string
	cur         *row.Row

	// boolean
	booleanResult   bool
	booleanComputed bool

	// graph (CONSTRUCT/DESCRIBE)
	template   []algebra.TriplePattern
	pending    []*rdf.Quad
	blankCache map[string]*rdf.Blank
	rowSeq     uint64
}

// NewBindingsFacade builds a façade over a SELECT-shaped rowsource tree.
// bindingVars is the ordered SELECT projection list (spec §6.3
// get_binding_name/get_binding_value are index-addressed by this list).
func NewBindingsFacade(table *variable.Table, source triplesource.Source, top rowsource.Rowsource, env *rowsource.EvalEnv, bindingVars []string, logger *slog.Logger) *Facade {
	return &Facade{state: StatePending, kind: KindBindings, table: table, source: source, top: top, env: env, bindingVars: bindingVars, logger: orDefault(logger)}
}

// NewBooleanFacade builds a façade over an ASK-shaped rowsource tree.
func NewBooleanFacade(table *variable.Table, source triplesource.Source, top rowsource.Rowsource, env *rowsource.EvalEnv, logger *slog.Logger) *Facade {
	return &Facade{state: StatePending, kind: KindBoolean, table: table, source: source, top: top, env: env, logger: orDefault(logger)}
}

// NewGraphFacade builds a façade over a CONSTRUCT/DESCRIBE-shaped
// rowsource tree, instantiating template against each row it drives.
func NewGraphFacade(table *variable.Table, source triplesource.Source, top rowsource.Rowsource, env *rowsource.EvalEnv, template []algebra.TriplePattern, logger *slog.Logger) *Facade {
	return &Facade{state: StatePending, kind: KindGraph, table: table, source: source, top: top, env: env, template: template, blankCache: make(map[string]*rdf.Blank), logger: orDefault(logger)}
}

func orDefault(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}

func (f *Facade) IsBindings() bool { return f.kind == KindBindings }
func (f *Facade) IsBoolean() bool  { return f.kind == KindBoolean }
func (f *Facade) IsGraph() bool    { return f.kind == KindGraph }

// ExecuteInit moves pending -> executing. Calling it more than once, or
// after Finish, is a no-op.
func (f *Facade) ExecuteInit() error {
	if f.state != StatePending {
		return nil
	}
	if err := f.top.EnsureVariables(); err != nil {
		return f.fail(err)
	}
	f.state = StateExecuting
	return nil
}

func (f *Facade) fail(err error) error {
	f.state = StateFailed
	f.err = err
	f.logger.Warn("query execution failed", "error", err)
	return err
}

func (f *Facade) Finished() bool   { return f.state == StateFinished || f.state == StateFailed }
func (f *Facade) FinishedOK() bool { return f.state == StateFinished }

// GetBindingsCount returns the number of addressable SELECT variables.
func (f *Facade) GetBindingsCount() int { return len(f.bindingVars) }

func (f *Facade) GetBindingName(i int) string {
	if i < 0 || i >= len(f.bindingVars) {
		return ""
	}
	return f.bindingVars[i]
}

// GetBindingValue returns the term bound to the i-th SELECT variable in
// the row most recently returned by Next, or nil if unbound / no row /
// failed state (the sticky "no data" sentinel, spec §6.3).
func (f *Facade) GetBindingValue(i int) rdf.Term {
	if f.cur == nil || i < 0 || i >= len(f.bindingVars) {
		return nil
	}
	off, ok := f.table.OffsetByName(f.bindingVars[i])
	if !ok {
		return nil
	}
	return f.cur.Get(off)
}

func (f *Facade) GetBindingValueByName(name string) rdf.Term {
	if f.cur == nil {
		return nil
	}
	off, ok := f.table.OffsetByName(name)
	if !ok {
		return nil
	}
	return f.cur.Get(off)
}

// Next pulls one row from the top rowsource; returns false at
// exhaustion, error, or once the façade has already failed/finished.
func (f *Facade) Next() bool {
	if f.state == StateFailed || f.state == StateFinished {
		f.cur = nil
		return false
	}
	if f.state == StatePending {
		if err := f.ExecuteInit(); err != nil {
			return false
		}
	}
	r, err := f.top.ReadRow()
	if err != nil {
		f.fail(err)
		return false
	}
	if r == nil {
		f.state = StateFinished
		f.cur = nil
		return false
	}
	f.cur = r
	return true
}

// GetBoolean drives the top rowsource to its first row (or exhaustion)
// and returns whether any row was produced (spec §4.19 "get_boolean").
func (f *Facade) GetBoolean() bool {
	if f.booleanComputed {
		return f.booleanResult
	}
	f.booleanResult = f.Next()
	f.booleanComputed = true
	f.state = StateFinished
	return f.booleanResult
}

// GetTriple returns the next CONSTRUCT/DESCRIBE triple, pulling and
// instantiating further rows against template as needed. Returns nil at
// exhaustion or failure.
func (f *Facade) GetTriple() *rdf.Quad {
	for len(f.pending) == 0 {
		if !f.Next() {
			return nil
		}
		f.rowSeq++
		for _, pattern := range f.template {
			q, ok := f.instantiate(pattern)
			if ok {
				f.pending = append(f.pending, q)
			}
		}
	}
	q := f.pending[0]
	f.pending = f.pending[1:]
	return q
}

// NextTriple reports whether a further GetTriple call would succeed,
// without consuming it (it drives enough rows to know, so GetTriple
// right after NextTriple==true never re-pulls).
func (f *Facade) NextTriple() bool {
	for len(f.pending) == 0 {
		if !f.Next() {
			return false
		}
		f.rowSeq++
		for _, pattern := range f.template {
			q, ok := f.instantiate(pattern)
			if ok {
				f.pending = append(f.pending, q)
			}
		}
	}
	return true
}

// instantiate substitutes pattern's variables against the current row,
// skipping triples whose subject/predicate is unbound, whose subject is
// a literal, or whose predicate is a blank node (spec §4.19). Template
// blank labels get a row-scoped prefix so each row's blanks are fresh.
func (f *Facade) instantiate(pattern algebra.TriplePattern) (*rdf.Quad, bool) {
	subject := f.resolveTemplateTerm(pattern.Subject)
	predicate := f.resolveTemplateTerm(pattern.Predicate)
	object := f.resolveTemplateTerm(pattern.Object)

	if subject == nil || predicate == nil || object == nil {
		return nil, false
	}
	if subject.Type() == rdf.TermTypeLiteral {
		return nil, false
	}
	if predicate.Type() == rdf.TermTypeBlank {
		return nil, false
	}
	return rdf.NewQuad(subject, predicate, object, rdf.DefaultGraphIRI), true
}

func (f *Facade) resolveTemplateTerm(t rdf.Term) rdf.Term {
	switch v := t.(type) {
	case *rdf.VariableRef:
		off, ok := f.table.OffsetByName(v.Name)
		if !ok || f.cur == nil {
			return nil
		}
		return f.cur.Get(off)
	case *rdf.Blank:
		key := fmt.Sprintf("%d:%s", f.rowSeq, v.Label)
		if b, ok := f.blankCache[key]; ok {
			return b
		}
		b := rdf.NewBlank(fmt.Sprintf("row%d-%s", f.rowSeq, v.Label))
		f.blankCache[key] = b
		return b
	default:
		return t
	}
}

// Finish releases the rowsource tree and the triples source. Idempotent.
func (f *Facade) Finish() error {
	if f.state == StateFinished && f.top == nil {
		return nil
	}
	var err error
	if f.top != nil {
		err = f.top.Finish()
		f.top = nil
	}
	if f.source != nil {
		if cerr := f.source.Close(); cerr != nil && err == nil {
			err = cerr
		}
		f.source = nil
	}
	f.cur = nil
	f.pending = nil
	if f.state != StateFailed {
		f.state = StateFinished
	}
	return err
}
