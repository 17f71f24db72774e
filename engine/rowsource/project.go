package rowsource

import (
	"sparqlcore/engine/row"
	"sparqlcore/engine/variable"
)

// Project holds a projection variable sequence (spec §4.10). Columns
// named in the projection but absent from the child are always
// unbound (the -1 case in the spec's column map); child ordering is
// preserved.
type Project struct {
	base
	child   Rowsource
	offsets []variable.Offset
}

func NewProject(table *variable.Table, child Rowsource, vars []string) *Project {
	offsets := make([]variable.Offset, 0, len(vars))
	for _, v := range vars {
		if off, ok := table.OffsetByName(v); ok {
			offsets = append(offsets, off)
		}
	}
	return &Project{base: base{table: table}, child: child, offsets: offsets}
}

func (p *Project) EnsureVariables() error          { return p.child.EnsureVariables() }
func (p *Project) SetRequirements(r Requirements)  { p.child.SetRequirements(r) }
func (p *Project) GetInnerRowsource(n int) Rowsource {
	if n == 0 {
		return p.child
	}
	return nil
}
func (p *Project) Reset() error          { p.finished = false; p.failed = nil; return p.child.Reset() }
func (p *Project) ReadAllRows() ([]*row.Row, error) { return ReadAll(p) }
func (p *Project) Finish() error         { p.finished = true; return p.child.Finish() }

func (p *Project) ReadRow() (*row.Row, error) {
	if r, err, done := p.checkFailed(); done {
		return r, err
	}
	cr, err := p.child.ReadRow()
	if err != nil {
		return p.fail(err)
	}
	if cr == nil {
		p.finished = true
		return nil, nil
	}
	out := p.newRow()
	for _, off := range p.offsets {
		if v := cr.Get(off); v != nil {
			out.Set(off, v)
		}
	}
	return out, nil
}
