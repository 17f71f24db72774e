package triplesource

import (
	"fmt"

	"sparqlcore/pkg/rdf"
)

// MinFactoryVersion/MaxFactoryVersion bound the triples-source factory
// versions this core accepts (spec §6.1 "version range is negotiated").
const (
	MinFactoryVersion = 1
	MaxFactoryVersion = 1
)

// NegotiateFactoryVersion checks a producer-advertised factory version
// against [min, max] and returns ErrUnsupportedVersion if it falls
// outside that range (spec §6.1: "the core advertises a min/max factory
// version and refuses sources outside that range with a clear log
// message"). Callers log the rejection themselves so they can attach
// the producer's identity.
func NegotiateFactoryVersion(version, min, max int) error {
	if version < min || version > max {
		return fmt.Errorf("%w: got version %d, supported range [%d, %d]", ErrUnsupportedVersion, version, min, max)
	}
	return nil
}

// Source is the triples-source interface (spec §6.1): triple-pattern
// matching and exact-triple presence over a concrete RDF store.
type Source interface {
	// TriplePresent reports whether exactly q is stored.
	TriplePresent(q *rdf.Quad) (bool, error)
	// Match returns an iterator over quads satisfying pattern; a nil
	// Subject, Predicate or Object matches every value in that position,
	// and a nil Graph matches the default graph only.
	Match(pattern QuadPattern) (MatchIterator, error)
	// SupportFeature reports capability negotiation flags, e.g.
	// "exact-graph-enumeration".
	SupportFeature(feature string) bool
	// Graphs enumerates known named graph IRIs, used by the Graph
	// rowsource (spec §4.15) when its origin term is a variable.
	Graphs() ([]rdf.Term, error)
	// Close releases the source (spec §6.1 "free_triples_source").
	Close() error
}

// QuadPattern is a triple pattern plus an optional graph constraint
// (spec §3 "Triple pattern"). A nil Subject, Predicate or Object matches
// any term in that position; a *rdf.VariableRef is never passed here — the BGP rowsource
// resolves pattern variables to either a concrete bound term or nil
// before calling Match.
type QuadPattern struct {
	Subject   rdf.Term
	Predicate rdf.Term
	Object    rdf.Term
	Graph     rdf.Term // nil or rdf.DefaultGraphIRI means the default graph only
}

// MatchIterator yields quads matching a pattern until exhaustion (spec
// §3 "triples-match iterator").
type MatchIterator interface {
	Next() bool
	Quad() (*rdf.Quad, error)
	Close() error
}

// Feature names recognised by SupportFeature.
const (
	FeatureExactGraphEnumeration = "exact-graph-enumeration"
)

// store is the shared implementation behind MemoryStorage- and
// BadgerStorage-backed sources: both just plug a different Storage in.
type store struct {
	storage Storage
	enc     *Encoder
	dec     *Decoder
}

// NewMemorySource builds a Source backed by an in-memory Storage.
func NewMemorySource() Source {
	return &store{storage: NewMemoryStorage(), enc: NewEncoder(), dec: NewDecoder()}
}

// NewBadgerSource builds a Source backed by a BadgerDB at path.
func NewBadgerSource(path string) (Source, error) {
	return NewBadgerSourceWithOptions(path, BadgerOptions{})
}

// NewBadgerSourceWithOptions is NewBadgerSource with BadgerOptions
// layered over badger's defaults.
func NewBadgerSourceWithOptions(path string, opts BadgerOptions) (Source, error) {
	s, err := NewBadgerStorageWithOptions(path, opts)
	if err != nil {
		return nil, err
	}
	return &store{storage: s, enc: NewEncoder(), dec: NewDecoder()}, nil
}

func (s *store) Close() error { return s.storage.Close() }

func (s *store) SupportFeature(feature string) bool {
	return feature == FeatureExactGraphEnumeration
}

// Load inserts a quad into every applicable index (spec §6.1's
// producer-side counterpart to Match; not part of the read interface
// but needed to populate a source for tests and bulk loads).
func (s *store) Load(q *rdf.Quad) error {
	txn, err := s.storage.Begin(true)
	if err != nil {
		return err
	}
	if err := s.index(txn, q); err != nil {
		_ = txn.Rollback()
		return err
	}
	return txn.Commit()
}

func (s *store) index(txn Transaction, q *rdf.Quad) error {
	subj, subjStr, err := s.enc.EncodeTerm(q.Subject)
	if err != nil {
		return err
	}
	pred, predStr, err := s.enc.EncodeTerm(q.Predicate)
	if err != nil {
		return err
	}
	obj, objStr, err := s.enc.EncodeTerm(q.Object)
	if err != nil {
		return err
	}
	isDefault := q.Graph == nil || sameIRI(q.Graph, rdf.DefaultGraphIRI)
	var graph EncodedTerm
	var graphStr *string
	if isDefault {
		graph = s.enc.EncodeDefaultGraph()
	} else {
		graph, graphStr, err = s.enc.EncodeTerm(q.Graph)
		if err != nil {
			return err
		}
	}

	for _, pair := range []struct {
		enc EncodedTerm
		str *string
	}{{subj, subjStr}, {pred, predStr}, {obj, objStr}, {graph, graphStr}} {
		if pair.str != nil {
			if err := txn.Set(TableID2Str, pair.enc[1:], []byte(*pair.str)); err != nil {
				return err
			}
		}
	}

	if isDefault {
		if err := txn.Set(TableSPO, s.enc.EncodeQuadKey(subj, pred, obj), nil); err != nil {
			return err
		}
		if err := txn.Set(TablePOS, s.enc.EncodeQuadKey(pred, obj, subj), nil); err != nil {
			return err
		}
		if err := txn.Set(TableOSP, s.enc.EncodeQuadKey(obj, subj, pred), nil); err != nil {
			return err
		}
		return nil
	}

	if err := txn.Set(TableSPOG, s.enc.EncodeQuadKey(subj, pred, obj, graph), nil); err != nil {
		return err
	}
	if err := txn.Set(TablePOSG, s.enc.EncodeQuadKey(pred, obj, subj, graph), nil); err != nil {
		return err
	}
	if err := txn.Set(TableOSPG, s.enc.EncodeQuadKey(obj, subj, pred, graph), nil); err != nil {
		return err
	}
	if err := txn.Set(TableGSPO, s.enc.EncodeQuadKey(graph, subj, pred, obj), nil); err != nil {
		return err
	}
	if err := txn.Set(TableGPOS, s.enc.EncodeQuadKey(graph, pred, obj, subj), nil); err != nil {
		return err
	}
	if err := txn.Set(TableGOSP, s.enc.EncodeQuadKey(graph, obj, subj, pred), nil); err != nil {
		return err
	}
	return txn.Set(TableGraphs, graph[:], []byte("1"))
}

func sameIRI(t rdf.Term, iri *rdf.IRI) bool {
	other, ok := t.(*rdf.IRI)
	return ok && other.Value == iri.Value
}

func (s *store) TriplePresent(q *rdf.Quad) (bool, error) {
	it, err := s.Match(QuadPattern{Subject: q.Subject, Predicate: q.Predicate, Object: q.Object, Graph: q.Graph})
	if err != nil {
		return false, err
	}
	defer it.Close()
	return it.Next(), nil
}

func (s *store) Graphs() ([]rdf.Term, error) {
	txn, err := s.storage.Begin(false)
	if err != nil {
		return nil, err
	}
	defer txn.Rollback()
	it, err := txn.Scan(TableGraphs, nil, nil)
	if err != nil {
		return nil, err
	}
	defer it.Close()

	var graphs []rdf.Term
	for it.Next() {
		var enc EncodedTerm
		copy(enc[:], it.Key())
		term, err := s.decodeTerm(txn, enc)
		if err != nil {
			return nil, err
		}
		graphs = append(graphs, term)
	}
	return graphs, nil
}

// selectIndex chooses the table and key-column order (a permutation
// mapping key position → S/P/O/G position) best matching which pattern
// positions are bound (spec §6.1, grounded on the 9-table indexing
// scheme's selectIndex/buildScanPrefix).
func (s *store) selectIndex(p QuadPattern) (Table, []int) {
	sBound, pBound, oBound := p.Subject != nil, p.Predicate != nil, p.Object != nil
	gBound := p.Graph != nil && !sameIRI(p.Graph, rdf.DefaultGraphIRI)

	if !gBound {
		switch {
		case sBound && pBound:
			return TableSPO, []int{0, 1, 2}
		case pBound && oBound:
			return TablePOS, []int{1, 2, 0}
		case oBound && sBound:
			return TableOSP, []int{2, 0, 1}
		case sBound:
			return TableSPO, []int{0, 1, 2}
		case pBound:
			return TablePOS, []int{1, 2, 0}
		case oBound:
			return TableOSP, []int{2, 0, 1}
		default:
			return TableSPO, []int{0, 1, 2}
		}
	}

	switch {
	case sBound && pBound:
		return TableGSPO, []int{3, 0, 1, 2}
	case pBound && oBound:
		return TableGPOS, []int{3, 1, 2, 0}
	case oBound && sBound:
		return TableGOSP, []int{3, 2, 0, 1}
	case sBound:
		return TableGSPO, []int{3, 0, 1, 2}
	case pBound:
		return TableGPOS, []int{3, 1, 2, 0}
	case oBound:
		return TableGOSP, []int{3, 2, 0, 1}
	default:
		return TableGSPO, []int{3, 0, 1, 2}
	}
}

func (s *store) buildScanPrefix(p QuadPattern, keyPattern []int) ([]byte, error) {
	positions := make([]rdf.Term, 4)
	positions[0] = p.Subject
	positions[1] = p.Predicate
	positions[2] = p.Object
	if p.Graph != nil {
		positions[3] = p.Graph
	} else {
		positions[3] = rdf.DefaultGraphIRI
	}

	var prefix []byte
	for _, idx := range keyPattern {
		term := positions[idx]
		if term == nil {
			break
		}
		enc, _, err := s.enc.EncodeTerm(term)
		if err != nil {
			return nil, err
		}
		prefix = append(prefix, enc[:]...)
	}
	return prefix, nil
}

func (s *store) Match(pattern QuadPattern) (MatchIterator, error) {
	txn, err := s.storage.Begin(false)
	if err != nil {
		return nil, err
	}
	table, keyPattern := s.selectIndex(pattern)
	prefix, err := s.buildScanPrefix(pattern, keyPattern)
	if err != nil {
		_ = txn.Rollback()
		return nil, err
	}
	it, err := txn.Scan(table, prefix, nil)
	if err != nil {
		_ = txn.Rollback()
		return nil, err
	}
	return &matchIterator{store: s, txn: txn, it: it, keyPattern: keyPattern, pattern: pattern}, nil
}

type matchIterator struct {
	store      *store
	txn        Transaction
	it         Iterator
	keyPattern []int
	pattern    QuadPattern
	current    *rdf.Quad
	closed     bool
}

func (m *matchIterator) Next() bool {
	if m.closed {
		return false
	}
	return m.it.Next()
}

func (m *matchIterator) Quad() (*rdf.Quad, error) {
	if m.closed {
		return nil, fmt.Errorf("triplesource: iterator closed")
	}
	key := m.it.Key()
	n := len(m.keyPattern)
	if len(key) < n*EncodedTermSize {
		return nil, fmt.Errorf("triplesource: short key (len %d, expected %d columns)", len(key), n)
	}

	cols := make([]EncodedTerm, n)
	for i := 0; i < n; i++ {
		copy(cols[i][:], key[i*EncodedTermSize:(i+1)*EncodedTermSize])
	}
	positions := make([]EncodedTerm, 4)
	for i, idx := range m.keyPattern {
		positions[idx] = cols[i]
	}

	subj, err := m.store.decodeTerm(m.txn, positions[0])
	if err != nil {
		return nil, fmt.Errorf("triplesource: decode subject: %w", err)
	}
	pred, err := m.store.decodeTerm(m.txn, positions[1])
	if err != nil {
		return nil, fmt.Errorf("triplesource: decode predicate: %w", err)
	}
	obj, err := m.store.decodeTerm(m.txn, positions[2])
	if err != nil {
		return nil, fmt.Errorf("triplesource: decode object: %w", err)
	}
	var graph rdf.Term = rdf.DefaultGraphIRI
	if n > 3 {
		graph, err = m.store.decodeTerm(m.txn, positions[3])
		if err != nil {
			return nil, fmt.Errorf("triplesource: decode graph: %w", err)
		}
	}
	return rdf.NewQuad(subj, pred, obj, graph), nil
}

func (m *matchIterator) Close() error {
	if m.closed {
		return nil
	}
	m.closed = true
	_ = m.it.Close()
	return m.txn.Rollback()
}

func (s *store) decodeTerm(txn Transaction, enc EncodedTerm) (rdf.Term, error) {
	return s.dec.DecodeTerm(enc, func(e EncodedTerm) (string, bool) {
		val, err := txn.Get(TableID2Str, e[1:])
		if err != nil {
			return "", false
		}
		return string(val), true
	})
}
