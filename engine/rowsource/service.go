package rowsource

import (
	"log/slog"

	"sparqlcore/engine/row"
	"sparqlcore/engine/variable"
	"sparqlcore/pkg/rdf"
)

// Service is the federated SERVICE stub (spec §1 Non-goal: "federated
// SERVICE calls (stubbed)"). It never contacts iri; it logs once at
// construction and always yields zero rows, regardless of Silent —
// Silent only changes whether a real implementation would swallow a
// remote-endpoint error, and there is no remote call here to fail.
type Service struct {
	base
	iri    rdf.Term
	silent bool
	logger *slog.Logger
	logged bool
}

func NewService(table *variable.Table, iri rdf.Term, silent bool, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{base: base{table: table}, iri: iri, silent: silent, logger: logger}
}

func (s *Service) EnsureVariables() error           { return nil }
func (s *Service) SetRequirements(Requirements)     {}
func (s *Service) GetInnerRowsource(n int) Rowsource { return nil }

func (s *Service) Reset() error {
	s.finished = false
	s.failed = nil
	s.logged = false
	return nil
}

func (s *Service) ReadAllRows() ([]*row.Row, error) { return ReadAll(s) }
func (s *Service) Finish() error                    { s.finished = true; return nil }

func (s *Service) ReadRow() (*row.Row, error) {
	if r, err, done := s.checkFailed(); done {
		return r, err
	}
	if !s.logged {
		s.logger.Warn("SERVICE clause not executed, treating as empty", "iri", s.iri.String(), "silent", s.silent)
		s.logged = true
	}
	s.finished = true
	return nil, nil
}
