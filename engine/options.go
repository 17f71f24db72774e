// Package engine configures a single query execution via functional
// options, the same construction style as the teacher's
// badger.DefaultOptions(path) (spec §9's per-query clock/blank-prefix/
// seed plus §6.1's factory version range and the format registry's
// default format, spec §6.2).
package engine

import (
	"log/slog"
	"time"

	"sparqlcore/triplesource"
)

// Options bundles the knobs a host needs to set up before translating
// and executing one query.
type Options struct {
	Now           time.Time
	BlankPrefix   string
	Seed          int64
	MinVersion    int
	MaxVersion    int
	DefaultFormat string
	Logger        *slog.Logger
}

// DefaultOptions returns the baseline configuration: wall-clock time,
// the "b" blank-node prefix, a time-derived seed, the core's full
// supported factory version range, JSON as the default result format
// (matching the teacher's own "Default to JSON" fallback), and
// slog.Default() as the logger.
func DefaultOptions() Options {
	return Options{
		Now:           time.Now(),
		BlankPrefix:   "b",
		Seed:          time.Now().UnixNano(),
		MinVersion:    triplesource.MinFactoryVersion,
		MaxVersion:    triplesource.MaxFactoryVersion,
		DefaultFormat: "json",
		Logger:        slog.Default(),
	}
}

// Option mutates an Options in place.
type Option func(*Options)

func WithClock(now time.Time) Option { return func(o *Options) { o.Now = now } }

func WithBlankPrefix(prefix string) Option { return func(o *Options) { o.BlankPrefix = prefix } }

func WithSeed(seed int64) Option { return func(o *Options) { o.Seed = seed } }

func WithVersionRange(min, max int) Option {
	return func(o *Options) { o.MinVersion = min; o.MaxVersion = max }
}

func WithDefaultFormat(name string) Option { return func(o *Options) { o.DefaultFormat = name } }

func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) {
		if logger != nil {
			o.Logger = logger
		}
	}
}

// New applies opts over DefaultOptions.
func New(opts ...Option) Options {
	o := DefaultOptions()
	for _, apply := range opts {
		apply(&o)
	}
	return o
}

// NegotiateVersion checks a producer factory version against o's
// advertised range, logging a rejection at Warn before returning the
// error (spec §6.1 "refuses sources outside that range with a clear
// log message").
func (o Options) NegotiateVersion(producer string, version int) error {
	if err := triplesource.NegotiateFactoryVersion(version, o.MinVersion, o.MaxVersion); err != nil {
		o.Logger.Warn("rejecting triples-source factory", "producer", producer, "version", version, "min", o.MinVersion, "max", o.MaxVersion)
		return err
	}
	return nil
}
