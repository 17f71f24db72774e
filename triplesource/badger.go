package triplesource

import (
	"bytes"

	badger "github.com/dgraph-io/badger/v4"
)

// BadgerStorage implements Storage on top of BadgerDB, for datasets too
// large to hold in a MemoryStorage (spec §6.1: "pluggable interface over
// a concrete RDF store").
type BadgerStorage struct {
	db *badger.DB
}

// BadgerOptions wraps the badger.Options a caller wants to override,
// applied on top of badger.DefaultOptions(path) (ground:
// internal/storage/badger.go's direct use of the same constructor).
type BadgerOptions struct {
	InMemory         bool
	SyncWrites       bool
	ValueLogFileSize int64
}

func NewBadgerStorage(path string) (*BadgerStorage, error) {
	return NewBadgerStorageWithOptions(path, BadgerOptions{})
}

// NewBadgerStorageWithOptions builds a BadgerStorage with badger's own
// logger disabled (the teacher never surfaces it through slog, see
// DESIGN.md) and opts layered over badger.DefaultOptions(path).
func NewBadgerStorageWithOptions(path string, opts BadgerOptions) (*BadgerStorage, error) {
	bopts := badger.DefaultOptions(path)
	bopts.Logger = nil
	if opts.InMemory {
		bopts = bopts.WithInMemory(true)
	}
	if opts.SyncWrites {
		bopts = bopts.WithSyncWrites(true)
	}
	if opts.ValueLogFileSize > 0 {
		bopts = bopts.WithValueLogFileSize(opts.ValueLogFileSize)
	}
	db, err := badger.Open(bopts)
	if err != nil {
		return nil, err
	}
	return &BadgerStorage{db: db}, nil
}

func (s *BadgerStorage) Begin(writable bool) (Transaction, error) {
	return &badgerTransaction{txn: s.db.NewTransaction(writable), writable: writable}, nil
}

func (s *BadgerStorage) Close() error { return s.db.Close() }
func (s *BadgerStorage) Sync() error  { return s.db.Sync() }

type badgerTransaction struct {
	txn      *badger.Txn
	writable bool
}

func (t *badgerTransaction) Get(table Table, key []byte) ([]byte, error) {
	item, err := t.txn.Get(PrefixKey(table, key))
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	var out []byte
	err = item.Value(func(val []byte) error {
		out = append([]byte{}, val...)
		return nil
	})
	return out, err
}

func (t *badgerTransaction) Set(table Table, key, value []byte) error {
	if !t.writable {
		return ErrTransactionRO
	}
	return t.txn.Set(PrefixKey(table, key), value)
}

func (t *badgerTransaction) Delete(table Table, key []byte) error {
	if !t.writable {
		return ErrTransactionRO
	}
	return t.txn.Delete(PrefixKey(table, key))
}

func (t *badgerTransaction) Scan(table Table, start, end []byte) (Iterator, error) {
	opts := badger.DefaultIteratorOptions
	tablePrefix := TablePrefix(table)

	var seekKey, scanPrefix []byte
	if start != nil {
		seekKey = PrefixKey(table, start)
		scanPrefix = seekKey
	} else {
		seekKey = tablePrefix
		scanPrefix = tablePrefix
	}
	opts.Prefix = scanPrefix
	it := t.txn.NewIterator(opts)

	var endKey []byte
	if end != nil {
		endKey = PrefixKey(table, end)
	}

	return &badgerIterator{it: it, tablePrefix: tablePrefix, endKey: endKey, seekKey: seekKey}, nil
}

func (t *badgerTransaction) Commit() error   { return t.txn.Commit() }
func (t *badgerTransaction) Rollback() error { t.txn.Discard(); return nil }

type badgerIterator struct {
	it          *badger.Iterator
	tablePrefix []byte
	endKey      []byte
	seekKey     []byte
	started     bool
	valid       bool
}

func (i *badgerIterator) Next() bool {
	if !i.started {
		i.it.Seek(i.seekKey)
		i.started = true
	} else {
		i.it.Next()
	}
	if !i.it.Valid() {
		i.valid = false
		return false
	}
	if i.endKey != nil && bytes.Compare(i.it.Item().Key(), i.endKey) >= 0 {
		i.valid = false
		return false
	}
	i.valid = true
	return true
}

func (i *badgerIterator) Key() []byte {
	if !i.valid {
		return nil
	}
	key := i.it.Item().Key()
	if len(key) > len(i.tablePrefix) {
		return key[len(i.tablePrefix):]
	}
	return nil
}

func (i *badgerIterator) Value() ([]byte, error) {
	if !i.valid {
		return nil, ErrNotFound
	}
	var out []byte
	err := i.it.Item().Value(func(val []byte) error {
		out = append([]byte{}, val...)
		return nil
	})
	return out, err
}

func (i *badgerIterator) Close() error {
	i.it.Close()
	return nil
}
