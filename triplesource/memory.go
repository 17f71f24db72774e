package triplesource

import (
	"bytes"
	"sort"
	"sync"
)

// MemoryStorage is an in-memory Storage backend: each Table is a sorted
// slice of key/value pairs, scanned by binary-searching the prefix.
// Intended for tests and small datasets; BadgerStorage (badger.go) is
// the durable backend for anything bigger than memory.
type MemoryStorage struct {
	mu     sync.RWMutex
	tables [TableCount]*memTable
}

type memTable struct {
	keys   [][]byte
	values [][]byte
}

func NewMemoryStorage() *MemoryStorage {
	m := &MemoryStorage{}
	for i := range m.tables {
		m.tables[i] = &memTable{}
	}
	return m
}

func (m *MemoryStorage) Begin(writable bool) (Transaction, error) {
	return &memTransaction{store: m, writable: writable}, nil
}

func (m *MemoryStorage) Close() error { return nil }
func (m *MemoryStorage) Sync() error  { return nil }

func (t *memTable) find(key []byte) (int, bool) {
	i := sort.Search(len(t.keys), func(i int) bool { return bytes.Compare(t.keys[i], key) >= 0 })
	if i < len(t.keys) && bytes.Equal(t.keys[i], key) {
		return i, true
	}
	return i, false
}

func (t *memTable) set(key, value []byte) {
	i, found := t.find(key)
	if found {
		t.values[i] = value
		return
	}
	t.keys = append(t.keys, nil)
	t.values = append(t.values, nil)
	copy(t.keys[i+1:], t.keys[i:])
	copy(t.values[i+1:], t.values[i:])
	t.keys[i] = key
	t.values[i] = value
}

func (t *memTable) delete(key []byte) {
	i, found := t.find(key)
	if !found {
		return
	}
	t.keys = append(t.keys[:i], t.keys[i+1:]...)
	t.values = append(t.values[:i], t.values[i+1:]...)
}

type memTransaction struct {
	store    *MemoryStorage
	writable bool
	done     bool
}

func (tx *memTransaction) Get(table Table, key []byte) ([]byte, error) {
	tx.store.mu.RLock()
	defer tx.store.mu.RUnlock()
	t := tx.store.tables[table]
	i, found := t.find(key)
	if !found {
		return nil, ErrNotFound
	}
	return t.values[i], nil
}

func (tx *memTransaction) Set(table Table, key, value []byte) error {
	if !tx.writable {
		return ErrTransactionRO
	}
	tx.store.mu.Lock()
	defer tx.store.mu.Unlock()
	tx.store.tables[table].set(append([]byte{}, key...), append([]byte{}, value...))
	return nil
}

func (tx *memTransaction) Delete(table Table, key []byte) error {
	if !tx.writable {
		return ErrTransactionRO
	}
	tx.store.mu.Lock()
	defer tx.store.mu.Unlock()
	tx.store.tables[table].delete(key)
	return nil
}

func (tx *memTransaction) Scan(table Table, start, end []byte) (Iterator, error) {
	tx.store.mu.RLock()
	defer tx.store.mu.RUnlock()
	t := tx.store.tables[table]
	from := 0
	if start != nil {
		from, _ = t.find(start)
	}
	return &memIterator{table: t, pos: from - 1, prefix: start, end: end}, nil
}

func (tx *memTransaction) Commit() error   { tx.done = true; return nil }
func (tx *memTransaction) Rollback() error { tx.done = true; return nil }

type memIterator struct {
	table  *memTable
	pos    int
	prefix []byte
	end    []byte
}

func (it *memIterator) Next() bool {
	it.pos++
	if it.pos >= len(it.table.keys) {
		return false
	}
	key := it.table.keys[it.pos]
	if it.prefix != nil && !bytes.HasPrefix(key, it.prefix) {
		return false
	}
	if it.end != nil && bytes.Compare(key, it.end) >= 0 {
		return false
	}
	return true
}

func (it *memIterator) Key() []byte {
	if it.pos < 0 || it.pos >= len(it.table.keys) {
		return nil
	}
	return it.table.keys[it.pos]
}

func (it *memIterator) Value() ([]byte, error) {
	if it.pos < 0 || it.pos >= len(it.table.values) {
		return nil, ErrNotFound
	}
	return it.table.values[it.pos], nil
}

func (it *memIterator) Close() error { return nil }
