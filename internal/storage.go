package internal

import (
	"database/sql"
	"sync"
)

// ActiveSessionKey is the fixed key the active session id is stored under
const ActiveSessionKey = "chat_session_id"

// StateStore is durable client-local key/value storage
type StateStore interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
}

// SQLiteState stores client state in the client_state table
type SQLiteState struct {
	db   *sql.DB
	path string
}

// OpenSQLiteState opens the state database at path
func OpenSQLiteState(path string) (*SQLiteState, error) {
	db, err := OpenDatabase(path)
	if err != nil {
		return nil, &StateError{Path: path, Op: "open", Err: err}
	}
	return &SQLiteState{db: db, path: path}, nil
}

// Get reads a key
func (s *SQLiteState) Get(key string) (string, bool, error) {
	value, ok, err := QueryState(s.db, key)
	if err != nil {
		return "", false, &StateError{Path: s.path, Op: "get", Err: err}
	}
	return value, ok, nil
}

// Set writes a key
func (s *SQLiteState) Set(key, value string) error {
	if err := UpsertState(s.db, key, value); err != nil {
		return &StateError{Path: s.path, Op: "set", Err: err}
	}
	return nil
}

// Entries returns every stored pair
func (s *SQLiteState) Entries() ([]KeyValuePair, error) {
	pairs, err := ListState(s.db)
	if err != nil {
		return nil, &StateError{Path: s.path, Op: "get", Err: err}
	}
	return pairs, nil
}

// Close closes the underlying database
func (s *SQLiteState) Close() error {
	return s.db.Close()
}

// MemoryState is a StateStore that lives only as long as the process
type MemoryState struct {
	mu     sync.Mutex
	values map[string]string
}

// NewMemoryState creates an empty in-memory store
func NewMemoryState() *MemoryState {
	return &MemoryState{values: make(map[string]string)}
}

// Get reads a key
func (m *MemoryState) Get(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok, nil
}

// Set writes a key
func (m *MemoryState) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.values == nil {
		m.values = make(map[string]string)
	}
	m.values[key] = value
	return nil
}
