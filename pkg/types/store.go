package types

import "errors"

// Store holds the live records of one shell session, keyed by
// "<Class>.<id>". Every mutation is followed by Save, which writes the whole
// set to the attached Engine.
type Store interface {
	// Attach connects the Store to the backend described by config and loads
	// every persisted record. Returns ErrAlreadyAttached if called twice.
	Attach(config Config) error

	// Detach releases backend resources. Idempotent.
	Detach() error

	// All returns every live record in insertion order.
	All() []*Record

	// Get returns the record stored under key.
	// Returns ErrNotFound if no record has that key.
	Get(key string) (*Record, error)

	// New adds a record under its Key, replacing any record with the same key.
	New(r *Record)

	// Delete removes the record stored under key.
	// Returns ErrNotFound if no record has that key.
	Delete(key string) error

	// Save persists the current record set.
	Save() error
}

// Engine is the durable half of a Store: it reads and writes the full record
// set in one call.
type Engine interface {
	Load() ([]*Record, error)
	Persist(records []*Record) error
	Close() error
}

// Store lifecycle errors.
var (
	ErrStoreDetached   = errors.New("store is detached")
	ErrAlreadyAttached = errors.New("store is already attached")
)

// Record errors.
var (
	ErrNotFound      = errors.New("record not found")
	ErrUnknownClass  = errors.New("unknown class")
	ErrCorruptRecord = errors.New("corrupt record")
)
