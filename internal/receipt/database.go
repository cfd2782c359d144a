package receipt

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.etcd.io/bbolt"
)

const (
	bucketName = "receipts"
	// recordsKey is the single namespaced key holding the full JSON-encoded
	// record sequence. Every append is load-all, mutate, store-all.
	recordsKey = "quickreceipt_receipts"
)

// ErrPersistence means a record could not be durably written. The record may
// still be visible in the session's in-memory view.
var ErrPersistence = errors.New("persistence failure")

// Store defines the interface for receipt persistence.
// The sequence is append-only and insertion-ordered.
type Store interface {
	// Append adds a record to the end of the stored sequence
	Append(receipt *Receipt) error

	// ListAll returns all records in insertion order; an empty or
	// uninitialized store yields an empty slice, never an error
	ListAll() ([]*Receipt, error)

	// Close closes the store
	Close() error
}

// BoltStore implements the Store interface using BoltDB
type BoltStore struct {
	db *bbolt.DB

	// session view: retains appended records even when the durable write
	// fails, an accepted inconsistency surfaced to callers as ErrPersistence
	mu     sync.Mutex
	cache  []*Receipt
	loaded bool
}

// NewBoltStore creates a new BoltStore instance
func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening boltdb: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating bucket: %w", err)
	}

	return &BoltStore{db: db}, nil
}

// load reads the full record sequence from the durable key into the cache.
// Callers must hold mu.
func (b *BoltStore) load() error {
	if b.loaded {
		return nil
	}
	records := make([]*Receipt, 0)
	err := b.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket([]byte(bucketName)).Get([]byte(recordsKey))
		if data == nil {
			return nil
		}
		return json.Unmarshal(data, &records)
	})
	if err != nil {
		return fmt.Errorf("%w: reading records: %v", ErrPersistence, err)
	}
	b.cache = records
	b.loaded = true
	return nil
}

// Append adds a record to the stored sequence. The full sequence is loaded,
// extended, and written back in a single transaction. On a write failure the
// record stays in the in-memory view and ErrPersistence is returned.
func (b *BoltStore) Append(receipt *Receipt) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.load(); err != nil {
		return err
	}

	b.cache = append(b.cache, receipt)

	data, err := json.Marshal(b.cache)
	if err != nil {
		return fmt.Errorf("%w: marshaling records: %v", ErrPersistence, err)
	}
	err = b.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(bucketName)).Put([]byte(recordsKey), data)
	})
	if err != nil {
		return fmt.Errorf("%w: writing records: %v", ErrPersistence, err)
	}
	return nil
}

// ListAll returns all records in insertion order
func (b *BoltStore) ListAll() ([]*Receipt, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.load(); err != nil {
		return nil, err
	}

	out := make([]*Receipt, len(b.cache))
	copy(out, b.cache)
	return out, nil
}

// Close closes the database connection
func (b *BoltStore) Close() error {
	return b.db.Close()
}
