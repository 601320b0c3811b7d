// Package badgerdb provides a BadgerDB-backed persistent store. Badger is an
// embedded key-value ledger with low-latency synchronous writes, which suits
// hosts that replay the registry from a local log-structured store instead of
// a SQL snapshot table.
package badgerdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"creaturecore/internal/infra/persistence/memory"
	"creaturecore/pkg/registry"

	"github.com/dgraph-io/badger/v4"
)

// Compile-time contract assertion ensuring the store satisfies the domain
// persistence interface.
var _ registry.PersistentStore = (*Store)(nil)

const (
	creaturesKey = "state/creatures"
	allocatorKey = "state/allocator"
)

// Config holds construction parameters for the Badger-backed store.
type Config struct {
	// Path is the directory for Badger files. Ignored when InMemory is set.
	Path string
	// InMemory disables disk persistence; primarily for tests.
	InMemory bool
	// SyncWrites forces synchronous writes for durability. Defaults to true
	// for on-disk stores.
	SyncWrites bool
}

// Store persists registry state to Badger while reusing the in-memory
// implementation for transactions.
type Store struct {
	*memory.Store
	db *badger.DB
	mu sync.Mutex
}

// NewStore opens a Badger-backed store, creating the directory as needed,
// and hydrates the in-memory state from any existing snapshot.
func NewStore(cfg Config, engine *registry.RulesEngine) (*Store, error) {
	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if cfg.Path == "" {
			return nil, errors.New("badger store requires a path")
		}
		opts = badger.DefaultOptions(cfg.Path).WithSyncWrites(cfg.SyncWrites)
	}
	opts = opts.WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	s := &Store{Store: memory.NewStore(engine), db: db}
	if err := s.load(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) load() error {
	var snapshot memory.Snapshot
	loaded := false
	err := s.db.View(func(txn *badger.Txn) error {
		if item, err := txn.Get([]byte(creaturesKey)); err == nil {
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &snapshot.Creatures)
			}); err != nil {
				return fmt.Errorf("decode creatures: %w", err)
			}
			loaded = true
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("read creatures: %w", err)
		}
		if item, err := txn.Get([]byte(allocatorKey)); err == nil {
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &snapshot.NextID)
			}); err != nil {
				return fmt.Errorf("decode allocator: %w", err)
			}
			loaded = true
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("read allocator: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	if loaded {
		s.ImportState(snapshot)
	}
	return nil
}

func (s *Store) persist() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := s.ExportState()
	creatures, err := json.Marshal(snapshot.Creatures)
	if err != nil {
		return err
	}
	allocator, err := json.Marshal(snapshot.NextID)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(creaturesKey), creatures); err != nil {
			return fmt.Errorf("write creatures: %w", err)
		}
		if err := txn.Set([]byte(allocatorKey), allocator); err != nil {
			return fmt.Errorf("write allocator: %w", err)
		}
		return nil
	})
}

// RunInTransaction applies fn within a transaction, then snapshots state to
// Badger if successful.
func (s *Store) RunInTransaction(ctx context.Context, fn func(registry.Transaction) error) (registry.Result, error) {
	res, err := s.Store.RunInTransaction(ctx, fn)
	if err != nil {
		return res, err
	}
	if pErr := s.persist(); pErr != nil {
		return res, pErr
	}
	return res, nil
}

// Close releases the underlying Badger handle.
func (s *Store) Close() error { return s.db.Close() }
