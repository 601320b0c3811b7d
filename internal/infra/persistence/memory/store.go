// Package memory provides the in-memory implementation of the registry
// persistence store. It is the authoritative transactional engine: durable
// backends wrap it and snapshot its state after each commit.
package memory

import (
	"context"
	"math"
	"sort"
	"sync"

	"creaturecore/pkg/registry"
)

// Compile-time contract assertion ensuring memory.Store adheres to the
// domain persistence interface.
var _ registry.PersistentStore = (*Store)(nil)

// Exported aliases keep method signatures concise while still exposing
// registry types from this infra package.
type (
	// Owner is an alias of registry.Owner.
	Owner = registry.Owner
	// CreatureID is an alias of registry.CreatureID.
	CreatureID = registry.CreatureID
	// Creature is an alias of registry.Creature.
	Creature = registry.Creature
	// OwnedCreature is an alias of registry.OwnedCreature.
	OwnedCreature = registry.OwnedCreature
	// Change is an alias of registry.Change.
	Change = registry.Change
	// Result is an alias of registry.Result.
	Result = registry.Result
	// RulesEngine is an alias of registry.RulesEngine.
	RulesEngine = registry.RulesEngine
	// Transaction is an alias of registry.Transaction.
	Transaction = registry.Transaction
	// TransactionView is an alias of registry.TransactionView.
	TransactionView = registry.TransactionView
	// PersistentStore is an alias of registry.PersistentStore.
	PersistentStore = registry.PersistentStore
)

type recordKey struct {
	owner Owner
	id    CreatureID
}

type memoryState struct {
	creatures map[recordKey]Creature
	nextID    CreatureID
}

func newMemoryState() memoryState {
	return memoryState{creatures: make(map[recordKey]Creature)}
}

func (s memoryState) clone() memoryState {
	cloned := memoryState{
		creatures: make(map[recordKey]Creature, len(s.creatures)),
		nextID:    s.nextID,
	}
	for k, v := range s.creatures {
		cloned.creatures[k] = v
	}
	return cloned
}

func (s *memoryState) list() []OwnedCreature {
	out := make([]OwnedCreature, 0, len(s.creatures))
	for k, v := range s.creatures {
		out = append(out, OwnedCreature{Owner: k.owner, ID: k.id, Creature: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ID != out[j].ID {
			return out[i].ID < out[j].ID
		}
		return out[i].Owner < out[j].Owner
	})
	return out
}

// Snapshot captures a point-in-time clone of the store state for external
// persistence. Records are ordered by identifier so encodings are stable.
type Snapshot struct {
	Creatures []OwnedCreature `json:"creatures"`
	NextID    CreatureID      `json:"next_creature_id"`
}

func snapshotFromMemoryState(state memoryState) Snapshot {
	return Snapshot{Creatures: state.list(), NextID: state.nextID}
}

func memoryStateFromSnapshot(snapshot Snapshot) memoryState {
	state := newMemoryState()
	state.nextID = snapshot.NextID
	for _, rec := range snapshot.Creatures {
		state.creatures[recordKey{owner: rec.Owner, id: rec.ID}] = rec.Creature
	}
	return state
}

// migrateSnapshot repairs snapshots written by earlier processes: duplicate
// keys collapse to the first occurrence and the allocator counter is healed
// so it stays strictly above every issued identifier.
func migrateSnapshot(snapshot Snapshot) Snapshot {
	seen := make(map[recordKey]struct{}, len(snapshot.Creatures))
	records := make([]OwnedCreature, 0, len(snapshot.Creatures))
	var maxID CreatureID
	for _, rec := range snapshot.Creatures {
		key := recordKey{owner: rec.Owner, id: rec.ID}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		records = append(records, rec)
		if rec.ID > maxID {
			maxID = rec.ID
		}
	}
	snapshot.Creatures = records
	if len(records) > 0 && snapshot.NextID <= maxID {
		snapshot.NextID = maxID + 1
	}
	return snapshot
}

// Store provides the in-memory transactional store for the registry.
type Store struct {
	mu     sync.RWMutex
	state  memoryState
	engine *RulesEngine
}

// NewStore constructs an in-memory store backed by the provided rules engine.
func NewStore(engine *RulesEngine) *Store {
	if engine == nil {
		engine = registry.NewRulesEngine()
	}
	return &Store{state: newMemoryState(), engine: engine}
}

// ExportState clones the current store state for external persistence.
func (s *Store) ExportState() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshotFromMemoryState(s.state)
}

// ImportState replaces the store state with the provided snapshot.
func (s *Store) ImportState(snapshot Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = memoryStateFromSnapshot(migrateSnapshot(snapshot))
}

// RulesEngine exposes the configured engine for integration points.
func (s *Store) RulesEngine() *RulesEngine {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine
}

type transaction struct {
	state   memoryState
	changes []Change
}

type transactionView struct {
	state *memoryState
}

func newTransactionView(state *memoryState) TransactionView {
	return transactionView{state: state}
}

// ListCreatures returns all records within the snapshot, ordered by id.
func (v transactionView) ListCreatures() []OwnedCreature {
	return v.state.list()
}

// FindCreature retrieves a record by its full (owner, id) key.
func (v transactionView) FindCreature(owner Owner, id CreatureID) (Creature, bool) {
	c, ok := v.state.creatures[recordKey{owner: owner, id: id}]
	return c, ok
}

// NextCreatureID peeks at the allocator counter.
func (v transactionView) NextCreatureID() CreatureID {
	return v.state.nextID
}

// RunInTransaction executes fn within a transactional copy of the store
// state. The copy becomes visible only if fn succeeds and no blocking rule
// violation is found; otherwise the original state, counter included, is
// untouched.
func (s *Store) RunInTransaction(ctx context.Context, fn func(tx Transaction) error) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &transaction{state: s.state.clone()}

	if err := fn(tx); err != nil {
		return Result{}, err
	}

	var result Result
	if s.engine != nil {
		view := newTransactionView(&tx.state)
		res, err := s.engine.Evaluate(ctx, view, tx.changes)
		if err != nil {
			return Result{}, err
		}
		result = res
		if res.HasBlocking() {
			return res, registry.RuleViolationError{Result: res}
		}
	}

	s.state = tx.state
	return result, nil
}

// View executes fn against a read-only snapshot of the store state.
func (s *Store) View(_ context.Context, fn func(TransactionView) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := s.state.clone()
	return fn(newTransactionView(&snapshot))
}

// GetCreature resolves a record by its full key outside a transaction.
func (s *Store) GetCreature(owner Owner, id CreatureID) (Creature, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.state.creatures[recordKey{owner: owner, id: id}]
	return c, ok
}

// ListCreatures returns all records ordered by id.
func (s *Store) ListCreatures() []OwnedCreature {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.list()
}

// NextCreatureID reports the allocator counter without consuming an id.
func (s *Store) NextCreatureID() CreatureID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.nextID
}

func (tx *transaction) recordChange(change Change) {
	tx.changes = append(tx.changes, change)
}

// Snapshot returns a read-only view over the transactional state.
func (tx *transaction) Snapshot() TransactionView {
	return newTransactionView(&tx.state)
}

// NextCreatureID allocates the next identifier. Allocation and counter
// advance are one step: the transaction state either commits with both or is
// discarded with both.
func (tx *transaction) NextCreatureID() (CreatureID, error) {
	current := tx.state.nextID
	if current == math.MaxUint32 {
		return 0, registry.ErrIdentifierOverflow
	}
	tx.state.nextID = current + 1
	tx.recordChange(Change{
		Entity: registry.EntityAllocator,
		Action: registry.ActionAdvance,
		ID:     current,
		Before: current,
		After:  current + 1,
	})
	return current, nil
}

// InsertCreature writes a new record. Records are write-once; the store
// exposes no update or delete operation.
func (tx *transaction) InsertCreature(owner Owner, id CreatureID, creature Creature) (OwnedCreature, error) {
	key := recordKey{owner: owner, id: id}
	if _, exists := tx.state.creatures[key]; exists {
		return OwnedCreature{}, registry.DuplicateCreatureError{Owner: owner, ID: id}
	}
	tx.state.creatures[key] = creature
	stored := OwnedCreature{Owner: owner, ID: id, Creature: creature}
	tx.recordChange(Change{
		Entity: registry.EntityCreature,
		Action: registry.ActionCreate,
		Owner:  owner,
		ID:     id,
		After:  stored,
	})
	return stored, nil
}

// FindCreature resolves a record within the transaction scope.
func (tx *transaction) FindCreature(owner Owner, id CreatureID) (Creature, bool) {
	c, ok := tx.state.creatures[recordKey{owner: owner, id: id}]
	return c, ok
}
