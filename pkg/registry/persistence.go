package registry

import "context"

// Transaction exposes the registry operations a persistence implementation
// must support within one atomic scope. A transaction either commits fully or
// leaves no observable effect; the allocator counter and the creature map are
// covered by the same boundary.
type Transaction interface {
	Snapshot() TransactionView
	// NextCreatureID reads the counter value c, advances it to c+1 with
	// checked arithmetic, and returns c. On overflow it returns
	// ErrIdentifierOverflow and leaves the counter unchanged.
	NextCreatureID() (CreatureID, error)
	// InsertCreature writes a new record keyed by (owner, id). Records are
	// write-once; inserting over an existing key fails.
	InsertCreature(owner Owner, id CreatureID, creature Creature) (OwnedCreature, error)
	// FindCreature resolves a record by its full key. Absence is not an
	// error; a creature owned by someone else is indistinguishable from a
	// nonexistent one.
	FindCreature(owner Owner, id CreatureID) (Creature, bool)
}

// TransactionView provides read-only access to snapshot data for rules and
// inspection.
type TransactionView interface {
	ListCreatures() []OwnedCreature
	FindCreature(owner Owner, id CreatureID) (Creature, bool)
	// NextCreatureID peeks at the counter without consuming an identifier.
	NextCreatureID() CreatureID
}

// PersistentStore is a minimal abstraction over durable backends. Every
// mutation flows through RunInTransaction so the all-or-nothing guarantee
// holds without relying on an external scheduler.
type PersistentStore interface {
	RunInTransaction(ctx context.Context, fn func(Transaction) error) (Result, error)
	View(ctx context.Context, fn func(TransactionView) error) error
	GetCreature(owner Owner, id CreatureID) (Creature, bool)
	ListCreatures() []OwnedCreature
	NextCreatureID() CreatureID
}
