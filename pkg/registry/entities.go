// Package registry defines the persistent entities, value types, error kinds,
// and rule evaluation primitives of the creature registry core.
package registry

import (
	"errors"
	"fmt"

	"creaturecore/pkg/genome"
)

// Owner is the opaque identity of an authenticated actor. The surrounding
// host resolves it before the core ever runs; the core only keys records by
// it and never inspects its contents.
type Owner string

// CreatureID is a registry-wide unique identifier. Ids are issued in strictly
// increasing order starting at 0 and are never reused.
type CreatureID uint32

// Creature is the stored value of a registry record. Identity and ownership
// live in the storage key, not in the record, so an owner can never be
// rewritten by mutating the value.
type Creature struct {
	DNA genome.Genome `json:"dna"`
}

// Gender derives the creature's gender from its genetic code.
func (c Creature) Gender() genome.Gender {
	return genome.GenderOf(c.DNA)
}

// OwnedCreature pairs a record with its storage key for listings and rule
// evaluation.
type OwnedCreature struct {
	Owner    Owner      `json:"owner"`
	ID       CreatureID `json:"id"`
	Creature Creature   `json:"creature"`
}

// EntityType identifies the type of record captured in Change entries and
// persistence buckets.
type EntityType string

// Supported entity type identifiers.
const (
	// EntityCreature identifies an individual creature record.
	EntityCreature EntityType = "creature"
	// EntityAllocator identifies the identifier allocator counter.
	EntityAllocator EntityType = "allocator"
)

// Action indicates the type of modification performed in a transaction.
type Action string

// Change actions captured in the transaction audit trail. Creature records
// are write-once, so ActionCreate and ActionAdvance are the only actions a
// conforming transaction ever records.
const (
	// ActionCreate indicates a record was created.
	ActionCreate Action = "create"
	// ActionAdvance indicates the allocator counter was advanced.
	ActionAdvance Action = "advance"
)

// Change describes a single mutation applied within a transaction. Owner and
// ID locate the record because creature values carry neither.
type Change struct {
	Entity EntityType
	Action Action
	Owner  Owner
	ID     CreatureID
	Before any
	After  any
}

// ErrIdentifierOverflow reports that the allocator counter cannot advance
// without exceeding the 32-bit identifier range. The counter is left
// unchanged. Fatal to the operation, non-fatal to the system.
var ErrIdentifierOverflow = errors.New("creature identifier space exhausted")

// ErrSameGender reports that both breeding parents derive the same gender.
// Breeding requires exactly one male and one female parent, in either order.
var ErrSameGender = errors.New("breeding parents have the same gender")

// InvalidCreatureError reports that a referenced (owner, id) pair does not
// resolve to an owned creature. It deliberately covers both "does not exist"
// and "owned by someone else" without distinguishing them, so ownership
// information never leaks to callers.
type InvalidCreatureError struct {
	Owner Owner
	ID    CreatureID
}

func (e InvalidCreatureError) Error() string {
	return fmt.Sprintf("creature %d not found for owner %s", e.ID, e.Owner)
}

// DuplicateCreatureError reports an insert over an existing (owner, id) key.
// Creature records are write-once, so this always signals a caller bug rather
// than a recoverable registry condition.
type DuplicateCreatureError struct {
	Owner Owner
	ID    CreatureID
}

func (e DuplicateCreatureError) Error() string {
	return fmt.Sprintf("creature %d already exists for owner %s", e.ID, e.Owner)
}
