// Package core implements the deterministic transition engine of the
// creature registry: identifier allocation, creation from fresh genetic
// material, and breeding via bitwise genome combination. Every mutation runs
// inside one store transaction so a failed operation leaves no observable
// effect.
package core

import (
	"context"
	"strconv"

	"creaturecore/internal/infra/persistence/memory"
	"creaturecore/pkg/genome"
	"creaturecore/pkg/registry"
)

// Service exposes the two public transition operations plus read accessors.
// It holds no registry state of its own; the allocator counter and the
// creature map live in the persistent store.
type Service struct {
	store   PersistentStore
	opts    serviceOptions
	deriver *genomeDeriver
}

// NewService constructs a transition engine backed by the supplied store.
func NewService(store PersistentStore, opts ...Option) *Service {
	options := defaultServiceOptions()
	for _, opt := range opts {
		opt(&options)
	}
	return &Service{
		store:   store,
		opts:    options,
		deriver: newGenomeDeriver(options.seeds),
	}
}

// NewInMemoryService creates a service over a fresh in-memory store with the
// given rules engine.
func NewInMemoryService(engine *RulesEngine, opts ...Option) *Service {
	return NewService(memory.NewStore(engine), opts...)
}

// Store returns the underlying storage implementation.
func (s *Service) Store() PersistentStore {
	return s.store
}

// CreateCreature allocates a fresh identifier, derives a random genome for
// the caller, and stores the new record under (owner, id). It fails with
// ErrIdentifierOverflow when the id space is exhausted; no partial state is
// left behind on failure.
func (s *Service) CreateCreature(ctx context.Context, owner Owner) (OwnedCreature, Result, error) {
	return s.run(ctx, "create_creature", owner, func(ctx context.Context) (OwnedCreature, Result, error) {
		var created OwnedCreature
		res, err := s.store.RunInTransaction(ctx, func(tx Transaction) error {
			id, err := tx.NextCreatureID()
			if err != nil {
				return err
			}
			dna := s.deriver.derive(owner)
			created, err = tx.InsertCreature(owner, id, Creature{DNA: dna})
			return err
		})
		if err != nil {
			return OwnedCreature{}, res, err
		}
		s.notify(ctx, EventCreatureCreated, created)
		return created, res, nil
	})
}

// BreedCreatures derives a new creature from two parents owned by the
// caller. Lookup is keyed by (owner, id), so a creature owned by someone
// else is indistinguishable from a nonexistent one. The gender check runs
// before identifier allocation, so a rejected breeding never consumes an id.
func (s *Service) BreedCreatures(ctx context.Context, owner Owner, id1, id2 CreatureID) (OwnedCreature, Result, error) {
	return s.run(ctx, "breed_creatures", owner, func(ctx context.Context) (OwnedCreature, Result, error) {
		var bred OwnedCreature
		res, err := s.store.RunInTransaction(ctx, func(tx Transaction) error {
			parent1, ok := tx.FindCreature(owner, id1)
			if !ok {
				return registry.InvalidCreatureError{Owner: owner, ID: id1}
			}
			parent2, ok := tx.FindCreature(owner, id2)
			if !ok {
				return registry.InvalidCreatureError{Owner: owner, ID: id2}
			}
			if parent1.Gender() == parent2.Gender() {
				return registry.ErrSameGender
			}
			id, err := tx.NextCreatureID()
			if err != nil {
				return err
			}
			selector := s.deriver.derive(owner)
			child := genome.Combine(parent1.DNA, parent2.DNA, selector)
			bred, err = tx.InsertCreature(owner, id, Creature{DNA: child})
			return err
		})
		if err != nil {
			return OwnedCreature{}, res, err
		}
		s.notify(ctx, EventCreatureBred, bred)
		return bred, res, nil
	})
}

// GetCreature resolves a record by its full (owner, id) key. Absence is not
// an error.
func (s *Service) GetCreature(owner Owner, id CreatureID) (Creature, bool) {
	return s.store.GetCreature(owner, id)
}

// NextCreatureID reports the allocator counter without consuming an id.
func (s *Service) NextCreatureID() CreatureID {
	return s.store.NextCreatureID()
}

// ListCreatures returns all registry records ordered by identifier.
func (s *Service) ListCreatures() []OwnedCreature {
	return s.store.ListCreatures()
}

// run wraps an operation with tracing, metrics, audit, and logging.
func (s *Service) run(ctx context.Context, op string, owner Owner, fn func(ctx context.Context) (OwnedCreature, Result, error)) (OwnedCreature, Result, error) {
	start := s.opts.clock.Now()
	var span TraceSpan
	if s.opts.tracer != nil {
		ctx, span = s.opts.tracer.Start(ctx, op)
	}

	record, res, err := fn(ctx)

	duration := s.opts.clock.Now().Sub(start)
	if span != nil {
		span.End(err)
	}
	if s.opts.metrics != nil {
		s.opts.metrics.Observe(ctx, op, err == nil, duration)
	}
	if s.opts.audit != nil {
		entry := AuditEntry{
			Operation: op,
			Status:    AuditStatusSuccess,
			Owner:     string(owner),
			At:        s.opts.clock.Now(),
		}
		if err != nil {
			entry.Status = AuditStatusError
			entry.Error = err.Error()
		} else {
			entry.EntityID = strconv.FormatUint(uint64(record.ID), 10)
		}
		s.opts.audit.Record(ctx, entry)
	}
	if err != nil {
		s.opts.logger.Warn(op+" rejected", "owner", owner, "error", err)
	} else {
		s.opts.logger.Debug(op+" committed", "owner", owner, "creature_id", record.ID)
	}
	return record, res, err
}

// notify delivers an event to the configured sink. Delivery is
// fire-and-forget; the transition result never depends on it.
func (s *Service) notify(ctx context.Context, kind EventKind, record OwnedCreature) {
	if s.opts.sink == nil {
		return
	}
	s.opts.sink.Notify(ctx, Event{
		Kind:       kind,
		Owner:      record.Owner,
		CreatureID: record.ID,
		Creature:   record.Creature,
		OccurredAt: s.opts.clock.Now(),
	})
}
