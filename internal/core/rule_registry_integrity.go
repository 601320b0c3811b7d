package core

import (
	"context"
	"fmt"

	"creaturecore/pkg/registry"
)

// NewDefaultRulesEngine returns the rules engine every production store runs
// with: the registry integrity rule registered as blocking.
func NewDefaultRulesEngine() *RulesEngine {
	engine := registry.NewRulesEngine()
	engine.Register(RegistryIntegrityRule{})
	return engine
}

// RegistryIntegrityRule enforces the structural invariants of committed
// state: creature records are write-once, identifiers are globally unique
// across owners, and the allocator counter stays strictly above every issued
// identifier.
type RegistryIntegrityRule struct{}

// Compile-time contract assertion.
var _ registry.Rule = RegistryIntegrityRule{}

// Name identifies the rule in violations.
func (RegistryIntegrityRule) Name() string { return "registry_integrity" }

// Evaluate inspects the pending change set against the post-transaction view.
func (r RegistryIntegrityRule) Evaluate(_ context.Context, view TransactionView, changes []Change) (Result, error) {
	var res Result
	next := view.NextCreatureID()
	seen := make(map[CreatureID]Owner)

	for _, change := range changes {
		switch change.Entity {
		case EntityCreature:
			if change.Action != ActionCreate {
				res.Merge(r.violation(change.ID, fmt.Sprintf("creature records are write-once; action %q is not permitted", change.Action)))
				continue
			}
			if prior, ok := seen[change.ID]; ok {
				res.Merge(r.violation(change.ID, fmt.Sprintf("identifier already created for owner %s in this transaction", prior)))
			}
			seen[change.ID] = change.Owner
			if _, ok := view.FindCreature(change.Owner, change.ID); !ok {
				res.Merge(r.violation(change.ID, "created record missing from transaction view"))
			}
			if change.ID >= next {
				res.Merge(r.violation(change.ID, fmt.Sprintf("identifier %d was never issued by the allocator (counter %d)", change.ID, next)))
			}
		case EntityAllocator:
			if change.Action != ActionAdvance {
				res.Merge(r.violation(change.ID, fmt.Sprintf("allocator only advances; action %q is not permitted", change.Action)))
			}
		}
	}

	// Identifiers are unique across the whole registry, not per owner, and
	// every committed id must sit below the counter.
	byID := make(map[CreatureID]Owner)
	for _, record := range view.ListCreatures() {
		if prior, ok := byID[record.ID]; ok && prior != record.Owner {
			res.Merge(r.violation(record.ID, fmt.Sprintf("identifier claimed by both %s and %s", prior, record.Owner)))
		}
		byID[record.ID] = record.Owner
		if record.ID >= next {
			res.Merge(r.violation(record.ID, fmt.Sprintf("stored identifier %d is not below the allocator counter %d", record.ID, next)))
		}
	}
	return res, nil
}

func (r RegistryIntegrityRule) violation(id CreatureID, message string) Result {
	return Result{Violations: []Violation{{
		Rule:     r.Name(),
		Severity: SeverityBlock,
		Message:  message,
		Entity:   EntityCreature,
		EntityID: fmt.Sprintf("%d", id),
	}}}
}
