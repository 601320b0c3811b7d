package memory_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"creaturecore/internal/infra/persistence/memory"
	"creaturecore/pkg/genome"
	"creaturecore/pkg/registry"
)

func creatureWithFirstByte(b byte) registry.Creature {
	var g genome.Genome
	g[0] = b
	return registry.Creature{DNA: g}
}

func TestTransactionAllocatesSequentialIDs(t *testing.T) {
	store := memory.NewStore(nil)
	ctx := context.Background()

	for want := registry.CreatureID(0); want < 3; want++ {
		if _, err := store.RunInTransaction(ctx, func(tx registry.Transaction) error {
			id, err := tx.NextCreatureID()
			if err != nil {
				return err
			}
			if id != want {
				t.Fatalf("allocated id %d, want %d", id, want)
			}
			_, err = tx.InsertCreature("alice", id, creatureWithFirstByte(byte(id)))
			return err
		}); err != nil {
			t.Fatalf("transaction: %v", err)
		}
	}
	if next := store.NextCreatureID(); next != 3 {
		t.Fatalf("counter = %d, want 3", next)
	}
}

func TestTransactionRollbackDiscardsCounterAdvance(t *testing.T) {
	store := memory.NewStore(nil)
	ctx := context.Background()
	failure := errors.New("abort")

	_, err := store.RunInTransaction(ctx, func(tx registry.Transaction) error {
		if _, err := tx.NextCreatureID(); err != nil {
			return err
		}
		if _, err := tx.InsertCreature("alice", 0, creatureWithFirstByte(0)); err != nil {
			return err
		}
		return failure
	})
	if !errors.Is(err, failure) {
		t.Fatalf("expected injected failure, got %v", err)
	}
	if next := store.NextCreatureID(); next != 0 {
		t.Fatalf("rolled-back transaction advanced counter to %d", next)
	}
	if _, ok := store.GetCreature("alice", 0); ok {
		t.Fatal("rolled-back insert is visible")
	}
}

func TestAllocatorOverflowLeavesCounterUnchanged(t *testing.T) {
	store := memory.NewStore(nil)
	store.ImportState(memory.Snapshot{NextID: math.MaxUint32})
	ctx := context.Background()

	_, err := store.RunInTransaction(ctx, func(tx registry.Transaction) error {
		_, err := tx.NextCreatureID()
		return err
	})
	if !errors.Is(err, registry.ErrIdentifierOverflow) {
		t.Fatalf("expected overflow error, got %v", err)
	}
	if next := store.NextCreatureID(); next != math.MaxUint32 {
		t.Fatalf("overflow changed counter to %d", next)
	}
}

func TestInsertCreatureIsWriteOnce(t *testing.T) {
	store := memory.NewStore(nil)
	ctx := context.Background()

	_, err := store.RunInTransaction(ctx, func(tx registry.Transaction) error {
		if _, err := tx.InsertCreature("alice", 0, creatureWithFirstByte(2)); err != nil {
			return err
		}
		_, err := tx.InsertCreature("alice", 0, creatureWithFirstByte(4))
		return err
	})
	var duplicate registry.DuplicateCreatureError
	if !errors.As(err, &duplicate) {
		t.Fatalf("expected DuplicateCreatureError on duplicate insert, got %v", err)
	}
	if duplicate.Owner != "alice" || duplicate.ID != 0 {
		t.Fatalf("duplicate error carries wrong key: %+v", duplicate)
	}
}

func TestOwnershipKeyedLookups(t *testing.T) {
	store := memory.NewStore(nil)
	ctx := context.Background()

	if _, err := store.RunInTransaction(ctx, func(tx registry.Transaction) error {
		_, err := tx.InsertCreature("alice", 0, creatureWithFirstByte(2))
		return err
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if _, ok := store.GetCreature("alice", 0); !ok {
		t.Fatal("owner lookup failed")
	}
	if _, ok := store.GetCreature("bob", 0); ok {
		t.Fatal("foreign owner resolved another owner's creature")
	}
	if err := store.View(ctx, func(view registry.TransactionView) error {
		if _, ok := view.FindCreature("bob", 0); ok {
			t.Fatal("view resolved a foreign record")
		}
		return nil
	}); err != nil {
		t.Fatalf("view: %v", err)
	}
}

func TestBlockingRuleDiscardsTransaction(t *testing.T) {
	engine := registry.NewRulesEngine()
	engine.Register(blockEverything{})
	store := memory.NewStore(engine)
	ctx := context.Background()

	res, err := store.RunInTransaction(ctx, func(tx registry.Transaction) error {
		_, err := tx.InsertCreature("alice", 0, creatureWithFirstByte(2))
		return err
	})
	var ruleErr registry.RuleViolationError
	if !errors.As(err, &ruleErr) {
		t.Fatalf("expected RuleViolationError, got %v", err)
	}
	if !res.HasBlocking() {
		t.Fatal("expected blocking result")
	}
	if got := len(store.ListCreatures()); got != 0 {
		t.Fatalf("blocked transaction committed %d records", got)
	}
}

type blockEverything struct{}

func (blockEverything) Name() string { return "block_everything" }

func (blockEverything) Evaluate(_ context.Context, _ registry.TransactionView, changes []registry.Change) (registry.Result, error) {
	if len(changes) == 0 {
		return registry.Result{}, nil
	}
	return registry.Result{Violations: []registry.Violation{{
		Rule:     "block_everything",
		Severity: registry.SeverityBlock,
		Message:  "no writes allowed",
	}}}, nil
}

func TestExportImportRoundtrip(t *testing.T) {
	store := memory.NewStore(nil)
	ctx := context.Background()
	if _, err := store.RunInTransaction(ctx, func(tx registry.Transaction) error {
		for i := 0; i < 3; i++ {
			id, err := tx.NextCreatureID()
			if err != nil {
				return err
			}
			if _, err := tx.InsertCreature("alice", id, creatureWithFirstByte(byte(i))); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	snapshot := store.ExportState()
	restored := memory.NewStore(nil)
	restored.ImportState(snapshot)

	if restored.NextCreatureID() != 3 {
		t.Fatalf("restored counter = %d, want 3", restored.NextCreatureID())
	}
	records := restored.ListCreatures()
	if len(records) != 3 {
		t.Fatalf("restored %d records, want 3", len(records))
	}
	for i, rec := range records {
		if rec.ID != registry.CreatureID(i) {
			t.Fatalf("records out of order: %v", records)
		}
	}
}

func TestImportStateHealsSnapshot(t *testing.T) {
	store := memory.NewStore(nil)
	store.ImportState(memory.Snapshot{
		Creatures: []registry.OwnedCreature{
			{Owner: "alice", ID: 4, Creature: creatureWithFirstByte(2)},
			{Owner: "alice", ID: 4, Creature: creatureWithFirstByte(6)},
			{Owner: "bob", ID: 1, Creature: creatureWithFirstByte(3)},
		},
		NextID: 2,
	})

	// Duplicate key collapses to the first occurrence.
	c, ok := store.GetCreature("alice", 4)
	if !ok || c.DNA[0] != 2 {
		t.Fatalf("duplicate key resolution wrong: %v ok=%v", c, ok)
	}
	// Counter heals to stay above the highest issued id.
	if next := store.NextCreatureID(); next != 5 {
		t.Fatalf("healed counter = %d, want 5", next)
	}
}
