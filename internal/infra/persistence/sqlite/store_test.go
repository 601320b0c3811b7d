package sqlite_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"creaturecore/internal/infra/persistence/sqlite"
	"creaturecore/pkg/genome"
	"creaturecore/pkg/registry"
)

func TestSQLiteStorePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.db")
	ctx := context.Background()

	store, err := sqlite.NewStore(path, nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	var g genome.Genome
	g[0] = 2
	if _, err := store.RunInTransaction(ctx, func(tx registry.Transaction) error {
		id, err := tx.NextCreatureID()
		if err != nil {
			return err
		}
		_, err = tx.InsertCreature("alice", id, registry.Creature{DNA: g})
		return err
	}); err != nil {
		t.Fatalf("transaction: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := sqlite.NewStore(path, nil)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() { _ = reopened.Close() }()

	if next := reopened.NextCreatureID(); next != 1 {
		t.Fatalf("restored counter = %d, want 1", next)
	}
	restored, ok := reopened.GetCreature("alice", 0)
	if !ok {
		t.Fatal("record lost across reopen")
	}
	if restored.DNA != g {
		t.Fatalf("restored genome %s, want %s", restored.DNA, g)
	}
}

func TestSQLiteStoreFailedTransactionWritesNothing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.db")
	ctx := context.Background()

	store, err := sqlite.NewStore(path, nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := store.RunInTransaction(ctx, func(tx registry.Transaction) error {
		if _, err := tx.NextCreatureID(); err != nil {
			return err
		}
		return context.Canceled
	}); err == nil {
		t.Fatal("expected injected failure")
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := sqlite.NewStore(path, nil)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() { _ = reopened.Close() }()
	if next := reopened.NextCreatureID(); next != 0 {
		t.Fatalf("failed transaction persisted counter %d", next)
	}
}

func TestSQLiteStoreDefaultsPath(t *testing.T) {
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	store, err := sqlite.NewStore("", nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer func() { _ = store.Close() }()
	if store.Path() == "" {
		t.Fatal("expected a default path")
	}
}
