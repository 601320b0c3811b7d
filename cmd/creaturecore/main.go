// Command creaturecore drives the creature registry from the command line.
// The storage backend is selected through CREATURECORE_* environment
// variables; results are emitted as JSON on stdout.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"

	"creaturecore/internal/blob"
	"creaturecore/internal/core"
	"creaturecore/pkg/registry"
)

var exitFunc = os.Exit

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		exitFunc(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("creaturecore", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		op      = fs.String("op", "", "operation: create | breed | get | list | next-id")
		owner   = fs.String("owner", "", "owner identity the operation runs as")
		id      = fs.Uint("id", 0, "creature id (get)")
		parent1 = fs.Uint("parent1", 0, "first parent id (breed)")
		parent2 = fs.Uint("parent2", 0, "second parent id (breed)")
		journal = fs.Bool("journal", false, "journal transition events to the configured blob store")
		verbose = fs.Bool("v", false, "enable debug logging")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	store, err := core.OpenPersistentStoreFromEnv(nil)
	if err != nil {
		return err
	}
	defer closeStore(store, logger)

	opts := []core.Option{core.WithLogger(core.NewSlogLogger(logger))}
	if *journal {
		journalStore, err := blob.Open(ctx)
		if err != nil {
			return err
		}
		opts = append(opts, core.WithNotificationSink(core.NewJournalSink(journalStore, core.NewSlogLogger(logger))))
	}
	service := core.NewService(store, opts...)

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")

	switch *op {
	case "create":
		if *owner == "" {
			return errors.New("create requires -owner")
		}
		record, _, err := service.CreateCreature(ctx, registry.Owner(*owner))
		if err != nil {
			return err
		}
		return enc.Encode(record)
	case "breed":
		if *owner == "" {
			return errors.New("breed requires -owner")
		}
		id1, err := creatureID("parent1", *parent1)
		if err != nil {
			return err
		}
		id2, err := creatureID("parent2", *parent2)
		if err != nil {
			return err
		}
		record, _, err := service.BreedCreatures(ctx, registry.Owner(*owner), id1, id2)
		if err != nil {
			return err
		}
		return enc.Encode(record)
	case "get":
		if *owner == "" {
			return errors.New("get requires -owner")
		}
		lookupID, err := creatureID("id", *id)
		if err != nil {
			return err
		}
		creature, ok := service.GetCreature(registry.Owner(*owner), lookupID)
		if !ok {
			return registry.InvalidCreatureError{Owner: registry.Owner(*owner), ID: lookupID}
		}
		return enc.Encode(registry.OwnedCreature{Owner: registry.Owner(*owner), ID: lookupID, Creature: creature})
	case "list":
		return enc.Encode(service.ListCreatures())
	case "next-id":
		return enc.Encode(map[string]registry.CreatureID{"next_creature_id": service.NextCreatureID()})
	case "":
		fs.Usage()
		return errors.New("missing -op")
	default:
		return fmt.Errorf("unknown operation %q", *op)
	}
}

// creatureID converts a uint flag value, rejecting anything outside the
// 32-bit identifier range before it can truncate.
func creatureID(name string, v uint) (registry.CreatureID, error) {
	if uint64(v) > math.MaxUint32 {
		return 0, fmt.Errorf("-%s %d exceeds the 32-bit identifier range", name, v)
	}
	return registry.CreatureID(v), nil
}

func closeStore(store core.PersistentStore, logger *slog.Logger) {
	if closer, ok := store.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			logger.Warn("close store", "error", err)
		}
	}
}
