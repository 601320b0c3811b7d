package registry_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"creaturecore/pkg/registry"
)

type staticRule struct {
	name   string
	result registry.Result
	err    error
}

func (r staticRule) Name() string { return r.name }

func (r staticRule) Evaluate(context.Context, registry.TransactionView, []registry.Change) (registry.Result, error) {
	return r.result, r.err
}

func TestRulesEngineAggregatesViolations(t *testing.T) {
	engine := registry.NewRulesEngine()
	engine.Register(staticRule{name: "warn", result: registry.Result{Violations: []registry.Violation{{
		Rule: "warn", Severity: registry.SeverityWarn, Message: "heads up",
	}}}})
	engine.Register(staticRule{name: "block", result: registry.Result{Violations: []registry.Violation{{
		Rule: "block", Severity: registry.SeverityBlock, Message: "stop",
	}}}})

	res, err := engine.Evaluate(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if len(res.Violations) != 2 {
		t.Fatalf("expected 2 violations, got %d", len(res.Violations))
	}
	if !res.HasBlocking() {
		t.Fatal("expected blocking result")
	}
}

func TestRulesEnginePropagatesRuleErrors(t *testing.T) {
	engine := registry.NewRulesEngine()
	engine.Register(staticRule{name: "broken", err: errors.New("boom")})
	if _, err := engine.Evaluate(context.Background(), nil, nil); err == nil {
		t.Fatal("expected error from failing rule")
	}
}

func TestResultWithoutBlockingViolations(t *testing.T) {
	var res registry.Result
	res.Merge(registry.Result{Violations: []registry.Violation{{Rule: "warn", Severity: registry.SeverityWarn}}})
	if res.HasBlocking() {
		t.Fatal("warn-only result must not block")
	}
	res.Merge(registry.Result{})
	if len(res.Violations) != 1 {
		t.Fatalf("merge of empty result changed violations: %d", len(res.Violations))
	}
}

func TestErrorKinds(t *testing.T) {
	notFound := registry.InvalidCreatureError{Owner: "alice", ID: 7}
	if notFound.Error() != "creature 7 not found for owner alice" {
		t.Fatalf("unexpected message %q", notFound.Error())
	}
	var asInvalid registry.InvalidCreatureError
	if !errors.As(fmt.Errorf("wrapped: %w", notFound), &asInvalid) || asInvalid.ID != 7 {
		t.Fatal("InvalidCreatureError must survive wrapping")
	}
	duplicate := registry.DuplicateCreatureError{Owner: "alice", ID: 7}
	if duplicate.Error() != "creature 7 already exists for owner alice" {
		t.Fatalf("unexpected message %q", duplicate.Error())
	}
	if !errors.Is(fmt.Errorf("wrapped: %w", registry.ErrSameGender), registry.ErrSameGender) {
		t.Fatal("ErrSameGender must survive wrapping")
	}
	if !errors.Is(fmt.Errorf("wrapped: %w", registry.ErrIdentifierOverflow), registry.ErrIdentifierOverflow) {
		t.Fatal("ErrIdentifierOverflow must survive wrapping")
	}
}
