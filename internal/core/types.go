package core

import "creaturecore/pkg/registry"

type (
	Owner              = registry.Owner
	CreatureID         = registry.CreatureID
	Creature           = registry.Creature
	OwnedCreature      = registry.OwnedCreature
	EntityType         = registry.EntityType
	Action             = registry.Action
	Change             = registry.Change
	Violation          = registry.Violation
	Result             = registry.Result
	RuleViolationError = registry.RuleViolationError
	Event              = registry.Event
	EventKind          = registry.EventKind
	NotificationSink   = registry.NotificationSink
	RulesEngine        = registry.RulesEngine
	Transaction        = registry.Transaction
	TransactionView    = registry.TransactionView
	PersistentStore    = registry.PersistentStore
)

const (
	EntityCreature  = registry.EntityCreature
	EntityAllocator = registry.EntityAllocator
)

const (
	ActionCreate  = registry.ActionCreate
	ActionAdvance = registry.ActionAdvance
)

const (
	SeverityBlock = registry.SeverityBlock
	SeverityWarn  = registry.SeverityWarn
)

const (
	EventCreatureCreated = registry.EventCreatureCreated
	EventCreatureBred    = registry.EventCreatureBred
)
