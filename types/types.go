// Package types defines the shared data structures passed between the
// parser, rules, effects and event stages of the Boneyard engine.
// This package contains only type definitions, no logic.
package types

// Intent is the parsed representation of a player command.
type Intent struct {
	Verb   string
	Object string // optional
	Target string // optional
}

// Effect is a single atomic state mutation instruction.
type Effect struct {
	Type   string
	Params map[string]any
}

// Event is emitted after effects are applied.
type Event struct {
	Type string
	Data map[string]any
}

// Result is the output of a single game step.
type Result struct {
	Effects []Effect
	Events  []Event
	Output  []string
}

// MatchCriteria defines what intent a content rule matches against.
type MatchCriteria struct {
	Verb       string
	Object     string // specific item or actor ID
	Target     string // specific item or actor ID
	ObjectKind string // "actor" or an item kind such as "corpse"
}

// Condition is a predicate that must be true for a rule or handler to fire.
type Condition struct {
	Type   string         // "holding", "flag_set", "near", "alive", etc.
	Params map[string]any // condition-specific parameters
	Negate bool           // true if wrapped in Not()
	Inner  *Condition     // for Not(): the negated inner condition
}

// RuleDef overrides the built-in behaviour of a verb for matching intents.
type RuleDef struct {
	ID          string
	When        MatchCriteria
	Conditions  []Condition
	Effects     []Effect
	Priority    int
	SourceOrder int
}

// TopicDef defines a single dialogue topic for a talking actor.
type TopicDef struct {
	Text     string
	Requires []Condition
	Effects  []Effect
}

// BehaviorEntry is one weighted choice in a hostile actor's behaviour table.
type BehaviorEntry struct {
	Action string // "attack", "shoot", "wait", "wander"
	Weight int
}

// GameDef holds game metadata from Lua.
type GameDef struct {
	Title   string
	Author  string
	Version string
	Intro   string
	Width   int
	Height  int
	Year    int
}

// EventHandler is triggered by an event rather than a player command.
type EventHandler struct {
	EventType  string
	Conditions []Condition
	Effects    []Effect
}
