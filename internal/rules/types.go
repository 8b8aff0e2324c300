package rules

// Predicate combines the per-condition results of a rule.
type Predicate string

const (
	PredicateAll Predicate = "all"
	PredicateAny Predicate = "any"
)

// ActionKind identifies what an action does to a stored message.
type ActionKind string

const (
	ActionMove       ActionKind = "move"
	ActionMarkRead   ActionKind = "mark_as_read"
	ActionMarkUnread ActionKind = "mark_as_unread"
)

// DateOp compares a message's received time against a day-count cutoff.
type DateOp string

const (
	// OpIsLessThan matches messages older than the cutoff.
	OpIsLessThan DateOp = "is_less_than"
	// OpIsGreaterThan matches messages newer than the cutoff.
	OpIsGreaterThan DateOp = "is_greater_than"
)

// FieldDateReceived selects the relative-date condition variant.
const FieldDateReceived = "date_received"

// ConditionKind discriminates the two condition variants.
type ConditionKind int

const (
	// KindContains is a case-insensitive substring match on a text field.
	KindContains ConditionKind = iota
	// KindRelativeDate compares the received time against now minus N days.
	KindRelativeDate
)

// Condition is a tagged union: exactly one variant's parameters are
// populated, resolved by the loader. Contains conditions use Substring;
// relative-date conditions use Op and Days.
type Condition struct {
	Kind  ConditionKind
	Field string

	// KindContains
	Substring string

	// KindRelativeDate
	Op   DateOp
	Days int
}

// Action is one side effect to apply when a rule matches.
// Folder is meaningful only for ActionMove.
type Action struct {
	Kind   ActionKind
	Folder string
}

// Rule pairs an ordered condition list, combined under Predicate, with an
// ordered action list executed on match.
type Rule struct {
	Predicate  Predicate
	Conditions []Condition
	Actions    []Action
}

// RuleSet is the ordered rule list for one processing run. It is loaded
// fresh per run and never mutated afterwards.
type RuleSet []Rule
