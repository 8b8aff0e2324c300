package rules

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strconv"
)

// ValidationError reports a rule definition that parsed or validated badly.
// A missing rules file is not a ValidationError; Load treats it as an empty
// rule set.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid rules: " + e.Reason
}

func validationErrorf(format string, args ...any) *ValidationError {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// Wire format of the rules file.
type rawCondition struct {
	Field     string `json:"field"`
	Contains  string `json:"contains"`
	Value     string `json:"value"`
	Predicate string `json:"predicate"`
}

type rawAction struct {
	Action string `json:"action"`
	Folder string `json:"folder"`
}

type rawRule struct {
	Predicate  string         `json:"predicate"`
	Conditions []rawCondition `json:"conditions"`
	Actions    []rawAction    `json:"actions"`
}

type rawRules struct {
	Rules []rawRule `json:"rules"`
}

// Load reads a rule set from a JSON file. A missing file is a valid, inert
// state: it returns an empty set with a logged warning rather than an error.
// Anything that parses but does not conform to the rule model returns a
// *ValidationError.
func Load(path string, log *slog.Logger) (RuleSet, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Warn("no rules file found, nothing to apply", "path", path)
			return nil, nil
		}
		return nil, fmt.Errorf("open rules file %s: %w", path, err)
	}
	defer f.Close()

	var raw rawRules
	if err := json.NewDecoder(f).Decode(&raw); err != nil {
		return nil, validationErrorf("parse %s: %v", path, err)
	}

	set := make(RuleSet, 0, len(raw.Rules))
	for i, rr := range raw.Rules {
		rule, err := buildRule(rr)
		if err != nil {
			return nil, validationErrorf("rule %d: %v", i+1, err)
		}
		set = append(set, rule)
	}
	return set, nil
}

func buildRule(rr rawRule) (Rule, error) {
	pred := Predicate(rr.Predicate)
	if pred != PredicateAll && pred != PredicateAny {
		return Rule{}, fmt.Errorf("unknown predicate %q", rr.Predicate)
	}

	rule := Rule{Predicate: pred}
	for i, rc := range rr.Conditions {
		cond, err := buildCondition(rc)
		if err != nil {
			return Rule{}, fmt.Errorf("condition %d: %w", i+1, err)
		}
		rule.Conditions = append(rule.Conditions, cond)
	}
	for i, ra := range rr.Actions {
		kind := ActionKind(ra.Action)
		switch kind {
		case ActionMove, ActionMarkRead, ActionMarkUnread:
		default:
			return Rule{}, fmt.Errorf("action %d: unknown action %q", i+1, ra.Action)
		}
		rule.Actions = append(rule.Actions, Action{Kind: kind, Folder: ra.Folder})
	}
	return rule, nil
}

// buildCondition resolves the variant: a date_received field means a
// relative-date comparison with an integer day count; everything else is a
// substring match, where value takes precedence over contains when both are
// set.
func buildCondition(rc rawCondition) (Condition, error) {
	if rc.Field == "" {
		return Condition{}, fmt.Errorf("missing field")
	}

	if rc.Field == FieldDateReceived {
		v := rc.Value
		if v == "" {
			v = rc.Contains
		}
		days, err := strconv.Atoi(v)
		if err != nil {
			return Condition{}, fmt.Errorf("day count %q is not an integer", v)
		}
		return Condition{
			Kind:  KindRelativeDate,
			Field: rc.Field,
			Op:    DateOp(rc.Predicate),
			Days:  days,
		}, nil
	}

	sub := rc.Value
	if sub == "" {
		sub = rc.Contains
	}
	return Condition{
		Kind:      KindContains,
		Field:     rc.Field,
		Substring: sub,
	}, nil
}
