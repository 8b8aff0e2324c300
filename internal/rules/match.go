package rules

import (
	"time"

	"mailsift/internal/model"
)

// Matches reports whether a rule applies to a message. Every condition is
// evaluated — no short-circuiting — so a run's trace always covers the full
// condition list. An empty condition list is vacuously true under "all" and
// false under "any".
func Matches(m model.Message, r Rule) bool {
	return matchesAt(m, r, time.Now())
}

func matchesAt(m model.Message, r Rule, now time.Time) bool {
	results := make([]bool, 0, len(r.Conditions))
	for _, c := range r.Conditions {
		results = append(results, evaluateAt(m, c, now))
	}

	if r.Predicate == PredicateAny {
		for _, ok := range results {
			if ok {
				return true
			}
		}
		return false
	}

	// "all" semantics, also the fallback for any predicate the loader did
	// not produce.
	for _, ok := range results {
		if !ok {
			return false
		}
	}
	return true
}
