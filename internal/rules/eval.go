package rules

import (
	"strings"
	"time"

	"mailsift/internal/model"
)

// textField maps condition field names onto message attributes. The set is
// closed on purpose: an unknown field is not an error, it just never matches.
var textField = map[string]func(model.Message) string{
	"sender":  func(m model.Message) string { return m.Sender },
	"subject": func(m model.Message) string { return m.Subject },
	"snippet": func(m model.Message) string { return m.Snippet },
	"folder":  func(m model.Message) string { return m.Folder },
}

// Evaluate reports whether a single condition holds for a message. It never
// errors: any input it cannot interpret resolves to false.
func Evaluate(m model.Message, c Condition) bool {
	return evaluateAt(m, c, time.Now())
}

func evaluateAt(m model.Message, c Condition, now time.Time) bool {
	switch c.Kind {
	case KindContains:
		get, ok := textField[c.Field]
		if !ok {
			return false
		}
		fv := get(m)
		if fv == "" || c.Substring == "" {
			return false
		}
		return strings.Contains(strings.ToLower(fv), strings.ToLower(c.Substring))

	case KindRelativeDate:
		if m.ReceivedAt.IsZero() {
			return false
		}
		cutoff := now.Add(-time.Duration(c.Days) * 24 * time.Hour)
		switch c.Op {
		case OpIsLessThan:
			return m.ReceivedAt.Before(cutoff)
		case OpIsGreaterThan:
			return m.ReceivedAt.After(cutoff)
		}
		return false
	}
	return false
}
