package rules

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"mailsift/internal/model"
)

func contains(field, sub string) Condition {
	return Condition{Kind: KindContains, Field: field, Substring: sub}
}

func relativeDate(op DateOp, days int) Condition {
	return Condition{Kind: KindRelativeDate, Field: FieldDateReceived, Op: op, Days: days}
}

func TestEvaluateContains(t *testing.T) {
	msg := model.Message{
		Sender:  "Boss <boss@example.com>",
		Subject: "URGENT: Meeting Now",
		Snippet: "please join the call",
		Folder:  "INBOX",
	}

	tests := []struct {
		name string
		cond Condition
		want bool
	}{
		{"subject match", contains("subject", "URGENT"), true},
		{"case-insensitive needle", contains("subject", "urgent"), true},
		{"case-insensitive haystack", contains("subject", "meeting NOW"), true},
		{"sender match inside raw header", contains("sender", "boss@example.com"), true},
		{"snippet match", contains("snippet", "the call"), true},
		{"folder match", contains("folder", "inbox"), true},
		{"no match", contains("subject", "invoice"), false},
		{"unknown field fails closed", contains("recipient", "boss"), false},
		{"empty substring never matches", contains("subject", ""), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Evaluate(msg, tt.cond))
		})
	}

	t.Run("empty field value never matches", func(t *testing.T) {
		assert.False(t, Evaluate(model.Message{}, contains("subject", "URGENT")))
	})
}

func TestEvaluateRelativeDate(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.Local)
	daysAgo := func(d int) time.Time { return now.Add(-time.Duration(d) * 24 * time.Hour) }

	tests := []struct {
		name       string
		receivedAt time.Time
		cond       Condition
		want       bool
	}{
		{"10d old is less than 7d cutoff", daysAgo(10), relativeDate(OpIsLessThan, 7), true},
		{"10d old is not greater than 7d cutoff", daysAgo(10), relativeDate(OpIsGreaterThan, 7), false},
		{"1d old is greater than 3d cutoff", daysAgo(1), relativeDate(OpIsGreaterThan, 3), true},
		{"1d old is not less than 3d cutoff", daysAgo(1), relativeDate(OpIsLessThan, 3), false},
		{"unknown operator fails closed", daysAgo(10), relativeDate("is_equal_to", 7), false},
		{"zero received time fails closed", time.Time{}, relativeDate(OpIsLessThan, 7), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := model.Message{ReceivedAt: tt.receivedAt}
			assert.Equal(t, tt.want, evaluateAt(m, tt.cond, now))
		})
	}
}
