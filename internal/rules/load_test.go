package rules

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeRules(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rules.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadValidRules(t *testing.T) {
	path := writeRules(t, `{
		"rules": [
			{
				"predicate": "all",
				"conditions": [
					{"field": "subject", "contains": "URGENT"},
					{"field": "sender", "contains": "boss@example.com"},
					{"field": "date_received", "predicate": "is_less_than", "value": "7"}
				],
				"actions": [
					{"action": "mark_as_read"},
					{"action": "move", "folder": "Important/Urgent"}
				]
			},
			{
				"predicate": "any",
				"conditions": [{"field": "subject", "contains": "newsletter"}],
				"actions": [{"action": "mark_as_unread"}]
			}
		]
	}`)

	set, err := Load(path, discardLogger())
	require.NoError(t, err)
	require.Len(t, set, 2)

	r := set[0]
	assert.Equal(t, PredicateAll, r.Predicate)
	require.Len(t, r.Conditions, 3)
	assert.Equal(t, KindContains, r.Conditions[0].Kind)
	assert.Equal(t, "URGENT", r.Conditions[0].Substring)
	assert.Equal(t, KindRelativeDate, r.Conditions[2].Kind)
	assert.Equal(t, OpIsLessThan, r.Conditions[2].Op)
	assert.Equal(t, 7, r.Conditions[2].Days)
	require.Len(t, r.Actions, 2)
	assert.Equal(t, ActionMarkRead, r.Actions[0].Kind)
	assert.Equal(t, ActionMove, r.Actions[1].Kind)
	assert.Equal(t, "Important/Urgent", r.Actions[1].Folder)

	assert.Equal(t, PredicateAny, set[1].Predicate)
}

func TestLoadMissingFileIsInert(t *testing.T) {
	set, err := Load(filepath.Join(t.TempDir(), "nope.json"), discardLogger())
	assert.NoError(t, err)
	assert.Empty(t, set)
}

func TestLoadValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"malformed json", `{"rules": [`},
		{"unknown predicate", `{"rules": [{"predicate": "some", "conditions": [], "actions": []}]}`},
		{"unknown action", `{"rules": [{"predicate": "all", "conditions": [], "actions": [{"action": "delete"}]}]}`},
		{"condition without field", `{"rules": [{"predicate": "all", "conditions": [{"contains": "x"}], "actions": []}]}`},
		{"non-numeric day count", `{"rules": [{"predicate": "all", "conditions": [{"field": "date_received", "predicate": "is_less_than", "value": "soon"}], "actions": []}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeRules(t, tt.content)
			_, err := Load(path, discardLogger())
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
		})
	}
}

func TestLoadValueTakesPrecedenceOverContains(t *testing.T) {
	path := writeRules(t, `{
		"rules": [{
			"predicate": "all",
			"conditions": [{"field": "subject", "contains": "ignored", "value": "wins"}],
			"actions": []
		}]
	}`)

	set, err := Load(path, discardLogger())
	require.NoError(t, err)
	require.Len(t, set, 1)
	assert.Equal(t, "wins", set[0].Conditions[0].Substring)
}

func TestLoadMoveWithoutFolderIsAccepted(t *testing.T) {
	// Dispatch skips it at apply time; the loader does not reject it.
	path := writeRules(t, `{
		"rules": [{
			"predicate": "all",
			"conditions": [],
			"actions": [{"action": "move"}]
		}]
	}`)

	set, err := Load(path, discardLogger())
	require.NoError(t, err)
	require.Len(t, set, 1)
	assert.Equal(t, "", set[0].Actions[0].Folder)
}
