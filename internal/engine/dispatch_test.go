package engine

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mailsift/internal/model"
	"mailsift/internal/rules"
)

type folderCall struct {
	externalID, folder string
}

type readCall struct {
	externalID string
	isRead     bool
}

// fakeStore records engine writes; message lookup misses and store errors are
// scripted per external id.
type fakeStore struct {
	msgs        []model.Message
	folderCalls []folderCall
	readCalls   []readCall
	missing     map[string]bool
	failWith    error
}

func (f *fakeStore) ListAll(ctx context.Context) ([]model.Message, error) {
	_ = ctx
	return f.msgs, nil
}

func (f *fakeStore) UpdateFolder(ctx context.Context, externalID, folder string) (bool, error) {
	_ = ctx
	if f.failWith != nil {
		return false, f.failWith
	}
	f.folderCalls = append(f.folderCalls, folderCall{externalID, folder})
	return !f.missing[externalID], nil
}

func (f *fakeStore) UpdateReadStatus(ctx context.Context, externalID string, isRead bool) (bool, error) {
	_ = ctx
	if f.failWith != nil {
		return false, f.failWith
	}
	f.readCalls = append(f.readCalls, readCall{externalID, isRead})
	return !f.missing[externalID], nil
}

func testDispatcher(st Store) *Dispatcher {
	return &Dispatcher{
		Store: st,
		Log:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestApplyMoveWithoutFolderSkips(t *testing.T) {
	st := &fakeStore{}
	d := testDispatcher(st)
	msg := model.Message{ExternalID: "m1"}

	report := d.Apply(context.Background(), msg, []rules.Action{{Kind: rules.ActionMove}})

	require.Len(t, report, 1)
	assert.False(t, report[0].Executed)
	assert.Contains(t, report[0].Skipped, "no folder")
	assert.Empty(t, st.folderCalls, "store must not be touched for a folderless move")
}

func TestApplyUnknownActionSkips(t *testing.T) {
	st := &fakeStore{}
	d := testDispatcher(st)

	report := d.Apply(context.Background(), model.Message{ExternalID: "m1"},
		[]rules.Action{{Kind: "forward"}})

	require.Len(t, report, 1)
	assert.False(t, report[0].Executed)
	assert.Contains(t, report[0].Skipped, "unrecognized")
	assert.Empty(t, st.folderCalls)
	assert.Empty(t, st.readCalls)
}

func TestApplyExecutesActionsInOrder(t *testing.T) {
	st := &fakeStore{}
	d := testDispatcher(st)
	msg := model.Message{ExternalID: "m1"}

	report := d.Apply(context.Background(), msg, []rules.Action{
		{Kind: rules.ActionMarkRead},
		{Kind: rules.ActionMove, Folder: "Important/Urgent"},
		{Kind: rules.ActionMarkUnread},
	})

	require.Len(t, report, 3)
	for _, r := range report {
		assert.True(t, r.Executed)
	}
	assert.False(t, report.Failed())
	require.Equal(t, []readCall{{"m1", true}, {"m1", false}}, st.readCalls)
	require.Equal(t, []folderCall{{"m1", "Important/Urgent"}}, st.folderCalls)
}

func TestApplyStoreFailureIsNonFatal(t *testing.T) {
	st := &fakeStore{failWith: errors.New("disk full")}
	d := testDispatcher(st)
	msg := model.Message{ExternalID: "m1"}

	report := d.Apply(context.Background(), msg, []rules.Action{
		{Kind: rules.ActionMove, Folder: "Archive"},
		{Kind: rules.ActionMarkRead},
	})

	require.Len(t, report, 2, "a failed action must not abort the rest")
	assert.Error(t, report[0].Err)
	assert.Error(t, report[1].Err)
	assert.True(t, report.Failed())
}

func TestApplyMissingMessageReportsSkip(t *testing.T) {
	st := &fakeStore{missing: map[string]bool{"gone": true}}
	d := testDispatcher(st)

	report := d.Apply(context.Background(), model.Message{ExternalID: "gone"},
		[]rules.Action{{Kind: rules.ActionMarkRead}})

	require.Len(t, report, 1)
	assert.False(t, report[0].Executed)
	assert.NoError(t, report[0].Err)
	assert.Contains(t, report[0].Skipped, "not found")
}
