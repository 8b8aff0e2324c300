package engine

import (
	"context"
	"log/slog"

	"mailsift/internal/model"
	"mailsift/internal/rules"
)

// Store declares the persistence capabilities the engine mutates and reads.
// Updates are keyed by the provider's message ID and report whether a row was
// actually touched, so a message that vanished between fetch and process
// surfaces as a non-fatal miss rather than an error.
type Store interface {
	ListAll(ctx context.Context) ([]model.Message, error)
	UpdateFolder(ctx context.Context, externalID, folder string) (bool, error)
	UpdateReadStatus(ctx context.Context, externalID string, isRead bool) (bool, error)
}

// ActionResult records the outcome of one action against one message.
// Exactly one of Executed, Skipped (with reason), or Err is meaningful.
type ActionResult struct {
	Action   rules.Action
	Executed bool
	Skipped  string // non-empty when the action was a reported no-op
	Err      error  // non-fatal store failure
}

// ActionReport is the per-action trail of one Apply call.
type ActionReport []ActionResult

// Failed reports whether any action hit a store failure.
func (r ActionReport) Failed() bool {
	for _, a := range r {
		if a.Err != nil {
			return true
		}
	}
	return false
}

// Dispatcher applies rule actions to stored messages. It holds no state
// between calls; reapplying the same action is a harmless extra write.
type Dispatcher struct {
	Store Store
	Log   *slog.Logger
}

// Apply executes the actions in declared order. Nothing here aborts the rest
// of the list: a move without a folder is skipped, an unknown action kind is
// reported as unrecognized, and a store failure is recorded per action.
func (d *Dispatcher) Apply(ctx context.Context, m model.Message, actions []rules.Action) ActionReport {
	report := make(ActionReport, 0, len(actions))
	for _, a := range actions {
		report = append(report, d.applyOne(ctx, m, a))
	}
	return report
}

func (d *Dispatcher) applyOne(ctx context.Context, m model.Message, a rules.Action) ActionResult {
	res := ActionResult{Action: a}

	switch a.Kind {
	case rules.ActionMove:
		if a.Folder == "" {
			res.Skipped = "no folder specified for move action"
			d.Log.Warn("skipping move action", "message", m.ExternalID, "reason", res.Skipped)
			return res
		}
		d.Log.Info("moving message", "message", m.ExternalID, "folder", a.Folder)
		found, err := d.Store.UpdateFolder(ctx, m.ExternalID, a.Folder)
		return finish(res, found, err, d.Log, m.ExternalID)

	case rules.ActionMarkRead:
		d.Log.Info("marking message as read", "message", m.ExternalID)
		found, err := d.Store.UpdateReadStatus(ctx, m.ExternalID, true)
		return finish(res, found, err, d.Log, m.ExternalID)

	case rules.ActionMarkUnread:
		d.Log.Info("marking message as unread", "message", m.ExternalID)
		found, err := d.Store.UpdateReadStatus(ctx, m.ExternalID, false)
		return finish(res, found, err, d.Log, m.ExternalID)

	default:
		res.Skipped = "unrecognized action " + string(a.Kind)
		d.Log.Warn("skipping action", "message", m.ExternalID, "reason", res.Skipped)
		return res
	}
}

func finish(res ActionResult, found bool, err error, log *slog.Logger, externalID string) ActionResult {
	switch {
	case err != nil:
		res.Err = err
		log.Error("store update failed", "message", externalID, "action", res.Action.Kind, "error", err)
	case !found:
		res.Skipped = "message not found in store"
		log.Warn("store update touched no rows", "message", externalID, "action", res.Action.Kind)
	default:
		res.Executed = true
	}
	return res
}
