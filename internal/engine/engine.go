// Package engine walks stored messages against a loaded rule set and applies
// the matching rules' actions through the store.
package engine

import (
	"context"
	"fmt"
	"log/slog"

	"mailsift/internal/rules"
)

// MatchTrace records one rule matching one message, with the outcome of every
// action the match triggered.
type MatchTrace struct {
	ExternalID string
	Subject    string
	RuleIndex  int // 1-based, declaration order
	Actions    ActionReport
}

// RunReport summarizes one processing run.
type RunReport struct {
	Messages int  // messages examined
	Rules    int  // rules loaded
	Matched  bool // at least one rule matched at least one message
	Traces   []MatchTrace
}

// Service is the processing orchestrator: sequential, single-writer, one
// store snapshot per run.
type Service struct {
	Store Store
	Log   *slog.Logger
}

// Run evaluates every stored message against every rule in declared order and
// applies actions on match. A message may be acted on by multiple rules; there
// is no stop-on-first-match. Action failures are per-action and non-fatal —
// the only errors Run returns are from listing the snapshot itself.
func (s *Service) Run(ctx context.Context, set rules.RuleSet) (RunReport, error) {
	report := RunReport{Rules: len(set)}
	if len(set) == 0 {
		s.Log.Info("no rules to process")
		return report, nil
	}

	msgs, err := s.Store.ListAll(ctx)
	if err != nil {
		return report, fmt.Errorf("list messages: %w", err)
	}
	report.Messages = len(msgs)

	d := &Dispatcher{Store: s.Store, Log: s.Log}
	for _, m := range msgs {
		s.Log.Debug("checking message", "message", m.ExternalID, "subject", m.Subject, "sender", m.Sender)
		for i, rule := range set {
			if !rules.Matches(m, rule) {
				continue
			}
			report.Matched = true
			s.Log.Info("rule matched",
				"rule", i+1,
				"message", m.ExternalID,
				"subject", m.Subject,
			)
			actions := d.Apply(ctx, m, rule.Actions)
			report.Traces = append(report.Traces, MatchTrace{
				ExternalID: m.ExternalID,
				Subject:    m.Subject,
				RuleIndex:  i + 1,
				Actions:    actions,
			})
		}
	}

	if !report.Matched {
		s.Log.Info("no rules matched any message", "messages", report.Messages, "rules", report.Rules)
	}
	return report, nil
}
