package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"mailsift/internal/config"
	"mailsift/internal/engine"
	"mailsift/internal/gmail"
	"mailsift/internal/rules"
	"mailsift/internal/store"
	"mailsift/internal/tui"
	"mailsift/internal/util"
)

func main() {
	var (
		cfgPath   string
		rulesPath string
		limit     int
		maxFetch  int64
	)

	rootCmd := &cobra.Command{
		Use:           "mailsift",
		Short:         "Fetch Gmail metadata into SQLite and apply declarative rules to it",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "Path to the TOML config file (default ~/.config/mailsift/config.toml)")

	fetchCmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch inbox messages from Gmail and store their metadata",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(cfgPath)
			if err != nil {
				return err
			}
			if maxFetch > 0 {
				cfg.MaxFetch = maxFetch
			}
			return runFetch(cmd.Context(), cfg, logger)
		},
	}
	fetchCmd.Flags().Int64Var(&maxFetch, "max", 0, "Maximum number of messages to fetch (overrides config)")

	processCmd := &cobra.Command{
		Use:   "process",
		Short: "Apply the rule set to stored messages",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(cfgPath)
			if err != nil {
				return err
			}
			if rulesPath != "" {
				cfg.RulesPath = rulesPath
			}
			return runProcess(cmd.Context(), cfg, logger)
		},
	}
	processCmd.Flags().StringVar(&rulesPath, "rules", "", "Path to the rules JSON file (overrides config)")

	displayCmd := &cobra.Command{
		Use:   "display",
		Short: "Show stored messages as a table",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := setup(cfgPath)
			if err != nil {
				return err
			}
			return runDisplay(cmd.Context(), cfg, limit)
		},
	}
	displayCmd.Flags().IntVar(&limit, "limit", 10, "Number of messages to display")

	browseCmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse stored messages interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := setup(cfgPath)
			if err != nil {
				return err
			}
			return runBrowse(cfg)
		},
	}

	rootCmd.AddCommand(fetchCmd, processCmd, displayCmd, browseCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func setup(cfgPath string) (config.Config, *slog.Logger, error) {
	if cfgPath == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return config.Config{}, nil, err
		}
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return config.Config{}, nil, err
	}

	level := slog.LevelInfo
	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return cfg, logger, nil
}

func runFetch(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	st, err := store.NewSQLiteStore(cfg.DBPath)
	if err != nil {
		return err
	}
	defer st.Close()

	svc, err := gmail.NewService(ctx, cfg.CredentialsDir)
	if err != nil {
		return fmt.Errorf("gmail auth: %w", err)
	}

	logger.Info("fetching messages", "max", cfg.MaxFetch)
	msgs, err := gmail.FetchMessages(ctx, svc, cfg.MaxFetch)
	if err != nil {
		return fmt.Errorf("fetch messages: %w", err)
	}
	if len(msgs) == 0 {
		logger.Info("no messages found")
		return nil
	}

	stored, dup := 0, 0
	for _, m := range msgs {
		inserted, err := st.InsertMessage(ctx, m)
		if err != nil {
			return err
		}
		if inserted {
			stored++
			logger.Info("stored message", "message", m.ExternalID, "from", m.Sender, "subject", m.Subject)
		} else {
			dup++
			logger.Debug("message already stored", "message", m.ExternalID, "subject", m.Subject)
		}
	}
	if err := st.SetLastFetchAt(ctx, time.Now()); err != nil {
		return err
	}
	logger.Info("fetch complete", "stored", stored, "duplicates", dup)
	return nil
}

func runProcess(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	st, err := store.NewSQLiteStore(cfg.DBPath)
	if err != nil {
		return err
	}
	defer st.Close()

	set, err := rules.Load(cfg.RulesPath, logger)
	if err != nil {
		return err
	}

	svc := &engine.Service{Store: st, Log: logger}
	report, err := svc.Run(ctx, set)
	if err != nil {
		return err
	}

	for _, tr := range report.Traces {
		for _, ar := range tr.Actions {
			switch {
			case ar.Err != nil:
				fmt.Printf("rule %d  %s  %s: FAILED (%v)\n", tr.RuleIndex, tr.ExternalID, ar.Action.Kind, ar.Err)
			case ar.Skipped != "":
				fmt.Printf("rule %d  %s  %s: skipped (%s)\n", tr.RuleIndex, tr.ExternalID, ar.Action.Kind, ar.Skipped)
			default:
				fmt.Printf("rule %d  %s  %s: done\n", tr.RuleIndex, tr.ExternalID, ar.Action.Kind)
			}
		}
	}
	if report.Matched {
		fmt.Printf("matched: %d rule application(s) across %d message(s)\n", len(report.Traces), report.Messages)
	} else {
		fmt.Println("no rules matched any message")
	}
	return nil
}

func runDisplay(ctx context.Context, cfg config.Config, limit int) error {
	st, err := store.NewSQLiteStore(cfg.DBPath)
	if err != nil {
		return err
	}
	defer st.Close()

	msgs, err := st.ListAll(ctx)
	if err != nil {
		return err
	}
	if len(msgs) == 0 {
		fmt.Println("no messages stored")
		return nil
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "From", "Subject", "Date", "Folder", "Read")
	shown := 0
	for _, m := range msgs {
		if shown >= limit {
			break
		}
		date := ""
		if !m.ReceivedAt.IsZero() {
			date = m.ReceivedAt.Local().Format("2006-01-02 15:04")
		}
		read := "✗"
		if m.IsRead {
			read = "✓"
		}
		t.Row(
			fmt.Sprintf("%d", m.ID),
			truncate(util.SenderLabel(m.Sender), 30),
			truncate(m.Subject, 40),
			date,
			m.Folder,
			read,
		)
		shown++
	}
	fmt.Println(t)
	fmt.Printf("showing %d of %d messages\n", shown, len(msgs))
	return nil
}

func runBrowse(cfg config.Config) error {
	st, err := store.NewSQLiteStore(cfg.DBPath)
	if err != nil {
		return err
	}
	defer st.Close()

	appModel := tui.NewAppModel(st)
	final, err := tea.NewProgram(&appModel, tea.WithAltScreen()).Run()
	if err != nil {
		return err
	}
	if m, ok := final.(*tui.AppModel); ok && m.Err != nil {
		return m.Err
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}
