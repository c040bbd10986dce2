package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rickgorman/token-rotator/internal/cli"
	"github.com/rickgorman/token-rotator/internal/config"
	"github.com/rickgorman/token-rotator/internal/credstore"
	"github.com/rickgorman/token-rotator/internal/desktop"
	"github.com/rickgorman/token-rotator/internal/gitlab"
	"github.com/rickgorman/token-rotator/internal/logger"
	"github.com/rickgorman/token-rotator/internal/rotator"
	"github.com/rickgorman/token-rotator/internal/session"
	"github.com/rickgorman/token-rotator/internal/ui"
)

const version = "1.0.0"

// exitInterrupted follows the shell convention of 128 + SIGINT.
const exitInterrupted = 130

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := cli.NewRootCommand(version, run).ExecuteContext(ctx)
	code := exitCode(ctx, err)
	stop()
	os.Exit(code)
}

// exitCode reports err to the operator and maps it to a process status.
func exitCode(ctx context.Context, err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, session.ErrAbandoned):
		return session.ExitAbandoned
	case errors.Is(err, ui.ErrAborted), errors.Is(err, context.Canceled) && ctx.Err() != nil:
		ui.BlankLine()
		ui.Warn("Interrupted.")
		return exitInterrupted
	default:
		ui.Fail("%v", err)
		if errors.Is(err, config.ErrInvalid) {
			ui.Info("Run %s for usage information", ui.Bold("token-rotator --help"))
		}
		return 1
	}
}

// operator joins terminal input with the desktop clipboard and browser.
type operator struct {
	*ui.Prompter
	*desktop.Desktop
}

func run(ctx context.Context, cfg *config.Config) error {
	log, closeLog, err := logger.New(logger.Config{
		Level:    cfg.LogLevel,
		Format:   cfg.LogFormat,
		FilePath: cfg.LogFile,
	})
	if err != nil {
		return err
	}
	defer func() { _ = closeLog() }()

	log = log.With(zap.String("run_id", uuid.NewString()), zap.String("instance", cfg.Instance))
	log.Info("starting", zap.String("version", version),
		zap.Int("freshness_days", cfg.Freshness), zap.Int("lifetime_days", cfg.Lifetime))

	prompter := ui.NewTerminalPrompter()
	defer func() { _ = prompter.Close() }()
	op := &operator{Prompter: prompter, Desktop: desktop.New()}
	store := credstore.New(cfg.KeyringService)

	ui.Header()
	defer ui.Footer()

	boot := &session.Bootstrapper{
		Instance:    cfg.Instance,
		SettingsURL: gitlab.TokenSettingsURL(cfg.Instance),
		Store:       store,
		Dial:        gitlab.Dialer(gitlab.WithRateLimit(cfg.RateLimit), gitlab.WithLogger(log)),
		Operator:    op,
		Log:         log,
	}
	s, err := boot.Run(ctx)
	if err != nil {
		return err
	}

	if s.OwnToken != nil {
		if missing := gitlab.MissingScopes(s.OwnToken.Scopes); len(missing) > 0 {
			lines := strings.Split(gitlab.FormatMissingScopesWarning(missing, cfg.Instance), "\n")
			ui.Warn("%s", lines[0])
			for _, line := range lines[1:] {
				ui.DimMsg("%s", line)
			}
		}
	}

	r := rotator.New(s.Client, s.User, op, rotator.Config{
		Instance:      cfg.Instance,
		FreshnessDays: cfg.Freshness,
		LifetimeDays:  cfg.Lifetime,
		OwnTokenID:    s.OwnTokenID(),
	}, rotator.WithLogger(log))

	res, err := r.Run(ctx)
	if err != nil {
		return err
	}
	if _, err := r.Renew(ctx, s.OwnToken, store); err != nil {
		return err
	}
	r.Summary(res)

	log.Info("finished",
		zap.Bool("changed", res.Changed),
		zap.Int("rotated", res.Rotated),
		zap.Int("deleted", res.Deleted),
		zap.Int("ignored", res.Ignored),
		zap.Int("skipped", res.Skipped))
	return nil
}
