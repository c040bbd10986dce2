package rotator

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/rickgorman/token-rotator/internal/platform"
	"github.com/rickgorman/token-rotator/internal/token"
	"github.com/rickgorman/token-rotator/internal/ui"
)

// Operator answers prompts and receives new secrets on the clipboard.
type Operator interface {
	Ask(ctx context.Context, prompt string) (string, error)
	Copy(text string) error
}

// Config carries the per-run settings resolved from configuration.
type Config struct {
	// Instance is the credential store key the session token lives under.
	Instance      string
	FreshnessDays int
	LifetimeDays  int
	// OwnTokenID is the session's own token, 0 when unknown.
	OwnTokenID int
}

// Option customizes a Rotator.
type Option func(*Rotator)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(r *Rotator) { r.now = now }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(log *zap.Logger) Option {
	return func(r *Rotator) { r.log = log }
}

// Rotator drives one rotation run for an authenticated user.
type Rotator struct {
	client   platform.Client
	user     *platform.User
	operator Operator
	instance string
	policy   token.Policy
	expiry   time.Time

	// decided holds tokens the operator already answered for in this run,
	// so a project reached both as owned and through a group is asked once.
	decided map[int]bool

	now func() time.Time
	log *zap.Logger
}

// New returns a Rotator for user. The expiry for rotated tokens is fixed
// here from cfg.LifetimeDays.
func New(client platform.Client, user *platform.User, operator Operator, cfg Config, opts ...Option) *Rotator {
	r := &Rotator{
		client:   client,
		user:     user,
		operator: operator,
		instance: cfg.Instance,
		policy: token.Policy{
			FreshnessDays: cfg.FreshnessDays,
			OwnTokenID:    cfg.OwnTokenID,
		},
		decided: make(map[int]bool),
		now:     time.Now,
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}

	r.expiry = NewExpiry(r.now(), cfg.LifetimeDays)
	return r
}

// NewExpiry returns the calendar date lifetimeDays after now, at midnight
// UTC, which is how GitLab stores token expiry dates.
func NewExpiry(now time.Time, lifetimeDays int) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d+lifetimeDays, 0, 0, 0, 0, time.UTC)
}

// Expiry is the expiry date given to every token rotated in this run.
func (r *Rotator) Expiry() time.Time {
	return r.expiry
}

// Run shows the rotation warning and runs the personal, project and group
// traversals in order. The merged result is returned even on error.
func (r *Rotator) Run(ctx context.Context) (Result, error) {
	ui.BlankLine()
	ui.Warn("WARNING: Rotating a token immediately revokes the old one. The GitLab API does not include a feature to undo this action.")
	ui.Plain("%s", ui.Bold("Please make sure you're in a position to actually put the new token where it needs to go before you choose to rotate it!"))

	steps := []struct {
		title string
		run   func(context.Context) (Result, error)
	}{
		{"Personal access tokens", r.Personal},
		{"Project access tokens", r.Projects},
		{"Group access tokens", r.Groups},
	}

	var total Result
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return total, err
		}

		ui.BlankLine()
		ui.Divider(step.title)
		res, err := step.run(ctx)
		total = total.Merge(res)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
