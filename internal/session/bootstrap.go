package session

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/rickgorman/token-rotator/internal/platform"
	"github.com/rickgorman/token-rotator/internal/token"
	"github.com/rickgorman/token-rotator/internal/ui"
	"github.com/rickgorman/token-rotator/pkg/hash"
)

// ExitAbandoned is the process exit status when the operator gives up on
// authenticating.
const ExitAbandoned = 221

// ErrAbandoned is returned by Run when the operator chooses to exit.
var ErrAbandoned = errors.New("authentication abandoned")

// Store persists the session credential per instance.
type Store interface {
	Get(instance string) (string, bool, error)
	Set(instance, secret string) error
	Delete(instance string) error
}

// Operator is the human at the terminal.
type Operator interface {
	Ask(ctx context.Context, prompt string) (string, error)
	AskSecret(ctx context.Context, prompt string) (string, error)
	OpenURL(url string) error
	Paste() (string, error)
}

// Session is an authenticated connection to the platform.
type Session struct {
	Client platform.Client
	User   *platform.User
	// OwnToken is the token authenticating the session, nil when the
	// platform would not say.
	OwnToken *token.Token
}

// OwnTokenID returns the id of the session's own token, or 0 when unknown.
func (s *Session) OwnTokenID() int {
	if s.OwnToken == nil {
		return 0
	}
	return s.OwnToken.ID
}

// Bootstrapper runs the authentication loop.
type Bootstrapper struct {
	Instance string
	// SettingsURL is where new personal access tokens are created.
	SettingsURL string

	Store    Store
	Dial     platform.Dialer
	Operator Operator
	Log      *zap.Logger
}

// Run returns an authenticated session, onboarding a new credential when
// none is stored and looping on authentication failures until the operator
// succeeds or gives up.
func (b *Bootstrapper) Run(ctx context.Context) (*Session, error) {
	log := b.logger()

	secret, ok, err := b.Store.Get(b.Instance)
	if err != nil {
		return nil, fmt.Errorf("read stored token: %w", err)
	}

	for {
		if !ok {
			if secret, err = b.onboard(ctx); err != nil {
				return nil, err
			}
			ok = true
		}

		s, err := b.authenticate(ctx, secret)
		if err == nil {
			return s, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		log.Warn("authentication failed",
			zap.String("instance", b.Instance),
			zap.String("fingerprint", hash.Fingerprint(secret)),
			zap.Error(err))
		ui.Fail("Could not authenticate with your token %s!", hash.Mask(secret))
		ui.DimMsg("%v", err)

		answer, err := b.Operator.Ask(ctx, "(e)xit, (n)ew token, or just hit enter to try again with the same token:")
		if err != nil {
			return nil, err
		}

		switch ui.Choice(answer) {
		case 'e':
			return nil, ErrAbandoned
		case 'n':
			if err := b.Store.Delete(b.Instance); err != nil {
				return nil, fmt.Errorf("forget stored token: %w", err)
			}
			secret, ok = "", false
		}
	}
}

// onboard walks the operator through creating a token and saves it.
func (b *Bootstrapper) onboard(ctx context.Context) (string, error) {
	ui.Info("First run on instance %s...", b.Instance)
	ui.Plain("You'll need an access token with 'api' permissions to manage all your tokens! We'll save it in your computer's keychain.")

	if _, err := b.Operator.Ask(ctx, "Press enter to open GitLab, then make a new 'Token Rotator' token with only the 'api' box checked..."); err != nil {
		return "", err
	}
	if err := b.Operator.OpenURL(b.SettingsURL); err != nil {
		b.logger().Debug("browser", zap.Error(err))
		ui.Warn("Couldn't open a browser. Create the token at %s", b.SettingsURL)
	}

	if _, err := b.Operator.Ask(ctx, "Copy your new access token from the site, then press enter! (We'll load it from your clipboard.)"); err != nil {
		return "", err
	}

	secret, err := b.Operator.Paste()
	if err != nil {
		b.logger().Debug("clipboard", zap.Error(err))
		ui.Warn("Couldn't read your clipboard.")
	}
	for secret == "" {
		if secret, err = b.Operator.AskSecret(ctx, "Paste your access token here:"); err != nil {
			return "", err
		}
	}

	if err := b.Store.Set(b.Instance, secret); err != nil {
		return "", fmt.Errorf("save token: %w", err)
	}
	return secret, nil
}

// authenticate dials the platform with secret and identifies the session.
func (b *Bootstrapper) authenticate(ctx context.Context, secret string) (*Session, error) {
	log := b.logger()

	client, err := b.Dial(ctx, b.Instance, secret)
	if err != nil {
		return nil, err
	}

	user, err := client.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	ui.Success("Logged in as %s!", user.Name)
	log.Info("authenticated", zap.Int("user_id", user.ID), zap.String("username", user.Username))

	own, err := client.OwnToken(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		log.Warn("own token lookup failed", zap.Error(err))
		ui.Warn("Couldn't identify the token this session uses, so it won't be renewed automatically.")
		own = nil
	} else {
		log.Debug("own token", zap.Int("token_id", own.ID), zap.String("fingerprint", hash.Fingerprint(secret)))
	}

	return &Session{Client: client, User: user, OwnToken: own}, nil
}

func (b *Bootstrapper) logger() *zap.Logger {
	if b.Log == nil {
		return zap.NewNop()
	}
	return b.Log
}
