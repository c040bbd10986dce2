package rotator

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/fatih/color"
	"go.uber.org/zap/zaptest"

	"github.com/rickgorman/token-rotator/internal/platform"
	"github.com/rickgorman/token-rotator/internal/platform/platformtest"
	"github.com/rickgorman/token-rotator/internal/token"
	"github.com/rickgorman/token-rotator/internal/ui"
)

var now = time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)

const (
	instance = "https://gitlab.example.com"
	ownID    = 99
	window   = 14
	lifetime = 365
)

// script answers prompts in order and fails with io.EOF once it runs out.
type script struct {
	answers []string
	prompts []string
	copied  []string
	copyErr error
}

func (s *script) Ask(_ context.Context, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if len(s.answers) == 0 {
		return "", io.EOF
	}
	a := s.answers[0]
	s.answers = s.answers[1:]
	return a, nil
}

func (s *script) Copy(text string) error {
	if s.copyErr != nil {
		return s.copyErr
	}
	s.copied = append(s.copied, text)
	return nil
}

// tokenPrompts counts how many tokens the operator was asked about.
func (s *script) tokenPrompts() int {
	n := 0
	for _, p := range s.prompts {
		if p == "(r)otate it, (d)elete it, or (i)gnore this time:" {
			n++
		}
	}
	return n
}

type mapStore map[string]string

func (m mapStore) Set(instance, secret string) error {
	m[instance] = secret
	return nil
}

func captureUI(t *testing.T) *bytes.Buffer {
	t.Helper()

	var buf bytes.Buffer
	origOut, origNoColor := ui.Out, color.NoColor
	ui.Out = &buf
	color.NoColor = true
	t.Cleanup(func() {
		ui.Out = origOut
		color.NoColor = origNoColor
	})
	return &buf
}

type tokenOpt func(*token.Token)

func revoked() tokenOpt {
	return func(t *token.Token) { t.Revoked = true }
}

func neverExpires() tokenOpt {
	return func(t *token.Token) { t.ExpiresAt = nil }
}

func owner(id int) tokenOpt {
	return func(t *token.Token) { t.OwnerID = id }
}

func scope(s token.Scope) tokenOpt {
	return func(t *token.Token) { t.Scope = s }
}

func expiresIn(days int) tokenOpt {
	return func(t *token.Token) {
		exp := time.Date(2026, 10, 17+days, 0, 0, 0, 0, time.UTC)
		t.ExpiresAt = &exp
	}
}

func usedDaysAgo(days int) tokenOpt {
	return func(t *token.Token) {
		used := now.AddDate(0, 0, -days)
		t.LastUsedAt = &used
	}
}

// tok builds a personal token created ageDays ago that expires in 30 days.
func tok(id int, name string, ageDays int, opts ...tokenOpt) *token.Token {
	exp := time.Date(2026, 11, 16, 0, 0, 0, 0, time.UTC)
	t := &token.Token{
		ID:        id,
		Name:      name,
		Scope:     token.ScopePersonal,
		CreatedAt: now.AddDate(0, 0, -ageDays),
		ExpiresAt: &exp,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func newFake() *platformtest.Fake {
	return &platformtest.Fake{
		User:            &platform.User{ID: 7, Username: "ada", Name: "Ada Lovelace"},
		ProjectTokenMap: map[int][]*token.Token{},
		GroupTokenMap:   map[int][]*token.Token{},
		GroupProjectMap: map[int][]platform.Project{},
	}
}

func newRotator(t *testing.T, f *platformtest.Fake, op *script) *Rotator {
	t.Helper()

	return New(f, f.User, op, Config{
		Instance:      instance,
		FreshnessDays: window,
		LifetimeDays:  lifetime,
		OwnTokenID:    ownID,
	}, WithClock(func() time.Time { return now }), WithLogger(zaptest.NewLogger(t)))
}
