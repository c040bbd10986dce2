package session

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/rickgorman/token-rotator/internal/platform"
	"github.com/rickgorman/token-rotator/internal/platform/platformtest"
	"github.com/rickgorman/token-rotator/internal/token"
	"github.com/rickgorman/token-rotator/internal/ui"
)

const (
	instance    = "https://gitlab.example.com"
	settingsURL = instance + "/-/user_settings/personal_access_tokens"
)

// --- Mocks ---

type mockStore struct {
	mock.Mock
}

func (m *mockStore) Get(instance string) (string, bool, error) {
	args := m.Called(instance)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *mockStore) Set(instance, secret string) error {
	return m.Called(instance, secret).Error(0)
}

func (m *mockStore) Delete(instance string) error {
	return m.Called(instance).Error(0)
}

type mockOperator struct {
	mock.Mock
}

func (m *mockOperator) Ask(_ context.Context, prompt string) (string, error) {
	args := m.Called(prompt)
	return args.String(0), args.Error(1)
}

func (m *mockOperator) AskSecret(_ context.Context, prompt string) (string, error) {
	args := m.Called(prompt)
	return args.String(0), args.Error(1)
}

func (m *mockOperator) OpenURL(url string) error {
	return m.Called(url).Error(0)
}

func (m *mockOperator) Paste() (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}

func prompt(prefix string) interface{} {
	return mock.MatchedBy(func(p string) bool { return strings.HasPrefix(p, prefix) })
}

// --- Helpers ---

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

func goodClient() *platformtest.Fake {
	return &platformtest.Fake{
		User: &platform.User{ID: 7, Username: "ada", Name: "Ada Lovelace"},
		Own: &token.Token{
			ID:        42,
			Name:      "Token Rotator",
			Scope:     token.ScopePersonal,
			CreatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
			Scopes:    []string{"api"},
		},
	}
}

// sequenceDialer hands out clients in order and records the secrets used.
type sequenceDialer struct {
	clients []platform.Client
	secrets []string
}

func (d *sequenceDialer) Dial(ctx context.Context, instance, secret string) (platform.Client, error) {
	d.secrets = append(d.secrets, secret)
	if len(d.clients) == 0 {
		return nil, errors.New("no more clients")
	}
	c := d.clients[0]
	d.clients = d.clients[1:]
	return c, nil
}

func newBootstrapper(t *testing.T, store *mockStore, op *mockOperator, d *sequenceDialer) *Bootstrapper {
	return &Bootstrapper{
		Instance:    instance,
		SettingsURL: settingsURL,
		Store:       store,
		Dial:        d.Dial,
		Operator:    op,
		Log:         zaptest.NewLogger(t),
	}
}

// --- Tests ---

func TestRun_StoredToken(t *testing.T) {
	out := captureUI(t)
	store, op := new(mockStore), new(mockOperator)
	store.On("Get", instance).Return("glpat-good", true, nil)
	d := &sequenceDialer{clients: []platform.Client{goodClient()}}

	s, err := newBootstrapper(t, store, op, d).Run(context.Background())

	require.NoError(t, err)
	require.Equal(t, "ada", s.User.Username)
	require.Equal(t, 42, s.OwnTokenID())
	require.Equal(t, []string{"glpat-good"}, d.secrets)
	require.Contains(t, out.String(), "Logged in as Ada Lovelace!")
	op.AssertNotCalled(t, "Ask", mock.Anything)
	store.AssertExpectations(t)
}

func TestRun_FirstRunReadsClipboard(t *testing.T) {
	out := captureUI(t)
	store, op := new(mockStore), new(mockOperator)
	store.On("Get", instance).Return("", false, nil)
	store.On("Set", instance, "glpat-new").Return(nil).Once()
	op.On("Ask", prompt("Press enter to open GitLab")).Return("", nil).Once()
	op.On("OpenURL", settingsURL).Return(nil).Once()
	op.On("Ask", prompt("Copy your new access token")).Return("", nil).Once()
	op.On("Paste").Return("glpat-new", nil).Once()
	d := &sequenceDialer{clients: []platform.Client{goodClient()}}

	_, err := newBootstrapper(t, store, op, d).Run(context.Background())

	require.NoError(t, err)
	require.Equal(t, []string{"glpat-new"}, d.secrets)
	require.Contains(t, out.String(), "First run on instance "+instance)
	op.AssertExpectations(t)
	store.AssertExpectations(t)
}

func TestRun_FirstRunFallbacks(t *testing.T) {
	out := captureUI(t)
	store, op := new(mockStore), new(mockOperator)
	store.On("Get", instance).Return("", false, nil)
	store.On("Set", instance, "glpat-typed").Return(nil).Once()
	op.On("Ask", mock.Anything).Return("", nil)
	op.On("OpenURL", settingsURL).Return(errors.New("no browser")).Once()
	op.On("Paste").Return("", errors.New("xclip missing")).Once()
	op.On("AskSecret", prompt("Paste your access token")).Return("", nil).Once()
	op.On("AskSecret", prompt("Paste your access token")).Return("glpat-typed", nil).Once()
	d := &sequenceDialer{clients: []platform.Client{goodClient()}}

	_, err := newBootstrapper(t, store, op, d).Run(context.Background())

	require.NoError(t, err)
	require.Equal(t, []string{"glpat-typed"}, d.secrets)
	require.Contains(t, out.String(), settingsURL, "URL is printed when the browser fails")
	require.Contains(t, out.String(), "Couldn't read your clipboard.")
	op.AssertExpectations(t)
}

func TestRun_AuthenticationFailure(t *testing.T) {
	tests := []struct {
		name    string
		answers []string
		clients []platform.Client
		wantErr error
		secrets []string
	}{
		{
			name:    "exit",
			answers: []string{"e"},
			clients: []platform.Client{&platformtest.Fake{}},
			wantErr: ErrAbandoned,
			secrets: []string{"glpat-stale"},
		},
		{
			name:    "exit is case insensitive",
			answers: []string{"  EXIT"},
			clients: []platform.Client{&platformtest.Fake{}},
			wantErr: ErrAbandoned,
			secrets: []string{"glpat-stale"},
		},
		{
			name:    "retry with the same token",
			answers: []string{"", "whatever"},
			clients: []platform.Client{&platformtest.Fake{}, &platformtest.Fake{}, goodClient()},
			secrets: []string{"glpat-stale", "glpat-stale", "glpat-stale"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := captureUI(t)
			store, op := new(mockStore), new(mockOperator)
			store.On("Get", instance).Return("glpat-stale", true, nil)
			for _, a := range tt.answers {
				op.On("Ask", prompt("(e)xit, (n)ew token")).Return(a, nil).Once()
			}
			d := &sequenceDialer{clients: tt.clients}

			s, err := newBootstrapper(t, store, op, d).Run(context.Background())

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				require.Nil(t, s)
			} else {
				require.NoError(t, err)
				require.NotNil(t, s)
			}
			require.Equal(t, tt.secrets, d.secrets)
			require.Contains(t, out.String(), "Could not authenticate with your token glpat-****")
			require.NotContains(t, out.String(), "glpat-stale", "the raw secret is never printed")
			op.AssertExpectations(t)
		})
	}
}

func TestRun_NewTokenAfterFailure(t *testing.T) {
	captureUI(t)
	store, op := new(mockStore), new(mockOperator)
	store.On("Get", instance).Return("glpat-revoked", true, nil)
	store.On("Delete", instance).Return(nil).Once()
	store.On("Set", instance, "glpat-fresh").Return(nil).Once()
	op.On("Ask", prompt("(e)xit, (n)ew token")).Return("n", nil).Once()
	op.On("Ask", prompt("Press enter")).Return("", nil).Once()
	op.On("Ask", prompt("Copy your new")).Return("", nil).Once()
	op.On("OpenURL", settingsURL).Return(nil).Once()
	op.On("Paste").Return("glpat-fresh", nil).Once()
	d := &sequenceDialer{clients: []platform.Client{&platformtest.Fake{}, goodClient()}}

	s, err := newBootstrapper(t, store, op, d).Run(context.Background())

	require.NoError(t, err)
	require.NotNil(t, s)
	require.Equal(t, []string{"glpat-revoked", "glpat-fresh"}, d.secrets)
	store.AssertExpectations(t)
	op.AssertExpectations(t)
}

func TestRun_OwnTokenUnknown(t *testing.T) {
	out := captureUI(t)
	store, op := new(mockStore), new(mockOperator)
	store.On("Get", instance).Return("glpat-good", true, nil)
	client := goodClient()
	client.Own = nil
	d := &sequenceDialer{clients: []platform.Client{client}}

	s, err := newBootstrapper(t, store, op, d).Run(context.Background())

	require.NoError(t, err)
	require.Nil(t, s.OwnToken)
	require.Equal(t, 0, s.OwnTokenID())
	require.Contains(t, out.String(), "won't be renewed automatically")
}

func TestRun_Errors(t *testing.T) {
	t.Run("store unavailable", func(t *testing.T) {
		captureUI(t)
		store, op := new(mockStore), new(mockOperator)
		boom := errors.New("dbus: no secret service")
		store.On("Get", instance).Return("", false, boom)

		_, err := newBootstrapper(t, store, op, &sequenceDialer{}).Run(context.Background())

		require.ErrorIs(t, err, boom)
	})

	t.Run("prompt aborted", func(t *testing.T) {
		captureUI(t)
		store, op := new(mockStore), new(mockOperator)
		store.On("Get", instance).Return("glpat-stale", true, nil)
		op.On("Ask", mock.Anything).Return("", ui.ErrAborted).Once()
		d := &sequenceDialer{clients: []platform.Client{&platformtest.Fake{}}}

		_, err := newBootstrapper(t, store, op, d).Run(context.Background())

		require.ErrorIs(t, err, ui.ErrAborted)
	})

	t.Run("cancelled context", func(t *testing.T) {
		captureUI(t)
		store, op := new(mockStore), new(mockOperator)
		store.On("Get", instance).Return("glpat-stale", true, nil)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		d := &sequenceDialer{clients: []platform.Client{&platformtest.Fake{}}}

		_, err := newBootstrapper(t, store, op, d).Run(ctx)

		require.ErrorIs(t, err, context.Canceled)
		op.AssertNotCalled(t, "Ask", mock.Anything)
	})
}
