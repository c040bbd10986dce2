package rotator

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rickgorman/token-rotator/internal/platform"
	"github.com/rickgorman/token-rotator/internal/platform/platformtest"
	"github.com/rickgorman/token-rotator/internal/token"
)

func TestPersonal_OnlyDueTokensArePrompted(t *testing.T) {
	captureUI(t)
	f := newFake()
	f.Personal = []*token.Token{
		tok(1, "fresh", 3),
		tok(2, "stale", 30),
		tok(3, "revoked", 300, revoked()),
		tok(4, "forever", 300, neverExpires()),
		tok(ownID, "Token Rotator", 300),
		tok(5, "boundary", window),
	}
	op := &script{answers: []string{"i", "i"}}

	res, err := newRotator(t, f, op).Personal(context.Background())

	require.NoError(t, err)
	require.Equal(t, 2, op.tokenPrompts())
	require.Equal(t, Result{Ignored: 2}, res)
}

func TestPersonal_ListFailure(t *testing.T) {
	captureUI(t)
	f := newFake()
	boom := errors.New("403 Forbidden")
	f.Errors = map[string]error{"PersonalTokens": boom}

	_, err := newRotator(t, f, &script{}).Personal(context.Background())

	require.ErrorIs(t, err, boom)
}

func TestProjects(t *testing.T) {
	out := captureUI(t)
	f := newFake()
	f.Projects = []platform.Project{
		{ID: 10, Name: "empty"},
		{ID: 11, Name: "calm"},
		{ID: 12, Name: "busy"},
	}
	f.ProjectTokenMap[11] = []*token.Token{
		tok(110, "recent", 1, scope(token.ScopeProject), owner(11)),
		tok(111, "bot", 100, scope(token.ScopeProject), owner(11), revoked()),
	}
	f.ProjectTokenMap[12] = []*token.Token{
		tok(120, "A", 3, scope(token.ScopeProject), owner(12)),
		tok(121, "B", 30, scope(token.ScopeProject), owner(12)),
	}
	op := &script{answers: []string{"r", ""}}

	res, err := newRotator(t, f, op).Projects(context.Background())

	require.NoError(t, err)
	require.Equal(t, Result{Changed: true, Rotated: 1}, res)
	require.Equal(t, 1, op.tokenPrompts(), "only B is prompted")
	require.True(t, f.Rotated(121))
	require.False(t, f.Rotated(120))

	text := out.String()
	require.NotContains(t, text, "empty", "projects without tokens are skipped silently")
	require.Contains(t, text, "Looks like calm's tokens are all fresh within 14 days.")
	require.Contains(t, text, "Project: busy")
	require.NotContains(t, text, "Looks like busy")
}

// groupFake has one group with a due group token and two projects with due
// tokens, plus a project whose tokens are all fresh.
func groupFake() *platformtest.Fake {
	f := newFake()
	f.Groups = []platform.Group{{ID: 50, Name: "platform-team", FullPath: "platform-team"}}
	f.GroupTokenMap[50] = []*token.Token{
		tok(500, "group-ci", 40, scope(token.ScopeGroup), owner(50)),
		tok(501, "group-new", 2, scope(token.ScopeGroup), owner(50)),
	}
	f.GroupProjectMap[50] = []platform.Project{
		{ID: 60, Name: "zeta"},
		{ID: 61, Name: "fresh-only"},
		{ID: 62, Name: "alpha"},
	}
	f.ProjectTokenMap[60] = []*token.Token{tok(600, "zeta-deploy", 20, scope(token.ScopeProject), owner(60))}
	f.ProjectTokenMap[61] = []*token.Token{tok(610, "fresh", 1, scope(token.ScopeProject), owner(61))}
	f.ProjectTokenMap[62] = []*token.Token{
		tok(620, "alpha-read", 20, scope(token.ScopeProject), owner(62)),
		tok(621, "alpha-write", 25, scope(token.ScopeProject), owner(62)),
	}
	return f
}

func TestGroups_IgnoreAllSkipsEveryProject(t *testing.T) {
	out := captureUI(t)
	f := groupFake()
	op := &script{answers: []string{"i"}}

	res, err := newRotator(t, f, op).Groups(context.Background())

	require.NoError(t, err)
	require.Equal(t, 0, op.tokenPrompts())
	require.Equal(t, Result{Skipped: 4}, res)
	require.Empty(t, f.Rotations)
	require.Contains(t, out.String(), "Found tokens to renew for group platform-team!")
	require.NotContains(t, out.String(), "Project: ")
}

func TestGroups_ContinueResolvesGroupThenProjectsInOrder(t *testing.T) {
	out := captureUI(t)
	f := groupFake()
	// gate, group-ci, zeta-deploy, alpha-read, alpha-write
	op := &script{answers: []string{"", "i", "r", "", "i", "d", "y"}}

	res, err := newRotator(t, f, op).Groups(context.Background())

	require.NoError(t, err)
	require.Equal(t, Result{Changed: true, Rotated: 1, Ignored: 2, Deleted: 1}, res)
	require.True(t, f.Rotated(600))
	require.Equal(t, []int{621}, f.Deletions)

	text := out.String()
	require.Equal(t, 1, strings.Count(text, "Project: zeta"), "header printed once per project")
	require.Equal(t, 1, strings.Count(text, "Project: alpha"))
	require.NotContains(t, text, "Project: fresh-only")

	groupAt := strings.Index(text, "group-ci")
	zetaAt := strings.Index(text, "Project: zeta")
	alphaAt := strings.Index(text, "Project: alpha")
	require.True(t, groupAt < zetaAt && zetaAt < alphaAt, "group tokens first, then projects in listing order")
}

func TestGroups_NothingDue(t *testing.T) {
	out := captureUI(t)
	f := newFake()
	f.Groups = []platform.Group{{ID: 50, Name: "quiet"}}
	f.GroupTokenMap[50] = []*token.Token{tok(500, "new", 1, scope(token.ScopeGroup))}
	f.GroupProjectMap[50] = []platform.Project{{ID: 60, Name: "p"}}
	op := &script{}

	res, err := newRotator(t, f, op).Groups(context.Background())

	require.NoError(t, err)
	require.Equal(t, Result{}, res)
	require.Empty(t, op.prompts, "no gate without due tokens")
	require.Contains(t, out.String(), "Processing all of the projects in each of your groups.")
	require.Contains(t, out.String(), "quiet doesn't have any tokens in need of rotation.")
}

func TestGroups_CollectsBeforeGate(t *testing.T) {
	captureUI(t)
	f := groupFake()
	boom := errors.New("timeout")
	f.Errors = map[string]error{"GroupProjects": boom}
	op := &script{}

	_, err := newRotator(t, f, op).Groups(context.Background())

	require.ErrorIs(t, err, boom)
	require.Contains(t, err.Error(), "platform-team")
	require.Empty(t, op.prompts)
}

func TestTraversal_TokenDecidedOnce(t *testing.T) {
	captureUI(t)
	f := groupFake()
	// alpha is owned by the user and also lives in the group.
	f.Projects = []platform.Project{{ID: 62, Name: "alpha"}}
	op := &script{answers: []string{
		"i", "i", // owned alpha
		"", "i", "i", // gate, group-ci, zeta-deploy
	}}
	r := newRotator(t, f, op)

	_, err := r.Projects(context.Background())
	require.NoError(t, err)
	res, err := r.Groups(context.Background())
	require.NoError(t, err)

	require.Equal(t, 2, res.Ignored)
	require.Equal(t, 4, op.tokenPrompts())
}
