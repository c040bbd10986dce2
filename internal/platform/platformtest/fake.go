// Package platformtest provides an in-memory platform.Client for tests.
package platformtest

import (
	"context"
	"fmt"
	"time"

	"github.com/rickgorman/token-rotator/internal/platform"
	"github.com/rickgorman/token-rotator/internal/token"
)

// Rotation records a call to Rotate.
type Rotation struct {
	TokenID   int
	Scope     token.Scope
	ExpiresAt time.Time
	Secret    string
}

// Fake is an in-memory platform.Client. Populate the exported fields before
// use; calls are recorded in Calls, Rotations and Deletions.
type Fake struct {
	User *platform.User
	Own  *token.Token

	Personal []*token.Token
	Projects []platform.Project
	// ProjectTokenMap is keyed by project id.
	ProjectTokenMap map[int][]*token.Token

	Groups []platform.Group
	// GroupTokenMap and GroupProjectMap are keyed by group id.
	GroupTokenMap   map[int][]*token.Token
	GroupProjectMap map[int][]platform.Project

	// Errors forces the named method to fail.
	Errors map[string]error

	Calls     []string
	Rotations []Rotation
	Deletions []int
}

var _ platform.Client = (*Fake)(nil)

func (f *Fake) call(name string) error {
	f.Calls = append(f.Calls, name)
	if err, ok := f.Errors[name]; ok {
		return err
	}
	return nil
}

// Count returns how many times the named method was called.
func (f *Fake) Count(name string) int {
	n := 0
	for _, c := range f.Calls {
		if c == name {
			n++
		}
	}
	return n
}

func (f *Fake) CurrentUser(ctx context.Context) (*platform.User, error) {
	if err := f.call("CurrentUser"); err != nil {
		return nil, err
	}
	if f.User == nil {
		return nil, platform.ErrUnauthorized
	}
	return f.User, nil
}

func (f *Fake) OwnToken(ctx context.Context) (*token.Token, error) {
	if err := f.call("OwnToken"); err != nil {
		return nil, err
	}
	if f.Own == nil {
		return nil, fmt.Errorf("own token: not found")
	}
	return f.Own, nil
}

func (f *Fake) PersonalTokens(ctx context.Context, userID int) ([]*token.Token, error) {
	if err := f.call("PersonalTokens"); err != nil {
		return nil, err
	}
	return f.Personal, nil
}

func (f *Fake) OwnedProjects(ctx context.Context, userID int) ([]platform.Project, error) {
	if err := f.call("OwnedProjects"); err != nil {
		return nil, err
	}
	return f.Projects, nil
}

func (f *Fake) ProjectTokens(ctx context.Context, projectID int) ([]*token.Token, error) {
	if err := f.call("ProjectTokens"); err != nil {
		return nil, err
	}
	return f.ProjectTokenMap[projectID], nil
}

func (f *Fake) GroupMemberships(ctx context.Context, userID int) ([]platform.Group, error) {
	if err := f.call("GroupMemberships"); err != nil {
		return nil, err
	}
	refs := make([]platform.Group, 0, len(f.Groups))
	for _, g := range f.Groups {
		refs = append(refs, platform.Group{ID: g.ID})
	}
	return refs, nil
}

func (f *Fake) Group(ctx context.Context, groupID int) (*platform.Group, error) {
	if err := f.call("Group"); err != nil {
		return nil, err
	}
	for i := range f.Groups {
		if f.Groups[i].ID == groupID {
			g := f.Groups[i]
			return &g, nil
		}
	}
	return nil, fmt.Errorf("group %d: not found", groupID)
}

func (f *Fake) GroupTokens(ctx context.Context, groupID int) ([]*token.Token, error) {
	if err := f.call("GroupTokens"); err != nil {
		return nil, err
	}
	return f.GroupTokenMap[groupID], nil
}

func (f *Fake) GroupProjects(ctx context.Context, groupID int) ([]platform.Project, error) {
	if err := f.call("GroupProjects"); err != nil {
		return nil, err
	}
	return f.GroupProjectMap[groupID], nil
}

func (f *Fake) Rotate(ctx context.Context, t *token.Token, expiresAt time.Time) (string, error) {
	if err := f.call("Rotate"); err != nil {
		return "", err
	}
	secret := fmt.Sprintf("glpat-rotated-%d", t.ID)
	f.Rotations = append(f.Rotations, Rotation{
		TokenID:   t.ID,
		Scope:     t.Scope,
		ExpiresAt: expiresAt,
		Secret:    secret,
	})
	return secret, nil
}

func (f *Fake) Delete(ctx context.Context, t *token.Token) error {
	if err := f.call("Delete"); err != nil {
		return err
	}
	f.Deletions = append(f.Deletions, t.ID)
	return nil
}

// Rotated reports whether the token with id was rotated.
func (f *Fake) Rotated(id int) bool {
	for _, r := range f.Rotations {
		if r.TokenID == id {
			return true
		}
	}
	return false
}
