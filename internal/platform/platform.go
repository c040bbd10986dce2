// Package platform defines the code-hosting operations the rotator consumes.
//
// The concrete implementation lives in internal/gitlab; tests use the
// in-memory fake in internal/platform/platformtest.
package platform

import (
	"context"
	"errors"
	"time"

	"github.com/rickgorman/token-rotator/internal/token"
)

// ErrUnauthorized is returned when the platform rejects the credential.
var ErrUnauthorized = errors.New("unauthorized")

// User is the authenticated principal.
type User struct {
	ID       int
	Username string
	Name     string
}

// Project is a project the user owns or a group contains.
type Project struct {
	ID                int
	Name              string
	PathWithNamespace string
}

// Group is a group (namespace) the user is a member of.
type Group struct {
	ID       int
	Name     string
	FullPath string
}

// Client lists and mutates access tokens. All calls are blocking.
type Client interface {
	// CurrentUser returns the user the session is authenticated as.
	CurrentUser(ctx context.Context) (*User, error)
	// OwnToken returns the token authenticating the session.
	OwnToken(ctx context.Context) (*token.Token, error)

	PersonalTokens(ctx context.Context, userID int) ([]*token.Token, error)
	OwnedProjects(ctx context.Context, userID int) ([]Project, error)
	ProjectTokens(ctx context.Context, projectID int) ([]*token.Token, error)

	// GroupMemberships returns references to the groups the user belongs to.
	// Only ID is guaranteed to be set; use Group for the full record.
	GroupMemberships(ctx context.Context, userID int) ([]Group, error)
	Group(ctx context.Context, groupID int) (*Group, error)
	GroupTokens(ctx context.Context, groupID int) ([]*token.Token, error)
	GroupProjects(ctx context.Context, groupID int) ([]Project, error)

	// Rotate revokes t and issues a replacement expiring at expiresAt.
	// It returns the new secret value.
	Rotate(ctx context.Context, t *token.Token, expiresAt time.Time) (string, error)
	// Delete revokes t. The token value must not be reused afterwards.
	Delete(ctx context.Context, t *token.Token) error
}

// Dialer builds a client for instance authenticated with secret.
// Dialing does not contact the platform; the first call does.
type Dialer func(ctx context.Context, instance, secret string) (Client, error)
