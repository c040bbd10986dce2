// Package token models access tokens and the rotation policy applied to them.
package token

import (
	"time"
)

// Scope identifies which kind of container owns a token.
type Scope int

const (
	ScopePersonal Scope = iota
	ScopeProject
	ScopeGroup
)

// String returns the lowercase scope name used in logs.
func (s Scope) String() string {
	switch s {
	case ScopePersonal:
		return "personal"
	case ScopeProject:
		return "project"
	case ScopeGroup:
		return "group"
	default:
		return "unknown"
	}
}

// Token is a transient view of a platform access token.
type Token struct {
	ID   int
	Name string

	Scope Scope
	// OwnerID is the project or group id for project and group tokens.
	// It is zero for personal tokens.
	OwnerID int

	CreatedAt time.Time
	// ExpiresAt is a date at midnight UTC. Nil means the token never expires.
	ExpiresAt  *time.Time
	Revoked    bool
	LastUsedAt *time.Time

	Scopes []string
}

// HasScope reports whether the token was granted the named permission scope.
func (t *Token) HasScope(name string) bool {
	for _, s := range t.Scopes {
		if s == name {
			return true
		}
	}
	return false
}

const day = 24 * time.Hour

// AgeDays returns the number of whole days elapsed between created and now.
// Negative durations (clock skew) count as zero days.
func AgeDays(created, now time.Time) int {
	return wholeDays(now.UTC().Sub(created.UTC()))
}

func wholeDays(d time.Duration) int {
	if d < 0 {
		return 0
	}
	return int(d / day)
}
