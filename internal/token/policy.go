package token

import "time"

// NeedsRotation reports whether t is due for an operator decision.
//
// Revoked and never-expiring tokens are out of scope. The session's own token
// (ownTokenID) is excluded here and renewed separately once everything else is
// done; an ownTokenID of zero never matches. Any other token is due once it is
// at least freshnessDays old.
func NeedsRotation(t *Token, ownTokenID, freshnessDays int, now time.Time) bool {
	if t == nil || t.Revoked {
		return false
	}
	if t.ExpiresAt == nil {
		return false
	}
	if ownTokenID != 0 && t.ID == ownTokenID {
		return false
	}
	if AgeDays(t.CreatedAt, now) < freshnessDays {
		return false
	}
	return true
}

// Policy binds the freshness window and the session's own token id.
type Policy struct {
	FreshnessDays int
	OwnTokenID    int
}

// NeedsRotation applies the package level NeedsRotation with p's settings.
func (p Policy) NeedsRotation(t *Token, now time.Time) bool {
	return NeedsRotation(t, p.OwnTokenID, p.FreshnessDays, now)
}

// Filter returns the tokens that are due, preserving order.
func (p Policy) Filter(tokens []*Token, now time.Time) []*Token {
	var due []*Token
	for _, t := range tokens {
		if p.NeedsRotation(t, now) {
			due = append(due, t)
		}
	}
	return due
}

// SelfRenewalDue reports whether the session's own token is old enough to be
// renewed. Unlike NeedsRotation it ignores revocation and expiry: a session
// that authenticated with the token already proved it is usable.
func (p Policy) SelfRenewalDue(own *Token, now time.Time) bool {
	if own == nil {
		return false
	}
	return AgeDays(own.CreatedAt, now) >= p.FreshnessDays
}
