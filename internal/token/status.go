package token

import "time"

// Status is the informational summary shown before asking what to do with a
// token. It never influences whether the token is due.
type Status struct {
	Expired   bool
	NeverUsed bool

	// DaysUntilExpiry is only meaningful when Expired is false.
	DaysUntilExpiry int
	AgeDays         int
	// LastUsedDaysAgo is only meaningful when NeverUsed is false.
	LastUsedDaysAgo int
}

// Describe computes the Status of t at now.
func Describe(t *Token, now time.Time) Status {
	st := Status{
		NeverUsed: t.LastUsedAt == nil,
		AgeDays:   AgeDays(t.CreatedAt, now),
	}

	if t.ExpiresAt != nil {
		left := t.ExpiresAt.Sub(now.UTC())
		st.Expired = left < 0
		if !st.Expired {
			st.DaysUntilExpiry = wholeDays(left)
		}
	}

	if t.LastUsedAt != nil {
		st.LastUsedDaysAgo = AgeDays(*t.LastUsedAt, now)
	}

	return st
}
