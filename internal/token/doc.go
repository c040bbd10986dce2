// Package token models GitLab access tokens and decides which of them are due
// for rotation.
//
// Three kinds of tokens are handled:
//   - Personal access tokens owned by the authenticated user
//   - Project access tokens (owned by a project's bot user)
//   - Group access tokens (owned by a group's bot user)
//
// The freshness policy is a pure function of the token metadata, the id of
// the token authenticating the current session, the freshness window and the
// current time:
//
//	due := token.NeedsRotation(t, ownTokenID, 14, time.Now())
//
// A token is never due when it is revoked, never expires, or is the token
// the session itself is using. Otherwise it is due once it is at least
// freshnessDays old.
//
// Describe computes the informational status shown next to a due token:
//
//	st := token.Describe(t, time.Now())
//	if st.Expired {
//	    fmt.Println(t.Name, "- EXPIRED")
//	}
package token
