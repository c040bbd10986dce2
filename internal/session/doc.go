// Package session establishes an authenticated GitLab session for
// token-rotator.
//
// This package handles:
//   - Loading the stored access token for an instance from the credential store
//   - First-run onboarding (open the token settings page, read the new
//     token from the clipboard, save it)
//   - The authentication retry loop (exit, new token, or retry)
//   - Resolving the token the session itself authenticates with
//
// The bootstrap loop moves through four states:
//
//	NoCredential ──onboard──▶ Authenticating ──ok──▶ Authenticated
//	      ▲                        │
//	      └──────(n)ew token───── Failed ◀──error──┘
//	                               │ (e)xit ──▶ ErrAbandoned
//	                               └ enter ──▶ Authenticating (same token)
//
// There is no retry limit; the operator decides. ErrAbandoned is the only
// controlled early exit and maps to process status ExitAbandoned.
//
// Example usage:
//
//	b := &session.Bootstrapper{
//	    Instance:    cfg.Instance,
//	    SettingsURL: gitlab.TokenSettingsURL(cfg.Instance),
//	    Store:       credstore.New(cfg.KeyringService),
//	    Dial:        gitlab.Dialer(),
//	    Operator:    operator,
//	    Log:         log,
//	}
//	s, err := b.Run(ctx)
package session
