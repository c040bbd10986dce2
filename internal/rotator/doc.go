// Package rotator walks a GitLab account's access tokens and asks the
// operator what to do with each one that is due.
//
// A run has three traversal strategies, executed in order:
//   - Personal: the user's own personal access tokens
//   - Projects: access tokens of every project the user owns
//   - Groups:   access tokens of every group the user belongs to, and of
//     every project in those groups, behind an "ignore all" gate per group
//
// Each strategy filters tokens through the freshness policy in package
// token and hands due tokens to Resolve, a small state machine:
//
//	Prompting ─r─▶ Rotating ────────────────▶ Done (Changed)
//	    │  ▲
//	    d  └─no── ConfirmingDelete ─y─▶ Deleting ─▶ Done
//	    │               ▲
//	    └───────────────┘
//	Prompting ─i─▶ Done
//
// Strategies return a Result and the orchestrator merges them; Changed is
// only ever switched on. After traversal, Renew rotates the session's own
// token when it is stale and Summary reports the outcome.
//
// Example usage:
//
//	r := rotator.New(s.Client, s.User, operator, rotator.Config{
//	    Instance:      cfg.Instance,
//	    FreshnessDays: cfg.Freshness,
//	    LifetimeDays:  cfg.Lifetime,
//	    OwnTokenID:    s.OwnTokenID(),
//	})
//	res, err := r.Run(ctx)
//	if err == nil {
//	    _, err = r.Renew(ctx, s.OwnToken, store)
//	}
//	r.Summary(res)
package rotator
