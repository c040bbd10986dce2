// Package gitlab implements platform.Client on top of the GitLab REST API.
//
// The adapter wraps gitlab.com/gitlab-org/api/client-go and converts its
// personal, project and group access token types into token.Token values.
// It handles:
//
//   - Authentication with a private token against any GitLab instance
//   - Full pagination of every list endpoint
//   - Rotation and revocation of personal, project and group tokens
//   - Request throttling through a golang.org/x/time/rate limiter
//   - Checking that the session token carries the scopes the rotator needs
//
// The client library's automatic retries are disabled: a failed call is
// reported to the operator instead of being retried.
//
// Example usage:
//
//	client, err := gitlab.Dial("https://gitlab.com", secret,
//	    gitlab.WithRateLimit(10),
//	    gitlab.WithLogger(log),
//	)
//	if err != nil {
//	    return err
//	}
//
//	user, err := client.CurrentUser(ctx)
//	if err != nil {
//	    return err
//	}
//
//	tokens, err := client.PersonalTokens(ctx, user.ID)
//
// Requests are authenticated with the PRIVATE-TOKEN header. An HTTP 401 from
// any endpoint is reported as platform.ErrUnauthorized.
package gitlab
