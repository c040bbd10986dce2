// Package gitlab provides the GitLab implementation of platform.Client.
package gitlab

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	gl "gitlab.com/gitlab-org/api/client-go"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/rickgorman/token-rotator/internal/platform"
	"github.com/rickgorman/token-rotator/internal/token"
)

const (
	// UserAgent identifies the rotator in GitLab's request logs.
	UserAgent = "gitlab_token_rotator/1.0"

	// DefaultRateLimit is the default number of API requests per second.
	DefaultRateLimit = 10.0

	perPage = 100
)

// Client talks to one GitLab instance with one credential.
type Client struct {
	api *gl.Client
	log *zap.Logger
}

var _ platform.Client = (*Client)(nil)

type options struct {
	rateLimit  float64
	log        *zap.Logger
	httpClient *http.Client
}

// Option configures Dial.
type Option func(*options)

// WithRateLimit caps the request rate. Zero or negative disables throttling.
func WithRateLimit(perSecond float64) Option {
	return func(o *options) { o.rateLimit = perSecond }
}

// WithLogger sets the diagnostic logger.
func WithLogger(log *zap.Logger) Option {
	return func(o *options) { o.log = log }
}

// WithHTTPClient overrides the HTTP client used for requests.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.httpClient = c }
}

// Dial creates a client for instance authenticated with secret.
// No request is made until the first method call.
func Dial(instance, secret string, opts ...Option) (*Client, error) {
	o := options{
		rateLimit: DefaultRateLimit,
		log:       zap.NewNop(),
	}
	for _, fn := range opts {
		fn(&o)
	}

	limit := rate.Inf
	if o.rateLimit > 0 {
		limit = rate.Limit(o.rateLimit)
	}

	clientOpts := []gl.ClientOptionFunc{
		gl.WithBaseURL(instance),
		gl.WithCustomLimiter(rate.NewLimiter(limit, 1)),
		gl.WithCustomRetryMax(0),
	}
	if o.httpClient != nil {
		clientOpts = append(clientOpts, gl.WithHTTPClient(o.httpClient))
	}

	api, err := gl.NewClient(secret, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("create gitlab client: %w", err)
	}
	api.UserAgent = UserAgent

	return &Client{
		api: api,
		log: o.log.With(zap.String("instance", instance)),
	}, nil
}

// Dialer adapts Dial to platform.Dialer.
func Dialer(opts ...Option) platform.Dialer {
	return func(ctx context.Context, instance, secret string) (platform.Client, error) {
		c, err := Dial(instance, secret, opts...)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
}

// wrapErr annotates err with the operation and maps 401 to ErrUnauthorized.
func wrapErr(op string, resp *gl.Response, err error) error {
	if resp != nil && resp.Response != nil && resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("%s: %w: %w", op, platform.ErrUnauthorized, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// paginate calls fetch for page 1, 2, ... until GitLab reports no next page.
func paginate[T any](op string, fetch func(page int) ([]T, *gl.Response, error)) ([]T, error) {
	var all []T
	page := 1
	for {
		items, resp, err := fetch(page)
		if err != nil {
			return nil, wrapErr(op, resp, err)
		}
		all = append(all, items...)
		if resp == nil || resp.NextPage == 0 {
			return all, nil
		}
		page = resp.NextPage
	}
}

// CurrentUser returns the authenticated user.
func (c *Client) CurrentUser(ctx context.Context) (*platform.User, error) {
	u, resp, err := c.api.Users.CurrentUser(gl.WithContext(ctx))
	if err != nil {
		return nil, wrapErr("get current user", resp, err)
	}
	return &platform.User{ID: u.ID, Username: u.Username, Name: u.Name}, nil
}

// OwnToken returns the personal access token authenticating the client.
func (c *Client) OwnToken(ctx context.Context) (*token.Token, error) {
	pat, resp, err := c.api.PersonalAccessTokens.GetSinglePersonalAccessToken(gl.WithContext(ctx))
	if err != nil {
		return nil, wrapErr("get own token", resp, err)
	}
	return fromPersonal(pat), nil
}

// PersonalTokens lists the personal access tokens of userID.
func (c *Client) PersonalTokens(ctx context.Context, userID int) ([]*token.Token, error) {
	c.log.Debug("listing personal tokens", zap.Int("user_id", userID))

	pats, err := paginate("list personal tokens", func(page int) ([]*gl.PersonalAccessToken, *gl.Response, error) {
		opt := &gl.ListPersonalAccessTokensOptions{UserID: gl.Ptr(userID)}
		opt.Page = page
		opt.PerPage = perPage
		return c.api.PersonalAccessTokens.ListPersonalAccessTokens(opt, gl.WithContext(ctx))
	})
	if err != nil {
		return nil, err
	}

	tokens := make([]*token.Token, 0, len(pats))
	for _, p := range pats {
		tokens = append(tokens, fromPersonal(p))
	}
	return tokens, nil
}

// OwnedProjects lists the projects owned by userID.
func (c *Client) OwnedProjects(ctx context.Context, userID int) ([]platform.Project, error) {
	c.log.Debug("listing owned projects", zap.Int("user_id", userID))

	projects, err := paginate("list owned projects", func(page int) ([]*gl.Project, *gl.Response, error) {
		opt := &gl.ListProjectsOptions{}
		opt.Page = page
		opt.PerPage = perPage
		return c.api.Projects.ListUserProjects(userID, opt, gl.WithContext(ctx))
	})
	if err != nil {
		return nil, err
	}
	return fromProjects(projects), nil
}

// ProjectTokens lists the access tokens of projectID.
func (c *Client) ProjectTokens(ctx context.Context, projectID int) ([]*token.Token, error) {
	c.log.Debug("listing project tokens", zap.Int("project_id", projectID))

	pats, err := paginate("list project tokens", func(page int) ([]*gl.ProjectAccessToken, *gl.Response, error) {
		opt := &gl.ListProjectAccessTokensOptions{}
		opt.Page = page
		opt.PerPage = perPage
		return c.api.ProjectAccessTokens.ListProjectAccessTokens(projectID, opt, gl.WithContext(ctx))
	})
	if err != nil {
		return nil, err
	}

	tokens := make([]*token.Token, 0, len(pats))
	for _, p := range pats {
		tokens = append(tokens, fromProject(projectID, p))
	}
	return tokens, nil
}

// GroupMemberships lists the groups userID is a direct member of.
func (c *Client) GroupMemberships(ctx context.Context, userID int) ([]platform.Group, error) {
	c.log.Debug("listing group memberships", zap.Int("user_id", userID))

	memberships, err := paginate("list group memberships", func(page int) ([]*gl.UserMembership, *gl.Response, error) {
		opt := &gl.GetUserMembershipOptions{Type: gl.Ptr("Namespace")}
		opt.Page = page
		opt.PerPage = perPage
		return c.api.Users.GetUserMemberships(userID, opt, gl.WithContext(ctx))
	})
	if err != nil {
		return nil, err
	}

	groups := make([]platform.Group, 0, len(memberships))
	for _, m := range memberships {
		groups = append(groups, platform.Group{ID: m.SourceID, Name: m.SourceName})
	}
	return groups, nil
}

// Group fetches a group by id.
func (c *Client) Group(ctx context.Context, groupID int) (*platform.Group, error) {
	g, resp, err := c.api.Groups.GetGroup(groupID, nil, gl.WithContext(ctx))
	if err != nil {
		return nil, wrapErr(fmt.Sprintf("get group %d", groupID), resp, err)
	}
	return &platform.Group{ID: g.ID, Name: g.Name, FullPath: g.FullPath}, nil
}

// GroupTokens lists the access tokens of groupID.
func (c *Client) GroupTokens(ctx context.Context, groupID int) ([]*token.Token, error) {
	c.log.Debug("listing group tokens", zap.Int("group_id", groupID))

	gats, err := paginate("list group tokens", func(page int) ([]*gl.GroupAccessToken, *gl.Response, error) {
		opt := &gl.ListGroupAccessTokensOptions{}
		opt.Page = page
		opt.PerPage = perPage
		return c.api.GroupAccessTokens.ListGroupAccessTokens(groupID, opt, gl.WithContext(ctx))
	})
	if err != nil {
		return nil, err
	}

	tokens := make([]*token.Token, 0, len(gats))
	for _, g := range gats {
		tokens = append(tokens, fromGroup(groupID, g))
	}
	return tokens, nil
}

// GroupProjects lists the projects belonging to groupID.
func (c *Client) GroupProjects(ctx context.Context, groupID int) ([]platform.Project, error) {
	c.log.Debug("listing group projects", zap.Int("group_id", groupID))

	projects, err := paginate("list group projects", func(page int) ([]*gl.Project, *gl.Response, error) {
		opt := &gl.ListGroupProjectsOptions{}
		opt.Page = page
		opt.PerPage = perPage
		return c.api.Groups.ListGroupProjects(groupID, opt, gl.WithContext(ctx))
	})
	if err != nil {
		return nil, err
	}
	return fromProjects(projects), nil
}

// errUnknownScope is returned for tokens whose scope the adapter cannot route.
var errUnknownScope = errors.New("unknown token scope")

// Rotate rotates t and returns the new secret.
func (c *Client) Rotate(ctx context.Context, t *token.Token, expiresAt time.Time) (string, error) {
	expiry := gl.Ptr(gl.ISOTime(dateOnly(expiresAt)))
	op := fmt.Sprintf("rotate %s token %d", t.Scope, t.ID)

	var (
		secret string
		resp   *gl.Response
		err    error
	)

	switch t.Scope {
	case token.ScopePersonal:
		var pat *gl.PersonalAccessToken
		pat, resp, err = c.api.PersonalAccessTokens.RotatePersonalAccessToken(t.ID,
			&gl.RotatePersonalAccessTokenOptions{ExpiresAt: expiry}, gl.WithContext(ctx))
		if err == nil {
			secret = pat.Token
		}
	case token.ScopeProject:
		var pat *gl.ProjectAccessToken
		pat, resp, err = c.api.ProjectAccessTokens.RotateProjectAccessToken(t.OwnerID, t.ID,
			&gl.RotateProjectAccessTokenOptions{ExpiresAt: expiry}, gl.WithContext(ctx))
		if err == nil {
			secret = pat.Token
		}
	case token.ScopeGroup:
		var gat *gl.GroupAccessToken
		gat, resp, err = c.api.GroupAccessTokens.RotateGroupAccessToken(t.OwnerID, t.ID,
			&gl.RotateGroupAccessTokenOptions{ExpiresAt: expiry}, gl.WithContext(ctx))
		if err == nil {
			secret = gat.Token
		}
	default:
		return "", fmt.Errorf("%s: %w", op, errUnknownScope)
	}

	if err != nil {
		return "", wrapErr(op, resp, err)
	}
	return secret, nil
}

// Delete revokes t.
func (c *Client) Delete(ctx context.Context, t *token.Token) error {
	op := fmt.Sprintf("revoke %s token %d", t.Scope, t.ID)

	var (
		resp *gl.Response
		err  error
	)

	switch t.Scope {
	case token.ScopePersonal:
		resp, err = c.api.PersonalAccessTokens.RevokePersonalAccessToken(t.ID, gl.WithContext(ctx))
	case token.ScopeProject:
		resp, err = c.api.ProjectAccessTokens.RevokeProjectAccessToken(t.OwnerID, t.ID, gl.WithContext(ctx))
	case token.ScopeGroup:
		resp, err = c.api.GroupAccessTokens.RevokeGroupAccessToken(t.OwnerID, t.ID, gl.WithContext(ctx))
	default:
		return fmt.Errorf("%s: %w", op, errUnknownScope)
	}

	if err != nil {
		return wrapErr(op, resp, err)
	}
	return nil
}
