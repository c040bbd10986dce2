package rotator

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/rickgorman/token-rotator/internal/platform"
	"github.com/rickgorman/token-rotator/internal/token"
	"github.com/rickgorman/token-rotator/internal/ui"
)

// Personal resolves the user's own personal access tokens. Each token is
// checked against the policy right before it is shown.
func (r *Rotator) Personal(ctx context.Context) (Result, error) {
	var res Result

	tokens, err := r.client.PersonalTokens(ctx, r.user.ID)
	if err != nil {
		return res, fmt.Errorf("list personal tokens: %w", err)
	}
	r.log.Debug("personal tokens", zap.Int("count", len(tokens)))

	for _, t := range tokens {
		if !r.isDue(t) {
			continue
		}
		if err := r.resolveInto(ctx, t, &res); err != nil {
			return res, err
		}
	}
	return res, nil
}

// Projects resolves the access tokens of every project the user owns.
// Projects without tokens are skipped silently, projects whose tokens are all
// fresh get a one-line notice.
func (r *Rotator) Projects(ctx context.Context) (Result, error) {
	var res Result

	projects, err := r.client.OwnedProjects(ctx, r.user.ID)
	if err != nil {
		return res, fmt.Errorf("list owned projects: %w", err)
	}
	r.log.Debug("owned projects", zap.Int("count", len(projects)))

	for _, p := range projects {
		tokens, err := r.client.ProjectTokens(ctx, p.ID)
		if err != nil {
			return res, fmt.Errorf("list tokens of project %s: %w", p.Name, err)
		}
		if len(tokens) == 0 {
			continue
		}

		due := r.filter(tokens)
		if len(due) == 0 {
			ui.DimMsg("Looks like %s's tokens are all fresh within %d days.", ui.Bold(p.Name), r.policy.FreshnessDays)
			continue
		}

		ui.BlankLine()
		ui.Info("Project: %s", ui.Bold(p.Name))
		if err := r.resolveAll(ctx, due, &res); err != nil {
			return res, err
		}
	}
	return res, nil
}

// projectTokens is a group project with at least one due token.
type projectTokens struct {
	name   string
	tokens []*token.Token
}

// Groups resolves the access tokens of every group the user belongs to and
// of every project inside those groups. A group's tokens are collected in
// full before the operator is asked whether to go through them at all.
func (r *Rotator) Groups(ctx context.Context) (Result, error) {
	var res Result

	ui.Info("Processing all of the projects in each of your groups. This may take a few minutes!")

	memberships, err := r.client.GroupMemberships(ctx, r.user.ID)
	if err != nil {
		return res, fmt.Errorf("list group memberships: %w", err)
	}
	r.log.Debug("group memberships", zap.Int("count", len(memberships)))

	for _, m := range memberships {
		group, err := r.client.Group(ctx, m.ID)
		if err != nil {
			return res, fmt.Errorf("get group %d: %w", m.ID, err)
		}

		due, projects, err := r.collectGroup(ctx, group)
		if err != nil {
			return res, err
		}

		pending := len(due)
		for _, p := range projects {
			pending += len(p.tokens)
		}
		if pending == 0 {
			ui.DimMsg("%s doesn't have any tokens in need of rotation.", ui.Bold(group.Name))
			continue
		}

		ui.BlankLine()
		ui.Info("Found tokens to renew for group %s!", ui.Bold(group.Name))
		answer, err := r.operator.Ask(ctx, "(i)gnore all, or press enter to continue:")
		if err != nil {
			return res, err
		}
		if ParseGate(answer) {
			r.log.Info("group skipped", zap.Int("group_id", group.ID), zap.Int("due", pending))
			res.Skipped += pending
			continue
		}

		if err := r.resolveAll(ctx, due, &res); err != nil {
			return res, err
		}
		for _, p := range projects {
			ui.BlankLine()
			ui.Info("Project: %s", ui.Bold(p.name))
			if err := r.resolveAll(ctx, p.tokens, &res); err != nil {
				return res, err
			}
		}
	}
	return res, nil
}

// collectGroup returns the due tokens of group and, in listing order, of
// each of its projects that has any.
func (r *Rotator) collectGroup(ctx context.Context, group *platform.Group) ([]*token.Token, []projectTokens, error) {
	tokens, err := r.client.GroupTokens(ctx, group.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("list tokens of group %s: %w", group.Name, err)
	}
	due := r.filter(tokens)

	projects, err := r.client.GroupProjects(ctx, group.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("list projects of group %s: %w", group.Name, err)
	}

	var withDue []projectTokens
	for _, p := range projects {
		tokens, err := r.client.ProjectTokens(ctx, p.ID)
		if err != nil {
			return nil, nil, fmt.Errorf("list tokens of project %s: %w", p.Name, err)
		}
		if d := r.filter(tokens); len(d) > 0 {
			withDue = append(withDue, projectTokens{name: p.Name, tokens: d})
		}
	}
	return due, withDue, nil
}

func (r *Rotator) isDue(t *token.Token) bool {
	return !r.decided[t.ID] && r.policy.NeedsRotation(t, r.now())
}

func (r *Rotator) filter(tokens []*token.Token) []*token.Token {
	var due []*token.Token
	for _, t := range tokens {
		if r.isDue(t) {
			due = append(due, t)
		}
	}
	return due
}

func (r *Rotator) resolveAll(ctx context.Context, tokens []*token.Token, res *Result) error {
	for _, t := range tokens {
		if err := r.resolveInto(ctx, t, res); err != nil {
			return err
		}
	}
	return nil
}

func (r *Rotator) resolveInto(ctx context.Context, t *token.Token, res *Result) error {
	out, err := r.Resolve(ctx, t)
	res.record(out)
	if out.Action != ActionNone {
		r.decided[t.ID] = true
	}
	return err
}
