package gitlab

import (
	"time"

	gl "gitlab.com/gitlab-org/api/client-go"

	"github.com/rickgorman/token-rotator/internal/platform"
	"github.com/rickgorman/token-rotator/internal/token"
)

func fromPersonal(p *gl.PersonalAccessToken) *token.Token {
	return &token.Token{
		ID:         p.ID,
		Name:       p.Name,
		Scope:      token.ScopePersonal,
		CreatedAt:  timeOrZero(p.CreatedAt),
		ExpiresAt:  isoDate(p.ExpiresAt),
		Revoked:    p.Revoked,
		LastUsedAt: utc(p.LastUsedAt),
		Scopes:     p.Scopes,
	}
}

func fromProject(projectID int, p *gl.ProjectAccessToken) *token.Token {
	return &token.Token{
		ID:         p.ID,
		Name:       p.Name,
		Scope:      token.ScopeProject,
		OwnerID:    projectID,
		CreatedAt:  timeOrZero(p.CreatedAt),
		ExpiresAt:  isoDate(p.ExpiresAt),
		Revoked:    p.Revoked,
		LastUsedAt: utc(p.LastUsedAt),
		Scopes:     p.Scopes,
	}
}

func fromGroup(groupID int, g *gl.GroupAccessToken) *token.Token {
	return &token.Token{
		ID:         g.ID,
		Name:       g.Name,
		Scope:      token.ScopeGroup,
		OwnerID:    groupID,
		CreatedAt:  timeOrZero(g.CreatedAt),
		ExpiresAt:  isoDate(g.ExpiresAt),
		Revoked:    g.Revoked,
		LastUsedAt: utc(g.LastUsedAt),
		Scopes:     g.Scopes,
	}
}

func fromProjects(projects []*gl.Project) []platform.Project {
	out := make([]platform.Project, 0, len(projects))
	for _, p := range projects {
		out = append(out, platform.Project{
			ID:                p.ID,
			Name:              p.Name,
			PathWithNamespace: p.PathWithNamespace,
		})
	}
	return out
}

func isoDate(d *gl.ISOTime) *time.Time {
	if d == nil {
		return nil
	}
	t := dateOnly(time.Time(*d))
	return &t
}

func dateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func timeOrZero(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return t.UTC()
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
