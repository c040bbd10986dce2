package rotator

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/rickgorman/token-rotator/internal/token"
	"github.com/rickgorman/token-rotator/internal/ui"
	"github.com/rickgorman/token-rotator/pkg/hash"
)

// SecretStore saves the session credential.
type SecretStore interface {
	Set(instance, secret string) error
}

// Renew rotates the session's own token when it is at least as old as the
// freshness window and saves the new secret under the instance key. It never
// prompts and does not contribute to Result.Changed. A nil own token is left
// alone.
func (r *Rotator) Renew(ctx context.Context, own *token.Token, store SecretStore) (bool, error) {
	if !r.policy.SelfRenewalDue(own, r.now()) {
		return false, nil
	}

	ui.BlankLine()
	ui.Info("Auto-renewing my own access token '%s'...", own.Name)

	secret, err := r.client.Rotate(ctx, own, r.expiry)
	if err != nil {
		return false, fmt.Errorf("renew own token: %w", err)
	}

	if err := store.Set(r.instance, secret); err != nil {
		// The old token is already revoked; losing this one means onboarding again.
		ui.Fail("Couldn't save the renewed token to your keychain. Store it yourself before it's gone:")
		ui.Secret(secret)
		return true, fmt.Errorf("save renewed token: %w", err)
	}

	r.log.Info("own token renewed",
		zap.Int("token_id", own.ID),
		zap.String("fingerprint", hash.Fingerprint(secret)),
		zap.Time("expires_at", r.expiry))
	ui.Success("Renewed and saved to your keychain.")
	return true, nil
}
