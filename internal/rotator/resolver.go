package rotator

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/rickgorman/token-rotator/internal/token"
	"github.com/rickgorman/token-rotator/internal/ui"
)

type state int

const (
	statePrompting state = iota
	stateRotating
	stateConfirmingDelete
	stateDeleting
	stateDone
)

// Resolve shows t's status and asks the operator what to do with it until
// an action completes. Platform failures are returned, never reported as
// ignored. When the operator's input fails after a rotation went through,
// the rotated outcome is returned together with the error.
func (r *Rotator) Resolve(ctx context.Context, t *token.Token) (Outcome, error) {
	r.render(t)

	var out Outcome
	st := statePrompting
	for st != stateDone {
		switch st {
		case statePrompting:
			answer, err := r.operator.Ask(ctx, "(r)otate it, (d)elete it, or (i)gnore this time:")
			if err != nil {
				return Outcome{}, err
			}
			switch ParseCommand(answer) {
			case CommandRotate:
				st = stateRotating
			case CommandDelete:
				st = stateConfirmingDelete
			case CommandIgnore:
				out = Outcome{Action: ActionIgnored}
				st = stateDone
			default:
				ui.Warn("Unrecognized input. Try again? Just type r, d, or i.")
			}

		case stateRotating:
			secret, err := r.client.Rotate(ctx, t, r.expiry)
			if err != nil {
				return Outcome{}, fmt.Errorf("rotate %s token %q: %w", t.Scope, t.Name, err)
			}
			out = Outcome{Action: ActionRotated, Changed: true}

			ui.Success("Here's your new token!")
			ui.Secret(secret)
			if err := r.operator.Copy(secret); err != nil {
				r.log.Debug("clipboard", zap.Error(err))
				ui.Warn("Couldn't copy it to your clipboard, so grab it from above.")
			} else {
				ui.DimMsg("It's been copied to your clipboard.")
			}

			if _, err := r.operator.Ask(ctx, "Save it wherever it's used, then press enter to continue..."); err != nil {
				return out, err
			}
			st = stateDone

		case stateConfirmingDelete:
			answer, err := r.operator.Ask(ctx, fmt.Sprintf("Are you sure you want to delete the token '%s'? (y/n)", t.Name))
			if err != nil {
				return Outcome{}, err
			}
			if ParseConfirm(answer) {
				st = stateDeleting
			} else {
				ui.Info("Never mind then, going back...")
				st = statePrompting
			}

		case stateDeleting:
			if err := r.client.Delete(ctx, t); err != nil {
				return Outcome{}, fmt.Errorf("delete %s token %q: %w", t.Scope, t.Name, err)
			}
			ui.Success("Okay, got rid of that one!")
			// A deletion leaves nothing to distribute.
			out = Outcome{Action: ActionDeleted}
			st = stateDone
		}
	}

	r.log.Info("token resolved",
		zap.Int("token_id", t.ID),
		zap.Stringer("scope", t.Scope),
		zap.Int("owner_id", t.OwnerID),
		zap.Stringer("action", out.Action))
	return out, nil
}

// render prints the status block for t.
func (r *Rotator) render(t *token.Token) {
	st := token.Describe(t, r.now())

	title := ui.Bold(t.Name)
	if st.Expired {
		title += ui.Red(" - EXPIRED")
	}
	if st.NeverUsed {
		title += ui.Yellow(" - NEVER USED")
	}

	ui.BlankLine()
	ui.Plain("%s", title)
	if !st.Expired {
		ui.DimMsg("Expires in %d days.", st.DaysUntilExpiry)
	}
	ui.DimMsg("Created %d days ago.", st.AgeDays)
	if !st.NeverUsed {
		ui.DimMsg("Last used %d days ago.", st.LastUsedDaysAgo)
	}
	ui.BlankLine()
	ui.Plain("What would you like to do with this token?")
}
