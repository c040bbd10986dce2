package rotator

import (
	"time"

	"github.com/rickgorman/token-rotator/internal/ui"
)

// Summary prints the closing report for res.
func (r *Rotator) Summary(res Result) {
	ui.BlankLine()
	if res.Changed {
		ui.Success("All done! Enjoy your fresh tokens! They will expire on %s, so mark your calendar before then.",
			r.expiry.Format(time.DateOnly))
	} else {
		ui.Success("You don't have any tokens that need rotating!")
		ui.DimMsg("(Tokens created up to %d days ago are considered fresh and not in need of rotation.)",
			r.policy.FreshnessDays)
	}

	if res.Shown() > 0 || res.Skipped > 0 {
		ui.DimMsg("%d rotated, %d deleted, %d ignored, %d skipped", res.Rotated, res.Deleted, res.Ignored, res.Skipped)
	}
}
