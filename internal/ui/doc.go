// Package ui provides terminal input and output for token-rotator.
//
// This package handles all operator-facing text with consistent styling:
//   - Colored output (cyan, green, red, yellow)
//   - Headers, footers and dividers with box-drawing characters
//   - Info, success, failure, and warning messages
//   - Dimmed text for secondary information
//   - Line input through a Prompter (liner on a terminal, buffered otherwise)
//
// All output goes to ui.Out (defaults to os.Stderr) to allow
// testing and output redirection. Secrets printed with Secret are the only
// text intended for copying, everything else is decoration.
//
// Example usage:
//
//	ui.Header()
//	ui.Info("Looking up tokens for %s...", user)
//	ui.Success("Logged in as %s!", user)
//	ui.Footer()
//
//	p := ui.NewTerminalPrompter()
//	defer p.Close()
//	answer, err := p.Ask(ctx, "(r)otate, (d)elete, or (i)gnore?")
//	if ui.Choice(answer) == 'r' {
//	    ...
//	}
//
// Output styling:
//   - Info:    → Cyan arrow
//   - Success: ✔ Green checkmark
//   - Fail:    ✘ Red X
//   - Warn:    ○ Yellow circle
package ui
