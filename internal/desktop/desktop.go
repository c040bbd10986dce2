// Package desktop reaches out of the terminal to the operator's desktop:
// the system clipboard and the default web browser.
package desktop

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/pkg/browser"
)

// ErrClipboardUnavailable is returned when no clipboard utility is installed
// (for example xclip or wl-clipboard on Linux).
var ErrClipboardUnavailable = errors.New("clipboard unavailable")

// Swapped out in tests.
var (
	openURL        = browser.OpenURL
	writeClipboard = clipboard.WriteAll
	readClipboard  = clipboard.ReadAll
	clipboardOK    = func() bool { return !clipboard.Unsupported }
)

func init() {
	// xdg-open and friends write chatter to the terminal otherwise.
	browser.Stdout = io.Discard
	browser.Stderr = io.Discard
}

// Desktop implements the clipboard and browser parts of the operator surface.
type Desktop struct{}

// New returns a Desktop.
func New() *Desktop {
	return &Desktop{}
}

// OpenURL opens url in the default browser.
func (d *Desktop) OpenURL(url string) error {
	if err := openURL(url); err != nil {
		return fmt.Errorf("open %s: %w", url, err)
	}
	return nil
}

// Copy places text on the system clipboard.
func (d *Desktop) Copy(text string) error {
	if !clipboardOK() {
		return ErrClipboardUnavailable
	}
	if err := writeClipboard(text); err != nil {
		return fmt.Errorf("copy to clipboard: %w", err)
	}
	return nil
}

// Paste returns the clipboard contents with surrounding whitespace removed.
func (d *Desktop) Paste() (string, error) {
	if !clipboardOK() {
		return "", ErrClipboardUnavailable
	}
	text, err := readClipboard()
	if err != nil {
		return "", fmt.Errorf("read clipboard: %w", err)
	}
	return strings.TrimSpace(text), nil
}
