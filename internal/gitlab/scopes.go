package gitlab

import (
	"fmt"
	"strings"
)

// RequiredScopes lists the token scopes the rotator needs to list, rotate and
// revoke tokens across every scope.
var RequiredScopes = []string{
	"api",
}

// MissingScopes returns the required scopes absent from granted.
// Scope names are compared case-insensitively.
func MissingScopes(granted []string) []string {
	have := make(map[string]bool, len(granted))
	for _, s := range granted {
		have[strings.ToLower(strings.TrimSpace(s))] = true
	}

	var missing []string
	for _, s := range RequiredScopes {
		if !have[s] {
			missing = append(missing, s)
		}
	}
	return missing
}

// TokenSettingsURL returns the page where personal access tokens are created.
func TokenSettingsURL(instance string) string {
	return strings.TrimRight(instance, "/") + "/-/user_settings/personal_access_tokens"
}

// FormatMissingScopesWarning formats a warning for a session token that lacks
// required scopes.
func FormatMissingScopesWarning(missing []string, instance string) string {
	return fmt.Sprintf("Your access token is missing the %s scope(s).\nListing or rotating some tokens will fail.\nCreate a token with the 'api' box checked at:\n  %s",
		strings.Join(missing, ", "), TokenSettingsURL(instance))
}
