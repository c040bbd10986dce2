// Package hash derives short, stable, non-reversible identifiers for
// secrets.
//
// Access tokens must never reach the terminal after the moment they are
// issued, nor the diagnostic log at all. When a token has to be referred
// to (an authentication failure, a log line about the stored credential)
// its fingerprint is shown instead:
//
//	hash.Fingerprint("glpat-...")  // "9f86d081"
//	hash.Mask("glpat-...")         // "glpat-**** (9f86d081)"
//
// The fingerprint is the first 8 characters of hex SHA-256, enough to tell
// two tokens apart when comparing against the platform's token list while
// revealing nothing useful about the secret.
package hash
