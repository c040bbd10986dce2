// Package cli defines the token-rotator command line.
//
// The root command owns flag parsing (through the shared definitions in
// package config), --help and --version. Everything after a successful
// configuration load is delegated to the RunFunc handed to NewRootCommand,
// which keeps this package free of side effects and easy to test.
//
// Supported flags include:
//   - -i, --instance: GitLab instance URL (default https://gitlab.com)
//   - -l, --lifetime: days until rotated tokens expire (default 365)
//   - -f, --freshness: tokens younger than this many days are skipped (default 14)
//   - --log-level, --log-format, --log-file: diagnostic log settings
//   - --rate-limit: GitLab API requests per second
//   - --keyring-service: keyring service name for the stored token
//   - --env-file: load environment variables from a file
//
// Example usage:
//
//	cmd := cli.NewRootCommand(version, run)
//	if err := cmd.ExecuteContext(ctx); err != nil {
//	    ui.Fail("%v", err)
//	    os.Exit(1)
//	}
package cli
