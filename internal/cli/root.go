package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/rickgorman/token-rotator/internal/config"
)

// RunFunc runs the application with a loaded configuration.
type RunFunc func(ctx context.Context, cfg *config.Config) error

// NewRootCommand returns the token-rotator command. Errors are returned to
// the caller unprinted.
func NewRootCommand(version string, run RunFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token-rotator",
		Short: "Audit and rotate expiring GitLab access tokens",
		Long: `Walks every personal, project and group access token you can manage on a
GitLab instance and asks what to do with each one that is due: rotate it,
delete it, or leave it alone this time.

The token this tool authenticates with is kept in your system keychain and
renewed automatically once it gets old.`,
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}

	config.RegisterFlags(cmd.Flags())
	cmd.SetVersionTemplate("token-rotator {{.Version}}\n")
	return cmd
}
