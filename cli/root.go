// Package cli is the traveline command line: the console server plus the
// operator commands that share its session.
package cli

import (
	"github.com/jrsteele09/traveline-backoffice/internal/config"
	"github.com/jrsteele09/traveline-backoffice/internal/logging"
	"github.com/spf13/cobra"
)

var BuildVersion = "dev"

type rootOptions struct {
	configPath string
	verbose    bool
	cfg        config.Config
}

func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           "traveline",
		Short:         "Traveline back-office console",
		Long:          "Operator console for the Traveline backend: serve the dashboard or manage resources from the shell.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			opts.cfg = cfg

			// Shell commands stay quiet unless asked; serve logs at the configured level.
			level := "warn"
			switch {
			case opts.verbose:
				level = "debug"
			case cmd.Name() == "serve":
				level = cfg.GetLogLevel()
			}
			logging.Setup(cmd.ErrOrStderr(), cfg.GetEnv(), level)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to a YAML config file. Can also be set via CONFIG_PATH.")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log backend requests to stderr.")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number of the Traveline console",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("%s\n", BuildVersion)
		},
	})
	rootCmd.AddCommand(
		newServeCommand(opts),
		newLoginCommand(opts),
		newLogoutCommand(opts),
		newWhoamiCommand(opts),
		newResourcesCommand(opts),
		newListCommand(opts),
		newGetCommand(opts),
		newDeleteCommand(opts),
		newApproveCommand(opts),
		newRejectCommand(opts),
		newCreateCommand(opts),
		newUpdateCommand(opts),
	)
	return rootCmd
}

func Execute() error {
	return NewRootCommand().Execute()
}
