package main

import (
	"github.com/spf13/cobra"

	"github.com/vango-dev/hashroute/internal/config"
	"github.com/vango-dev/hashroute/internal/errors"
)

func initCmd(flags *globalFlags) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a hashroute.json with default settings",
		Long: `Write hashroute.json into the config directory.

An existing file is kept unless --force is given, in which case it is
rewritten with its current values and any --root override.

Examples:
  hashroute init
  hashroute init --root cockpit
  hashroute init -c ./deploy --force`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if config.Exists(flags.configDir) && !force {
				return errors.New("E300").
					WithDetailf("%s already exists in %s.", config.ConfigFileName, flags.configDir).
					WithSuggestion("Use --force to rewrite it.")
			}

			cfg, err := loadConfig(cmd, flags)
			if err != nil {
				return err
			}
			if err := cfg.Save(); err != nil {
				return err
			}

			success(cmd, "Wrote %s", cfg.Path())
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Rewrite an existing hashroute.json")

	return cmd
}
