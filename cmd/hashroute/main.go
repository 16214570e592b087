package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/vango-dev/hashroute/internal/config"
	"github.com/vango-dev/hashroute/internal/errors"
	"github.com/vango-dev/hashroute/pkg/hashpath"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// globalFlags holds the persistent flags shared by all commands.
type globalFlags struct {
	configDir string
	root      string
	noColor   bool
}

func main() {
	if err := fang.Execute(context.Background(), newRootCmd(),
		fang.WithVersion(version),
		fang.WithErrorHandler(printError),
	); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "hashroute",
		Short: "Decode, encode and serve hash-based locations",
		Long: `hashroute works with location strings of the form

  #/segment/segment?key=value&key=value

It decodes them into paths and options, encodes paths and options
back into location strings, and serves a WebSocket bridge that keeps
a server-side location in sync with a browser's URL hash.

Settings are read from hashroute.json in the config directory.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if flags.noColor {
				errors.DisableColors()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&flags.configDir, "config", "c", ".", "Directory containing hashroute.json")
	rootCmd.PersistentFlags().StringVar(&flags.root, "root", "", "URL root, overrides urlRoot from hashroute.json")
	rootCmd.PersistentFlags().BoolVar(&flags.noColor, "no-color", false, "Disable colored error output")

	rootCmd.AddCommand(
		decodeCmd(flags),
		encodeCmd(flags),
		serveCmd(flags),
		initCmd(flags),
		explainCmd(),
		versionCmd(),
	)

	return rootCmd
}

// loadConfig reads hashroute.json and applies flag overrides.
func loadConfig(cmd *cobra.Command, flags *globalFlags) (*config.Config, error) {
	cfg, err := config.Load(flags.configDir)
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("root") {
		cfg.URLRoot = flags.root
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// codecFor builds the codec configured by cfg.
func codecFor(cfg *config.Config) *hashpath.Codec {
	return hashpath.New(hashpath.WithRoot(cfg.URLRoot))
}

// printError renders coded errors with their detail and hint.
func printError(w io.Writer, _ fang.Styles, err error) {
	errors.PrintError(w, err)
}

// success prints a success message.
func success(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.ErrOrStderr(), "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}
