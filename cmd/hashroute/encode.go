package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vango-dev/hashroute/internal/errors"
	"github.com/vango-dev/hashroute/pkg/hashpath"
)

func encodeCmd(flags *globalFlags) *cobra.Command {
	var (
		joined   string
		opts     []string
		withRoot bool
	)

	cmd := &cobra.Command{
		Use:   "encode [segments...]",
		Short: "Encode a path and options into a location string",
		Long: `Encode path segments and options and print the location string.

Each argument is one path segment and is escaped as a whole. Use
--joined to pass an already-joined path instead. Repeating -o with
the same key produces a list value.

Examples:
  hashroute encode päth süb
  hashroute encode a -o x=1 -o k=1 -o k=2
  hashroute encode --joined path --root cockpit --with-root`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("joined") && len(args) > 0 {
				return errors.New("E300").
					WithDetail("Segments and --joined cannot be used together.").
					WithSuggestion("Pass either segments or --joined")
			}

			options, err := parseOptions(opts)
			if err != nil {
				return err
			}

			cfg, err := loadConfig(cmd, flags)
			if err != nil {
				return err
			}

			var target hashpath.Target = hashpath.Path(args)
			if cmd.Flags().Changed("joined") {
				target = hashpath.Joined(joined)
			}

			fmt.Fprintln(cmd.OutOrStdout(), codecFor(cfg).Encode(target, options, withRoot))
			return nil
		},
	}

	cmd.Flags().StringVarP(&joined, "joined", "j", "", "Already-joined path, e.g. /a/b")
	cmd.Flags().StringArrayVarP(&opts, "option", "o", nil, "Option as key=value (repeatable)")
	cmd.Flags().BoolVar(&withRoot, "with-root", false, "Prefix the URL root")

	return cmd
}

// parseOptions turns key=value flags into Options, in flag order.
func parseOptions(opts []string) (hashpath.Options, error) {
	var options hashpath.Options
	for _, opt := range opts {
		key, value, ok := strings.Cut(opt, "=")
		if !ok {
			return hashpath.Options{}, errors.New("E300").
				WithDetailf("Option %q is not of the form key=value.", opt).
				WithSuggestion("Use -o key=value, or -o key= for an empty value")
		}
		options.Add(key, value)
	}
	return options, nil
}
