package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/vango-dev/hashroute/pkg/hashpath"
)

// decodeResult is the JSON printed by the decode command.
type decodeResult struct {
	Path    hashpath.Path    `json:"path"`
	Options hashpath.Options `json:"options"`
}

func decodeCmd(flags *globalFlags) *cobra.Command {
	var base string

	cmd := &cobra.Command{
		Use:   "decode <href>",
		Short: "Decode a location string into a path and options",
		Long: `Decode a location string and print its path and options as JSON.

Relative hrefs resolve against --base, itself a location string.

Examples:
  hashroute decode '#/host/path/sub?a=1&b=2'
  hashroute decode 'relative/../sub' --base '#/top'
  hashroute decode /cockpit/path --root cockpit`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, flags)
			if err != nil {
				return err
			}
			codec := codecFor(cfg)

			var basePath hashpath.Path
			if base != "" {
				basePath = codec.Decode(base, nil, nil)
			}

			var options hashpath.Options
			path := codec.Decode(args[0], basePath, &options)

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(decodeResult{Path: path, Options: options})
		},
	}

	cmd.Flags().StringVarP(&base, "base", "b", "", "Location that relative hrefs resolve against")

	return cmd
}
