package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vango-dev/hashroute/internal/errors"
)

func explainCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "explain [code]",
		Short: "Describe hashroute error codes",
		Long: `Without arguments, list every error code with its message.
With a code, print the full description of that error.

Examples:
  hashroute explain
  hashroute explain E200`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if len(args) == 0 {
				for _, code := range errors.GetAllCodes() {
					tmpl, _ := errors.GetTemplate(code)
					fmt.Fprintf(out, "%s  %-8s  %s\n", code, tmpl.Category, tmpl.Message)
				}
				return nil
			}

			code := strings.ToUpper(args[0])
			tmpl, ok := errors.GetTemplate(code)
			if !ok {
				return errors.New("E300").
					WithDetailf("Unknown error code %q.", args[0]).
					WithSuggestion("Run 'hashroute explain' to list all codes.")
			}

			fmt.Fprintf(out, "%s: %s\n", code, tmpl.Message)
			fmt.Fprintf(out, "Category: %s\n", tmpl.Category)
			if tmpl.Detail != "" {
				fmt.Fprintf(out, "\n%s\n", tmpl.Detail)
			}
			return nil
		},
	}
}
