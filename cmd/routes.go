package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// newRoutesCmd creates the 'routes' subcommand
func newRoutesCmd(provider Provider) *cobra.Command {
	var outputJSON bool

	routesCmd := &cobra.Command{
		Use:   "routes",
		Short: "List the HTTP routes of the application",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			server, err := provider.Application()
			if err != nil {
				return err
			}
			defer server.Close()

			routes, err := server.Routes()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if outputJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(routes)
			}

			headerColor.Fprintf(out, "%-12s %s\n", "METHODS", "PATH")
			for _, r := range routes {
				methodColor.Fprintf(out, "%-12s", strings.Join(r.Methods, ","))
				fmt.Fprintf(out, " %s\n", r.Path)
			}
			return nil
		},
	}
	routesCmd.Flags().BoolVar(&outputJSON, "json", false, "Output in JSON format")

	return routesCmd
}
