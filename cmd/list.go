package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func init() {
	RootCmd.AddCommand(NewListCommand())
}

func NewListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Lists the available demo scripts.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "KEY\tTITLE\tSTEPS\tDURATION")
			for _, sc := range root.catalog.Scripts() {
				fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", sc.Key, sc.Title, len(sc.Steps), sc.TotalDelay())
			}
			return w.Flush()
		},
	}
}
