package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/spigell/gig-matcher/internal/marketplace"
)

var badgesCmd = &cobra.Command{
	Use:   "badges",
	Short: "List the trust badges a worker can hold",
	Run: func(cmd *cobra.Command, _ []string) {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "TAG\tLABEL\tICON\tCOLOR\tDESCRIPTION")
		for _, b := range marketplace.Badges() {
			d, _ := marketplace.BadgeInfo(b)
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", b, d.Label, d.Icon, d.Color, d.Tooltip)
		}
		w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(badgesCmd)
}
