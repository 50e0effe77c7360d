package cmd

import (
	"github.com/spf13/cobra"
)

// links subcommand
var links = &cobra.Command{
	Use:   "links NAMESPACE",
	Short: "List the interfaces of a namespace",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		l, err := client.ListLinks(args[0])
		if err != nil {
			return err
		}
		return printJSON(l)
	},
}

func init() {
	root.AddCommand(links)
}
