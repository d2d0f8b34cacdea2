package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"CommandCore/pkg/intent"
)

func newExpandCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "expand <template>",
		Short: "Print every phrasing an alternation template expands to",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, phrasing := range intent.ExpandTemplate(strings.Join(args, " ")) {
				fmt.Fprintln(cmd.OutOrStdout(), phrasing)
			}
			return nil
		},
	}
}
