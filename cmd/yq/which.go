package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newWhichCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "which",
		Short: "Print the path of the jq program that would be run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := opts.client().Path()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}
