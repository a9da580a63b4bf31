package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vanderheijden86/snolabib/pkg/version"
)

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(a.out, "snolabib %s\n", version.String())
			return nil
		},
	}
}
