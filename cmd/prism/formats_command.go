package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"prism/internal/codec"
	"prism/internal/docgen"
)

func newFormatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "formats",
		Short:       "List supported image formats",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), docgen.FormatsTable(codec.Default()))
			return nil
		},
	}
}
