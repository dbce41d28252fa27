package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"prism/internal/codec"
	"prism/internal/config"
	"prism/internal/docgen"
)

func newDocsCommand(ctx *commandContext) *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "docs",
		Short: "Generate markdown documentation for the registered formats",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			target := cfg.Paths.DocsDir
			if strings.TrimSpace(outDir) != "" {
				expanded, err := config.ExpandPath(outDir)
				if err != nil {
					return fmt.Errorf("resolve output directory: %w", err)
				}
				target = expanded
			}

			if err := docgen.Generate(codec.Default(), target); err != nil {
				return fmt.Errorf("generate docs: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote format documentation to %s\n", target)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", "", "Output directory (defaults to paths.docs_dir)")
	return cmd
}
