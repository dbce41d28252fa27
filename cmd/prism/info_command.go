package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"prism/internal/codec"
	"prism/internal/metadata"
)

func newInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "info FILE",
		Short:       "Show image geometry and metadata",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			f, err := codec.Default().SearchRead(path, 0)
			if err != nil {
				return err
			}

			reader, err := f.NewReader(path)
			if err != nil {
				return fmt.Errorf("open %s: %w", path, err)
			}
			defer reader.Close()

			im, err := reader.Read(0)
			if err != nil {
				return fmt.Errorf("decode %s: %w", path, err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Format: %s (%s)\n", f.Name, f.Description)
			fmt.Fprintf(out, "Shape: %v\n", im.Shape())
			if n := reader.Len(); n > 1 {
				fmt.Fprintf(out, "Frames: %d\n", n)
			}
			fmt.Fprintln(out, renderTable([]string{"Key", "Value"}, metaRows(im.Meta(), "")))
			return nil
		},
	}
}

// metaRows flattens a metadata dict into table rows, joining nested keys
// with dots.
func metaRows(meta *metadata.Dict, prefix string) [][]string {
	var rows [][]string
	for _, key := range meta.Keys() {
		value, _ := meta.Get(key)
		name := key
		if prefix != "" {
			name = prefix + "." + key
		}
		if nested, ok := value.(*metadata.Dict); ok {
			rows = append(rows, metaRows(nested, name)...)
			continue
		}
		rows = append(rows, []string{name, fmt.Sprint(value)})
	}
	return rows
}
