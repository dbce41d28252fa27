// Package docgen renders human-readable documentation for the format
// registry: a markdown index grouped by capability, one page per format,
// and a terminal table for CLI display.
package docgen

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"prism/internal/format"
)

var modeSections = []struct {
	mode  rune
	title string
}{
	{format.ModeSingleImage, "Single images"},
	{format.ModeMultiImage, "Multiple images"},
	{format.ModeSingleVolume, "Single volumes"},
	{format.ModeMultiVolume, "Multiple volumes"},
	{0, "Unsorted"},
}

// FormatsPage renders the markdown index of every registered format,
// grouped into sections by the modes each format supports. A format
// appears in every section whose mode it declares; formats with no
// recognized mode land in the trailing Unsorted section.
func FormatsPage(reg *format.Registry) string {
	var b strings.Builder
	b.WriteString("# Supported formats\n\n")
	b.WriteString("This page lists all formats currently supported:\n")

	formats := reg.Formats()
	covered := make(map[string]bool, len(formats))
	for _, section := range modeSections {
		var lines []string
		for _, f := range formats {
			listed := false
			if section.mode == 0 {
				listed = !covered[f.Name]
			} else {
				listed = f.HasMode(section.mode)
			}
			if !listed {
				continue
			}
			covered[f.Name] = true
			lines = append(lines, fmt.Sprintf("* [%s](%s) - %s", f.Name, pageName(f), f.Description))
		}
		if len(lines) == 0 {
			continue
		}
		b.WriteString("\n## " + section.title + "\n\n")
		b.WriteString(strings.Join(lines, "\n"))
		b.WriteString("\n")
	}
	return b.String()
}

// FormatPage renders the standalone page for a single format.
func FormatPage(f *format.Format) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s %s\n\n", f.Name, f.Description)

	ext := "None"
	if len(f.Extensions) > 0 {
		quoted := make([]string, len(f.Extensions))
		for i, e := range f.Extensions {
			quoted[i] = "`" + e + "`"
		}
		ext = strings.Join(quoted, ", ")
	}
	fmt.Fprintf(&b, "Extensions: %s\n\n", ext)
	fmt.Fprintf(&b, "Modes: %s\n", modeList(f))

	if doc := strings.TrimSpace(f.Doc); doc != "" {
		b.WriteString("\n" + doc + "\n")
	}
	return b.String()
}

func modeList(f *format.Format) string {
	var names []string
	for _, section := range modeSections[:4] {
		if f.HasMode(section.mode) {
			names = append(names, strings.ToLower(section.title))
		}
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ", ")
}

// FormatsTable renders the registry as a rounded terminal table.
func FormatsTable(reg *format.Registry) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Name", "Description", "Extensions", "Modes"})

	for _, f := range reg.Formats() {
		tw.AppendRow(table.Row{
			f.Name,
			f.Description,
			strings.Join(f.Extensions, " "),
			f.Modes,
		})
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft, AlignHeader: text.AlignLeft},
		{Number: 2, Align: text.AlignLeft, AlignHeader: text.AlignLeft},
		{Number: 3, Align: text.AlignLeft, AlignHeader: text.AlignLeft},
		{Number: 4, Align: text.AlignLeft, AlignHeader: text.AlignLeft},
	})
	return tw.Render()
}

// Generate writes the full documentation set under dir: the formats.md
// index plus one format_<name>.md page per format. Stale per-format
// pages from earlier runs are removed first so renamed or dropped
// formats do not leave orphans behind.
func Generate(reg *format.Registry, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create docs dir: %w", err)
	}
	if err := removeStalePages(dir); err != nil {
		return err
	}

	if err := writePage(dir, "formats.md", FormatsPage(reg)); err != nil {
		return err
	}
	for _, f := range reg.Formats() {
		if err := writePage(dir, pageName(f), FormatPage(f)); err != nil {
			return err
		}
	}
	return nil
}

func pageName(f *format.Format) string {
	return "format_" + strings.ToLower(f.Name) + ".md"
}

func removeStalePages(dir string) error {
	stale, err := filepath.Glob(filepath.Join(dir, "format_*.md"))
	if err != nil {
		return err
	}
	for _, path := range stale {
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("remove stale page: %w", err)
		}
	}
	return nil
}

func writePage(dir, name, content string) error {
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}
