package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"deporder/internal/cache"
	"deporder/internal/config"
	"deporder/internal/engine"
	"deporder/internal/errors"
	"deporder/internal/order"
	"deporder/internal/version"
)

// OutputFormat represents the output format type
type OutputFormat string

const (
	FormatHuman OutputFormat = "human"
	FormatJSON  OutputFormat = "json"
	FormatYAML  OutputFormat = "yaml"
	FormatTOML  OutputFormat = "toml"
)

// ParseOutputFormat validates a --format value.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(s)); f {
	case FormatHuman, FormatJSON, FormatYAML, FormatTOML:
		return f, nil
	case "":
		return FormatHuman, nil
	}
	return "", errors.New(errors.ConfigInvalid, fmt.Sprintf("unsupported format: %s", s))
}

var (
	styleHeader  = lipgloss.NewStyle().Bold(true)
	styleChanged = lipgloss.NewStyle().Foreground(lipgloss.Color("#E5C07B"))
	styleOK      = lipgloss.NewStyle().Foreground(lipgloss.Color("#98C379"))
	styleError   = lipgloss.NewStyle().Foreground(lipgloss.Color("#E06C75"))
	styleDim     = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
)

// Write encodes v to w in the given format.
func Write(w io.Writer, v any, format OutputFormat) error {
	var out string
	var err error
	switch format {
	case FormatJSON:
		out, err = formatJSON(v)
	case FormatYAML:
		out, err = formatYAML(v)
	case FormatTOML:
		out, err = formatTOML(v)
	case FormatHuman:
		out, err = formatHuman(v)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}

func formatJSON(v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return string(data) + "\n", nil
}

func formatYAML(v any) (string, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return "", fmt.Errorf("failed to marshal YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func formatTOML(v any) (string, error) {
	data, err := toml.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to marshal TOML: %w", err)
	}
	return string(data), nil
}

// formatHuman renders the known result types for a terminal and falls back to JSON.
func formatHuman(v any) (string, error) {
	switch r := v.(type) {
	case *engine.Report:
		return formatReportHuman(r), nil
	case *engine.FileResult:
		return formatDepsHuman(r), nil
	case *cache.Stats:
		return formatStatsHuman(r), nil
	case *config.Config:
		data, err := r.EncodeTOML()
		return string(data), err
	case version.BuildInfo:
		return formatVersionHuman(r), nil
	default:
		return formatJSON(v)
	}
}

func formatReportHuman(r *engine.Report) string {
	var b strings.Builder

	for _, f := range r.Files {
		switch {
		case f.Err != nil && f.Skipped:
			fmt.Fprintf(&b, "%s %s %s\n", styleDim.Render("skipped"), f.Path, styleDim.Render(f.Error))
		case f.Err != nil:
			fmt.Fprintf(&b, "%s %s\n", styleError.Render("error  "), f.Error)
		case f.Changed:
			verb := "would reorder"
			if r.Mode == engine.ModeWrite.String() {
				verb = "reordered"
			}
			fmt.Fprintf(&b, "%s %s\n", styleChanged.Render(verb), f.Path)
			for _, d := range f.Moved() {
				fmt.Fprintf(&b, "    line %d %s: %s\n", d.Line, d.Kind, styleDim.Render(strings.Join(d.After, ", ")))
			}
		}
	}

	summary := fmt.Sprintf("%d files, %d %s, %d unchanged", r.Total, r.Changed, changedWord(r.Mode), r.Unchanged)
	if r.Cached > 0 {
		summary += fmt.Sprintf(" (%d cached)", r.Cached)
	}
	if r.Skipped > 0 {
		summary += fmt.Sprintf(", %d skipped", r.Skipped)
	}
	if r.Failed > 0 {
		summary += fmt.Sprintf(", %d failed", r.Failed)
	}
	style := styleOK
	switch {
	case r.Failed > 0:
		style = styleError
	case r.Changed > 0:
		style = styleChanged
	}
	fmt.Fprintf(&b, "%s %s\n", style.Render(summary), styleDim.Render("in "+r.Duration.Round(time.Millisecond).String()))
	return b.String()
}

func changedWord(mode string) string {
	if mode == engine.ModeWrite.String() {
		return "reordered"
	}
	return "out of order"
}

func formatDepsHuman(r *engine.FileResult) string {
	var b strings.Builder
	b.WriteString(styleHeader.Render(r.Path) + "\n")
	if len(r.Declarations) == 0 {
		b.WriteString(styleDim.Render("  no declarations") + "\n")
		return b.String()
	}

	for _, d := range r.Declarations {
		status := styleOK.Render("in order")
		if d.Moved {
			status = styleChanged.Render("reordered")
		}
		fmt.Fprintf(&b, "\n  line %d %s  %s\n", d.Line, d.Kind, status)
		fmt.Fprintf(&b, "    before: %s\n", strings.Join(d.Before, ", "))
		if d.Moved {
			fmt.Fprintf(&b, "    after:  %s\n", strings.Join(d.After, ", "))
		}
		writeDeps(&b, d.Deps)
	}
	return b.String()
}

func writeDeps(b *strings.Builder, deps order.Deps) {
	names := make([]string, 0, len(deps))
	for name := range deps {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(b, "    %s %s %s\n", name, styleDim.Render("->"), strings.Join(deps[name], ", "))
	}
}

func formatStatsHuman(s *cache.Stats) string {
	var b strings.Builder
	b.WriteString(styleHeader.Render("Checksum cache") + "\n")
	fmt.Fprintf(&b, "  Path:    %s\n", s.Path)
	fmt.Fprintf(&b, "  Entries: %d\n", s.Entries)
	fmt.Fprintf(&b, "  Size:    %s\n", humanBytes(s.SizeBytes))
	if s.Entries > 0 {
		fmt.Fprintf(&b, "  Oldest:  %s\n", s.Oldest.Local().Format(time.RFC3339))
		fmt.Fprintf(&b, "  Newest:  %s\n", s.Newest.Local().Format(time.RFC3339))
	}
	return b.String()
}

func formatVersionHuman(v version.BuildInfo) string {
	parser := "tree-sitter"
	if !v.Parser {
		parser = "unavailable (built without cgo)"
	}
	return fmt.Sprintf("deporder version %s\nCommit: %s\nBuilt: %s\nGo: %s\nParser: %s\n",
		v.Version, v.Commit, v.BuildDate, v.GoVersion, parser)
}

func humanBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGTPE"[exp])
}
