package report

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"

	"humblesync/internal/humblecli"
	"humblesync/internal/tracker"
)

const (
	ansiReset = "\x1b[0m"
	ansiGreen = "\x1b[32m"
	ansiBlue  = "\x1b[34m"
)

// Renderer writes completion reports to a single destination. Color is
// enabled only when the destination is a terminal.
type Renderer struct {
	w        io.Writer
	colorize bool
}

// NewRenderer builds a renderer for the given writer.
func NewRenderer(w io.Writer) *Renderer {
	return &Renderer{w: w, colorize: shouldColorize(w)}
}

// NewPlainRenderer builds a renderer with color forced off.
func NewPlainRenderer(w io.Writer) *Renderer {
	return &Renderer{w: w}
}

// column describes one table column. Numeric columns are right-aligned so
// counts and sizes line up by magnitude.
type column struct {
	title   string
	numeric bool
}

func renderTable(columns []column, rows [][]string) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, len(columns))
	configs := make([]table.ColumnConfig, len(columns))
	for i, col := range columns {
		header[i] = col.title
		align := text.AlignLeft
		if col.numeric {
			align = text.AlignRight
		}
		configs[i] = table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		}
	}
	tw.AppendHeader(header)
	tw.SetColumnConfigs(configs)

	for _, cells := range rows {
		row := make(table.Row, len(columns))
		for i := range columns {
			if i < len(cells) {
				row[i] = cells[i]
			}
		}
		tw.AppendRow(row)
	}
	return tw.Render()
}

// Bundles renders the purchased library as a key/name table.
func (r *Renderer) Bundles(bundles []humblecli.Bundle) {
	r.header("Purchased Bundles")

	if len(bundles) == 0 {
		fmt.Fprintln(r.w, "  No bundles in the library.")
		return
	}

	rows := make([][]string, 0, len(bundles))
	for _, bundle := range bundles {
		rows = append(rows, []string{bundle.Key, bundle.Name})
	}
	fmt.Fprintln(r.w, renderTable(
		[]column{{title: "Key"}, {title: "Name"}},
		rows,
	))
}

// Summary renders the tracked-bundle overview: one row per bundle plus a
// grand total of completed files.
func (r *Renderer) Summary(bundles []tracker.BundleStats, totalDownloaded int) {
	r.header("Download Status")

	if len(bundles) == 0 {
		fmt.Fprintln(r.w, "  No downloads tracked yet.")
		return
	}

	rows := make([][]string, 0, len(bundles))
	for _, stats := range bundles {
		rows = append(rows, []string{
			stats.BundleKey,
			strconv.Itoa(stats.Downloaded),
			formatTotal(stats),
			formatRemaining(stats),
		})
	}
	fmt.Fprintln(r.w, renderTable(
		[]column{
			{title: "Bundle"},
			{title: "Downloaded", numeric: true},
			{title: "Total", numeric: true},
			{title: "Remaining", numeric: true},
		},
		rows,
	))
	fmt.Fprintf(r.w, "\n  %d file(s) downloaded across %d bundle(s)\n", totalDownloaded, len(bundles))
}

// BundleStatus renders one bundle's progress and its downloaded files.
func (r *Renderer) BundleStatus(bundleName string, stats tracker.BundleStats, files []tracker.Record) {
	title := bundleName
	if title == "" {
		title = stats.BundleKey
	}
	r.header(title)

	progress := fmt.Sprintf("  Downloaded: %d / %s", stats.Downloaded, formatTotal(stats))
	if stats.HasTotal && stats.Downloaded >= stats.Total && stats.Total > 0 {
		progress += " (complete)"
		if r.colorize {
			progress = ansiGreen + progress + ansiReset
		}
	}
	fmt.Fprintln(r.w, progress)

	if len(files) == 0 {
		return
	}

	rows := make([][]string, 0, len(files))
	for _, file := range files {
		when := ""
		if !file.DownloadedAt.IsZero() {
			when = file.DownloadedAt.Local().Format("2006-01-02 15:04")
		}
		rows = append(rows, []string{file.Filename, file.FileSize, when})
	}
	fmt.Fprintln(r.w, renderTable(
		[]column{
			{title: "File"},
			{title: "Size", numeric: true},
			{title: "Downloaded"},
		},
		rows,
	))
}

func (r *Renderer) header(title string) {
	line := fmt.Sprintf("== %s ==", strings.TrimSpace(title))
	rule := strings.Repeat("-", len(line))
	if r.colorize {
		line = ansiBlue + line + ansiReset
		rule = ansiBlue + rule + ansiReset
	}
	fmt.Fprintln(r.w, line)
	fmt.Fprintln(r.w, rule)
}

func formatTotal(stats tracker.BundleStats) string {
	if !stats.HasTotal {
		return "?"
	}
	return strconv.Itoa(stats.Total)
}

func formatRemaining(stats tracker.BundleStats) string {
	if !stats.HasTotal {
		return "?"
	}
	return strconv.Itoa(stats.Remaining())
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
