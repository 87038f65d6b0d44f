package display

import (
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/olekukonko/tablewriter"

	"github.com/YuminosukeSato/edakit/pkg/errors"
)

// TableOptions limits what RenderTable prints. Zero values mean no limit.
type TableOptions struct {
	// MaxRows keeps the first and last MaxRows/2 rows with an ellipsis row
	// between them.
	MaxRows int
	// MaxWidth truncates cells to this many runes.
	MaxWidth int
}

// RenderTable writes df as a text table.
func RenderTable(w io.Writer, df dataframe.DataFrame, opts TableOptions) error {
	if df.Err != nil {
		return errors.WithStack(df.Err)
	}
	return RenderRecords(w, df.Records(), opts)
}

// RenderRecords writes a header row followed by data rows as a text table.
func RenderRecords(w io.Writer, records [][]string, opts TableOptions) error {
	if len(records) == 0 {
		return errors.ErrEmptyData
	}
	header, rows := records[0], records[1:]
	total := len(rows)
	if opts.MaxRows > 0 && total > opts.MaxRows {
		head := (opts.MaxRows + 1) / 2
		tail := opts.MaxRows - head
		gap := make([]string, len(header))
		for i := range gap {
			gap[i] = "..."
		}
		trimmed := make([][]string, 0, opts.MaxRows+1)
		trimmed = append(trimmed, rows[:head]...)
		trimmed = append(trimmed, gap)
		trimmed = append(trimmed, rows[total-tail:]...)
		rows = trimmed
	}

	table := tablewriter.NewWriter(w)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeader(truncateRow(header, opts.MaxWidth))
	for _, r := range rows {
		table.Append(truncateRow(r, opts.MaxWidth))
	}
	table.Render()

	if total != len(rows) {
		_, err := fmt.Fprintf(w, "[%d rows x %d columns]\n", total, len(header))
		return errors.WithStack(err)
	}
	return nil
}

func truncateRow(row []string, width int) []string {
	if width <= 0 {
		return row
	}
	out := make([]string, len(row))
	for i, cell := range row {
		r := []rune(cell)
		if len(r) > width {
			cell = string(r[:max(width-1, 0)]) + "…"
		}
		out[i] = cell
	}
	return out
}

// RenderHTML returns df as an HTML table wrapped in a scrollable box of at
// most maxHeight × maxWidth pixels. Non-positive sizes use 300 × 600.
func RenderHTML(df dataframe.DataFrame, maxHeight, maxWidth int) (string, error) {
	if df.Err != nil {
		return "", errors.WithStack(df.Err)
	}
	if maxHeight <= 0 {
		maxHeight = 300
	}
	if maxWidth <= 0 {
		maxWidth = 600
	}
	records := df.Records()

	var b strings.Builder
	fmt.Fprintf(&b, "<style>\n.scrollable_df {\n    max-height: %dpx;\n    max-width: %dpx;\n    overflow: auto;\n    display: inline-block;\n}\n</style>\n", maxHeight, maxWidth)
	b.WriteString("<table class=\"scrollable_df\">\n  <thead>\n    <tr>\n      <th></th>\n")
	for _, h := range records[0] {
		fmt.Fprintf(&b, "      <th>%s</th>\n", html.EscapeString(h))
	}
	b.WriteString("    </tr>\n  </thead>\n  <tbody>\n")
	for i, row := range records[1:] {
		fmt.Fprintf(&b, "    <tr>\n      <th>%d</th>\n", i)
		for _, cell := range row {
			fmt.Fprintf(&b, "      <td>%s</td>\n", html.EscapeString(cell))
		}
		b.WriteString("    </tr>\n")
	}
	b.WriteString("  </tbody>\n</table>\n")
	return b.String(), nil
}
