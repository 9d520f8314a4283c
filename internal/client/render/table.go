// Package render turns untyped backend records into styled terminal tables
// driven by a declarative column specification.
//
// Records stay structural (map[string]any); all defensive field access
// happens here, at the formatting boundary, never at intake.
package render

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/bennieslab/threatwatch/internal/logging"
)

// Record is one backend-supplied row of arbitrary shape.
type Record = map[string]any

// ColumnSpec describes how to render one table column.
//
// Field may legitimately be absent on a record; a missing value is replaced
// by Default before formatting, so formatters never see absence. Width is a
// percentage hint of the table width; columns without a hint share the
// remainder. Severity tags the column for case-insensitive substring
// emphasis ("high" strong, "medium" moderate) — purely presentational.
type ColumnSpec struct {
	Header   string
	Field    string
	Width    int
	Default  string
	Format   func(v any) string
	Severity bool
}

// Table renders sequences of records against a fixed column specification.
// Rendering is idempotent: every call emits one complete, fresh table.
type Table struct {
	columns []ColumnSpec
	width   int
	log     logging.Logger
}

// DefaultWidth is the total character width used when none is set.
const DefaultWidth = 100

// NoDataPlaceholder is the single row emitted for an empty sequence.
const NoDataPlaceholder = "No data available"

// NewTable constructs a Table over the given columns.
func NewTable(log logging.Logger, columns []ColumnSpec) *Table {
	return &Table{columns: columns, width: DefaultWidth, log: log}
}

// SetWidth overrides the total character width used for layout.
func (t *Table) SetWidth(w int) {
	if w > 0 {
		t.width = w
	}
}

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// visibleLen measures a cell's width with markup stripped.
func visibleLen(s string) int {
	return len([]rune(ansiPattern.ReplaceAllString(s, "")))
}

// sanitize neutralizes control sequences in literal text so an untrusted
// field value cannot inject terminal markup. Formatter output is exempt:
// producing markup is exactly what formatters are for.
func sanitize(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r == '\n' || r == '\t':
			b.WriteRune(' ')
		case r < 0x20 || r == 0x7f:
			// drop other control characters, including ESC
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isMarkup(s string) bool {
	return strings.Contains(s, "\x1b[")
}

// columnWidths resolves the percentage hints into character widths.
func (t *Table) columnWidths() []int {
	widths := make([]int, len(t.columns))
	remaining := t.width - len(t.columns) + 1 // column separators
	unhinted := 0
	for i, col := range t.columns {
		if col.Width > 0 {
			widths[i] = t.width * col.Width / 100
			remaining -= widths[i]
		} else {
			unhinted++
		}
	}
	for i, col := range t.columns {
		if col.Width == 0 && unhinted > 0 {
			widths[i] = remaining / unhinted
		}
		if widths[i] < 4 {
			widths[i] = 4
		}
	}
	return widths
}

// cell produces the display value for one record/column pair.
func (t *Table) cell(ctx context.Context, rec Record, col ColumnSpec) (out string) {
	raw, present := rec[col.Field]
	var value any = raw
	if !present || raw == nil {
		value = col.Default
	}

	display := fmt.Sprint(value)
	formatted := false
	if col.Format != nil {
		// A formatting failure is contained to the cell: empty value, logged.
		func() {
			defer func() {
				if r := recover(); r != nil {
					t.log.Error(ctx, "cell formatter failed", "field", col.Field, "err", r)
					display = ""
				}
			}()
			display = col.Format(value)
			formatted = true
		}()
	}

	// Only formatter output may carry markup. A raw field value that merely
	// looks like markup is untrusted and rendered as literal text.
	if formatted && isMarkup(display) {
		return display
	}
	display = sanitize(display)

	if col.Severity {
		lower := strings.ToLower(display)
		switch {
		case strings.Contains(lower, "high"):
			display = highEmphasis.Sprint(display)
		case strings.Contains(lower, "medium"):
			display = mediumEmphasis.Sprint(display)
		}
	}
	return display
}

// fit pads or truncates a display value to the column width. Marked-up
// values are padded on their visible length but never cut, so an escape
// sequence is never split in half.
func fit(s string, width int) string {
	vis := visibleLen(s)
	if vis > width && !isMarkup(s) {
		runes := []rune(s)
		if width > 1 {
			return string(runes[:width-1]) + "…"
		}
		return string(runes[:width])
	}
	if vis < width {
		return s + strings.Repeat(" ", width-vis)
	}
	return s
}

// Render writes the complete table for records to w: header, separator and
// one line per record, or the no-data placeholder for an empty sequence.
func (t *Table) Render(w io.Writer, records []Record) {
	t.RenderContext(context.Background(), w, records)
}

// RenderContext is Render with a caller-supplied context for logging.
func (t *Table) RenderContext(ctx context.Context, w io.Writer, records []Record) {
	if len(records) == 0 {
		fmt.Fprintln(w, NoDataPlaceholder)
		return
	}

	widths := t.columnWidths()

	headers := make([]string, len(t.columns))
	for i, col := range t.columns {
		headers[i] = headerFmt.Sprint(fit(sanitize(col.Header), widths[i]))
	}
	fmt.Fprintln(w, strings.Join(headers, " "))

	total := 0
	for _, cw := range widths {
		total += cw
	}
	fmt.Fprintln(w, strings.Repeat("-", total+len(widths)-1))

	for _, rec := range records {
		cells := make([]string, len(t.columns))
		for i, col := range t.columns {
			cells[i] = fit(t.cell(ctx, rec, col), widths[i])
		}
		fmt.Fprintln(w, strings.TrimRight(strings.Join(cells, " "), " "))
	}
}
