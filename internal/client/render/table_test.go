package render

import (
	"bytes"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bennieslab/threatwatch/internal/logging"
)

func init() {
	// force ANSI output so markup assertions hold without a terminal
	color.NoColor = false
}

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func severityColumns() []ColumnSpec {
	return []ColumnSpec{
		{Header: "Threat Type", Field: "threat_type", Width: 50, Default: "Unknown"},
		{Header: "Severity", Field: "severity", Width: 50, Default: "Unknown", Severity: true},
	}
}

func TestRender_EmptySequenceYieldsSinglePlaceholder(t *testing.T) {
	tbl := NewTable(testLogger(), severityColumns())

	var buf bytes.Buffer
	tbl.Render(&buf, nil)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 1, "exactly one placeholder element, zero data rows")
	assert.Equal(t, NoDataPlaceholder, lines[0])

	buf.Reset()
	tbl.Render(&buf, []Record{})
	assert.Equal(t, NoDataPlaceholder+"\n", buf.String())
}

func TestRender_MissingFieldUsesColumnDefault(t *testing.T) {
	tbl := NewTable(testLogger(), severityColumns())

	var buf bytes.Buffer
	tbl.Render(&buf, []Record{{"severity": "low"}})

	out := buf.String()
	assert.Contains(t, out, "Unknown", "missing field renders the column default")
	assert.NotContains(t, out, "<nil>")
	assert.NotContains(t, out, "undefined")
}

func TestRender_NilValueUsesColumnDefault(t *testing.T) {
	tbl := NewTable(testLogger(), severityColumns())

	var buf bytes.Buffer
	tbl.Render(&buf, []Record{{"threat_type": nil, "severity": "low"}})

	assert.Contains(t, buf.String(), "Unknown")
	assert.NotContains(t, buf.String(), "<nil>")
}

func TestRender_SeverityEmphasis(t *testing.T) {
	tests := []struct {
		name     string
		severity string
		want     string
		absent   bool
	}{
		{name: "upper case high", severity: "HIGH", want: "\x1b[31;1m"},
		{name: "mixed case high", severity: "High", want: "\x1b[31;1m"},
		{name: "substring high", severity: "very high risk", want: "\x1b[31;1m"},
		{name: "medium", severity: "Medium", want: "\x1b[33m"},
		{name: "low carries no emphasis", severity: "low", want: "\x1b[", absent: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tbl := NewTable(testLogger(), severityColumns())

			var buf bytes.Buffer
			tbl.Render(&buf, []Record{{"threat_type": "Port Scan", "severity": tc.severity}})

			// inspect data rows only, headers are styled too
			lines := strings.SplitN(buf.String(), "\n", 3)
			require.Len(t, lines, 3)
			dataRows := lines[2]

			if tc.absent {
				assert.NotContains(t, dataRows, tc.want)
			} else {
				assert.Contains(t, dataRows, tc.want)
			}
		})
	}
}

func TestRender_FormatterFailureContainedToCell(t *testing.T) {
	columns := []ColumnSpec{
		{Header: "A", Field: "a", Width: 50, Format: func(v any) string {
			panic("formatter exploded")
		}},
		{Header: "B", Field: "b", Width: 50},
	}
	tbl := NewTable(testLogger(), columns)

	var buf bytes.Buffer
	tbl.Render(&buf, []Record{{"a": "boom", "b": "intact"}})

	out := buf.String()
	assert.Contains(t, out, "intact", "row must survive a failing cell")
	assert.NotContains(t, out, "boom", "failing cell falls back to empty")
}

func TestRender_FormatterMarkupPassesThrough(t *testing.T) {
	columns := []ColumnSpec{
		{Header: "Status", Field: "status", Width: 100, Format: func(v any) string {
			return Danger(v.(string))
		}},
	}
	tbl := NewTable(testLogger(), columns)

	var buf bytes.Buffer
	tbl.Render(&buf, []Record{{"status": "Spam Detected"}})

	assert.Contains(t, buf.String(), "\x1b[31;1mSpam Detected\x1b[0m")
}

func TestRender_LiteralValuesAreNeutralized(t *testing.T) {
	columns := []ColumnSpec{
		{Header: "Subject", Field: "subject", Width: 100},
	}
	tbl := NewTable(testLogger(), columns)

	var buf bytes.Buffer
	tbl.Render(&buf, []Record{{"subject": "evil\x1b[31msubject\x1b[0m"}})

	lines := strings.SplitN(buf.String(), "\n", 3)
	require.Len(t, lines, 3)
	assert.NotContains(t, lines[2], "\x1b[", "untrusted values must not inject markup")
	assert.Contains(t, lines[2], "evil")
}

func TestRender_Idempotent(t *testing.T) {
	tbl := NewTable(testLogger(), severityColumns())
	records := []Record{
		{"threat_type": "Brute Force", "severity": "High"},
		{"threat_type": "Port Scan", "severity": "low"},
	}

	var first, second bytes.Buffer
	tbl.Render(&first, records)
	tbl.Render(&second, records)

	assert.Equal(t, first.String(), second.String())
}

func TestRender_TruncatesOverlongPlainCells(t *testing.T) {
	columns := []ColumnSpec{
		{Header: "Subject", Field: "subject", Width: 20},
		{Header: "Body", Field: "body"},
	}
	tbl := NewTable(testLogger(), columns)
	tbl.SetWidth(40)

	long := strings.Repeat("x", 200)
	var buf bytes.Buffer
	tbl.Render(&buf, []Record{{"subject": long, "body": "b"}})

	lines := strings.SplitN(strings.TrimRight(buf.String(), "\n"), "\n", 3)
	require.Len(t, lines, 3)
	assert.Less(t, len([]rune(lines[2])), 60, "cells must be cut to the layout width")
	assert.Contains(t, lines[2], "…")
}

func TestRender_HeaderOrderFollowsDeclaration(t *testing.T) {
	columns := []ColumnSpec{
		{Header: "Time", Field: "timestamp", Width: 30},
		{Header: "Source", Field: "source_type", Width: 30},
		{Header: "Severity", Field: "severity", Width: 40},
	}
	tbl := NewTable(testLogger(), columns)

	var buf bytes.Buffer
	tbl.Render(&buf, []Record{{"timestamp": "t"}})

	header := strings.SplitN(buf.String(), "\n", 2)[0]
	ti := strings.Index(header, "Time")
	si := strings.Index(header, "Source")
	vi := strings.Index(header, "Severity")
	require.True(t, ti >= 0 && si >= 0 && vi >= 0)
	assert.True(t, ti < si && si < vi, "headers appear in declaration order")
}
