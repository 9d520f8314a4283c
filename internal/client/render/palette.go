package render

import "github.com/fatih/color"

// Terminal palette shared by the renderer and the view formatters. A styled
// value counts as rendered markup for Table.Render and passes through
// verbatim; everything else is treated as untrusted literal text.
var (
	danger    = color.New(color.FgRed, color.Bold)
	warning   = color.New(color.FgYellow)
	info      = color.New(color.FgCyan)
	success   = color.New(color.FgGreen)
	headerFmt = color.New(color.Bold)

	highEmphasis   = color.New(color.FgRed, color.Bold)
	mediumEmphasis = color.New(color.FgYellow)
)

// Danger styles a value with strong alert emphasis.
func Danger(s string) string { return danger.Sprint(s) }

// Warning styles a value with moderate alert emphasis.
func Warning(s string) string { return warning.Sprint(s) }

// Info styles a value with informational emphasis.
func Info(s string) string { return info.Sprint(s) }

// Success styles a value with positive emphasis.
func Success(s string) string { return success.Sprint(s) }
