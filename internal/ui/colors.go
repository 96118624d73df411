package ui

// ANSI color and style constants for CLI output
const (
	ColorReset = "\033[0m"
	ColorBold  = "\033[1m"
	ColorDim   = "\033[2m"

	ColorCyan   = "\033[36m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorWhite  = "\033[97m"
	ColorRed    = "\033[31m"
)

// Plain turns every helper below into a pass-through, for piped output
var Plain = false

// Style wraps s in color unless Plain is set
func Style(color, s string) string {
	if Plain {
		return s
	}
	return color + s + ColorReset
}

func Bold(s string) string {
	return Style(ColorBold, s)
}

func Success(s string) string {
	return Style(ColorGreen, s)
}

func Info(s string) string {
	return Style(ColorDim+ColorYellow, s)
}

func Error(s string) string {
	return Style(ColorRed, s)
}

// Source highlights a site name
func Source(s string) string {
	return Style(ColorCyan, s)
}

// Heading styles a help section title
func Heading(s string) string {
	return Style(ColorBold+ColorWhite, s)
}

// Command highlights a command name or usage line
func Command(s string) string {
	return Style(ColorCyan, s)
}

// Flag highlights a flag or an example command line
func Flag(s string) string {
	return Style(ColorGreen, s)
}

func Dim(s string) string {
	return Style(ColorDim, s)
}
