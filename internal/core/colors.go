// Colors provides terminal color utilities for output formatting, backed by
// termenv so color support is detected per-terminal rather than assumed.
package core

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/muesli/termenv"
)

var profile = termenv.ColorProfile()

func colorize(color termenv.Color, text string) string {
	if profile == termenv.Ascii {
		return text
	}
	return termenv.String(text).Foreground(color).String()
}

func styled(text string, style func(termenv.Style) termenv.Style) string {
	if profile == termenv.Ascii {
		return text
	}
	return style(termenv.String(text)).String()
}

// Success returns green text for success messages.
func Success(text string) string {
	return colorize(profile.Color("2"), text)
}

// Warning returns yellow text for warning messages.
func Warning(text string) string {
	return colorize(profile.Color("3"), text)
}

// Error returns red text for error messages.
func Error(text string) string {
	return colorize(profile.Color("1"), text)
}

// Info returns blue text for informational messages.
func Info(text string) string {
	return colorize(profile.Color("4"), text)
}

// DimText returns dimmed text for secondary information.
func DimText(text string) string {
	return styled(text, termenv.Style.Faint)
}

// BoldText returns bold text for emphasis.
func BoldText(text string) string {
	return styled(text, termenv.Style.Bold)
}

// Bright returns bright white text for highlights.
func Bright(text string) string {
	return colorize(profile.Color("15"), text)
}

// CyanText returns cyan text for special highlights.
func CyanText(text string) string {
	return colorize(profile.Color("6"), text)
}

// MagentaText returns magenta text for special highlights.
func MagentaText(text string) string {
	return colorize(profile.Color("5"), text)
}

// HexToRGB converts a hex color string ("#rrggbb" or "rrggbb") to a
// comma-separated RGB triple. Returns "128,128,128" for invalid input.
func HexToRGB(hex string) string {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return "128,128,128"
	}
	r, err1 := strconv.ParseInt(hex[0:2], 16, 64)
	g, err2 := strconv.ParseInt(hex[2:4], 16, 64)
	b, err3 := strconv.ParseInt(hex[4:6], 16, 64)
	if err1 != nil || err2 != nil || err3 != nil {
		return "128,128,128"
	}
	return fmt.Sprintf("%d,%d,%d", r, g, b)
}
