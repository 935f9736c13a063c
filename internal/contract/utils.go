package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/blqdash/schema"
)

// Level label constants for a normalized value (share of the series peak).
const (
	PeakValue     = "Peak"     // Peak value
	HighValue     = "High"     // High value
	ModerateValue = "Moderate" // Moderate value
	LowValue      = "Low"      // Low value
)

// Color variables for console output.
var (
	PeakColor     = color.New(color.FgGreen, color.Bold) // PeakColor marks years at or near the record.
	HighColor     = color.New(color.FgCyan)              // HighColor marks strong years.
	ModerateColor = color.New(color.FgYellow)            // ModerateColor marks middling years.
	LowColor      = color.New(color.FgRed)               // LowColor marks slumps such as 2020.
)

// GetPlainLabel returns a plain text label for a normalized value in [0, 1].
// This is the core logic used for CSV, JSON, and table printing.
func GetPlainLabel(normalized float64) string {
	return schema.GetPlainLabel(normalized)
}

// GetColorLabel returns a colored text label for console output (table).
func GetColorLabel(normalized float64) string {
	text := GetPlainLabel(normalized)

	switch text {
	case PeakValue:
		return PeakColor.Sprint(text)
	case HighValue:
		return HighColor.Sprint(text)
	case ModerateValue:
		return ModerateColor.Sprint(text)
	default:
		return LowColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. An empty path means os.Stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// LogInfo logs an informational message to stderr.
func LogInfo(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, format+"\n", args...)
}

// GetCacheDBFilePath returns the path to the SQLite DB file for figure cache storage.
func GetCacheDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".blqdash_cache.db"
	}
	return filepath.Join(homeDir, ".blqdash_cache.db")
}

// GetViewsDBFilePath returns the path to the SQLite DB file for the view log.
func GetViewsDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".blqdash_views.db"
	}
	return filepath.Join(homeDir, ".blqdash_views.db")
}

// TruncateText truncates text to a maximum width with an ellipsis suffix.
// Requires maxWidth > 3 so there is room for the "..." and at least one character.
func TruncateText(text string, maxWidth int) string {
	runes := []rune(text)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return text
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
