package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Dilusha-Ranasingha/Busy-Bee-VS-Project/internal/logger"
	"github.com/Dilusha-Ranasingha/Busy-Bee-VS-Project/schema"
	"github.com/fatih/color"
)

// Label constants shared by levels, severities and risk.
const (
	HighValue   = "High"   // High value
	MediumValue = "Medium" // Medium value
	FairValue   = "Fair"   // Fair value
	LowValue    = "Low"    // Low value
)

// Color variables for console output.
var (
	HighColor   = color.New(color.FgGreen, color.Bold) // highColor represents strong, positive signal.
	MediumColor = color.New(color.FgCyan)              // mediumColor represents a neutral signal.
	FairColor   = color.New(color.FgYellow)            // fairColor represents standard caution, not bold.
	LowColor    = color.New(color.FgRed, color.Bold)   // lowColor represents a weak signal.

	SevereColor   = color.New(color.FgRed, color.Bold)     // severeColor marks high severity warnings.
	ModerateColor = color.New(color.FgMagenta, color.Bold) // moderateColor marks medium severity warnings.
	MinorColor    = color.New(color.FgYellow)              // minorColor marks low severity warnings.
)

// GetPlainLabel returns a plain text label for a level string such as a confidence,
// productivity or risk level. This is the core logic used for CSV, JSON, and table printing.
func GetPlainLabel(level string) string {
	switch strings.ToLower(level) {
	case "high":
		return HighValue
	case "medium":
		return MediumValue
	case "fair":
		return FairValue
	default:
		return LowValue
	}
}

// GetColorLabel returns a colored label for a quality-like level where high is good.
func GetColorLabel(level string) string {
	text := GetPlainLabel(level)

	switch text {
	case HighValue:
		return HighColor.Sprint(text)
	case MediumValue:
		return MediumColor.Sprint(text)
	case FairValue:
		return FairColor.Sprint(text)
	default: // "Low"
		return LowColor.Sprint(text)
	}
}

// GetSeverityLabel returns a colored label for a warning severity or risk level where high is bad.
func GetSeverityLabel(level string) string {
	text := GetPlainLabel(level)

	switch text {
	case HighValue:
		return SevereColor.Sprint(text)
	case MediumValue:
		return ModerateColor.Sprint(text)
	default:
		return MinorColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. It returns os.Stdout when the path is empty.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	logger.Error(msg, "err", err)
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	logger.Warn(msg, "err", err)
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetHistoryDBFilePath returns the path to the SQLite DB file for history storage.
func GetHistoryDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".busybee_history.db"
	}
	return filepath.Join(homeDir, ".busybee_history.db")
}

// GetForecastDBFilePath returns the path to the SQLite DB file for forecast storage.
func GetForecastDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".busybee_forecast.db"
	}
	return filepath.Join(homeDir, ".busybee_forecast.db")
}

// GetLogDir returns the default directory of the rotating log file.
func GetLogDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".busybee", "logs")
	}
	return filepath.Join(homeDir, ".busybee", "logs")
}

// FormatMinutes formats minutes as "2h 05m" or "45m".
func FormatMinutes(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%dh %02dm", minutes/60, minutes%60)
}

// FormatDateLabel formats a date with its weekday, "Mon 2026-10-19".
func FormatDateLabel(t time.Time) string {
	return t.Format("Mon ") + schema.FormatDate(t)
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
