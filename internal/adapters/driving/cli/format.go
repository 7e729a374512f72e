package cli

import (
	"time"

	"github.com/fatih/color"

	"github.com/jasonbrettpreston/buildo-sub002/internal/core/domain"
)

var (
	okLabel      = color.New(color.FgGreen)
	errorLabel   = color.New(color.FgRed)
	runningLabel = color.New(color.FgYellow)
)

// statusLabel renders a run status, coloured when the output is a terminal.
func statusLabel(s domain.RunStatus) string {
	switch s {
	case domain.RunStatusCompleted:
		return okLabel.Sprint(s)
	case domain.RunStatusFailed:
		return errorLabel.Sprint(s)
	default:
		return runningLabel.Sprint(s)
	}
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.UTC().Format("2006-01-02 15:04:05Z")
}

// formatValue renders an optional change value.
func formatValue(v *string) string {
	if v == nil {
		return "<null>"
	}
	return *v
}
