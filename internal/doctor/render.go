package doctor

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

var (
	passColor  = color.New(color.FgGreen)
	infoColor  = color.New(color.FgCyan)
	warnColor  = color.New(color.FgYellow)
	errorColor = color.New(color.FgRed, color.Bold)
	hintColor  = color.New(color.FgHiBlack)
)

// Render writes report as text. Without verbose only warnings and errors
// are listed; the summary line is always written.
func Render(w io.Writer, report *DoctorReport, verbose bool) error {
	shown := false
	for _, result := range report.Results {
		problem := result.Status == SeverityError || result.Status == SeverityWarning
		if !verbose && !problem {
			continue
		}

		shown = true
		if _, err := fmt.Fprintf(w, "%s [%s] %s: %s\n",
			statusIcon(result.Status), result.Category, result.Name, result.Message); err != nil {
			return err
		}
		if result.FixHint != "" && problem {
			if _, err := fmt.Fprintf(w, "  %s\n", hintColor.Sprint("hint: "+result.FixHint)); err != nil {
				return err
			}
		}
	}

	if shown {
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(w, "Summary: %d passed, %d info, %d warnings, %d errors\n",
		report.Summary.Passed, report.Summary.Info, report.Summary.Warnings, report.Summary.Errors)
	return err
}

// RenderFixes writes one line per attempted fix.
func RenderFixes(w io.Writer, fixes []FixResult) error {
	for _, f := range fixes {
		var line string
		if f.Fixed {
			line = fmt.Sprintf("%s fixed %s: %s", passColor.Sprint("✓"), f.Path, f.Description)
		} else {
			line = fmt.Sprintf("%s %s: %s: %v", errorColor.Sprint("✗"), f.Path, f.Description, f.Error)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func statusIcon(s Severity) string {
	switch s {
	case SeverityPass:
		return passColor.Sprint("✓")
	case SeverityInfo:
		return infoColor.Sprint("ℹ")
	case SeverityWarning:
		return warnColor.Sprint("⚠")
	case SeverityError:
		return errorColor.Sprint("✗")
	default:
		return "?"
	}
}
