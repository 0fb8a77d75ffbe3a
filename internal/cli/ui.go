package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/packopt/pkg/pipeline"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleHighlight for emphasized values.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)

	styleKey    = lipgloss.NewStyle().Foreground(colorGray).Width(24)
	styleHeader = lipgloss.NewStyle().Foreground(colorGray).Bold(true).Padding(0, 1)
	styleCell   = lipgloss.NewStyle().Padding(0, 1)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconInfo    = "›"
)

// =============================================================================
// Status Output
// =============================================================================

// printSuccess prints a success message.
func printSuccess(w io.Writer, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(w, styleIconSuccess.Render(iconSuccess)+" "+msg)
}

// printError prints an error message.
func printError(w io.Writer, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(w, styleIconError.Render(iconError)+" "+msg)
}

// printInfo prints an info/status message.
func printInfo(w io.Writer, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(w, styleIconInfo.Render(iconInfo)+" "+msg)
}

// printExit prints the early-exit banner followed by msg.
func printExit(w io.Writer, msg string) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, exitingMessage)
	fmt.Fprintln(w)
	printError(w, "%s", msg)
}

// =============================================================================
// Key-Value Output
// =============================================================================

// printKeyValue prints a labeled value.
func printKeyValue(w io.Writer, key, value string) {
	fmt.Fprintln(w, styleKey.Render(key)+" "+StyleValue.Render(value))
}

// printOptions prints the options a run starts with.
func printOptions(w io.Writer, opts pipeline.Options) {
	zip := "None"
	if opts.ZipName != "" {
		zip = opts.ZipName
	}
	exclude := "None"
	if len(opts.Exclude) > 0 {
		exclude = strings.Join(opts.Exclude, ", ")
	}

	fmt.Fprintln(w)
	printKeyValue(w, "input_dir:", opts.InputPath)
	printKeyValue(w, "output_dir:", opts.OutputPath)
	printKeyValue(w, "zip_name:", zip)
	printKeyValue(w, "exclude:", exclude)
	printKeyValue(w, "should_ask_user_to_confirm:", strconv.FormatBool(!opts.NoConfirm))
	fmt.Fprintln(w)
}

// =============================================================================
// Run Summary
// =============================================================================

// renderSummary renders one row per executed stage, plus the archive.
func renderSummary(res *pipeline.Result) string {
	rows := make([][]string, 0, len(res.Reports)+1)
	for _, r := range res.Reports {
		rows = append(rows, []string{r.Stage, strconv.Itoa(r.Units), formatDuration(r.Duration)})
	}
	if res.Archive != nil {
		rows = append(rows, []string{"zip", strconv.Itoa(res.Archive.Files), formatDuration(res.Archive.Duration)})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Stage", "Items", "Duration").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			if col == 1 {
				return styleCell.Foreground(colorCyan).Align(lipgloss.Right)
			}
			return styleCell
		})
	return t.Render()
}

// printSummary prints the stage table, the archive digest and total time.
func printSummary(w io.Writer, res *pipeline.Result) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, renderSummary(res))
	if res.Archive != nil {
		fmt.Fprintln(w)
		printSuccess(w, "Zip file %s hash: %s", res.Archive.Digest.Label(), res.Archive.Sum)
		printKeyValue(w, "archive:", res.Archive.Path)
	}
	printKeyValue(w, "total:", formatDuration(res.Duration))
}

func formatDuration(d time.Duration) string {
	return d.Round(time.Millisecond).String()
}
