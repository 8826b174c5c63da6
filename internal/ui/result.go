package ui

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/arxinspect/internal/packet"
)

// ResultType indicates success or failure
type ResultType int

const (
	ResultSuccess ResultType = iota
	ResultFailure
)

// Result represents a result box (success or failure)
type Result struct {
	Type    ResultType        // Success or failure
	Title   string            // e.g., "Model saved"
	Details map[string]string // Key-value details to display
	Error   error             // Error (for failure results)
	Hints   []string          // Hints (for failure results)
	Width   int               // Terminal width
}

// NewSuccessResult creates a success result box
func NewSuccessResult(title string, details map[string]string) *Result {
	return &Result{
		Type:    ResultSuccess,
		Title:   title,
		Details: details,
		Width:   GetTerminalWidth(),
	}
}

// NewFailureResult creates a failure result box
func NewFailureResult(title string, err error, hints []string) *Result {
	return &Result{
		Type:  ResultFailure,
		Title: title,
		Error: err,
		Hints: hints,
		Width: GetTerminalWidth(),
	}
}

// SetWidth sets the terminal width for responsive rendering
func (r *Result) SetWidth(width int) *Result {
	r.Width = width
	return r
}

// AddDetail adds a detail key-value pair
func (r *Result) AddDetail(key, value string) *Result {
	if r.Details == nil {
		r.Details = make(map[string]string)
	}
	r.Details[key] = value
	return r
}

// Render returns the styled result box as a string
func (r *Result) Render() string {
	if r.Type == ResultFailure {
		return r.renderFailure()
	}
	return r.renderSuccess()
}

func (r *Result) renderSuccess() string {
	width := clampWidth(r.Width)

	var lines []string

	titleLine := lipgloss.NewStyle().
		Foreground(SuccessColor).
		Bold(true).
		Render(fmt.Sprintf("   %s  %s", SuccessMarker, r.Title))
	lines = append(lines, "", titleLine, "")

	// Details, sorted so output is stable
	keys := make([]string, 0, len(r.Details))
	for key := range r.Details {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		keyStyled := ResultKeyStyle.Render(fmt.Sprintf("   %s:", key))
		valueStyled := ResultValueStyle.Render(r.Details[key])
		lines = append(lines, keyStyled+" "+valueStyled)
	}

	lines = append(lines, "")

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(SuccessColor).
		Width(width-2).
		Padding(0, 2).
		Render(strings.Join(lines, "\n"))
}

func (r *Result) renderFailure() string {
	width := clampWidth(r.Width)

	var lines []string

	titleLine := ErrorTitleStyle.Render(fmt.Sprintf("   %s  FAILED  ─  %s", FailureMarker, r.Title))
	lines = append(lines, "", titleLine, "")

	if r.Error != nil {
		lines = append(lines, ErrorMessageStyle.Render("   Error: "+r.Error.Error()), "")
	}

	if len(r.Hints) > 0 {
		hintLines := []string{HintTitleStyle.Render("Hints:"), ""}
		for _, hint := range r.Hints {
			hintLines = append(hintLines, HintItemStyle.Render("  • "+hint))
		}
		lines = append(lines, HintBoxStyle(width).Render(strings.Join(hintLines, "\n")), "")
	}

	return ErrorBoxStyle(width).Render(strings.Join(lines, "\n"))
}

// String implements fmt.Stringer
func (r *Result) String() string {
	return r.Render()
}

// RenderError renders a failure box for err. Malformed packets get a
// title and hints about the accepted input format.
func RenderError(err error, width int) string {
	title := "Error"
	var hints []string

	var malformed *packet.MalformedHexError
	if errors.As(err, &malformed) {
		title = "Malformed packet"
		hints = []string{
			"Input must be hexadecimal, e.g. 0x22A54C00",
			"Spaces, newlines and 0x prefixes are ignored",
			"The cleaned input must have an even number of digits",
		}
	}

	return NewFailureResult(title, err, hints).SetWidth(width).Render()
}

// RenderSuccess renders a success box with the given title and details
func RenderSuccess(title string, details map[string]string, width int) string {
	return NewSuccessResult(title, details).SetWidth(width).Render()
}
