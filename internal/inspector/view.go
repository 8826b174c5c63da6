package inspector

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/arxinspect/internal/ui"
	"github.com/muurk/arxinspect/internal/version"
)

// AppName is shown in the inspector header
const AppName = "ARX.AT PACKET INSPECTOR"

var (
	subtleStyle = lipgloss.NewStyle().Foreground(ui.MutedColor)
	hintStyle   = lipgloss.NewStyle().Foreground(ui.MutedColor).Italic(true)
)

// View implements tea.Model
func (m Model) View() string {
	return renderContainer(m.buildContent(), m.Help.View(m.Keys), m.Width)
}

// buildContent builds the input line and the last result
func (m Model) buildContent() string {
	var b strings.Builder

	b.WriteString(m.Input.View())
	b.WriteString("\n\n")

	last, ok := m.Last()
	if !ok {
		b.WriteString(hintStyle.Render("Paste an advertising packet and press enter."))
		b.WriteString("\n")
		return b.String()
	}

	width := m.contentWidth()
	if last.Err != nil {
		b.WriteString(ui.RenderError(last.Err, width))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(ui.RenderSummary(last.Table))
	b.WriteString("\n")
	b.WriteString(ui.RenderTable(last.Table, width))
	b.WriteString("\n")
	b.WriteString(subtleStyle.Render(fmt.Sprintf("layout %s · %d submitted", m.layoutName(), m.Submitted)))
	b.WriteString("\n")
	return b.String()
}

func (m Model) layoutName() string {
	if m.Options.Layout.Name == "" {
		return "canonical"
	}
	return m.Options.Layout.Name
}

func (m Model) contentWidth() int {
	if m.Width == 0 {
		return ui.MinTerminalWidth
	}
	return m.Width - 4
}

// renderContainer wraps the screen with the application header and a help
// footer. A zero width (before the first WindowSizeMsg) renders without
// fixed widths.
func renderContainer(content, helpText string, width int) string {
	header := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Foreground(ui.TextColor).Bold(true).Render(AppName),
		" ",
		subtleStyle.Render("v"+version.Version),
	)

	headerStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.Border{Bottom: "─"}).
		BorderBottom(true).
		BorderForeground(ui.PrimaryColor).
		Padding(0, 1)
	footerStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.Border{Top: "─"}).
		BorderTop(true).
		BorderForeground(ui.PrimaryColor).
		Padding(0, 1)
	contentStyle := lipgloss.NewStyle().Padding(1, 1, 0, 1)

	if width > 0 {
		headerStyle = headerStyle.Width(width - 2)
		footerStyle = footerStyle.Width(width - 2)
		contentStyle = contentStyle.Width(width - 2)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		headerStyle.Render(header),
		contentStyle.Render(content),
		footerStyle.Render(subtleStyle.Render(helpText)),
	)
}
