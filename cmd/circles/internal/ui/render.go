package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/recera/circles/pkg/components/circles"
)

// Style definitions
var (
	primaryColor = lipgloss.Color("#3b82f6")
	mutedColor   = lipgloss.Color("#94a3b8")
	successColor = lipgloss.Color("#10b981")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffffff"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	stateStyle = lipgloss.NewStyle().
			Foreground(successColor)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primaryColor).
			Padding(1, 2)
)

// View renders the preview
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	g := m.graph
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("circles %s preview", circles.Version)))
	b.WriteString("\n")

	b.WriteString(m.bar.ViewAs(g.Displayed() / 100))
	b.WriteString("  ")
	b.WriteString(labelStyle.Render(m.label))
	b.WriteString("\n\n")

	b.WriteString(fmt.Sprintf("shown %s%%  target %s%%  ",
		circles.FormatValue(g.Displayed()), circles.FormatValue(g.StoredPercent())))
	b.WriteString(stateStyle.Render(g.State().String()))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(fmt.Sprintf("frames %d  mutations %d", g.Frames(), m.patches)))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("d=" + m.path))
	b.WriteString("\n\n")

	keys := DefaultKeyMap
	help := []string{}
	for _, k := range []struct{ h, d string }{
		{keys.Up.Help().Key, keys.Up.Help().Desc},
		{keys.Down.Help().Key, keys.Down.Help().Desc},
		{keys.Replay.Help().Key, keys.Replay.Help().Desc},
		{keys.Quit.Help().Key, keys.Quit.Help().Desc},
	} {
		help = append(help, k.h+" "+k.d)
	}
	b.WriteString(mutedStyle.Render(strings.Join(help, " • ")))

	return boxStyle.Render(b.String())
}
