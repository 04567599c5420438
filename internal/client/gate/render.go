package gate

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	alertStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("214")).
			Padding(0, 1)
	alertTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	previewStyle    = lipgloss.NewStyle().Faint(true).Foreground(lipgloss.Color("245"))
)

// Render draws v for a terminal. An unlocked view is returned as is.
func Render(v View) string {
	if !v.Locked {
		return v.Content
	}

	notice := alertStyle.Render(alertTitleStyle.Render(v.Title) + "\n" + v.Message)
	if !v.ShowPreview || strings.TrimSpace(v.Content) == "" {
		return notice
	}
	return lipgloss.JoinVertical(lipgloss.Left, notice, previewStyle.Render(v.Content))
}
