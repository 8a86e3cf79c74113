package cmd

import "github.com/charmbracelet/lipgloss"

var (
	colorPrimary = lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#7571F9"}
	colorDim     = lipgloss.AdaptiveColor{Light: "#9B9B9B", Dark: "#626262"}
	colorGreen   = lipgloss.AdaptiveColor{Light: "#04B575", Dark: "#25D366"}
	colorServing = lipgloss.AdaptiveColor{Light: "#0087D7", Dark: "#5FAFFF"}
	colorRAG     = lipgloss.AdaptiveColor{Light: "#AF5FD7", Dark: "#D787FF"}
	colorLLMOps  = lipgloss.AdaptiveColor{Light: "#D78700", Dark: "#FFAF5F"}

	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary)
	dimStyle     = lipgloss.NewStyle().Foreground(colorDim)
	successStyle = lipgloss.NewStyle().Foreground(colorGreen)

	categoryStyles = map[string]lipgloss.Style{
		"serving": lipgloss.NewStyle().Foreground(colorServing),
		"rag":     lipgloss.NewStyle().Foreground(colorRAG),
		"llmops":  lipgloss.NewStyle().Foreground(colorLLMOps),
	}
)

func categoryBadge(category string) string {
	if style, ok := categoryStyles[category]; ok {
		return style.Render(category)
	}
	return category
}
