package card

import (
	"fmt"
	"strings"

	"github.com/matheuskafuri/trendradar/internal/trend"
)

// RenderMarkdown renders one card as a standalone markdown document.
func RenderMarkdown(c trend.Card) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", c.Title)
	fmt.Fprintf(&b, "> **Category:** %s | **Relevance:** %d/100 | **Date:** %s\n\n", c.Category, c.RelevanceScore, c.Date)
	fmt.Fprintf(&b, "%s\n\n", c.Summary)
	b.WriteString("## Sources\n\n")
	for _, s := range c.Sources {
		fmt.Fprintf(&b, "- [%s](%s) _(%s)_\n", s.Title, s.URL, s.Type)
	}
	fmt.Fprintf(&b, "\n**Tags:** %s\n", strings.Join(c.Tags, ", "))
	return b.String()
}

// RenderRadarList renders a compact one-line-per-card markdown list.
func RenderRadarList(cards []trend.Card) string {
	if len(cards) == 0 {
		return "No trends found.\n"
	}

	var b strings.Builder
	b.WriteString("# Trend Radar\n\n")
	for _, c := range cards {
		fmt.Fprintf(&b, "- **[%d]** %s _(%s)_ — %s…\n", c.RelevanceScore, c.Title, c.Category, excerpt(c.Summary, 80))
	}
	return b.String()
}

func excerpt(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
