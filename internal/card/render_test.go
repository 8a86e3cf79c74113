package card

import (
	"strings"
	"testing"

	"github.com/matheuskafuri/trendradar/internal/trend"
)

func sampleCard() trend.Card {
	return trend.Card{
		ID:       "sample-abc123",
		Title:    "Sample Trend",
		Summary:  "A sample summary of the trend.",
		Category: trend.CategoryServing,
		Sources: []trend.Source{
			{Title: "Sample Trend", URL: "https://example.com/sample", Type: trend.SourceBlog},
		},
		Date:           "2025-06-01",
		RelevanceScore: 72,
		Tags:           []string{"ai", "serving"},
	}
}

func TestRenderMarkdown(t *testing.T) {
	md := RenderMarkdown(sampleCard())

	for _, want := range []string{
		"# Sample Trend",
		"**Category:** serving",
		"**Relevance:** 72/100",
		"## Sources",
		"[Sample Trend](https://example.com/sample)",
		"_(blog)_",
		"**Tags:** ai, serving",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q:\n%s", want, md)
		}
	}
}

func TestRenderRadarList(t *testing.T) {
	out := RenderRadarList([]trend.Card{sampleCard()})
	if !strings.HasPrefix(out, "# Trend Radar") {
		t.Errorf("missing heading:\n%s", out)
	}
	if !strings.Contains(out, "**[72]** Sample Trend") {
		t.Errorf("missing card line:\n%s", out)
	}
}

func TestRenderRadarListEmpty(t *testing.T) {
	if got := RenderRadarList(nil); got != "No trends found.\n" {
		t.Errorf("got %q", got)
	}
}
