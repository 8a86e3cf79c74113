package trend

import (
	"fmt"
	"regexp"
	"strings"
)

// Category classifies a published card.
type Category string

const (
	CategoryServing Category = "serving"
	CategoryRAG     Category = "rag"
	CategoryLLMOps  Category = "llmops"
)

// SourceType classifies where a card's source link points.
type SourceType string

const (
	SourcePaper   SourceType = "paper"
	SourceRepo    SourceType = "repo"
	SourceBlog    SourceType = "blog"
	SourceRelease SourceType = "release"
	SourceVideo   SourceType = "video"
)

// Source is one origin link attached to a card.
type Source struct {
	Title string     `json:"title"`
	URL   string     `json:"url"`
	Type  SourceType `json:"type"`
}

// Card is the durable, externally visible trend record. Cards are replaced
// wholesale during merges, never partially updated.
type Card struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Summary        string   `json:"summary"`
	Category       Category `json:"category"`
	Sources        []Source `json:"sources"`
	Date           string   `json:"date"`
	RelevanceScore int      `json:"relevanceScore"`
	Tags           []string `json:"tags"`
}

var (
	validCategories = map[Category]bool{
		CategoryServing: true,
		CategoryRAG:     true,
		CategoryLLMOps:  true,
	}
	validSourceTypes = map[SourceType]bool{
		SourcePaper:   true,
		SourceRepo:    true,
		SourceBlog:    true,
		SourceRelease: true,
		SourceVideo:   true,
	}
	dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// ValidationError describes one invalid field on a card.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateCard checks the card against the published-record schema and
// returns one error per invalid field.
func ValidateCard(c Card) []ValidationError {
	var errs []ValidationError

	if c.ID == "" {
		errs = append(errs, ValidationError{"id", "must be a non-empty string"})
	}
	if c.Title == "" {
		errs = append(errs, ValidationError{"title", "must be a non-empty string"})
	}
	if c.Summary == "" {
		errs = append(errs, ValidationError{"summary", "must be a non-empty string"})
	}
	if !validCategories[c.Category] {
		errs = append(errs, ValidationError{"category", "must be one of: serving, rag, llmops"})
	}
	if !dateRe.MatchString(c.Date) {
		errs = append(errs, ValidationError{"date", "must be an ISO 8601 date (YYYY-MM-DD)"})
	}
	if c.RelevanceScore < 0 || c.RelevanceScore > 100 {
		errs = append(errs, ValidationError{"relevanceScore", "must be between 0 and 100"})
	}
	if len(c.Sources) == 0 {
		errs = append(errs, ValidationError{"sources", "must be a non-empty array"})
	}
	for i, s := range c.Sources {
		if s.Title == "" {
			errs = append(errs, ValidationError{fmt.Sprintf("sources[%d].title", i), "must be a non-empty string"})
		}
		if !strings.HasPrefix(s.URL, "http") {
			errs = append(errs, ValidationError{fmt.Sprintf("sources[%d].url", i), "must be a valid URL"})
		}
		if !validSourceTypes[s.Type] {
			errs = append(errs, ValidationError{fmt.Sprintf("sources[%d].type", i), "must be one of: paper, repo, blog, release, video"})
		}
	}

	return errs
}
