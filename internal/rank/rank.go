// Package rank scores trend items on a 0–100 scale from four components:
// freshness decay, batch-relative popularity, infrastructure keyword
// relevance, and a learning-ROI heuristic.
package rank

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/matheuskafuri/trendradar/internal/trend"
)

// DefaultInfraKeywords are the terms counted by the infra-relevance
// component. Partial stems ("quantiz", "fine-tun") intentionally match
// their inflections via substring search.
var DefaultInfraKeywords = []string{
	"vllm", "rag", "vector", "serving", "gpu", "inference", "deploy",
	"latency", "throughput", "kubernetes", "k8s", "docker", "triton",
	"tensorrt", "onnx", "quantiz", "fine-tun", "lora", "batch", "pipeline",
	"embedding", "index", "cache", "shard", "parallel", "distributed",
	"scaling", "llmops", "mlops", "ggml", "gguf", "ollama", "openai", "api",
}

// Config holds the ranking weights. The four weights sum to the maximum
// achievable score (100 with defaults).
type Config struct {
	FreshnessWeight  float64
	PopularityWeight float64
	InfraWeight      float64
	ROIWeight        float64
	HalfLifeDays     float64
	InfraKeywords    []string
}

// DefaultConfig returns the standard weights: 25/25/30/20 with a 7-day
// freshness half-life.
func DefaultConfig() Config {
	return Config{
		FreshnessWeight:  25,
		PopularityWeight: 25,
		InfraWeight:      30,
		ROIWeight:        20,
		HalfLifeDays:     7,
		InfraKeywords:    DefaultInfraKeywords,
	}
}

// Breakdown shows how each component contributed to an item's final score.
type Breakdown struct {
	Freshness  float64
	Popularity float64
	Infra      float64
	ROI        float64
	Total      int
}

// Rank returns new copies of the items with Score overwritten by the
// composite 0–100 value, sorted descending. The input slice and its items
// are never mutated. Popularity is normalized against the batch maximum, so
// scores from separate calls are only comparable when raw scores share a
// scale.
func Rank(items []trend.Item, cfg Config) []trend.Item {
	if len(items) == 0 {
		return []trend.Item{}
	}

	now := time.Now()
	maxRaw := 1
	for _, item := range items {
		if item.Score > maxRaw {
			maxRaw = item.Score
		}
	}

	out := make([]trend.Item, len(items))
	for i, item := range items {
		b := scoreItem(item, maxRaw, now, cfg)
		out[i] = item.Clone()
		out[i].Score = b.Total
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}

// ScoreWithBreakdown scores a single item against a batch maximum,
// exposing the per-component contributions.
func ScoreWithBreakdown(item trend.Item, maxRawScore int, cfg Config) Breakdown {
	if maxRawScore < 1 {
		maxRawScore = 1
	}
	return scoreItem(item, maxRawScore, time.Now(), cfg)
}

func scoreItem(item trend.Item, maxRaw int, now time.Time, cfg Config) Breakdown {
	b := Breakdown{
		Freshness:  freshnessScore(item.PublishedAt, now, cfg),
		Popularity: popularityScore(item.Score, maxRaw, cfg),
		Infra:      infraRelevanceScore(item, cfg),
		ROI:        learningROIScore(item, cfg),
	}
	total := int(math.Round(b.Freshness + b.Popularity + b.Infra + b.ROI))
	if total > 100 {
		total = 100
	}
	if total < 0 {
		total = 0
	}
	b.Total = total
	return b
}

// freshnessScore decays by half every HalfLifeDays. Future timestamps get
// the full weight; unparsable timestamps are treated as published now, the
// same fallback the adapters apply to missing dates.
func freshnessScore(publishedAt string, now time.Time, cfg Config) float64 {
	published, ok := parseWhen(publishedAt)
	if !ok {
		published = now
	}
	ageDays := now.Sub(published).Hours() / 24
	if ageDays < 0 {
		return cfg.FreshnessWeight
	}
	return cfg.FreshnessWeight * math.Pow(0.5, ageDays/cfg.HalfLifeDays)
}

func popularityScore(rawScore, maxRaw int, cfg Config) float64 {
	if maxRaw <= 0 {
		return 0
	}
	ratio := float64(rawScore) / float64(maxRaw)
	if ratio > 1 {
		ratio = 1
	}
	return cfg.PopularityWeight * ratio
}

// infraRelevanceScore counts distinct configured keywords appearing in the
// title, summary, or tags; five matches saturate the component.
func infraRelevanceScore(item trend.Item, cfg Config) float64 {
	text := strings.ToLower(item.Title + " " + item.Summary + " " + strings.Join(item.Tags, " "))
	matches := 0
	for _, kw := range cfg.InfraKeywords {
		if strings.Contains(text, kw) {
			matches++
		}
	}
	ratio := float64(matches) / 5
	if ratio > 1 {
		ratio = 1
	}
	return cfg.InfraWeight * ratio
}

// learningROIScore sums fixed bonuses for hands-on signals, capped at the
// configured ROI weight: linked code, a substantial follow-up suggestion or
// tutorial framing, and a meaty summary.
func learningROIScore(item trend.Item, cfg Config) float64 {
	score := 0.0
	text := strings.ToLower(item.Title + " " + item.Summary + " " + item.URL)

	if strings.Contains(text, "github.com") || strings.Contains(text, "repo") || strings.Contains(text, "code") {
		score += 8
	}
	if len(item.TrialSuggestion) > 20 ||
		strings.Contains(text, "tutorial") ||
		strings.Contains(text, "guide") ||
		strings.Contains(text, "how to") {
		score += 6
	}
	if len(item.Summary) > 100 {
		score += 6
	}

	return math.Min(score, cfg.ROIWeight)
}

var whenLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func parseWhen(s string) (time.Time, bool) {
	for _, layout := range whenLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
