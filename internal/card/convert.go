// Package card converts ranked trend items into published trend cards and
// renders cards as markdown.
package card

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/matheuskafuri/trendradar/internal/trend"
)

var servingKeywords = []string{
	"serving", "inference", "latency", "throughput", "vllm", "triton",
	"tensorrt", "onnx", "gpu", "batch", "sglang", "speculative",
	"kv-cache", "attention", "cuda",
}

var ragKeywords = []string{
	"rag", "vector", "embedding", "retrieval", "chunking", "index",
	"search", "rerank", "pinecone", "weaviate", "chroma", "faiss",
}

var llmopsKeywords = []string{
	"llmops", "mlops", "deploy", "kubernetes", "k8s", "docker",
	"gateway", "proxy", "monitor", "observ", "cost", "rate-limit",
	"fine-tun", "lora", "quantiz", "ggml", "gguf",
}

// inferCategory counts keyword hits per category. Ties break RAG over
// LLMOps over Serving; with no hits at all, arXiv-ish sources default to
// serving and everything else to llmops.
func inferCategory(item trend.Item) trend.Category {
	text := strings.ToLower(item.Title + " " + item.Summary + " " + strings.Join(item.Tags, " "))

	count := func(keywords []string) int {
		n := 0
		for _, kw := range keywords {
			if strings.Contains(text, kw) {
				n++
			}
		}
		return n
	}

	serving := count(servingKeywords)
	rag := count(ragKeywords)
	llmops := count(llmopsKeywords)

	if rag >= serving && rag >= llmops && rag > 0 {
		return trend.CategoryRAG
	}
	if llmops >= serving && llmops > 0 {
		return trend.CategoryLLMOps
	}
	if serving > 0 {
		return trend.CategoryServing
	}

	if strings.Contains(item.Source, "arxiv") {
		return trend.CategoryServing
	}
	return trend.CategoryLLMOps
}

// inferSourceType classifies a URL by substring in priority order. The
// github.com check deliberately precedes the release-path check, so a
// GitHub releases page classifies as repo; downstream consumers pin that
// precedence.
func inferSourceType(rawURL string) trend.SourceType {
	lower := strings.ToLower(rawURL)
	switch {
	case strings.Contains(lower, "arxiv.org"):
		return trend.SourcePaper
	case strings.Contains(lower, "github.com"):
		return trend.SourceRepo
	case strings.Contains(lower, "youtube.com"), strings.Contains(lower, "youtu.be"):
		return trend.SourceVideo
	case strings.Contains(lower, "/releases"), strings.Contains(lower, "/release"):
		return trend.SourceRelease
	default:
		return trend.SourceBlog
	}
}

var (
	slugStripRe = regexp.MustCompile(`[^\w\s-]`)
	slugSpaceRe = regexp.MustCompile(`\s+`)
	isoDateRe   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// GenerateID derives a stable card id: a slugified title truncated to 50
// characters plus a 6-character base-36 hash of the URL. The hash is a
// collision-tolerant identifier, not cryptographic.
func GenerateID(url, title string) string {
	slug := strings.ToLower(title)
	slug = slugStripRe.ReplaceAllString(slug, "")
	slug = slugSpaceRe.ReplaceAllString(slug, "-")
	if runes := []rune(slug); len(runes) > 50 {
		slug = string(runes[:50])
	}
	slug = strings.TrimRight(slug, "-")

	var hash int32
	for _, r := range url {
		hash = hash*31 + int32(r)
	}
	h := int64(hash)
	if h < 0 {
		h = -h
	}
	short := strconv.FormatInt(h, 36)
	if len(short) > 6 {
		short = short[:6]
	}

	return slug + "-" + short
}

// Convert maps a ranked item into its published card. Pure: no I/O, no
// mutation of the input.
func Convert(item trend.Item) trend.Card {
	src := trend.Source{
		Title: item.Title,
		URL:   item.URL,
		Type:  inferSourceType(item.URL),
	}

	date := ""
	if len(item.PublishedAt) >= 10 {
		date = item.PublishedAt[:10]
	}
	if !isoDateRe.MatchString(date) {
		date = time.Now().Format("2006-01-02")
	}

	summary := item.Summary
	if summary == "" {
		summary = "Trending item from " + item.Source + "."
	}

	score := item.Score
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	return trend.Card{
		ID:             GenerateID(item.URL, item.Title),
		Title:          item.Title,
		Summary:        summary,
		Category:       inferCategory(item),
		Sources:        []trend.Source{src},
		Date:           date,
		RelevanceScore: score,
		Tags:           append([]string(nil), item.Tags...),
	}
}

// ConvertAll converts every item in order.
func ConvertAll(items []trend.Item) []trend.Card {
	cards := make([]trend.Card, len(items))
	for i, item := range items {
		cards[i] = Convert(item)
	}
	return cards
}
