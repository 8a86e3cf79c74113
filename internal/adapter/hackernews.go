package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/matheuskafuri/trendradar/internal/fetchutil"
	"github.com/matheuskafuri/trendradar/internal/trend"
)

const (
	hnTopStoriesURL = "https://hacker-news.firebaseio.com/v0/topstories.json"
	hnItemURLBase   = "https://hacker-news.firebaseio.com/v0/item"

	// hnDefaultMaxStories bounds how many top stories are examined.
	hnDefaultMaxStories = 30

	// hnStoryConcurrency is the per-story fetch limit.
	hnStoryConcurrency = 5
)

// hnKeywords filters stories to AI/ML/infra topics. Partial stems match
// inflected forms via substring search.
var hnKeywords = []string{
	"ai", "llm", "gpt", "ml", "machine learning", "deep learning", "neural",
	"transformer", "diffusion", "inference", "gpu", "cuda", "vllm", "rag",
	"vector", "embedding", "serving", "deploy", "latency", "throughput",
	"fine-tun", "lora", "quantiz", "ggml", "gguf", "ollama", "openai",
	"anthropic", "claude", "langchain", "llama", "mistral",
}

// HackerNews fetches the top-story list and hydrates matching stories
// through the bounded executor.
type HackerNews struct {
	// TopStoriesURL and ItemURLBase exist for tests; zero values use the
	// live endpoints.
	TopStoriesURL string
	ItemURLBase   string
	Disabled      bool
}

// NewHackerNews returns the adapter over the public API.
func NewHackerNews() *HackerNews {
	return &HackerNews{}
}

func (a *HackerNews) Name() string  { return "hackernews" }
func (a *HackerNews) Enabled() bool { return !a.Disabled }

type hnStory struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url"`
	Score int    `json:"score"`
	Time  int64  `json:"time"`
	Type  string `json:"type"`
}

// Fetch returns AI-relevant top stories. A single story failing to load is
// silently skipped; the top-level ID list failing fails the whole adapter.
func (a *HackerNews) Fetch(ctx context.Context, opts Options) ([]trend.Item, error) {
	ids, err := a.fetchStoryIDs(ctx, opts)
	if err != nil {
		return nil, err
	}

	tasks := make([]fetchutil.Task[*hnStory], len(ids))
	for i, id := range ids {
		tasks[i] = func(ctx context.Context) *hnStory {
			return a.fetchStory(ctx, id, opts)
		}
	}
	stories, err := fetchutil.RunWithConcurrency(ctx, tasks, hnStoryConcurrency)
	if err != nil {
		return nil, err
	}

	var items []trend.Item
	for _, story := range stories {
		if story == nil || story.Title == "" || story.URL == "" {
			continue
		}
		if !matchesKeywords(story.Title) {
			continue
		}
		items = append(items, toItem(story))
	}
	return items, nil
}

func (a *HackerNews) fetchStoryIDs(ctx context.Context, opts Options) ([]int, error) {
	topURL := a.TopStoriesURL
	if topURL == "" {
		topURL = hnTopStoriesURL
	}

	resp, err := fetchutil.FetchWithRetry(ctx, topURL, fetchutil.Options{Timeout: opts.Timeout})
	if err != nil {
		return nil, fmt.Errorf("fetching top stories: %w", err)
	}
	if !resp.OK() {
		return nil, fmt.Errorf("fetching top stories: %s", resp.Status)
	}

	var ids []int
	if err := json.Unmarshal(resp.Body, &ids); err != nil {
		return nil, fmt.Errorf("parsing top stories: %w", err)
	}

	max := opts.MaxItems
	if max <= 0 {
		max = hnDefaultMaxStories
	}
	if len(ids) > max {
		ids = ids[:max]
	}
	return ids, nil
}

// fetchStory returns nil on any failure; one broken story must not take the
// adapter down.
func (a *HackerNews) fetchStory(ctx context.Context, id int, opts Options) *hnStory {
	base := a.ItemURLBase
	if base == "" {
		base = hnItemURLBase
	}

	resp, err := fetchutil.FetchWithRetry(ctx, fmt.Sprintf("%s/%d.json", base, id), fetchutil.Options{Timeout: opts.Timeout})
	if err != nil || !resp.OK() {
		return nil
	}

	var story hnStory
	if err := json.Unmarshal(resp.Body, &story); err != nil {
		return nil
	}
	return &story
}

func matchesKeywords(title string) bool {
	lower := strings.ToLower(title)
	for _, kw := range hnKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func toItem(story *hnStory) trend.Item {
	publishedAt := time.Now().UTC().Format(time.RFC3339)
	if story.Time > 0 {
		publishedAt = time.Unix(story.Time, 0).UTC().Format(time.RFC3339)
	}

	return trend.Item{
		Title:           story.Title,
		URL:             story.URL,
		Source:          "hackernews",
		Tags:            []string{"hackernews"},
		Score:           story.Score,
		PublishedAt:     publishedAt,
		Summary:         fmt.Sprintf("Hacker News discussion with %d points.", story.Score),
		TrialSuggestion: fmt.Sprintf("Explore and evaluate %q.", truncate(story.Title, 60)),
	}
}
