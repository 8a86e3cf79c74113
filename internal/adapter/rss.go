package adapter

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/matheuskafuri/trendradar/internal/fetchutil"
	"github.com/matheuskafuri/trendradar/internal/trend"
)

// DefaultFeedURLs are the syndication feeds polled by the RSS adapter.
var DefaultFeedURLs = []string{
	"http://export.arxiv.org/rss/cs.AI",
}

// RSS fetches one or more web feeds concurrently. gofeed handles both the
// RDF (items under a namespaced root) and the rss/channel feed shapes.
type RSS struct {
	FeedURLs []string
	Disabled bool

	parser *gofeed.Parser
}

// NewRSS returns the adapter over the default feed set.
func NewRSS(feedURLs ...string) *RSS {
	if len(feedURLs) == 0 {
		feedURLs = DefaultFeedURLs
	}
	return &RSS{FeedURLs: feedURLs, parser: gofeed.NewParser()}
}

func (a *RSS) Name() string  { return "rss" }
func (a *RSS) Enabled() bool { return !a.Disabled }

// Fetch fans out across all configured feeds at once; the feed count is
// small and fixed, so no concurrency bound is applied. Any feed failing
// fails the whole adapter, which the pipeline driver degrades to an empty
// contribution.
func (a *RSS) Fetch(ctx context.Context, opts Options) ([]trend.Item, error) {
	if a.parser == nil {
		a.parser = gofeed.NewParser()
	}

	perFeed := make([][]trend.Item, len(a.FeedURLs))
	errs := make([]error, len(a.FeedURLs))

	var wg sync.WaitGroup
	for i, feedURL := range a.FeedURLs {
		wg.Add(1)
		go func(i int, feedURL string) {
			defer wg.Done()
			perFeed[i], errs[i] = a.fetchFeed(ctx, feedURL, opts)
		}(i, feedURL)
	}
	wg.Wait()

	var items []trend.Item
	for i := range a.FeedURLs {
		if errs[i] != nil {
			return nil, errs[i]
		}
		items = append(items, perFeed[i]...)
	}
	return items, nil
}

func (a *RSS) fetchFeed(ctx context.Context, feedURL string, opts Options) ([]trend.Item, error) {
	resp, err := fetchutil.FetchWithRetry(ctx, feedURL, fetchutil.Options{Timeout: opts.Timeout})
	if err != nil {
		return nil, fmt.Errorf("fetching feed %s: %w", feedURL, err)
	}
	if !resp.OK() {
		return nil, fmt.Errorf("fetching feed %s: %s", feedURL, resp.Status)
	}

	feed, err := a.parser.ParseString(string(resp.Body))
	if err != nil {
		return nil, fmt.Errorf("parsing feed %s: %w", feedURL, err)
	}

	source := feedSource(feedURL)
	now := time.Now()
	items := make([]trend.Item, 0, len(feed.Items))
	for _, entry := range feed.Items {
		title := stripHTML(entry.Title)
		if title == "" || entry.Link == "" {
			continue
		}

		pub := now
		if entry.PublishedParsed != nil {
			pub = *entry.PublishedParsed
		} else if entry.UpdatedParsed != nil {
			pub = *entry.UpdatedParsed
		}

		items = append(items, trend.Item{
			Title:           title,
			URL:             entry.Link,
			Source:          source,
			Tags:            []string{"ai", "paper"},
			Score:           0,
			PublishedAt:     pub.UTC().Format(time.RFC3339),
			Summary:         truncate(stripHTML(entry.Description), 300),
			TrialSuggestion: fmt.Sprintf("Reproduce key finding from %q.", truncate(title, 60)),
		})
	}
	return items, nil
}

// feedSource derives a per-feed source tag from the feed URL's host and
// leading path segment, e.g. export.arxiv.org/rss/cs.AI -> "arxiv-rss".
func feedSource(feedURL string) string {
	u, err := url.Parse(feedURL)
	if err != nil || u.Host == "" {
		return "rss"
	}

	host := strings.TrimPrefix(u.Hostname(), "www.")
	host = strings.TrimPrefix(host, "export.")
	label := host
	if dot := strings.IndexByte(host, '.'); dot > 0 {
		label = host[:dot]
	}

	seg := ""
	for _, part := range strings.Split(u.Path, "/") {
		if part != "" {
			seg = strings.ToLower(part)
			break
		}
	}

	if seg == "" {
		return label
	}
	return label + "-" + seg
}

// stripHTML drops markup and collapses whitespace; feeds routinely embed
// tags in titles and descriptions.
func stripHTML(s string) string {
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
