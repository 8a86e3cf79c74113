package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matheuskafuri/trendradar/internal/adapter"
	"github.com/matheuskafuri/trendradar/internal/cache"
	"github.com/matheuskafuri/trendradar/internal/card"
	"github.com/matheuskafuri/trendradar/internal/config"
	"github.com/matheuskafuri/trendradar/internal/dedup"
	"github.com/matheuskafuri/trendradar/internal/pipeline"
	"github.com/matheuskafuri/trendradar/internal/rank"
	"github.com/matheuskafuri/trendradar/internal/store"
	"github.com/matheuskafuri/trendradar/internal/trend"
)

var (
	flagOutput   string
	flagJSON     bool
	flagMaxItems int
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch, rank, and publish current trends",
	Long: `Fetch trend items from all enabled sources, deduplicate and rank them,
and print the resulting trend cards. With --output, the cards are merged
into the envelope file at that path.`,
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "merge cards into this envelope file")
	fetchCmd.Flags().BoolVar(&flagJSON, "json", false, "print cards as JSON instead of a table")
	fetchCmd.Flags().IntVar(&flagMaxItems, "max-items", 0, "max stories to examine per source (0 = config default)")
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	adapters, err := buildAdapters(cfg)
	if err != nil {
		return err
	}

	maxItems := flagMaxItems
	if maxItems <= 0 {
		maxItems = cfg.MaxItems
	}

	output := flagOutput
	if output == "" {
		output = cfg.Output
	}
	if output != "" {
		output, err = filepath.Abs(output)
		if err != nil {
			return fmt.Errorf("resolving output path: %w", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	opts := adapter.Options{Timeout: cfg.TimeoutDuration(), MaxItems: maxItems}
	raw := pipeline.FetchItems(ctx, adapters, opts, nil)
	unique := dedup.Dedup(raw)

	if cfg.History {
		recordHistory(unique)
	}

	ranked := rank.Rank(unique, cfg.RankConfig())
	cards := card.ConvertAll(ranked)

	if output != "" {
		if _, err := store.WriteCards(cards, output); err != nil {
			return fmt.Errorf("writing %s: %w", output, err)
		}
		fmt.Printf("%s %d trend cards to %s\n", successStyle.Render("Saved"), len(cards), output)
		return nil
	}
	if flagJSON {
		data, err := json.MarshalIndent(cards, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	printCardsTable(cards)
	return nil
}

func buildAdapters(cfg *config.Config) ([]adapter.Adapter, error) {
	var feedURLs []string
	hackernews := false
	for _, s := range cfg.EnabledSources() {
		switch s.Type {
		case "rss":
			feedURLs = append(feedURLs, s.URL)
		case "hackernews":
			hackernews = true
		default:
			return nil, fmt.Errorf("source %q: unknown type %q", s.Name, s.Type)
		}
	}

	var adapters []adapter.Adapter
	if len(feedURLs) > 0 {
		adapters = append(adapters, adapter.NewRSS(feedURLs...))
	}
	if hackernews {
		adapters = append(adapters, adapter.NewHackerNews())
	}
	if len(adapters) == 0 {
		return nil, fmt.Errorf("no sources enabled; check %s", config.DefaultConfigPath())
	}
	return adapters, nil
}

func recordHistory(items []trend.Item) {
	db, err := cache.Open(config.HistoryPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: history cache unavailable: %v\n", err)
		return
	}
	defer db.Close()
	if err := db.RecordItems(items, time.Now()); err != nil {
		fmt.Fprintf(os.Stderr, "warning: recording history failed: %v\n", err)
	}
}

func printCardsTable(cards []trend.Card) {
	if len(cards) == 0 {
		fmt.Println("No trends found.")
		return
	}

	fmt.Println()
	fmt.Println(headerStyle.Render(pad("Score", 8) + pad("Category", 12) + pad("Date", 12) + "Title"))
	fmt.Println(dimStyle.Render(strings.Repeat("-", 80)))
	for _, c := range cards {
		row := pad(fmt.Sprintf("%d", c.RelevanceScore), 8) +
			categoryBadge(string(c.Category)) + strings.Repeat(" ", padWidth(string(c.Category), 12)) +
			dimStyle.Render(pad(c.Date, 12)) +
			c.Title
		fmt.Println(row)
	}
	fmt.Println()
	fmt.Println(dimStyle.Render(fmt.Sprintf("%d trends total", len(cards))))
}

func pad(s string, width int) string {
	return s + strings.Repeat(" ", padWidth(s, width))
}

func padWidth(s string, width int) int {
	if n := width - len(s); n > 1 {
		return n
	}
	return 1
}
