// Package pipeline wires the ingestion stages together: adapters fetch raw
// items concurrently, then dedup, rank, card conversion, and an optional
// merge-write run in sequence. One adapter failing degrades the run to
// whatever the others produced; it never aborts it.
package pipeline

import (
	"context"
	"log/slog"
	"sync"

	"github.com/matheuskafuri/trendradar/internal/adapter"
	"github.com/matheuskafuri/trendradar/internal/card"
	"github.com/matheuskafuri/trendradar/internal/dedup"
	"github.com/matheuskafuri/trendradar/internal/rank"
	"github.com/matheuskafuri/trendradar/internal/store"
	"github.com/matheuskafuri/trendradar/internal/trend"
)

// Options configures a pipeline run. Zero values mean: default adapters,
// default rank config, no persistence.
type Options struct {
	Adapters       []adapter.Adapter
	AdapterOptions adapter.Options

	// RankConfig overrides the default ranking weights when non-nil.
	RankConfig *rank.Config

	// OutputPath, when set, merge-writes the resulting cards there.
	OutputPath string

	Logger *slog.Logger
}

// DefaultAdapters returns the standard source set.
func DefaultAdapters() []adapter.Adapter {
	return []adapter.Adapter{adapter.NewRSS(), adapter.NewHackerNews()}
}

// FetchItems runs every enabled adapter concurrently and returns the union
// of their output in adapter order. A failing adapter is logged and
// contributes nothing.
func FetchItems(ctx context.Context, adapters []adapter.Adapter, opts adapter.Options, logger *slog.Logger) []trend.Item {
	if logger == nil {
		logger = slog.Default()
	}

	type result struct {
		items []trend.Item
		err   error
	}

	var enabled []adapter.Adapter
	for _, a := range adapters {
		if a.Enabled() {
			enabled = append(enabled, a)
		}
	}

	results := make([]result, len(enabled))
	var wg sync.WaitGroup
	for i, a := range enabled {
		wg.Add(1)
		go func(i int, a adapter.Adapter) {
			defer wg.Done()
			items, err := a.Fetch(ctx, opts)
			results[i] = result{items: items, err: err}
		}(i, a)
	}
	wg.Wait()

	var all []trend.Item
	for i, r := range results {
		if r.err != nil {
			logger.Warn("adapter fetch failed, skipping", "adapter", enabled[i].Name(), "err", r.err)
			continue
		}
		all = append(all, r.items...)
	}
	return all
}

// Run executes the full pipeline and returns the published cards, highest
// score first. When Options.OutputPath is set the cards are also merged
// into the envelope at that path.
func Run(ctx context.Context, opts Options) ([]trend.Card, error) {
	adapters := opts.Adapters
	if adapters == nil {
		adapters = DefaultAdapters()
	}
	cfg := rank.DefaultConfig()
	if opts.RankConfig != nil {
		cfg = *opts.RankConfig
	}

	raw := FetchItems(ctx, adapters, opts.AdapterOptions, opts.Logger)
	unique := dedup.Dedup(raw)
	ranked := rank.Rank(unique, cfg)
	cards := card.ConvertAll(ranked)

	if opts.OutputPath != "" {
		if _, err := store.WriteCards(cards, opts.OutputPath); err != nil {
			return nil, err
		}
	}
	return cards, nil
}
