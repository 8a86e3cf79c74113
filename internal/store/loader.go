package store

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/matheuskafuri/trendradar/internal/trend"
)

// LoadEnvelope reads a persisted envelope. Unlike the merge path, readers
// want a real error for a missing or unreadable file.
func LoadEnvelope(path string) (*Envelope, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if env.SchemaVersion != SchemaVersion {
		return nil, fmt.Errorf("%s: schema version %d, expected %d", path, env.SchemaVersion, SchemaVersion)
	}
	return &env, nil
}

// LoadCardsFromFile reads a JSON array of cards, skipping invalid entries
// with a warning. The result is sorted descending by relevance score.
func LoadCardsFromFile(path string) ([]trend.Card, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var raw []trend.Card
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing %s: expected a JSON array of cards: %w", path, err)
	}

	cards := make([]trend.Card, 0, len(raw))
	for _, c := range raw {
		if errs := trend.ValidateCard(c); len(errs) > 0 {
			slog.Warn("skipping invalid card", "file", path, "reason", errs[0].Error())
			continue
		}
		cards = append(cards, c)
	}

	sortByScoreDesc(cards)
	return cards, nil
}

// LoadCardsFromDir reads every *.json file in dir as a single card, skipping
// unreadable or invalid ones with a warning. A missing directory yields an
// empty result. Cards are sorted descending by score; category, when
// non-empty, filters the result.
func LoadCardsFromDir(dir, category string) ([]trend.Card, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}

	var cards []trend.Card
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			slog.Warn("skipping unreadable card file", "file", path, "err", err)
			continue
		}
		var c trend.Card
		if err := json.Unmarshal(data, &c); err != nil {
			slog.Warn("skipping card file with invalid JSON", "file", path)
			continue
		}
		if errs := trend.ValidateCard(c); len(errs) > 0 {
			slog.Warn("skipping invalid card", "file", path, "reason", errs[0].Error())
			continue
		}
		cards = append(cards, c)
	}

	sortByScoreDesc(cards)

	if category != "" {
		filtered := cards[:0]
		for _, c := range cards {
			if string(c.Category) == category {
				filtered = append(filtered, c)
			}
		}
		cards = filtered
	}
	return cards, nil
}

func sortByScoreDesc(cards []trend.Card) {
	sort.SliceStable(cards, func(i, j int) bool {
		return cards[i].RelevanceScore > cards[j].RelevanceScore
	})
}
