// Package store persists published trend cards. Writes go through a
// versioned JSON envelope merged against the previous run: an incoming card
// replaces a same-id card only when its score is at least as high, stale
// cards are pruned, and the file is replaced atomically so readers never see
// a partial write.
package store

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/matheuskafuri/trendradar/internal/trend"
)

// SchemaVersion identifies the envelope layout. A persisted file with any
// other version is discarded rather than migrated.
const SchemaVersion = 1

// retentionDays is how long a card stays in the envelope after its date.
const retentionDays = 30

// Envelope is the on-disk container for published cards, sorted descending
// by relevance score.
type Envelope struct {
	SchemaVersion int          `json:"schemaVersion"`
	GeneratedAt   string       `json:"generatedAt"`
	Cards         []trend.Card `json:"cards"`
}

// WriteCards merges the incoming cards with whatever is already at path and
// writes the result atomically. Corrupt or version-mismatched prior state is
// treated as empty, never an error: a bad file must not block publishing.
func WriteCards(cards []trend.Card, path string) (*Envelope, error) {
	existing := loadForMerge(path)
	merged := mergeCards(existing, cards, time.Now())

	env := &Envelope{
		SchemaVersion: SchemaVersion,
		GeneratedAt:   time.Now().UTC().Format(time.RFC3339),
		Cards:         merged,
	}

	data, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding envelope: %w", err)
	}
	data = append(data, '\n')

	if err := writeAtomic(path, data); err != nil {
		return nil, err
	}
	return env, nil
}

// mergeCards merges by id (incoming wins on a score tie), prunes stale
// cards, and sorts by score descending. Insertion order is kept as the sort
// tie-break so output is deterministic across runs.
func mergeCards(existing, incoming []trend.Card, now time.Time) []trend.Card {
	byID := make(map[string]trend.Card, len(existing)+len(incoming))
	var order []string

	for _, c := range existing {
		if _, ok := byID[c.ID]; !ok {
			order = append(order, c.ID)
		}
		byID[c.ID] = c
	}
	for _, c := range incoming {
		prev, ok := byID[c.ID]
		if !ok {
			order = append(order, c.ID)
			byID[c.ID] = c
			continue
		}
		if c.RelevanceScore >= prev.RelevanceScore {
			byID[c.ID] = c
		}
	}

	merged := make([]trend.Card, 0, len(order))
	for _, id := range order {
		c := byID[id]
		if isStale(c, now) {
			continue
		}
		merged = append(merged, c)
	}

	sortByScoreDesc(merged)
	return merged
}

// isStale reports whether the card's date is more than the retention window
// before now. Unparsable dates are kept; pruning is for age, not hygiene.
func isStale(c trend.Card, now time.Time) bool {
	d, err := time.Parse("2006-01-02", c.Date)
	if err != nil {
		return false
	}
	return now.Sub(d).Hours()/24 > retentionDays
}

func loadForMerge(path string) []trend.Card {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		slog.Warn("existing trends file is not valid JSON, starting fresh", "path", path)
		return nil
	}
	if env.SchemaVersion != SchemaVersion {
		slog.Warn("existing trends file has unexpected schema version, starting fresh",
			"path", path, "got", env.SchemaVersion, "want", SchemaVersion)
		return nil
	}
	return env.Cards
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".trends-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("setting file mode: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}
