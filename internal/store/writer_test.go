package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matheuskafuri/trendradar/internal/trend"
)

func testCard(id string, score int, date string) trend.Card {
	return trend.Card{
		ID:       id,
		Title:    "Card " + id,
		Summary:  "Summary for " + id,
		Category: trend.CategoryServing,
		Sources: []trend.Source{
			{Title: "Card " + id, URL: "https://example.com/" + id, Type: trend.SourceBlog},
		},
		Date:           date,
		RelevanceScore: score,
		Tags:           []string{"test"},
	}
}

func today() string {
	return time.Now().Format("2006-01-02")
}

func TestWriteCreatesEnvelope(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trends.json")

	env, err := WriteCards([]trend.Card{testCard("a", 50, today())}, path)
	if err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if env.SchemaVersion != SchemaVersion {
		t.Errorf("schemaVersion = %d", env.SchemaVersion)
	}
	if len(env.Cards) != 1 {
		t.Fatalf("expected 1 card, got %d", len(env.Cards))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if !strings.HasSuffix(string(data), "\n") {
		t.Error("output should end with a trailing newline")
	}
	if !strings.Contains(string(data), "  \"schemaVersion\"") {
		t.Error("output should be pretty-printed")
	}

	var round Envelope
	if err := json.Unmarshal(data, &round); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
}

func TestMergeHigherScoreWins(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trends.json")

	if _, err := WriteCards([]trend.Card{testCard("dup", 40, today())}, path); err != nil {
		t.Fatal(err)
	}
	env, err := WriteCards([]trend.Card{testCard("dup", 90, today())}, path)
	if err != nil {
		t.Fatal(err)
	}
	if len(env.Cards) != 1 {
		t.Fatalf("expected 1 card, got %d", len(env.Cards))
	}
	if env.Cards[0].RelevanceScore != 90 {
		t.Errorf("expected score 90, got %d", env.Cards[0].RelevanceScore)
	}
}

func TestMergeLowerScoreDoesNotReplace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trends.json")

	if _, err := WriteCards([]trend.Card{testCard("dup", 90, today())}, path); err != nil {
		t.Fatal(err)
	}
	env, err := WriteCards([]trend.Card{testCard("dup", 30, today())}, path)
	if err != nil {
		t.Fatal(err)
	}
	if len(env.Cards) != 1 || env.Cards[0].RelevanceScore != 90 {
		t.Errorf("existing higher score should win, got %+v", env.Cards)
	}
}

func TestMergeTieFavorsIncoming(t *testing.T) {
	existing := testCard("dup", 50, today())
	existing.Title = "old"
	incoming := testCard("dup", 50, today())
	incoming.Title = "new"

	merged := mergeCards([]trend.Card{existing}, []trend.Card{incoming}, time.Now())
	if len(merged) != 1 || merged[0].Title != "new" {
		t.Errorf("tie should favor the incoming card, got %+v", merged)
	}
}

func TestPruneStaleCards(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trends.json")

	old := time.Now().AddDate(0, 0, -45).Format("2006-01-02")
	env, err := WriteCards([]trend.Card{
		testCard("stale", 95, old),
		testCard("fresh", 20, today()),
	}, path)
	if err != nil {
		t.Fatal(err)
	}
	if len(env.Cards) != 1 {
		t.Fatalf("expected stale card pruned, got %d cards", len(env.Cards))
	}
	if env.Cards[0].ID != "fresh" {
		t.Errorf("surviving card = %q, want fresh", env.Cards[0].ID)
	}
}

func TestSortedByScoreDescending(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trends.json")

	env, err := WriteCards([]trend.Card{
		testCard("low", 10, today()),
		testCard("high", 90, today()),
		testCard("mid", 50, today()),
	}, path)
	if err != nil {
		t.Fatal(err)
	}
	for i := 1; i < len(env.Cards); i++ {
		if env.Cards[i-1].RelevanceScore < env.Cards[i].RelevanceScore {
			t.Errorf("cards not sorted descending: %v", env.Cards)
		}
	}
}

func TestCorruptExistingFileIsDiscarded(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trends.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	env, err := WriteCards([]trend.Card{testCard("a", 50, today())}, path)
	if err != nil {
		t.Fatalf("corrupt prior state should not fail the write: %v", err)
	}
	if len(env.Cards) != 1 {
		t.Errorf("expected 1 card, got %d", len(env.Cards))
	}
}

func TestVersionMismatchIsDiscarded(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trends.json")
	old := Envelope{SchemaVersion: 99, GeneratedAt: "2025-01-01T00:00:00Z", Cards: []trend.Card{testCard("old", 80, today())}}
	data, _ := json.Marshal(old)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	env, err := WriteCards([]trend.Card{testCard("a", 50, today())}, path)
	if err != nil {
		t.Fatal(err)
	}
	if len(env.Cards) != 1 || env.Cards[0].ID != "a" {
		t.Errorf("version mismatch should discard prior cards, got %+v", env.Cards)
	}
}

func TestNoTempFileLeftBehind(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "trends.json")

	if _, err := WriteCards([]trend.Card{testCard("a", 50, today())}, path); err != nil {
		t.Fatal(err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}
}
