package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/matheuskafuri/trendradar/internal/trend"
)

func writeJSON(t *testing.T, path string, v any) {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadEnvelopeRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trends.json")
	if _, err := WriteCards([]trend.Card{testCard("a", 60, today())}, path); err != nil {
		t.Fatal(err)
	}

	env, err := LoadEnvelope(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(env.Cards) != 1 || env.Cards[0].ID != "a" {
		t.Errorf("unexpected cards: %+v", env.Cards)
	}
}

func TestLoadEnvelopeRejectsVersionMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trends.json")
	writeJSON(t, path, Envelope{SchemaVersion: 99})

	if _, err := LoadEnvelope(path); err == nil {
		t.Fatal("expected error for schema version mismatch")
	}
}

func TestLoadCardsFromFileSkipsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cards.json")
	valid := testCard("ok", 70, today())
	invalid := testCard("bad", 70, today())
	invalid.Category = "nonsense"
	writeJSON(t, path, []trend.Card{invalid, valid})

	cards, err := LoadCardsFromFile(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(cards) != 1 || cards[0].ID != "ok" {
		t.Errorf("expected only the valid card, got %+v", cards)
	}
}

func TestLoadCardsFromFileSorted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cards.json")
	writeJSON(t, path, []trend.Card{
		testCard("low", 10, today()),
		testCard("high", 95, today()),
	})

	cards, err := LoadCardsFromFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if cards[0].ID != "high" {
		t.Errorf("expected highest score first, got %+v", cards)
	}
}

func TestLoadCardsFromDir(t *testing.T) {
	dir := t.TempDir()
	writeJSON(t, filepath.Join(dir, "a.json"), testCard("a", 40, today()))
	writeJSON(t, filepath.Join(dir, "b.json"), testCard("b", 80, today()))
	if err := os.WriteFile(filepath.Join(dir, "broken.json"), []byte("nope"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignore"), 0o644); err != nil {
		t.Fatal(err)
	}

	cards, err := LoadCardsFromDir(dir, "")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(cards) != 2 {
		t.Fatalf("expected 2 cards, got %d", len(cards))
	}
	if cards[0].ID != "b" {
		t.Errorf("expected score-descending order, got %+v", cards)
	}
}

func TestLoadCardsFromDirCategoryFilter(t *testing.T) {
	dir := t.TempDir()
	serving := testCard("s", 40, today())
	ragCard := testCard("r", 80, today())
	ragCard.Category = trend.CategoryRAG
	writeJSON(t, filepath.Join(dir, "s.json"), serving)
	writeJSON(t, filepath.Join(dir, "r.json"), ragCard)

	cards, err := LoadCardsFromDir(dir, "rag")
	if err != nil {
		t.Fatal(err)
	}
	if len(cards) != 1 || cards[0].ID != "r" {
		t.Errorf("expected only the rag card, got %+v", cards)
	}
}

func TestLoadCardsFromMissingDir(t *testing.T) {
	cards, err := LoadCardsFromDir(filepath.Join(t.TempDir(), "missing"), "")
	if err != nil {
		t.Fatalf("missing dir should not error: %v", err)
	}
	if len(cards) != 0 {
		t.Errorf("expected no cards, got %d", len(cards))
	}
}
