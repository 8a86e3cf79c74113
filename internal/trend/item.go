package trend

// Item is a raw, unvalidated trend item as produced by a source adapter.
// The Score field carries source-native units (e.g. aggregator points) until
// the ranker overwrites it with a normalized 0–100 value. Components
// downstream of an adapter treat Items as values and never mutate them in
// place.
type Item struct {
	Title           string   `json:"title"`
	URL             string   `json:"url"`
	Source          string   `json:"source"`
	Tags            []string `json:"tags"`
	Score           int      `json:"score"`
	PublishedAt     string   `json:"publishedAt"`
	Summary         string   `json:"summary"`
	TrialSuggestion string   `json:"trialRecipeSuggestion"`
}

// Clone returns a copy of the item with its own tag slice.
func (i Item) Clone() Item {
	out := i
	out.Tags = append([]string(nil), i.Tags...)
	return out
}
