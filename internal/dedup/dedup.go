// Package dedup removes duplicate and near-duplicate trend items collected
// across sources. Three passes run in sequence, each over the survivors of
// the previous: an exact title+URL key pass, a cross-source URL pass, and a
// fuzzy same-host title pass. The first surviving occurrence keeps its
// position, so the pipeline's source order is stable.
package dedup

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/matheuskafuri/trendradar/internal/trend"
)

// fuzzyThreshold is the Dice bigram similarity at or above which two titles
// on the same host are considered the same story.
const fuzzyThreshold = 0.85

// Dedup returns the items with duplicates removed, preserving the order of
// first surviving occurrence. It never mutates its input.
func Dedup(items []trend.Item) []trend.Item {
	return fuzzyPass(crossSourcePass(exactPass(items)))
}

// exactPass keeps the first occurrence of each normalized title+URL key.
func exactPass(items []trend.Item) []trend.Item {
	seen := make(map[string]bool, len(items))
	out := make([]trend.Item, 0, len(items))
	for _, item := range items {
		key := normalizeTitle(item.Title) + "|" + NormalizeURL(item.URL)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, item)
	}
	return out
}

// crossSourcePass collapses items that share a normalized URL but come from
// different sources, keeping the highest-scored one (ties keep the first
// seen). Items sharing a URL within a single source are left alone; they are
// treated as genuinely distinct entries.
func crossSourcePass(items []trend.Item) []trend.Item {
	type group struct {
		sources map[string]bool
		best    int // index into items
	}
	groups := make(map[string]*group)
	for i, item := range items {
		key := NormalizeURL(item.URL)
		g, ok := groups[key]
		if !ok {
			groups[key] = &group{sources: map[string]bool{item.Source: true}, best: i}
			continue
		}
		g.sources[item.Source] = true
		if item.Score > items[g.best].Score {
			g.best = i
		}
	}

	out := make([]trend.Item, 0, len(items))
	for i, item := range items {
		g := groups[NormalizeURL(item.URL)]
		if len(g.sources) > 1 && g.best != i {
			continue
		}
		out = append(out, item)
	}
	return out
}

// fuzzyPass compares every remaining pair on the same hostname and drops the
// lower-scored item when their titles are near-identical (ties drop the
// second). Pairs on different hosts are never compared. Quadratic, but the
// earlier passes keep the survivor count small.
func fuzzyPass(items []trend.Item) []trend.Item {
	hosts := make([]string, len(items))
	grams := make([]map[string]bool, len(items))
	for i, item := range items {
		hosts[i] = hostOf(item.URL)
		grams[i] = bigrams(normalizeTitle(item.Title))
	}

	dropped := make([]bool, len(items))
	for i := range items {
		if dropped[i] {
			continue
		}
		for j := i + 1; j < len(items); j++ {
			if dropped[j] || hosts[i] == "" || hosts[i] != hosts[j] {
				continue
			}
			if diceSimilarity(grams[i], grams[j]) >= fuzzyThreshold {
				if items[j].Score > items[i].Score {
					dropped[i] = true
					break
				}
				dropped[j] = true
			}
		}
	}

	out := make([]trend.Item, 0, len(items))
	for i, item := range items {
		if !dropped[i] {
			out = append(out, item)
		}
	}
	return out
}

var (
	punctRe = regexp.MustCompile(`[^\w\s]`)
	spaceRe = regexp.MustCompile(`\s+`)
)

func normalizeTitle(title string) string {
	s := strings.ToLower(title)
	s = punctRe.ReplaceAllString(s, "")
	s = spaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// NormalizeURL strips the scheme, a leading www., and any trailing slash.
// Malformed URLs fall back to a best-effort string normalization instead of
// failing.
func NormalizeURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return fallbackNormalizeURL(raw)
	}
	host := strings.TrimPrefix(strings.ToLower(u.Host), "www.")
	path := strings.TrimSuffix(u.Path, "/")
	s := host + path
	if u.RawQuery != "" {
		s += "?" + u.RawQuery
	}
	return s
}

func fallbackNormalizeURL(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.TrimPrefix(s, "https://")
	s = strings.TrimPrefix(s, "http://")
	s = strings.TrimPrefix(s, "www.")
	return strings.TrimSuffix(s, "/")
}

// hostOf returns the lowercased hostname with any www. prefix removed, or
// "" when no host can be determined.
func hostOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}

// bigrams returns the set of distinct character bigrams in s.
func bigrams(s string) map[string]bool {
	runes := []rune(s)
	set := make(map[string]bool, len(runes))
	for i := 0; i+1 < len(runes); i++ {
		set[string(runes[i:i+2])] = true
	}
	return set
}

// diceSimilarity computes 2·|A∩B| / (|A|+|B|) over bigram sets.
func diceSimilarity(a, b map[string]bool) float64 {
	if len(a)+len(b) == 0 {
		return 0
	}
	inter := 0
	for g := range a {
		if b[g] {
			inter++
		}
	}
	return 2 * float64(inter) / float64(len(a)+len(b))
}
