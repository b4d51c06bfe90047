// Package curator filters the raw news list for one run down to the set the
// analysis pipeline is allowed to see. Filters run in a fixed order: length,
// semantic dedup, hash dedup, date window, recency cap. The output is
// deterministic for identical inputs and idempotent (curating an already
// curated list returns it unchanged).
package curator

import (
	"context"
	"crypto/sha256"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"finreport/pkg/core/llm"
	"finreport/pkg/models"
)

// Config controls the curation filters
type Config struct {
	MinContentLength    int     // minimum content length in runes; shorter items are dropped
	SimilarityThreshold float64 // cosine similarity above which two items are duplicates
	MaxItems            int     // cap on the curated list size
}

// DefaultConfig returns the standard curation parameters
func DefaultConfig() Config {
	return Config{
		MinContentLength:    120,
		SimilarityThreshold: 0.92,
		MaxItems:            50,
	}
}

// Curator applies the filter pipeline to a raw news list
type Curator struct {
	cfg      Config
	embedder llm.Embedder
}

// New creates a Curator. The embedder may be nil, in which case the semantic
// dedup pass is skipped and only the hash pass catches duplicates.
func New(cfg Config, embedder llm.Embedder) *Curator {
	if cfg.MaxItems <= 0 {
		cfg.MaxItems = DefaultConfig().MaxItems
	}
	return &Curator{cfg: cfg, embedder: embedder}
}

// Curate runs the filter pipeline over items for the analysis window
// [start, end]. The returned list is sorted most-recent-first; items with
// equal timestamps keep their original provider order.
func (c *Curator) Curate(ctx context.Context, items []models.NewsItem, start, end time.Time) ([]models.NewsItem, error) {
	kept := make([]models.NewsItem, 0, len(items))
	for _, it := range items {
		if utf8.RuneCountInString(it.Content) < c.cfg.MinContentLength {
			continue
		}
		kept = append(kept, it)
	}

	// Dedup passes keep the earliest item of each duplicate group, so work
	// on an ascending timeline. Stable sort preserves provider order on ties.
	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].PublishedAt.Before(kept[j].PublishedAt)
	})

	var err error
	if c.embedder != nil {
		kept, err = c.semanticDedup(ctx, kept)
		if err != nil {
			return nil, err
		}
	}
	kept = hashDedup(kept)

	windowed := kept[:0]
	for _, it := range kept {
		if it.PublishedAt.Before(start) || it.PublishedAt.After(end) {
			continue
		}
		windowed = append(windowed, it)
	}

	sort.SliceStable(windowed, func(i, j int) bool {
		return windowed[i].PublishedAt.After(windowed[j].PublishedAt)
	})
	if len(windowed) > c.cfg.MaxItems {
		windowed = windowed[:c.cfg.MaxItems]
	}
	return windowed, nil
}

// semanticDedup keeps one representative per embedding-similarity cluster.
// Items arrive sorted by timestamp ascending, so the first member seen of
// each cluster is the earliest and becomes the representative.
func (c *Curator) semanticDedup(ctx context.Context, items []models.NewsItem) ([]models.NewsItem, error) {
	type rep struct {
		item models.NewsItem
		vec  []float32
	}
	var reps []rep

	for _, it := range items {
		vec, err := c.embedder.Embed(ctx, embedText(it))
		if err != nil {
			return nil, fmt.Errorf("failed to embed news item %s: %w", it.URL, err)
		}
		dup := false
		for _, r := range reps {
			if cosine(vec, r.vec) >= c.cfg.SimilarityThreshold {
				dup = true
				break
			}
		}
		if !dup {
			reps = append(reps, rep{item: it, vec: vec})
		}
	}

	out := make([]models.NewsItem, len(reps))
	for i, r := range reps {
		out[i] = r.item
	}
	return out, nil
}

// hashDedup drops verbatim re-posts the semantic pass missed. Items arrive
// sorted by timestamp ascending, so the earliest copy survives.
func hashDedup(items []models.NewsItem) []models.NewsItem {
	seen := make(map[[32]byte]bool, len(items))
	out := items[:0]
	for _, it := range items {
		h := sha256.Sum256([]byte(normalizeForHash(it.Content)))
		if seen[h] {
			continue
		}
		seen[h] = true
		out = append(out, it)
	}
	return out
}

// embedText bounds the embedding input to the title plus a content prefix
func embedText(it models.NewsItem) string {
	const maxRunes = 512
	content := it.Content
	if utf8.RuneCountInString(content) > maxRunes {
		content = string([]rune(content)[:maxRunes])
	}
	return it.Title + "\n" + content
}

// normalizeForHash lowercases and collapses whitespace so that trivial
// formatting differences between re-posts hash identically
func normalizeForHash(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

func cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
