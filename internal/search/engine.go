package search

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/pders01/nds/internal/storage"
)

// Engine scores posts and news by scanning the store. It needs no index.
type Engine struct {
	store *storage.Store
}

func NewEngine(store *storage.Store) *Engine {
	return &Engine{store: store}
}

func (e *Engine) Search(query string, limit int) ([]*Result, error) {
	terms := tokenize(query)
	if len(strings.TrimSpace(query)) < 2 || len(terms) == 0 {
		return []*Result{}, nil
	}

	var results []*Result

	posts, err := e.store.GetPosts()
	if err != nil {
		return nil, err
	}
	for _, p := range posts {
		score := scoreField(p.Content, terms, 2.0) + scoreField(p.Author, terms, 1.0)
		if score > 0 {
			results = append(results, &Result{
				Kind:    KindPost,
				Post:    p,
				Score:   score,
				Snippet: bestSnippet(p.Content, terms, 120),
			})
		}
	}

	items, err := e.store.GetNewsItems("", 0)
	if err != nil {
		return nil, err
	}
	for _, n := range items {
		score := scoreField(n.Title, terms, 4.0) +
			scoreField(n.Summary, terms, 2.0) +
			scoreField(n.Category, terms, 1.0)
		if score > 0 {
			results = append(results, &Result{
				Kind:    KindNews,
				News:    n,
				Score:   score,
				Snippet: bestSnippet(n.Summary, terms, 120),
			})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// scoreField rewards substring, whole-word and partial-word hits, then
// weighs by term density.
func scoreField(text string, terms []string, weight float64) float64 {
	if text == "" {
		return 0
	}

	lower := strings.ToLower(text)
	words := tokenize(text)
	if len(words) == 0 {
		return 0
	}

	var score float64
	matched := 0
	for _, term := range terms {
		if strings.Contains(lower, term) {
			score += 2.0
			matched++
		}
		for _, word := range words {
			switch {
			case word == term:
				score += 1.5
				matched++
			case strings.HasPrefix(word, term) || strings.HasSuffix(word, term):
				score += 1.0
				matched++
			case strings.Contains(word, term):
				score += 0.5
				matched++
			}
		}
	}
	if score == 0 {
		return 0
	}

	if len(terms) > 1 && matched > 1 {
		score *= 1.0 + float64(matched)/float64(len(terms))
	}
	tf := float64(matched) / float64(len(words))
	score *= 1.0 + math.Log(1.0+tf)

	return score * weight
}

// bestSnippet picks the window of words with the most term hits.
func bestSnippet(text string, terms []string, maxLength int) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}

	window := maxLength / 8
	if window < 1 || window >= len(words) {
		return truncate(text, maxLength)
	}

	best, bestStart := -1, 0
	for i := 0; i+window <= len(words); i++ {
		chunk := strings.ToLower(strings.Join(words[i:i+window], " "))
		hits := 0
		for _, term := range terms {
			if strings.Contains(chunk, term) {
				hits++
			}
		}
		if hits > best {
			best, bestStart = hits, i
		}
	}
	return truncate(strings.Join(words[bestStart:bestStart+window], " "), maxLength)
}

// tokenize lowercases text and splits it on anything that is not a letter,
// mark or digit. Single-rune tokens are dropped.
func tokenize(text string) []string {
	var terms []string
	var current []rune

	flush := func() {
		if len(current) > 1 {
			terms = append(terms, string(current))
		}
		current = current[:0]
	}
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsMark(r) || unicode.IsNumber(r) {
			current = append(current, unicode.ToLower(r))
			continue
		}
		flush()
	}
	flush()
	return terms
}

func truncate(text string, maxLen int) string {
	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}
	return string(runes[:maxLen-1]) + "…"
}
