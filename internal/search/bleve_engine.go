package search

import (
	"sort"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
	bleveQuery "github.com/blevesearch/bleve/v2/search/query"

	"github.com/pders01/nds/internal/storage"
)

type BleveEngine struct {
	store *storage.Store
	idx   bleve.Index
}

// NewBleveEngine builds an in-memory index over the stored posts and news.
func NewBleveEngine(store *storage.Store) (*BleveEngine, error) {
	idx, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, err
	}
	be := &BleveEngine{store: store, idx: idx}
	if err := be.reindexAll(); err != nil {
		idx.Close()
		return nil, err
	}
	return be, nil
}

func buildIndexMapping() mapping.IndexMapping {
	im := bleve.NewIndexMapping()
	im.DefaultAnalyzer = standard.Name

	dm := bleve.NewDocumentMapping()

	text := func(store bool) *mapping.FieldMapping {
		fm := bleve.NewTextFieldMapping()
		fm.Analyzer = standard.Name
		fm.Store = store
		return fm
	}

	dm.AddFieldMappingsAt("title", text(true))
	dm.AddFieldMappingsAt("body", text(false))
	dm.AddFieldMappingsAt("author", text(true))
	dm.AddFieldMappingsAt("category", text(true))

	kind := bleve.NewKeywordFieldMapping()
	kind.Store = true
	dm.AddFieldMappingsAt("kind", kind)

	im.DefaultMapping = dm
	return im
}

func (b *BleveEngine) reindexAll() error {
	posts, err := b.store.GetPosts()
	if err != nil {
		return err
	}
	items, err := b.store.GetNewsItems("", 0)
	if err != nil {
		return err
	}

	batch := b.idx.NewBatch()
	for _, p := range posts {
		if err := batch.Index(docIDForPost(p.ID), postDoc(p)); err != nil {
			return err
		}
	}
	for _, n := range items {
		if err := batch.Index(docIDForNews(n.ID), newsDoc(n)); err != nil {
			return err
		}
	}
	return b.idx.Batch(batch)
}

func postDoc(p *storage.Post) map[string]any {
	return map[string]any{
		"kind":   string(KindPost),
		"body":   p.Content,
		"author": p.Author,
	}
}

func newsDoc(n *storage.NewsItem) map[string]any {
	return map[string]any{
		"kind":     string(KindNews),
		"title":    n.Title,
		"body":     n.Summary + " " + n.Content,
		"category": n.Category,
	}
}

func (b *BleveEngine) Search(query string, limit int) ([]*Result, error) {
	tokens := tokenize(query)
	if len(strings.TrimSpace(query)) < 2 || len(tokens) == 0 {
		return []*Result{}, nil
	}
	if limit <= 0 {
		limit = 20
	}

	boosts := []struct {
		field string
		boost float64
	}{
		{"title", 4.0},
		{"body", 2.0},
		{"author", 1.0},
		{"category", 1.0},
	}
	var qs []bleveQuery.Query
	for _, tok := range tokens {
		for _, f := range boosts {
			mq := bleve.NewMatchQuery(tok)
			mq.SetField(f.field)
			mq.SetBoost(f.boost)
			qs = append(qs, mq)

			pq := bleve.NewPrefixQuery(tok)
			pq.SetField(f.field)
			pq.SetBoost(f.boost * 0.8)
			qs = append(qs, pq)
		}
	}

	req := bleve.NewSearchRequestOptions(bleve.NewDisjunctionQuery(qs...), limit, 0, false)
	res, err := b.idx.Search(req)
	if err != nil {
		return nil, err
	}

	out := make([]*Result, 0, len(res.Hits))
	for _, h := range res.Hits {
		switch {
		case strings.HasPrefix(h.ID, "post:"):
			p, err := b.store.GetPost(strings.TrimPrefix(h.ID, "post:"))
			if err != nil {
				continue
			}
			out = append(out, &Result{Kind: KindPost, Post: p, Score: h.Score, Snippet: bestSnippet(p.Content, tokens, 120)})
		case strings.HasPrefix(h.ID, "news:"):
			n := b.lookupNews(strings.TrimPrefix(h.ID, "news:"))
			if n == nil {
				continue
			}
			out = append(out, &Result{Kind: KindNews, News: n, Score: h.Score, Snippet: bestSnippet(n.Summary, tokens, 120)})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out, nil
}

func (b *BleveEngine) lookupNews(id string) *storage.NewsItem {
	items, err := b.store.GetNewsItems("", 0)
	if err != nil {
		return nil
	}
	for _, n := range items {
		if n.ID == id {
			return n
		}
	}
	return nil
}

func (b *BleveEngine) OnPostsUpdated(posts []*storage.Post) {
	batch := b.idx.NewBatch()
	for _, p := range posts {
		_ = batch.Index(docIDForPost(p.ID), postDoc(p))
	}
	_ = b.idx.Batch(batch)
}

func (b *BleveEngine) OnNewsUpdated(items []*storage.NewsItem) {
	batch := b.idx.NewBatch()
	for _, n := range items {
		_ = batch.Index(docIDForNews(n.ID), newsDoc(n))
	}
	_ = b.idx.Batch(batch)
}

func (b *BleveEngine) DocCount() (int, error) {
	n, err := b.idx.DocCount()
	return int(n), err
}

func (b *BleveEngine) Close() error { return b.idx.Close() }

func docIDForPost(id string) string { return "post:" + id }
func docIDForNews(id string) string { return "news:" + id }
