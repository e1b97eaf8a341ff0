package search

import "github.com/pders01/nds/internal/storage"

// Kind says which collection a result came from.
type Kind string

const (
	KindPost Kind = "post"
	KindNews Kind = "news"
)

// Result is one search hit. Exactly one of Post and News is set.
type Result struct {
	Kind    Kind
	Post    *storage.Post
	News    *storage.NewsItem
	Score   float64
	Snippet string
}

// Searcher is the search API used by the TUI.
type Searcher interface {
	Search(query string, limit int) ([]*Result, error)
}

// UpdateListener is implemented by engines that keep their own index and
// need to hear about new or changed documents.
type UpdateListener interface {
	OnPostsUpdated(posts []*storage.Post)
	OnNewsUpdated(items []*storage.NewsItem)
}

// DocCounter reports the number of indexed documents.
type DocCounter interface {
	DocCount() (int, error)
}

// New returns the bleve engine, or the scanning engine when the index
// cannot be built.
func New(store *storage.Store) Searcher {
	if eng, err := NewBleveEngine(store); err == nil {
		return eng
	}
	return NewEngine(store)
}
