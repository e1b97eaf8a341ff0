package tui

import (
	"github.com/pders01/nds/internal/feed"
	"github.com/pders01/nds/internal/search"
	"github.com/pders01/nds/internal/storage"
)

// Mode is the input layer on top of the current section.
type Mode int

const (
	ModeBrowse Mode = iota
	ModeReader
	ModePostDialog
	ModeSearch
)

type seededMsg struct {
	err error
}

type postsLoadedMsg struct {
	posts []*storage.Post
}

type newsLoadedMsg struct {
	items []*storage.NewsItem
}

type newsRefreshedMsg struct {
	result feed.Result
	err    error
}

type postCreatedMsg struct {
	post *storage.Post
	err  error
}

type postLikedMsg struct {
	post *storage.Post
	err  error
}

type linkOpenedMsg struct {
	err error
}

type linkCopiedMsg struct {
	err error
}

type articleRenderedMsg struct {
	content string
}

type searchResultsMsg struct {
	query   string
	results []*search.Result
}

type searchDebounceFireMsg struct {
	seq int
}

type toastExpiredMsg struct {
	seq int
}

type errorMsg struct {
	err error
}
