package tui

import "fmt"

// Canonical short status messages used across the app.
const (
	MsgRefreshing     = "Refreshing…"
	MsgLoadingArticle = "Loading article…"
	MsgNoResults      = "No results"
	MsgPostCreated    = "Post created successfully!"
	MsgPostLiked      = "Post liked!"
	MsgCommentsSoon   = "Comments feature coming soon!"
	MsgLinkCopied     = "Link copied to clipboard!"
	MsgLinkOpened     = "Opening link…"
	MsgOpenFailed     = "Unable to open link"
	MsgCopyFailed     = "Unable to copy link"
	MsgNoFeeds        = "No news feeds configured"
)

func MsgResultsCount(n int) string {
	if n == 1 {
		return "1 result"
	}
	return fmt.Sprintf("%d results", n)
}

func MsgRefreshSummary(updatedFeeds, failed, docCount int) string {
	base := fmt.Sprintf("Refreshed: %d feeds", updatedFeeds)
	if failed > 0 {
		base += fmt.Sprintf(" • %d errors", failed)
	}
	if docCount >= 0 {
		base += fmt.Sprintf(" • idx: %d docs", docCount)
	}
	return base
}
