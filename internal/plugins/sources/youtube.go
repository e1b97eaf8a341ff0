package sources

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/pders01/nds/internal/plugins"
)

const (
	youtubeFeedBase = "https://www.youtube.com/feeds/videos.xml"
	maxChannelPage  = 2 << 20
)

var (
	youtubeHosts = []string{"youtube.com", "www.youtube.com", "m.youtube.com"}
	channelIDRe  = regexp.MustCompile(`(?:"channelId":"|/channel/)(UC[0-9A-Za-z_-]{22})`)
)

// YouTubePlugin maps channel, handle and playlist URLs to the channel's
// video feed. Handles need one page fetch to find the channel ID.
type YouTubePlugin struct {
	// PageBase is where handle pages are fetched from.
	PageBase string
}

func NewYouTubePlugin() *YouTubePlugin {
	return &YouTubePlugin{PageBase: "https://www.youtube.com/"}
}

func (p *YouTubePlugin) Name() string { return "youtube" }

func (p *YouTubePlugin) Priority() int { return 50 }

func (p *YouTubePlugin) CanHandle(raw string) bool {
	u, ok := hostIs(raw, youtubeHosts...)
	if !ok {
		return false
	}
	segs := segments(u)
	switch {
	case len(segs) >= 2 && segs[0] == "channel":
		return true
	case len(segs) >= 1 && strings.HasPrefix(segs[0], "@"):
		return true
	case len(segs) == 1 && segs[0] == "playlist":
		return u.Query().Get("list") != ""
	}
	return false
}

func (p *YouTubePlugin) EnhanceFeed(ctx context.Context, raw string, client *http.Client) (*plugins.FeedInfo, error) {
	u, ok := hostIs(raw, youtubeHosts...)
	if !ok {
		return nil, fmt.Errorf("not a youtube URL: %s", raw)
	}
	segs := segments(u)
	info := &plugins.FeedInfo{
		OriginalURL: raw,
		Metadata:    map[string]string{"plugin": "youtube"},
	}

	switch {
	case len(segs) >= 2 && segs[0] == "channel":
		info.FeedURL = youtubeFeedBase + "?channel_id=" + url.QueryEscape(segs[1])
		info.Title = "YouTube - " + segs[1]
		info.Metadata["channel_id"] = segs[1]

	case len(segs) >= 1 && strings.HasPrefix(segs[0], "@"):
		id, err := p.lookupChannelID(ctx, client, segs[0])
		if err != nil {
			return nil, err
		}
		info.FeedURL = youtubeFeedBase + "?channel_id=" + url.QueryEscape(id)
		info.Title = "YouTube - " + segs[0]
		info.Metadata["channel_id"] = id
		info.Metadata["handle"] = segs[0]

	case u.Query().Get("list") != "":
		list := u.Query().Get("list")
		info.FeedURL = youtubeFeedBase + "?playlist_id=" + url.QueryEscape(list)
		info.Title = "YouTube playlist"
		info.Metadata["playlist_id"] = list

	default:
		return nil, fmt.Errorf("unsupported youtube URL: %s", raw)
	}
	return info, nil
}

func (p *YouTubePlugin) lookupChannelID(ctx context.Context, client *http.Client, handle string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimRight(p.PageBase, "/")+"/"+handle, nil)
	if err != nil {
		return "", err
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching channel page: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetching channel page: HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxChannelPage))
	if err != nil {
		return "", fmt.Errorf("reading channel page: %w", err)
	}
	m := channelIDRe.FindSubmatch(body)
	if m == nil {
		return "", fmt.Errorf("no channel ID found for %s", handle)
	}
	return string(m[1]), nil
}
