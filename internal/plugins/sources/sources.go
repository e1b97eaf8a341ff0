// Package sources holds the built-in news source plugins.
package sources

import (
	"net/url"
	"strings"

	"github.com/pders01/nds/internal/plugins"
)

// Defaults returns every built-in plugin.
func Defaults() []plugins.Plugin {
	return []plugins.Plugin{
		NewRedditPlugin(),
		NewYouTubePlugin(),
		NewGoogleNewsPlugin(),
	}
}

// hostIs reports whether raw parses with a host equal to one of hosts.
func hostIs(raw string, hosts ...string) (*url.URL, bool) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, false
	}
	host := strings.ToLower(u.Hostname())
	for _, h := range hosts {
		if host == h {
			return u, true
		}
	}
	return nil, false
}

func segments(u *url.URL) []string {
	var out []string
	for _, s := range strings.Split(u.Path, "/") {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
