package media

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOpener(t *testing.T, goos string, installed ...string) (*Opener, *[]string) {
	t.Helper()
	o, err := NewOpener()
	require.NoError(t, err)
	o.goos = goos
	o.browser = ""
	o.lookPath = func(name string) (string, error) {
		for _, have := range installed {
			if have == name {
				return "/usr/bin/" + name, nil
			}
		}
		return "", errors.New("not found")
	}
	var started []string
	o.start = func(name string, args ...string) error {
		started = append(append(started, name), args...)
		return nil
	}
	return o, &started
}

func TestDetect(t *testing.T) {
	o, _ := newTestOpener(t, "linux")
	tests := []struct {
		link string
		want Kind
	}{
		{"https://example.org/highlights/final.mp4", KindVideo},
		{"https://example.org/final.MP4?token=1#t=10", KindVideo},
		{"https://www.youtube.com/watch?v=abc", KindVideo},
		{"https://youtu.be/abc", KindVideo},
		{"https://example.org/commentary.mp3", KindAudio},
		{"https://example.org/bull.webp", KindImage},
		{"https://i.redd.it/xyz", KindImage},
		{"https://example.org/news/jallikattu-2025", KindPage},
		{"https://notyoutube.com/watch", KindPage},
		{"::not a url", KindPage},
	}
	for _, tt := range tests {
		t.Run(tt.link, func(t *testing.T) {
			assert.Equal(t, tt.want, o.Detect(tt.link))
		})
	}
}

func TestCommand(t *testing.T) {
	t.Run("video uses installed player", func(t *testing.T) {
		o, _ := newTestOpener(t, "linux", "vlc", "xdg-open")
		name, args, err := o.Command("https://youtu.be/abc")
		require.NoError(t, err)
		assert.Equal(t, "vlc", name)
		assert.Equal(t, []string{"https://youtu.be/abc"}, args)
	})

	t.Run("video falls back to platform opener", func(t *testing.T) {
		o, _ := newTestOpener(t, "linux", "xdg-open")
		name, _, err := o.Command("https://youtu.be/abc")
		require.NoError(t, err)
		assert.Equal(t, "xdg-open", name)
	})

	t.Run("browser env wins for pages", func(t *testing.T) {
		o, _ := newTestOpener(t, "linux", "xdg-open")
		o.browser = "firefox"
		name, _, err := o.Command("https://example.org/story")
		require.NoError(t, err)
		assert.Equal(t, "firefox", name)
	})

	t.Run("windows opener keeps its arguments", func(t *testing.T) {
		o, _ := newTestOpener(t, "windows", "rundll32")
		name, args, err := o.Command("https://example.org/story")
		require.NoError(t, err)
		assert.Equal(t, "rundll32", name)
		assert.Equal(t, []string{"url.dll,FileProtocolHandler", "https://example.org/story"}, args)
	})

	t.Run("missing opener", func(t *testing.T) {
		o, _ := newTestOpener(t, "linux")
		_, _, err := o.Command("https://example.org/story")
		assert.ErrorIs(t, err, ErrNoOpener)

		o.goos = "plan9"
		_, _, err = o.Command("https://example.org/story")
		assert.ErrorIs(t, err, ErrNoOpener)
	})

	t.Run("rejects non-web links", func(t *testing.T) {
		o, _ := newTestOpener(t, "linux", "xdg-open")
		for _, link := range []string{"file:///etc/passwd", "javascript:alert(1)", "", "https://"} {
			_, _, err := o.Command(link)
			assert.ErrorIs(t, err, ErrUnsupportedLink, link)
		}
	})
}

func TestOpen(t *testing.T) {
	o, started := newTestOpener(t, "darwin", "open")
	require.NoError(t, o.Open("https://example.org/story"))
	assert.Equal(t, []string{"open", "https://example.org/story"}, *started)

	o.start = func(string, ...string) error { return errors.New("boom") }
	err := o.Open("https://example.org/story")
	assert.ErrorContains(t, err, "failed to start open")
}
