package media

import (
	_ "embed"
	"errors"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"path"
	"runtime"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed link_types.toml
var linkTypesTOML []byte

type Kind int

const (
	KindPage Kind = iota
	KindVideo
	KindAudio
	KindImage
)

func (k Kind) String() string {
	switch k {
	case KindVideo:
		return "video"
	case KindAudio:
		return "audio"
	case KindImage:
		return "image"
	default:
		return "page"
	}
}

var (
	ErrUnsupportedLink = errors.New("only http and https links can be opened")
	ErrNoOpener        = errors.New("no application found to open link")
)

type kindRule struct {
	Extensions []string `toml:"extensions"`
	Hosts      []string `toml:"hosts"`
}

type linkTypes struct {
	Video   kindRule            `toml:"video"`
	Audio   kindRule            `toml:"audio"`
	Image   kindRule            `toml:"image"`
	Players map[string][]string `toml:"players"`
	Openers map[string][]string `toml:"openers"`
}

// Opener hands news links to an external application: a media player when
// one is installed for the link's kind, otherwise the browser.
type Opener struct {
	types    linkTypes
	goos     string
	browser  string
	lookPath func(string) (string, error)
	start    func(name string, args ...string) error
}

func NewOpener() (*Opener, error) {
	var types linkTypes
	if err := toml.Unmarshal(linkTypesTOML, &types); err != nil {
		return nil, fmt.Errorf("parsing link_types.toml: %w", err)
	}
	return &Opener{
		types:    types,
		goos:     runtime.GOOS,
		browser:  os.Getenv("BROWSER"),
		lookPath: exec.LookPath,
		start:    startDetached,
	}, nil
}

// Detect classifies a link by file extension first and host second.
func (o *Opener) Detect(link string) Kind {
	u, err := url.Parse(link)
	if err != nil {
		return KindPage
	}
	ext := strings.TrimPrefix(strings.ToLower(path.Ext(u.Path)), ".")
	host := strings.ToLower(u.Hostname())

	rules := []struct {
		kind Kind
		rule kindRule
	}{
		{KindVideo, o.types.Video},
		{KindAudio, o.types.Audio},
		{KindImage, o.types.Image},
	}
	if ext != "" {
		for _, r := range rules {
			if contains(r.rule.Extensions, ext) {
				return r.kind
			}
		}
	}
	for _, r := range rules {
		for _, h := range r.rule.Hosts {
			if host == h || strings.HasSuffix(host, "."+h) {
				return r.kind
			}
		}
	}
	return KindPage
}

// Command resolves the program and arguments used for link.
func (o *Opener) Command(link string) (string, []string, error) {
	u, err := url.Parse(link)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", nil, ErrUnsupportedLink
	}

	kind := o.Detect(link)
	if kind != KindPage {
		for _, player := range o.types.Players[kind.String()] {
			if _, err := o.lookPath(player); err == nil {
				return player, []string{link}, nil
			}
		}
	}

	if o.browser != "" {
		return o.browser, []string{link}, nil
	}

	opener := o.types.Openers[o.goos]
	if len(opener) == 0 {
		return "", nil, ErrNoOpener
	}
	if _, err := o.lookPath(opener[0]); err != nil {
		return "", nil, fmt.Errorf("%w: %s", ErrNoOpener, opener[0])
	}
	args := append(append([]string{}, opener[1:]...), link)
	return opener[0], args, nil
}

func (o *Opener) Open(link string) error {
	name, args, err := o.Command(link)
	if err != nil {
		return err
	}
	if err := o.start(name, args...); err != nil {
		return fmt.Errorf("failed to start %s: %w", name, err)
	}
	return nil
}

// startDetached runs GUI applications without waiting on them.
func startDetached(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() {
		_ = cmd.Wait()
	}()
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
