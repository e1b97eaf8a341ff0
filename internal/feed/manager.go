package feed

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/pders01/nds/internal/config"
	"github.com/pders01/nds/internal/debuglog"
	"github.com/pders01/nds/internal/plugins"
	"github.com/pders01/nds/internal/plugins/sources"
	"github.com/pders01/nds/internal/storage"
	"github.com/pders01/nds/internal/validation"
)

const maxConcurrentRefresh = 5

// Result summarizes one refresh pass over every configured feed.
type Result struct {
	Feeds       int
	Updated     int
	NotModified int
	Failed      int
	// Online is false only when every feed failed to connect.
	Online bool
}

type Manager struct {
	store        *storage.Store
	fetcher      *Fetcher
	parser       *Parser
	config       *config.Config
	urlValidator *validation.FeedURLValidator
	plugins      *plugins.Registry
	log          *debuglog.FieldLogger
	mu           sync.Mutex
}

func NewManager(store *storage.Store, cfg *config.Config) *Manager {
	registry := plugins.NewRegistry(cfg.News.HTTPTimeout)
	registry.Register(sources.Defaults()...)

	return &Manager{
		store:        store,
		fetcher:      NewFetcher(cfg),
		parser:       NewParser(),
		config:       cfg,
		urlValidator: validation.NewFeedURLValidator(),
		plugins:      registry,
		log:          debuglog.WithFields(map[string]interface{}{"component": "feed"}),
	}
}

// SetForceRefresh configures the manager to ignore ETag/Last-Modified headers
func (m *Manager) SetForceRefresh(force bool) {
	m.fetcher.SetIgnoreCache(force)
}

// SetPermissiveValidation allows local feed hosts, for development and tests.
func (m *Manager) SetPermissiveValidation(permissive bool) {
	if permissive {
		m.urlValidator = validation.NewPermissiveFeedURLValidator()
	} else {
		m.urlValidator = validation.NewFeedURLValidator()
	}
}

// Plugins exposes the source registry so callers can add their own.
func (m *Manager) Plugins() *plugins.Registry {
	return m.plugins
}

// Register makes sure every URL has a feed record. Site URLs a source plugin
// recognises are stored under the feed URL it resolves to. Existing records
// keep their cache headers.
func (m *Manager) Register(ctx context.Context, urls []string) ([]*storage.Feed, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	feeds := make([]*storage.Feed, 0, len(urls))
	for _, raw := range urls {
		normalized, err := m.urlValidator.ValidateAndNormalize(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid feed URL %q: %w", raw, err)
		}
		info, err := m.plugins.EnhanceFeed(ctx, normalized)
		if err != nil {
			return nil, fmt.Errorf("resolving feed %q: %w", raw, err)
		}
		if info.FeedURL != normalized {
			m.log.Debugf("source %s resolved %s to %s", info.Metadata["plugin"], normalized, info.FeedURL)
			if normalized, err = m.urlValidator.ValidateAndNormalize(info.FeedURL); err != nil {
				return nil, fmt.Errorf("invalid resolved feed URL %q: %w", info.FeedURL, err)
			}
		}
		id := feedID(normalized)
		existing, err := m.store.GetFeed(id)
		if err == nil {
			feeds = append(feeds, existing)
			continue
		}
		if !errors.Is(err, storage.ErrFeedNotFound) {
			return nil, err
		}
		f := &storage.Feed{ID: id, URL: normalized, Title: info.Title, UpdatedAt: time.Now()}
		if err := m.store.SaveFeed(f); err != nil {
			return nil, fmt.Errorf("saving feed: %w", err)
		}
		feeds = append(feeds, f)
	}
	return feeds, nil
}

// RefreshFeed fetches one feed and stores its items. It reports whether new
// content arrived.
func (m *Manager) RefreshFeed(ctx context.Context, id string) (bool, error) {
	f, err := m.store.GetFeed(id)
	if err != nil {
		return false, fmt.Errorf("getting feed: %w", err)
	}

	resp, updated, err := m.fetcher.Fetch(ctx, f)
	if err != nil {
		return false, err
	}

	if !updated || resp == nil {
		f.LastFetched = time.Now()
		if saveErr := m.store.SaveFeed(f); saveErr != nil {
			return false, fmt.Errorf("saving feed metadata: %w", saveErr)
		}
		return false, nil
	}
	defer resp.Body.Close()

	title, items, err := m.parser.Parse(resp.Body, f.ID)
	if err != nil {
		return false, err
	}

	m.fetcher.UpdateFeedMetadata(f, resp)
	if title != "" {
		f.Title = title
	}
	f.UpdatedAt = time.Now()

	if err := m.store.SaveFeed(f); err != nil {
		return false, fmt.Errorf("saving feed: %w", err)
	}
	if err := m.store.SaveNewsItems(items); err != nil {
		return false, fmt.Errorf("saving news: %w", err)
	}
	return true, nil
}

// RefreshAll registers the configured feeds and refreshes them with a small
// worker pool. Failures of individual feeds are joined into the error.
func (m *Manager) RefreshAll(ctx context.Context) (Result, error) {
	var urls []string
	if m.config != nil {
		urls = m.config.News.Feeds
	}
	feeds, err := m.Register(ctx, urls)
	if err != nil {
		return Result{Online: true}, err
	}

	res := Result{Feeds: len(feeds), Online: true}
	if len(feeds) == 0 {
		return res, nil
	}

	type outcome struct {
		updated bool
		err     error
	}
	feedChan := make(chan *storage.Feed, len(feeds))
	outChan := make(chan outcome, len(feeds))

	var wg sync.WaitGroup
	for i := 0; i < maxConcurrentRefresh && i < len(feeds); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for f := range feedChan {
				updated, refreshErr := m.RefreshFeed(ctx, f.ID)
				outChan <- outcome{updated: updated, err: refreshErr}
			}
		}()
	}

	for _, f := range feeds {
		feedChan <- f
	}
	close(feedChan)
	wg.Wait()
	close(outChan)

	var errs []error
	unreachable := 0
	for o := range outChan {
		switch {
		case o.err != nil:
			res.Failed++
			errs = append(errs, o.err)
			var netErr *NetworkError
			if errors.As(o.err, &netErr) {
				unreachable++
			}
		case o.updated:
			res.Updated++
		default:
			res.NotModified++
		}
	}
	res.Online = unreachable < len(feeds)

	m.log.Infof("refreshed %d feeds: %d updated, %d not modified, %d failed",
		res.Feeds, res.Updated, res.NotModified, res.Failed)

	return res, errors.Join(errs...)
}

func feedID(url string) string {
	return fmt.Sprintf("%x", sha256.Sum256([]byte(url)))
}
