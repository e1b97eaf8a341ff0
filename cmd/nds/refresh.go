package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/pders01/nds/internal/debuglog"
	"github.com/pders01/nds/internal/feed"
	"github.com/pders01/nds/internal/storage"
)

var refreshForce bool

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Fetch the configured news feeds once and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := debuglog.Setup(debuglog.ParseLogLevel(cfg.Log.Level), cfg.Log.File); err != nil {
			return err
		}
		defer debuglog.Close()

		if len(cfg.News.Feeds) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No news feeds configured")
			return nil
		}

		store, err := storage.NewStore(cfg.Database.Path, cfg.Database.Timeout)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer store.Close()

		m := feed.NewManager(store, cfg)
		m.SetForceRefresh(refreshForce)

		ctx, cancel := context.WithTimeout(cmd.Context(), 2*cfg.News.HTTPTimeout)
		defer cancel()
		return refresh(ctx, cmd.OutOrStdout(), store, m)
	},
}

func init() {
	refreshCmd.Flags().BoolVar(&refreshForce, "force", false, "Ignore ETag and Last-Modified caching")
}

// refresh runs one pass over the feeds and prints each one with a summary.
// Feed errors are printed and returned.
func refresh(ctx context.Context, w io.Writer, store *storage.Store, m *feed.Manager) error {
	res, refreshErr := m.RefreshAll(ctx)

	feeds, err := store.GetAllFeeds()
	if err != nil {
		return fmt.Errorf("listing feeds: %w", err)
	}
	for _, f := range feeds {
		title := f.Title
		if title == "" {
			title = "(untitled)"
		}
		fmt.Fprintf(w, "%-32s %s\n", title, f.URL)
	}

	fmt.Fprintf(w, "%d feeds • %d updated • %d unchanged • %d failed\n",
		res.Feeds, res.Updated, res.NotModified, res.Failed)
	if !res.Online {
		fmt.Fprintln(w, "offline: no feed could be reached")
	}
	if refreshErr != nil {
		fmt.Fprintf(w, "errors: %v\n", refreshErr)
	}
	return refreshErr
}
