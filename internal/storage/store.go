package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"
)

var (
	feedsBucket = []byte("feeds")
	newsBucket  = []byte("news")
	postsBucket = []byte("posts")
)

var (
	ErrFeedNotFound = errors.New("feed not found")
	ErrPostNotFound = errors.New("post not found")
	ErrEmptyPost    = errors.New("post content is empty")
)

// DefaultAuthor is the author of posts created from this device.
const DefaultAuthor = "You"

type Store struct {
	db  *bolt.DB
	now func() time.Time
}

func NewStore(dbPath string, timeout time.Duration) (*Store, error) {
	if timeout <= 0 {
		timeout = 1 * time.Second
	}
	db, err := bolt.Open(dbPath, 0o600, &bolt.Options{Timeout: timeout})
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{feedsBucket, newsBucket, postsBucket} {
			if _, createErr := tx.CreateBucketIfNotExists(bucket); createErr != nil {
				return createErr
			}
		}
		return nil
	})

	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating buckets: %w", err)
	}

	return &Store{db: db, now: time.Now}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) SaveFeed(feed *Feed) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return putJSON(tx.Bucket(feedsBucket), feed.ID, feed)
	})
}

func (s *Store) GetFeed(id string) (*Feed, error) {
	var feed Feed
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(feedsBucket).Get([]byte(id))
		if data == nil {
			return fmt.Errorf("%w: %s", ErrFeedNotFound, id)
		}
		return json.Unmarshal(data, &feed)
	})
	if err != nil {
		return nil, err
	}
	return &feed, nil
}

func (s *Store) GetAllFeeds() ([]*Feed, error) {
	var feeds []*Feed
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(feedsBucket).ForEach(func(_ []byte, v []byte) error {
			var feed Feed
			if err := json.Unmarshal(v, &feed); err != nil {
				return err
			}
			feeds = append(feeds, &feed)
			return nil
		})
	})
	// Title, case-insensitive, falling back to URL
	sort.Slice(feeds, func(i, j int) bool {
		ti, tj := feeds[i].Title, feeds[j].Title
		if ti == "" {
			ti = feeds[i].URL
		}
		if tj == "" {
			tj = feeds[j].URL
		}
		return strings.ToLower(ti) < strings.ToLower(tj)
	})
	return feeds, err
}

// DeleteFeed removes a feed and every news item it produced.
func (s *Store) DeleteFeed(id string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket(feedsBucket).Delete([]byte(id)); err != nil {
			return err
		}

		c := tx.Bucket(newsBucket).Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			var item NewsItem
			if err := json.Unmarshal(v, &item); err != nil {
				continue
			}
			if item.FeedID == id {
				if err := c.Delete(); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

func (s *Store) SaveNewsItems(items []*NewsItem) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(newsBucket)
		for _, item := range items {
			if err := putJSON(b, item.ID, item); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetNewsItems returns news newest first. An empty category matches all.
func (s *Store) GetNewsItems(category string, limit int) ([]*NewsItem, error) {
	var items []*NewsItem
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(newsBucket).ForEach(func(_ []byte, v []byte) error {
			var item NewsItem
			if err := json.Unmarshal(v, &item); err != nil {
				return nil
			}
			if category == "" || strings.EqualFold(item.Category, category) {
				items = append(items, &item)
			}
			return nil
		})
	})
	sort.Slice(items, func(i, j int) bool {
		return items[i].Published.After(items[j].Published)
	})
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, err
}

// CreatePost stores a new post by DefaultAuthor. Blank content is rejected.
func (s *Store) CreatePost(content string) (*Post, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyPost
	}
	post := &Post{
		ID:        uuid.NewString(),
		Author:    DefaultAuthor,
		Content:   content,
		CreatedAt: s.now(),
	}
	if err := s.SavePost(post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *Store) SavePost(post *Post) error {
	if post.ID == "" {
		post.ID = uuid.NewString()
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return putJSON(tx.Bucket(postsBucket), post.ID, post)
	})
}

func (s *Store) GetPost(id string) (*Post, error) {
	var post Post
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(postsBucket).Get([]byte(id))
		if data == nil {
			return fmt.Errorf("%w: %s", ErrPostNotFound, id)
		}
		return json.Unmarshal(data, &post)
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// GetPosts returns posts newest first.
func (s *Store) GetPosts() ([]*Post, error) {
	var posts []*Post
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(postsBucket).ForEach(func(_ []byte, v []byte) error {
			var post Post
			if err := json.Unmarshal(v, &post); err != nil {
				return nil
			}
			posts = append(posts, &post)
			return nil
		})
	})
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
	return posts, err
}

// LikePost increments a post's like count and returns the updated post.
func (s *Store) LikePost(id string) (*Post, error) {
	var post Post
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(postsBucket)
		data := b.Get([]byte(id))
		if data == nil {
			return fmt.Errorf("%w: %s", ErrPostNotFound, id)
		}
		if err := json.Unmarshal(data, &post); err != nil {
			return err
		}
		post.Likes++
		return putJSON(b, id, &post)
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// SeedPosts stores posts only when the bucket is empty. It reports whether
// anything was written.
func (s *Store) SeedPosts(posts []*Post) (bool, error) {
	seeded := false
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(postsBucket)
		if k, _ := b.Cursor().First(); k != nil {
			return nil
		}
		for _, post := range posts {
			if post.ID == "" {
				post.ID = uuid.NewString()
			}
			if err := putJSON(b, post.ID, post); err != nil {
				return err
			}
		}
		seeded = len(posts) > 0
		return nil
	})
	return seeded, err
}

func putJSON(b *bolt.Bucket, key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return b.Put([]byte(key), data)
}
