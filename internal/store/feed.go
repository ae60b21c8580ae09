package store

import (
	"encoding/base64"
	"sort"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/zdr/communaute/internal/kvstore"
	"github.com/zdr/communaute/internal/models"
)

// PostTimeLayout matches the original ISO-8601 string format, so timestamps
// of equal format compare lexicographically in chronological order.
const PostTimeLayout = "2006-01-02T15:04:05.000Z07:00"

// ImageFile is a picked image file, already read into memory by the host. A
// read failure on either slot aborts the whole publish before the feed is
// touched — a post is never stored with one image missing by accident.
type ImageFile struct {
	Name string
	Data []byte
}

// Feed owns the post list. Posts are append-only; only their like counter is
// mutated in place.
type Feed struct {
	kv  kvstore.Store
	now func() time.Time
}

func NewFeed(kv kvstore.Store) *Feed {
	return &Feed{kv: kv, now: time.Now}
}

func (f *Feed) load() []models.Post {
	posts := []models.Post{}
	kvstore.ReadJSON(f.kv, KeyPosts, &posts)
	return posts
}

// Publish appends a new post for username. Blank text with no image on
// either slot is rejected with ErrEmptyPost and the feed stays untouched.
// Present images are inlined as data URIs so a stored post is fully
// self-contained.
func (f *Feed) Publish(username, text string, before, after *ImageFile) (models.Post, error) {
	text = strings.TrimSpace(text)
	if text == "" && before == nil && after == nil {
		return models.Post{}, ErrEmptyPost
	}

	post := models.Post{
		ID:        uuid.NewString(),
		Username:  username,
		Text:      text,
		CreatedAt: f.now().UTC().Format(PostTimeLayout),
	}
	if before != nil {
		post.BeforeImg = DataURI(before)
	}
	if after != nil {
		post.AfterImg = DataURI(after)
	}

	posts := append(f.load(), post)
	if err := kvstore.WriteJSON(f.kv, KeyPosts, posts); err != nil {
		return models.Post{}, err
	}
	return post, nil
}

// Like adds one like to the post with the given id and reports whether it
// was found. An unknown id is a silent no-op. There is no duplicate-like
// prevention and likes carry no liker identity.
func (f *Feed) Like(postID string) bool {
	posts := f.load()
	for idx := range posts {
		if posts[idx].ID == postID {
			posts[idx].Likes++
			kvstore.WriteJSON(f.kv, KeyPosts, posts)
			return true
		}
	}
	return false
}

// ListOrderedByRecency returns all posts, newest first. The sort compares
// the ISO-8601 strings directly; a post missing its timestamp sorts last.
func (f *Feed) ListOrderedByRecency() []models.Post {
	posts := f.load()
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].CreatedAt > posts[j].CreatedAt
	})
	return posts
}

// DataURI inlines an image file as a self-contained data URI, sniffing the
// media type from the file contents.
func DataURI(f *ImageFile) string {
	mt := mimetype.Detect(f.Data)
	return "data:" + mt.String() + ";base64," + base64.StdEncoding.EncodeToString(f.Data)
}
