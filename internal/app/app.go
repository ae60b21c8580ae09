// Package app is the render/sync controller: it serializes every store
// mutation, re-renders all four views after any change and pushes the
// changed key to the notifier so other tabs refresh too.
package app

import (
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/zdr/communaute/internal/kvstore"
	"github.com/zdr/communaute/internal/models"
	"github.com/zdr/communaute/internal/render"
	"github.com/zdr/communaute/internal/store"
)

// Notifier delivers a changed-key event to every other observer of the
// shared store (the websocket hub in the browser host). Key only, no
// payload.
type Notifier interface {
	KeyChanged(key string)
}

// App owns the stores and the current rendered snapshot. One mutex stands in
// for the browser's single UI thread: mutations and renders are atomic, no
// intermediate state is observable.
type App struct {
	mu       sync.Mutex
	identity *store.Identity
	stats    *store.Stats
	feed     *store.Feed
	chat     *store.Chat
	renderer *render.Renderer
	notifier Notifier

	views render.Views
}

func New(kv kvstore.Store, prompter store.Prompter, notifier Notifier) *App {
	identity := store.NewIdentity(kv, prompter)
	a := &App{
		identity: identity,
		stats:    store.NewStats(kv),
		feed:     store.NewFeed(kv),
		chat:     store.NewChat(kv, identity, prompter),
		renderer: render.New(),
		notifier: notifier,
	}

	// Resolving the identity counts as logging in: the user gets a stats
	// entry and shows up on the leaderboard right away.
	a.mu.Lock()
	a.stats.Ensure(a.identity.Name())
	a.renderLocked()
	a.mu.Unlock()

	return a
}

// Views returns the last rendered snapshot.
func (a *App) Views() render.Views {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.views
}

// Name returns the current display name, resolving it if needed.
func (a *App) Name() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.identity.Name()
}

// Refresh re-renders every view from current store state.
func (a *App) Refresh() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.renderLocked()
}

// OnExternalChange is the entry point for changes observed outside this
// process (another tab, another process on the shared database). Untracked
// keys are ignored; tracked ones trigger the same refresh-everything path as
// a local mutation.
func (a *App) OnExternalChange(key string) {
	switch key {
	case store.KeyName, store.KeyStats, store.KeyPosts, store.KeyChat:
		a.Refresh()
	}
}

// SendChat appends a chat message under the current identity.
func (a *App) SendChat(text string) (models.ChatMessage, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	msg, err := a.chat.Send(text)
	if err != nil {
		return models.ChatMessage{}, err
	}
	a.renderLocked()
	a.notify(store.KeyChat)
	return msg, nil
}

// ClearChat wipes the chat after confirmation. Reports whether it happened.
func (a *App) ClearChat() bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.chat.Clear() {
		return false
	}
	a.renderLocked()
	a.notify(store.KeyChat)
	return true
}

// Publish creates a feed post for the current user and credits their post
// counter.
func (a *App) Publish(text string, before, after *store.ImageFile) (models.Post, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	username := a.identity.Name()
	post, err := a.feed.Publish(username, text, before, after)
	if err != nil {
		return models.Post{}, err
	}
	a.stats.IncrementPosts(username)

	a.renderLocked()
	a.notify(store.KeyPosts)
	a.notify(store.KeyStats)
	return post, nil
}

// Like adds one like to the given post; unknown ids are ignored.
func (a *App) Like(postID string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.feed.Like(postID) {
		return
	}
	a.renderLocked()
	a.notify(store.KeyPosts)
}

// CompleteMission credits one completed mission to the current user.
func (a *App) CompleteMission() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.stats.IncrementMissions(a.identity.Name())
	a.renderLocked()
	a.notify(store.KeyStats)
}

// SetName changes the active identity. Blank input is a silent no-op.
func (a *App) SetName(name string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.identity.SetName(name) {
		return false
	}
	a.stats.Ensure(a.identity.Name())
	a.renderLocked()
	a.notify(store.KeyName)
	a.notify(store.KeyStats)
	return true
}

func (a *App) renderLocked() {
	name := a.identity.Name()
	badge := render.BadgeFor(name, a.stats.All()[name])

	views, err := a.renderer.Render(
		badge,
		a.stats.Leaderboard(),
		a.feed.ListOrderedByRecency(),
		a.chat.Messages(),
	)
	if err != nil {
		// Keep the previous snapshot rather than show a broken page.
		logrus.WithError(err).Error("render failed")
		return
	}
	a.views = views
}

func (a *App) notify(key string) {
	if a.notifier != nil {
		a.notifier.KeyChanged(key)
	}
}
