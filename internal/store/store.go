// Package store implements the four state stores of the community widget:
// identity, per-user statistics, the post feed and the chat. They all share
// one kvstore and own their key exclusively.
package store

import "errors"

// Persisted keys. The v1 suffix leaves room for a future format change.
const (
	KeyName  = "zdr_name_v1"
	KeyStats = "zdr_user_stats_v1"
	KeyPosts = "zdr_posts_v1"
	KeyChat  = "zdr_chat_messages_v1"
)

// DefaultName is used when the user declines to pick a display name.
const DefaultName = "Anonyme"

// User-visible rejections. Never persisted, always synchronous.
var (
	ErrEmptyMessage = errors.New("le message est vide")
	ErrEmptyPost    = errors.New("ajoute un texte ou une photo avant de publier")
)

// Prompter is the modal prompt/confirm boundary. It blocks the calling flow
// until answered.
type Prompter interface {
	// Prompt asks for a line of text; ok is false when the user declines.
	Prompt(question, def string) (value string, ok bool)
	Confirm(question string) bool
}

// ClientSidePrompt is the prompter of the browser host. The page runs
// prompt()/confirm() itself before calling an action, so name prompts are
// declined here (a fresh tab resolves to the default name until it submits
// one) and confirmations count as already acquired.
type ClientSidePrompt struct{}

func (ClientSidePrompt) Prompt(question, def string) (string, bool) { return "", false }

func (ClientSidePrompt) Confirm(question string) bool { return true }
