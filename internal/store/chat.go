package store

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/zdr/communaute/internal/kvstore"
	"github.com/zdr/communaute/internal/models"
)

// Oldest messages are evicted beyond this, by insertion order.
const maxChatMessages = 200

// Chat owns the message list. Messages are never mutated once sent.
type Chat struct {
	kv       kvstore.Store
	identity *Identity
	prompter Prompter
	now      func() time.Time
}

func NewChat(kv kvstore.Store, identity *Identity, prompter Prompter) *Chat {
	return &Chat{kv: kv, identity: identity, prompter: prompter, now: time.Now}
}

func (c *Chat) load() []models.ChatMessage {
	msgs := []models.ChatMessage{}
	kvstore.ReadJSON(c.kv, KeyChat, &msgs)
	return msgs
}

// Messages returns the stored messages in send order.
func (c *Chat) Messages() []models.ChatMessage {
	return c.load()
}

// Send appends a message under the current identity. Blank text is rejected
// with ErrEmptyMessage. The stored list keeps only the most recent
// maxChatMessages entries; the time string is display-only.
func (c *Chat) Send(text string) (models.ChatMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.ChatMessage{}, ErrEmptyMessage
	}

	msg := models.ChatMessage{
		ID:   uuid.NewString(),
		Name: c.identity.Name(),
		Time: c.now().Format("15:04"),
		Text: text,
	}

	msgs := append(c.load(), msg)
	if len(msgs) > maxChatMessages {
		msgs = msgs[len(msgs)-maxChatMessages:]
	}
	if err := kvstore.WriteJSON(c.kv, KeyChat, msgs); err != nil {
		return models.ChatMessage{}, err
	}
	return msg, nil
}

// Clear asks for confirmation, then replaces the list with an empty one.
// Every tab on this device sees the wipe once notified. Reports whether the
// user confirmed.
func (c *Chat) Clear() bool {
	if !c.prompter.Confirm("Effacer tous les messages sur cet ordinateur ?") {
		return false
	}
	kvstore.WriteJSON(c.kv, KeyChat, []models.ChatMessage{})
	return true
}
