package store

import (
	"strings"

	"github.com/zdr/communaute/internal/kvstore"
)

// Identity holds the active display name. It is created lazily: the first
// Name() call prompts for one and falls back to DefaultName.
type Identity struct {
	kv       kvstore.Store
	prompter Prompter
}

func NewIdentity(kv kvstore.Store, prompter Prompter) *Identity {
	return &Identity{kv: kv, prompter: prompter}
}

// Name returns the persisted display name. When none is stored (or it trims
// to blank) the prompter is asked once; a blank or declined answer resolves
// to DefaultName. The resolved name is persisted before returning, so it is
// never empty afterwards.
func (i *Identity) Name() string {
	var saved string
	kvstore.ReadJSON(i.kv, KeyName, &saved)
	if name := strings.TrimSpace(saved); name != "" {
		return name
	}

	fresh, ok := i.prompter.Prompt("Choisis un pseudo (ex: Maël)", "")
	name := strings.TrimSpace(fresh)
	if !ok || name == "" {
		name = DefaultName
	}
	kvstore.WriteJSON(i.kv, KeyName, name)
	return name
}

// SetName persists newName as the active identity. Blank input is silently
// discarded. Past posts and messages keep the old name: they reference it by
// value. Reports whether anything changed.
func (i *Identity) SetName(newName string) bool {
	name := strings.TrimSpace(newName)
	if name == "" {
		return false
	}
	kvstore.WriteJSON(i.kv, KeyName, name)
	return true
}
