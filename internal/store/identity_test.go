package store

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zdr/communaute/internal/kvstore"
)

// scriptPrompt answers every prompt and confirmation from a fixed script.
type scriptPrompt struct {
	answer   string
	ok       bool
	confirm  bool
	prompted int
}

func (p *scriptPrompt) Prompt(question, def string) (string, bool) {
	p.prompted++
	return p.answer, p.ok
}

func (p *scriptPrompt) Confirm(question string) bool { return p.confirm }

func TestNameDefaultsToAnonymeWhenPromptDeclined(t *testing.T) {
	kv := kvstore.NewMemory()
	prompt := &scriptPrompt{ok: false}
	id := NewIdentity(kv, prompt)

	require.Equal(t, "Anonyme", id.Name())

	// The resolved name is persisted: the second call must not prompt again.
	require.Equal(t, "Anonyme", id.Name())
	require.Equal(t, 1, prompt.prompted)
}

func TestNamePromptAnswerIsTrimmedAndPersisted(t *testing.T) {
	kv := kvstore.NewMemory()
	id := NewIdentity(kv, &scriptPrompt{answer: "  Maël  ", ok: true})

	require.Equal(t, "Maël", id.Name())

	var saved string
	kvstore.ReadJSON(kv, KeyName, &saved)
	require.Equal(t, "Maël", saved)
}

func TestNameRepromptsWhenSavedNameIsBlank(t *testing.T) {
	kv := kvstore.NewMemory()
	kvstore.WriteJSON(kv, KeyName, "   ")

	id := NewIdentity(kv, &scriptPrompt{answer: "Zoé", ok: true})
	require.Equal(t, "Zoé", id.Name())
}

func TestSetNameIgnoresBlankInput(t *testing.T) {
	kv := kvstore.NewMemory()
	id := NewIdentity(kv, &scriptPrompt{answer: "Maël", ok: true})
	require.Equal(t, "Maël", id.Name())

	require.False(t, id.SetName("   "))
	require.Equal(t, "Maël", id.Name())

	require.True(t, id.SetName(" Zoé "))
	require.Equal(t, "Zoé", id.Name())
}
