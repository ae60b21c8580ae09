package ws

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestHubBroadcastsChangedKey(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := &Client{hub: hub, send: make(chan []byte, 1)}
	hub.register <- client

	hub.KeyChanged("zdr_chat_messages_v1")

	select {
	case raw := <-client.send:
		var n Notification
		require.NoError(t, json.Unmarshal(raw, &n))
		require.Equal(t, "zdr_chat_messages_v1", n.Key)
	case <-time.After(time.Second):
		t.Fatal("no notification received")
	}
}

func TestHubDropsClientWithFullSendBuffer(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	stuck := &Client{hub: hub, send: make(chan []byte)}
	hub.register <- stuck

	// Nobody reads stuck.send, so the broadcast falls through to the
	// default branch and the client is dropped.
	hub.KeyChanged("zdr_posts_v1")

	select {
	case _, ok := <-stuck.send:
		require.False(t, ok, "expected closed send channel")
	case <-time.After(time.Second):
		t.Fatal("send channel was not closed")
	}
}

func TestHubUnregisterClosesSend(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := &Client{hub: hub, send: make(chan []byte, 1)}
	hub.register <- client
	hub.unregister <- client

	select {
	case _, ok := <-client.send:
		require.False(t, ok, "expected closed send channel")
	case <-time.After(time.Second):
		t.Fatal("send channel was not closed")
	}
}
