// Package ws pushes store-change notifications to every open tab of the
// widget. A notification names the changed key and nothing else; tabs react
// by refetching the rendered views.
package ws

import (
	"encoding/json"
	"log"
)

// Notification is the wire format of a change event.
type Notification struct {
	Key string `json:"key"`
}

type Hub struct {
	// Registered clients, one per open tab.
	clients map[*Client]bool

	// Changed keys to fan out.
	changed chan string

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client
}

func NewHub() *Hub {
	return &Hub{
		changed:    make(chan string),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
	}
}

// KeyChanged queues a change notification for every connected tab. It
// satisfies the controller's Notifier interface.
func (h *Hub) KeyChanged(key string) {
	h.changed <- key
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
		case key := <-h.changed:
			msg, err := json.Marshal(Notification{Key: key})
			if err != nil {
				log.Printf("Error encoding notification: %v", err)
				continue
			}

			for client := range h.clients {
				select {
				case client.send <- msg:
				default:
					close(client.send)
					delete(h.clients, client)
				}
			}
		}
	}
}
