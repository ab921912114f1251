package websocket

import "github.com/rs/zerolog/log"

type delivery struct {
	userID  string
	message []byte
}

// Hub maintains the set of active clients and routes task events to the
// clients of the owning user. All maps are owned by the Run goroutine.
type Hub struct {
	// Registered clients.
	clients map[*Client]bool

	// A map of user IDs to the set of that user's clients.
	subscriptions map[string]map[*Client]bool

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	publish chan delivery
	done    chan struct{}
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		clients:       make(map[*Client]bool),
		subscriptions: make(map[string]map[*Client]bool),
		register:      make(chan *Client),
		unregister:    make(chan *Client),
		publish:       make(chan delivery, 64),
		done:          make(chan struct{}),
	}
}

// Run starts the Hub's message processing loop. It returns after Stop.
func (h *Hub) Run() {
	for {
		select {
		case <-h.done:
			for client := range h.clients {
				h.drop(client)
			}
			return
		case client := <-h.register:
			h.clients[client] = true
			h.addSubscription(client)
			log.Debug().Int("total_clients", len(h.clients)).Str("user_id", client.UserID).Msg("Client connected")
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				h.drop(client)
				log.Debug().Int("total_clients", len(h.clients)).Str("user_id", client.UserID).Msg("Client disconnected")
			}
		case d := <-h.publish:
			for client := range h.subscriptions[d.userID] {
				select {
				case client.Send <- d.message:
				default:
					h.drop(client)
				}
			}
		}
	}
}

// Stop ends Run and closes every client's send channel.
func (h *Hub) Stop() {
	close(h.done)
}

// Join registers a client. It is a no-op after Stop.
func (h *Hub) Join(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
	}
}

// Leave unregisters a client. It is a no-op after Stop.
func (h *Hub) Leave(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Notify sends an event to every connection of userID. It never blocks after Stop.
func (h *Hub) Notify(userID, event string, payload interface{}) {
	message := NewMessage(event, payload)
	if message == nil {
		return
	}
	select {
	case h.publish <- delivery{userID: userID, message: message}:
	case <-h.done:
	}
}

func (h *Hub) drop(client *Client) {
	delete(h.clients, client)
	close(client.Send)
	h.removeSubscription(client)
}

func (h *Hub) addSubscription(client *Client) {
	if h.subscriptions[client.UserID] == nil {
		h.subscriptions[client.UserID] = make(map[*Client]bool)
	}
	h.subscriptions[client.UserID][client] = true
}

func (h *Hub) removeSubscription(client *Client) {
	if subs, ok := h.subscriptions[client.UserID]; ok {
		delete(subs, client)
		if len(subs) == 0 {
			delete(h.subscriptions, client.UserID)
		}
	}
}
