package websocket

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"
	"github.com/simshi01/thansgiving-day/app/models"
)

// Handler is the part of the application the hub talks to on behalf of
// connected clients.
type Handler interface {
	Submit(ctx context.Context, req models.CreateMessageRequest) (models.Message, error)
	ActiveMessages(ctx context.Context) ([]models.JsonMessage, error)
}

type directFrame struct {
	client *Client
	frame  []byte
}

type Hub struct {
	handler Handler
	log     zerolog.Logger

	// origins accepted on upgrade; "*" accepts any
	origins []string

	// this channel is used to send notifications from the REST API
	notifications <-chan models.Event

	clients    map[*Client]bool
	direct     chan directFrame
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
}

func NewHub(handler Handler, notifications <-chan models.Event, origins []string, log zerolog.Logger) *Hub {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return &Hub{
		handler: handler,
		log:     log,
		origins: origins,

		notifications: notifications,

		clients:    make(map[*Client]bool),
		direct:     make(chan directFrame),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run owns the client registry until ctx is cancelled, then closes every
// client connection.
func (h *Hub) Run(ctx context.Context) {
	defer func() {
		close(h.done)
		for client := range h.clients {
			h.drop(client)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-h.notifications:
			if !ok {
				return
			}
			frame, err := json.Marshal(ev)
			if err != nil {
				h.log.Error().Err(err).Str("event", ev.Event).Msg("cannot encode notification")
				continue
			}
			h.log.Debug().Str("event", ev.Event).Int("clients", len(h.clients)).Msg("broadcast")
			for client := range h.clients {
				h.deliver(client, frame)
			}
		case client := <-h.register:
			h.log.Debug().Str("remote", client.remote).Msg("client connected")
			h.clients[client] = true
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				h.log.Debug().Str("remote", client.remote).Msg("client disconnected")
				h.drop(client)
			}
		case r := <-h.direct:
			if _, ok := h.clients[r.client]; ok {
				h.deliver(r.client, r.frame)
			}
		}
	}
}

func (h *Hub) deliver(client *Client, frame []byte) {
	select {
	case client.send <- frame:
	default:
		h.log.Warn().Str("remote", client.remote).Msg("client too slow, dropping")
		h.drop(client)
	}
}

func (h *Hub) drop(client *Client) {
	close(client.send)
	delete(h.clients, client)
}

// reply queues a frame for a single client. It gives up once the hub stops.
func (h *Hub) reply(client *Client, ev models.Event) {
	frame, err := json.Marshal(ev)
	if err != nil {
		h.log.Error().Err(err).Str("event", ev.Event).Msg("cannot encode reply")
		return
	}
	select {
	case h.direct <- directFrame{client: client, frame: frame}:
	case <-h.done:
	}
}

func (h *Hub) allowOrigin(origin string) bool {
	if origin == "" {
		return true
	}
	for _, o := range h.origins {
		if o == "*" || o == origin {
			return true
		}
	}
	return false
}
