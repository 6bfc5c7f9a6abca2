package websocket

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/simshi01/thansgiving-day/app/models"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	handleTimeout  = 5 * time.Second
)

var newline = []byte{'\n'}

type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	remote string
	send   chan []byte
}

func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		_ = c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.log.Warn().Err(err).Str("remote", c.remote).Msg("read failed")
			}
			break
		}
		for _, line := range bytes.Split(message, newline) {
			line = bytes.TrimSpace(line)
			if len(line) == 0 {
				continue
			}
			c.handle(line)
		}
	}
}

func (c *Client) handle(frame []byte) {
	var ev models.Event
	if err := json.Unmarshal(frame, &ev); err != nil {
		c.hub.log.Debug().Err(err).Str("remote", c.remote).Msg("cannot decode frame")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), handleTimeout)
	defer cancel()

	switch ev.Event {
	case models.EventSyncRequest:
		c.sync(ctx)
	case models.EventMessageNew:
		c.submit(ctx, ev.Data)
	default:
		c.hub.log.Debug().Str("event", ev.Event).Msg("unknown event ignored")
	}
}

func (c *Client) sync(ctx context.Context) {
	messages, err := c.hub.handler.ActiveMessages(ctx)
	if err != nil {
		c.hub.log.Error().Err(err).Msg("sync failed")
		c.respond(models.EventSyncError, models.SyncFailed)
		return
	}
	c.respond(models.EventSyncResponse, models.SyncPayload{Messages: messages})
}

func (c *Client) submit(ctx context.Context, data json.RawMessage) {
	req := models.CreateMessageRequest{}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &req); err != nil {
			c.respond(models.EventMessageError, models.InvalidBody)
			return
		}
	}

	_, err := c.hub.handler.Submit(ctx, req)
	var reject *models.RejectError
	switch {
	case errors.As(err, &reject):
		c.respond(models.EventMessageError, models.ErrorResponse{Error: reject.Reason})
	case err != nil:
		c.hub.log.Error().Err(err).Msg("cannot create message")
		c.respond(models.EventMessageError, models.SendFailed)
	}
	// on success the author gets message:new through the broadcast
}

func (c *Client) respond(name string, data interface{}) {
	ev, err := models.NewEvent(name, data)
	if err != nil {
		c.hub.log.Error().Err(err).Str("event", name).Msg("cannot encode reply")
		return
	}
	c.hub.reply(c, ev)
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			_, _ = w.Write(message)

			// Add queued events to the current websocket message.
			n := len(c.send)
			for i := 0; i < n; i++ {
				_, _ = w.Write(newline)
				_, _ = w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func ServeWs(hub *Hub, w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return hub.allowOrigin(r.Header.Get("Origin"))
		},
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		hub.log.Debug().Err(err).Msg("upgrade failed")
		return
	}

	client := &Client{
		hub:    hub,
		conn:   conn,
		remote: conn.RemoteAddr().String(),
		send:   make(chan []byte, 256),
	}
	select {
	case hub.register <- client:
	case <-hub.done:
		_ = conn.Close()
		return
	}

	// Allow collection of memory referenced by the caller by doing all work in
	// new goroutines.
	go client.writePump()
	go client.readPump()
}
