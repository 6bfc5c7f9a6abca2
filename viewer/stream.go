package viewer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/simshi01/thansgiving-day/app/models"
)

const (
	minBackoff = 500 * time.Millisecond
	maxBackoff = 30 * time.Second
)

// Stream follows the server's websocket and hands every event to a channel,
// reconnecting until its context ends.
type Stream struct {
	url    string
	dialer *websocket.Dialer
	log    zerolog.Logger

	minBackoff time.Duration
	maxBackoff time.Duration
}

// NewStream derives the websocket endpoint from the server's HTTP address.
func NewStream(server string, log zerolog.Logger) (*Stream, error) {
	u, err := url.Parse(server)
	if err != nil {
		return nil, fmt.Errorf("viewer: parse server url: %w", err)
	}
	switch u.Scheme {
	case "http", "ws":
		u.Scheme = "ws"
	case "https", "wss":
		u.Scheme = "wss"
	default:
		return nil, fmt.Errorf("viewer: unsupported scheme %q", u.Scheme)
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/ws"

	return &Stream{
		url:        u.String(),
		dialer:     websocket.DefaultDialer,
		log:        log,
		minBackoff: minBackoff,
		maxBackoff: maxBackoff,
	}, nil
}

// URL is the websocket endpoint.
func (s *Stream) URL() string { return s.url }

// Run connects, asks for a sync and forwards events to out. It only
// returns once ctx is done.
func (s *Stream) Run(ctx context.Context, out chan<- models.Event) {
	backoff := s.minBackoff
	for {
		connected, err := s.session(ctx, out)
		if ctx.Err() != nil {
			return
		}
		if connected {
			backoff = s.minBackoff
		}
		s.log.Warn().Err(err).Dur("retry_in", backoff).Msg("stream disconnected")

		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}
		backoff = min(backoff*2, s.maxBackoff)
	}
}

func (s *Stream) session(ctx context.Context, out chan<- models.Event) (bool, error) {
	conn, _, err := s.dialer.DialContext(ctx, s.url, nil)
	if err != nil {
		return false, fmt.Errorf("viewer: dial %s: %w", s.url, err)
	}
	defer conn.Close()

	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	if err := conn.WriteJSON(models.Event{Event: models.EventSyncRequest}); err != nil {
		return true, fmt.Errorf("viewer: send sync request: %w", err)
	}
	s.log.Debug().Str("url", s.url).Msg("stream connected")

	for {
		_, frame, err := conn.ReadMessage()
		if err != nil {
			return true, fmt.Errorf("viewer: read: %w", err)
		}
		for _, line := range bytes.Split(frame, []byte{'\n'}) {
			line = bytes.TrimSpace(line)
			if len(line) == 0 {
				continue
			}
			var ev models.Event
			if err := json.Unmarshal(line, &ev); err != nil {
				s.log.Debug().Err(err).Msg("cannot decode frame")
				continue
			}
			select {
			case out <- ev:
			case <-ctx.Done():
				return true, ctx.Err()
			}
		}
	}
}
