package notify

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/Cha-Sir/Camellia-Plugin-sub000/internal/constants"
	"github.com/Cha-Sir/Camellia-Plugin-sub000/internal/game"
	"github.com/Cha-Sir/Camellia-Plugin-sub000/internal/keys"
	"github.com/Cha-Sir/Camellia-Plugin-sub000/internal/logging"
)

// Event is the message pushed to feed subscribers.
type Event struct {
	Location string          `json:"location"`
	Phase    game.Phase      `json:"phase"`
	Lines    []game.LogEntry `json:"lines"`
	At       time.Time       `json:"at"`
}

const (
	defaultBuffer       = 16
	defaultWriteTimeout = 5 * time.Second
)

type subscriber struct {
	location  string
	events    chan Event
	closeSlow func()
}

// Hub broadcasts run events to websocket subscribers. A subscriber that
// falls a full buffer behind is disconnected.
type Hub struct {
	mu   sync.Mutex
	subs map[*subscriber]struct{}

	buffer       int
	writeTimeout time.Duration
	now          func() time.Time
}

func NewHub() *Hub {
	return &Hub{
		subs:         make(map[*subscriber]struct{}),
		buffer:       defaultBuffer,
		writeTimeout: defaultWriteTimeout,
		now:          time.Now,
	}
}

// Publish never blocks on a subscriber.
func (h *Hub) Publish(_ context.Context, location string, phase game.Phase, lines []game.LogEntry) error {
	ev := Event{Location: location, Phase: phase, Lines: lines, At: h.now().UTC()}
	key := keys.Name(location)

	h.mu.Lock()
	defer h.mu.Unlock()
	for s := range h.subs {
		if s.location != "" && s.location != key {
			continue
		}
		select {
		case s.events <- ev:
		default:
			delete(h.subs, s)
			go s.closeSlow()
		}
	}
	return nil
}

// Subscribers reports the number of connected feed clients.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// ServeHTTP upgrades the request and streams events until the client goes
// away. The optional `location` query parameter filters the feed.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{InsecureSkipVerify: true})
	if err != nil {
		logging.Warn("failed to accept feed connection", err, nil)
		return
	}
	defer conn.CloseNow()

	// the feed is write-only; CloseRead handles control frames and cancels
	// ctx once the peer closes
	ctx := conn.CloseRead(r.Context())

	s := &subscriber{
		location: keys.Name(r.URL.Query().Get(constants.ParamLocation)),
		events:   make(chan Event, h.buffer),
		closeSlow: func() {
			conn.Close(websocket.StatusPolicyViolation, "feed subscriber too slow")
		},
	}
	h.add(s)
	defer h.remove(s)

	for {
		select {
		case ev := <-s.events:
			if err := h.write(ctx, conn, ev); err != nil {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

func (h *Hub) write(ctx context.Context, conn *websocket.Conn, ev Event) error {
	ctx, cancel := context.WithTimeout(ctx, h.writeTimeout)
	defer cancel()
	return wsjson.Write(ctx, conn, ev)
}

func (h *Hub) add(s *subscriber) {
	h.mu.Lock()
	h.subs[s] = struct{}{}
	n := len(h.subs)
	h.mu.Unlock()
	logging.Info("feed subscriber connected", logging.Fields{constants.LogFieldSubscribers: n})
}

func (h *Hub) remove(s *subscriber) {
	h.mu.Lock()
	delete(h.subs, s)
	h.mu.Unlock()
}
