package realtime

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/xiaoqingming18/qm-chat-server/internal/domain"
)

// EventSink receives room events for one connection. Implementations must
// not block: a sink that cannot accept an event returns an error and the
// broadcaster moves on.
type EventSink interface {
	Send(evt domain.RoomEvent) error
}

// Broadcaster fans a room event out to every connection currently joined to
// the room. Delivery is best-effort per connection; a failed or closed sink
// never blocks delivery to the others and never fails the broadcast.
type Broadcaster struct {
	registry *Registry
	log      zerolog.Logger

	mu    sync.RWMutex
	sinks map[string]EventSink
}

func NewBroadcaster(registry *Registry, log zerolog.Logger) *Broadcaster {
	return &Broadcaster{
		registry: registry,
		log:      log,
		sinks:    make(map[string]EventSink),
	}
}

// Attach binds a connection's outbound sink. Called at handshake time,
// alongside Registry.Register.
func (b *Broadcaster) Attach(connID string, sink EventSink) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sinks[connID] = sink
}

// Detach unbinds the sink on disconnect.
func (b *Broadcaster) Detach(connID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.sinks, connID)
}

// Broadcast delivers evt to every connection joined to the room.
func (b *Broadcaster) Broadcast(roomID int64, evt domain.RoomEvent) {
	connIDs := b.registry.ConnectionsInRoom(roomID)
	if len(connIDs) == 0 {
		return
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, connID := range connIDs {
		sink, ok := b.sinks[connID]
		if !ok {
			// Connection went away between snapshot and delivery.
			continue
		}
		if err := sink.Send(evt); err != nil {
			b.log.Debug().
				Str("conn_id", connID).
				Int64("chatroom_id", roomID).
				Err(err).
				Msg("dropped room event for connection")
		}
	}
}
