package realtime

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiaoqingming18/qm-chat-server/internal/domain"
)

// recordingSink collects delivered events in order.
type recordingSink struct {
	events []domain.RoomEvent
	fail   error
}

func (s *recordingSink) Send(evt domain.RoomEvent) error {
	if s.fail != nil {
		return s.fail
	}
	s.events = append(s.events, evt)
	return nil
}

func newBroadcastFixture() (*Registry, *Broadcaster) {
	registry := NewRegistry()
	return registry, NewBroadcaster(registry, zerolog.Nop())
}

func TestBroadcastReachesEveryJoinedConnection(t *testing.T) {
	registry, b := newBroadcastFixture()

	sinks := map[string]*recordingSink{}
	for _, connID := range []string{"c1", "c2", "c3"} {
		sink := &recordingSink{}
		sinks[connID] = sink
		registry.Register(connID, 1)
		registry.JoinRoom(connID, 10)
		b.Attach(connID, sink)
	}

	b.Broadcast(10, domain.NewJoinedRoomEvent(10, 1))

	for connID, sink := range sinks {
		require.Len(t, sink.events, 1, "connection %s", connID)
		assert.Equal(t, domain.EventTypeJoinRoom, sink.events[0].Type)
		assert.Equal(t, int64(10), sink.events[0].ChatroomID)
	}
}

func TestBroadcastIsolation(t *testing.T) {
	registry, b := newBroadcastFixture()

	inRoom := &recordingSink{}
	outside := &recordingSink{}
	both := &recordingSink{}

	registry.Register("in", 1)
	registry.JoinRoom("in", 10)
	b.Attach("in", inRoom)

	registry.Register("out", 2)
	registry.JoinRoom("out", 20)
	b.Attach("out", outside)

	registry.Register("both", 3)
	registry.JoinRoom("both", 10)
	registry.JoinRoom("both", 20)
	b.Attach("both", both)

	b.Broadcast(10, domain.NewJoinedRoomEvent(10, 1))
	b.Broadcast(20, domain.NewJoinedRoomEvent(20, 2))

	require.Len(t, inRoom.events, 1)
	assert.Equal(t, int64(10), inRoom.events[0].ChatroomID)

	require.Len(t, outside.events, 1)
	assert.Equal(t, int64(20), outside.events[0].ChatroomID)

	// A connection in both rooms receives both, each tagged with its room.
	require.Len(t, both.events, 2)
	assert.ElementsMatch(t,
		[]int64{10, 20},
		[]int64{both.events[0].ChatroomID, both.events[1].ChatroomID},
	)
}

func TestBroadcastFailedSinkDoesNotBlockOthers(t *testing.T) {
	registry, b := newBroadcastFixture()

	broken := &recordingSink{fail: errors.New("socket closed")}
	healthy := &recordingSink{}

	registry.Register("broken", 1)
	registry.JoinRoom("broken", 10)
	b.Attach("broken", broken)

	registry.Register("healthy", 2)
	registry.JoinRoom("healthy", 10)
	b.Attach("healthy", healthy)

	// Must not panic or fail: delivery is best-effort per connection.
	b.Broadcast(10, domain.NewJoinedRoomEvent(10, 1))

	require.Len(t, healthy.events, 1)
	assert.Empty(t, broken.events)
}

func TestBroadcastSkipsDetachedConnection(t *testing.T) {
	registry, b := newBroadcastFixture()

	sink := &recordingSink{}
	registry.Register("c1", 1)
	registry.JoinRoom("c1", 10)
	b.Attach("c1", sink)

	// Simulate the connection vanishing between registry and sink cleanup.
	b.Detach("c1")
	b.Broadcast(10, domain.NewJoinedRoomEvent(10, 1))

	assert.Empty(t, sink.events)
}

func TestBroadcastEmptyRoom(t *testing.T) {
	_, b := newBroadcastFixture()

	// No connections joined: nothing to do, nothing to fail.
	b.Broadcast(99, domain.NewJoinedRoomEvent(99, 1))
}
