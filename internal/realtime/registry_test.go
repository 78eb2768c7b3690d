package realtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryRegisterAndJoin(t *testing.T) {
	r := NewRegistry()

	r.Register("c1", 1)
	r.JoinRoom("c1", 10)

	userID, ok := r.UserFor("c1")
	require.True(t, ok)
	assert.Equal(t, int64(1), userID)
	assert.Equal(t, []string{"c1"}, r.ConnectionsInRoom(10))
}

func TestRegistryJoinIsIdempotent(t *testing.T) {
	r := NewRegistry()

	r.Register("c1", 1)
	r.JoinRoom("c1", 10)
	r.JoinRoom("c1", 10)

	assert.Equal(t, []string{"c1"}, r.ConnectionsInRoom(10))
}

func TestRegistryJoinUnknownConnection(t *testing.T) {
	r := NewRegistry()

	r.JoinRoom("ghost", 10)

	assert.Empty(t, r.ConnectionsInRoom(10))
}

func TestRegistryLeaveRoom(t *testing.T) {
	r := NewRegistry()

	r.Register("c1", 1)
	r.Register("c2", 2)
	r.JoinRoom("c1", 10)
	r.JoinRoom("c2", 10)

	r.LeaveRoom("c1", 10)

	assert.Equal(t, []string{"c2"}, r.ConnectionsInRoom(10))

	// The connection itself is still registered.
	_, ok := r.UserFor("c1")
	assert.True(t, ok)
}

func TestRegistryUnregisterRemovesFromAllRooms(t *testing.T) {
	r := NewRegistry()

	r.Register("c1", 1)
	r.JoinRoom("c1", 10)
	r.JoinRoom("c1", 20)

	r.Unregister("c1")

	assert.Empty(t, r.ConnectionsInRoom(10))
	assert.Empty(t, r.ConnectionsInRoom(20))
	_, ok := r.UserFor("c1")
	assert.False(t, ok)
}

func TestRegistryRoomIsolation(t *testing.T) {
	r := NewRegistry()

	r.Register("c1", 1)
	r.Register("c2", 2)
	r.JoinRoom("c1", 10)
	r.JoinRoom("c2", 20)

	assert.Equal(t, []string{"c1"}, r.ConnectionsInRoom(10))
	assert.Equal(t, []string{"c2"}, r.ConnectionsInRoom(20))
	assert.Empty(t, r.ConnectionsInRoom(30))
}
