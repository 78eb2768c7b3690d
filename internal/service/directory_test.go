package service

import (
	"context"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiaoqingming18/qm-chat-server/internal/domain"
)

func TestCreateOneToOne(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	alice := f.createUser(t, "alice", "Alice")
	bob := f.createUser(t, "bob", "Bob")

	room, err := f.directory.CreateOneToOne(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	require.NotZero(t, room.ID)
	assert.Equal(t, domain.RoomKindOneToOne, room.Kind)

	members, err := f.directory.Members(ctx, room.ID)
	require.NoError(t, err)
	memberIDs := lo.Map(members, func(u *domain.UserSummary, _ int) int64 { return u.ID })
	assert.ElementsMatch(t, []int64{alice.ID, bob.ID}, memberIDs)
}

func TestCreateOneToOneNoDedup(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	alice := f.createUser(t, "alice", "Alice")
	bob := f.createUser(t, "bob", "Bob")

	// Repeated calls for the same pair create a new room each time.
	first, err := f.directory.CreateOneToOne(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	second, err := f.directory.CreateOneToOne(ctx, bob.ID, alice.ID)
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
}

func TestCreateOneToOneValidation(t *testing.T) {
	f := newFixture(t)

	_, err := f.directory.CreateOneToOne(context.Background(), 0, 1)
	require.Error(t, err)
	assert.Equal(t, domain.CodeValidation, domain.CodeOf(err))
}

func TestOneToOneMembershipIsImmutable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	alice := f.createUser(t, "alice", "Alice")
	bob := f.createUser(t, "bob", "Bob")
	carol := f.createUser(t, "carol", "Carol")

	room, err := f.directory.CreateOneToOne(ctx, bob.ID, alice.ID)
	require.NoError(t, err)

	err = f.directory.Join(ctx, room.ID, carol.ID)
	require.Error(t, err)
	assert.Equal(t, domain.CodeInvalidOperation, domain.CodeOf(err))

	err = f.directory.Quit(ctx, room.ID, bob.ID)
	require.Error(t, err)
	assert.Equal(t, domain.CodeInvalidOperation, domain.CodeOf(err))

	// Membership is unchanged after both rejected operations.
	members, err := f.directory.Members(ctx, room.ID)
	require.NoError(t, err)
	assert.Len(t, members, 2)
}

func TestGroupJoinAndQuit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	alice := f.createUser(t, "alice", "Alice")
	bob := f.createUser(t, "bob", "Bob")

	group, err := f.directory.CreateGroup(ctx, "team", alice.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoomKindGroup, group.Kind)
	assert.Equal(t, "team", group.Name)

	require.NoError(t, f.directory.Join(ctx, group.ID, bob.ID))

	members, err := f.directory.Members(ctx, group.ID)
	require.NoError(t, err)
	memberIDs := lo.Map(members, func(u *domain.UserSummary, _ int) int64 { return u.ID })
	assert.ElementsMatch(t, []int64{alice.ID, bob.ID}, memberIDs)

	require.NoError(t, f.directory.Quit(ctx, group.ID, bob.ID))

	members, err = f.directory.Members(ctx, group.ID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, alice.ID, members[0].ID)
}

func TestGroupJoinIsNotIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	alice := f.createUser(t, "alice", "Alice")
	bob := f.createUser(t, "bob", "Bob")

	group, err := f.directory.CreateGroup(ctx, "team", alice.ID)
	require.NoError(t, err)

	// Joining twice inserts two membership rows.
	require.NoError(t, f.directory.Join(ctx, group.ID, bob.ID))
	require.NoError(t, f.directory.Join(ctx, group.ID, bob.ID))

	memberIDs, err := f.rooms.MemberIDs(ctx, group.ID)
	require.NoError(t, err)
	assert.Len(t, memberIDs, 3)

	// Quit removes every row the user holds in the room.
	require.NoError(t, f.directory.Quit(ctx, group.ID, bob.ID))
	memberIDs, err = f.rooms.MemberIDs(ctx, group.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{alice.ID}, memberIDs)
}

func TestListForUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	alice := f.createUser(t, "alice", "Alice")
	bob := f.createUser(t, "bob", "Bob")
	carol := f.createUser(t, "carol", "Carol")

	oneToOne, err := f.directory.CreateOneToOne(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	group, err := f.directory.CreateGroup(ctx, "team", alice.ID)
	require.NoError(t, err)
	require.NoError(t, f.directory.Join(ctx, group.ID, carol.ID))

	summaries, err := f.directory.ListForUser(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	byID := lo.KeyBy(summaries, func(s *domain.RoomSummary) int64 { return s.Room.ID })
	require.Contains(t, byID, oneToOne.ID)
	require.Contains(t, byID, group.ID)

	assert.Equal(t, 2, byID[oneToOne.ID].MemberCount)
	assert.ElementsMatch(t, []int64{alice.ID, bob.ID}, byID[oneToOne.ID].MemberIDs)
	assert.Equal(t, 2, byID[group.ID].MemberCount)
	assert.ElementsMatch(t, []int64{alice.ID, carol.ID}, byID[group.ID].MemberIDs)

	// Bob only belongs to the one-to-one room.
	summaries, err = f.directory.ListForUser(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, oneToOne.ID, summaries[0].Room.ID)
}

func TestInfo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	alice := f.createUser(t, "alice", "Alice")
	group, err := f.directory.CreateGroup(ctx, "team", alice.ID)
	require.NoError(t, err)

	info, err := f.directory.Info(ctx, group.ID)
	require.NoError(t, err)
	assert.Equal(t, group.ID, info.Room.ID)
	require.Len(t, info.Members, 1)
	assert.Equal(t, "alice", info.Members[0].Username)
}

func TestInfoNotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.directory.Info(context.Background(), 9999)
	require.Error(t, err)
	assert.Equal(t, domain.CodeNotFound, domain.CodeOf(err))
}

func TestJoinUnknownRoom(t *testing.T) {
	f := newFixture(t)

	err := f.directory.Join(context.Background(), 9999, 1)
	require.Error(t, err)
	assert.Equal(t, domain.CodeNotFound, domain.CodeOf(err))
}
