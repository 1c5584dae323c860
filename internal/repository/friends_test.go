package repository_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"friendbook/internal/repository"
)

func TestFriendListOrderedByLogin(t *testing.T) {
	database := openTestDB(t)
	users := repository.NewUserRepository(database)
	friends := repository.NewFriendRepository(database)
	ctx := testContext()

	owner, err := users.Create(ctx, "owner", "h", "Owner")
	require.NoError(t, err)
	for _, login := range []string{"carol", "alice", "bob"} {
		u, err := users.Create(ctx, login, "h", login)
		require.NoError(t, err)
		require.NoError(t, friends.Add(ctx, owner.ID, u.ID))
	}

	list, err := friends.ListFriends(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "alice", list[0].Login)
	assert.Equal(t, "bob", list[1].Login)
	assert.Equal(t, "carol", list[2].Login)
}

func TestFriendAddIdempotent(t *testing.T) {
	database := openTestDB(t)
	users := repository.NewUserRepository(database)
	friends := repository.NewFriendRepository(database)
	ctx := testContext()

	a, err := users.Create(ctx, "alice", "h", "Alice")
	require.NoError(t, err)
	b, err := users.Create(ctx, "bob", "h", "Bob")
	require.NoError(t, err)

	require.NoError(t, friends.Add(ctx, a.ID, b.ID))
	require.NoError(t, friends.Add(ctx, a.ID, b.ID))

	list, err := friends.ListFriends(ctx, a.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestFriendEdgeIsDirected(t *testing.T) {
	database := openTestDB(t)
	users := repository.NewUserRepository(database)
	friends := repository.NewFriendRepository(database)
	ctx := testContext()

	a, err := users.Create(ctx, "alice", "h", "Alice")
	require.NoError(t, err)
	b, err := users.Create(ctx, "bob", "h", "Bob")
	require.NoError(t, err)

	require.NoError(t, friends.Add(ctx, a.ID, b.ID))

	list, err := friends.ListFriends(ctx, b.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestFriendRemoveIsNoopWhenAbsent(t *testing.T) {
	database := openTestDB(t)
	users := repository.NewUserRepository(database)
	friends := repository.NewFriendRepository(database)
	ctx := testContext()

	a, err := users.Create(ctx, "alice", "h", "Alice")
	require.NoError(t, err)
	b, err := users.Create(ctx, "bob", "h", "Bob")
	require.NoError(t, err)

	require.NoError(t, friends.Remove(ctx, a.ID, b.ID))

	require.NoError(t, friends.Add(ctx, a.ID, b.ID))
	require.NoError(t, friends.Remove(ctx, a.ID, b.ID))
	require.NoError(t, friends.Remove(ctx, a.ID, b.ID))

	list, err := friends.ListFriends(ctx, a.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestFriendEdgesCascadeOnUserDelete(t *testing.T) {
	database := openTestDB(t)
	users := repository.NewUserRepository(database)
	friends := repository.NewFriendRepository(database)
	ctx := testContext()

	a, err := users.Create(ctx, "alice", "h", "Alice")
	require.NoError(t, err)
	b, err := users.Create(ctx, "bob", "h", "Bob")
	require.NoError(t, err)
	require.NoError(t, friends.Add(ctx, a.ID, b.ID))

	// No delete operation is exposed; the cascade is a store-level
	// guarantee, so exercise it directly.
	_, err = database.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, b.ID)
	require.NoError(t, err)

	list, err := friends.ListFriends(ctx, a.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}
