package repository_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"friendbook/internal/models"
	"friendbook/internal/repository"
)

func TestSessionCreateAndGet(t *testing.T) {
	sessions := repository.NewSessionStore(openTestDB(t))
	ctx := testContext()

	user := &models.User{ID: 1, Login: "alice", PasswordHash: "hash", DisplayName: "Alice", Bio: "hi"}
	sid, err := sessions.Create(ctx, user)
	require.NoError(t, err)
	require.NotEmpty(t, sid)

	got, err := sessions.Get(ctx, sid)
	require.NoError(t, err)
	assert.Equal(t, user, got)
}

func TestSessionGetUnknown(t *testing.T) {
	sessions := repository.NewSessionStore(openTestDB(t))

	_, err := sessions.Get(testContext(), "no-such-session")
	assert.ErrorIs(t, err, repository.ErrSessionNotFound)
}

func TestSessionUpdateReplacesSnapshot(t *testing.T) {
	sessions := repository.NewSessionStore(openTestDB(t))
	ctx := testContext()

	sid, err := sessions.Create(ctx, &models.User{ID: 1, Login: "alice", DisplayName: "Alice"})
	require.NoError(t, err)

	updated := &models.User{ID: 1, Login: "alice", DisplayName: "Alice", Bio: "new bio"}
	require.NoError(t, sessions.Update(ctx, sid, updated))

	got, err := sessions.Get(ctx, sid)
	require.NoError(t, err)
	assert.Equal(t, "new bio", got.Bio)
}

func TestSessionDestroy(t *testing.T) {
	sessions := repository.NewSessionStore(openTestDB(t))
	ctx := testContext()

	sid, err := sessions.Create(ctx, &models.User{ID: 1, Login: "alice"})
	require.NoError(t, err)

	require.NoError(t, sessions.Destroy(ctx, sid))

	_, err = sessions.Get(ctx, sid)
	assert.ErrorIs(t, err, repository.ErrSessionNotFound)
}

func TestSessionExpiry(t *testing.T) {
	database := openTestDB(t)
	sessions := repository.NewSessionStore(database)
	ctx := testContext()

	sid, err := sessions.Create(ctx, &models.User{ID: 1, Login: "alice"})
	require.NoError(t, err)

	_, err = database.ExecContext(ctx,
		`UPDATE sessions SET expires_at = ? WHERE id = ?`, time.Now().Add(-time.Minute), sid)
	require.NoError(t, err)

	_, err = sessions.Get(ctx, sid)
	assert.ErrorIs(t, err, repository.ErrSessionNotFound)

	// The expired row is removed on read.
	var count int
	require.NoError(t, database.GetContext(ctx, &count, `SELECT COUNT(*) FROM sessions WHERE id = ?`, sid))
	assert.Zero(t, count)
}

func TestSessionGetSlidesExpiry(t *testing.T) {
	database := openTestDB(t)
	sessions := repository.NewSessionStore(database)
	ctx := testContext()

	sid, err := sessions.Create(ctx, &models.User{ID: 1, Login: "alice"})
	require.NoError(t, err)

	nearFuture := time.Now().Add(time.Hour)
	_, err = database.ExecContext(ctx,
		`UPDATE sessions SET expires_at = ? WHERE id = ?`, nearFuture, sid)
	require.NoError(t, err)

	_, err = sessions.Get(ctx, sid)
	require.NoError(t, err)

	var sess models.Session
	require.NoError(t, database.GetContext(ctx, &sess,
		`SELECT id, user_json, expires_at FROM sessions WHERE id = ?`, sid))
	assert.True(t, sess.ExpiresAt.After(nearFuture), "expiry should slide forward on read")
}

func TestDeleteExpiredKeepsLiveSessions(t *testing.T) {
	database := openTestDB(t)
	sessions := repository.NewSessionStore(database)
	ctx := testContext()

	live, err := sessions.Create(ctx, &models.User{ID: 1, Login: "alice"})
	require.NoError(t, err)
	stale, err := sessions.Create(ctx, &models.User{ID: 2, Login: "bob"})
	require.NoError(t, err)
	_, err = database.ExecContext(ctx,
		`UPDATE sessions SET expires_at = ? WHERE id = ?`, time.Now().Add(-time.Minute), stale)
	require.NoError(t, err)

	require.NoError(t, sessions.DeleteExpired(ctx))

	_, err = sessions.Get(ctx, live)
	assert.NoError(t, err)
	var count int
	require.NoError(t, database.GetContext(ctx, &count, `SELECT COUNT(*) FROM sessions`))
	assert.Equal(t, 1, count)
}
