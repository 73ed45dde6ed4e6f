package repository

import (
	"testing"
	"time"

	"github.com/minglehq/mingle/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) *LocalRepository {
	t.Helper()
	db, err := OpenDB(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.RunMigrations())
	return NewLocalRepository(db)
}

func TestCurrentUserRoundTrip(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.GetCurrentUser()
	assert.ErrorIs(t, err, domain.ErrRecordNotFound)

	u := &domain.User{
		ID:        "u1",
		FirstName: "Usman",
		LastName:  "Khan",
		Email:     "usman@example.com",
		Bio:       "hi there",
		CreatedAt: time.Date(2025, time.June, 18, 15, 30, 0, 0, time.UTC),
	}
	require.NoError(t, repo.SaveCurrentUser(u))

	got, err := repo.GetCurrentUser()
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, u.Email, got.Email)
	assert.Equal(t, u.Bio, got.Bio)

	require.NoError(t, repo.DeletePreviousUser())
	_, err = repo.GetCurrentUser()
	assert.ErrorIs(t, err, domain.ErrRecordNotFound)
}

func TestReplaceChatHeadsSkipsPending(t *testing.T) {
	repo := newTestRepo(t)
	now := time.Date(2025, time.June, 18, 15, 30, 0, 0, time.UTC)

	heads := []*domain.ChatHead{
		{
			ID:            domain.ServerID("c1"),
			Sender:        domain.UserRef{ID: "u1", Name: "Usman"},
			Receiver:      domain.UserRef{ID: "u2", Name: "Dua"},
			LastMessage:   "see you",
			LastMessageAt: now,
		},
		{
			// optimistic placeholder, must not end up in the cache
			ID:       domain.PendingID("tok-1"),
			Sender:   domain.UserRef{ID: "u1"},
			Receiver: domain.UserRef{ID: "u3"},
		},
		{
			ID:            domain.ServerID("c2"),
			Sender:        domain.UserRef{ID: "u3", Name: "Moiz"},
			Receiver:      domain.UserRef{ID: "u1", Name: "Usman"},
			LastMessage:   "later",
			LastMessageAt: now.Add(-time.Hour),
		},
	}
	require.NoError(t, repo.ReplaceChatHeads(heads...))

	got, err := repo.GetChatHeads()
	require.NoError(t, err)
	require.Len(t, got, 2)
	// newest first
	assert.Equal(t, domain.ServerID("c1"), got[0].ID)
	assert.Equal(t, "Dua", got[0].Receiver.Name)
	assert.True(t, got[0].LastMessageAt.Equal(now))
	assert.Equal(t, domain.ServerID("c2"), got[1].ID)

	// a replace is a swap, not a merge
	require.NoError(t, repo.ReplaceChatHeads(heads[2]))
	got, err = repo.GetChatHeads()
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, domain.ServerID("c2"), got[0].ID)
}

func TestReplaceChatHeadsWithNothingClears(t *testing.T) {
	repo := newTestRepo(t)
	require.NoError(t, repo.ReplaceChatHeads(&domain.ChatHead{
		ID:     domain.ServerID("c1"),
		Sender: domain.UserRef{ID: "u1"}, Receiver: domain.UserRef{ID: "u2"},
	}))

	require.NoError(t, repo.ReplaceChatHeads())
	got, err := repo.GetChatHeads()
	require.NoError(t, err)
	assert.Empty(t, got)
}
