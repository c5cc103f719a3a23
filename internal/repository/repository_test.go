package repository_test

import (
	"context"
	"testing"
	"time"

	"event_gallery/internal/repository"
	redisapp "event_gallery/internal/storage/redis"

	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func NewMockClient() (*redisapp.Client, redismock.ClientMock) {
	db, mock := redismock.NewClientMock()
	return &redisapp.Client{Client: db}, mock
}

func setupRepo() (*repository.RedisVisitRepo, redismock.ClientMock) {
	db, mock := NewMockClient()
	return repository.NewRedisVisitRepo(db), mock
}

func visitKey(eventID, day, visitorID string) string {
	return "visit:" + eventID + ":" + day + ":" + visitorID
}

func TestRedisVisitRepo_MarkVisit(t *testing.T) {
	ctx := context.Background()
	repo, mock := setupRepo()
	visitorID := uuid.NewString()
	ttl := 48 * time.Hour

	t.Run("first visit", func(t *testing.T) {
		mock.ExpectSetNX(visitKey("festival", "2025-05-03", visitorID), "1", ttl).SetVal(true)

		first, err := repo.MarkVisit(ctx, "festival", "2025-05-03", visitorID, ttl)
		require.NoError(t, err)
		assert.True(t, first)
	})

	t.Run("repeat visit", func(t *testing.T) {
		mock.ExpectSetNX(visitKey("festival", "2025-05-03", visitorID), "1", ttl).SetVal(false)

		first, err := repo.MarkVisit(ctx, "festival", "2025-05-03", visitorID, ttl)
		require.NoError(t, err)
		assert.False(t, first)
	})

	t.Run("redis error", func(t *testing.T) {
		mock.ExpectSetNX(visitKey("festival", "2025-05-03", visitorID), "1", ttl).SetErr(redis.ErrClosed)

		_, err := repo.MarkVisit(ctx, "festival", "2025-05-03", visitorID, ttl)
		assert.ErrorIs(t, err, redis.ErrClosed)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemoryVisitRepo_MarkVisit(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryVisitRepo(time.Minute)

	first, err := repo.MarkVisit(ctx, "festival", "2025-05-03", "v1", time.Hour)
	require.NoError(t, err)
	assert.True(t, first)

	first, err = repo.MarkVisit(ctx, "festival", "2025-05-03", "v1", time.Hour)
	require.NoError(t, err)
	assert.False(t, first)

	t.Run("other day, event or visitor counts again", func(t *testing.T) {
		for _, args := range [][3]string{
			{"festival", "2025-05-04", "v1"},
			{"market", "2025-05-03", "v1"},
			{"festival", "2025-05-03", "v2"},
		} {
			first, err := repo.MarkVisit(ctx, args[0], args[1], args[2], time.Hour)
			require.NoError(t, err)
			assert.True(t, first, args)
		}
	})

	t.Run("expired entry counts again", func(t *testing.T) {
		first, err := repo.MarkVisit(ctx, "short", "2025-05-03", "v1", time.Millisecond)
		require.NoError(t, err)
		require.True(t, first)

		time.Sleep(5 * time.Millisecond)

		first, err = repo.MarkVisit(ctx, "short", "2025-05-03", "v1", time.Millisecond)
		require.NoError(t, err)
		assert.True(t, first)
	})
}

func TestRepository_CloseRunsHooksInReverse(t *testing.T) {
	repo := repository.NewRepository(nil, nil)

	var order []int
	repo.OnClose(func() { order = append(order, 1) })
	repo.OnClose(func() { order = append(order, 2) })

	repo.Close()
	repo.Close()

	assert.Equal(t, []int{2, 1}, order)
}
