package redisqueue

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/require"

	"github.com/phenrril/galeria/internal/domain"
)

func setupQueue(t *testing.T) (*miniredis.Miniredis, *Queue) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, New(client, "")
}

func TestQueue_FIFO(t *testing.T) {
	mr, q := setupQueue(t)
	ctx := context.Background()

	require.NoError(t, q.Dispatch(ctx, domain.DocumentCreated{Collection: "trades", ID: "1"}))
	require.NoError(t, q.Dispatch(ctx, domain.DocumentCreated{Collection: "sells", ID: "2"}))

	items, err := mr.List(DefaultKey)
	require.NoError(t, err)
	require.Len(t, items, 2)

	ev, err := q.Next(ctx, time.Second)
	require.NoError(t, err)
	require.Equal(t, domain.DocumentCreated{Collection: "trades", ID: "1"}, *ev)

	ev, err = q.Next(ctx, time.Second)
	require.NoError(t, err)
	require.Equal(t, "2", ev.ID)
}

func TestQueue_DecodeError(t *testing.T) {
	mr, q := setupQueue(t)
	_, err := mr.Lpush(DefaultKey, "not json")
	require.NoError(t, err)

	_, err = q.Next(context.Background(), time.Second)
	require.ErrorContains(t, err, "decode event")
}

func TestQueue_Run(t *testing.T) {
	_, q := setupQueue(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, q.Dispatch(ctx, domain.DocumentCreated{Collection: "contacts", ID: "c1"}))

	var got []domain.DocumentCreated
	err := q.Run(ctx, 100*time.Millisecond, func(_ context.Context, ev domain.DocumentCreated) error {
		got = append(got, ev)
		cancel()
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, []domain.DocumentCreated{{Collection: "contacts", ID: "c1"}}, got)
}
