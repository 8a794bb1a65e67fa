package fence

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFence(t *testing.T) {
	t.Run("NewerRequestSupersedesOlder", func(t *testing.T) {
		f := New()
		started := make(chan struct{})
		type result struct {
			v   string
			err error
		}
		firstDone := make(chan result, 1)

		go func() {
			v, err := Do(context.Background(), f, "visitor-1", func(ctx context.Context) (string, error) {
				close(started)
				<-ctx.Done()
				return "stale", nil
			})
			firstDone <- result{v, err}
		}()

		<-started
		v, err := Do(context.Background(), f, "visitor-1", func(ctx context.Context) (string, error) {
			return "fresh", nil
		})
		require.NoError(t, err)
		require.Equal(t, "fresh", v)

		select {
		case r := <-firstDone:
			require.ErrorIs(t, r.err, ErrSuperseded)
			require.Equal(t, "", r.v)
		case <-time.After(2 * time.Second):
			t.Fatal("first request was not cancelled")
		}
	})

	t.Run("KeysAreIndependent", func(t *testing.T) {
		f := New()
		_, a := f.Begin(context.Background(), "a")
		_, b := f.Begin(context.Background(), "b")
		require.True(t, a.Current())
		require.True(t, b.Current())
		_, a2 := f.Begin(context.Background(), "a")
		require.False(t, a.Current())
		require.True(t, a2.Current())
		require.True(t, b.Current())
	})

	t.Run("ReleaseCancelsContextAndClearsSlot", func(t *testing.T) {
		f := New()
		ctx, tk := f.Begin(context.Background(), "k")
		require.Equal(t, 1, f.Len())
		tk.Release()
		require.Error(t, ctx.Err())
		require.Equal(t, 0, f.Len())
	})

	t.Run("StaleTicketReleaseKeepsNewerSlot", func(t *testing.T) {
		f := New()
		_, old := f.Begin(context.Background(), "k")
		ctx, cur := f.Begin(context.Background(), "k")
		old.Release()
		require.Equal(t, 1, f.Len())
		require.NoError(t, ctx.Err())
		require.True(t, cur.Current())
	})

	t.Run("RecreatedSlotDoesNotRevalidateStaleTicket", func(t *testing.T) {
		f := New()
		_, stale := f.Begin(context.Background(), "k")
		_, second := f.Begin(context.Background(), "k")
		second.Release()
		_, third := f.Begin(context.Background(), "k")
		require.False(t, stale.Current())
		require.True(t, third.Current())
	})

	t.Run("ManyKeysLeaveNoSlots", func(t *testing.T) {
		f := New()
		for i := 0; i < 1000; i++ {
			_, err := Do(context.Background(), f, fmt.Sprintf("visitor-%d", i), func(ctx context.Context) (int, error) {
				return i, nil
			})
			require.NoError(t, err)
		}
		require.Equal(t, 0, f.Len())
	})
}
