// Package redisqueue carries DocumentCreated events over a Redis list so the
// emails can be sent by a separate worker.
package redisqueue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog/log"

	"github.com/phenrril/galeria/internal/domain"
)

const DefaultKey = "galeria:documents:created"

type Queue struct {
	client *redis.Client
	key    string
}

func New(client *redis.Client, key string) *Queue {
	if key == "" {
		key = DefaultKey
	}
	return &Queue{client: client, key: key}
}

func NewFromURL(ctx context.Context, redisURL, key string) (*Queue, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return New(client, key), nil
}

func (q *Queue) Close() error { return q.client.Close() }

// Dispatch pushes the event; the worker pops from the other end.
func (q *Queue) Dispatch(ctx context.Context, ev domain.DocumentCreated) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return q.client.LPush(ctx, q.key, data).Err()
}

// Next waits up to timeout for an event. It returns nil, nil on timeout.
func (q *Queue) Next(ctx context.Context, timeout time.Duration) (*domain.DocumentCreated, error) {
	res, err := q.client.BRPop(ctx, timeout, q.key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("dequeue: %w", err)
	}
	if len(res) < 2 {
		return nil, fmt.Errorf("unexpected BRPOP reply")
	}
	var ev domain.DocumentCreated
	if err := json.Unmarshal([]byte(res[1]), &ev); err != nil {
		return nil, fmt.Errorf("decode event: %w", err)
	}
	return &ev, nil
}

// Run feeds events to handle until ctx is done. Handler errors and
// undecodable entries are logged and skipped.
func (q *Queue) Run(ctx context.Context, poll time.Duration, handle func(context.Context, domain.DocumentCreated) error) error {
	if poll <= 0 {
		poll = time.Second
	}
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		ev, err := q.Next(ctx, poll)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			log.Error().Err(err).Str("queue", q.key).Msg("notify worker")
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(poll):
			}
			continue
		}
		if ev == nil {
			continue
		}
		if err := handle(ctx, *ev); err != nil {
			log.Warn().Err(err).Str("collection", ev.Collection).Str("id", ev.ID).Msg("notify")
		}
	}
}
