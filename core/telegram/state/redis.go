package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/go-redis/redis/v7"

	"github.com/magnitronlab/preorder-bot/core/logger"
)

const redisUpdateAttempts = 5

// RedisOptions configures a Redis-backed Store.
type RedisOptions struct {
	// Prefix namespaces session keys; default "session:".
	Prefix string
	// TTL expires idle sessions; zero keeps them until deleted.
	TTL time.Duration
}

// getter is satisfied by both *redis.Client and *redis.Tx.
type getter interface {
	Get(key string) *redis.StringCmd
}

type redisStore[T any] struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStore returns a Store keeping JSON-encoded sessions in Redis, so dialogues
// survive a restart. Redis failures are logged and read as "no session".
func NewRedisStore[T any](client *redis.Client, opts RedisOptions) Store[T] {
	if opts.Prefix == "" {
		opts.Prefix = "session:"
	}
	return &redisStore[T]{client: client, prefix: opts.Prefix, ttl: opts.TTL}
}

func (r *redisStore[T]) key(userID int64) string {
	return r.prefix + strconv.FormatInt(userID, 10)
}

func (r *redisStore[T]) load(cmd getter, userID int64) (T, bool, error) {
	var zero T
	raw, err := cmd.Get(r.key(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return zero, false, nil
	}
	if err != nil {
		return zero, false, err
	}
	var s T
	if err := json.Unmarshal(raw, &s); err != nil {
		return zero, false, err
	}
	return s, true, nil
}

func (r *redisStore[T]) Get(userID int64) (T, bool) {
	s, ok, err := r.load(r.client, userID)
	if err != nil {
		warn("get", userID, err)
	}
	return s, ok
}

func (r *redisStore[T]) Put(userID int64, session T) {
	raw, err := json.Marshal(session)
	if err == nil {
		err = r.client.Set(r.key(userID), raw, r.ttl).Err()
	}
	if err != nil {
		warn("put", userID, err)
	}
}

func (r *redisStore[T]) Delete(userID int64) {
	if err := r.client.Del(r.key(userID)).Err(); err != nil {
		warn("delete", userID, err)
	}
}

// Update uses optimistic locking on the session key and retries when another
// writer touched it between read and write. fn may run more than once; only the
// last run counts, and only when the returned error is nil.
func (r *redisStore[T]) Update(userID int64, fn func(cur T, ok bool) (T, bool)) error {
	key := r.key(userID)
	txf := func(tx *redis.Tx) error {
		cur, ok, err := r.load(tx, userID)
		if err != nil {
			warn("update.read", userID, err)
		}
		next, keep := fn(cur, ok)
		var raw []byte
		if keep {
			if raw, err = json.Marshal(next); err != nil {
				return err
			}
		}
		_, err = tx.TxPipelined(func(pipe redis.Pipeliner) error {
			if keep {
				pipe.Set(key, raw, r.ttl)
			} else {
				pipe.Del(key)
			}
			return nil
		})
		return err
	}

	var err error
	for i := 0; i < redisUpdateAttempts; i++ {
		if err = r.client.Watch(txf, key); !errors.Is(err, redis.TxFailedErr) {
			break
		}
	}
	if err != nil {
		warn("update", userID, err)
		return fmt.Errorf("state: update session %d: %w", userID, err)
	}
	return nil
}

func (r *redisStore[T]) Len() int {
	var (
		cursor uint64
		n      int
	)
	for {
		keys, next, err := r.client.Scan(cursor, r.prefix+"*", 100).Result()
		if err != nil {
			warn("len", 0, err)
			return n
		}
		n += len(keys)
		if cursor = next; cursor == 0 {
			return n
		}
	}
}

func warn(op string, userID int64, err error) {
	logger.Warn(context.Background(), "state", "redis."+op,
		slog.String("status", "fail"),
		slog.Int64("user_id", userID),
		slog.String("err", err.Error()),
	)
}
