package store

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "lunchmap:menu:"

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	UseTLS   bool
	// TTL is the absolute expiry set on every key. Zero uses DefaultTTL.
	TTL time.Duration
}

// RedisStore is a Store shared by every process pointed at the same server.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// Redis connects a RedisStore using cfg.
func Redis(cfg RedisConfig) *RedisStore {
	opts := &redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
	if cfg.UseTLS {
		opts.TLSConfig = &tls.Config{
			MinVersion: tls.VersionTLS12,
		}
	}
	return RedisFromClient(redis.NewClient(opts), cfg.TTL)
}

func RedisFromClient(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl == 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{client: client, ttl: ttl}
}

func (r *RedisStore) Get(ctx context.Context, sourceID string) (Entry, bool, error) {
	if err := validateKey(sourceID); err != nil {
		return Entry{}, false, err
	}
	val, err := r.client.Get(ctx, redisKeyPrefix+sourceID).Bytes()
	if errors.Is(err, redis.Nil) {
		return Entry{}, false, nil
	} else if err != nil {
		return Entry{}, false, fmt.Errorf("redis get %s: %w", sourceID, err)
	}
	var entry Entry
	if err := json.Unmarshal(val, &entry); err != nil {
		slog.Warn("redis cache: malformed entry", "source", sourceID, "error", err)
		return Entry{}, false, nil
	}
	if err := validateEntry(entry); err != nil {
		slog.Warn("redis cache: invalid entry", "source", sourceID, "error", err)
		return Entry{}, false, nil
	}
	return entry, true, nil
}

func (r *RedisStore) Put(ctx context.Context, sourceID string, entry Entry) error {
	if err := validateKey(sourceID); err != nil {
		return err
	}
	if err := validateEntry(entry); err != nil {
		return err
	}
	val, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode %s entry: %w", sourceID, err)
	}
	if err := r.client.Set(ctx, redisKeyPrefix+sourceID, val, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", sourceID, err)
	}
	return nil
}

// Ping checks the connection. Used at startup so a bad address fails fast.
func (r *RedisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}
