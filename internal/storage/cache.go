package storage

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const linkKeyPrefix = "filelink:"

// CachedStore memoizes resolved links in Redis. Cache faults never fail a
// call; they fall through to the wrapped store.
type CachedStore struct {
	FileStore
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewCachedStore(inner FileStore, client *redis.Client, ttl time.Duration, logger *zap.Logger) *CachedStore {
	return &CachedStore{FileStore: inner, client: client, ttl: ttl, logger: logger}
}

func (c *CachedStore) Link(ctx context.Context, ref string) (string, error) {
	key := linkKeyPrefix + ref

	val, err := c.client.Get(ctx, key).Result()
	switch {
	case err == nil:
		return val, nil
	case !errors.Is(err, redis.Nil):
		c.logger.Warn("Link cache read failed", zap.String("ref", ref), zap.Error(err))
	}

	link, err := c.FileStore.Link(ctx, ref)
	if err != nil {
		return "", err
	}
	if err := c.client.Set(ctx, key, link, c.ttl).Err(); err != nil {
		c.logger.Warn("Link cache write failed", zap.String("ref", ref), zap.Error(err))
	}
	return link, nil
}

func (c *CachedStore) Delete(ctx context.Context, ref string) error {
	if err := c.FileStore.Delete(ctx, ref); err != nil {
		return err
	}
	if err := c.client.Del(ctx, linkKeyPrefix+ref).Err(); err != nil {
		c.logger.Warn("Link cache invalidation failed", zap.String("ref", ref), zap.Error(err))
	}
	return nil
}

// Close closes the wrapped store if it holds resources. The Redis client
// is owned by the caller.
func (c *CachedStore) Close() error {
	if closer, ok := c.FileStore.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
