// Package cache provides caching decorators over outbound ports.
package cache

import (
	"context"
	"time"

	"github.com/google/uuid"

	"shipflow_server/core/port/out"
	"shipflow_server/pkg/cache"
	"shipflow_server/pkg/logger"
)

const attachmentKeyPrefix = "attachment:text:"

// CachedAttachmentStore decorates an AttachmentTextStore with a Redis
// read-through cache. Extracted text never changes once written, so a plain
// TTL is enough.
type CachedAttachmentStore struct {
	inner out.AttachmentTextStore
	cache *cache.RedisCache
	ttl   time.Duration
	log   *logger.Logger
}

// NewCachedAttachmentStore wraps inner with a read-through cache.
func NewCachedAttachmentStore(inner out.AttachmentTextStore, redisCache *cache.RedisCache, ttl time.Duration, log *logger.Logger) *CachedAttachmentStore {
	if ttl <= 0 {
		ttl = time.Hour
	}
	if log == nil {
		log = logger.Default()
	}
	return &CachedAttachmentStore{
		inner: inner,
		cache: redisCache,
		ttl:   ttl,
		log:   log,
	}
}

// GetByEmailID serves from cache when possible, falling back to the inner
// store. Cache failures degrade to the inner store, never to an error.
func (s *CachedAttachmentStore) GetByEmailID(ctx context.Context, emailID uuid.UUID) (*out.AttachmentRecord, error) {
	key := attachmentKeyPrefix + emailID.String()

	var cached out.AttachmentRecord
	hit, err := s.cache.GetJSON(ctx, key, &cached)
	if err != nil {
		s.log.WithError(err).Debug("attachment cache read failed for %s", emailID)
	} else if hit {
		return &cached, nil
	}

	record, err := s.inner.GetByEmailID(ctx, emailID)
	if err != nil || record == nil {
		return record, err
	}

	if err := s.cache.SetJSON(ctx, key, record, s.ttl); err != nil {
		s.log.WithError(err).Debug("attachment cache write failed for %s", emailID)
	}
	return record, nil
}

var _ out.AttachmentTextStore = (*CachedAttachmentStore)(nil)
