package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/spotlesscleaning/site-server-go/internal/content"
	apperrors "github.com/spotlesscleaning/site-server-go/internal/errors"
	"github.com/spotlesscleaning/site-server-go/internal/model"
	redisclient "github.com/spotlesscleaning/site-server-go/internal/redis"
	"github.com/spotlesscleaning/site-server-go/internal/repository"
)

// SnapshotCache caches the serialized content list between page loads.
// A cache outage degrades to direct database reads, never to a failure.
type SnapshotCache interface {
	GetSnapshot(ctx context.Context) ([]byte, bool)
	SetSnapshot(ctx context.Context, data []byte)
	Invalidate(ctx context.Context)
}

type redisSnapshotCache struct {
	client *redisclient.Client
	ttl    time.Duration
}

func NewRedisSnapshotCache(client *redisclient.Client, ttl time.Duration) SnapshotCache {
	return &redisSnapshotCache{client: client, ttl: ttl}
}

func (c *redisSnapshotCache) GetSnapshot(ctx context.Context) ([]byte, bool) {
	data, err := c.client.Get(ctx, redisclient.ContentCacheKey).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

func (c *redisSnapshotCache) SetSnapshot(ctx context.Context, data []byte) {
	if err := c.client.Set(ctx, redisclient.ContentCacheKey, data, c.ttl).Err(); err != nil {
		log.Warn().Err(err).Msg("failed to cache content snapshot")
	}
}

func (c *redisSnapshotCache) Invalidate(ctx context.Context) {
	if err := c.client.Del(ctx, redisclient.ContentCacheKey).Err(); err != nil {
		log.Warn().Err(err).Msg("failed to invalidate content cache")
	}
}

type ContentService struct {
	repo  repository.ContentRepository
	cache SnapshotCache
}

func NewContentService(repo repository.ContentRepository, cache SnapshotCache) *ContentService {
	return &ContentService{repo: repo, cache: cache}
}

// List returns all content entries ordered by section. Reads go through
// the cache when one is configured.
func (s *ContentService) List(ctx context.Context) ([]model.ContentEntry, error) {
	if s.cache != nil {
		if data, ok := s.cache.GetSnapshot(ctx); ok {
			var entries []model.ContentEntry
			if err := json.Unmarshal(data, &entries); err == nil {
				return entries, nil
			}
			log.Warn().Msg("discarding malformed content cache entry")
			s.cache.Invalidate(ctx)
		}
	}

	entries, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, apperrors.StoreUnavailable(err)
	}

	if s.cache != nil {
		if data, err := json.Marshal(entries); err == nil {
			s.cache.SetSnapshot(ctx, data)
		}
	}

	return entries, nil
}

// Snapshot fetches the current content for rendering. A store outage is
// logged and yields an empty snapshot, so the page falls back to its
// built-in defaults instead of failing.
func (s *ContentService) Snapshot(ctx context.Context) *content.Snapshot {
	entries, err := s.List(ctx)
	if err != nil {
		log.Error().Err(err).Msg("content store unavailable, rendering defaults")
		return content.Empty()
	}
	return content.NewSnapshot(entries)
}

// Upsert writes one value. Section and key identify the row; value may
// be empty. The cached snapshot is invalidated on success so the next
// read reflects the write.
func (s *ContentService) Upsert(ctx context.Context, section, key, value string) (*model.ContentEntry, error) {
	if section == "" {
		return nil, apperrors.MissingRequired("section")
	}
	if key == "" {
		return nil, apperrors.MissingRequired("key")
	}

	entry, err := s.repo.Upsert(ctx, model.UpsertContentParams{
		Section: section,
		Key:     key,
		Value:   value,
	})
	if err != nil {
		return nil, apperrors.StoreUnavailable(err)
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}

	return entry, nil
}
