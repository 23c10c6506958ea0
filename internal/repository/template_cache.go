package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/SaurabhKarki-25/Music-Platform/internal/logger"
	"github.com/SaurabhKarki-25/Music-Platform/internal/models"
	"github.com/SaurabhKarki-25/Music-Platform/internal/mood"
	"go.uber.org/zap"
)

// templateCache is the slice of the Redis client the cached repository
// needs. Satisfied by *cache.RedisClient.
type templateCache interface {
	Get(ctx context.Context, key string) (string, error)
	SetEx(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

const templateCacheTTL = 5 * time.Minute

// cachedTemplateRepository puts a read-through cache in front of
// FindByMood, the hot path of every songs-by-mood request. Template writes
// invalidate the mood's key; usage counts may lag by up to the TTL. Cache
// failures degrade to the database, never to an error.
type cachedTemplateRepository struct {
	TemplateRepository
	cache templateCache
}

// NewCachedTemplateRepository wraps a template repository with a
// Redis-backed cache.
func NewCachedTemplateRepository(inner TemplateRepository, c templateCache) TemplateRepository {
	return &cachedTemplateRepository{TemplateRepository: inner, cache: c}
}

func templateCacheKey(m mood.Mood) string {
	return "mood:template:" + string(m)
}

func (r *cachedTemplateRepository) FindByMood(ctx context.Context, m mood.Mood) (*models.MoodTemplate, error) {
	key := templateCacheKey(m)
	if raw, err := r.cache.Get(ctx, key); err == nil {
		var template models.MoodTemplate
		if err := json.Unmarshal([]byte(raw), &template); err == nil {
			return &template, nil
		}
		// Unreadable entry, drop it and fall through to the database.
		r.invalidate(ctx, key)
	}

	template, err := r.TemplateRepository.FindByMood(ctx, m)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(template); err == nil {
		if err := r.cache.SetEx(ctx, key, raw, templateCacheTTL); err != nil {
			logger.Log.Warn("failed to cache mood template",
				zap.String("mood", string(m)),
				zap.Error(err),
			)
		}
	}
	return template, nil
}

func (r *cachedTemplateRepository) Create(ctx context.Context, template *models.MoodTemplate) error {
	if err := r.TemplateRepository.Create(ctx, template); err != nil {
		return err
	}
	r.invalidate(ctx, templateCacheKey(template.MoodLabel()))
	return nil
}

func (r *cachedTemplateRepository) SetActive(ctx context.Context, id string, active bool) error {
	if err := r.TemplateRepository.SetActive(ctx, id, active); err != nil {
		return err
	}
	if template, err := r.TemplateRepository.Get(ctx, id); err == nil {
		r.invalidate(ctx, templateCacheKey(template.MoodLabel()))
	}
	return nil
}

func (r *cachedTemplateRepository) invalidate(ctx context.Context, key string) {
	if err := r.cache.Del(ctx, key); err != nil {
		logger.Log.Warn("failed to invalidate mood template cache",
			zap.String("key", key),
			zap.Error(err),
		)
	}
}
