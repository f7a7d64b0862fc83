package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Abhigulve/mid-day-meal/internal/core"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// CachedRepository keeps point lookups of food items in Redis.
// A nil client turns the cache off and every call goes to the wrapped repo.
//
// Writes bump a per-item generation key before evicting. A fill watches
// that key, so a read that raced a write never stores the old item.
type CachedRepository struct {
	Repository
	rdb *redis.Client
	ttl time.Duration
}

func NewCachedRepository(repo Repository, rdb *redis.Client, ttl time.Duration) *CachedRepository {
	return &CachedRepository{Repository: repo, rdb: rdb, ttl: ttl}
}

func cacheKey(id int64) string {
	return fmt.Sprintf("food_item:%d", id)
}

func generationKey(id int64) string {
	return fmt.Sprintf("food_item:%d:gen", id)
}

func (r *CachedRepository) Get(ctx context.Context, id int64) (*FoodItem, error) {
	if r.rdb == nil {
		return r.Repository.Get(ctx, id)
	}

	key := cacheKey(id)
	cached, err := r.rdb.Get(ctx, key).Result()
	if err == nil {
		var item FoodItem
		if json.Unmarshal([]byte(cached), &item) == nil {
			return &item, nil
		}
		log.Warn().Int64("food_item_id", id).Msg("discarding unreadable cached food item")
	} else if !errors.Is(err, redis.Nil) {
		log.Error().Err(err).Int64("food_item_id", id).Msg("redis GET failed")
	}

	var (
		item    *FoodItem
		repoErr error
	)
	err = r.rdb.Watch(ctx, func(tx *redis.Tx) error {
		item, repoErr = r.Repository.Get(ctx, id)
		if repoErr != nil {
			return repoErr
		}

		data, err := json.Marshal(item)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.Set(ctx, key, data, r.ttl)
			return nil
		})
		return err
	}, generationKey(id))

	switch {
	case repoErr != nil:
		return nil, repoErr
	case item == nil:
		// redis failed before the read ran
		log.Error().Err(err).Int64("food_item_id", id).Msg("redis WATCH failed")
		return r.Repository.Get(ctx, id)
	case errors.Is(err, redis.TxFailedErr):
		log.Debug().Int64("food_item_id", id).Msg("food item changed during read, not cached")
	case err != nil:
		log.Error().Err(err).Int64("food_item_id", id).Msg("redis SET failed")
	}
	return item, nil
}

func (r *CachedRepository) Update(ctx context.Context, item *FoodItem) error {
	if err := r.Repository.Update(ctx, item); err != nil {
		return err
	}
	r.evict(ctx, item.ID)
	return nil
}

func (r *CachedRepository) Deactivate(ctx context.Context, id int64) error {
	if err := r.Repository.Deactivate(ctx, id); err != nil {
		return err
	}
	r.evict(ctx, id)
	return nil
}

func (r *CachedRepository) evict(ctx context.Context, id int64) {
	if r.rdb == nil {
		return
	}
	_, err := r.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Incr(ctx, generationKey(id))
		p.Del(ctx, cacheKey(id))
		return nil
	})
	if err != nil {
		log.Error().Err(err).Int64("food_item_id", id).Msg("redis evict failed")
	}
}

var _ Repository = (*CachedRepository)(nil)
var _ core.FoodItemReader = (*Service)(nil)
