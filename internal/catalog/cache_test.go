package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/Abhigulve/mid-day-meal/internal/core"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// racingRepository runs onGet once, after the wrapped read has completed,
// to model a write landing while a cache fill is in flight.
type racingRepository struct {
	Repository
	onGet func()
}

func (r *racingRepository) Get(ctx context.Context, id int64) (*FoodItem, error) {
	item, err := r.Repository.Get(ctx, id)
	if hook := r.onGet; hook != nil {
		r.onGet = nil
		hook()
	}
	return item, err
}

func newCacheFixture(t *testing.T) (*miniredis.Miniredis, *InMemoryRepository, *CachedRepository) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	inner := NewInMemoryRepository()
	return mr, inner, NewCachedRepository(inner, rdb, time.Minute)
}

func seedRice(t *testing.T, repo Repository) *FoodItem {
	t.Helper()
	item := &FoodItem{Name: "Rice", Category: Grains, Unit: KG, CostPerUnit: cost("40.00")}
	require.NoError(t, repo.Create(context.Background(), item))
	return item
}

func TestCachedRepository_MissFillsThenHits(t *testing.T) {
	mr, inner, cached := newCacheFixture(t)
	ctx := context.Background()
	item := seedRice(t, inner)

	got, err := cached.Get(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Rice", got.Name)
	require.True(t, mr.Exists(cacheKey(item.ID)))
	assert.Equal(t, time.Minute, mr.TTL(cacheKey(item.ID)))

	// change the store behind the cache's back; the cached copy wins
	changed := *item
	changed.Name = "Brown Rice"
	require.NoError(t, inner.Update(ctx, &changed))

	got, err = cached.Get(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Rice", got.Name)
	assert.True(t, got.CostPerUnit.Equal(*cost("40.00")))
}

func TestCachedRepository_UpdateEvicts(t *testing.T) {
	mr, inner, cached := newCacheFixture(t)
	ctx := context.Background()
	item := seedRice(t, inner)

	_, err := cached.Get(ctx, item.ID)
	require.NoError(t, err)

	changed := *item
	changed.Name = "Brown Rice"
	require.NoError(t, cached.Update(ctx, &changed))
	assert.False(t, mr.Exists(cacheKey(item.ID)))

	got, err := cached.Get(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Brown Rice", got.Name)
}

func TestCachedRepository_DeactivateEvicts(t *testing.T) {
	mr, inner, cached := newCacheFixture(t)
	ctx := context.Background()
	item := seedRice(t, inner)

	_, err := cached.Get(ctx, item.ID)
	require.NoError(t, err)

	require.NoError(t, cached.Deactivate(ctx, item.ID))
	assert.False(t, mr.Exists(cacheKey(item.ID)))

	got, err := cached.Get(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, core.Inactive, got.State)
}

func TestCachedRepository_WriteDuringFillIsNotCached(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	ctx := context.Background()

	inner := NewInMemoryRepository()
	item := seedRice(t, inner)

	racing := &racingRepository{Repository: inner}
	cached := NewCachedRepository(racing, rdb, time.Minute)
	racing.onGet = func() {
		require.NoError(t, cached.Deactivate(ctx, item.ID))
	}

	// this read saw the item before the deactivation committed
	stale, err := cached.Get(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, core.Active, stale.State)
	assert.False(t, mr.Exists(cacheKey(item.ID)))

	fresh, err := cached.Get(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, core.Inactive, fresh.State)

	// the menu composer sees the deactivation too
	ref, err := NewService(cached).FoodItemRef(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, core.Inactive, ref.State)
}

func TestCachedRepository_UnreadableEntryFallsBack(t *testing.T) {
	mr, inner, cached := newCacheFixture(t)
	item := seedRice(t, inner)

	require.NoError(t, mr.Set(cacheKey(item.ID), "{not json"))

	got, err := cached.Get(context.Background(), item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Rice", got.Name)
}

func TestCachedRepository_UnknownIDIsNotFound(t *testing.T) {
	mr, _, cached := newCacheFixture(t)

	_, err := cached.Get(context.Background(), 404)
	assert.ErrorIs(t, err, core.ErrNotFound)
	assert.False(t, mr.Exists(cacheKey(404)))
}
