package cache

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dikdasmenpwmjateng-hue/sim-buku-ismuba-mipa/internal/domain"
)

const endpoint = "https://script.google.com/macros/s/abc/exec"

// setupTestRedis creates a miniredis server and returns a RedisCache instance
func setupTestRedis(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisCache(client, 15*time.Minute), mr
}

func sampleMasterData() *domain.MasterData {
	return &domain.MasterData{
		KabupatenList: []string{"Kendal", "Batang"},
		BukuIsmuba: []domain.Book{
			{Jenis: "ISMUBA", Kategori: "Akidah", Judul: "Akidah Akhlak SD 1", Kelas: "1", HargaSD: 15000},
		},
		BukuMipa: []domain.Book{
			{Jenis: "MIPA", Kategori: "Matematika", Judul: "Matematika SMP 7", Kelas: "7", HargaSMP: 22000},
		},
	}
}

func TestGet_Success(t *testing.T) {
	cache, mr := setupTestRedis(t)

	raw, _ := json.Marshal(sampleMasterData())
	mr.Set(cacheKey(endpoint), string(raw))

	md, err := cache.Get(context.Background(), endpoint)
	require.NoError(t, err)
	assert.Equal(t, []string{"Kendal", "Batang"}, md.KabupatenList)
	assert.Len(t, md.AllBooks(), 2)
	assert.Equal(t, int64(22000), md.BukuMipa[0].HargaSMP.Int())
}

func TestGet_CacheMiss(t *testing.T) {
	cache, _ := setupTestRedis(t)

	md, err := cache.Get(context.Background(), endpoint)
	assert.ErrorIs(t, err, ErrCacheMiss)
	assert.Nil(t, md)
}

func TestGet_InvalidJSON(t *testing.T) {
	cache, mr := setupTestRedis(t)
	mr.Set(cacheKey(endpoint), `{"kabupatenList":[`)

	_, err := cache.Get(context.Background(), endpoint)
	require.ErrorContains(t, err, "unmarshal master data failed")
}

func TestSet_WithTTL(t *testing.T) {
	cache, mr := setupTestRedis(t)

	require.NoError(t, cache.Set(context.Background(), endpoint, sampleMasterData()))

	ttl := mr.TTL(cacheKey(endpoint))
	assert.True(t, ttl >= 15*time.Minute, "TTL should be at least base TTL")
	assert.True(t, ttl < 20*time.Minute, "TTL should be base + max jitter")
}

func TestKeysArePerEndpoint(t *testing.T) {
	cache, _ := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, endpoint, sampleMasterData()))

	_, err := cache.Get(ctx, "https://example.org/other")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestDelete_Success(t *testing.T) {
	cache, mr := setupTestRedis(t)
	ctx := context.Background()
	require.NoError(t, cache.Set(ctx, endpoint, sampleMasterData()))

	require.NoError(t, cache.Delete(ctx, endpoint))
	assert.False(t, mr.Exists(cacheKey(endpoint)))
}

func TestMemoryCache_Expiry(t *testing.T) {
	m := NewMemoryCache(time.Minute)
	now := time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, endpoint, sampleMasterData()))
	_, err := m.Get(ctx, endpoint)
	require.NoError(t, err)

	now = now.Add(time.Minute)
	_, err = m.Get(ctx, endpoint)
	assert.ErrorIs(t, err, ErrCacheMiss)
}
