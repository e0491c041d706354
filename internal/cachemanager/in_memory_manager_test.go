package cachemanager

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type exampleStruct struct {
	Key    string
	Symbol string
}

func newTestCache[V any]() *InMemoryCacheManager[V] {
	return NewInMemoryCacheManager[V]("test", NoExpiration, DefaultCleanupInterval)
}

func TestInMemoryCacheManager_GetExistingValue(t *testing.T) {
	cache := newTestCache[string]()
	cache.Set("length", "L")

	got, ok := cache.Get("length")
	require.True(t, ok)
	require.Equal(t, "L", got)
}

func TestInMemoryCacheManager_GetExistingValue_StructType(t *testing.T) {
	cache := newTestCache[exampleStruct]()
	want := exampleStruct{Key: "time", Symbol: "T"}
	cache.Set("time", want)

	got, ok := cache.Get("time")
	require.True(t, ok)
	require.Equal(t, want, got)
}

func TestInMemoryCacheManager_GetMissingValue(t *testing.T) {
	cache := newTestCache[string]()

	got, ok := cache.Get("mass")
	require.False(t, ok)
	require.Empty(t, got)
}

func TestInMemoryCacheManager_GetWithWrongStoredType(t *testing.T) {
	cache := newTestCache[string]()
	cache.cache.Set("length", 123, NoExpiration)

	got, ok := cache.Get("length")
	require.False(t, ok)
	require.Empty(t, got)
}

func TestInMemoryCacheManager_Delete(t *testing.T) {
	cache := newTestCache[string]()
	cache.Set("length", "L")
	cache.Set("time", "T")

	cache.Delete("length")

	_, ok := cache.Get("length")
	require.False(t, ok)
	_, ok = cache.Get("time")
	require.True(t, ok)

	require.NotPanics(t, func() { cache.Delete() })
}

func TestInMemoryCacheManager_Flush(t *testing.T) {
	cache := newTestCache[string]()
	cache.Set("length", "L")
	cache.Set("time", "T")
	require.Equal(t, 2, cache.ItemCount())

	cache.Flush()

	require.Equal(t, 0, cache.ItemCount())
	_, ok := cache.Get("length")
	require.False(t, ok)
}
