package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemoryCache_RoundTrip(t *testing.T) {
	cache := NewMemoryCache()
	ctx := context.Background()
	report := sampleReport()

	// 未命中返回 (nil, nil)
	got, err := cache.Get(ctx, "2025-W34")
	assert.NoError(t, err)
	assert.Nil(t, got)

	assert.NoError(t, cache.Put(ctx, "2025-W34", report))

	got, err = cache.Get(ctx, "2025-W34")
	assert.NoError(t, err)
	assert.Equal(t, report, got)

	// 其它周仍然未命中
	got, err = cache.Get(ctx, "2025-W35")
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryCache_AppendSemantics(t *testing.T) {
	cache := NewMemoryCache()
	ctx := context.Background()

	first := sampleReport()
	second := sampleReport()
	second.ReportDate = "2025-08-19"

	assert.NoError(t, cache.Put(ctx, "2025-W34", first))
	assert.NoError(t, cache.Put(ctx, "2025-W34", second))

	// 追加而非覆盖：条目数为 2，查找返回最早写入的那条
	assert.Equal(t, 2, cache.Len())
	got, err := cache.Get(ctx, "2025-W34")
	assert.NoError(t, err)
	assert.Equal(t, first, got)
}
