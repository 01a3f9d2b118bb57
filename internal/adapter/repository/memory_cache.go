package repository

import (
	"context"

	"competitor-radar/internal/domain"
)

// cacheEntry 一条会话内缓存记录
type cacheEntry struct {
	weekKey string
	report  *domain.WeeklyReport
}

// MemoryCache 实现了 port.ReportCache 接口
// 进程内的会话级缓存：有序追加 + 线性扫描，条目极少所以足够了
// 没有配置 DATABASE_DSN 时用它兜底；单写者，不做并发保护
type MemoryCache struct {
	entries []cacheEntry
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{}
}

// Get 按周键查找，返回第一条匹配的报告，未命中返回 (nil, nil)
func (c *MemoryCache) Get(ctx context.Context, weekKey string) (*domain.WeeklyReport, error) {
	for _, entry := range c.entries {
		if entry.weekKey == weekKey {
			return entry.report, nil
		}
	}
	return nil, nil
}

// Put 追加一条记录，不覆盖同周的已有记录
func (c *MemoryCache) Put(ctx context.Context, weekKey string, report *domain.WeeklyReport) error {
	c.entries = append(c.entries, cacheEntry{weekKey: weekKey, report: report})
	return nil
}

// Len 当前缓存条目数 (测试用)
func (c *MemoryCache) Len() int {
	return len(c.entries)
}
