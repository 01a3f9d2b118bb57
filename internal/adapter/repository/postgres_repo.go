package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"competitor-radar/internal/domain"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// PostgresCache 实现了 port.ReportCache 接口，报告跨进程持久化
type PostgresCache struct {
	db *gorm.DB
}

// NewPostgresCache 初始化数据库连接并自动迁移表结构
func NewPostgresCache(dsn string) (*PostgresCache, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	// AutoMigrate 会自动创建 cached_reports 表，字段变了也会自动更新
	if err := db.AutoMigrate(&domain.CachedReport{}); err != nil {
		return nil, fmt.Errorf("数据库迁移失败: %w", err)
	}

	return &PostgresCache{db: db}, nil
}

// Get 按周键查找缓存的报告，未命中返回 (nil, nil)
// 同一周有多行时取最早写入的那行 (追加语义下第一行就是当周首次生成的报告)
func (c *PostgresCache) Get(ctx context.Context, weekKey string) (*domain.WeeklyReport, error) {
	var row domain.CachedReport
	err := c.db.WithContext(ctx).
		Where("week_key = ?", weekKey).
		Order("created_at asc").
		First(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("查询报告缓存失败: %w", err)
	}

	var report domain.WeeklyReport
	if err := json.Unmarshal([]byte(row.Payload), &report); err != nil {
		return nil, fmt.Errorf("反序列化缓存报告失败: %w", err)
	}
	return &report, nil
}

// Put 把报告追加写入当前周的缓存，不覆盖历史周
func (c *PostgresCache) Put(ctx context.Context, weekKey string, report *domain.WeeklyReport) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("序列化报告失败: %w", err)
	}

	row := &domain.CachedReport{
		WeekKey: weekKey,
		Payload: string(payload),
	}
	return c.db.WithContext(ctx).Create(row).Error
}
