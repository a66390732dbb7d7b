package repository

import (
	"context"
	"log"

	"ai-world-tracker/internal/common"
	"ai-world-tracker/internal/domain"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// PostgresRepo 实现了 port.Repository 接口
type PostgresRepo struct {
	db *gorm.DB
}

// NewPostgresRepo 初始化数据库连接并自动迁移表结构
func NewPostgresRepo(dsn string) (*PostgresRepo, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, common.WrapError(common.ErrCodeDatabase, "连接数据库失败", err)
	}

	// AutoMigrate 会自动创建 records 表，字段变了也会自动更新
	if err := db.AutoMigrate(&domain.Record{}); err != nil {
		return nil, common.WrapError(common.ErrCodeDatabase, "数据库迁移失败", err)
	}

	log.Println("[repository] ✅ 数据库连接成功")
	return &PostgresRepo{db: db}, nil
}

// Save 保存或更新一条记录。主键是内容哈希，Save 自动处理 Upsert
func (r *PostgresRepo) Save(ctx context.Context, rec *domain.Record) error {
	if err := r.db.WithContext(ctx).Save(rec).Error; err != nil {
		return common.WrapError(common.ErrCodeDatabase, "保存记录失败", err)
	}
	return nil
}

// Exists 检查内容哈希对应的记录是否已处理过
func (r *PostgresRepo) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	// SELECT count(*) FROM records WHERE id = ?
	err := r.db.WithContext(ctx).Model(&domain.Record{}).Where("id = ?", id).Count(&count).Error
	if err != nil {
		return false, common.WrapError(common.ErrCodeDatabase, "查询记录失败", err)
	}
	return count > 0, nil
}

// MarkNotified 推送成功后落标记，避免重复打扰
func (r *PostgresRepo) MarkNotified(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).Model(&domain.Record{}).Where("id = ?", id).Update("notified", true).Error
	if err != nil {
		return common.WrapError(common.ErrCodeDatabase, "更新通知状态失败", err)
	}
	return nil
}

// Search 根据关键词搜索标题和分类理由
func (r *PostgresRepo) Search(ctx context.Context, query string) ([]*domain.Record, error) {
	var records []*domain.Record
	// MVP 简单粗暴：使用 LIKE 模糊查询
	likeQuery := "%" + query + "%"
	err := r.db.WithContext(ctx).
		Where("title LIKE ? OR reasoning LIKE ?", likeQuery, likeQuery).
		Order("importance DESC"). // 优先展示高重要性内容
		Limit(10).                // 只返回前10条
		Find(&records).Error
	if err != nil {
		return nil, common.WrapError(common.ErrCodeDatabase, "搜索记录失败", err)
	}
	return records, nil
}

// GetUnnotified 获取尚未推送的 critical 级记录
func (r *PostgresRepo) GetUnnotified(ctx context.Context) ([]*domain.Record, error) {
	var records []*domain.Record
	err := r.db.WithContext(ctx).
		Where("notified = ? AND importance_level = ?", false, "critical").
		Order("importance DESC").
		Find(&records).Error
	if err != nil {
		return nil, common.WrapError(common.ErrCodeDatabase, "查询未通知记录失败", err)
	}
	return records, nil
}
