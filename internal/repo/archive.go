package repo

import (
	"Arquivista/internal/model"
	"context"

	"gorm.io/gorm"
)

// ArchiveRepository история загрузок пользователя.
type ArchiveRepository interface {
	Create(ctx context.Context, a *model.Archive) error
	// ListByUser возвращает записи пользователя, новые первыми.
	ListByUser(ctx context.Context, userID int64, limit int) ([]model.Archive, error)
}

type archiveRepo struct {
	db *gorm.DB
}

func NewArchiveRepository(db *gorm.DB) ArchiveRepository {
	return &archiveRepo{db: db}
}

func (r *archiveRepo) Create(ctx context.Context, a *model.Archive) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *archiveRepo) ListByUser(ctx context.Context, userID int64, limit int) ([]model.Archive, error) {
	var out []model.Archive
	q := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
