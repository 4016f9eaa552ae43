package repository

import (
	"errors"
	"time"

	"github.com/user/movieshelf/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// HistoryRepository 观影进度仓库
type HistoryRepository struct {
	db *gorm.DB
}

func NewHistoryRepository(db *gorm.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// Create 插入观影记录，同一 (user, movie) 的二次插入会被唯一索引拒绝
func (r *HistoryRepository) Create(h *model.WatchHistory) error {
	h.UpdatedAt = time.Now()
	return r.db.Create(h).Error
}

// Upsert 更新或插入观影进度
func (r *HistoryRepository) Upsert(h *model.WatchHistory) error {
	h.UpdatedAt = time.Now()
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "movie_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"watched_minutes", "updated_at"}),
	}).Create(h).Error
}

// Find 查找某用户某部电影的观影记录
func (r *HistoryRepository) Find(userID, movieID int) (*model.WatchHistory, error) {
	var history model.WatchHistory
	err := r.db.Where("user_id = ? AND movie_id = ?", userID, movieID).First(&history).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &history, nil
}

// ListByUser 获取用户观影记录
func (r *HistoryRepository) ListByUser(userID int) ([]*model.WatchHistory, error) {
	var histories []*model.WatchHistory
	err := r.db.Preload("Movie").Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&histories).Error
	return histories, err
}
