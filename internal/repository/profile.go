package repository

import (
	"errors"

	"github.com/user/movieshelf/internal/model"
	"gorm.io/gorm"
)

// ProfileRepository 用户资料仓库
type ProfileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// FindByUserID 根据用户 ID 查找资料
func (r *ProfileRepository) FindByUserID(userID int) (*model.Profile, error) {
	var profile model.Profile
	err := r.db.Where("user_id = ?", userID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &profile, nil
}

// CountByUserID 统计某用户名下的资料条数
func (r *ProfileRepository) CountByUserID(userID int) (int64, error) {
	var count int64
	err := r.db.Model(&model.Profile{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

// Save 保存资料
func (r *ProfileRepository) Save(profile *model.Profile) error {
	return r.db.Save(profile).Error
}
