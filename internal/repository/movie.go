package repository

import (
	"errors"

	"github.com/user/movieshelf/internal/model"
	"gorm.io/gorm"
)

// MovieRepository 电影仓库
type MovieRepository struct {
	db *gorm.DB
}

func NewMovieRepository(db *gorm.DB) *MovieRepository {
	return &MovieRepository{db: db}
}

// Create 创建电影
func (r *MovieRepository) Create(movie *model.Movie) error {
	return r.db.Create(movie).Error
}

// Update 更新电影
func (r *MovieRepository) Update(movie *model.Movie) error {
	return r.db.Save(movie).Error
}

// Delete 删除电影
func (r *MovieRepository) Delete(id int) error {
	return r.db.Delete(&model.Movie{}, id).Error
}

// FindByID 根据 ID 查找电影
func (r *MovieRepository) FindByID(id int) (*model.Movie, error) {
	var movie model.Movie
	err := r.db.Preload("Category").First(&movie, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &movie, nil
}

// FindBySlug 根据 Slug 查找电影
func (r *MovieRepository) FindBySlug(slug string) (*model.Movie, error) {
	var movie model.Movie
	err := r.db.Preload("Category").Where("slug = ?", slug).First(&movie).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &movie, nil
}

// List 按条件查询电影，categoryID 为 0 表示不过滤，search 为空表示不搜索
func (r *MovieRepository) List(categoryID int, search string) ([]*model.Movie, error) {
	q := r.db.Preload("Category").Order("created_at DESC")
	if categoryID > 0 {
		q = q.Where("category_id = ?", categoryID)
	}
	if search != "" {
		q = q.Where("LOWER(title) LIKE LOWER(?)", "%"+search+"%")
	}

	var movies []*model.Movie
	err := q.Find(&movies).Error
	return movies, err
}

// ClearCategory 分类删除后置空引用（数据库外键为 SET NULL，这里兜底给不带约束的存储用）
func (r *MovieRepository) ClearCategory(categoryID int) error {
	return r.db.Model(&model.Movie{}).Where("category_id = ?", categoryID).Update("category_id", nil).Error
}

// Count 获取电影总数
func (r *MovieRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&model.Movie{}).Count(&count).Error
	return count, err
}
