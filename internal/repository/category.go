package repository

import (
	"errors"

	"github.com/user/movieshelf/internal/model"
	"gorm.io/gorm"
)

// CategoryRepository 分类仓库
type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// Create 创建分类
func (r *CategoryRepository) Create(category *model.Category) error {
	return r.db.Create(category).Error
}

// Update 更新分类
func (r *CategoryRepository) Update(category *model.Category) error {
	return r.db.Save(category).Error
}

// Delete 删除分类
func (r *CategoryRepository) Delete(id int) error {
	return r.db.Delete(&model.Category{}, id).Error
}

// FindByID 根据 ID 查找分类
func (r *CategoryRepository) FindByID(id int) (*model.Category, error) {
	var category model.Category
	err := r.db.First(&category, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &category, nil
}

// ListPage 按 ID 升序分页获取分类
func (r *CategoryRepository) ListPage(limit, offset int) ([]*model.Category, error) {
	var categories []*model.Category
	err := r.db.Order("id ASC").Limit(limit).Offset(offset).Find(&categories).Error
	return categories, err
}

// ListAll 获取所有分类（下拉选择用）
func (r *CategoryRepository) ListAll() ([]*model.Category, error) {
	var categories []*model.Category
	err := r.db.Order("id ASC").Find(&categories).Error
	return categories, err
}

// Count 获取分类总数
func (r *CategoryRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&model.Category{}).Count(&count).Error
	return count, err
}
