package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/user/movieshelf/internal/model"
	"github.com/user/movieshelf/internal/repository"
	"github.com/user/movieshelf/internal/utils"
	"golang.org/x/sync/singleflight"
)

// CatalogService 分类与电影目录服务。slug 在写入路径内联计算，
// 首次保存后不再跟随名称变动
type CatalogService struct {
	categories *repository.CategoryRepository
	movies     *repository.MovieRepository

	listCache *utils.TTLCache[[]*model.Movie]
	sf        singleflight.Group // 防止并发重复查询同一列表
}

// NewCatalogService 创建目录服务
func NewCatalogService(categories *repository.CategoryRepository, movies *repository.MovieRepository) *CatalogService {
	return &CatalogService{
		categories: categories,
		movies:     movies,
		listCache:  utils.NewTTLCache[[]*model.Movie](128, 5*time.Minute),
	}
}

// ==================== 分类 ====================

// CreateCategory 创建分类。slug 为空时由名称派生，显式给定时原样保留
func (s *CatalogService) CreateCategory(name, slug string) (*model.Category, error) {
	name = strings.TrimSpace(name)
	if slug == "" {
		slug = utils.Slugify(name)
	}

	category := &model.Category{Name: name, Slug: slug}
	if err := s.categories.Create(category); err != nil {
		return nil, err
	}
	return category, nil
}

// UpdateCategory 更新分类名称。已有 slug 不会被改名覆盖，仅在 slug 为空时重新派生
func (s *CatalogService) UpdateCategory(category *model.Category, name string) error {
	category.Name = strings.TrimSpace(name)
	if category.Slug == "" {
		category.Slug = utils.Slugify(category.Name)
	}
	return s.categories.Update(category)
}

// DeleteCategory 删除分类，引用它的电影置空分类而不是级联删除
func (s *CatalogService) DeleteCategory(id int) error {
	if err := s.movies.ClearCategory(id); err != nil {
		return err
	}
	if err := s.categories.Delete(id); err != nil {
		return err
	}
	s.invalidateMovieLists()
	return nil
}

// FindCategory 根据 ID 查找分类
func (s *CatalogService) FindCategory(id int) (*model.Category, error) {
	return s.categories.FindByID(id)
}

// ListCategories 按 ID 升序分页列出分类，页码越界钳位
func (s *CatalogService) ListCategories(page int) (utils.PageInfo, []*model.Category, error) {
	total, err := s.categories.Count()
	if err != nil {
		return utils.PageInfo{}, nil, err
	}

	info := utils.Paginate(total, page, utils.DefaultPageSize)
	items, err := s.categories.ListPage(info.Limit, info.Offset)
	if err != nil {
		return utils.PageInfo{}, nil, err
	}
	return info, items, nil
}

// AllCategories 全部分类（表单下拉用）
func (s *CatalogService) AllCategories() ([]*model.Category, error) {
	return s.categories.ListAll()
}

// ==================== 电影 ====================

// MovieInput 电影表单数据
type MovieInput struct {
	Title           string
	CategoryID      *int
	Description     string
	ReleaseYear     int
	DurationMinutes int
	Thumbnail       string
	VideoFile       string
}

// CreateMovie 创建电影，slug 由标题派生
func (s *CatalogService) CreateMovie(input MovieInput) (*model.Movie, error) {
	movie := &model.Movie{
		Title:           strings.TrimSpace(input.Title),
		Slug:            utils.Slugify(input.Title),
		CategoryID:      input.CategoryID,
		Description:     input.Description,
		ReleaseYear:     input.ReleaseYear,
		DurationMinutes: input.DurationMinutes,
		Thumbnail:       input.Thumbnail,
		VideoFile:       input.VideoFile,
		CreatedAt:       time.Now(),
	}
	if err := s.movies.Create(movie); err != nil {
		return nil, err
	}
	s.invalidateMovieLists()
	return movie, nil
}

// UpdateMovie 更新电影。已有 slug 保持不变
func (s *CatalogService) UpdateMovie(movie *model.Movie, input MovieInput) error {
	movie.Title = strings.TrimSpace(input.Title)
	if movie.Slug == "" {
		movie.Slug = utils.Slugify(movie.Title)
	}
	movie.CategoryID = input.CategoryID
	movie.Description = input.Description
	movie.ReleaseYear = input.ReleaseYear
	movie.DurationMinutes = input.DurationMinutes
	if input.Thumbnail != "" {
		movie.Thumbnail = input.Thumbnail
	}
	if input.VideoFile != "" {
		movie.VideoFile = input.VideoFile
	}

	if err := s.movies.Update(movie); err != nil {
		return err
	}
	s.invalidateMovieLists()
	return nil
}

// DeleteMovie 删除电影
func (s *CatalogService) DeleteMovie(id int) error {
	if err := s.movies.Delete(id); err != nil {
		return err
	}
	s.invalidateMovieLists()
	return nil
}

// FindMovie 根据 ID 查找电影
func (s *CatalogService) FindMovie(id int) (*model.Movie, error) {
	return s.movies.FindByID(id)
}

// FindMovieBySlug 根据 slug 查找电影
func (s *CatalogService) FindMovieBySlug(slug string) (*model.Movie, error) {
	return s.movies.FindBySlug(slug)
}

// ListMovies 按分类/关键词查询电影列表，结果走 LRU 缓存，
// 用 singleflight 合并并发的同键回源
func (s *CatalogService) ListMovies(categoryID int, search string) ([]*model.Movie, error) {
	key := fmt.Sprintf("movies:%d:%s", categoryID, strings.ToLower(search))

	if cached, ok := s.listCache.Get(key); ok {
		return cached, nil
	}

	v, err, _ := s.sf.Do(key, func() (interface{}, error) {
		// 等待期间可能已被其他请求填充
		if cached, ok := s.listCache.Get(key); ok {
			return cached, nil
		}

		movies, err := s.movies.List(categoryID, search)
		if err != nil {
			return nil, err
		}
		s.listCache.Set(key, movies)
		return movies, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]*model.Movie), nil
}

// invalidateMovieLists 目录变更后清空列表缓存
func (s *CatalogService) invalidateMovieLists() {
	s.listCache.Clear()
}
