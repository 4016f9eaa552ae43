package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/user/movieshelf/internal/middleware"
	"github.com/user/movieshelf/internal/model"
	"github.com/user/movieshelf/internal/service"
)

// ==================== 电影：公开页面 ====================

// Movies 电影列表，支持分类过滤和标题搜索
func (h *Handler) Movies(c *gin.Context) {
	categoryID, _ := strconv.Atoi(c.Query("category"))
	search := c.Query("search")

	movies, err := h.Catalog.ListMovies(categoryID, search)
	if err != nil {
		Flash(c, "error", "Server error")
		c.Redirect(http.StatusFound, "/")
		return
	}

	categories, _ := h.Catalog.AllCategories()

	c.HTML(http.StatusOK, "movies.html", h.RenderData(c, gin.H{
		"Title":      "Movies - " + h.Config.SiteName,
		"Movies":     movies,
		"Categories": categories,
		"CategoryID": categoryID,
		"Search":     search,
	}))
}

// MovieDetail 电影详情，登录用户附带观影进度
func (h *Handler) MovieDetail(c *gin.Context) {
	movie, err := h.Catalog.FindMovieBySlug(c.Param("slug"))
	if err != nil || movie == nil {
		c.HTML(http.StatusNotFound, "404.html", h.RenderData(c, gin.H{
			"Title": "Not found - " + h.Config.SiteName,
		}))
		return
	}

	var progress float64
	if userID := middleware.GetUserID(c); userID > 0 {
		if history, err := h.Repos.History.Find(userID, movie.ID); err == nil && history != nil {
			progress = history.Progress(movie.DurationMinutes)
		}
	}

	c.HTML(http.StatusOK, "movie_detail.html", h.RenderData(c, gin.H{
		"Title":    movie.Title + " - " + h.Config.SiteName,
		"Movie":    movie,
		"Progress": progress,
	}))
}

// ==================== 电影管理（仅超级用户） ====================

// MovieForm 电影表单
type MovieForm struct {
	Title           string `form:"title" binding:"required"`
	CategoryID      int    `form:"category_id"`
	Description     string `form:"description"`
	ReleaseYear     int    `form:"release_year" binding:"omitempty,gte=1888"`
	DurationMinutes int    `form:"duration_minutes" binding:"required,gt=0"`
}

// movieInput 表单转服务层输入，顺带保存上传的媒体文件
func (h *Handler) movieInput(c *gin.Context, form *MovieForm) service.MovieInput {
	input := service.MovieInput{
		Title:           form.Title,
		Description:     form.Description,
		ReleaseYear:     form.ReleaseYear,
		DurationMinutes: form.DurationMinutes,
	}
	if form.CategoryID > 0 {
		input.CategoryID = &form.CategoryID
	}

	if file, err := c.FormFile("thumbnail"); err == nil && file != nil {
		if saved, err := h.Blobs.Save("thumbnails", file); err == nil {
			input.Thumbnail = saved
		}
	}
	if file, err := c.FormFile("video_file"); err == nil && file != nil {
		if saved, err := h.Blobs.Save("videos", file); err == nil {
			input.VideoFile = saved
		}
	}

	return input
}

// MovieCreatePage 创建电影表单
func (h *Handler) MovieCreatePage(c *gin.Context) {
	categories, _ := h.Catalog.AllCategories()
	c.HTML(http.StatusOK, "movie_add.html", h.RenderData(c, gin.H{
		"Title":      "Add movie - " + h.Config.SiteName,
		"Categories": categories,
	}))
}

// MovieCreate 创建电影
func (h *Handler) MovieCreate(c *gin.Context) {
	var form MovieForm
	if err := c.ShouldBind(&form); err != nil {
		categories, _ := h.Catalog.AllCategories()
		Flash(c, "error", "Please correct the errors below.")
		c.HTML(http.StatusOK, "movie_add.html", h.RenderData(c, gin.H{
			"Title":       "Add movie - " + h.Config.SiteName,
			"Categories":  categories,
			"Form":        &form,
			"FieldErrors": fieldErrors(err),
		}))
		return
	}

	if _, err := h.Catalog.CreateMovie(h.movieInput(c, &form)); err != nil {
		Flash(c, "error", "Server error")
		c.Redirect(http.StatusFound, "/movies")
		return
	}

	Flash(c, "success", "Create movie is success")
	c.Redirect(http.StatusFound, "/movies")
}

// resolveMovie 按主键解析电影，失败处理方式与分类一致
func (h *Handler) resolveMovie(c *gin.Context) *model.Movie {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		Flash(c, "error", "Movie id is not found.")
		c.Redirect(http.StatusFound, "/movies")
		return nil
	}

	movie, err := h.Catalog.FindMovie(id)
	if err != nil {
		Flash(c, "error", "Server error")
		c.Redirect(http.StatusFound, "/movies")
		return nil
	}
	if movie == nil {
		Flash(c, "error", "Movie id is not found.")
		c.Redirect(http.StatusFound, "/movies")
		return nil
	}

	return movie
}

// MovieEditPage 编辑电影表单
func (h *Handler) MovieEditPage(c *gin.Context) {
	movie := h.resolveMovie(c)
	if movie == nil {
		return
	}

	categories, _ := h.Catalog.AllCategories()
	c.HTML(http.StatusOK, "movie_edit.html", h.RenderData(c, gin.H{
		"Title":      "Edit movie - " + h.Config.SiteName,
		"Movie":      movie,
		"Categories": categories,
	}))
}

// MovieEdit 更新电影
func (h *Handler) MovieEdit(c *gin.Context) {
	movie := h.resolveMovie(c)
	if movie == nil {
		return
	}

	var form MovieForm
	if err := c.ShouldBind(&form); err != nil {
		categories, _ := h.Catalog.AllCategories()
		Flash(c, "error", "Please correct the errors below.")
		c.HTML(http.StatusOK, "movie_edit.html", h.RenderData(c, gin.H{
			"Title":       "Edit movie - " + h.Config.SiteName,
			"Movie":       movie,
			"Categories":  categories,
			"FieldErrors": fieldErrors(err),
		}))
		return
	}

	if err := h.Catalog.UpdateMovie(movie, h.movieInput(c, &form)); err != nil {
		Flash(c, "error", "Server error")
		c.Redirect(http.StatusFound, "/movies")
		return
	}

	Flash(c, "success", "Update is success")
	c.Redirect(http.StatusFound, "/movies")
}

// MovieDelete 删除电影
func (h *Handler) MovieDelete(c *gin.Context) {
	movie := h.resolveMovie(c)
	if movie == nil {
		return
	}

	if err := h.Catalog.DeleteMovie(movie.ID); err != nil {
		Flash(c, "error", "Server error")
		c.Redirect(http.StatusFound, "/movies")
		return
	}

	// 媒体文件一并清理
	h.Blobs.Remove(movie.Thumbnail)
	h.Blobs.Remove(movie.VideoFile)

	Flash(c, "success", "Delete is success")
	c.Redirect(http.StatusFound, "/movies")
}
