package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/user/movieshelf/internal/middleware"
	"github.com/user/movieshelf/internal/model"
	"github.com/user/movieshelf/internal/utils"
)

// ==================== 观影进度 API（需要登录） ====================

// ProgressForm 进度上报表单
type ProgressForm struct {
	MovieID        int `form:"movie_id" binding:"required,gt=0"`
	WatchedMinutes int `form:"watched_minutes" binding:"gte=0"`
}

// SaveProgress 记录观影进度。同一 (user, movie) 只保留一条记录，
// 重复上报按更新处理
func (h *Handler) SaveProgress(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		utils.Unauthorized(c, "")
		return
	}

	var form ProgressForm
	if err := c.ShouldBind(&form); err != nil {
		utils.BadRequest(c, "Watched minutes cannot be negative.")
		return
	}

	movie, err := h.Repos.Movie.FindByID(form.MovieID)
	if err != nil {
		utils.InternalServerError(c, "")
		return
	}
	if movie == nil {
		utils.NotFound(c, "Movie id is not found.")
		return
	}

	history := &model.WatchHistory{
		UserID:         userID,
		MovieID:        movie.ID,
		WatchedMinutes: form.WatchedMinutes,
	}
	if err := h.Repos.History.Upsert(history); err != nil {
		utils.InternalServerError(c, "")
		return
	}

	utils.Success(c, gin.H{
		"movie_id":        movie.ID,
		"watched_minutes": form.WatchedMinutes,
		"progress":        history.Progress(movie.DurationMinutes),
	})
}

// MyHistory 当前用户的观影记录
func (h *Handler) MyHistory(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		utils.Unauthorized(c, "")
		return
	}

	histories, err := h.Repos.History.ListByUser(userID)
	if err != nil {
		utils.InternalServerError(c, "")
		return
	}

	type entry struct {
		MovieID        int     `json:"movie_id"`
		Title          string  `json:"title"`
		WatchedMinutes int     `json:"watched_minutes"`
		Progress       float64 `json:"progress"`
	}

	out := make([]entry, 0, len(histories))
	for _, history := range histories {
		e := entry{
			MovieID:        history.MovieID,
			WatchedMinutes: history.WatchedMinutes,
		}
		if history.Movie != nil {
			e.Title = history.Movie.Title
			e.Progress = history.Progress(history.Movie.DurationMinutes)
		}
		out = append(out, e)
	}

	utils.Success(c, out)
}
