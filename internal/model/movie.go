package model

import (
	"math"
	"time"
)

// Movie 电影模型
type Movie struct {
	ID              int       `json:"id" gorm:"primaryKey"`
	Title           string    `json:"title" gorm:"not null"`
	Slug            string    `json:"slug" gorm:"unique;not null"`
	CategoryID      *int      `json:"category_id"`
	Category        *Category `json:"category,omitempty" gorm:"constraint:OnDelete:SET NULL"`
	Description     string    `json:"description"`
	ReleaseYear     int       `json:"release_year"`
	DurationMinutes int       `json:"duration_minutes"`
	Thumbnail       string    `json:"thumbnail"` // 缩略图在媒体存储中的相对路径
	VideoFile       string    `json:"video_file"`
	CreatedAt       time.Time `json:"created_at"`
}

// WatchHistory 观影进度，(user, movie) 唯一
type WatchHistory struct {
	ID             int       `json:"id" gorm:"primaryKey"`
	UserID         int       `json:"user_id" gorm:"uniqueIndex:idx_user_movie;not null"`
	MovieID        int       `json:"movie_id" gorm:"uniqueIndex:idx_user_movie;not null"`
	Movie          *Movie    `json:"movie,omitempty"`
	WatchedMinutes int       `json:"watched_minutes"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Progress 观影进度百分比，保留两位小数；时长为 0 时返回 0，避免除零
func (h *WatchHistory) Progress(durationMinutes int) float64 {
	if durationMinutes == 0 {
		return 0
	}
	pct := float64(h.WatchedMinutes) / float64(durationMinutes) * 100
	return math.Round(pct*100) / 100
}
