package handler_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/movieshelf/internal/model"
)

func TestProgressAPI(t *testing.T) {
	app := newTestApp(t)
	app.createUser(t, "alice", "alice@example.com", "correct-horse", false)

	movie := &model.Movie{Title: "Heat", Slug: "heat", DurationMinutes: 136}
	require.NoError(t, app.Repos.Movie.Create(movie))

	t.Run("anonymous is redirected", func(t *testing.T) {
		resp := app.postForm(t, "/api/history/progress", url.Values{
			"movie_id":        {fmt.Sprint(movie.ID)},
			"watched_minutes": {"34"},
		})
		defer resp.Body.Close()
		require.Equal(t, http.StatusFound, resp.StatusCode)
		assert.Equal(t, "/login/get", resp.Header.Get("Location"))
	})

	app.login(t, "alice", "correct-horse")

	t.Run("records progress", func(t *testing.T) {
		resp := app.postForm(t, "/api/history/progress", url.Values{
			"movie_id":        {fmt.Sprint(movie.ID)},
			"watched_minutes": {"34"},
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var out struct {
			Success bool `json:"success"`
			Data    struct {
				Progress float64 `json:"progress"`
			} `json:"data"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		resp.Body.Close()
		assert.True(t, out.Success)
		assert.Equal(t, 25.0, out.Data.Progress)
	})

	t.Run("second report updates the single row", func(t *testing.T) {
		resp := app.postForm(t, "/api/history/progress", url.Values{
			"movie_id":        {fmt.Sprint(movie.ID)},
			"watched_minutes": {"68"},
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		resp.Body.Close()

		var count int64
		require.NoError(t, app.Repos.DB.Model(&model.WatchHistory{}).Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})

	t.Run("unknown movie id", func(t *testing.T) {
		resp := app.postForm(t, "/api/history/progress", url.Values{
			"movie_id":        {"999"},
			"watched_minutes": {"10"},
		})
		defer resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("negative minutes rejected", func(t *testing.T) {
		resp := app.postForm(t, "/api/history/progress", url.Values{
			"movie_id":        {fmt.Sprint(movie.ID)},
			"watched_minutes": {"-5"},
		})
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}
