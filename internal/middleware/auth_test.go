package middleware

import (
	"encoding/gob"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/movieshelf/internal/model"
)

const testSecret = "test-secret"

func newTestEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	gob.Register(model.SessionUser{})

	r := gin.New()
	r.Use(sessions.Sessions("mysession", cookie.NewStore([]byte(testSecret))))
	r.Use(SessionAuth(testSecret))
	return r
}

func TestRequireAuthRedirectsAnonymous(t *testing.T) {
	r := newTestEngine()
	r.GET("/private", RequireAuth(), func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login/get", w.Header().Get("Location"))
}

func TestRequirePolicyRedirectsWithoutPrivilege(t *testing.T) {
	r := newTestEngine()
	r.GET("/admin", RequirePolicy(Superuser), func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	// 通过记住登录 Token 进场的普通用户
	user := &model.User{ID: 7, Username: "user", Email: "user@example.com"}
	token, err := GenerateToken(user, testSecret, time.Hour)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: token})
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login/get", w.Header().Get("Location"))
}

func TestTokenRestoresSession(t *testing.T) {
	r := newTestEngine()
	r.GET("/private", RequireAuth(), func(c *gin.Context) {
		c.String(http.StatusOK, GetSessionUser(c).Username)
	})

	user := &model.User{ID: 3, Username: "admin", Email: "admin@example.com", IsSuperuser: true}
	token, err := GenerateToken(user, testSecret, time.Hour)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: token})
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "admin", w.Body.String())
}

func TestExpiredTokenIsIgnored(t *testing.T) {
	r := newTestEngine()
	r.GET("/private", RequireAuth(), func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	user := &model.User{ID: 3, Username: "admin"}
	token, err := GenerateToken(user, testSecret, -time.Hour)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: token})
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
}
