package handler_test

import (
	"encoding/gob"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/user/movieshelf/internal/config"
	"github.com/user/movieshelf/internal/handler"
	"github.com/user/movieshelf/internal/model"
	"github.com/user/movieshelf/internal/repository"
	"github.com/user/movieshelf/internal/router"
	"github.com/user/movieshelf/internal/service"
	"github.com/user/movieshelf/internal/utils"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var setupOnce sync.Once

type testApp struct {
	Server *httptest.Server
	Repos  *repository.Repositories
	// Client 带 Cookie、不跟随重定向
	Client *http.Client
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	setupOnce.Do(func() {
		gin.SetMode(gin.TestMode)
		gob.Register(model.SessionUser{})
		utils.InitCache()
	})

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, repository.Migrate(db))

	repos := repository.NewRepositories(db)
	cfg := &config.Config{
		Env:       "test",
		AppSecret: "test-secret",
		JWTExpiry: time.Hour,
		SiteName:  "MovieShelf",
		SiteUrl:   "http://localhost",
		MediaRoot: t.TempDir(),
	}

	r := gin.New()
	store := cookie.NewStore([]byte(cfg.AppSecret))
	// 与 main.go 一致：测试走纯 HTTP，Secure 必须为 false，
	// 否则 Cookie jar 会丢弃会话 Cookie，闪存提示全部丢失
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400,
		HttpOnly: true,
		Secure:   false,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions("mysession", store))
	r.HTMLRender = router.LoadTemplates("../../web/templates")

	h := handler.NewHandler(repos, cfg)
	router.RegisterRoutes(r, h)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &testApp{
		Server: srv,
		Repos:  repos,
		Client: &http.Client{
			Jar: jar,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// createUser 注册一个账号，superuser 控制是否提升权限
func (a *testApp) createUser(t *testing.T, username, email, password string, superuser bool) *model.User {
	t.Helper()

	accounts := service.NewAccountService(a.Repos.DB)
	user, err := accounts.Register(service.RegisterInput{
		Username: username,
		Email:    email,
		Password: password,
	})
	require.NoError(t, err)

	if superuser {
		require.NoError(t, a.Repos.DB.Model(&model.User{}).
			Where("id = ?", user.ID).
			Update("is_superuser", true).Error)
		user.IsSuperuser = true
	}

	return user
}

// login 提交登录表单并断言跳转成功
func (a *testApp) login(t *testing.T, identifier, password string) {
	t.Helper()

	resp := a.postForm(t, "/login/post", url.Values{
		"username": {identifier},
		"password": {password},
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusFound, resp.StatusCode)
	require.Equal(t, "/", resp.Header.Get("Location"))
}

func (a *testApp) get(t *testing.T, path string) *http.Response {
	t.Helper()
	resp, err := a.Client.Get(a.Server.URL + path)
	require.NoError(t, err)
	return resp
}

func (a *testApp) postForm(t *testing.T, path string, form url.Values) *http.Response {
	t.Helper()
	resp, err := a.Client.Post(a.Server.URL+path,
		"application/x-www-form-urlencoded",
		strings.NewReader(form.Encode()))
	require.NoError(t, err)
	return resp
}

// body 读取并关闭响应体
func body(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}
