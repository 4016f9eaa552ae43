package router

import (
	"fmt"
	"html/template"
	"net/http"
	"path/filepath"

	"github.com/gin-contrib/multitemplate"
	"github.com/gin-gonic/gin"
	"github.com/user/movieshelf/internal/handler"
	"github.com/user/movieshelf/internal/middleware"
)

// RegisterRoutes 注册所有路由
func RegisterRoutes(r *gin.Engine, h *handler.Handler) {
	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// 会话加载对所有页面生效
	r.Use(middleware.SessionAuth(h.Config.AppSecret))

	// ==================== 公开页面 ====================
	r.GET("/", h.Home)
	r.GET("/movies", h.Movies)
	r.GET("/movie/:slug", h.MovieDetail)

	// ==================== 认证 ====================
	r.GET("/login/get", h.LoginPage)
	r.POST("/login/post", h.Login)
	// 非 POST 访问提交地址时跳回表单页
	r.GET("/login/post", h.LoginRedirect)
	r.GET("/signup", h.SignupPage)
	r.POST("/signup", h.Signup)

	logout := r.Group("/logout")
	logout.Use(middleware.RequireAuth())
	{
		logout.GET("", h.Logout)
	}

	// ==================== 分类管理（仅超级用户） ====================
	categor := r.Group("/categor")
	categor.Use(middleware.RequireAuth())
	categor.Use(middleware.RequireSuperuser())
	{
		categor.GET("", h.CategoryList)
		categor.GET("/create", h.CategoryCreatePage)
		categor.POST("/create", h.CategoryCreate)
		categor.GET("/:id/edit", h.CategoryEditPage)
		categor.POST("/:id/edit", h.CategoryEdit)
		categor.POST("/:id/delete", h.CategoryDelete)
	}

	// ==================== 电影管理（仅超级用户） ====================
	movieAdmin := r.Group("/movies")
	movieAdmin.Use(middleware.RequireAuth())
	movieAdmin.Use(middleware.RequireSuperuser())
	{
		movieAdmin.GET("/create", h.MovieCreatePage)
		movieAdmin.POST("/create", h.MovieCreate)
		movieAdmin.GET("/:id/edit", h.MovieEditPage)
		movieAdmin.POST("/:id/edit", h.MovieEdit)
		movieAdmin.POST("/:id/delete", h.MovieDelete)
	}

	// ==================== API（需要登录） ====================
	api := r.Group("/api")
	api.Use(middleware.RequireAuth())
	{
		api.POST("/history/progress", h.SaveProgress)
		api.GET("/history", h.MyHistory)
	}
}

// LoadTemplates 使用 multitemplate 加载模板，解决模板继承问题
func LoadTemplates(templatesDir string) multitemplate.Renderer {
	r := multitemplate.NewRenderer()

	layouts, err := filepath.Glob(templatesDir + "/layouts/*.html")
	if err != nil {
		panic(err)
	}

	partials, err := filepath.Glob(templatesDir + "/partials/*.html")
	if err != nil {
		panic(err)
	}

	// 组装模板文件列表
	assemble := func(view string) []string {
		files := make([]string, 0)
		files = append(files, layouts...)
		files = append(files, partials...)
		files = append(files, view)
		return files
	}

	// 模板函数
	funcMap := template.FuncMap{
		"dict": func(values ...interface{}) (map[string]interface{}, error) {
			if len(values)%2 != 0 {
				return nil, fmt.Errorf("invalid dict call")
			}
			dict := make(map[string]interface{}, len(values)/2)
			for i := 0; i < len(values); i += 2 {
				key, ok := values[i].(string)
				if !ok {
					return nil, fmt.Errorf("dict keys must be strings")
				}
				dict[key] = values[i+1]
			}
			return dict, nil
		},
		"add": func(a, b int) int { return a + b },
		"sub": func(a, b int) int { return a - b },
		"deref": func(p *int) int {
			if p == nil {
				return 0
			}
			return *p
		},
		"default": func(defaultValue, value interface{}) interface{} {
			switch v := value.(type) {
			case string:
				if v == "" {
					return defaultValue
				}
			case int:
				if v == 0 {
					return defaultValue
				}
			case nil:
				return defaultValue
			}
			return value
		},
	}

	// 注册所有页面模板
	pages := []string{
		"home", "404",
		"login", "signup",
		"movies", "movie_detail", "movie_add", "movie_edit",
		"category_list", "category_add", "category_edit",
	}

	for _, page := range pages {
		viewPath := templatesDir + "/pages/" + page + ".html"
		r.AddFromFilesFuncs(page+".html", funcMap, assemble(viewPath)...)
	}

	return r
}
