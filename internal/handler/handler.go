package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/user/movieshelf/internal/config"
	"github.com/user/movieshelf/internal/middleware"
	"github.com/user/movieshelf/internal/repository"
	"github.com/user/movieshelf/internal/service"
	"github.com/user/movieshelf/internal/utils"
)

// Handler HTTP 处理器
type Handler struct {
	Repos    *repository.Repositories
	Config   *config.Config
	Auth     *service.AuthService
	Accounts *service.AccountService
	Catalog  *service.CatalogService
	Blobs    utils.BlobStore
}

// NewHandler 创建处理器
func NewHandler(repos *repository.Repositories, cfg *config.Config) *Handler {
	return &Handler{
		Repos:    repos,
		Config:   cfg,
		Auth:     service.NewAuthService(repos.User),
		Accounts: service.NewAccountService(repos.DB),
		Catalog:  service.NewCatalogService(repos.Category, repos.Movie),
		Blobs:    utils.NewDiskBlobStore(cfg.MediaRoot),
	}
}

// Notice 一次性提示消息
type Notice struct {
	Level   string
	Message string
}

// Flash 写入一次性提示，渲染一次后即清除
func Flash(c *gin.Context, level, message string) {
	session := sessions.Default(c)
	session.AddFlash(level + "|" + message)
	session.Save()
}

// RenderData 统一封装公共渲染数据
func (h *Handler) RenderData(c *gin.Context, data gin.H) gin.H {
	res := gin.H{
		"SiteName": h.Config.SiteName,
		"SiteUrl":  h.Config.SiteUrl,
		"Path":     c.Request.URL.Path,
	}

	// 注入用户信息
	if su := middleware.GetSessionUser(c); su != nil {
		res["UserInfo"] = *su
	}

	// 取出一次性提示（取出即清除）
	session := sessions.Default(c)
	flashes := session.Flashes()
	if len(flashes) > 0 {
		session.Save()
		notices := make([]Notice, 0, len(flashes))
		for _, f := range flashes {
			s, ok := f.(string)
			if !ok {
				continue
			}
			level, message, found := strings.Cut(s, "|")
			if !found {
				level, message = "info", s
			}
			notices = append(notices, Notice{Level: level, Message: message})
		}
		res["Notices"] = notices
	}

	for k, v := range data {
		res[k] = v
	}

	return res
}

// ==================== 公开页面 ====================

// Home 首页
func (h *Handler) Home(c *gin.Context) {
	// 首页统计走缓存，避免每次请求数库
	type homeStats struct {
		Movies     int64
		Categories int64
	}

	var stats homeStats
	if cached, ok := utils.CacheGet("home:stats"); ok {
		stats = cached.(homeStats)
	} else {
		stats.Movies, _ = h.Repos.Movie.Count()
		stats.Categories, _ = h.Repos.Category.Count()
		utils.CacheSet("home:stats", stats, 5*time.Minute)
	}

	c.HTML(http.StatusOK, "home.html", h.RenderData(c, gin.H{
		"Title":         h.Config.SiteName,
		"MovieCount":    stats.Movies,
		"CategoryCount": stats.Categories,
	}))
}

// ==================== 认证 ====================

// LoginPage 登录页面
func (h *Handler) LoginPage(c *gin.Context) {
	// 已登录直接回首页
	if middleware.GetUserID(c) > 0 {
		c.Redirect(http.StatusFound, "/")
		return
	}
	c.HTML(http.StatusOK, "login.html", h.RenderData(c, gin.H{
		"Title": "Sign in - " + h.Config.SiteName,
	}))
}

// LoginRedirect 非 POST 访问登录提交地址时跳回表单页
func (h *Handler) LoginRedirect(c *gin.Context) {
	c.Redirect(http.StatusFound, "/login/get")
}

// Login 登录处理。用户名和邮箱都可以作为标识符，
// 所有失败路径对外只暴露统一的错误提示
func (h *Handler) Login(c *gin.Context) {
	identifier := c.PostForm("username")
	password := c.PostForm("password")

	user, err := h.Auth.Authenticate(identifier, password)
	if err != nil {
		if errors.Is(err, service.ErrAuthInternal) {
			Flash(c, "error", "Server error")
		} else {
			Flash(c, "error", "Invalid username/email or password.")
		}
		c.Redirect(http.StatusFound, "/login/get")
		return
	}

	middleware.EstablishSession(c, user, h.Config.AppSecret, h.Config.JWTExpiry)
	Flash(c, "success", "Welcome back, "+user.Username+"!")
	c.Redirect(http.StatusFound, "/")
}

// Logout 登出
func (h *Handler) Logout(c *gin.Context) {
	middleware.ClearSession(c)
	c.Redirect(http.StatusFound, "/")
}

// ==================== 注册 ====================

// SignupForm 注册表单
type SignupForm struct {
	Username  string `form:"username" binding:"required,max=150"`
	FirstName string `form:"first_name" binding:"required,max=50"`
	LastName  string `form:"last_name" binding:"required,max=50"`
	Email     string `form:"email" binding:"required,email"`
	Phone     string `form:"phone" binding:"omitempty,max=20"`
	Address   string `form:"address"`
	Password1 string `form:"password1" binding:"required,min=8"`
	Password2 string `form:"password2" binding:"required,eqfield=Password1"`
}

// SignupPage 注册页面
func (h *Handler) SignupPage(c *gin.Context) {
	if middleware.GetUserID(c) > 0 {
		c.Redirect(http.StatusFound, "/")
		return
	}
	c.HTML(http.StatusOK, "signup.html", h.RenderData(c, gin.H{
		"Title": "Sign up - " + h.Config.SiteName,
	}))
}

// Signup 注册处理。账号与资料在同一事务内创建
func (h *Handler) Signup(c *gin.Context) {
	var form SignupForm
	if err := c.ShouldBind(&form); err != nil {
		h.renderSignup(c, &form, fieldErrors(err))
		return
	}

	fieldErrs := map[string]string{}

	// 唯一性预检查，真正的防线是数据库唯一约束
	if existing, err := h.Repos.User.FindByEmail(form.Email); err == nil && existing != nil {
		fieldErrs["email"] = "A user with this email already exists."
	}
	if existing, err := h.Repos.User.FindByUsername(form.Username); err == nil && existing != nil {
		fieldErrs["username"] = "A user with this username already exists."
	}
	if len(fieldErrs) > 0 {
		h.renderSignup(c, &form, fieldErrs)
		return
	}

	// 头像按不透明文件存储
	avatar := ""
	if file, err := c.FormFile("profile"); err == nil && file != nil {
		if saved, err := h.Blobs.Save("profiles", file); err == nil {
			avatar = saved
		}
	}

	_, err := h.Accounts.Register(service.RegisterInput{
		Username:  form.Username,
		Email:     form.Email,
		Password:  form.Password1,
		FirstName: form.FirstName,
		LastName:  form.LastName,
		Phone:     form.Phone,
		Address:   form.Address,
		Avatar:    avatar,
	})
	if err != nil {
		// 并发注册撞唯一约束也落在这里
		Flash(c, "error", "Server error")
		c.Redirect(http.StatusFound, "/signup")
		return
	}

	Flash(c, "success", "Account created successfully")
	c.Redirect(http.StatusFound, "/login/get")
}

// renderSignup 带字段错误重新渲染注册表单
func (h *Handler) renderSignup(c *gin.Context, form *SignupForm, fieldErrs map[string]string) {
	Flash(c, "error", "Please correct the errors below.")
	c.HTML(http.StatusOK, "signup.html", h.RenderData(c, gin.H{
		"Title":       "Sign up - " + h.Config.SiteName,
		"Form":        form,
		"FieldErrors": fieldErrs,
	}))
}

// fieldErrors 把校验错误转成 字段 → 提示 的映射
func fieldErrors(err error) map[string]string {
	out := map[string]string{}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		out["form"] = "Invalid form data."
		return out
	}

	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			out[field] = "This field is required."
		case "email":
			out[field] = "Enter a valid email address."
		case "eqfield":
			out[field] = "The two password fields didn't match."
		case "min":
			out[field] = "This value is too short."
		case "max":
			out[field] = "This value is too long."
		case "gt", "gte":
			out[field] = "This value must be positive."
		default:
			out[field] = "This value is invalid."
		}
	}
	return out
}
