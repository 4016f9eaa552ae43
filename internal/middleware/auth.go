package middleware

import (
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/user/movieshelf/internal/model"
)

const sessionUserKey = "userinfo"

// Claims JWT 声明（记住登录用）
type Claims struct {
	UserID      int    `json:"user_id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	IsSuperuser bool   `json:"is_superuser"`
	jwt.RegisteredClaims
}

// SessionAuth 会话加载中间件（不强制要求登录）。
// 优先读 Session；Session 失效但记住登录 Cookie 有效时重建 Session
func SessionAuth(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)

		if userinfo := session.Get(sessionUserKey); userinfo != nil {
			if su, ok := userinfo.(model.SessionUser); ok {
				setContextUser(c, su)
				c.Next()
				return
			}
		}

		// 尝试从记住登录 Token 恢复
		if claims, err := extractClaims(c, jwtSecret); err == nil {
			su := model.SessionUser{
				ID:          claims.UserID,
				Username:    claims.Username,
				Email:       claims.Email,
				IsSuperuser: claims.IsSuperuser,
			}
			session.Set(sessionUserKey, su)
			session.Save()
			setContextUser(c, su)
		}

		c.Next()
	}
}

// RequireAuth 必须登录中间件，未登录重定向到登录页
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetUserID(c) == 0 {
			c.Redirect(http.StatusFound, "/login/get")
			c.Abort()
			return
		}
		c.Next()
	}
}

// Policy 授权谓词
type Policy func(user *model.SessionUser) bool

// RequirePolicy 授权中间件。不满足谓词时同样重定向到登录页，
// 不返回 403，避免向无权限用户确认资源存在
func RequirePolicy(policy Policy) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := GetSessionUser(c)
		if user == nil || !policy(user) {
			c.Redirect(http.StatusFound, "/login/get")
			c.Abort()
			return
		}
		c.Next()
	}
}

// Superuser 超级用户谓词
func Superuser(user *model.SessionUser) bool {
	return user.IsSuperuser
}

// RequireSuperuser 超级用户中间件
func RequireSuperuser() gin.HandlerFunc {
	return RequirePolicy(Superuser)
}

// EstablishSession 登录成功后写入 Session 并下发记住登录 Cookie
func EstablishSession(c *gin.Context, user *model.User, jwtSecret string, expiry time.Duration) {
	su := model.SessionUser{
		ID:          user.ID,
		Username:    user.Username,
		Email:       user.Email,
		IsSuperuser: user.IsSuperuser,
	}

	session := sessions.Default(c)
	session.Set(sessionUserKey, su)
	session.Save()

	if token, err := GenerateToken(user, jwtSecret, expiry); err == nil {
		c.SetCookie("token", token, int(expiry.Seconds()), "/", "", false, true)
	}

	setContextUser(c, su)
}

// ClearSession 登出时清理 Session 和 Cookie
func ClearSession(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Save()
	c.SetCookie("token", "", -1, "/", "", false, true)
}

// GenerateToken 生成 JWT Token
func GenerateToken(user *model.User, jwtSecret string, expiry time.Duration) (string, error) {
	claims := &Claims{
		UserID:      user.ID,
		Username:    user.Username,
		Email:       user.Email,
		IsSuperuser: user.IsSuperuser,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(jwtSecret))
}

// extractClaims 从 Cookie 中提取 JWT Claims
func extractClaims(c *gin.Context, jwtSecret string) (*Claims, error) {
	tokenString, err := c.Cookie("token")
	if err != nil || tokenString == "" {
		return nil, jwt.ErrTokenMalformed
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(jwtSecret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}

	return claims, nil
}

func setContextUser(c *gin.Context, su model.SessionUser) {
	c.Set("user_id", su.ID)
	c.Set("session_user", su)
}

// GetUserID 从上下文获取用户 ID（未登录返回 0）
func GetUserID(c *gin.Context) int {
	if userID, exists := c.Get("user_id"); exists {
		return userID.(int)
	}
	return 0
}

// GetSessionUser 从上下文获取会话用户（未登录返回 nil）
func GetSessionUser(c *gin.Context) *model.SessionUser {
	if v, exists := c.Get("session_user"); exists {
		if su, ok := v.(model.SessionUser); ok {
			return &su
		}
	}
	return nil
}
