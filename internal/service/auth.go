package service

import (
	"errors"
	"strings"

	"github.com/user/movieshelf/internal/model"
	"github.com/user/movieshelf/internal/repository"
)

var (
	// ErrInvalidCredentials 认证失败统一错误，不区分账号不存在还是密码错误
	ErrInvalidCredentials = errors.New("invalid username/email or password")
	// ErrAuthInternal 认证过程中的意外存储错误
	ErrAuthInternal = errors.New("auth internal error")
)

// AuthService 认证服务：标识符（用户名或邮箱）+ 密码 → 已验证用户
type AuthService struct {
	users *repository.UserRepository
}

// NewAuthService 创建认证服务
func NewAuthService(users *repository.UserRepository) *AuthService {
	return &AuthService{users: users}
}

// Authenticate 验证登录。标识符包含 @ 按邮箱解析，否则按用户名。
// 所有失败路径统一返回 ErrInvalidCredentials，不泄露账号是否存在
func (s *AuthService) Authenticate(identifier, password string) (*model.User, error) {
	var (
		user *model.User
		err  error
	)

	if strings.Contains(identifier, "@") {
		user, err = s.users.FindByEmail(identifier)
	} else {
		user, err = s.users.FindByUsername(identifier)
	}
	if err != nil {
		return nil, ErrAuthInternal
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if !s.users.CheckPassword(user, password) {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}
