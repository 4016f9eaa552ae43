package service

import (
	"errors"
	"strings"
	"time"

	"github.com/user/movieshelf/internal/model"
	"github.com/user/movieshelf/internal/repository"
	"gorm.io/gorm"
)

// RegisterInput 注册表单数据
type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     string
	Address   string
	Avatar    string
}

// AccountService 账号服务。账号与资料的创建/更新始终在同一事务内完成，
// 保证每个账号恰好有一条资料
type AccountService struct {
	db *gorm.DB
}

// NewAccountService 创建账号服务
func NewAccountService(db *gorm.DB) *AccountService {
	return &AccountService{db: db}
}

// Register 注册新账号，同一事务内创建账号和对应的资料。
// 邮箱统一转小写存储，唯一约束冲突会使整个事务回滚
func (s *AccountService) Register(input RegisterInput) (*model.User, error) {
	hash, err := repository.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username:     input.Username,
		Email:        strings.ToLower(input.Email),
		PasswordHash: hash,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		CreatedAt:    time.Now(),
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}

		profile := &model.Profile{
			UserID:  user.ID,
			Phone:   input.Phone,
			Address: input.Address,
			Avatar:  input.Avatar,
		}
		return tx.Create(profile).Error
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

// Save 保存账号并重新持久化其资料。资料被外部删除时在同一事务内补建，
// 而不是把查找失败抛给调用方
func (s *AccountService) Save(user *model.User) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(user).Error; err != nil {
			return err
		}

		var profile model.Profile
		err := tx.Where("user_id = ?", user.ID).First(&profile).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return tx.Create(&model.Profile{UserID: user.ID}).Error
		}
		if err != nil {
			return err
		}

		return tx.Save(&profile).Error
	})
}

// UpdateProfile 更新账号资料，资料缺失时同样走补建路径
func (s *AccountService) UpdateProfile(userID int, phone, address, avatar string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var profile model.Profile
		err := tx.Where("user_id = ?", userID).First(&profile).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			profile = model.Profile{UserID: userID}
		} else if err != nil {
			return err
		}

		profile.Phone = phone
		profile.Address = address
		if avatar != "" {
			profile.Avatar = avatar
		}
		return tx.Save(&profile).Error
	})
}
