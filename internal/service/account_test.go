package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/movieshelf/internal/model"
)

func sampleInput() RegisterInput {
	return RegisterInput{
		Username:  "alice",
		Email:     "Alice@Example.com",
		Password:  "secret-password",
		FirstName: "Alice",
		LastName:  "Smith",
		Phone:     "123456",
		Address:   "Somewhere 1",
	}
}

func TestRegisterCreatesExactlyOneProfile(t *testing.T) {
	repos := newTestRepos(t)
	accounts := NewAccountService(repos.DB)

	user, err := accounts.Register(sampleInput())
	require.NoError(t, err)
	require.NotZero(t, user.ID)

	// 邮箱转小写存储
	assert.Equal(t, "alice@example.com", user.Email)

	count, err := repos.Profile.CountByUserID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	profile, err := repos.Profile.FindByUserID(user.ID)
	require.NoError(t, err)
	require.NotNil(t, profile)
	assert.Equal(t, "123456", profile.Phone)
}

func TestRepeatedSavesKeepSingleProfile(t *testing.T) {
	repos := newTestRepos(t)
	accounts := NewAccountService(repos.DB)

	user, err := accounts.Register(sampleInput())
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		user.FirstName = "Alicia"
		require.NoError(t, accounts.Save(user))
	}

	count, err := repos.Profile.CountByUserID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestSaveRecreatesExternallyDeletedProfile(t *testing.T) {
	repos := newTestRepos(t)
	accounts := NewAccountService(repos.DB)

	user, err := accounts.Register(sampleInput())
	require.NoError(t, err)

	// 外部删除资料，下一次保存应当自愈补建
	require.NoError(t, repos.DB.Where("user_id = ?", user.ID).Delete(&model.Profile{}).Error)

	require.NoError(t, accounts.Save(user))

	count, err := repos.Profile.CountByUserID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestRegisterDuplicateEmailFailsAsOneUnit(t *testing.T) {
	repos := newTestRepos(t)
	accounts := NewAccountService(repos.DB)

	_, err := accounts.Register(sampleInput())
	require.NoError(t, err)

	dup := sampleInput()
	dup.Username = "bob"
	_, err = accounts.Register(dup)
	require.Error(t, err)

	// 失败的注册不留下半个账号
	var users int64
	require.NoError(t, repos.DB.Model(&model.User{}).Count(&users).Error)
	assert.Equal(t, int64(1), users)

	var profiles int64
	require.NoError(t, repos.DB.Model(&model.Profile{}).Count(&profiles).Error)
	assert.Equal(t, int64(1), profiles)
}

func TestRegisterDuplicateUsernameFails(t *testing.T) {
	repos := newTestRepos(t)
	accounts := NewAccountService(repos.DB)

	_, err := accounts.Register(sampleInput())
	require.NoError(t, err)

	dup := sampleInput()
	dup.Email = "other@example.com"
	_, err = accounts.Register(dup)
	require.Error(t, err)
}

func TestUpdateProfileHealsMissingRow(t *testing.T) {
	repos := newTestRepos(t)
	accounts := NewAccountService(repos.DB)

	user, err := accounts.Register(sampleInput())
	require.NoError(t, err)

	require.NoError(t, repos.DB.Where("user_id = ?", user.ID).Delete(&model.Profile{}).Error)

	require.NoError(t, accounts.UpdateProfile(user.ID, "999", "New address", ""))

	profile, err := repos.Profile.FindByUserID(user.ID)
	require.NoError(t, err)
	require.NotNil(t, profile)
	assert.Equal(t, "999", profile.Phone)
	assert.Equal(t, "New address", profile.Address)
}
