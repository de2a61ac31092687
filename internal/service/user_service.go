package service

import (
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"time"

	"foresight_edu_backend/internal/model"
	"foresight_edu_backend/internal/repository"
	"foresight_edu_backend/internal/util"

	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	UserRepo *repository.UserRepository
	Storage  *StorageService
}

func NewUserService(userRepo *repository.UserRepository, storage *StorageService) *UserService {
	return &UserService{
		UserRepo: userRepo,
		Storage:  storage,
	}
}

func (s *UserService) GetByID(userID uint) (*model.User, error) {
	return s.UserRepo.FindByID(userID)
}

// ProfileUpdate 画像更新参数，nil 字段保持不变
type ProfileUpdate struct {
	Name         *string            `json:"name"`
	Profession   *string            `json:"profession"`
	SkillLevel   *string            `json:"skillLevel"`
	DesiredLevel *string            `json:"desiredLevel"`
	AgeGroup     *string            `json:"ageGroup"`
	MainSkills   []model.SkillEntry `json:"mainSkills"`
	Goals        []string           `json:"goals"`
	GrowthAreas  []string           `json:"growthAreas"`
}

func (s *UserService) UpdateProfile(userID uint, update ProfileUpdate) (*model.User, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		user.Profile.Name = *update.Name
	}
	if update.Profession != nil {
		user.Profile.Profession = *update.Profession
	}
	if update.SkillLevel != nil {
		user.Profile.SkillLevel = *update.SkillLevel
	}
	if update.DesiredLevel != nil {
		user.Profile.DesiredLevel = *update.DesiredLevel
	}
	if update.AgeGroup != nil {
		user.Profile.AgeGroup = *update.AgeGroup
	}
	if update.MainSkills != nil {
		user.Profile.MainSkills = update.MainSkills
	}
	if update.Goals != nil {
		user.Profile.Goals = update.Goals
	}
	if update.GrowthAreas != nil {
		user.Profile.GrowthAreas = update.GrowthAreas
	}

	if err := s.UserRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// PreferencesUpdate 学习偏好更新参数
type PreferencesUpdate struct {
	DailyReminder    *bool   `json:"dailyReminder"`
	NotificationTime *string `json:"notificationTime"`
	Language         *string `json:"language"`
	LearningPace     *string `json:"learningPace"`
}

func (s *UserService) UpdatePreferences(userID uint, update PreferencesUpdate) (*model.User, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}

	if update.DailyReminder != nil {
		user.Preferences.DailyReminder = *update.DailyReminder
	}
	if update.NotificationTime != nil {
		user.Preferences.NotificationTime = *update.NotificationTime
	}
	if update.Language != nil {
		user.Preferences.Language = *update.Language
	}
	if update.LearningPace != nil {
		user.Preferences.LearningPace = *update.LearningPace
	}

	if err := s.UserRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) ChangePassword(userID uint, oldPassword, newPassword string) error {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)); err != nil {
		return util.ErrOldPasswordWrong
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.UserRepo.UpdatePassword(userID, string(hashed)); err != nil {
		return err
	}
	// 改密后所有已签发的刷新令牌失效
	return s.UserRepo.UpdateRefreshToken(userID, "")
}

// UploadAvatar 校验图片类型后存储头像并更新画像
func (s *UserService) UploadAvatar(ctx context.Context, userID uint, fileHeader *multipart.FileHeader) (string, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return "", err
	}
	defer file.Close()

	mimeType, err := util.ValidateMimeType(file, []string{util.MimeImage})
	if err != nil {
		return "", err
	}
	// ValidateMimeType 消费了前 512 字节，重新打开
	file.Close()
	file, err = fileHeader.Open()
	if err != nil {
		return "", err
	}
	defer file.Close()

	filename := fmt.Sprintf("avatars/%d_%d%s", userID, time.Now().Unix(), filepath.Ext(fileHeader.Filename))
	url, err := s.Storage.Upload(ctx, filename, file, fileHeader.Size, mimeType)
	if err != nil {
		return "", err
	}

	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return "", err
	}
	user.Profile.Avatar = url
	if err := s.UserRepo.Update(user); err != nil {
		return "", err
	}

	return url, nil
}
