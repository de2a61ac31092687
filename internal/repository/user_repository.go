package repository

import (
	"foresight_edu_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) Create(user *model.User) error {
	// 确保创建时间被设置
	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	if user.UpdatedAt.IsZero() {
		user.UpdatedAt = now
	}
	return r.DB.Create(user).Error
}

func (r *UserRepository) FindByID(id uint) (*model.User, error) {
	var user model.User
	err := r.DB.First(&user, id).Error
	return &user, err
}

func (r *UserRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	err := r.DB.Where("email = ?", email).First(&user).Error
	return &user, err
}

func (r *UserRepository) ExistsByEmail(email string) (bool, error) {
	var count int64
	err := r.DB.Model(&model.User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

func (r *UserRepository) Update(user *model.User) error {
	return r.DB.Save(user).Error
}

// UpdateLastSeen 轻量更新最近活跃时间，不触发 Save 的全字段写入
func (r *UserRepository) UpdateLastSeen(userID uint, at time.Time) error {
	return r.DB.Model(&model.User{}).
		Where("id = ?", userID).
		Update("last_seen", at).
		Error
}

// UpdateRefreshToken 保存（或清空）用户当前有效的 refresh token
func (r *UserRepository) UpdateRefreshToken(userID uint, token string) error {
	return r.DB.Model(&model.User{}).
		Where("id = ?", userID).
		Update("refresh_token", token).
		Error
}

func (r *UserRepository) UpdatePassword(userID uint, hashed string) error {
	return r.DB.Model(&model.User{}).
		Where("id = ?", userID).
		Update("password", hashed).
		Error
}

// FindWithReminderDue 找出开启每日提醒且今天还没学习的用户
// notificationTime 形如 "09:00"
func (r *UserRepository) FindWithReminderDue(notificationTime string, dayStart time.Time) ([]model.User, error) {
	var users []model.User
	err := r.DB.
		Joins("LEFT JOIN learning_journeys ON learning_journeys.user_id = users.id").
		Where("users.pref_daily_reminder = ?", true).
		Where("users.pref_notification_time = ?", notificationTime).
		Where("learning_journeys.last_lesson_date IS NULL OR learning_journeys.last_lesson_date < ?", dayStart).
		Find(&users).Error
	return users, err
}
