package repository

import (
	"foresight_edu_backend/internal/model"

	"gorm.io/gorm"
)

// LessonRepository 课程归档，保留每次生成的完整内容便于回看与排查
type LessonRepository struct {
	DB *gorm.DB
}

func NewLessonRepository(db *gorm.DB) *LessonRepository {
	return &LessonRepository{DB: db}
}

func (r *LessonRepository) Archive(archive *model.LessonArchive) error {
	return r.DB.Create(archive).Error
}

func (r *LessonRepository) FindByUserAndDay(userID uint, day int) (*model.LessonArchive, error) {
	var archive model.LessonArchive
	err := r.DB.
		Where("user_id = ? AND day = ?", userID, day).
		Order("created_at DESC").
		First(&archive).Error
	return &archive, err
}

func (r *LessonRepository) ListByUser(userID uint, limit int) ([]model.LessonArchive, error) {
	var archives []model.LessonArchive
	err := r.DB.
		Where("user_id = ?", userID).
		Order("day DESC").
		Limit(limit).
		Find(&archives).Error
	return archives, err
}
