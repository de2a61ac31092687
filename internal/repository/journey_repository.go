package repository

import (
	"foresight_edu_backend/internal/model"

	"gorm.io/gorm"
)

type JourneyRepository struct {
	DB *gorm.DB
}

func NewJourneyRepository(db *gorm.DB) *JourneyRepository {
	return &JourneyRepository{DB: db}
}

// FindByUserID 加载用户的学习旅程，含按天排序的完成记录与测验提交
func (r *JourneyRepository) FindByUserID(userID uint) (*model.LearningJourney, error) {
	var journey model.LearningJourney
	err := r.DB.
		Preload("CompletedDays", func(db *gorm.DB) *gorm.DB {
			return db.Order("day_records.day ASC")
		}).
		Preload("CompletedDays.QuizCompletions", func(db *gorm.DB) *gorm.DB {
			return db.Order("quiz_completions.quiz_index ASC")
		}).
		Where("user_id = ?", userID).
		First(&journey).Error
	return &journey, err
}

func (r *JourneyRepository) Create(journey *model.LearningJourney) error {
	return r.DB.Create(journey).Error
}

// Save 整体保存旅程及其关联记录，进度引擎在内存里改完后一次落库
func (r *JourneyRepository) Save(journey *model.LearningJourney) error {
	return r.DB.Session(&gorm.Session{FullSaveAssociations: true}).Save(journey).Error
}

// ResetProgress 重新生成计划时清空历史记录，journey 本身随后由 Save 写入
func (r *JourneyRepository) ResetProgress(journey *model.LearningJourney) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("day_record_id IN (?)",
			tx.Model(&model.DayRecord{}).Select("id").Where("journey_id = ?", journey.ID),
		).Delete(&model.QuizCompletion{}).Error; err != nil {
			return err
		}
		if err := tx.Where("journey_id = ?", journey.ID).Delete(&model.DayRecord{}).Error; err != nil {
			return err
		}
		return tx.Save(journey).Error
	})
}
