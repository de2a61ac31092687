package repository

import (
	"foresight_edu_backend/internal/model"

	"gorm.io/gorm"
)

type MotivationRepository struct {
	DB *gorm.DB
}

func NewMotivationRepository(db *gorm.DB) *MotivationRepository {
	return &MotivationRepository{DB: db}
}

// Random 随机取一条启用的短句，没有时返回 nil
func (r *MotivationRepository) Random() (*model.Motivation, error) {
	var motivation model.Motivation
	err := r.DB.Where("is_enabled = ?", true).Order("RAND()").First(&motivation).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &motivation, nil
}
