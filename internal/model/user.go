package model

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// 画像枚举值与前端约定保持一致
const (
	SkillBeginner     = "beginner"
	SkillPractitioner = "practitioner"
	SkillProficient   = "proficient"
	SkillExpert       = "expert"

	DesiredImproveLittle   = "improve_little"
	DesiredVeryGood        = "very_good"
	DesiredBecomeExcellent = "become_excellent"
)

// SkillEntry 结构化的主技能条目
// 历史数据中 mainSkills 曾是纯字符串数组，反序列化时做兼容迁移
type SkillEntry struct {
	Skill        string `json:"skill"`
	CurrentLevel int    `json:"currentLevel"`
	DesiredLevel int    `json:"desiredLevel"`
}

// UnmarshalJSON 兼容两种历史格式："strategic_vision" 和 {skill, currentLevel, desiredLevel}
func (e *SkillEntry) UnmarshalJSON(data []byte) error {
	var legacy string
	if err := json.Unmarshal(data, &legacy); err == nil {
		e.Skill = legacy
		e.CurrentLevel = 1
		e.DesiredLevel = 5
		return nil
	}

	type alias SkillEntry
	var entry alias
	if err := json.Unmarshal(data, &entry); err != nil {
		return err
	}
	if entry.CurrentLevel == 0 {
		entry.CurrentLevel = 1
	}
	if entry.DesiredLevel == 0 {
		entry.DesiredLevel = 5
	}
	*e = SkillEntry(entry)
	return nil
}

// Profile 用户技能画像，驱动 AI 课程计划与每日课程生成
type Profile struct {
	Name         string                          `gorm:"size:100" json:"name"`
	Avatar       string                          `gorm:"size:255" json:"avatar"`
	Profession   string                          `gorm:"size:30;default:'other'" json:"profession"`
	SkillLevel   string                          `gorm:"size:30;default:'beginner'" json:"skillLevel"`
	DesiredLevel string                          `gorm:"size:30;default:'improve_little'" json:"desiredLevel"`
	AgeGroup     string                          `gorm:"size:10" json:"ageGroup"`
	MainSkills   datatypes.JSONSlice[SkillEntry] `json:"mainSkills"`
	Goals        datatypes.JSONSlice[string]     `json:"goals"`
	GrowthAreas  datatypes.JSONSlice[string]     `json:"growthAreas"`
}

// Preferences 学习偏好
type Preferences struct {
	DailyReminder    bool   `gorm:"default:true" json:"dailyReminder"`
	NotificationTime string `gorm:"size:5;default:'09:00'" json:"notificationTime"`
	Language         string `gorm:"size:5;default:'en'" json:"language"`         // en / fr
	LearningPace     string `gorm:"size:20;default:'moderate'" json:"learningPace"` // relaxed / moderate / intensive
}

// swagger:model User
type User struct {
	BaseModel
	Email        string      `gorm:"size:100;unique;not null" json:"email"`
	Password     string      `gorm:"size:100;not null" json:"-"`
	RefreshToken string      `gorm:"size:512" json:"-"`
	LastLogin    time.Time   `json:"lastLogin"`
	LastSeen     time.Time   `json:"lastSeen"`
	Profile      Profile     `gorm:"embedded;embeddedPrefix:profile_" json:"profile"`
	Preferences  Preferences `gorm:"embedded;embeddedPrefix:pref_" json:"preferences"`

	Journey *LearningJourney `gorm:"foreignKey:UserID" json:"learningJourney,omitempty"`
}

func (User) TableName() string {
	return "users"
}
