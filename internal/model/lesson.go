package model

// LessonArchive 每次生成课程的存档副本，便于回溯 AI 输出
// currentLesson 缓存每天被覆盖，这里保留历史
type LessonArchive struct {
	UUIDBase
	UserID   uint          `gorm:"index:idx_user_day;not null" json:"userId"`
	Day      int           `gorm:"index:idx_user_day;not null" json:"day"`
	Language string        `gorm:"size:5" json:"language"`
	Fallback bool          `gorm:"default:false" json:"fallback"` // 是否为降级内容
	Payload  LessonPayload `gorm:"serializer:json;type:json" json:"payload"`
}

func (LessonArchive) TableName() string {
	return "lesson_archives"
}
