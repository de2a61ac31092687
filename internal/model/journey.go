package model

import (
	"time"
)

// Course AI 生成的学习计划，整体作为 JSON 列保存在 journey 上
type Course struct {
	Title              string   `json:"title"`
	Duration           int      `json:"duration"` // 天数
	FocusArea          string   `json:"focusArea"`
	LearningObjectives []string `json:"learningObjectives"`
	DailyStructure     string   `json:"dailyStructure"`
}

// MCQ 每日课程内的单选题，correctAnswer 必须与某个选项逐字相等
type MCQ struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
	Explanation   string   `json:"explanation"`
}

// LessonPayload 最近一次生成的课程内容，每个新的一天被整体覆盖
type LessonPayload struct {
	Title             string    `json:"title"`
	Content           string    `json:"content"` // markdown
	ImageRef          string    `json:"imageRef,omitempty"`
	MCQs              []MCQ     `json:"mcqs"`
	PracticalExercise string    `json:"practicalExercise"`
	KeyTakeaways      []string  `json:"keyTakeaways"`
	Day               int       `json:"day"`
	TotalDays         int       `json:"totalDays"`
	Duration          int       `json:"duration"` // 分钟
	Language          string    `json:"language"`
	GeneratedAt       time.Time `json:"generatedAt"`
}

// LearningJourney 学习进度聚合根，每个用户一条
// 进度规则（日期闸门、连续天数、测验提交）由 internal/progression 包实现，
// 这里只承载状态。
// swagger:model LearningJourney
type LearningJourney struct {
	BaseModel
	UserID uint `gorm:"uniqueIndex;not null" json:"-"`

	Course        *Course        `gorm:"serializer:json;type:json" json:"currentCourse,omitempty"`
	CurrentLesson *LessonPayload `gorm:"serializer:json;type:json" json:"currentLesson,omitempty"`

	CurrentDay     int       `gorm:"default:1" json:"currentDay"`
	TotalDays      int       `gorm:"default:90" json:"totalDays"`
	LastLessonDate time.Time `json:"lastLessonDate"` // 零值表示从未取课
	Streak         int       `gorm:"default:0" json:"streak"`
	TotalScore     int       `gorm:"default:0" json:"totalScore"`

	// 按插入顺序即时间顺序
	CompletedDays []DayRecord `gorm:"foreignKey:JourneyID" json:"completedDays"`
}

func (LearningJourney) TableName() string {
	return "learning_journeys"
}

// RecordForDay 返回指定天的 DayRecord，不存在时返回 nil
func (j *LearningJourney) RecordForDay(day int) *DayRecord {
	for i := range j.CompletedDays {
		if j.CompletedDays[i].Day == day {
			return &j.CompletedDays[i]
		}
	}
	return nil
}

// ResetForNewCourse 重新生成计划时清空全部进度
func (j *LearningJourney) ResetForNewCourse(course *Course) {
	j.Course = course
	j.TotalDays = course.Duration
	j.CurrentDay = 1
	j.CurrentLesson = nil
	j.LastLessonDate = time.Time{}
	j.Streak = 0
	j.TotalScore = 0
	j.CompletedDays = nil
}
