package model

import (
	"time"

	"gorm.io/datatypes"
)

// 每天固定 5 道单选题
const QuestionsPerDay = 5

// DayRecord 记录某一天课程的参与结果
// day 在同一 journey 内唯一，CompletedAt 为零值表示当天尚未完成
// swagger:model DayRecord
type DayRecord struct {
	BaseModel
	JourneyID uint `gorm:"index:idx_journey_day,unique;not null" json:"-"`
	Day       int  `gorm:"index:idx_journey_day,unique;not null" json:"day"`

	CompletedAt         time.Time                   `json:"completedAt"`
	LessonTitle         string                      `gorm:"size:255" json:"lessonTitle"`
	LessonContent       string                      `gorm:"type:text" json:"lessonContent"`
	Score               int                         `json:"score"` // 0–100
	CorrectAnswers      int                         `json:"correctAnswers"`
	TotalQuestions      int                         `gorm:"default:5" json:"totalQuestions"`
	LessonQualityRating int                         `json:"lessonQualityRating"` // 1–5
	QuizCompletions     []QuizCompletion            `gorm:"foreignKey:DayRecordID" json:"quizCompletions"`
	KnowledgeGaps       datatypes.JSONSlice[string] `json:"knowledgeGaps"`
}

func (DayRecord) TableName() string {
	return "day_records"
}

// Completion 返回指定题目下标的提交记录，不存在时返回 nil
func (r *DayRecord) Completion(quizIndex int) *QuizCompletion {
	for i := range r.QuizCompletions {
		if r.QuizCompletions[i].QuizIndex == quizIndex {
			return &r.QuizCompletions[i]
		}
	}
	return nil
}

// QuizCompletion 一道题的一次提交，quizIndex 在同一天内唯一
// swagger:model QuizCompletion
type QuizCompletion struct {
	BaseModel
	DayRecordID uint `gorm:"index:idx_record_quiz,unique;not null" json:"-"`
	QuizIndex   int  `gorm:"index:idx_record_quiz,unique;not null" json:"quizIndex"`

	Question    string    `gorm:"type:text" json:"question"` // 题干快照，用于知识缺口分析
	SkillTag    string    `gorm:"size:50" json:"skillTag"`
	Selected    string    `gorm:"size:500" json:"selected"`
	IsCorrect   bool      `json:"isCorrect"`
	SubmittedAt time.Time `json:"submittedAt"`
}

func (QuizCompletion) TableName() string {
	return "quiz_completions"
}
