package progression

import (
	"fmt"
	"math"
	"time"

	"foresight_edu_backend/internal/model"
)

// DashboardView 只读的学习概览投影，不修改任何状态
type DashboardView struct {
	CourseName       string     `json:"courseName"`
	AverageScore     int        `json:"averageScore"`
	Rating           string     `json:"rating"` // "3.5 / 5"
	EstimatedLevel   string     `json:"estimatedLevel"`
	Trend            string     `json:"trend"`
	LessonsCompleted int        `json:"lessonsCompleted"`
	Streak           int        `json:"streak"`
	TotalScore       int        `json:"totalScore"`
	NextLessonTime   NextLesson `json:"nextLessonTime"`
}

const (
	TrendUp     = "Trending Up"
	TrendDown   = "Trending Down"
	TrendStable = "Stable"
)

// BuildDashboard 从已完成的 DayRecord 历史构建仪表盘
func BuildDashboard(j *model.LearningJourney, now time.Time) DashboardView {
	completed := completedRecords(j)

	avg := 0
	if len(completed) > 0 {
		avg = int(math.Round(float64(j.TotalScore) / float64(len(completed))))
	}

	courseName := "No Course"
	if j.Course != nil && j.Course.Title != "" {
		courseName = j.Course.Title
	}

	return DashboardView{
		CourseName:       courseName,
		AverageScore:     avg,
		Rating:           RatingValue(avg) + " / 5",
		EstimatedLevel:   EstimatedLevel(avg),
		Trend:            Trend(completed),
		LessonsCompleted: len(completed),
		Streak:           j.Streak,
		TotalScore:       j.TotalScore,
		NextLessonTime:   NextLessonTime(now),
	}
}

// RatingValue 把平均分换算到 0–5 的评分，保留一位小数
func RatingValue(averageScore int) string {
	return fmt.Sprintf("%.1f", float64(averageScore)/20)
}

// EstimatedLevel 按评分的固定阈值表估计当前水平
func EstimatedLevel(averageScore int) string {
	rating := float64(averageScore) / 20
	switch {
	case rating >= 4.5:
		return "Master's Degree Level"
	case rating >= 3.5:
		return "Bachelor's Degree Level"
	case rating >= 2.5:
		return "Associate Degree Level"
	default:
		return "Beginner Level"
	}
}

// Trend 比较最后两条完成记录的得分，持平视为下行；
// 少于两条记录时没有可比对象，返回 Stable
func Trend(completed []model.DayRecord) string {
	if len(completed) < 2 {
		return TrendStable
	}
	last := completed[len(completed)-1].Score
	prev := completed[len(completed)-2].Score
	if last > prev {
		return TrendUp
	}
	return TrendDown
}

// 答对题数到评语的固定映射
var performanceLabels = [model.QuestionsPerDay + 1]string{
	"Ouch!!",
	"What Happen?",
	"Uh huh",
	"Fair",
	"Good",
	"Well done!!",
}

// PerformanceLabel 按答对题数返回测验评语
func PerformanceLabel(correctAnswers int) string {
	if correctAnswers < 0 || correctAnswers > model.QuestionsPerDay {
		return ""
	}
	return performanceLabels[correctAnswers]
}

func completedRecords(j *model.LearningJourney) []model.DayRecord {
	out := make([]model.DayRecord, 0, len(j.CompletedDays))
	for _, r := range j.CompletedDays {
		if !r.CompletedAt.IsZero() {
			out = append(out, r)
		}
	}
	return out
}
