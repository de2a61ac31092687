package progression

import (
	"testing"
	"time"

	"foresight_edu_backend/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestBuildDashboardAggregates(t *testing.T) {
	j := &model.LearningJourney{
		Course:     &model.Course{Title: "Strategic Foresight Mastery"},
		TotalScore: 140,
		Streak:     2,
		CompletedDays: []model.DayRecord{
			completedDay(1, date(2025, time.March, 10, 20, 0), 60),
			completedDay(2, date(2025, time.March, 11, 20, 0), 80),
		},
	}

	view := BuildDashboard(j, date(2025, time.March, 12, 9, 30))

	assert.Equal(t, "Strategic Foresight Mastery", view.CourseName)
	assert.Equal(t, 70, view.AverageScore)
	assert.Equal(t, "3.5 / 5", view.Rating)
	assert.Equal(t, "Bachelor's Degree Level", view.EstimatedLevel)
	assert.Equal(t, TrendUp, view.Trend)
	assert.Equal(t, 2, view.LessonsCompleted)
	assert.Equal(t, 2, view.Streak)
	assert.Equal(t, 140, view.TotalScore)
	assert.Equal(t, 14, view.NextLessonTime.Hours)
	assert.Equal(t, 30, view.NextLessonTime.Minutes)
}

func TestBuildDashboardEmptyJourney(t *testing.T) {
	j := &model.LearningJourney{}

	view := BuildDashboard(j, date(2025, time.March, 12, 9, 30))

	assert.Equal(t, "No Course", view.CourseName)
	assert.Equal(t, 0, view.AverageScore)
	assert.Equal(t, "0.0 / 5", view.Rating)
	assert.Equal(t, "Beginner Level", view.EstimatedLevel)
	assert.Equal(t, TrendStable, view.Trend)
	assert.Equal(t, 0, view.LessonsCompleted)
}

func TestBuildDashboardSkipsInProgressDays(t *testing.T) {
	j := &model.LearningJourney{
		TotalScore: 80,
		CompletedDays: []model.DayRecord{
			completedDay(1, date(2025, time.March, 10, 20, 0), 80),
			{Day: 2}, // 进行中，不计入平均分
		},
	}

	view := BuildDashboard(j, date(2025, time.March, 11, 9, 0))

	assert.Equal(t, 1, view.LessonsCompleted)
	assert.Equal(t, 80, view.AverageScore)
}

func TestEstimatedLevelThresholds(t *testing.T) {
	tests := []struct {
		avg   int
		level string
	}{
		{95, "Master's Degree Level"},
		{90, "Master's Degree Level"},
		{89, "Bachelor's Degree Level"},
		{70, "Bachelor's Degree Level"},
		{69, "Associate Degree Level"},
		{50, "Associate Degree Level"},
		{49, "Beginner Level"},
		{0, "Beginner Level"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.level, EstimatedLevel(tt.avg), "avg %d", tt.avg)
	}
}

func TestTrendComparisons(t *testing.T) {
	rec := func(score int) model.DayRecord {
		return completedDay(1, date(2025, time.March, 10, 20, 0), score)
	}

	assert.Equal(t, TrendStable, Trend(nil))
	assert.Equal(t, TrendStable, Trend([]model.DayRecord{rec(60)}))
	assert.Equal(t, TrendUp, Trend([]model.DayRecord{rec(60), rec(80)}))
	assert.Equal(t, TrendDown, Trend([]model.DayRecord{rec(80), rec(60)}))
	// 持平不算进步
	assert.Equal(t, TrendDown, Trend([]model.DayRecord{rec(60), rec(60)}))
	assert.Equal(t, TrendDown, Trend([]model.DayRecord{rec(80), rec(60), rec(60)}))
}

func TestPerformanceLabels(t *testing.T) {
	tests := []struct {
		correct int
		label   string
	}{
		{0, "Ouch!!"},
		{1, "What Happen?"},
		{2, "Uh huh"},
		{3, "Fair"},
		{4, "Good"},
		{5, "Well done!!"},
		{-1, ""},
		{6, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.label, PerformanceLabel(tt.correct), "correct %d", tt.correct)
	}
}
