package progression

import (
	"testing"
	"time"

	"foresight_edu_backend/internal/model"

	"github.com/stretchr/testify/assert"
)

func completedDay(day int, at time.Time, score int) model.DayRecord {
	return model.DayRecord{
		Day:            day,
		CompletedAt:    at,
		Score:          score,
		TotalQuestions: model.QuestionsPerDay,
	}
}

func TestApplyStreakUpdateFirstCompletion(t *testing.T) {
	j := &model.LearningJourney{CurrentDay: 1}

	got := ApplyStreakUpdate(j, 1, date(2025, time.March, 10, 20, 0))

	assert.Equal(t, 1, got)
	assert.Equal(t, 1, j.Streak)
}

func TestApplyStreakUpdateConsecutiveDaysIncrement(t *testing.T) {
	j := &model.LearningJourney{Streak: 1}
	j.CompletedDays = []model.DayRecord{
		completedDay(1, date(2025, time.March, 10, 20, 0), 80),
	}

	ApplyStreakUpdate(j, 2, date(2025, time.March, 11, 19, 0))
	assert.Equal(t, 2, j.Streak)

	j.CompletedDays = append(j.CompletedDays, completedDay(2, date(2025, time.March, 11, 19, 0), 60))
	ApplyStreakUpdate(j, 3, date(2025, time.March, 12, 7, 0))
	assert.Equal(t, 3, j.Streak)
}

func TestApplyStreakUpdateSameDayUnchanged(t *testing.T) {
	j := &model.LearningJourney{Streak: 4}
	j.CompletedDays = []model.DayRecord{
		completedDay(5, date(2025, time.March, 10, 9, 0), 100),
	}

	ApplyStreakUpdate(j, 6, date(2025, time.March, 10, 21, 0))

	assert.Equal(t, 4, j.Streak)
}

func TestApplyStreakUpdateGapRestartsAtOne(t *testing.T) {
	j := &model.LearningJourney{Streak: 7}
	j.CompletedDays = []model.DayRecord{
		completedDay(8, date(2025, time.March, 10, 20, 0), 80),
	}

	ApplyStreakUpdate(j, 9, date(2025, time.March, 14, 20, 0))

	assert.Equal(t, 1, j.Streak)
}

func TestApplyStreakUpdateIgnoresUncompletedRecords(t *testing.T) {
	j := &model.LearningJourney{Streak: 2}
	j.CompletedDays = []model.DayRecord{
		completedDay(1, date(2025, time.March, 10, 20, 0), 80),
		{Day: 2}, // 已开始未完成
	}

	ApplyStreakUpdate(j, 2, date(2025, time.March, 11, 20, 0))

	assert.Equal(t, 3, j.Streak)
}
