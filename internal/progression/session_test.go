package progression

import (
	"testing"
	"time"

	"foresight_edu_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fiveMCQs() []model.MCQ {
	questions := []string{
		"What does strategic foresight explore?",
		"How does user engineering help?",
		"What defines leadership?",
		"Which technical habit matters?",
		"Why does measurement matter?",
	}
	mcqs := make([]model.MCQ, 0, len(questions))
	for _, q := range questions {
		mcqs = append(mcqs, model.MCQ{
			Question:      q,
			Options:       []string{"Right", "Wrong one", "Wrong two", "Wrong three", "Wrong four"},
			CorrectAnswer: "Right",
			Explanation:   "because",
		})
	}
	return mcqs
}

func journeyOnDay(day int, mcqs []model.MCQ) *model.LearningJourney {
	return &model.LearningJourney{
		CurrentDay: day,
		TotalDays:  90,
		CurrentLesson: &model.LessonPayload{
			Title:   "Lesson",
			Content: "content",
			MCQs:    mcqs,
			Day:     day,
		},
	}
}

// 提交全部 5 题，correct 指定答对的题数
func submitAll(t *testing.T, j *model.LearningJourney, mcqs []model.MCQ, correct int, now time.Time) {
	t.Helper()
	for i := 0; i < model.QuestionsPerDay; i++ {
		answer := "Right"
		if i >= correct {
			answer = "Wrong one"
		}
		_, err := SubmitQuiz(j, i, answer, mcqs, now)
		require.NoError(t, err)
	}
}

func TestStartLessonRejectsBadRating(t *testing.T) {
	j := journeyOnDay(1, fiveMCQs())

	for _, rating := range []int{0, -1, 6} {
		_, err := StartLesson(j, rating, date(2025, time.March, 10, 9, 0))
		assert.ErrorIs(t, err, ErrInvalidRating, "rating %d", rating)
	}
	assert.Empty(t, j.CompletedDays)
}

func TestStartLessonRequiresGeneratedLesson(t *testing.T) {
	now := date(2025, time.March, 10, 9, 0)

	// 从未取课
	j := &model.LearningJourney{CurrentDay: 1, TotalDays: 90}
	_, err := StartLesson(j, 4, now)
	assert.ErrorIs(t, err, ErrNoCurrentLesson)

	// 缓存里还是前一天的课程
	j = journeyOnDay(2, fiveMCQs())
	j.CurrentLesson.Day = 1
	_, err = StartLesson(j, 4, now)
	assert.ErrorIs(t, err, ErrNoCurrentLesson)
	assert.Empty(t, j.CompletedDays)
}

func TestStartLessonIdempotentPerDay(t *testing.T) {
	j := journeyOnDay(3, fiveMCQs())
	now := date(2025, time.March, 10, 9, 0)

	first, err := StartLesson(j, 4, now)
	require.NoError(t, err)
	assert.Equal(t, 3, first.Day)
	assert.Equal(t, 4, first.LessonQualityRating)
	assert.Equal(t, "Lesson", first.LessonTitle)

	second, err := StartLesson(j, 2, now)
	require.NoError(t, err)

	assert.Len(t, j.CompletedDays, 1)
	assert.Equal(t, 2, second.LessonQualityRating)
}

func TestSubmitQuizRequiresStartedLesson(t *testing.T) {
	j := journeyOnDay(1, fiveMCQs())

	_, err := SubmitQuiz(j, 0, "Right", fiveMCQs(), date(2025, time.March, 10, 9, 0))

	assert.ErrorIs(t, err, ErrLessonNotStarted)
}

func TestSubmitQuizRejectsDuplicateIndex(t *testing.T) {
	mcqs := fiveMCQs()
	j := journeyOnDay(1, mcqs)
	now := date(2025, time.March, 10, 9, 0)
	_, err := StartLesson(j, 5, now)
	require.NoError(t, err)

	_, err = SubmitQuiz(j, 2, "Wrong one", mcqs, now)
	require.NoError(t, err)

	// 即使这次答案是对的也必须拒绝
	_, err = SubmitQuiz(j, 2, "Right", mcqs, now)
	assert.ErrorIs(t, err, ErrDuplicateSubmission)

	rec := j.RecordForDay(1)
	assert.Len(t, rec.QuizCompletions, 1)
	assert.False(t, rec.QuizCompletions[0].IsCorrect)
}

func TestSubmitQuizRejectsOutOfRangeIndex(t *testing.T) {
	mcqs := fiveMCQs()
	j := journeyOnDay(1, mcqs)
	_, err := StartLesson(j, 5, date(2025, time.March, 10, 9, 0))
	require.NoError(t, err)

	for _, idx := range []int{-1, 5} {
		_, err := SubmitQuiz(j, idx, "Right", mcqs, date(2025, time.March, 10, 9, 0))
		assert.ErrorIs(t, err, ErrQuizIndexOutOfRange, "index %d", idx)
	}
}

func TestSubmitQuizRecalculatesScore(t *testing.T) {
	mcqs := fiveMCQs()
	j := journeyOnDay(1, mcqs)
	now := date(2025, time.March, 10, 9, 0)
	_, err := StartLesson(j, 5, now)
	require.NoError(t, err)

	_, err = SubmitQuiz(j, 0, "Right", mcqs, now)
	require.NoError(t, err)
	_, err = SubmitQuiz(j, 1, "Wrong two", mcqs, now)
	require.NoError(t, err)

	rec := j.RecordForDay(1)
	assert.Equal(t, 1, rec.CorrectAnswers)
	assert.Equal(t, 20, rec.Score) // round(1/5*100)
	assert.Equal(t, model.QuestionsPerDay, rec.TotalQuestions)
}

func TestCompleteLessonRequiresAllQuizzes(t *testing.T) {
	mcqs := fiveMCQs()
	j := journeyOnDay(1, mcqs)
	now := date(2025, time.March, 10, 9, 0)
	_, err := StartLesson(j, 5, now)
	require.NoError(t, err)

	for i := 0; i < 4; i++ {
		_, err := SubmitQuiz(j, i, "Right", mcqs, now)
		require.NoError(t, err)
	}

	_, err = CompleteLesson(j, now)
	assert.ErrorIs(t, err, ErrIncompleteQuizzes)
	assert.Equal(t, 1, j.CurrentDay)
}

func TestCompleteLessonWithoutRecord(t *testing.T) {
	j := journeyOnDay(1, fiveMCQs())

	_, err := CompleteLesson(j, date(2025, time.March, 10, 9, 0))

	assert.ErrorIs(t, err, ErrLessonNotStarted)
}

func TestCompleteLessonAdvancesDayAndAggregates(t *testing.T) {
	mcqs := fiveMCQs()
	j := journeyOnDay(1, mcqs)
	now := date(2025, time.March, 10, 20, 0)
	_, err := StartLesson(j, 4, now)
	require.NoError(t, err)
	submitAll(t, j, mcqs, 3, now)

	summary, err := CompleteLesson(j, now)
	require.NoError(t, err)

	assert.Equal(t, "3/5", summary.Score)
	assert.Equal(t, 60, summary.Percentage)
	assert.Equal(t, "Fair", summary.PerformanceLabel)
	assert.Equal(t, 1, summary.Streak)
	assert.Equal(t, 60, summary.TotalScore)
	assert.Equal(t, 4, summary.QualityRating)

	assert.Equal(t, 2, j.CurrentDay)
	assert.Equal(t, 60, j.TotalScore)
	rec := j.RecordForDay(1)
	assert.False(t, rec.CompletedAt.IsZero())
}

func TestCompleteLessonRederivesTamperedScore(t *testing.T) {
	mcqs := fiveMCQs()
	j := journeyOnDay(1, mcqs)
	now := date(2025, time.March, 10, 20, 0)
	_, err := StartLesson(j, 3, now)
	require.NoError(t, err)
	submitAll(t, j, mcqs, 5, now)

	// 中间写入被破坏也必须以提交记录为准
	rec := j.RecordForDay(1)
	rec.Score = 0
	rec.CorrectAnswers = 0

	summary, err := CompleteLesson(j, now)
	require.NoError(t, err)

	assert.Equal(t, 100, summary.Percentage)
	assert.Equal(t, 5, summary.CorrectAnswers)
	assert.Equal(t, "Well done!!", summary.PerformanceLabel)
}

func TestThreeConsecutiveDailyCompletions(t *testing.T) {
	mcqs := fiveMCQs()
	j := journeyOnDay(1, mcqs)

	for day := 0; day < 3; day++ {
		now := date(2025, time.March, 10+day, 19, 0)
		j.CurrentLesson = &model.LessonPayload{Title: "Lesson", MCQs: mcqs, Day: j.CurrentDay}
		_, err := StartLesson(j, 5, now)
		require.NoError(t, err)
		submitAll(t, j, mcqs, 4, now)
		_, err = CompleteLesson(j, now)
		require.NoError(t, err)
	}

	assert.Equal(t, 3, j.Streak)
	assert.Equal(t, 4, j.CurrentDay)
	assert.Equal(t, 240, j.TotalScore)
}

func TestStateOfDayTransitions(t *testing.T) {
	mcqs := fiveMCQs()
	j := journeyOnDay(1, mcqs)
	now := date(2025, time.March, 10, 9, 0)

	assert.Equal(t, DayNotStarted, StateOfDay(j, 1))

	_, err := StartLesson(j, 5, now)
	require.NoError(t, err)
	assert.Equal(t, DayStarted, StateOfDay(j, 1))

	_, err = SubmitQuiz(j, 0, "Right", mcqs, now)
	require.NoError(t, err)
	assert.Equal(t, DayQuizzesInProgress, StateOfDay(j, 1))

	for i := 1; i < model.QuestionsPerDay; i++ {
		_, err = SubmitQuiz(j, i, "Right", mcqs, now)
		require.NoError(t, err)
	}
	assert.Equal(t, DayReadyToComplete, StateOfDay(j, 1))

	_, err = CompleteLesson(j, now)
	require.NoError(t, err)
	assert.Equal(t, DayCompleted, StateOfDay(j, 1))
}

func TestApplyDayGateCachedLessonSameDay(t *testing.T) {
	j := journeyOnDay(2, fiveMCQs())
	now := date(2025, time.March, 10, 15, 0)
	j.CurrentLesson.Day = 2
	j.LastLessonDate = date(2025, time.March, 10, 8, 0)

	assert.Equal(t, GateUseCached, ApplyDayGate(j, now))
}

func TestApplyDayGateGeneratesOnNewDay(t *testing.T) {
	j := journeyOnDay(2, fiveMCQs())
	j.Streak = 3
	j.LastLessonDate = date(2025, time.March, 9, 22, 0)

	decision := ApplyDayGate(j, date(2025, time.March, 10, 7, 0))

	assert.Equal(t, GateGenerate, decision)
	assert.Equal(t, 3, j.Streak) // 间隔 1 天不清零
}

func TestApplyDayGateGeneratesWhenCacheStale(t *testing.T) {
	j := journeyOnDay(5, fiveMCQs())
	j.CurrentLesson.Day = 4 // 完成后推进了天数，缓存指向旧的一天
	j.LastLessonDate = date(2025, time.March, 10, 8, 0)

	assert.Equal(t, GateGenerate, ApplyDayGate(j, date(2025, time.March, 10, 9, 0)))
}

func TestApplyDayGateResetsStreakAfterGap(t *testing.T) {
	j := journeyOnDay(5, fiveMCQs())
	j.Streak = 6
	j.LastLessonDate = date(2025, time.March, 6, 20, 0)

	decision := ApplyDayGate(j, date(2025, time.March, 10, 8, 0))

	assert.Equal(t, GateGenerate, decision)
	assert.Equal(t, 0, j.Streak)
}

func TestApplyDayGateCourseCompleted(t *testing.T) {
	j := journeyOnDay(91, fiveMCQs())
	j.TotalDays = 90
	j.LastLessonDate = date(2025, time.March, 9, 20, 0)

	assert.Equal(t, GateCourseCompleted, ApplyDayGate(j, date(2025, time.March, 10, 8, 0)))
}

func TestApplyDayGateFirstEverFetch(t *testing.T) {
	j := &model.LearningJourney{CurrentDay: 1, TotalDays: 90}

	assert.Equal(t, GateGenerate, ApplyDayGate(j, date(2025, time.March, 10, 8, 0)))
	assert.Equal(t, 0, j.Streak)
}
