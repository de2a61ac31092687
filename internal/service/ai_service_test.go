package service

import (
	"strings"
	"testing"

	"foresight_edu_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFallbackLessonIsAlwaysCompletable(t *testing.T) {
	for _, language := range []string{"en", "fr"} {
		lesson := fallbackLesson(LessonConfig{
			Language:   language,
			CurrentDay: 3,
			TotalDays:  90,
		})

		require.Len(t, lesson.MCQs, model.QuestionsPerDay, "language %s", language)
		assert.Equal(t, 3, lesson.Day)
		assert.Equal(t, 90, lesson.TotalDays)
		assert.Equal(t, 15, lesson.Duration)
		assert.Equal(t, language, lesson.Language)

		// 每道题的正确答案必须逐字出现在选项里，否则测验无法作答
		for i, mcq := range lesson.MCQs {
			assert.Contains(t, mcq.Options, mcq.CorrectAnswer, "language %s mcq %d", language, i)
			assert.NotEmpty(t, mcq.Explanation)
		}
	}
}

func TestFallbackLessonLocalization(t *testing.T) {
	en := fallbackLesson(LessonConfig{Language: "en", CurrentDay: 1, TotalDays: 90})
	fr := fallbackLesson(LessonConfig{Language: "fr", CurrentDay: 1, TotalDays: 90})

	assert.Equal(t, "Introduction to Strategic Foresight", en.Title)
	assert.Equal(t, "Introduction à la Prospective Stratégique", fr.Title)
	assert.NotEqual(t, en.Content, fr.Content)

	// 未知语言回退英文
	other := fallbackLesson(LessonConfig{Language: "de", CurrentDay: 1, TotalDays: 90})
	assert.Equal(t, en.Title, other.Title)
}

func TestFallbackPlanShape(t *testing.T) {
	plan := fallbackPlan("strategic_foresight", 180)

	assert.Equal(t, "Strategic Foresight Mastery", plan.Title)
	assert.Equal(t, 180, plan.Duration)
	assert.Equal(t, "strategic_foresight", plan.FocusArea)
	assert.Len(t, plan.LearningObjectives, 4)
	assert.NotEmpty(t, plan.DailyStructure)
}

func TestFallbackPlanKeepsRequestedScope(t *testing.T) {
	plan := fallbackPlan("user_engineering", 90)

	assert.Equal(t, 90, plan.Duration)
	assert.Equal(t, "user_engineering", plan.FocusArea)
}

func TestValidLesson(t *testing.T) {
	good := aiLesson{
		Title:   "Day 1",
		Content: "content",
		MCQs:    make([]model.MCQ, model.QuestionsPerDay),
	}
	for i := range good.MCQs {
		good.MCQs[i] = model.MCQ{
			Question:      "q",
			Options:       []string{"a", "b"},
			CorrectAnswer: " b ",
		}
	}
	assert.True(t, validLesson(good), "正确答案允许两侧空白差异")

	missingTitle := good
	missingTitle.Title = ""
	assert.False(t, validLesson(missingTitle))

	tooFew := good
	tooFew.MCQs = good.MCQs[:3]
	assert.False(t, validLesson(tooFew))

	badAnswer := good
	badAnswer.MCQs = append([]model.MCQ(nil), good.MCQs...)
	badAnswer.MCQs[4] = model.MCQ{
		Question:      "q",
		Options:       []string{"a", "b"},
		CorrectAnswer: "c",
	}
	assert.False(t, validLesson(badAnswer), "正确答案不在选项里必须整体降级")
}

func TestLessonSystemPromptLocalization(t *testing.T) {
	assert.True(t, strings.HasPrefix(lessonSystemPrompt("en"), "You are a daily lesson generator"))
	assert.True(t, strings.HasPrefix(lessonSystemPrompt("fr"), "Vous êtes un générateur"))
	assert.Equal(t, lessonSystemPrompt("en"), lessonSystemPrompt("xx"))
}
