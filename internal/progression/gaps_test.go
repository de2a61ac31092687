package progression

import (
	"testing"

	"foresight_edu_backend/internal/model"

	"github.com/stretchr/testify/assert"
)

func incorrect(question string) model.QuizCompletion {
	return model.QuizCompletion{Question: question, SkillTag: ClassifySkill(question), IsCorrect: false}
}

func TestClassifySkill(t *testing.T) {
	tests := []struct {
		question string
		want     string
	}{
		{"What does Strategic foresight explore?", "strategic_vision"},
		{"How does user engineering shape products?", "user_engineering"},
		{"What defines good leadership?", "leadership"},
		{"Which technical practice applies?", "technical_mastery"},
		{"Why does measurement matter?", "measurement"},
		{"What color is the sky?", SkillTagUnknown},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifySkill(tt.question), tt.question)
	}
}

func TestIdentifyGapsThreshold(t *testing.T) {
	records := []model.DayRecord{
		{QuizCompletions: []model.QuizCompletion{
			incorrect("What is strategic planning?"),
			incorrect("What defines leadership?"),
		}},
		{QuizCompletions: []model.QuizCompletion{
			incorrect("How does strategic thinking work?"),
		}},
	}

	gaps := IdentifyGaps(records)

	// leadership 只出现一次，未超过阈值
	assert.Equal(t, []string{"strategic_vision"}, gaps)
}

func TestIdentifyGapsIgnoresCorrectAnswers(t *testing.T) {
	records := []model.DayRecord{
		{QuizCompletions: []model.QuizCompletion{
			{Question: "strategic one", SkillTag: "strategic_vision", IsCorrect: true},
			{Question: "strategic two", SkillTag: "strategic_vision", IsCorrect: true},
			incorrect("measurement basics"),
		}},
	}

	assert.Empty(t, IdentifyGaps(records))
}

func TestIdentifyGapsStableOrdering(t *testing.T) {
	records := []model.DayRecord{
		{QuizCompletions: []model.QuizCompletion{
			incorrect("measurement one"),
			incorrect("strategic one"),
			incorrect("strategic two"), // strategic 先到阈值
			incorrect("measurement two"),
		}},
	}

	assert.Equal(t, []string{"strategic_vision", "measurement"}, IdentifyGaps(records))
}

func TestIdentifyGapsClassifiesWhenTagMissing(t *testing.T) {
	records := []model.DayRecord{
		{QuizCompletions: []model.QuizCompletion{
			{Question: "leadership a", IsCorrect: false},
			{Question: "leadership b", IsCorrect: false},
		}},
	}

	assert.Equal(t, []string{"leadership"}, IdentifyGaps(records))
}
