package progression

import (
	"testing"

	"foresight_edu_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSelection(t *testing.T) {
	mcq := model.MCQ{
		Question:      "Which pet?",
		Options:       []string{"Cats", "Dogs"},
		CorrectAnswer: "Dogs",
	}

	tests := []struct {
		name        string
		selected    string
		wantErr     error
		wantCorrect bool
		wantIndex   int
	}{
		{"raw correct text", "Dogs", nil, true, 1},
		{"label prefixed correct", "B. Dogs", nil, true, 1},
		{"raw incorrect text", "Cats", nil, false, 0},
		{"label prefixed incorrect", "A. Cats", nil, false, 0},
		{"trims surrounding whitespace", "  Dogs  ", nil, true, 1},
		{"wrong label for option", "C. Dogs", ErrInvalidSelection, false, -1},
		{"label of other option", "A. Dogs", ErrInvalidSelection, false, -1},
		{"unknown text", "Birds", ErrInvalidSelection, false, -1},
		{"empty selection", "", ErrInvalidSelection, false, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel, err := ValidateSelection(mcq, tt.selected)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantCorrect, sel.IsCorrect)
			assert.Equal(t, tt.wantIndex, sel.OptionIndex)
		})
	}
}

func TestValidateSelectionToleratesOptionWhitespace(t *testing.T) {
	mcq := model.MCQ{
		Options:       []string{" Explore possible futures "},
		CorrectAnswer: "Explore possible futures",
	}

	sel, err := ValidateSelection(mcq, "A. Explore possible futures")

	require.NoError(t, err)
	assert.True(t, sel.IsCorrect)
}

func TestOptionLabel(t *testing.T) {
	assert.Equal(t, "A", OptionLabel(0))
	assert.Equal(t, "E", OptionLabel(4))
}
