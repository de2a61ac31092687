package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSkillEntryUnmarshalStructured(t *testing.T) {
	var e SkillEntry
	err := json.Unmarshal([]byte(`{"skill":"strategic_vision","currentLevel":3,"desiredLevel":4}`), &e)

	require.NoError(t, err)
	assert.Equal(t, SkillEntry{Skill: "strategic_vision", CurrentLevel: 3, DesiredLevel: 4}, e)
}

func TestSkillEntryUnmarshalLegacyString(t *testing.T) {
	// 早期版本 mainSkills 是纯字符串数组
	var e SkillEntry
	err := json.Unmarshal([]byte(`"user_engineering"`), &e)

	require.NoError(t, err)
	assert.Equal(t, SkillEntry{Skill: "user_engineering", CurrentLevel: 1, DesiredLevel: 5}, e)
}

func TestSkillEntryUnmarshalDefaultsZeroLevels(t *testing.T) {
	var e SkillEntry
	err := json.Unmarshal([]byte(`{"skill":"leadership"}`), &e)

	require.NoError(t, err)
	assert.Equal(t, 1, e.CurrentLevel)
	assert.Equal(t, 5, e.DesiredLevel)
}

func TestSkillEntryUnmarshalMixedSlice(t *testing.T) {
	var entries []SkillEntry
	err := json.Unmarshal([]byte(`["measurement",{"skill":"technical_mastery","currentLevel":2,"desiredLevel":5}]`), &entries)

	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "measurement", entries[0].Skill)
	assert.Equal(t, "technical_mastery", entries[1].Skill)
	assert.Equal(t, 2, entries[1].CurrentLevel)
}

func TestSkillEntryUnmarshalRejectsMalformed(t *testing.T) {
	var e SkillEntry
	err := json.Unmarshal([]byte(`42`), &e)

	assert.Error(t, err)
}
