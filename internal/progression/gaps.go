package progression

import (
	"strings"

	"foresight_edu_backend/internal/model"
)

// 题干关键词到技能标签的固定映射，按声明顺序匹配
var skillKeywords = []struct {
	keyword string
	tag     string
}{
	{"strategic", "strategic_vision"},
	{"engineering", "user_engineering"},
	{"leadership", "leadership"},
	{"technical", "technical_mastery"},
	{"measurement", "measurement"},
}

// SkillTagUnknown 无法归类时的兜底标签
const SkillTagUnknown = "unknown"

// 同一标签的错题数量超过该阈值才视为知识缺口
const gapThreshold = 1

// ClassifySkill 按题干文本的关键词子串归类技能标签
func ClassifySkill(question string) string {
	q := strings.ToLower(question)
	for _, kw := range skillKeywords {
		if strings.Contains(q, kw.keyword) {
			return kw.tag
		}
	}
	return SkillTagUnknown
}

// IdentifyGaps 扫描给定记录里的错误提交，统计各技能标签的出现次数，
// 返回超过阈值的标签。结果顺序稳定：按标签第一次超过阈值的先后排列。
func IdentifyGaps(records []model.DayRecord) []string {
	counts := make(map[string]int)
	gaps := []string{}

	for ri := range records {
		for qi := range records[ri].QuizCompletions {
			qc := &records[ri].QuizCompletions[qi]
			if qc.IsCorrect {
				continue
			}
			tag := qc.SkillTag
			if tag == "" {
				tag = ClassifySkill(qc.Question)
			}
			counts[tag]++
			if counts[tag] == gapThreshold+1 {
				gaps = append(gaps, tag)
			}
		}
	}

	return gaps
}
