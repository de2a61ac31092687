package progression

import (
	"strings"

	"foresight_edu_backend/internal/model"
)

// Selection 一次答案匹配的结果
type Selection struct {
	OptionIndex int
	IsCorrect   bool
}

// OptionLabel 选项的位置标签："A"、"B"、…，按选项顺序分配
func OptionLabel(index int) string {
	return string(rune('A' + index))
}

// ValidateSelection 将提交的答案与题目选项匹配
// 接受两种形式：选项原文，或带位置标签前缀的形式（"B. Dogs"）。
// 标签必须与选项的实际位置一致，否则视为非法提交返回 ErrInvalidSelection。
func ValidateSelection(mcq model.MCQ, selected string) (Selection, error) {
	s := strings.TrimSpace(selected)
	answer := strings.TrimSpace(mcq.CorrectAnswer)

	for i, opt := range mcq.Options {
		o := strings.TrimSpace(opt)
		if s == o || s == OptionLabel(i)+". "+o {
			return Selection{OptionIndex: i, IsCorrect: o == answer}, nil
		}
	}

	return Selection{OptionIndex: -1}, ErrInvalidSelection
}
