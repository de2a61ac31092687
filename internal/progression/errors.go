package progression

import "errors"

// 工作流状态错误，由 controller 映射为 4xx 响应
var (
	ErrInvalidRating       = errors.New("lesson quality rating must be between 1 and 5")
	ErrNoCurrentLesson     = errors.New("no lesson generated for the current day")
	ErrLessonNotStarted    = errors.New("lesson not started for the current day")
	ErrQuizIndexOutOfRange = errors.New("quiz index out of range")
	ErrDuplicateSubmission = errors.New("quiz already submitted for this index")
	ErrInvalidSelection    = errors.New("selected answer does not match any option")
	ErrIncompleteQuizzes   = errors.New("all quizzes must be submitted before completing the lesson")
)
