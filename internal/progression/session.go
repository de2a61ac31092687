package progression

import (
	"fmt"
	"math"
	"time"

	"foresight_edu_backend/internal/model"
)

// DayState 一天课程的生命周期状态，状态只会向前推进
type DayState int

const (
	DayNotStarted DayState = iota
	DayStarted
	DayQuizzesInProgress
	DayReadyToComplete
	DayCompleted
)

func (s DayState) String() string {
	switch s {
	case DayNotStarted:
		return "not_started"
	case DayStarted:
		return "started"
	case DayQuizzesInProgress:
		return "quizzes_in_progress"
	case DayReadyToComplete:
		return "ready_to_complete"
	case DayCompleted:
		return "completed"
	}
	return "unknown"
}

// StateOfDay 返回指定天当前所处的状态
func StateOfDay(j *model.LearningJourney, day int) DayState {
	rec := j.RecordForDay(day)
	if rec == nil {
		return DayNotStarted
	}
	if !rec.CompletedAt.IsZero() {
		return DayCompleted
	}
	switch n := len(rec.QuizCompletions); {
	case n == 0:
		return DayStarted
	case n < model.QuestionsPerDay:
		return DayQuizzesInProgress
	default:
		return DayReadyToComplete
	}
}

// GateDecision 取课闸门的判定结果
type GateDecision int

const (
	GateUseCached GateDecision = iota // 缓存仍然有效，直接返回
	GateGenerate                      // 需要请求生成新课程
	GateCourseCompleted               // 课程天数已走完
)

// ApplyDayGate 判定当前应当返回缓存课程、生成新课程还是宣告课程结束。
// 跨天且距上次取课超过 1 天时会先把连续天数清零（随后由完成动作重启）。
// 会原地修改 journey 的 Streak，其余状态由调用方在生成后写入。
func ApplyDayGate(j *model.LearningJourney, now time.Time) GateDecision {
	crossed := HasCrossedDay(now, j.LastLessonDate)

	if crossed && !j.LastLessonDate.IsZero() && DaysElapsed(now, j.LastLessonDate) > 1 {
		j.Streak = 0
	}

	if j.CurrentDay > j.TotalDays {
		return GateCourseCompleted
	}

	if crossed || j.CurrentLesson == nil || j.CurrentLesson.Day != j.CurrentDay {
		return GateGenerate
	}

	return GateUseCached
}

// StartLesson 记录当天课程的质量评分并建立 DayRecord。
// 要求当天课程已生成；幂等：同一天重复调用只更新评分，
// 不会产生第二条记录。
func StartLesson(j *model.LearningJourney, rating int, now time.Time) (*model.DayRecord, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}
	if j.CurrentLesson == nil || j.CurrentLesson.Day != j.CurrentDay {
		return nil, ErrNoCurrentLesson
	}

	rec := j.RecordForDay(j.CurrentDay)
	if rec == nil {
		record := model.DayRecord{
			Day:            j.CurrentDay,
			LessonTitle:    j.CurrentLesson.Title,
			LessonContent:  j.CurrentLesson.Content,
			TotalQuestions: model.QuestionsPerDay,
			KnowledgeGaps:  []string{},
		}
		j.CompletedDays = append(j.CompletedDays, record)
		rec = &j.CompletedDays[len(j.CompletedDays)-1]
	}

	rec.LessonQualityRating = rating
	rec.KnowledgeGaps = IdentifyGaps([]model.DayRecord{*rec})
	return rec, nil
}

// SubmitQuiz 提交当天第 quizIndex 题的答案。
// 同一下标至多提交一次；查重与追加必须作为单个原子步骤执行，
// 调用方按用户聚合串行化请求。
func SubmitQuiz(j *model.LearningJourney, quizIndex int, selected string, mcqs []model.MCQ, now time.Time) (*model.QuizCompletion, error) {
	rec := j.RecordForDay(j.CurrentDay)
	if rec == nil {
		return nil, ErrLessonNotStarted
	}
	if quizIndex < 0 || quizIndex >= len(mcqs) {
		return nil, ErrQuizIndexOutOfRange
	}
	if rec.Completion(quizIndex) != nil {
		return nil, ErrDuplicateSubmission
	}

	mcq := mcqs[quizIndex]
	sel, err := ValidateSelection(mcq, selected)
	if err != nil {
		return nil, err
	}

	rec.QuizCompletions = append(rec.QuizCompletions, model.QuizCompletion{
		QuizIndex:   quizIndex,
		Question:    mcq.Question,
		SkillTag:    ClassifySkill(mcq.Question),
		Selected:    selected,
		IsCorrect:   sel.IsCorrect,
		SubmittedAt: now,
	})

	RecalculateRecord(rec)
	rec.KnowledgeGaps = IdentifyGaps([]model.DayRecord{*rec})

	return &rec.QuizCompletions[len(rec.QuizCompletions)-1], nil
}

// CompletionSummary 完成一天课程后的结算结果
type CompletionSummary struct {
	Score            string   `json:"score"` // "3/5"
	CorrectAnswers   int      `json:"correctAnswers"`
	TotalQuestions   int      `json:"totalQuestions"`
	Percentage       int      `json:"percentage"`
	PerformanceLabel string   `json:"performanceLabel"`
	Streak           int      `json:"streak"`
	TotalScore       int      `json:"totalScore"`
	QualityRating    int      `json:"lessonQualityRating"`
	KnowledgeGaps    []string `json:"knowledgeGaps"`
}

// CompleteLesson 结算当天课程：要求 5 题全部提交完毕，
// 从提交记录重新推导得分（不信任中间写入），推进到下一天，
// 累计总分并更新连续天数。
func CompleteLesson(j *model.LearningJourney, now time.Time) (*CompletionSummary, error) {
	rec := j.RecordForDay(j.CurrentDay)
	if rec == nil {
		return nil, ErrLessonNotStarted
	}
	if len(rec.QuizCompletions) != model.QuestionsPerDay {
		return nil, ErrIncompleteQuizzes
	}

	RecalculateRecord(rec)
	rec.CompletedAt = now
	rec.KnowledgeGaps = IdentifyGaps([]model.DayRecord{*rec})

	j.TotalScore += rec.Score
	ApplyStreakUpdate(j, rec.Day, now)
	j.CurrentDay++

	return &CompletionSummary{
		Score:            fmt.Sprintf("%d/%d", rec.CorrectAnswers, rec.TotalQuestions),
		CorrectAnswers:   rec.CorrectAnswers,
		TotalQuestions:   rec.TotalQuestions,
		Percentage:       rec.Score,
		PerformanceLabel: PerformanceLabel(rec.CorrectAnswers),
		Streak:           j.Streak,
		TotalScore:       j.TotalScore,
		QualityRating:    rec.LessonQualityRating,
		KnowledgeGaps:    rec.KnowledgeGaps,
	}, nil
}

// RecalculateRecord 从提交记录重新推导 correctAnswers 与 score
// score = round(correct / 5 * 100)
func RecalculateRecord(rec *model.DayRecord) {
	correct := 0
	for i := range rec.QuizCompletions {
		if rec.QuizCompletions[i].IsCorrect {
			correct++
		}
	}
	rec.CorrectAnswers = correct
	rec.TotalQuestions = model.QuestionsPerDay
	rec.Score = int(math.Round(float64(correct) / float64(model.QuestionsPerDay) * 100))
}
