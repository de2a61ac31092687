package progression

import (
	"time"

	"foresight_edu_backend/internal/model"
)

// 连续天数以「完成课程」为准：与最近一条已完成 DayRecord 的
// completedAt 比较。取课闸门的 lastLessonDate 只用于缓存失效，
// 两条规则互不混用。

// ApplyStreakUpdate 在完成第 completedDay 天时更新 journey 的连续天数：
//
//	此前从未完成过任何一天        → 1
//	与上次完成相隔 0 天（同日补课） → 不变
//	相隔恰好 1 天                → +1
//	相隔超过 1 天                → 重置为 1，当天开启新的连续段
//
// 返回更新后的值
func ApplyStreakUpdate(j *model.LearningJourney, completedDay int, now time.Time) int {
	last := lastCompletionBefore(j, completedDay)
	if last.IsZero() {
		j.Streak = 1
		return j.Streak
	}

	switch gap := DaysElapsed(now, last); {
	case gap == 1:
		j.Streak++
	case gap > 1:
		j.Streak = 1
	default:
		// 同一天内完成多于一天的课（补课场景），不改变连续天数，
		// 但取课闸门可能已把它清零，完成动作至少要落在 1
		if j.Streak == 0 {
			j.Streak = 1
		}
	}
	return j.Streak
}

// lastCompletionBefore 返回除 day 之外最近一次完成的时间，
// 没有则返回零值
func lastCompletionBefore(j *model.LearningJourney, day int) time.Time {
	for i := len(j.CompletedDays) - 1; i >= 0; i-- {
		r := &j.CompletedDays[i]
		if r.Day == day || r.CompletedAt.IsZero() {
			continue
		}
		return r.CompletedAt
	}
	return time.Time{}
}
