// Package progression 实现学习进度引擎：日期闸门、连续天数、
// 每日课程会话的状态机、测验校验、知识缺口分析与仪表盘投影。
//
// 所有函数都是显式传入 now 的确定性函数，不做任何 I/O；
// 聚合的加载与持久化由 service / repository 层负责。
package progression

import (
	"math"
	"time"
)

// 日界 = 本地午夜，两个时间戳都截断到日期后比较

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// HasCrossedDay 判断 now 相对 lastLessonDate 是否已进入新的一天
// lastLessonDate 为零值（从未取过课）时恒为 true
func HasCrossedDay(now, lastLessonDate time.Time) bool {
	if lastLessonDate.IsZero() {
		return true
	}
	return truncateToDay(now).After(truncateToDay(lastLessonDate))
}

// DaysElapsed 两个时间戳之间相隔的整日历天数
// 用四舍五入吸收夏令时造成的 23/25 小时天
func DaysElapsed(now, last time.Time) int {
	if last.IsZero() {
		return 0
	}
	diff := truncateToDay(now).Sub(truncateToDay(last))
	return int(math.Round(diff.Hours() / 24))
}

// NextLesson 距下一课（下一个本地午夜）的倒计时
type NextLesson struct {
	Hours         int       `json:"hours"`
	Minutes       int       `json:"minutes"`
	NextAvailable time.Time `json:"nextAvailable"`
}

// NextLessonTime 计算距下一个本地午夜的剩余时长
func NextLessonTime(now time.Time) NextLesson {
	tomorrow := truncateToDay(now).AddDate(0, 0, 1)
	remaining := tomorrow.Sub(now)
	return NextLesson{
		Hours:         int(remaining.Hours()),
		Minutes:       int(remaining.Minutes()) % 60,
		NextAvailable: tomorrow,
	}
}
