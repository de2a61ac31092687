package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"foresight_edu_backend/internal/model"
	"foresight_edu_backend/internal/progression"
	"foresight_edu_backend/internal/repository"
	"foresight_edu_backend/internal/util"
	"foresight_edu_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	dashboardKeyPrefix = "learning:dashboard:"
	dashboardCacheTTL  = 5 * time.Minute
)

// LearningService 学习进度编排层。
// 进度规则全部在 internal/progression 里以纯函数实现，
// 这里负责加载聚合、调用生成器、落库与缓存。
type LearningService struct {
	UserRepo       *repository.UserRepository
	JourneyRepo    *repository.JourneyRepository
	LessonRepo     *repository.LessonRepository
	MotivationRepo *repository.MotivationRepository
	Generator      Generator
	Redis          *redis.Client

	// 同一用户的读改写串行化，防止并发提交绕过查重
	userLocks sync.Map
}

func NewLearningService(
	userRepo *repository.UserRepository,
	journeyRepo *repository.JourneyRepository,
	lessonRepo *repository.LessonRepository,
	motivationRepo *repository.MotivationRepository,
	generator Generator,
	rdb *redis.Client,
) *LearningService {
	return &LearningService{
		UserRepo:       userRepo,
		JourneyRepo:    journeyRepo,
		LessonRepo:     lessonRepo,
		MotivationRepo: motivationRepo,
		Generator:      generator,
		Redis:          rdb,
	}
}

func (s *LearningService) lockUser(userID uint) func() {
	v, _ := s.userLocks.LoadOrStore(userID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// loadJourney 加载用户旅程，不存在时按默认值创建
func (s *LearningService) loadJourney(userID uint) (*model.LearningJourney, error) {
	journey, err := s.JourneyRepo.FindByUserID(userID)
	if err == nil {
		return journey, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	journey = &model.LearningJourney{
		UserID:     userID,
		CurrentDay: 1,
		TotalDays:  90,
	}
	if err := s.JourneyRepo.Create(journey); err != nil {
		return nil, err
	}
	return journey, nil
}

// requireJourney 与 loadJourney 不同，旅程不存在时直接报错：
// 评分与答题必须发生在已经取过课的旅程上
func (s *LearningService) requireJourney(userID uint) (*model.LearningJourney, error) {
	journey, err := s.JourneyRepo.FindByUserID(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrJourneyNotFound
	}
	return journey, err
}

// CalibrateProficiency 记录自评水平与目标水平，驱动后续计划生成
func (s *LearningService) CalibrateProficiency(userID uint, skillLevel, desiredLevel string) (*model.User, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}

	if skillLevel == "" {
		skillLevel = model.SkillBeginner
	}
	if desiredLevel == "" {
		desiredLevel = model.DesiredImproveLittle
	}
	user.Profile.SkillLevel = skillLevel
	user.Profile.DesiredLevel = desiredLevel

	if err := s.UserRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// PlanView 学习计划的对外投影
type PlanView struct {
	CourseTitle string   `json:"courseTitle"`
	FocusArea   string   `json:"focusArea"`
	Modules     []string `json:"modules"`
	Duration    int      `json:"duration"`
	Fallback    bool     `json:"fallback"`
}

func planView(course *model.Course, fallback bool) *PlanView {
	modules := make([]string, 0, len(course.LearningObjectives))
	for i, obj := range course.LearningObjectives {
		modules = append(modules, fmt.Sprintf("%d. %s", i+1, obj))
	}
	return &PlanView{
		CourseTitle: course.Title,
		FocusArea:   course.FocusArea,
		Modules:     modules,
		Duration:    course.Duration,
		Fallback:    fallback,
	}
}

// GetLearningPlan 返回当前计划，没有时按用户画像懒生成
func (s *LearningService) GetLearningPlan(ctx context.Context, userID uint) (*PlanView, error) {
	unlock := s.lockUser(userID)
	defer unlock()

	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}
	journey, err := s.loadJourney(userID)
	if err != nil {
		return nil, err
	}

	if journey.Course != nil {
		return planView(journey.Course, false), nil
	}

	course, fallback := s.Generator.GeneratePlan(ctx, user.Profile, "", 0)
	journey.Course = course
	journey.TotalDays = course.Duration
	if err := s.JourneyRepo.Save(journey); err != nil {
		return nil, err
	}

	return planView(course, fallback), nil
}

// UpdateLearningPlan 按新方向重新生成计划并清空全部进度
func (s *LearningService) UpdateLearningPlan(ctx context.Context, userID uint, focusArea string, duration int) (*PlanView, error) {
	unlock := s.lockUser(userID)
	defer unlock()

	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}
	journey, err := s.loadJourney(userID)
	if err != nil {
		return nil, err
	}

	course, fallback := s.Generator.GeneratePlan(ctx, user.Profile, focusArea, duration)
	journey.ResetForNewCourse(course)

	if err := s.JourneyRepo.ResetProgress(journey); err != nil {
		return nil, err
	}
	s.invalidateDashboard(ctx, userID)

	logger.Log.Info("学习计划已重新生成",
		zap.Uint("userID", userID),
		zap.String("focusArea", course.FocusArea),
		zap.Int("duration", course.Duration))

	return planView(course, fallback), nil
}

// LessonView 取课结果
type LessonView struct {
	Lesson          *model.LessonPayload  `json:"lesson,omitempty"`
	CourseCompleted bool                  `json:"courseCompleted"`
	Streak          int                   `json:"streak"`
	Motivation      string                `json:"motivation,omitempty"`
	NextLessonTime  progression.NextLesson `json:"nextLessonTime"`
}

// GetTodaysLesson 按日期闸门返回缓存课程或生成新课程
func (s *LearningService) GetTodaysLesson(ctx context.Context, userID uint) (*LessonView, error) {
	unlock := s.lockUser(userID)
	defer unlock()

	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}
	journey, err := s.loadJourney(userID)
	if err != nil {
		return nil, err
	}
	if journey.Course == nil {
		return nil, util.ErrNoActiveCourse
	}

	now := time.Now()
	view := &LessonView{NextLessonTime: progression.NextLessonTime(now)}

	switch progression.ApplyDayGate(journey, now) {
	case progression.GateCourseCompleted:
		// 闸门可能清零了 streak，落库后宣告完成
		if err := s.JourneyRepo.Save(journey); err != nil {
			return nil, err
		}
		view.CourseCompleted = true
		view.Streak = journey.Streak
		return view, nil

	case progression.GateUseCached:
		view.Lesson = journey.CurrentLesson
		view.Streak = journey.Streak
		view.Motivation = s.motivationQuote()
		return view, nil
	}

	// GateGenerate：请求新课程。生成器保证失败时返回降级内容。
	lesson, fallback := s.Generator.GenerateLesson(ctx, LessonConfig{
		Profile:      user.Profile,
		LearningPace: user.Preferences.LearningPace,
		Language:     user.Preferences.Language,
		CurrentDay:   journey.CurrentDay,
		TotalDays:    journey.TotalDays,
		PreviousDays: len(journey.CompletedDays),
		FocusArea:    journey.Course.FocusArea,
	})

	journey.CurrentLesson = lesson
	journey.LastLessonDate = now
	if err := s.JourneyRepo.Save(journey); err != nil {
		return nil, err
	}

	// 归档失败不影响取课
	if err := s.LessonRepo.Archive(&model.LessonArchive{
		UserID:   userID,
		Day:      lesson.Day,
		Language: lesson.Language,
		Fallback: fallback,
		Payload:  *lesson,
	}); err != nil {
		logger.Log.Warn("课程归档失败", zap.Uint("userID", userID), zap.Error(err))
	}

	view.Lesson = lesson
	view.Streak = journey.Streak
	view.Motivation = s.motivationQuote()
	return view, nil
}

// StartLesson 记录课程质量评分，同一天幂等
func (s *LearningService) StartLesson(userID uint, rating int) (*model.DayRecord, error) {
	unlock := s.lockUser(userID)
	defer unlock()

	journey, err := s.requireJourney(userID)
	if err != nil {
		return nil, err
	}
	if journey.CurrentDay > journey.TotalDays {
		return nil, util.ErrCourseCompleted
	}

	record, err := progression.StartLesson(journey, rating, time.Now())
	if err != nil {
		return nil, err
	}
	if err := s.JourneyRepo.Save(journey); err != nil {
		return nil, err
	}
	return record, nil
}

// SubmitQuiz 提交当天一道题，查重与追加在用户锁内原子执行
func (s *LearningService) SubmitQuiz(userID uint, quizIndex int, selected string) (*model.QuizCompletion, error) {
	unlock := s.lockUser(userID)
	defer unlock()

	journey, err := s.requireJourney(userID)
	if err != nil {
		return nil, err
	}
	if journey.CurrentDay > journey.TotalDays {
		return nil, util.ErrCourseCompleted
	}
	if journey.CurrentLesson == nil || journey.CurrentLesson.Day != journey.CurrentDay {
		return nil, progression.ErrNoCurrentLesson
	}

	completion, err := progression.SubmitQuiz(journey, quizIndex, selected, journey.CurrentLesson.MCQs, time.Now())
	if err != nil {
		return nil, err
	}
	if err := s.JourneyRepo.Save(journey); err != nil {
		return nil, err
	}
	return completion, nil
}

// CompleteLesson 结算当天课程并推进进度
func (s *LearningService) CompleteLesson(ctx context.Context, userID uint) (*progression.CompletionSummary, error) {
	unlock := s.lockUser(userID)
	defer unlock()

	journey, err := s.requireJourney(userID)
	if err != nil {
		return nil, err
	}
	if journey.CurrentDay > journey.TotalDays {
		return nil, util.ErrCourseCompleted
	}

	summary, err := progression.CompleteLesson(journey, time.Now())
	if err != nil {
		return nil, err
	}
	if err := s.JourneyRepo.Save(journey); err != nil {
		return nil, err
	}
	s.invalidateDashboard(ctx, userID)

	logger.Log.Info("完成当天课程",
		zap.Uint("userID", userID),
		zap.Int("day", journey.CurrentDay-1),
		zap.Int("score", summary.Percentage),
		zap.Int("streak", summary.Streak))

	return summary, nil
}

// LessonHistory 返回最近归档的课程，按天数倒序
func (s *LearningService) LessonHistory(userID uint, limit int) ([]model.LessonArchive, error) {
	if limit <= 0 || limit > 90 {
		limit = 30
	}
	return s.LessonRepo.ListByUser(userID, limit)
}

// ArchivedLesson 回看指定一天生成的课程内容，
// 同一天多次生成时取最新一份
func (s *LearningService) ArchivedLesson(userID uint, day int) (*model.LessonArchive, error) {
	return s.LessonRepo.FindByUserAndDay(userID, day)
}

// ProgressView 学习进度概览
type ProgressView struct {
	CurrentDay    int      `json:"currentDay"`
	TotalDays     int      `json:"totalDays"`
	CompletedDays int      `json:"completedDays"`
	Streak        int      `json:"streak"`
	TotalScore    int      `json:"totalScore"`
	CourseTitle   string   `json:"courseTitle,omitempty"`
	FocusArea     string   `json:"focusArea,omitempty"`
	KnowledgeGaps []string `json:"knowledgeGaps"`
}

func (s *LearningService) GetProgress(userID uint) (*ProgressView, error) {
	journey, err := s.loadJourney(userID)
	if err != nil {
		return nil, err
	}

	view := &ProgressView{
		CurrentDay:    journey.CurrentDay,
		TotalDays:     journey.TotalDays,
		Streak:        journey.Streak,
		TotalScore:    journey.TotalScore,
		KnowledgeGaps: progression.IdentifyGaps(journey.CompletedDays),
	}
	for _, rec := range journey.CompletedDays {
		if !rec.CompletedAt.IsZero() {
			view.CompletedDays++
		}
	}
	if journey.Course != nil {
		view.CourseTitle = journey.Course.Title
		view.FocusArea = journey.Course.FocusArea
	}
	return view, nil
}

// DashboardResponse 仪表盘响应，含激励短句
type DashboardResponse struct {
	progression.DashboardView
	Motivation string `json:"motivation,omitempty"`
}

// GetDashboard 构建仪表盘，结果短暂缓存在 Redis
func (s *LearningService) GetDashboard(ctx context.Context, userID uint) (*DashboardResponse, error) {
	cacheKey := fmt.Sprintf("%s%d", dashboardKeyPrefix, userID)

	if cached, err := s.Redis.Get(ctx, cacheKey).Result(); err == nil {
		var resp DashboardResponse
		if err := json.Unmarshal([]byte(cached), &resp); err == nil {
			return &resp, nil
		}
	}

	journey, err := s.loadJourney(userID)
	if err != nil {
		return nil, err
	}

	resp := &DashboardResponse{
		DashboardView: progression.BuildDashboard(journey, time.Now()),
		Motivation:    s.motivationQuote(),
	}

	if data, err := json.Marshal(resp); err == nil {
		if err := s.Redis.Set(ctx, cacheKey, data, dashboardCacheTTL).Err(); err != nil {
			logger.Log.Warn("仪表盘缓存写入失败", zap.Error(err))
		}
	}

	return resp, nil
}

func (s *LearningService) invalidateDashboard(ctx context.Context, userID uint) {
	key := fmt.Sprintf("%s%d", dashboardKeyPrefix, userID)
	if err := s.Redis.Del(ctx, key).Err(); err != nil {
		logger.Log.Warn("仪表盘缓存失效失败", zap.Uint("userID", userID), zap.Error(err))
	}
}

func (s *LearningService) motivationQuote() string {
	motivation, err := s.MotivationRepo.Random()
	if err != nil || motivation == nil {
		return ""
	}
	return motivation.Content
}
