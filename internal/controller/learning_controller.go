package controller

import (
	"errors"
	"strconv"

	"foresight_edu_backend/internal/progression"
	"foresight_edu_backend/internal/service"
	"foresight_edu_backend/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type LearningController struct {
	LearningService *service.LearningService
}

func NewLearningController(learningService *service.LearningService) *LearningController {
	return &LearningController{LearningService: learningService}
}

// 进度引擎的工作流错误统一映射
func respondLearningError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, progression.ErrInvalidRating):
		util.BadRequest(ctx, "课程评分必须在 1 到 5 之间")
	case errors.Is(err, progression.ErrQuizIndexOutOfRange):
		util.BadRequest(ctx, "题目下标超出范围")
	case errors.Is(err, progression.ErrInvalidSelection):
		util.BadRequest(ctx, "提交的答案不是有效选项")
	case errors.Is(err, progression.ErrLessonNotStarted):
		util.Error(ctx, 409, "请先开始今天的课程")
	case errors.Is(err, progression.ErrDuplicateSubmission):
		util.Error(ctx, 409, "该题已提交过答案")
	case errors.Is(err, progression.ErrIncompleteQuizzes):
		util.Error(ctx, 409, "完成课程前需要答完全部 5 道题")
	case errors.Is(err, util.ErrNoActiveCourse):
		util.Error(ctx, 409, "请先生成学习计划")
	case errors.Is(err, util.ErrCourseCompleted):
		util.Error(ctx, 409, "课程已全部完成")
	case errors.Is(err, progression.ErrNoCurrentLesson):
		util.Error(ctx, 409, "请先获取今天的课程")
	case errors.Is(err, util.ErrJourneyNotFound):
		util.Error(ctx, 404, "学习旅程不存在，请先获取学习计划")
	case errors.Is(err, gorm.ErrRecordNotFound):
		util.NotFound(ctx)
	default:
		util.LogInternalError(ctx, err)
	}
}

// CalibrateRequest 自评水平请求
type CalibrateRequest struct {
	SkillLevel   string `json:"skillLevel" binding:"omitempty,oneof=beginner practitioner proficient expert"`
	DesiredLevel string `json:"desiredLevel" binding:"omitempty,oneof=improve_little very_good become_excellent"`
}

// CalibrateProficiency godoc
// @Summary 校准自评水平
// @Description 记录用户自评水平与目标水平，驱动后续学习计划生成
// @Tags 学习
// @Security ApiKeyAuth
// @Accept  json
// @Produce  json
// @Param   body body CalibrateRequest true "自评水平"
// @Success 200 {object} util.Response{data=object} "成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 401 {object} util.Response "未授权"
// @Router /api/learning/calibrate-proficiency [post]
func (c *LearningController) CalibrateProficiency(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req CalibrateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, err := c.LearningService.CalibrateProficiency(claims.UserID, req.SkillLevel, req.DesiredLevel)
	if err != nil {
		respondLearningError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{
		"skillLevel":   user.Profile.SkillLevel,
		"desiredLevel": user.Profile.DesiredLevel,
	})
}

// GetLearningPlan godoc
// @Summary 获取学习计划
// @Description 返回当前计划，没有时按用户画像即时生成
// @Tags 学习
// @Security ApiKeyAuth
// @Produce  json
// @Success 200 {object} util.Response{data=service.PlanView} "成功"
// @Failure 401 {object} util.Response "未授权"
// @Router /api/learning/learning-plan [get]
func (c *LearningController) GetLearningPlan(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	plan, err := c.LearningService.GetLearningPlan(ctx.Request.Context(), claims.UserID)
	if err != nil {
		respondLearningError(ctx, err)
		return
	}
	util.Success(ctx, plan)
}

// UpdatePlanRequest 重新生成计划请求
type UpdatePlanRequest struct {
	FocusArea string `json:"focusArea"`
	Duration  int    `json:"duration" binding:"omitempty,min=1,max=365"`
}

// UpdateLearningPlan godoc
// @Summary 更新学习计划
// @Description 按新方向重新生成计划，清空当前全部进度
// @Tags 学习
// @Security ApiKeyAuth
// @Accept  json
// @Produce  json
// @Param   body body UpdatePlanRequest true "新的方向与时长"
// @Success 200 {object} util.Response{data=service.PlanView} "成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 401 {object} util.Response "未授权"
// @Router /api/learning/update-learning-plan [patch]
func (c *LearningController) UpdateLearningPlan(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req UpdatePlanRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	plan, err := c.LearningService.UpdateLearningPlan(ctx.Request.Context(), claims.UserID, req.FocusArea, req.Duration)
	if err != nil {
		respondLearningError(ctx, err)
		return
	}
	util.Success(ctx, plan)
}

// GetTodaysLesson godoc
// @Summary 获取今日课程
// @Description 跨天时生成新课程，否则返回缓存课程；课程天数走完时返回完成标记
// @Tags 学习
// @Security ApiKeyAuth
// @Produce  json
// @Success 200 {object} util.Response{data=service.LessonView} "成功"
// @Failure 401 {object} util.Response "未授权"
// @Failure 409 {object} util.Response "还没有学习计划"
// @Router /api/learning/todays-lesson [get]
func (c *LearningController) GetTodaysLesson(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	view, err := c.LearningService.GetTodaysLesson(ctx.Request.Context(), claims.UserID)
	if err != nil {
		respondLearningError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// StartLessonRequest 开始课程请求
type StartLessonRequest struct {
	Rating int `json:"rating" binding:"required"`
}

// StartLesson godoc
// @Summary 开始今日课程
// @Description 记录课程质量评分并建立当天的学习记录，同一天重复调用只更新评分
// @Tags 学习
// @Security ApiKeyAuth
// @Accept  json
// @Produce  json
// @Param   body body StartLessonRequest true "课程质量评分 1-5"
// @Success 200 {object} util.Response{data=model.DayRecord} "成功"
// @Failure 400 {object} util.Response "评分超出范围"
// @Failure 401 {object} util.Response "未授权"
// @Router /api/learning/start-lesson [post]
func (c *LearningController) StartLesson(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req StartLessonRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	record, err := c.LearningService.StartLesson(claims.UserID, req.Rating)
	if err != nil {
		respondLearningError(ctx, err)
		return
	}
	util.Success(ctx, record)
}

// SubmitQuizRequest 提交答案请求
type SubmitQuizRequest struct {
	QuizIndex *int   `json:"quizIndex" binding:"required"`
	Selected  string `json:"selected" binding:"required"`
}

// SubmitQuiz godoc
// @Summary 提交测验答案
// @Description 提交当天一道题的答案，同一下标至多提交一次
// @Tags 学习
// @Security ApiKeyAuth
// @Accept  json
// @Produce  json
// @Param   body body SubmitQuizRequest true "题目下标与所选答案"
// @Success 200 {object} util.Response{data=model.QuizCompletion} "成功"
// @Failure 400 {object} util.Response "答案无效"
// @Failure 401 {object} util.Response "未授权"
// @Failure 409 {object} util.Response "重复提交"
// @Router /api/learning/submit-quiz [post]
func (c *LearningController) SubmitQuiz(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req SubmitQuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	completion, err := c.LearningService.SubmitQuiz(claims.UserID, *req.QuizIndex, req.Selected)
	if err != nil {
		respondLearningError(ctx, err)
		return
	}
	util.Success(ctx, completion)
}

// CompleteLesson godoc
// @Summary 完成今日课程
// @Description 结算当天课程，推进到下一天并更新连续天数与总分
// @Tags 学习
// @Security ApiKeyAuth
// @Produce  json
// @Success 200 {object} util.Response{data=progression.CompletionSummary} "成功"
// @Failure 401 {object} util.Response "未授权"
// @Failure 409 {object} util.Response "尚未答完全部题目"
// @Router /api/learning/complete-lesson [post]
func (c *LearningController) CompleteLesson(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	summary, err := c.LearningService.CompleteLesson(ctx.Request.Context(), claims.UserID)
	if err != nil {
		respondLearningError(ctx, err)
		return
	}
	util.Success(ctx, summary)
}

// GetProgress godoc
// @Summary 获取学习进度
// @Description 返回当前天数、完成天数、连续天数与知识缺口
// @Tags 学习
// @Security ApiKeyAuth
// @Produce  json
// @Success 200 {object} util.Response{data=service.ProgressView} "成功"
// @Failure 401 {object} util.Response "未授权"
// @Router /api/learning/progress [get]
func (c *LearningController) GetProgress(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	progressView, err := c.LearningService.GetProgress(claims.UserID)
	if err != nil {
		respondLearningError(ctx, err)
		return
	}
	util.Success(ctx, progressView)
}

// GetDashboard godoc
// @Summary 获取学习仪表盘
// @Description 返回平均分、评分、趋势、预估水平与下节课时间
// @Tags 学习
// @Security ApiKeyAuth
// @Produce  json
// @Success 200 {object} util.Response{data=service.DashboardResponse} "成功"
// @Failure 401 {object} util.Response "未授权"
// @Router /api/learning/dashboard [get]
func (c *LearningController) GetDashboard(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	dashboard, err := c.LearningService.GetDashboard(ctx.Request.Context(), claims.UserID)
	if err != nil {
		respondLearningError(ctx, err)
		return
	}
	util.Success(ctx, dashboard)
}

// GetLessonHistory godoc
// @Summary 获取课程归档列表
// @Description 返回最近生成的课程归档，按天数倒序
// @Tags 学习
// @Security ApiKeyAuth
// @Produce  json
// @Param   limit query int false "返回条数，默认 30，上限 90"
// @Success 200 {object} util.Response{data=[]model.LessonArchive} "成功"
// @Failure 401 {object} util.Response "未授权"
// @Router /api/learning/lesson-history [get]
func (c *LearningController) GetLessonHistory(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "30"))
	archives, err := c.LearningService.LessonHistory(claims.UserID, limit)
	if err != nil {
		respondLearningError(ctx, err)
		return
	}
	util.Success(ctx, archives)
}

// GetArchivedLesson godoc
// @Summary 回看指定一天的课程
// @Description 返回该天归档的课程内容，同一天多次生成时取最新一份
// @Tags 学习
// @Security ApiKeyAuth
// @Produce  json
// @Param   day path int true "课程天数"
// @Success 200 {object} util.Response{data=model.LessonArchive} "成功"
// @Failure 401 {object} util.Response "未授权"
// @Failure 404 {object} util.Response "该天没有归档课程"
// @Router /api/learning/lesson-history/{day} [get]
func (c *LearningController) GetArchivedLesson(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	day, err := strconv.Atoi(ctx.Param("day"))
	if err != nil || day < 1 {
		util.BadRequest(ctx, "天数必须是正整数")
		return
	}

	archive, err := c.LearningService.ArchivedLesson(claims.UserID, day)
	if err != nil {
		respondLearningError(ctx, err)
		return
	}
	util.Success(ctx, archive)
}
