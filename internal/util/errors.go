package util

import "errors"

var (
	ErrUserNotFound        = errors.New("用户不存在")
	ErrEmailRegistered     = errors.New("该邮箱已被注册")
	ErrInvalidCredentials  = errors.New("邮箱或密码错误")
	ErrInvalidRefreshToken = errors.New("refresh token 无效或已过期")
	ErrInvalidOTP          = errors.New("验证码无效或已过期")
	ErrOldPasswordWrong    = errors.New("原密码错误")
	ErrJourneyNotFound     = errors.New("学习旅程不存在，请先生成学习计划")
	ErrNoActiveCourse      = errors.New("当前没有进行中的课程")
	ErrCourseCompleted     = errors.New("课程已全部完成")
)
