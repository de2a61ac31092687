package service

import (
	"context"
	"fmt"
	"time"

	"foresight_edu_backend/internal/repository"
	"foresight_edu_backend/pkg/logger"

	"go.uber.org/zap"
)

// ReminderService 每分钟扫描一次到点且今天还没学习的用户并发送提醒。
// 目前的投递实现是日志，接入推送渠道时替换 notify。
type ReminderService struct {
	UserRepo *repository.UserRepository
}

func NewReminderService(userRepo *repository.UserRepository) *ReminderService {
	return &ReminderService{UserRepo: userRepo}
}

// Run 阻塞运行直到 ctx 取消，由 app 在后台 goroutine 里启动
func (s *ReminderService) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Log.Info("学习提醒扫描已停止")
			return
		case now := <-ticker.C:
			s.scan(now)
		}
	}
}

func (s *ReminderService) scan(now time.Time) {
	notificationTime := fmt.Sprintf("%02d:%02d", now.Hour(), now.Minute())
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	users, err := s.UserRepo.FindWithReminderDue(notificationTime, dayStart)
	if err != nil {
		logger.Log.Error("学习提醒扫描失败", zap.Error(err))
		return
	}

	for _, user := range users {
		s.notify(user.Email, user.Preferences.Language)
	}
	if len(users) > 0 {
		logger.Log.Info("发送学习提醒",
			zap.String("time", notificationTime),
			zap.Int("count", len(users)))
	}
}

func (s *ReminderService) notify(email, language string) {
	message := "Your daily lesson is waiting for you!"
	if language == "fr" {
		message = "Votre leçon quotidienne vous attend !"
	}
	logger.Log.Info("学习提醒",
		zap.String("email", email),
		zap.String("message", message))
}
