package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"foresight_edu_backend/internal/config"
	"foresight_edu_backend/internal/model"
	"foresight_edu_backend/internal/repository"
	"foresight_edu_backend/internal/util"
	"foresight_edu_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	otpKeyPrefix      = "auth:otp:"
	otpVerifiedPrefix = "auth:otp_verified:"
	otpTTL            = 10 * time.Minute
)

// Mailer 发送找回密码验证码。没有接入邮件网关时用日志实现兜底。
type Mailer interface {
	SendOTP(email, otp string) error
}

// LogMailer 把验证码写进日志，开发环境使用
type LogMailer struct{}

func (LogMailer) SendOTP(email, otp string) error {
	logger.Log.Info("发送密码重置验证码",
		zap.String("email", email),
		zap.String("otp", otp))
	return nil
}

type AuthService struct {
	UserRepo *repository.UserRepository
	Redis    *redis.Client
	Mailer   Mailer
	Cfg      *config.Config
}

func NewAuthService(userRepo *repository.UserRepository, rdb *redis.Client, mailer Mailer, cfg *config.Config) *AuthService {
	if mailer == nil {
		mailer = LogMailer{}
	}
	return &AuthService{
		UserRepo: userRepo,
		Redis:    rdb,
		Mailer:   mailer,
		Cfg:      cfg,
	}
}

// TokenPair 一次签发的访问令牌与刷新令牌
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

func (s *AuthService) issueTokens(user *model.User) (*TokenPair, error) {
	accessToken, err := util.GenerateAccessToken(user, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
	if err != nil {
		return nil, err
	}
	refreshToken, err := util.GenerateRefreshToken(user, s.Cfg.JWT.RefreshSecret, s.Cfg.JWT.RefreshExpireTime)
	if err != nil {
		return nil, err
	}

	// refresh token 落库，轮换后旧 token 立即失效
	if err := s.UserRepo.UpdateRefreshToken(user.ID, refreshToken); err != nil {
		return nil, err
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// Register 注册新用户并直接登录
func (s *AuthService) Register(user *model.User) (*TokenPair, error) {
	exists, err := s.UserRepo.ExistsByEmail(user.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, util.ErrEmailRegistered
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user.Password = string(hashedPassword)
	user.LastLogin = time.Now()

	if err := s.UserRepo.Create(user); err != nil {
		return nil, err
	}

	return s.issueTokens(user)
}

func (s *AuthService) Login(email, password string) (*model.User, *TokenPair, error) {
	user, err := s.UserRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, util.ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, nil, util.ErrInvalidCredentials
	}

	user.LastLogin = time.Now()
	if err := s.UserRepo.Update(user); err != nil {
		return nil, nil, err
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, nil, err
	}
	return user, tokens, nil
}

// RefreshTokens 校验刷新令牌并轮换出新的令牌对
func (s *AuthService) RefreshTokens(refreshToken string) (*TokenPair, error) {
	claims, err := util.ParseJWT(refreshToken, s.Cfg.JWT.RefreshSecret)
	if err != nil || claims.TokenType != util.TokenTypeRefresh {
		return nil, util.ErrInvalidRefreshToken
	}

	user, err := s.UserRepo.FindByID(claims.UserID)
	if err != nil {
		return nil, util.ErrInvalidRefreshToken
	}
	// 必须与库里登记的当前 token 一致，被轮换过的旧 token 拒绝
	if user.RefreshToken == "" || user.RefreshToken != refreshToken {
		return nil, util.ErrInvalidRefreshToken
	}

	return s.issueTokens(user)
}

// Logout 注销当前刷新令牌
func (s *AuthService) Logout(userID uint) error {
	return s.UserRepo.UpdateRefreshToken(userID, "")
}

// ForgotPassword 生成 6 位验证码存入 Redis 并发送。
// 邮箱不存在时静默成功，避免探测注册用户。
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	_, err := s.UserRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	otp, err := generateOTP()
	if err != nil {
		return err
	}

	if err := s.Redis.Set(ctx, otpKeyPrefix+email, otp, otpTTL).Err(); err != nil {
		return err
	}

	return s.Mailer.SendOTP(email, otp)
}

// VerifyOTP 校验验证码，通过后颁发一次性的重置资格
func (s *AuthService) VerifyOTP(ctx context.Context, email, otp string) error {
	stored, err := s.Redis.Get(ctx, otpKeyPrefix+email).Result()
	if err == redis.Nil {
		return util.ErrInvalidOTP
	}
	if err != nil {
		return err
	}
	if stored != otp {
		return util.ErrInvalidOTP
	}

	// 验证码一次性消费，重置资格同样限时
	pipe := s.Redis.TxPipeline()
	pipe.Del(ctx, otpKeyPrefix+email)
	pipe.Set(ctx, otpVerifiedPrefix+email, "1", otpTTL)
	_, err = pipe.Exec(ctx)
	return err
}

// ResetPassword 在验证码校验通过后重设密码，并使所有已签发的刷新令牌失效
func (s *AuthService) ResetPassword(ctx context.Context, email, newPassword string) error {
	verified, err := s.Redis.Get(ctx, otpVerifiedPrefix+email).Result()
	if err != nil && err != redis.Nil {
		return err
	}
	if err == redis.Nil || verified != "1" {
		return util.ErrInvalidOTP
	}

	user, err := s.UserRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrUserNotFound
		}
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.UserRepo.UpdatePassword(user.ID, string(hashed)); err != nil {
		return err
	}
	if err := s.UserRepo.UpdateRefreshToken(user.ID, ""); err != nil {
		return err
	}

	return s.Redis.Del(ctx, otpVerifiedPrefix+email).Err()
}

func (s *AuthService) GetCurrentUser(c *gin.Context) *model.User {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		return nil
	}

	user, _ := s.UserRepo.FindByID(claims.UserID)
	return user
}

func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
