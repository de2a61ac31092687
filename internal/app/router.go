package app

import (
	"foresight_edu_backend/docs"
	"foresight_edu_backend/internal/config"
	"foresight_edu_backend/internal/middleware"
	"foresight_edu_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(router, c)

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		a.registerUserRoutes(authGroup, c)
		a.registerLearningRoutes(authGroup, c)
	}
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)

		auth := public.Group("/auth")
		{
			auth.POST("/register", c.auth.Register)
			auth.POST("/login", c.auth.Login)
			auth.POST("/refresh-token", c.auth.RefreshToken)
			auth.POST("/forgot-password", c.auth.ForgotPassword)
			auth.POST("/verify-otp", c.auth.VerifyOTP)
			auth.POST("/reset-password", c.auth.ResetPassword)
		}
	}
}

func (a *App) registerUserRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.POST("/auth/logout", c.auth.Logout)

	user := rg.Group("/user")
	{
		user.GET("/me", c.user.Me)
		user.PUT("/profile", c.user.UpdateProfile)
		user.PUT("/preferences", c.user.UpdatePreferences)
		user.POST("/change-password", c.user.ChangePassword)
		user.POST("/avatar", c.user.UploadAvatar)
	}
}

func (a *App) registerLearningRoutes(rg *gin.RouterGroup, c *controllers) {
	learning := rg.Group("/learning")
	{
		learning.POST("/calibrate-proficiency", c.learning.CalibrateProficiency)
		learning.GET("/learning-plan", c.learning.GetLearningPlan)
		learning.PATCH("/update-learning-plan", c.learning.UpdateLearningPlan)
		learning.GET("/todays-lesson", c.learning.GetTodaysLesson)
		learning.POST("/start-lesson", c.learning.StartLesson)
		learning.POST("/submit-quiz", c.learning.SubmitQuiz)
		learning.POST("/complete-lesson", c.learning.CompleteLesson)
		learning.GET("/progress", c.learning.GetProgress)
		learning.GET("/dashboard", c.learning.GetDashboard)
		learning.GET("/lesson-history", c.learning.GetLessonHistory)
		learning.GET("/lesson-history/:day", c.learning.GetArchivedLesson)
	}
}
