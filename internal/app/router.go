package app

import (
	"quizhub_backend/docs"
	"quizhub_backend/internal/config"
	"quizhub_backend/internal/middleware"
	"quizhub_backend/internal/model"
	"quizhub_backend/pkg/monitoring"

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
		// 学生/通用 授权接口
		a.registerStudentRoutes(authGroup, c)

		// 教师相关接口
		a.registerTeacherRoutes(authGroup, c)
	}
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}
}

func (a *App) registerStudentRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/profile", c.auth.GetProfile)

	// 测验与答题
	rg.GET("/quizzes", c.quiz.ListPublishedQuizzes)
	rg.POST("/quizzes/:quizId/attempts", c.attempt.StartAttempt)
	rg.GET("/quizzes/:quizId/attempts", c.attempt.ListMyAttempts)

	rg.GET("/attempts/:id", c.attempt.GetAttempt)
	rg.POST("/attempts/:id/answers", c.attempt.SubmitAnswer)
	rg.POST("/attempts/:id/complete", c.attempt.CompleteAttempt)
	rg.GET("/attempts/:id/result", c.attempt.GetResult)
}

func (a *App) registerTeacherRoutes(rg *gin.RouterGroup, c *controllers) {
	teacher := rg.Group("/teacher")
	teacher.Use(middleware.RoleMiddleware(model.Teacher, model.Admin))
	{
		// 测验管理
		teacher.POST("/quizzes", c.quiz.CreateQuiz)
		teacher.GET("/quizzes", c.quiz.ListQuizzes)
		teacher.GET("/quizzes/:id", c.quiz.GetQuiz)
		teacher.PUT("/quizzes/:id", c.quiz.UpdateQuiz)
		teacher.DELETE("/quizzes/:id", c.quiz.DeleteQuiz)

		// 题目管理
		teacher.POST("/quizzes/:id/questions", c.quiz.AddQuestion)
		teacher.DELETE("/quizzes/:id/questions/:questionId", c.quiz.RemoveQuestion)
		teacher.POST("/quizzes/:id/questions/reorder", c.quiz.ReorderQuestions)

		// 答题记录与统计
		teacher.GET("/quizzes/:id/attempts", c.attempt.ListQuizAttempts)
		teacher.GET("/quizzes/:id/analytics", c.analytics.GetQuizAnalytics)
	}
}
