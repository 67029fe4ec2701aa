package controller

import (
	"quizhub_backend/internal/service"
	"quizhub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AnalyticsController struct {
	Service *service.AnalyticsService
}

func NewAnalyticsController(svc *service.AnalyticsService) *AnalyticsController {
	return &AnalyticsController{Service: svc}
}

// @Summary 教师端：测验统计（均分、通过率、逐题正确率与高频错误答案）
// @Tags 统计
// @Produce json
// @Security BearerAuth
// @Param id path string true "测验ID"
// @Success 200 {object} util.Response
// @Router /api/teacher/quizzes/{id}/analytics [get]
func (c *AnalyticsController) GetQuizAnalytics(ctx *gin.Context) {
	analytics, err := c.Service.GetQuizAnalytics(ctx.Param("id"))
	if err != nil {
		handleDomainError(ctx, err)
		return
	}

	util.Success(ctx, analytics)
}
