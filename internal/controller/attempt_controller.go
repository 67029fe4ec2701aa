package controller

import (
	"quizhub_backend/internal/service"
	"quizhub_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type AttemptController struct {
	Service *service.AttemptService
}

func NewAttemptController(svc *service.AttemptService) *AttemptController {
	return &AttemptController{Service: svc}
}

// @Summary 开始答题
// @Tags 答题
// @Produce json
// @Security BearerAuth
// @Param quizId path string true "测验ID"
// @Success 201 {object} util.Response
// @Router /api/quizzes/{quizId}/attempts [post]
func (c *AttemptController) StartAttempt(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	attempt, err := c.Service.Start(user.UserID, ctx.Param("quizId"))
	if err != nil {
		handleDomainError(ctx, err)
		return
	}

	util.Created(ctx, attempt)
}

type SubmitAnswerRequest struct {
	QuestionID string   `json:"questionId" binding:"required"`
	Value      []string `json:"value" binding:"required"`
}

// @Summary 提交单题作答（可覆盖已提交的作答）
// @Tags 答题
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "答题记录ID"
// @Param body body SubmitAnswerRequest true "作答内容"
// @Success 200 {object} util.Response
// @Router /api/attempts/{id}/answers [post]
func (c *AttemptController) SubmitAnswer(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req SubmitAnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	attempt, err := c.Service.SubmitAnswer(user.UserID, ctx.Param("id"), req.QuestionID, req.Value)
	if err != nil {
		handleDomainError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"attemptId": attempt.ID, "answered": len(attempt.Answers)})
}

// @Summary 交卷计分
// @Tags 答题
// @Produce json
// @Security BearerAuth
// @Param id path string true "答题记录ID"
// @Success 200 {object} util.Response
// @Router /api/attempts/{id}/complete [post]
func (c *AttemptController) CompleteAttempt(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	attempt, result, err := c.Service.Complete(user.UserID, ctx.Param("id"))
	if err != nil {
		handleDomainError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"attempt": attempt, "result": result})
}

// @Summary 获取答题视图（进行中不含答案）
// @Tags 答题
// @Produce json
// @Security BearerAuth
// @Param id path string true "答题记录ID"
// @Success 200 {object} util.Response
// @Router /api/attempts/{id} [get]
func (c *AttemptController) GetAttempt(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	detail, err := c.Service.GetDetail(user.UserID, ctx.Param("id"))
	if err != nil {
		handleDomainError(ctx, err)
		return
	}

	util.Success(ctx, detail)
}

// @Summary 获取已完成答题的判分结果
// @Tags 答题
// @Produce json
// @Security BearerAuth
// @Param id path string true "答题记录ID"
// @Success 200 {object} util.Response
// @Router /api/attempts/{id}/result [get]
func (c *AttemptController) GetResult(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	attempt, result, err := c.Service.GetResult(user.UserID, ctx.Param("id"))
	if err != nil {
		handleDomainError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"attempt": attempt, "result": result})
}

// @Summary 学生端：我的答题记录
// @Tags 答题
// @Produce json
// @Security BearerAuth
// @Param quizId path string true "测验ID"
// @Success 200 {object} util.Response
// @Router /api/quizzes/{quizId}/attempts [get]
func (c *AttemptController) ListMyAttempts(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	attempts, err := c.Service.ListMyAttempts(user.UserID, ctx.Param("quizId"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, attempts)
}

// @Summary 教师端：某测验的全部答题记录
// @Tags 测验管理
// @Produce json
// @Security BearerAuth
// @Param id path string true "测验ID"
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(20)
// @Success 200 {object} util.Response
// @Router /api/teacher/quizzes/{id}/attempts [get]
func (c *AttemptController) ListQuizAttempts(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	attempts, total, err := c.Service.ListQuizAttempts(ctx.Param("id"), page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"items": attempts, "total": total})
}
