package controller

import (
	"errors"
	"net/http"
	"quizhub_backend/internal/model"
	"quizhub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// handleDomainError 把测验引擎的错误映射为 HTTP 响应
func handleDomainError(ctx *gin.Context, err error) {
	var validationErr *model.ValidationError
	var emptyQuizErr *model.EmptyQuizError
	var limitErr *model.AttemptLimitExceededError
	var completedErr *model.AttemptAlreadyCompletedError
	var unknownQErr *model.UnknownQuestionError
	var concurrentErr *model.ConcurrentModificationError

	switch {
	case errors.As(err, &validationErr):
		util.BadRequest(ctx, err.Error())
	case errors.As(err, &emptyQuizErr):
		util.Error(ctx, http.StatusUnprocessableEntity, err.Error())
	case errors.As(err, &limitErr):
		// 可恢复：引导调用方跳转结果页而不是重试
		util.Error(ctx, http.StatusForbidden, err.Error())
	case errors.As(err, &completedErr):
		util.Conflict(ctx, err.Error())
	case errors.As(err, &unknownQErr):
		util.BadRequest(ctx, err.Error())
	case errors.As(err, &concurrentErr):
		util.Conflict(ctx, err.Error())
	case errors.Is(err, util.ErrQuizNotFound), errors.Is(err, util.ErrAttemptNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrQuizNotPublished):
		util.Error(ctx, http.StatusForbidden, err.Error())
	case errors.Is(err, util.ErrPermissionDenied):
		util.Forbidden(ctx)
	default:
		util.LogInternalError(ctx, err)
	}
}
