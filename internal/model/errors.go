package model

import "fmt"

// ValidationError 题目或测验定义不合法，创建/更新时直接返回给作者
type ValidationError struct {
	QuizID     string
	QuestionID string
	Reason     string
}

func (e *ValidationError) Error() string {
	if e.QuestionID != "" {
		return fmt.Sprintf("validation failed for question %s: %s", e.QuestionID, e.Reason)
	}
	if e.QuizID != "" {
		return fmt.Sprintf("validation failed for quiz %s: %s", e.QuizID, e.Reason)
	}
	return "validation failed: " + e.Reason
}

// EmptyQuizError 总分为零的测验无法计分
type EmptyQuizError struct {
	QuizID string
}

func (e *EmptyQuizError) Error() string {
	return fmt.Sprintf("quiz %s has zero total points and cannot be scored", e.QuizID)
}

// AttemptLimitExceededError 已达到测验的最大答题次数
type AttemptLimitExceededError struct {
	QuizID      string
	UserID      uint
	MaxAttempts int
}

func (e *AttemptLimitExceededError) Error() string {
	return fmt.Sprintf("user %d reached the attempt limit (%d) for quiz %s", e.UserID, e.MaxAttempts, e.QuizID)
}

// AttemptAlreadyCompletedError 答题记录已完成（含超时自动完成），不可再修改
type AttemptAlreadyCompletedError struct {
	AttemptID string
}

func (e *AttemptAlreadyCompletedError) Error() string {
	return fmt.Sprintf("attempt %s is already completed", e.AttemptID)
}

// UnknownQuestionError 提交的题目不属于该测验，数据不一致，需要记录日志
type UnknownQuestionError struct {
	AttemptID  string
	QuestionID string
}

func (e *UnknownQuestionError) Error() string {
	return fmt.Sprintf("question %s is not part of the quiz for attempt %s", e.QuestionID, e.AttemptID)
}

// ConcurrentModificationError 并发开始答题重试耗尽
type ConcurrentModificationError struct {
	QuizID string
	UserID uint
}

func (e *ConcurrentModificationError) Error() string {
	return fmt.Sprintf("concurrent attempt creation for quiz %s by user %d, retries exhausted", e.QuizID, e.UserID)
}
