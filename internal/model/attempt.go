package model

import (
	"encoding/json"
	"time"
)

type AttemptStatus string

const (
	AttemptInProgress AttemptStatus = "in_progress"
	AttemptCompleted  AttemptStatus = "completed"
)

// swagger:model Attempt
type Attempt struct {
	UUIDBase
	QuizID        string              `gorm:"type:varchar(36);uniqueIndex:idx_quiz_user_no,priority:1;not null" json:"quizId"`
	UserID        uint                `gorm:"type:bigint unsigned;uniqueIndex:idx_quiz_user_no,priority:2;not null" json:"userId"`
	AttemptNumber int                 `gorm:"uniqueIndex:idx_quiz_user_no,priority:3;not null" json:"attemptNumber"` // 1-based，同一用户同一测验内唯一
	Status        AttemptStatus       `gorm:"size:20;default:'in_progress'" json:"status"`
	Answers       map[string][]string `gorm:"serializer:json;type:json" json:"answers"` // questionID -> 提交的答案
	Score         float64             `json:"score"`                                    // 完成时写入的百分比
	Passed        bool                `gorm:"default:false" json:"passed"`
	StartedAt     time.Time           `json:"startedAt"`
	CompletedAt   *time.Time          `json:"completedAt,omitempty"`
	TimeSpentSec  int                 `json:"timeSpentSec"`
	QuizSnapshot  json.RawMessage     `gorm:"type:json" json:"-"` // 完成时的测验快照，保证历史成绩可复现
}

func (Attempt) TableName() string {
	return "quiz_attempts"
}

func (a *Attempt) IsCompleted() bool {
	return a.Status == AttemptCompleted
}

// ExpiresAt 限时截止时间，测验不限时则返回 nil
func (a *Attempt) ExpiresAt(timeLimitMinutes int) *time.Time {
	if timeLimitMinutes <= 0 {
		return nil
	}
	t := a.StartedAt.Add(time.Duration(timeLimitMinutes) * time.Minute)
	return &t
}

// IsExpired 进行中的记录是否已超出限时
func (a *Attempt) IsExpired(now time.Time, timeLimitMinutes int) bool {
	if a.IsCompleted() {
		return false
	}
	deadline := a.ExpiresAt(timeLimitMinutes)
	return deadline != nil && now.After(*deadline)
}

// RemainingSeconds 剩余答题秒数，不限时返回 -1
func (a *Attempt) RemainingSeconds(now time.Time, timeLimitMinutes int) int {
	deadline := a.ExpiresAt(timeLimitMinutes)
	if deadline == nil {
		return -1
	}
	remaining := int(deadline.Sub(now).Seconds())
	if remaining < 0 {
		remaining = 0
	}
	return remaining
}

// SnapshotQuiz 记录完成时刻的测验定义
func (a *Attempt) SnapshotQuiz(quiz *Quiz) error {
	raw, err := json.Marshal(quiz)
	if err != nil {
		return err
	}
	a.QuizSnapshot = raw
	return nil
}

// SnapshottedQuiz 读取完成时保存的测验快照
func (a *Attempt) SnapshottedQuiz() (*Quiz, error) {
	if len(a.QuizSnapshot) == 0 {
		return nil, nil
	}
	var quiz Quiz
	if err := json.Unmarshal(a.QuizSnapshot, &quiz); err != nil {
		return nil, err
	}
	return &quiz, nil
}
