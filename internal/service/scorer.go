package service

import (
	"quizhub_backend/internal/model"
)

// QuestionResult 单题判分结果
type QuestionResult struct {
	QuestionID     string   `json:"questionId"`
	Correct        bool     `json:"correct"`
	PointsEarned   float64  `json:"pointsEarned"`
	PointsPossible float64  `json:"pointsPossible"`
	Submitted      []string `json:"submitted,omitempty"`
	Answered       bool     `json:"answered"`
}

// ScoreResult 整卷判分结果
type ScoreResult struct {
	Percentage   float64          `json:"percentage"`
	Passed       bool             `json:"passed"`
	EarnedPoints float64          `json:"earnedPoints"`
	TotalPoints  float64          `json:"totalPoints"`
	Breakdown    []QuestionResult `json:"breakdown"`
}

// ScoreAttempt 纯函数判分：逐题比对提交答案并累计得分。未作答按错误计，
// 不报错（required 只是前端提示）。同一输入永远得到相同输出。
func ScoreAttempt(quiz *model.Quiz, answers map[string][]string) (*ScoreResult, error) {
	totalPoints, err := quiz.TotalPoints()
	if err != nil {
		return nil, err
	}

	earned := 0.0
	breakdown := make([]QuestionResult, 0, len(quiz.Questions))

	for i := range quiz.Questions {
		question := &quiz.Questions[i]
		submitted, answered := answers[question.ID]

		qr := QuestionResult{
			QuestionID:     question.ID,
			PointsPossible: question.Points,
			Submitted:      submitted,
			Answered:       answered,
		}

		if answered && question.IsAnswerCorrect(submitted) {
			qr.Correct = true
			qr.PointsEarned = question.Points
			earned += question.Points
		}

		breakdown = append(breakdown, qr)
	}

	percentage := 100 * earned / totalPoints

	return &ScoreResult{
		Percentage:   percentage,
		Passed:       percentage >= quiz.PassingScore, // 恰好等于及格线算通过
		EarnedPoints: earned,
		TotalPoints:  totalPoints,
		Breakdown:    breakdown,
	}, nil
}
