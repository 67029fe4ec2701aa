package model

// 统计结果为只读投影，随时可由已完成的答题记录重新计算，不落库。

// swagger:model QuizAnalytics
type QuizAnalytics struct {
	QuizID         string              `json:"quizId"`
	TotalAttempts  int                 `json:"totalAttempts"`
	AverageScore   float64             `json:"averageScore"` // 无记录时为 0
	PassRate       float64             `json:"passRate"`     // 0.0 - 1.0
	AverageTimeSec float64             `json:"averageTimeSec"`
	Questions      []QuestionAnalytics `json:"questions"`
}

// swagger:model QuestionAnalytics
type QuestionAnalytics struct {
	QuestionID         string        `json:"questionId"`
	CorrectRate        float64       `json:"correctRate"`
	CommonWrongAnswers []WrongAnswer `json:"commonWrongAnswers"`
}

type WrongAnswer struct {
	Value []string `json:"value"`
	Count int      `json:"count"`
}
