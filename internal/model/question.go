package model

type QuestionType string

const (
	SingleChoice   QuestionType = "single_choice"
	TrueFalse      QuestionType = "true_false"
	MultipleSelect QuestionType = "multiple_select"
)

// swagger:model Question
type Question struct {
	UUIDBase
	QuizID        string       `gorm:"index;type:varchar(36)" json:"quizId"`
	Type          QuestionType `gorm:"size:50;not null" json:"type"` // single_choice, true_false, multiple_select
	Prompt        string       `gorm:"type:text;not null" json:"prompt"`
	Options       []string     `gorm:"serializer:json;type:json" json:"options,omitempty"` // 判断题为空
	CorrectAnswer []string     `gorm:"serializer:json;type:json" json:"correctAnswer"`     // 单选/判断取首元素，多选为集合
	Explanation   string       `gorm:"type:text" json:"explanation,omitempty"`
	Points        float64      `gorm:"not null" json:"points"`
	Position      int          `gorm:"default:0" json:"position"`
	Required      bool         `gorm:"default:true" json:"required"`
}

func (Question) TableName() string {
	return "quiz_questions"
}

// Validate 校验题目的选项/答案一致性和分值
func (q *Question) Validate() error {
	if q.Points <= 0 {
		return &ValidationError{QuestionID: q.ID, Reason: "points must be positive"}
	}
	if q.Prompt == "" {
		return &ValidationError{QuestionID: q.ID, Reason: "prompt is required"}
	}

	switch q.Type {
	case SingleChoice:
		if len(q.Options) < 2 {
			return &ValidationError{QuestionID: q.ID, Reason: "single_choice requires at least two options"}
		}
		if len(q.CorrectAnswer) != 1 {
			return &ValidationError{QuestionID: q.ID, Reason: "single_choice requires exactly one correct answer"}
		}
	case TrueFalse:
		if len(q.CorrectAnswer) != 1 || (q.CorrectAnswer[0] != "true" && q.CorrectAnswer[0] != "false") {
			return &ValidationError{QuestionID: q.ID, Reason: "true_false answer must be \"true\" or \"false\""}
		}
		return nil // 判断题无选项列表
	case MultipleSelect:
		if len(q.Options) < 2 {
			return &ValidationError{QuestionID: q.ID, Reason: "multiple_select requires at least two options"}
		}
		if len(q.CorrectAnswer) == 0 {
			return &ValidationError{QuestionID: q.ID, Reason: "multiple_select requires a non-empty correct set"}
		}
	default:
		return &ValidationError{QuestionID: q.ID, Reason: "unknown question type: " + string(q.Type)}
	}

	// 选择类题型的正确答案必须出现在选项中
	optionSet := make(map[string]bool, len(q.Options))
	for _, o := range q.Options {
		optionSet[o] = true
	}
	for _, a := range q.CorrectAnswer {
		if !optionSet[a] {
			return &ValidationError{QuestionID: q.ID, Reason: "correct answer \"" + a + "\" is not among the options"}
		}
	}
	return nil
}

// IsAnswerCorrect 判定提交答案是否正确。单选/判断要求完全相等，
// 多选要求集合相等（与顺序无关），多选不给部分分。
func (q *Question) IsAnswerCorrect(submitted []string) bool {
	switch q.Type {
	case SingleChoice, TrueFalse:
		return len(submitted) == 1 && len(q.CorrectAnswer) == 1 && submitted[0] == q.CorrectAnswer[0]
	case MultipleSelect:
		return equalStringSets(submitted, q.CorrectAnswer)
	default:
		return false
	}
}

func equalStringSets(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	seen := map[string]int{}
	for _, s := range a {
		seen[s]++
	}
	for _, s := range b {
		seen[s]--
	}
	for _, v := range seen {
		if v != 0 {
			return false
		}
	}
	return true
}
