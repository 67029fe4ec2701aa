package model

import (
	"hash/fnv"
	"math/rand"
	"sort"
)

// swagger:model Quiz
type Quiz struct {
	UUIDBase
	CourseID           string     `gorm:"index;type:varchar(36);not null" json:"courseId"`
	ModuleID           *string    `gorm:"index;type:varchar(36)" json:"moduleId,omitempty"`
	Title              string     `gorm:"size:255;not null" json:"title"`
	Description        string     `gorm:"type:text" json:"description,omitempty"`
	Questions          []Question `gorm:"foreignKey:QuizID" json:"questions,omitempty"`
	PassingScore       float64    `gorm:"not null" json:"passingScore"` // 及格线百分比 (0,100]
	MaxAttempts        int        `gorm:"default:0" json:"maxAttempts"` // 0 表示不限次数
	TimeLimit          int        `gorm:"default:0" json:"timeLimit"`   // Minutes, 0 表示不限时
	ShowFeedback       bool       `gorm:"default:false" json:"showFeedback"`
	RandomizeQuestions bool       `gorm:"default:false" json:"randomizeQuestions"`
	RandomizeAnswers   bool       `gorm:"default:false" json:"randomizeAnswers"`
	IsPublished        bool       `gorm:"default:false" json:"isPublished"`
	CreatorID          uint       `gorm:"index;type:bigint unsigned" json:"creatorId"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

// Validate 校验测验定义：及格线范围、题目位置/ID 唯一、各题目合法
func (q *Quiz) Validate() error {
	if q.Title == "" {
		return &ValidationError{QuizID: q.ID, Reason: "title is required"}
	}
	if q.PassingScore <= 0 || q.PassingScore > 100 {
		return &ValidationError{QuizID: q.ID, Reason: "passing score must be within (0,100]"}
	}
	if q.MaxAttempts < 0 {
		return &ValidationError{QuizID: q.ID, Reason: "max attempts must be >= 1 or 0 for unlimited"}
	}
	if q.TimeLimit < 0 {
		return &ValidationError{QuizID: q.ID, Reason: "time limit cannot be negative"}
	}

	ids := make(map[string]bool, len(q.Questions))
	positions := make(map[int]bool, len(q.Questions))
	for i := range q.Questions {
		question := &q.Questions[i]
		if question.ID != "" && ids[question.ID] {
			return &ValidationError{QuizID: q.ID, QuestionID: question.ID, Reason: "duplicate question id"}
		}
		ids[question.ID] = true
		if positions[question.Position] {
			return &ValidationError{QuizID: q.ID, QuestionID: question.ID, Reason: "duplicate question position"}
		}
		positions[question.Position] = true
		if err := question.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// TotalPoints 全部题目分值之和，为零时测验不可计分
func (q *Quiz) TotalPoints() (float64, error) {
	total := 0.0
	for i := range q.Questions {
		total += q.Questions[i].Points
	}
	if total <= 0 {
		return 0, &EmptyQuizError{QuizID: q.ID}
	}
	return total, nil
}

// NormalizePositions 按当前位置排序后压缩为 0..n-1 的连续序列
func (q *Quiz) NormalizePositions() {
	sort.SliceStable(q.Questions, func(i, j int) bool {
		return q.Questions[i].Position < q.Questions[j].Position
	})
	for i := range q.Questions {
		q.Questions[i].Position = i
	}
}

// EffectiveQuestionOrder 返回呈现给学生的题目顺序。开启乱序时使用
// 基于种子的确定性洗牌，同一 attempt 重新渲染时顺序不变。
func (q *Quiz) EffectiveQuestionOrder(seed uint64) []Question {
	ordered := make([]Question, len(q.Questions))
	copy(ordered, q.Questions)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Position < ordered[j].Position
	})

	if !q.RandomizeQuestions && !q.RandomizeAnswers {
		return ordered
	}

	rng := rand.New(rand.NewSource(int64(seed)))
	if q.RandomizeQuestions {
		rng.Shuffle(len(ordered), func(i, j int) {
			ordered[i], ordered[j] = ordered[j], ordered[i]
		})
	}

	if q.RandomizeAnswers {
		for i := range ordered {
			if len(ordered[i].Options) > 1 {
				opts := make([]string, len(ordered[i].Options))
				copy(opts, ordered[i].Options)
				rng.Shuffle(len(opts), func(a, b int) {
					opts[a], opts[b] = opts[b], opts[a]
				})
				ordered[i].Options = opts
			}
		}
	}
	return ordered
}

// ShuffleSeed 由 attempt ID 派生洗牌种子
func ShuffleSeed(attemptID string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(attemptID))
	return h.Sum64()
}
