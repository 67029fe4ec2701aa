package service

import (
	"errors"
	"quizhub_backend/internal/model"
	"quizhub_backend/internal/repository"
	"quizhub_backend/internal/util"

	"gorm.io/gorm"
)

type QuizService struct {
	Repo       *repository.QuizRepository
	DefaultPct float64 // 创建测验时的默认及格线
}

func NewQuizService(repo *repository.QuizRepository, defaultPassingScore int) *QuizService {
	return &QuizService{Repo: repo, DefaultPct: float64(defaultPassingScore)}
}

type QuestionReq struct {
	ID            string   `json:"id"`
	Type          string   `json:"type" binding:"required"`
	Prompt        string   `json:"prompt" binding:"required"`
	Options       []string `json:"options"`
	CorrectAnswer []string `json:"correctAnswer" binding:"required"`
	Explanation   string   `json:"explanation"`
	Points        float64  `json:"points"`
	Position      *int     `json:"position"`
	Required      *bool    `json:"required"`
}

type QuizReq struct {
	CourseID           *string        `json:"courseId"`
	ModuleID           *string        `json:"moduleId"`
	Title              *string        `json:"title"`
	Description        *string        `json:"description"`
	PassingScore       *float64       `json:"passingScore"`
	MaxAttempts        *int           `json:"maxAttempts"`
	TimeLimit          *int           `json:"timeLimit"`
	ShowFeedback       *bool          `json:"showFeedback"`
	RandomizeQuestions *bool          `json:"randomizeQuestions"`
	RandomizeAnswers   *bool          `json:"randomizeAnswers"`
	IsPublished        *bool          `json:"isPublished"`
	Questions          *[]QuestionReq `json:"questions"`
}

func questionFromReq(quizID string, req QuestionReq, fallbackPos int) model.Question {
	q := model.Question{
		QuizID:        quizID,
		Type:          model.QuestionType(req.Type),
		Prompt:        req.Prompt,
		Options:       req.Options,
		CorrectAnswer: req.CorrectAnswer,
		Explanation:   req.Explanation,
		Points:        req.Points,
		Position:      fallbackPos,
		Required:      true,
	}
	if req.Position != nil {
		q.Position = *req.Position
	}
	if req.Required != nil {
		q.Required = *req.Required
	}
	return q
}

func (s *QuizService) CreateQuiz(creatorID uint, req QuizReq) (*model.Quiz, error) {
	if req.Title == nil || *req.Title == "" {
		return nil, &model.ValidationError{Reason: "title is required"}
	}
	if req.CourseID == nil || *req.CourseID == "" {
		return nil, &model.ValidationError{Reason: "courseId is required"}
	}

	quiz := &model.Quiz{
		CourseID:     *req.CourseID,
		ModuleID:     req.ModuleID,
		Title:        *req.Title,
		PassingScore: s.DefaultPct,
		CreatorID:    creatorID,
	}

	if req.Description != nil {
		quiz.Description = *req.Description
	}
	if req.PassingScore != nil {
		quiz.PassingScore = *req.PassingScore
	}
	if req.MaxAttempts != nil {
		quiz.MaxAttempts = *req.MaxAttempts
	}
	if req.TimeLimit != nil {
		quiz.TimeLimit = *req.TimeLimit
	}
	if req.ShowFeedback != nil {
		quiz.ShowFeedback = *req.ShowFeedback
	}
	if req.RandomizeQuestions != nil {
		quiz.RandomizeQuestions = *req.RandomizeQuestions
	}
	if req.RandomizeAnswers != nil {
		quiz.RandomizeAnswers = *req.RandomizeAnswers
	}
	if req.IsPublished != nil {
		quiz.IsPublished = *req.IsPublished
	}

	if req.Questions != nil {
		for i, qReq := range *req.Questions {
			quiz.Questions = append(quiz.Questions, questionFromReq("", qReq, i))
		}
	}
	quiz.NormalizePositions()

	if err := quiz.Validate(); err != nil {
		return nil, err
	}
	// 发布前必须保证测验可计分
	if quiz.IsPublished {
		if _, err := quiz.TotalPoints(); err != nil {
			return nil, err
		}
	}

	if err := s.Repo.Create(quiz); err != nil {
		return nil, err
	}
	return quiz, nil
}

func (s *QuizService) UpdateQuiz(quizID string, req QuizReq) (*model.Quiz, error) {
	quiz, err := s.Repo.FindByID(quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuizNotFound
		}
		return nil, err
	}

	if req.CourseID != nil {
		quiz.CourseID = *req.CourseID
	}
	if req.ModuleID != nil {
		quiz.ModuleID = req.ModuleID
	}
	if req.Title != nil {
		quiz.Title = *req.Title
	}
	if req.Description != nil {
		quiz.Description = *req.Description
	}
	if req.PassingScore != nil {
		quiz.PassingScore = *req.PassingScore
	}
	if req.MaxAttempts != nil {
		quiz.MaxAttempts = *req.MaxAttempts
	}
	if req.TimeLimit != nil {
		quiz.TimeLimit = *req.TimeLimit
	}
	if req.ShowFeedback != nil {
		quiz.ShowFeedback = *req.ShowFeedback
	}
	if req.RandomizeQuestions != nil {
		quiz.RandomizeQuestions = *req.RandomizeQuestions
	}
	if req.RandomizeAnswers != nil {
		quiz.RandomizeAnswers = *req.RandomizeAnswers
	}
	if req.IsPublished != nil {
		quiz.IsPublished = *req.IsPublished
	}

	// 整卷替换题目列表：已有 ID 的更新，新题插入，缺席的删除
	if req.Questions != nil {
		existingMap := make(map[string]*model.Question)
		for i := range quiz.Questions {
			existingMap[quiz.Questions[i].ID] = &quiz.Questions[i]
		}

		updated := make([]model.Question, 0, len(*req.Questions))
		keptIDs := make(map[string]bool)
		for i, qReq := range *req.Questions {
			if qReq.ID != "" {
				if q, ok := existingMap[qReq.ID]; ok {
					nq := questionFromReq(quizID, qReq, i)
					nq.UUIDBase = q.UUIDBase
					updated = append(updated, nq)
					keptIDs[qReq.ID] = true
					continue
				}
			}
			updated = append(updated, questionFromReq(quizID, qReq, i))
		}

		candidate := *quiz
		candidate.Questions = updated
		candidate.NormalizePositions()
		if err := candidate.Validate(); err != nil {
			return nil, err
		}
		if candidate.IsPublished {
			if _, err := candidate.TotalPoints(); err != nil {
				return nil, err
			}
		}

		for id := range existingMap {
			if !keptIDs[id] {
				if err := s.Repo.DeleteQuestion(id); err != nil {
					return nil, err
				}
			}
		}
		for i := range candidate.Questions {
			q := &candidate.Questions[i]
			if q.ID == "" {
				if err := s.Repo.CreateQuestion(q); err != nil {
					return nil, err
				}
			} else {
				if err := s.Repo.UpdateQuestion(q); err != nil {
					return nil, err
				}
			}
		}
		quiz.Questions = candidate.Questions
	} else {
		if err := quiz.Validate(); err != nil {
			return nil, err
		}
		if quiz.IsPublished {
			if _, err := quiz.TotalPoints(); err != nil {
				return nil, err
			}
		}
	}

	if err := s.Repo.Update(quiz); err != nil {
		return nil, err
	}
	return quiz, nil
}

func (s *QuizService) DeleteQuiz(quizID string) error {
	return s.Repo.Delete(quizID)
}

func (s *QuizService) GetQuiz(quizID string) (*model.Quiz, error) {
	quiz, err := s.Repo.FindByID(quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuizNotFound
		}
		return nil, err
	}
	return quiz, nil
}

func (s *QuizService) ListQuizzes(courseID string, page, limit int) ([]model.Quiz, int64, error) {
	return s.Repo.List(courseID, page, limit)
}

func (s *QuizService) ListPublishedQuizzes(courseID string, page, limit int) ([]model.Quiz, int64, error) {
	return s.Repo.ListPublished(courseID, page, limit)
}

// AddQuestion 追加一道题并压缩位置序列
func (s *QuizService) AddQuestion(quizID string, req QuestionReq) (*model.Question, error) {
	quiz, err := s.GetQuiz(quizID)
	if err != nil {
		return nil, err
	}

	question := questionFromReq(quizID, req, len(quiz.Questions))
	quiz.Questions = append(quiz.Questions, question)
	quiz.NormalizePositions()
	if err := quiz.Validate(); err != nil {
		return nil, err
	}

	added := &quiz.Questions[len(quiz.Questions)-1]
	for i := range quiz.Questions {
		if quiz.Questions[i].ID == "" {
			added = &quiz.Questions[i]
		}
	}
	if err := s.Repo.CreateQuestion(added); err != nil {
		return nil, err
	}
	if err := s.Repo.SavePositions(quiz.Questions); err != nil {
		return nil, err
	}
	return added, nil
}

// RemoveQuestion 删除一道题并压缩位置序列
func (s *QuizService) RemoveQuestion(quizID, questionID string) error {
	quiz, err := s.GetQuiz(quizID)
	if err != nil {
		return err
	}

	found := false
	kept := make([]model.Question, 0, len(quiz.Questions))
	for i := range quiz.Questions {
		if quiz.Questions[i].ID == questionID {
			found = true
			continue
		}
		kept = append(kept, quiz.Questions[i])
	}
	if !found {
		return &model.UnknownQuestionError{QuestionID: questionID}
	}

	if err := s.Repo.DeleteQuestion(questionID); err != nil {
		return err
	}
	quiz.Questions = kept
	quiz.NormalizePositions()
	return s.Repo.SavePositions(quiz.Questions)
}

// ReorderQuestions 按给定的题目 ID 顺序重排，要求与现有题目一一对应
func (s *QuizService) ReorderQuestions(quizID string, orderedIDs []string) error {
	quiz, err := s.GetQuiz(quizID)
	if err != nil {
		return err
	}

	if len(orderedIDs) != len(quiz.Questions) {
		return &model.ValidationError{QuizID: quizID, Reason: "reorder list must contain every question exactly once"}
	}

	byID := make(map[string]*model.Question, len(quiz.Questions))
	for i := range quiz.Questions {
		byID[quiz.Questions[i].ID] = &quiz.Questions[i]
	}

	reordered := make([]model.Question, 0, len(orderedIDs))
	seen := make(map[string]bool, len(orderedIDs))
	for pos, id := range orderedIDs {
		q, ok := byID[id]
		if !ok || seen[id] {
			return &model.ValidationError{QuizID: quizID, QuestionID: id, Reason: "reorder list must contain every question exactly once"}
		}
		seen[id] = true
		q.Position = pos
		reordered = append(reordered, *q)
	}

	quiz.Questions = reordered
	quiz.NormalizePositions()
	return s.Repo.SavePositions(quiz.Questions)
}
