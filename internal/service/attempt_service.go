package service

import (
	"errors"
	"quizhub_backend/internal/model"
	"quizhub_backend/internal/repository"
	"quizhub_backend/internal/util"
	"quizhub_backend/pkg/logger"
	"quizhub_backend/pkg/monitoring"
	"strconv"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type AttemptService struct {
	AttemptRepo     *repository.AttemptRepository
	QuizRepo        *repository.QuizRepository
	Analytics       *AnalyticsService
	StartMaxRetries int
}

func NewAttemptService(attemptRepo *repository.AttemptRepository, quizRepo *repository.QuizRepository, analytics *AnalyticsService, startMaxRetries int) *AttemptService {
	return &AttemptService{
		AttemptRepo:     attemptRepo,
		QuizRepo:        quizRepo,
		Analytics:       analytics,
		StartMaxRetries: startMaxRetries,
	}
}

// Start 开始一次答题。次序号通过 (quiz, user, attempt_number) 唯一索引的
// 条件插入分配：两个并发请求只有一个能拿到同一序号，失败方重新统计后
// 重试，重试耗尽返回 ConcurrentModificationError。
func (s *AttemptService) Start(userID uint, quizID string) (*model.Attempt, error) {
	quiz, err := s.loadQuiz(quizID)
	if err != nil {
		return nil, err
	}
	if !quiz.IsPublished {
		return nil, util.ErrQuizNotPublished
	}
	// 不可计分的测验不允许开始
	if _, err := quiz.TotalPoints(); err != nil {
		return nil, err
	}

	for retry := 0; retry <= s.StartMaxRetries; retry++ {
		count, err := s.AttemptRepo.CountByUserAndQuiz(userID, quizID)
		if err != nil {
			return nil, err
		}

		number, err := nextAttemptNumber(quiz, userID, int(count))
		if err != nil {
			return nil, err
		}

		attempt := &model.Attempt{
			QuizID:        quizID,
			UserID:        userID,
			AttemptNumber: number,
			Status:        model.AttemptInProgress,
			Answers:       map[string][]string{},
			StartedAt:     time.Now(),
		}

		err = s.AttemptRepo.Create(attempt)
		if err == nil {
			monitoring.AttemptsStarted.WithLabelValues(quizID).Inc()
			return attempt, nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, err
		}
		// 序号被并发占用，重新统计后再试
	}

	return nil, &model.ConcurrentModificationError{QuizID: quizID, UserID: userID}
}

// SubmitAnswer 保存/覆盖某题的作答，完成或超时后拒绝
func (s *AttemptService) SubmitAnswer(userID uint, attemptID, questionID string, value []string) (*model.Attempt, error) {
	attempt, quiz, err := s.loadOwned(userID, attemptID)
	if err != nil {
		return nil, err
	}

	if err := applyAnswer(attempt, quiz, questionID, value); err != nil {
		var unknownErr *model.UnknownQuestionError
		if errors.As(err, &unknownErr) {
			// 数据不一致，记录日志后上抛
			logger.Log.Error("answer submitted for unknown question",
				zap.String("attemptId", attemptID),
				zap.String("questionId", questionID))
		}
		return nil, err
	}

	if err := s.AttemptRepo.Update(attempt); err != nil {
		return nil, err
	}
	return attempt, nil
}

// Complete 结束答题并计分。重复调用幂等返回既有结果。
func (s *AttemptService) Complete(userID uint, attemptID string) (*model.Attempt, *ScoreResult, error) {
	attempt, quiz, err := s.loadOwned(userID, attemptID)
	if err != nil {
		return nil, nil, err
	}

	if attempt.IsCompleted() {
		result, err := s.resultFromSnapshot(attempt)
		if err != nil {
			return nil, nil, err
		}
		return attempt, result, nil
	}

	result, err := s.finalize(attempt, quiz, time.Now())
	if err != nil {
		return nil, nil, err
	}
	return attempt, result, nil
}

// GetResult 返回已完成记录的判分结果，基于完成时的快照重算，结果可复现
func (s *AttemptService) GetResult(userID uint, attemptID string) (*model.Attempt, *ScoreResult, error) {
	attempt, _, err := s.loadOwned(userID, attemptID)
	if err != nil {
		return nil, nil, err
	}
	if !attempt.IsCompleted() {
		return nil, nil, util.ErrAttemptNotFound
	}
	result, err := s.resultFromSnapshot(attempt)
	if err != nil {
		return nil, nil, err
	}
	return attempt, result, nil
}

// StudentQuestion 学生视角的题目：进行中不暴露答案和解析
type StudentQuestion struct {
	ID          string             `json:"id"`
	Type        model.QuestionType `json:"type"`
	Prompt      string             `json:"prompt"`
	Options     []string           `json:"options,omitempty"`
	Points      float64            `json:"points"`
	Position    int                `json:"position"`
	Required    bool               `json:"required"`
	Submitted   []string           `json:"submitted,omitempty"`
	Correct     *bool              `json:"correct,omitempty"`     // 完成且开启反馈时返回
	Answer      []string           `json:"answer,omitempty"`      // 同上
	Explanation *string            `json:"explanation,omitempty"` // 同上
}

type AttemptDetail struct {
	ID            string              `json:"id"`
	QuizID        string              `json:"quizId"`
	Title         string              `json:"title"`
	Description   string              `json:"description,omitempty"`
	Status        model.AttemptStatus `json:"status"`
	AttemptNumber int                 `json:"attemptNumber"`
	TimeLimit     int                 `json:"timeLimit"`
	RemainingSec  int                 `json:"remainingSec"` // -1 表示不限时
	StartedAt     time.Time           `json:"startedAt"`
	CompletedAt   *time.Time          `json:"completedAt,omitempty"`
	Score         *float64            `json:"score,omitempty"`
	Passed        *bool               `json:"passed,omitempty"`
	Questions     []StudentQuestion   `json:"questions"`
}

// GetDetail 组装学生端的答题视图。题目顺序由 attempt ID 派生的种子决定，
// 重新渲染不会换序。
func (s *AttemptService) GetDetail(userID uint, attemptID string) (*AttemptDetail, error) {
	attempt, quiz, err := s.loadOwned(userID, attemptID)
	if err != nil {
		return nil, err
	}

	// 完成后的视图与成绩一律来自快照
	viewQuiz := quiz
	if attempt.IsCompleted() {
		if snap, err := attempt.SnapshottedQuiz(); err == nil && snap != nil {
			viewQuiz = snap
		}
	}

	ordered := viewQuiz.EffectiveQuestionOrder(model.ShuffleSeed(attempt.ID))

	var breakdown map[string]QuestionResult
	revealAnswers := attempt.IsCompleted() && viewQuiz.ShowFeedback
	if revealAnswers {
		if result, err := s.resultFromSnapshot(attempt); err == nil {
			breakdown = make(map[string]QuestionResult, len(result.Breakdown))
			for _, qr := range result.Breakdown {
				breakdown[qr.QuestionID] = qr
			}
		}
	}

	questions := make([]StudentQuestion, 0, len(ordered))
	for i := range ordered {
		q := &ordered[i]
		sq := StudentQuestion{
			ID:        q.ID,
			Type:      q.Type,
			Prompt:    q.Prompt,
			Options:   q.Options,
			Points:    q.Points,
			Position:  i,
			Required:  q.Required,
			Submitted: attempt.Answers[q.ID],
		}
		if revealAnswers {
			if qr, ok := breakdown[q.ID]; ok {
				correct := qr.Correct
				sq.Correct = &correct
			}
			sq.Answer = q.CorrectAnswer
			explanation := q.Explanation
			sq.Explanation = &explanation
		}
		questions = append(questions, sq)
	}

	detail := &AttemptDetail{
		ID:            attempt.ID,
		QuizID:        quiz.ID,
		Title:         viewQuiz.Title,
		Description:   viewQuiz.Description,
		Status:        attempt.Status,
		AttemptNumber: attempt.AttemptNumber,
		TimeLimit:     viewQuiz.TimeLimit,
		RemainingSec:  attempt.RemainingSeconds(time.Now(), viewQuiz.TimeLimit),
		StartedAt:     attempt.StartedAt,
		CompletedAt:   attempt.CompletedAt,
		Questions:     questions,
	}
	if attempt.IsCompleted() {
		detail.RemainingSec = 0
		score := attempt.Score
		passed := attempt.Passed
		detail.Score = &score
		detail.Passed = &passed
	}
	return detail, nil
}

// ListMyAttempts 返回某用户在某测验下的全部记录。超时的进行中记录
// 先按截止时间结算，对外永远不会以进行中状态出现。
func (s *AttemptService) ListMyAttempts(userID uint, quizID string) ([]model.Attempt, error) {
	quiz, err := s.loadQuiz(quizID)
	if err != nil {
		return nil, err
	}
	attempts, err := s.AttemptRepo.ListByUserAndQuiz(userID, quizID)
	if err != nil {
		return nil, err
	}
	settled, err := settleExpiredAttempts(s.AttemptRepo, quiz, attempts)
	if err != nil {
		return nil, err
	}
	if settled > 0 && s.Analytics != nil {
		s.Analytics.Invalidate(quizID)
	}
	return attempts, nil
}

func (s *AttemptService) ListQuizAttempts(quizID string, page, limit int) ([]model.Attempt, int64, error) {
	quiz, err := s.loadQuiz(quizID)
	if err != nil {
		return nil, 0, err
	}
	attempts, total, err := s.AttemptRepo.ListByQuiz(quizID, page, limit)
	if err != nil {
		return nil, 0, err
	}
	settled, err := settleExpiredAttempts(s.AttemptRepo, quiz, attempts)
	if err != nil {
		return nil, 0, err
	}
	if settled > 0 && s.Analytics != nil {
		s.Analytics.Invalidate(quizID)
	}
	return attempts, total, nil
}

func (s *AttemptService) loadQuiz(quizID string) (*model.Quiz, error) {
	quiz, err := s.QuizRepo.FindByID(quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuizNotFound
		}
		return nil, err
	}
	return quiz, nil
}

// loadOwned 读取答题记录并校验归属；限时已过的进行中记录在这里
// 自动转为完成态（带着已提交的作答计分），之后才对外可见。
func (s *AttemptService) loadOwned(userID uint, attemptID string) (*model.Attempt, *model.Quiz, error) {
	attempt, err := s.AttemptRepo.FindByID(attemptID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, util.ErrAttemptNotFound
		}
		return nil, nil, err
	}
	if attempt.UserID != userID {
		return nil, nil, util.ErrPermissionDenied
	}

	quiz, err := s.loadQuiz(attempt.QuizID)
	if err != nil {
		return nil, nil, err
	}

	if attempt.IsExpired(time.Now(), quiz.TimeLimit) {
		deadline := attempt.ExpiresAt(quiz.TimeLimit)
		if _, err := s.finalize(attempt, quiz, *deadline); err != nil {
			return nil, nil, err
		}
	}

	return attempt, quiz, nil
}

// finalize 完成一条记录并失效统计缓存
func (s *AttemptService) finalize(attempt *model.Attempt, quiz *model.Quiz, endedAt time.Time) (*ScoreResult, error) {
	result, err := completeAttempt(s.AttemptRepo, quiz, attempt, endedAt)
	if err != nil {
		return nil, err
	}
	if s.Analytics != nil {
		s.Analytics.Invalidate(quiz.ID)
	}
	return result, nil
}

// attemptWriter 完成/结算需要的最小持久化能力
type attemptWriter interface {
	Update(attempt *model.Attempt) error
}

// nextAttemptNumber 次数上限校验，通过时返回下一个 1-based 序号
func nextAttemptNumber(quiz *model.Quiz, userID uint, priorAttempts int) (int, error) {
	if quiz.MaxAttempts > 0 && priorAttempts >= quiz.MaxAttempts {
		return 0, &model.AttemptLimitExceededError{QuizID: quiz.ID, UserID: userID, MaxAttempts: quiz.MaxAttempts}
	}
	return priorAttempts + 1, nil
}

// applyAnswer 校验记录可写、题目属于该测验，然后覆盖写入作答
func applyAnswer(attempt *model.Attempt, quiz *model.Quiz, questionID string, value []string) error {
	if attempt.IsCompleted() {
		return &model.AttemptAlreadyCompletedError{AttemptID: attempt.ID}
	}

	known := false
	for i := range quiz.Questions {
		if quiz.Questions[i].ID == questionID {
			known = true
			break
		}
	}
	if !known {
		return &model.UnknownQuestionError{AttemptID: attempt.ID, QuestionID: questionID}
	}

	if attempt.Answers == nil {
		attempt.Answers = map[string][]string{}
	}
	attempt.Answers[questionID] = value // 重复提交同一题直接覆盖
	return nil
}

// completeAttempt 计分并原子地写入 score/passed/completedAt/timeSpent 和快照
func completeAttempt(w attemptWriter, quiz *model.Quiz, attempt *model.Attempt, endedAt time.Time) (*ScoreResult, error) {
	result, err := ScoreAttempt(quiz, attempt.Answers)
	if err != nil {
		return nil, err
	}

	timeSpent := int(endedAt.Sub(attempt.StartedAt).Seconds())
	if quiz.TimeLimit > 0 && timeSpent > quiz.TimeLimit*60 {
		timeSpent = quiz.TimeLimit * 60
	}
	if timeSpent < 0 {
		timeSpent = 0
	}

	attempt.Status = model.AttemptCompleted
	attempt.Score = result.Percentage
	attempt.Passed = result.Passed
	attempt.CompletedAt = &endedAt
	attempt.TimeSpentSec = timeSpent
	if err := attempt.SnapshotQuiz(quiz); err != nil {
		return nil, err
	}

	if err := w.Update(attempt); err != nil {
		return nil, err
	}

	monitoring.AttemptsCompleted.WithLabelValues(quiz.ID, strconv.FormatBool(result.Passed)).Inc()
	return result, nil
}

// settleExpiredAttempts 把已超时的进行中记录按各自的截止时间就地完成，
// 返回结算条数。列表和统计读取前调用。
func settleExpiredAttempts(w attemptWriter, quiz *model.Quiz, attempts []model.Attempt) (int, error) {
	now := time.Now()
	settled := 0
	for i := range attempts {
		attempt := &attempts[i]
		if !attempt.IsExpired(now, quiz.TimeLimit) {
			continue
		}
		deadline := attempt.ExpiresAt(quiz.TimeLimit)
		if _, err := completeAttempt(w, quiz, attempt, *deadline); err != nil {
			return settled, err
		}
		settled++
	}
	return settled, nil
}

// resultFromSnapshot 用完成时的快照重算判分结果，测验后续被编辑也不受影响
func (s *AttemptService) resultFromSnapshot(attempt *model.Attempt) (*ScoreResult, error) {
	snap, err := attempt.SnapshottedQuiz()
	if err != nil {
		return nil, err
	}
	if snap == nil {
		return nil, util.ErrAttemptNotFound
	}
	return ScoreAttempt(snap, attempt.Answers)
}
