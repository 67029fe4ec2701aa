package repository

import (
	"quizhub_backend/internal/model"

	"gorm.io/gorm"
)

type AttemptRepository struct {
	DB *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) *AttemptRepository {
	return &AttemptRepository{DB: db}
}

// Create 依赖 (quiz_id, user_id, attempt_number) 唯一索引做条件插入，
// 并发冲突时返回 gorm.ErrDuplicatedKey，由服务层重试。
func (r *AttemptRepository) Create(attempt *model.Attempt) error {
	return r.DB.Create(attempt).Error
}

func (r *AttemptRepository) Update(attempt *model.Attempt) error {
	return r.DB.Save(attempt).Error
}

func (r *AttemptRepository) FindByID(id string) (*model.Attempt, error) {
	var a model.Attempt
	if err := r.DB.First(&a, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AttemptRepository) CountByUserAndQuiz(userID uint, quizID string) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Attempt{}).
		Where("user_id = ? AND quiz_id = ?", userID, quizID).
		Count(&count).Error
	return count, err
}

// ListByUserAndQuiz 按答题次序返回某用户在某测验下的全部记录
func (r *AttemptRepository) ListByUserAndQuiz(userID uint, quizID string) ([]model.Attempt, error) {
	var attempts []model.Attempt
	err := r.DB.Where("user_id = ? AND quiz_id = ?", userID, quizID).
		Order("attempt_number asc").
		Find(&attempts).Error
	return attempts, err
}

func (r *AttemptRepository) ListByQuiz(quizID string, page, limit int) ([]model.Attempt, int64, error) {
	var attempts []model.Attempt
	var total int64
	query := r.DB.Model(&model.Attempt{}).Where("quiz_id = ?", quizID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	err := query.Order("started_at desc").Offset(offset).Limit(limit).Find(&attempts).Error
	return attempts, total, err
}

// ListInProgressByQuiz 超时结算的输入：某测验仍在进行中的记录
func (r *AttemptRepository) ListInProgressByQuiz(quizID string) ([]model.Attempt, error) {
	var attempts []model.Attempt
	err := r.DB.Where("quiz_id = ? AND status = ?", quizID, model.AttemptInProgress).
		Find(&attempts).Error
	return attempts, err
}

// ListCompletedByQuiz 统计聚合的输入：某测验的全部已完成记录
func (r *AttemptRepository) ListCompletedByQuiz(quizID string) ([]model.Attempt, error) {
	var attempts []model.Attempt
	err := r.DB.Where("quiz_id = ? AND status = ?", quizID, model.AttemptCompleted).
		Order("completed_at asc").
		Find(&attempts).Error
	return attempts, err
}
