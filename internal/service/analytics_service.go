package service

import (
	"context"
	"encoding/json"
	"quizhub_backend/internal/model"
	"quizhub_backend/internal/repository"
	"quizhub_backend/pkg/logger"
	"sort"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

type AnalyticsService struct {
	AttemptRepo *repository.AttemptRepository
	QuizRepo    *repository.QuizRepository
	Redis       *redis.Client
	CacheTTL    time.Duration
	TopWrongN   int
}

func NewAnalyticsService(attemptRepo *repository.AttemptRepository, quizRepo *repository.QuizRepository, rdb *redis.Client, cacheTTLSeconds, topWrongAnswers int) *AnalyticsService {
	return &AnalyticsService{
		AttemptRepo: attemptRepo,
		QuizRepo:    quizRepo,
		Redis:       rdb,
		CacheTTL:    time.Duration(cacheTTLSeconds) * time.Second,
		TopWrongN:   topWrongAnswers,
	}
}

const analyticsCachePrefix = "quizhub:analytics:"

// GetQuizAnalytics 返回测验的聚合统计，短暂缓存于 redis，
// 答题完成时失效，任何时刻都可以从答题记录重新计算。
func (s *AnalyticsService) GetQuizAnalytics(quizID string) (*model.QuizAnalytics, error) {
	ctx := context.Background()
	cacheKey := analyticsCachePrefix + quizID

	if s.Redis != nil {
		if cached, err := s.Redis.Get(ctx, cacheKey).Result(); err == nil {
			var analytics model.QuizAnalytics
			if err := json.Unmarshal([]byte(cached), &analytics); err == nil {
				return &analytics, nil
			}
		}
	}

	quiz, err := s.QuizRepo.FindByID(quizID)
	if err != nil {
		return nil, err
	}

	// 先结算已超时的进行中记录，超时交卷也计入统计
	inProgress, err := s.AttemptRepo.ListInProgressByQuiz(quizID)
	if err != nil {
		return nil, err
	}
	if _, err := settleExpiredAttempts(s.AttemptRepo, quiz, inProgress); err != nil {
		return nil, err
	}

	attempts, err := s.AttemptRepo.ListCompletedByQuiz(quizID)
	if err != nil {
		return nil, err
	}

	analytics := AggregateAttempts(quiz, attempts, s.TopWrongN)

	if s.Redis != nil {
		if raw, err := json.Marshal(analytics); err == nil {
			if err := s.Redis.Set(ctx, cacheKey, raw, s.CacheTTL).Err(); err != nil {
				logger.Log.Warn("failed to cache quiz analytics", zap.String("quizId", quizID), zap.Error(err))
			}
		}
	}

	return analytics, nil
}

// Invalidate 答题完成后清除统计缓存
func (s *AnalyticsService) Invalidate(quizID string) {
	if s.Redis == nil {
		return
	}
	if err := s.Redis.Del(context.Background(), analyticsCachePrefix+quizID).Err(); err != nil {
		logger.Log.Warn("failed to invalidate analytics cache", zap.String("quizId", quizID), zap.Error(err))
	}
}

type wrongAnswerStat struct {
	value     []string
	count     int
	firstSeen int
}

// AggregateAttempts 把已完成的答题记录折叠为测验/题目两级统计。纯函数，
// 空输入返回全零而不是 NaN。每条记录按其完成时的快照判定对错。
func AggregateAttempts(quiz *model.Quiz, attempts []model.Attempt, topWrongN int) *model.QuizAnalytics {
	analytics := &model.QuizAnalytics{
		QuizID:        quiz.ID,
		TotalAttempts: len(attempts),
		Questions:     make([]model.QuestionAnalytics, 0, len(quiz.Questions)),
	}

	correctCounts := make(map[string]int, len(quiz.Questions))
	wrongStats := make(map[string]map[string]*wrongAnswerStat, len(quiz.Questions))
	seq := 0

	scoreSum := 0.0
	passedCount := 0
	timeSum := 0.0
	timedCount := 0

	for ai := range attempts {
		attempt := &attempts[ai]
		scoreSum += attempt.Score
		if attempt.Passed {
			passedCount++
		}
		if attempt.TimeSpentSec > 0 {
			timeSum += float64(attempt.TimeSpentSec)
			timedCount++
		}

		// 判定对错优先使用该记录完成时的快照
		gradingQuiz := quiz
		if snap, err := attempt.SnapshottedQuiz(); err == nil && snap != nil {
			gradingQuiz = snap
		}
		byID := make(map[string]*model.Question, len(gradingQuiz.Questions))
		for qi := range gradingQuiz.Questions {
			byID[gradingQuiz.Questions[qi].ID] = &gradingQuiz.Questions[qi]
		}

		for qi := range quiz.Questions {
			qid := quiz.Questions[qi].ID
			question, ok := byID[qid]
			if !ok {
				continue
			}
			submitted, answered := attempt.Answers[qid]
			if answered && question.IsAnswerCorrect(submitted) {
				correctCounts[qid]++
				continue
			}
			if !answered || len(submitted) == 0 {
				continue // 未作答计为错误，但不进高频错误答案
			}
			key := canonicalAnswer(submitted)
			if wrongStats[qid] == nil {
				wrongStats[qid] = map[string]*wrongAnswerStat{}
			}
			stat, ok := wrongStats[qid][key]
			if !ok {
				stat = &wrongAnswerStat{value: submitted, firstSeen: seq}
				seq++
				wrongStats[qid][key] = stat
			}
			stat.count++
		}
	}

	if len(attempts) > 0 {
		analytics.AverageScore = scoreSum / float64(len(attempts))
		analytics.PassRate = float64(passedCount) / float64(len(attempts))
	}
	if timedCount > 0 {
		analytics.AverageTimeSec = timeSum / float64(timedCount)
	}

	for qi := range quiz.Questions {
		qid := quiz.Questions[qi].ID
		qa := model.QuestionAnalytics{
			QuestionID:         qid,
			CommonWrongAnswers: []model.WrongAnswer{},
		}
		if len(attempts) > 0 {
			qa.CorrectRate = float64(correctCounts[qid]) / float64(len(attempts))
		}

		stats := make([]*wrongAnswerStat, 0, len(wrongStats[qid]))
		for _, stat := range wrongStats[qid] {
			stats = append(stats, stat)
		}
		// 频次降序，同频按首次出现顺序
		sort.SliceStable(stats, func(i, j int) bool {
			if stats[i].count != stats[j].count {
				return stats[i].count > stats[j].count
			}
			return stats[i].firstSeen < stats[j].firstSeen
		})
		if topWrongN > 0 && len(stats) > topWrongN {
			stats = stats[:topWrongN]
		}
		for _, stat := range stats {
			qa.CommonWrongAnswers = append(qa.CommonWrongAnswers, model.WrongAnswer{Value: stat.value, Count: stat.count})
		}

		analytics.Questions = append(analytics.Questions, qa)
	}

	return analytics
}

// canonicalAnswer 把提交值规整为与顺序无关的键
func canonicalAnswer(submitted []string) string {
	sorted := make([]string, len(submitted))
	copy(sorted, submitted)
	sort.Strings(sorted)
	return strings.Join(sorted, "\x1f")
}
