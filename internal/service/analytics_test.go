package service

import (
	"math"
	"quizhub_backend/internal/model"
	"testing"
)

func analyticsQuiz() *model.Quiz {
	return &model.Quiz{
		UUIDBase:     model.UUIDBase{ID: "quiz-1"},
		Title:        "统计测验",
		PassingScore: 60,
		Questions: []model.Question{
			{
				UUIDBase:      model.UUIDBase{ID: "q1"},
				Type:          model.SingleChoice,
				Prompt:        "p1",
				Options:       []string{"a", "b", "c"},
				CorrectAnswer: []string{"a"},
				Points:        5,
				Position:      0,
			},
			{
				UUIDBase:      model.UUIDBase{ID: "q2"},
				Type:          model.MultipleSelect,
				Prompt:        "p2",
				Options:       []string{"x", "y", "z"},
				CorrectAnswer: []string{"x", "y"},
				Points:        5,
				Position:      1,
			},
		},
	}
}

func completedAttempt(id string, score float64, passed bool, timeSpent int, answers map[string][]string) model.Attempt {
	return model.Attempt{
		UUIDBase:     model.UUIDBase{ID: id},
		QuizID:       "quiz-1",
		Status:       model.AttemptCompleted,
		Answers:      answers,
		Score:        score,
		Passed:       passed,
		TimeSpentSec: timeSpent,
	}
}

func TestAggregateAttemptsEmpty(t *testing.T) {
	analytics := AggregateAttempts(analyticsQuiz(), nil, 5)

	if analytics.TotalAttempts != 0 {
		t.Errorf("TotalAttempts = %d, want 0", analytics.TotalAttempts)
	}
	for name, v := range map[string]float64{
		"AverageScore":   analytics.AverageScore,
		"PassRate":       analytics.PassRate,
		"AverageTimeSec": analytics.AverageTimeSec,
	} {
		if v != 0 || math.IsNaN(v) {
			t.Errorf("%s = %v, want 0", name, v)
		}
	}
	if len(analytics.Questions) != 2 {
		t.Fatalf("Questions length = %d, want 2", len(analytics.Questions))
	}
	for _, qa := range analytics.Questions {
		if qa.CorrectRate != 0 {
			t.Errorf("CorrectRate = %v, want 0", qa.CorrectRate)
		}
		if qa.CommonWrongAnswers == nil || len(qa.CommonWrongAnswers) != 0 {
			t.Errorf("CommonWrongAnswers = %v, want empty slice", qa.CommonWrongAnswers)
		}
	}
}

func TestAggregateAttemptsAverages(t *testing.T) {
	attempts := []model.Attempt{
		completedAttempt("a1", 100, true, 120, map[string][]string{"q1": {"a"}, "q2": {"y", "x"}}),
		completedAttempt("a2", 0, false, 0, map[string][]string{"q1": {"b"}, "q2": {"z"}}),
	}

	analytics := AggregateAttempts(analyticsQuiz(), attempts, 5)

	if analytics.TotalAttempts != 2 {
		t.Errorf("TotalAttempts = %d, want 2", analytics.TotalAttempts)
	}
	if analytics.AverageScore != 50 {
		t.Errorf("AverageScore = %v, want 50", analytics.AverageScore)
	}
	if analytics.PassRate != 0.5 {
		t.Errorf("PassRate = %v, want 0.5", analytics.PassRate)
	}
	// 平均用时只统计有记录的答题
	if analytics.AverageTimeSec != 120 {
		t.Errorf("AverageTimeSec = %v, want 120", analytics.AverageTimeSec)
	}

	if analytics.Questions[0].CorrectRate != 0.5 {
		t.Errorf("q1 CorrectRate = %v, want 0.5", analytics.Questions[0].CorrectRate)
	}
	if analytics.Questions[1].CorrectRate != 0.5 {
		t.Errorf("q2 CorrectRate = %v, want 0.5", analytics.Questions[1].CorrectRate)
	}
}

func TestAggregateAttemptsCommonWrongAnswers(t *testing.T) {
	wrong := func(id string, q1 []string) model.Attempt {
		return completedAttempt(id, 0, false, 60, map[string][]string{"q1": q1})
	}

	attempts := []model.Attempt{
		wrong("a1", []string{"b"}),
		wrong("a2", []string{"c"}),
		wrong("a3", []string{"b"}),
		wrong("a4", []string{"b"}),
		wrong("a5", []string{"c"}),
		// 未作答 q1：计为错误但不进高频错误答案
		completedAttempt("a6", 0, false, 60, map[string][]string{}),
	}

	analytics := AggregateAttempts(analyticsQuiz(), attempts, 5)
	got := analytics.Questions[0].CommonWrongAnswers

	if len(got) != 2 {
		t.Fatalf("CommonWrongAnswers length = %d, want 2: %+v", len(got), got)
	}
	if got[0].Value[0] != "b" || got[0].Count != 3 {
		t.Errorf("top wrong answer = %+v, want b x3", got[0])
	}
	if got[1].Value[0] != "c" || got[1].Count != 2 {
		t.Errorf("second wrong answer = %+v, want c x2", got[1])
	}
}

func TestAggregateAttemptsWrongAnswerTieBreak(t *testing.T) {
	wrong := func(id string, q1 []string) model.Attempt {
		return completedAttempt(id, 0, false, 60, map[string][]string{"q1": q1})
	}

	// b 和 c 各出现一次，b 先出现
	attempts := []model.Attempt{
		wrong("a1", []string{"b"}),
		wrong("a2", []string{"c"}),
	}

	analytics := AggregateAttempts(analyticsQuiz(), attempts, 5)
	got := analytics.Questions[0].CommonWrongAnswers

	if len(got) != 2 || got[0].Value[0] != "b" || got[1].Value[0] != "c" {
		t.Errorf("tie-break order = %+v, want b before c", got)
	}
}

func TestAggregateAttemptsTopNTruncation(t *testing.T) {
	wrong := func(id string, v string) model.Attempt {
		return completedAttempt(id, 0, false, 60, map[string][]string{"q1": {v}})
	}

	attempts := []model.Attempt{
		wrong("a1", "b"),
		wrong("a2", "c"),
		wrong("a3", "d"),
	}

	analytics := AggregateAttempts(analyticsQuiz(), attempts, 2)
	got := analytics.Questions[0].CommonWrongAnswers
	if len(got) != 2 {
		t.Errorf("CommonWrongAnswers length = %d, want 2 (truncated)", len(got))
	}
}

func TestAggregateAttemptsMultiSelectCanonical(t *testing.T) {
	// 同一错误集合的不同提交顺序应合并为一条
	attempts := []model.Attempt{
		completedAttempt("a1", 0, false, 60, map[string][]string{"q2": {"y", "z"}}),
		completedAttempt("a2", 0, false, 60, map[string][]string{"q2": {"z", "y"}}),
	}

	analytics := AggregateAttempts(analyticsQuiz(), attempts, 5)
	got := analytics.Questions[1].CommonWrongAnswers

	if len(got) != 1 {
		t.Fatalf("CommonWrongAnswers length = %d, want 1: %+v", len(got), got)
	}
	if got[0].Count != 2 {
		t.Errorf("merged count = %d, want 2", got[0].Count)
	}
}

func TestAggregateAttemptsUsesSnapshot(t *testing.T) {
	quiz := analyticsQuiz()

	// 该记录完成时 q1 的正确答案是 b
	oldQuiz := analyticsQuiz()
	oldQuiz.Questions[0].CorrectAnswer = []string{"b"}

	attempt := completedAttempt("a1", 100, true, 60, map[string][]string{"q1": {"b"}})
	if err := attempt.SnapshotQuiz(oldQuiz); err != nil {
		t.Fatalf("SnapshotQuiz() error = %v", err)
	}

	analytics := AggregateAttempts(quiz, []model.Attempt{attempt}, 5)

	// 按快照 b 是正确答案，不应出现在高频错误里
	if analytics.Questions[0].CorrectRate != 1 {
		t.Errorf("CorrectRate = %v, want 1 (graded against snapshot)", analytics.Questions[0].CorrectRate)
	}
	if len(analytics.Questions[0].CommonWrongAnswers) != 0 {
		t.Errorf("CommonWrongAnswers = %+v, want empty", analytics.Questions[0].CommonWrongAnswers)
	}
}
