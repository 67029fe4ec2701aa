package service

import (
	"errors"
	"quizhub_backend/internal/model"
	"testing"
)

func scoringQuiz() *model.Quiz {
	return &model.Quiz{
		UUIDBase:     model.UUIDBase{ID: "quiz-1"},
		Title:        "加权测验",
		PassingScore: 50,
		Questions: []model.Question{
			{
				UUIDBase:      model.UUIDBase{ID: "q1"},
				Type:          model.SingleChoice,
				Prompt:        "p1",
				Options:       []string{"a", "b"},
				CorrectAnswer: []string{"a"},
				Points:        5,
				Position:      0,
			},
			{
				UUIDBase:      model.UUIDBase{ID: "q2"},
				Type:          model.MultipleSelect,
				Prompt:        "p2",
				Options:       []string{"x", "y", "z"},
				CorrectAnswer: []string{"x", "z"},
				Points:        5,
				Position:      1,
			},
		},
	}
}

func TestScoreAttempt(t *testing.T) {
	cases := []struct {
		name           string
		answers        map[string][]string
		wantPercentage float64
		wantPassed     bool
		wantEarned     float64
	}{
		{
			"全对",
			map[string][]string{"q1": {"a"}, "q2": {"z", "x"}},
			100, true, 10,
		},
		{
			"对一半恰好踩在及格线上",
			map[string][]string{"q1": {"a"}, "q2": {"x"}},
			50, true, 5,
		},
		{
			"全错",
			map[string][]string{"q1": {"b"}, "q2": {"y"}},
			0, false, 0,
		},
		{
			"未作答按错误计",
			map[string][]string{"q1": {"a"}},
			50, true, 5,
		},
		{
			"空答卷",
			map[string][]string{},
			0, false, 0,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			quiz := scoringQuiz()
			result, err := ScoreAttempt(quiz, tc.answers)
			if err != nil {
				t.Fatalf("ScoreAttempt() error = %v", err)
			}
			if result.Percentage != tc.wantPercentage {
				t.Errorf("Percentage = %v, want %v", result.Percentage, tc.wantPercentage)
			}
			if result.Passed != tc.wantPassed {
				t.Errorf("Passed = %v, want %v", result.Passed, tc.wantPassed)
			}
			if result.EarnedPoints != tc.wantEarned {
				t.Errorf("EarnedPoints = %v, want %v", result.EarnedPoints, tc.wantEarned)
			}
			if result.TotalPoints != 10 {
				t.Errorf("TotalPoints = %v, want 10", result.TotalPoints)
			}
			if len(result.Breakdown) != 2 {
				t.Fatalf("Breakdown length = %d, want 2", len(result.Breakdown))
			}
		})
	}
}

func TestScoreAttemptBreakdown(t *testing.T) {
	quiz := scoringQuiz()
	result, err := ScoreAttempt(quiz, map[string][]string{"q1": {"b"}})
	if err != nil {
		t.Fatalf("ScoreAttempt() error = %v", err)
	}

	q1 := result.Breakdown[0]
	if q1.QuestionID != "q1" || !q1.Answered || q1.Correct || q1.PointsEarned != 0 || q1.PointsPossible != 5 {
		t.Errorf("q1 breakdown = %+v", q1)
	}

	q2 := result.Breakdown[1]
	if q2.QuestionID != "q2" || q2.Answered || q2.Correct {
		t.Errorf("q2 breakdown = %+v", q2)
	}
}

func TestScoreAttemptDeterministic(t *testing.T) {
	quiz := scoringQuiz()
	answers := map[string][]string{"q1": {"a"}, "q2": {"x", "z"}}

	first, err := ScoreAttempt(quiz, answers)
	if err != nil {
		t.Fatalf("ScoreAttempt() error = %v", err)
	}
	second, err := ScoreAttempt(quiz, answers)
	if err != nil {
		t.Fatalf("ScoreAttempt() error = %v", err)
	}
	if first.Percentage != second.Percentage || first.Passed != second.Passed {
		t.Errorf("same input produced different results: %+v vs %+v", first, second)
	}
}

func TestScoreAttemptEmptyQuiz(t *testing.T) {
	quiz := &model.Quiz{UUIDBase: model.UUIDBase{ID: "quiz-empty"}, Title: "空", PassingScore: 60}

	_, err := ScoreAttempt(quiz, map[string][]string{})
	if err == nil {
		t.Fatal("scoring an empty quiz should fail")
	}
	var emptyErr *model.EmptyQuizError
	if !errors.As(err, &emptyErr) {
		t.Errorf("error = %T, want *model.EmptyQuizError", err)
	}
}
