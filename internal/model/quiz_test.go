package model

import (
	"errors"
	"testing"
)

func validQuestion(id string, position int, points float64) Question {
	return Question{
		UUIDBase:      UUIDBase{ID: id},
		Type:          SingleChoice,
		Prompt:        "prompt " + id,
		Options:       []string{"a", "b", "c"},
		CorrectAnswer: []string{"a"},
		Points:        points,
		Position:      position,
	}
}

func TestQuizValidate(t *testing.T) {
	base := func() Quiz {
		return Quiz{
			UUIDBase:     UUIDBase{ID: "quiz-1"},
			Title:        "期中测验",
			PassingScore: 60,
			Questions: []Question{
				validQuestion("q1", 0, 5),
				validQuestion("q2", 1, 5),
			},
		}
	}

	cases := []struct {
		name    string
		mutate  func(*Quiz)
		wantErr bool
	}{
		{"合法测验", func(q *Quiz) {}, false},
		{"标题必填", func(q *Quiz) { q.Title = "" }, true},
		{"及格线为零", func(q *Quiz) { q.PassingScore = 0 }, true},
		{"及格线超过100", func(q *Quiz) { q.PassingScore = 100.5 }, true},
		{"及格线恰好100", func(q *Quiz) { q.PassingScore = 100 }, false},
		{"负的最大次数", func(q *Quiz) { q.MaxAttempts = -1 }, true},
		{"零表示不限次数", func(q *Quiz) { q.MaxAttempts = 0 }, false},
		{"题目位置重复", func(q *Quiz) { q.Questions[1].Position = 0 }, true},
		{"题目ID重复", func(q *Quiz) { q.Questions[1].ID = "q1" }, true},
		{"携带非法题目", func(q *Quiz) { q.Questions[0].Points = -1 }, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			quiz := base()
			tc.mutate(&quiz)
			err := quiz.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestTotalPoints(t *testing.T) {
	quiz := Quiz{
		UUIDBase: UUIDBase{ID: "quiz-1"},
		Questions: []Question{
			validQuestion("q1", 0, 2.5),
			validQuestion("q2", 1, 7.5),
		},
	}

	total, err := quiz.TotalPoints()
	if err != nil {
		t.Fatalf("TotalPoints() error = %v", err)
	}
	if total != 10 {
		t.Errorf("TotalPoints() = %v, want 10", total)
	}

	empty := Quiz{UUIDBase: UUIDBase{ID: "quiz-empty"}}
	if _, err := empty.TotalPoints(); err == nil {
		t.Fatal("TotalPoints() on empty quiz should fail")
	} else {
		var eqErr *EmptyQuizError
		if !errors.As(err, &eqErr) {
			t.Errorf("TotalPoints() error = %T, want *EmptyQuizError", err)
		}
	}
}

func TestNormalizePositions(t *testing.T) {
	quiz := Quiz{
		Questions: []Question{
			validQuestion("q3", 7, 1),
			validQuestion("q1", 2, 1),
			validQuestion("q2", 5, 1),
		},
	}

	quiz.NormalizePositions()

	wantOrder := []string{"q1", "q2", "q3"}
	for i, id := range wantOrder {
		if quiz.Questions[i].ID != id {
			t.Errorf("question[%d].ID = %s, want %s", i, quiz.Questions[i].ID, id)
		}
		if quiz.Questions[i].Position != i {
			t.Errorf("question[%d].Position = %d, want %d", i, quiz.Questions[i].Position, i)
		}
	}
}

func TestEffectiveQuestionOrder(t *testing.T) {
	newQuiz := func() Quiz {
		return Quiz{
			UUIDBase: UUIDBase{ID: "quiz-1"},
			Questions: []Question{
				validQuestion("q1", 0, 1),
				validQuestion("q2", 1, 1),
				validQuestion("q3", 2, 1),
				validQuestion("q4", 3, 1),
				validQuestion("q5", 4, 1),
			},
		}
	}

	t.Run("未开启乱序按位置输出", func(t *testing.T) {
		quiz := newQuiz()
		ordered := quiz.EffectiveQuestionOrder(ShuffleSeed("attempt-1"))
		for i, q := range ordered {
			if q.Position != i {
				t.Errorf("position %d at index %d", q.Position, i)
			}
		}
	})

	t.Run("同一种子顺序稳定", func(t *testing.T) {
		quiz := newQuiz()
		quiz.RandomizeQuestions = true
		seed := ShuffleSeed("attempt-1")

		first := quiz.EffectiveQuestionOrder(seed)
		second := quiz.EffectiveQuestionOrder(seed)
		if len(first) != len(second) {
			t.Fatalf("length mismatch: %d vs %d", len(first), len(second))
		}
		for i := range first {
			if first[i].ID != second[i].ID {
				t.Errorf("index %d: %s vs %s", i, first[i].ID, second[i].ID)
			}
		}
	})

	t.Run("洗牌只是重排不丢题", func(t *testing.T) {
		quiz := newQuiz()
		quiz.RandomizeQuestions = true

		ordered := quiz.EffectiveQuestionOrder(ShuffleSeed("attempt-2"))
		seen := map[string]bool{}
		for _, q := range ordered {
			seen[q.ID] = true
		}
		if len(seen) != len(quiz.Questions) {
			t.Errorf("shuffled set has %d unique questions, want %d", len(seen), len(quiz.Questions))
		}
	})

	t.Run("仅乱序选项保持题目顺序", func(t *testing.T) {
		quiz := newQuiz()
		quiz.RandomizeAnswers = true

		ordered := quiz.EffectiveQuestionOrder(ShuffleSeed("attempt-3"))
		for i, q := range ordered {
			if q.Position != i {
				t.Errorf("question order changed: position %d at index %d", q.Position, i)
			}
			if len(q.Options) != 3 {
				t.Errorf("option count changed: %d", len(q.Options))
			}
		}
		// 原始数据不被就地修改
		if quiz.Questions[0].Options[0] != "a" {
			t.Error("shuffle mutated the source quiz options")
		}
	})
}

func TestShuffleSeed(t *testing.T) {
	if ShuffleSeed("attempt-1") != ShuffleSeed("attempt-1") {
		t.Error("same attempt id should derive the same seed")
	}
	if ShuffleSeed("attempt-1") == ShuffleSeed("attempt-2") {
		t.Error("different attempt ids should derive different seeds")
	}
}
