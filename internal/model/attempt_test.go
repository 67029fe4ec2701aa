package model

import (
	"testing"
	"time"
)

func TestAttemptExpiry(t *testing.T) {
	started := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	attempt := Attempt{
		UUIDBase:  UUIDBase{ID: "attempt-1"},
		Status:    AttemptInProgress,
		StartedAt: started,
	}

	t.Run("不限时没有截止时间", func(t *testing.T) {
		if got := attempt.ExpiresAt(0); got != nil {
			t.Errorf("ExpiresAt(0) = %v, want nil", got)
		}
		if attempt.IsExpired(started.Add(100*time.Hour), 0) {
			t.Error("untimed attempt should never expire")
		}
		if got := attempt.RemainingSeconds(started, 0); got != -1 {
			t.Errorf("RemainingSeconds = %d, want -1", got)
		}
	})

	t.Run("限时30分钟", func(t *testing.T) {
		deadline := attempt.ExpiresAt(30)
		if deadline == nil || !deadline.Equal(started.Add(30*time.Minute)) {
			t.Fatalf("ExpiresAt(30) = %v", deadline)
		}

		if attempt.IsExpired(started.Add(29*time.Minute), 30) {
			t.Error("should not be expired before the deadline")
		}
		if !attempt.IsExpired(started.Add(31*time.Minute), 30) {
			t.Error("should be expired after the deadline")
		}

		if got := attempt.RemainingSeconds(started.Add(29*time.Minute), 30); got != 60 {
			t.Errorf("RemainingSeconds = %d, want 60", got)
		}
		if got := attempt.RemainingSeconds(started.Add(31*time.Minute), 30); got != 0 {
			t.Errorf("RemainingSeconds after deadline = %d, want 0", got)
		}
	})

	t.Run("已完成的记录不再过期", func(t *testing.T) {
		done := attempt
		done.Status = AttemptCompleted
		if done.IsExpired(started.Add(time.Hour), 30) {
			t.Error("completed attempt should not report expired")
		}
	})
}

func TestQuizSnapshotRoundTrip(t *testing.T) {
	quiz := &Quiz{
		UUIDBase:     UUIDBase{ID: "quiz-1"},
		Title:        "快照测试",
		PassingScore: 70,
		Questions: []Question{
			{
				UUIDBase:      UUIDBase{ID: "q1"},
				Type:          MultipleSelect,
				Prompt:        "p",
				Options:       []string{"a", "b", "c"},
				CorrectAnswer: []string{"a", "b"},
				Points:        4,
			},
		},
	}

	attempt := Attempt{UUIDBase: UUIDBase{ID: "attempt-1"}}

	if got, err := attempt.SnapshottedQuiz(); err != nil || got != nil {
		t.Fatalf("empty snapshot: got %v, err %v", got, err)
	}

	if err := attempt.SnapshotQuiz(quiz); err != nil {
		t.Fatalf("SnapshotQuiz() error = %v", err)
	}

	restored, err := attempt.SnapshottedQuiz()
	if err != nil {
		t.Fatalf("SnapshottedQuiz() error = %v", err)
	}
	if restored == nil {
		t.Fatal("SnapshottedQuiz() = nil")
	}
	if restored.ID != quiz.ID || restored.PassingScore != quiz.PassingScore {
		t.Errorf("restored quiz = %+v", restored)
	}
	if len(restored.Questions) != 1 || len(restored.Questions[0].CorrectAnswer) != 2 {
		t.Errorf("restored questions = %+v", restored.Questions)
	}
}
