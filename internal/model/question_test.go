package model

import (
	"testing"
)

func TestIsAnswerCorrect(t *testing.T) {
	single := Question{
		UUIDBase:      UUIDBase{ID: "q-single"},
		Type:          SingleChoice,
		Prompt:        "2+2=?",
		Options:       []string{"3", "4", "5"},
		CorrectAnswer: []string{"4"},
		Points:        5,
	}
	boolean := Question{
		UUIDBase:      UUIDBase{ID: "q-bool"},
		Type:          TrueFalse,
		Prompt:        "Go 有泛型",
		CorrectAnswer: []string{"true"},
		Points:        2,
	}
	multi := Question{
		UUIDBase:      UUIDBase{ID: "q-multi"},
		Type:          MultipleSelect,
		Prompt:        "选出所有质数",
		Options:       []string{"A", "B", "C", "D"},
		CorrectAnswer: []string{"A", "C"},
		Points:        10,
	}

	cases := []struct {
		name      string
		question  Question
		submitted []string
		want      bool
	}{
		{"单选正确", single, []string{"4"}, true},
		{"单选错误", single, []string{"3"}, false},
		{"单选多个值不算对", single, []string{"4", "3"}, false},
		{"单选空提交", single, nil, false},
		{"判断正确", boolean, []string{"true"}, true},
		{"判断错误", boolean, []string{"false"}, false},
		{"多选顺序无关", multi, []string{"C", "A"}, true},
		{"多选原顺序", multi, []string{"A", "C"}, true},
		{"多选缺一个不给分", multi, []string{"A"}, false},
		{"多选多选一个不给分", multi, []string{"A", "C", "B"}, false},
		{"多选空提交", multi, []string{}, false},
		{"多选重复元素不算集合相等", multi, []string{"A", "A"}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.question.IsAnswerCorrect(tc.submitted); got != tc.want {
				t.Errorf("IsAnswerCorrect(%v) = %v, want %v", tc.submitted, got, tc.want)
			}
		})
	}
}

func TestQuestionValidate(t *testing.T) {
	cases := []struct {
		name     string
		question Question
		wantErr  bool
	}{
		{
			"合法单选",
			Question{Type: SingleChoice, Prompt: "p", Options: []string{"a", "b"}, CorrectAnswer: []string{"a"}, Points: 1},
			false,
		},
		{
			"分值必须为正",
			Question{Type: SingleChoice, Prompt: "p", Options: []string{"a", "b"}, CorrectAnswer: []string{"a"}, Points: 0},
			true,
		},
		{
			"题干不能为空",
			Question{Type: SingleChoice, Options: []string{"a", "b"}, CorrectAnswer: []string{"a"}, Points: 1},
			true,
		},
		{
			"单选至少两个选项",
			Question{Type: SingleChoice, Prompt: "p", Options: []string{"a"}, CorrectAnswer: []string{"a"}, Points: 1},
			true,
		},
		{
			"单选必须恰好一个答案",
			Question{Type: SingleChoice, Prompt: "p", Options: []string{"a", "b"}, CorrectAnswer: []string{"a", "b"}, Points: 1},
			true,
		},
		{
			"答案必须在选项中",
			Question{Type: SingleChoice, Prompt: "p", Options: []string{"a", "b"}, CorrectAnswer: []string{"c"}, Points: 1},
			true,
		},
		{
			"合法判断题无需选项",
			Question{Type: TrueFalse, Prompt: "p", CorrectAnswer: []string{"false"}, Points: 1},
			false,
		},
		{
			"判断题答案限 true/false",
			Question{Type: TrueFalse, Prompt: "p", CorrectAnswer: []string{"yes"}, Points: 1},
			true,
		},
		{
			"合法多选",
			Question{Type: MultipleSelect, Prompt: "p", Options: []string{"a", "b", "c"}, CorrectAnswer: []string{"a", "c"}, Points: 1},
			false,
		},
		{
			"多选正确集合不能为空",
			Question{Type: MultipleSelect, Prompt: "p", Options: []string{"a", "b"}, CorrectAnswer: nil, Points: 1},
			true,
		},
		{
			"未知题型",
			Question{Type: "essay", Prompt: "p", Points: 1},
			true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.question.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
			if err != nil {
				if _, ok := err.(*ValidationError); !ok {
					t.Errorf("Validate() returned %T, want *ValidationError", err)
				}
			}
		})
	}
}
