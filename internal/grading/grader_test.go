package grading

import (
	"testing"

	"github.com/elvinbay/sinaq/internal/model"
)

const (
	optA = "6f1f3f1a-9f6e-4a3e-8c2d-111111111111"
	optB = "6f1f3f1a-9f6e-4a3e-8c2d-222222222222"
	optC = "6f1f3f1a-9f6e-4a3e-8c2d-333333333333"
)

func strPtr(s string) *string { return &s }

func choiceQuestion(ref string) *model.Question {
	return &model.Question{
		Kind:             model.KindMultipleChoice,
		MaxPoints:        4,
		CorrectAnswerRef: ref,
		Options: []model.Option{
			{ID: optC, Order: 2},
			{ID: optA, Order: 0},
			{ID: optB, Order: 1},
		},
	}
}

func TestGradeMultipleChoice(t *testing.T) {
	tests := []struct {
		name        string
		ref         string
		optionID    *string
		wantCorrect bool
		wantPoints  int
	}{
		{name: "option id ref match", ref: optB, optionID: strPtr(optB), wantCorrect: true, wantPoints: 4},
		{name: "option id ref mismatch", ref: optB, optionID: strPtr(optA), wantCorrect: false},
		{name: "legacy index resolves by order", ref: "1", optionID: strPtr(optB), wantCorrect: true, wantPoints: 4},
		{name: "legacy index zero", ref: "0", optionID: strPtr(optA), wantCorrect: true, wantPoints: 4},
		{name: "legacy index wrong option", ref: "2", optionID: strPtr(optA), wantCorrect: false},
		{name: "index out of range", ref: "7", optionID: strPtr(optA), wantCorrect: false},
		{name: "negative index", ref: "-1", optionID: strPtr(optA), wantCorrect: false},
		{name: "unparseable ref", ref: "abc", optionID: strPtr(optA), wantCorrect: false},
		{name: "empty ref", ref: "", optionID: strPtr(optA), wantCorrect: false},
		{name: "no option selected", ref: optB, optionID: nil, wantCorrect: false},
	}

	g := NewGrader(DefaultConfig())
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			q := choiceQuestion(tc.ref)
			a := &model.Answer{OptionID: tc.optionID}
			correct, points := g.Grade(q, a)
			if correct != tc.wantCorrect || points != tc.wantPoints {
				t.Fatalf("Grade = (%v, %d), want (%v, %d)", correct, points, tc.wantCorrect, tc.wantPoints)
			}
		})
	}
}

func TestGradeOpenEnded(t *testing.T) {
	tests := []struct {
		name        string
		modelAnswer string
		freeText    *string
		maxPoints   int
		wantCorrect bool
		wantPoints  int
	}{
		{
			name:        "exact after normalization",
			modelAnswer: "The Capital is Paris.",
			freeText:    strPtr("the capital   is paris"),
			maxPoints:   5,
			wantCorrect: true,
			wantPoints:  5,
		},
		{
			// Single strong token against a two-token model answer sits at
			// 0.5, below the 0.6 threshold. Regression for the heuristic's
			// bluntness on short answers.
			name:        "paris alone scores zero",
			modelAnswer: "the capital is paris",
			freeText:    strPtr("Paris"),
			maxPoints:   5,
			wantCorrect: false,
			wantPoints:  0,
		},
		{
			name:        "two of three tokens passes threshold",
			modelAnswer: "the capital is paris france",
			freeText:    strPtr("paris france"),
			maxPoints:   5,
			wantCorrect: true,
			wantPoints:  3, // round(5 * 2/3)
		},
		{
			name:        "half point rounds away from zero",
			modelAnswer: "alpha beta gamma delta",
			freeText:    strPtr("alpha beta gamma"),
			maxPoints:   6,
			wantCorrect: true,
			wantPoints:  5, // round(6 * 0.75) = round(4.5)
		},
		{
			name:        "substring match still below threshold",
			modelAnswer: "photosynthesis",
			freeText:    strPtr("photosynthesis process"),
			maxPoints:   4,
			wantCorrect: false, // 1 match / max(2,1) = 0.5
			wantPoints:  0,
		},
		{
			name:        "empty student answer",
			modelAnswer: "the capital is paris",
			freeText:    strPtr("   "),
			maxPoints:   5,
			wantCorrect: false,
		},
		{
			name:        "missing student answer",
			modelAnswer: "the capital is paris",
			freeText:    nil,
			maxPoints:   5,
			wantCorrect: false,
		},
		{
			name:        "empty model answer",
			modelAnswer: "",
			freeText:    strPtr("paris"),
			maxPoints:   5,
			wantCorrect: false,
		},
		{
			name:        "only short tokens on both sides",
			modelAnswer: "is it on",
			freeText:    strPtr("it is"),
			maxPoints:   5,
			wantCorrect: false,
		},
	}

	g := NewGrader(DefaultConfig())
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			q := &model.Question{Kind: model.KindOpenEnded, MaxPoints: tc.maxPoints, ModelAnswerText: tc.modelAnswer}
			a := &model.Answer{FreeText: tc.freeText}
			correct, points := g.Grade(q, a)
			if correct != tc.wantCorrect || points != tc.wantPoints {
				t.Fatalf("Grade = (%v, %d), want (%v, %d)", correct, points, tc.wantCorrect, tc.wantPoints)
			}
		})
	}
}

func TestGradeUnknownKind(t *testing.T) {
	g := NewGrader(DefaultConfig())
	q := &model.Question{Kind: "essay_upload", MaxPoints: 10}
	correct, points := g.Grade(q, &model.Answer{FreeText: strPtr("anything")})
	if correct || points != 0 {
		t.Fatalf("unknown kind graded as (%v, %d), want (false, 0)", correct, points)
	}
}

func TestGradeDeterministic(t *testing.T) {
	g := NewGrader(DefaultConfig())
	q := &model.Question{Kind: model.KindOpenEnded, MaxPoints: 5, ModelAnswerText: "the capital is paris france"}
	a := &model.Answer{FreeText: strPtr("paris france")}
	c1, p1 := g.Grade(q, a)
	c2, p2 := g.Grade(q, a)
	if c1 != c2 || p1 != p2 {
		t.Fatalf("Grade not deterministic: (%v,%d) then (%v,%d)", c1, p1, c2, p2)
	}
}

func TestGradeCustomThreshold(t *testing.T) {
	g := NewGrader(Config{SimilarityThreshold: 0.5, MinTokenLength: 2})
	q := &model.Question{Kind: model.KindOpenEnded, MaxPoints: 4, ModelAnswerText: "the capital is paris"}
	correct, points := g.Grade(q, &model.Answer{FreeText: strPtr("Paris")})
	if !correct || points != 2 {
		t.Fatalf("with threshold 0.5 got (%v, %d), want (true, 2)", correct, points)
	}
}
