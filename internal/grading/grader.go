package grading

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/elvinbay/sinaq/internal/model"
)

// optionRefLength is the cutoff above which a correct-answer reference is
// treated as an option id rather than a legacy zero-based index. Option ids
// are uuids (36 chars), legacy indexes are short digit strings, so the sniff
// is unambiguous for real data; it is kept for compatibility with records
// that predate typed references.
const optionRefLength = 15

// Config carries the open-ended similarity knobs. Both values come from
// service configuration, never from package state.
type Config struct {
	SimilarityThreshold float64
	MinTokenLength      int
}

func DefaultConfig() Config {
	return Config{SimilarityThreshold: 0.6, MinTokenLength: 2}
}

// Grader scores a single answer against a single question. It is stateless;
// calling Grade twice with the same inputs yields the same result.
type Grader struct {
	cfg Config
}

func NewGrader(cfg Config) *Grader {
	return &Grader{cfg: cfg}
}

// Grade returns whether the answer counts as correct and how many points it
// earns. Malformed question data degrades to (false, 0) so one bad question
// never blocks scoring of the rest of an attempt.
func (g *Grader) Grade(question *model.Question, answer *model.Answer) (bool, int) {
	switch question.Kind {
	case model.KindMultipleChoice:
		return g.gradeMultipleChoice(question, answer)
	case model.KindOpenEnded:
		return g.gradeOpenEnded(question, answer)
	default:
		return false, 0
	}
}

func (g *Grader) gradeMultipleChoice(question *model.Question, answer *model.Answer) (bool, int) {
	selected := ""
	if answer.OptionID != nil {
		selected = *answer.OptionID
	}
	ref := question.CorrectAnswerRef
	if selected == "" || ref == "" {
		return false, 0
	}

	var correct bool
	if len(ref) > optionRefLength {
		correct = selected == ref
	} else {
		idx, err := strconv.Atoi(ref)
		if err != nil || idx < 0 {
			return false, 0
		}
		options := make([]model.Option, len(question.Options))
		copy(options, question.Options)
		sort.SliceStable(options, func(i, j int) bool { return options[i].Order < options[j].Order })
		if idx >= len(options) {
			return false, 0
		}
		correct = selected == options[idx].ID
	}

	if correct {
		return true, question.MaxPoints
	}
	return false, 0
}

func (g *Grader) gradeOpenEnded(question *model.Question, answer *model.Answer) (bool, int) {
	text := ""
	if answer.FreeText != nil {
		text = *answer.FreeText
	}
	student := Normalize(text)
	reference := Normalize(question.ModelAnswerText)
	if student == "" || reference == "" {
		return false, 0
	}
	if student == reference {
		return true, question.MaxPoints
	}

	studentTokens := g.tokenSet(student)
	referenceTokens := g.tokenSet(reference)
	if len(studentTokens) == 0 || len(referenceTokens) == 0 {
		return false, 0
	}

	matched := 0
	for _, st := range studentTokens {
		for _, rt := range referenceTokens {
			if strings.Contains(st, rt) || strings.Contains(rt, st) {
				matched++
				break
			}
		}
	}

	larger := len(studentTokens)
	if len(referenceTokens) > larger {
		larger = len(referenceTokens)
	}
	similarity := float64(matched) / float64(larger)
	if similarity < g.cfg.SimilarityThreshold {
		return false, 0
	}
	// math.Round is round-half-away-from-zero, which the original grading
	// used; points here are always non-negative.
	return true, int(math.Round(float64(question.MaxPoints) * similarity))
}

// tokenSet splits a normalized string on spaces, drops tokens at or below
// the minimum length and deduplicates while preserving first-seen order.
func (g *Grader) tokenSet(s string) []string {
	seen := make(map[string]struct{})
	var tokens []string
	for _, tok := range strings.Fields(s) {
		if len(tok) <= g.cfg.MinTokenLength {
			continue
		}
		if _, ok := seen[tok]; ok {
			continue
		}
		seen[tok] = struct{}{}
		tokens = append(tokens, tok)
	}
	return tokens
}
