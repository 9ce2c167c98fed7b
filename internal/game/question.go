package game

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// QuestionType discriminates the five question shapes.
type QuestionType string

const (
	TypeMultipleChoice QuestionType = "multiple-choice"
	TypeImage          QuestionType = "image"
	TypeVoice          QuestionType = "voice"
	TypeRange          QuestionType = "range"
	TypeVideo          QuestionType = "video"
)

// Behavior is the interaction/validation shape a question type resolves to.
type Behavior int

const (
	// BehaviorChoice: pick one of N options, correctness by index equality.
	BehaviorChoice Behavior = iota
	// BehaviorFreeText: case-insensitive, whitespace-trimmed equality.
	BehaviorFreeText
	// BehaviorNumeric: |input - correct| <= tolerance.
	BehaviorNumeric
)

// Category is immutable reference data: a thematic grouping of questions.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Question is immutable reference data, not owned by any round. Exactly one
// of the payload pointers is set, matching Type.
type Question struct {
	ID         string
	CategoryID string
	Title      string
	Points     int
	Type       QuestionType

	Choice   *ChoicePayload
	FreeText *FreeTextPayload
	Numeric  *NumericPayload

	Media Media
}

// ChoicePayload backs multiple-choice, video, and image-with-choices
// questions.
type ChoicePayload struct {
	Choices      []string
	CorrectIndex int
}

// FreeTextPayload backs voice and image-without-choices questions.
type FreeTextPayload struct {
	CorrectAnswer string
}

// NumericPayload backs range questions.
type NumericPayload struct {
	CorrectValue float64
	Tolerance    float64
	MinValue     float64
	MaxValue     float64
	Unit         string
}

// Media holds optional presentation references. The core never interprets
// them; they ride along for the rendering layer.
type Media struct {
	ImageHint         string `json:"imageHint,omitempty"`
	ImageInstructions string `json:"imageInstructions,omitempty"`
	VideoURL          string `json:"videoUrl,omitempty"`
	VoiceURL          string `json:"voiceUrl,omitempty"`
	Transcript        string `json:"transcript,omitempty"`
}

// Submission is a player's answer to a question. ChoiceIndex is used for
// choice behavior, Text for free-text and numeric.
type Submission struct {
	ChoiceIndex *int   `json:"choiceIndex,omitempty"`
	Text        string `json:"text,omitempty"`
}

var (
	ErrNoChoiceSelected = errors.New("no choice selected")
	ErrEmptyAnswer      = errors.New("answer must not be empty")
	ErrNotANumber       = errors.New("answer is not a number")
)

// Behavior resolves the question's interaction shape from its payload.
// Image questions are choice-based when a choice list is present and
// free-text otherwise; voice is always free-text; range is numeric.
func (q Question) Behavior() Behavior {
	switch {
	case q.Numeric != nil:
		return BehaviorNumeric
	case q.Choice != nil:
		return BehaviorChoice
	default:
		return BehaviorFreeText
	}
}

// Check dispatches the submission to the validation behavior for the
// question's shape and reports correctness. It performs no persistence;
// recording the outcome is the reducer's responsibility.
func (q Question) Check(sub Submission) (bool, error) {
	switch q.Behavior() {
	case BehaviorChoice:
		if sub.ChoiceIndex == nil {
			return false, ErrNoChoiceSelected
		}
		return *sub.ChoiceIndex == q.Choice.CorrectIndex, nil

	case BehaviorFreeText:
		answer := strings.TrimSpace(sub.Text)
		if answer == "" {
			return false, ErrEmptyAnswer
		}
		return strings.EqualFold(answer, strings.TrimSpace(q.FreeText.CorrectAnswer)), nil

	case BehaviorNumeric:
		answer := strings.TrimSpace(sub.Text)
		if answer == "" {
			return false, ErrEmptyAnswer
		}
		v, err := strconv.ParseFloat(answer, 64)
		if err != nil {
			return false, ErrNotANumber
		}
		return math.Abs(v-q.Numeric.CorrectValue) <= q.Numeric.Tolerance, nil
	}

	return false, fmt.Errorf("question %q: unsupported type %q", q.ID, q.Type)
}

// CorrectAnswerText renders the stored correct answer for display after a
// miss.
func (q Question) CorrectAnswerText() string {
	switch q.Behavior() {
	case BehaviorChoice:
		if q.Choice.CorrectIndex >= 0 && q.Choice.CorrectIndex < len(q.Choice.Choices) {
			return q.Choice.Choices[q.Choice.CorrectIndex]
		}
		return ""
	case BehaviorFreeText:
		return q.FreeText.CorrectAnswer
	case BehaviorNumeric:
		return strconv.FormatFloat(q.Numeric.CorrectValue, 'f', -1, 64)
	}
	return ""
}
