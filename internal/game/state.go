package game

import "fmt"

// State is the mutable, per-round record of turn index, scores, answered
// questions, and end flag.
type State struct {
	CurrentTurnIdx    int            `json:"currentTurnIdx"`
	Scores            map[string]int `json:"scores"`
	AnsweredQuestions []string       `json:"answeredQuestions"`
	IsEnded           bool           `json:"isEnded"`
}

// NewState builds the initial state for a round: turn index 0, one zero
// score entry per team, empty answered set, not ended.
func NewState(teams []Team) State {
	scores := make(map[string]int, len(teams))
	for _, t := range teams {
		scores[t.ID] = 0
	}
	return State{
		CurrentTurnIdx:    0,
		Scores:            scores,
		AnsweredQuestions: []string{},
	}
}

// AnsweredKey is the composite key recorded for an answered question.
func AnsweredKey(categoryID, questionID string) string {
	return categoryID + "-" + questionID
}

// Answered reports whether the question has already been answered.
func (s State) Answered(categoryID, questionID string) bool {
	key := AnsweredKey(categoryID, questionID)
	for _, k := range s.AnsweredQuestions {
		if k == key {
			return true
		}
	}
	return false
}

// Event is a game-state transition input for Apply.
type Event interface {
	event()
}

// CorrectAnswer awards points to a team, marks the question answered, and
// passes the turn. The turn advances only on a correct answer.
type CorrectAnswer struct {
	TeamID     string
	Points     int
	CategoryID string
	QuestionID string
}

// IncorrectAnswer marks the question answered. Scores and turn are unchanged.
type IncorrectAnswer struct {
	CategoryID string
	QuestionID string
}

// EndGame sets the ended flag. No other field changes.
type EndGame struct{}

func (CorrectAnswer) event()   {}
func (IncorrectAnswer) event() {}
func (EndGame) event()         {}

// Apply computes the next state from the current one and a single event.
// It is pure: the input state is never mutated, scores never decrease,
// answered entries are never removed, and the turn index stays within
// [0, teamCount) for a positive teamCount. With zero teams the turn index
// is left unchanged rather than computed modulo zero.
//
// Apply does not police the ended flag; callers that must refuse events on
// an ended round enforce that (see Cache.Apply).
func Apply(s State, teamCount int, ev Event) State {
	next := s.clone()

	switch e := ev.(type) {
	case CorrectAnswer:
		next.Scores[e.TeamID] += e.Points
		if teamCount > 0 {
			next.CurrentTurnIdx = (s.CurrentTurnIdx + 1) % teamCount
		}
		next.markAnswered(e.CategoryID, e.QuestionID)
	case IncorrectAnswer:
		next.markAnswered(e.CategoryID, e.QuestionID)
	case EndGame:
		next.IsEnded = true
	default:
		panic(fmt.Sprintf("game: unknown event type %T", ev))
	}

	return next
}

func (s *State) markAnswered(categoryID, questionID string) {
	if s.Answered(categoryID, questionID) {
		return
	}
	s.AnsweredQuestions = append(s.AnsweredQuestions, AnsweredKey(categoryID, questionID))
}

func (s State) clone() State {
	scores := make(map[string]int, len(s.Scores))
	for k, v := range s.Scores {
		scores[k] = v
	}
	answered := make([]string, len(s.AnsweredQuestions))
	copy(answered, s.AnsweredQuestions)
	return State{
		CurrentTurnIdx:    s.CurrentTurnIdx,
		Scores:            scores,
		AnsweredQuestions: answered,
		IsEnded:           s.IsEnded,
	}
}

// StateUpdate is a partial game-state delta for persistence. Only non-nil
// fields are written; the merge is last-write-wins with no conflict
// detection.
type StateUpdate struct {
	CurrentTurnIdx    *int
	Scores            map[string]int
	AnsweredQuestions []string
	IsEnded           *bool
}

// Delta returns the persistence update corresponding to an applied event.
func Delta(next State, ev Event) StateUpdate {
	switch ev.(type) {
	case CorrectAnswer, IncorrectAnswer:
		idx := next.CurrentTurnIdx
		return StateUpdate{
			CurrentTurnIdx:    &idx,
			Scores:            next.Scores,
			AnsweredQuestions: next.AnsweredQuestions,
		}
	case EndGame:
		ended := true
		return StateUpdate{IsEnded: &ended}
	default:
		panic(fmt.Sprintf("game: unknown event type %T", ev))
	}
}
