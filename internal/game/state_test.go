package game

import (
	"reflect"
	"testing"
)

func twoTeams() []Team {
	return []Team{{ID: "1", Name: "A"}, {ID: "2", Name: "B"}}
}

func TestNewStateInitialization(t *testing.T) {
	s := NewState(twoTeams())

	if s.CurrentTurnIdx != 0 {
		t.Errorf("CurrentTurnIdx = %d, want 0", s.CurrentTurnIdx)
	}
	if want := map[string]int{"1": 0, "2": 0}; !reflect.DeepEqual(s.Scores, want) {
		t.Errorf("Scores = %v, want %v", s.Scores, want)
	}
	if len(s.AnsweredQuestions) != 0 {
		t.Errorf("AnsweredQuestions = %v, want empty", s.AnsweredQuestions)
	}
	if s.IsEnded {
		t.Error("IsEnded = true, want false")
	}
}

func TestApplyCorrectAnswer(t *testing.T) {
	s := NewState(twoTeams())

	next := Apply(s, 2, CorrectAnswer{TeamID: "1", Points: 300, CategoryID: "geo", QuestionID: "q5"})

	if next.Scores["1"] != 300 {
		t.Errorf("scores[1] = %d, want 300", next.Scores["1"])
	}
	if next.CurrentTurnIdx != 1 {
		t.Errorf("CurrentTurnIdx = %d, want 1", next.CurrentTurnIdx)
	}
	if want := []string{"geo-q5"}; !reflect.DeepEqual(next.AnsweredQuestions, want) {
		t.Errorf("AnsweredQuestions = %v, want %v", next.AnsweredQuestions, want)
	}

	// Input state must be untouched.
	if s.Scores["1"] != 0 || s.CurrentTurnIdx != 0 || len(s.AnsweredQuestions) != 0 {
		t.Errorf("input state mutated: %+v", s)
	}
}

func TestApplyCorrectAnswerMissingScoreEntry(t *testing.T) {
	s := NewState(twoTeams())
	delete(s.Scores, "1")

	next := Apply(s, 2, CorrectAnswer{TeamID: "1", Points: 100, CategoryID: "geo", QuestionID: "q1"})
	if next.Scores["1"] != 100 {
		t.Errorf("scores[1] = %d, want 100 (missing entry defaults to 0)", next.Scores["1"])
	}
}

func TestApplyIncorrectAnswer(t *testing.T) {
	s := NewState(twoTeams())

	next := Apply(s, 2, IncorrectAnswer{CategoryID: "geo", QuestionID: "q1"})

	if next.CurrentTurnIdx != 0 {
		t.Errorf("CurrentTurnIdx = %d, want 0 (turn never advances on a miss)", next.CurrentTurnIdx)
	}
	if next.Scores["1"] != 0 || next.Scores["2"] != 0 {
		t.Errorf("scores changed on a miss: %v", next.Scores)
	}
	if want := []string{"geo-q1"}; !reflect.DeepEqual(next.AnsweredQuestions, want) {
		t.Errorf("AnsweredQuestions = %v, want %v", next.AnsweredQuestions, want)
	}
}

func TestApplyEndGame(t *testing.T) {
	s := NewState(twoTeams())
	s.Scores["1"] = 500

	next := Apply(s, 2, EndGame{})

	if !next.IsEnded {
		t.Error("IsEnded = false, want true")
	}
	if next.Scores["1"] != 500 || next.CurrentTurnIdx != 0 {
		t.Errorf("EndGame changed other fields: %+v", next)
	}
}

func TestTurnCyclesThroughAllTeams(t *testing.T) {
	teams := []Team{{ID: "1", Name: "A"}, {ID: "2", Name: "B"}, {ID: "3", Name: "C"}}
	s := NewState(teams)

	for i := 0; i < 7; i++ {
		if s.CurrentTurnIdx != i%3 {
			t.Fatalf("after %d correct answers CurrentTurnIdx = %d, want %d", i, s.CurrentTurnIdx, i%3)
		}
		s = Apply(s, 3, CorrectAnswer{
			TeamID:     teams[s.CurrentTurnIdx].ID,
			Points:     100,
			CategoryID: "geo",
			QuestionID: string(rune('a' + i)),
		})
	}
}

func TestScoreConservation(t *testing.T) {
	s := NewState(twoTeams())

	events := []CorrectAnswer{
		{TeamID: "1", Points: 100, CategoryID: "geo", QuestionID: "q1"},
		{TeamID: "2", Points: 300, CategoryID: "geo", QuestionID: "q3"},
		{TeamID: "1", Points: 500, CategoryID: "hist", QuestionID: "q11"},
		{TeamID: "2", Points: 100, CategoryID: "sci", QuestionID: "q13"},
	}
	total := 0
	for _, ev := range events {
		s = Apply(s, 2, ev)
		total += ev.Points
	}

	sum := 0
	for _, v := range s.Scores {
		sum += v
	}
	if sum != total {
		t.Errorf("score sum = %d, want %d", sum, total)
	}
	if len(s.AnsweredQuestions) != len(events) {
		t.Errorf("answered = %d entries, want %d", len(s.AnsweredQuestions), len(events))
	}
}

func TestAnsweredKeyNotDuplicated(t *testing.T) {
	s := NewState(twoTeams())
	s = Apply(s, 2, IncorrectAnswer{CategoryID: "geo", QuestionID: "q1"})
	s = Apply(s, 2, CorrectAnswer{TeamID: "1", Points: 100, CategoryID: "geo", QuestionID: "q1"})

	if len(s.AnsweredQuestions) != 1 {
		t.Errorf("AnsweredQuestions = %v, want a single geo-q1 entry", s.AnsweredQuestions)
	}
}

func TestApplyZeroTeams(t *testing.T) {
	s := State{Scores: map[string]int{}, AnsweredQuestions: []string{}}

	next := Apply(s, 0, CorrectAnswer{TeamID: "1", Points: 100, CategoryID: "geo", QuestionID: "q1"})
	if next.CurrentTurnIdx != 0 {
		t.Errorf("CurrentTurnIdx = %d, want 0 (no modulo by zero)", next.CurrentTurnIdx)
	}
}

func TestDelta(t *testing.T) {
	s := NewState(twoTeams())
	ev := CorrectAnswer{TeamID: "1", Points: 300, CategoryID: "geo", QuestionID: "q5"}
	next := Apply(s, 2, ev)

	upd := Delta(next, ev)
	if upd.CurrentTurnIdx == nil || *upd.CurrentTurnIdx != 1 {
		t.Errorf("Delta.CurrentTurnIdx = %v, want 1", upd.CurrentTurnIdx)
	}
	if upd.Scores["1"] != 300 {
		t.Errorf("Delta.Scores = %v, want scores[1]=300", upd.Scores)
	}
	if upd.IsEnded != nil {
		t.Error("Delta.IsEnded set for an answer event")
	}

	end := Delta(Apply(next, 2, EndGame{}), EndGame{})
	if end.IsEnded == nil || !*end.IsEnded {
		t.Error("Delta.IsEnded not set for EndGame")
	}
	if end.Scores != nil || end.CurrentTurnIdx != nil {
		t.Error("EndGame delta must only carry the ended flag")
	}
}
