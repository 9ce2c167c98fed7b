package game

import (
	"encoding/json"
	"testing"
)

func testCatalog(t *testing.T) *Catalog {
	t.Helper()

	categories, _ := json.Marshal([]Category{
		{ID: "geo", Name: "Geography"},
		{ID: "art", Name: "Art & Music"},
	})
	questions := []byte(`[
		{"id": "a1", "categoryId": "geo", "title": "first 300", "points": 300,
		 "question-type": "multiple-choice", "choices": ["x", "y"], "correct-answer-index": 0},
		{"id": "a2", "categoryId": "geo", "title": "second 300", "points": 300,
		 "question-type": "multiple-choice", "choices": ["x", "y"], "correct-answer-index": 1},
		{"id": "b1", "categoryId": "art", "title": "only 500", "points": 500,
		 "question-type": "voice", "correct-answer": "Beethoven"}
	]`)

	c, err := LoadCatalog(categories, questions)
	if err != nil {
		t.Fatalf("loading test catalog: %v", err)
	}
	return c
}

func testRound(t *testing.T) Round {
	t.Helper()
	r, err := NewRound("r1", "Test Round", "u1", []string{"geo", "art"}, twoTeams())
	if err != nil {
		t.Fatalf("creating round: %v", err)
	}
	return r
}

func cellAt(b Board, rowIdx int, categoryID string) Cell {
	for _, c := range b.Rows[rowIdx] {
		if c.CategoryID == categoryID {
			return c
		}
	}
	return Cell{}
}

func TestBoardParity(t *testing.T) {
	b := BuildBoard(testRound(t), testCatalog(t))

	if len(b.Rows) != len(PointRows) {
		t.Fatalf("rows = %d, want %d", len(b.Rows), len(PointRows))
	}

	// Two 300-point questions split across the two 300 rows (indices 2, 3).
	first := cellAt(b, 2, "geo")
	second := cellAt(b, 3, "geo")
	if first.QuestionID != "a1" {
		t.Errorf("first 300 row: question %q, want a1", first.QuestionID)
	}
	if second.QuestionID != "a2" {
		t.Errorf("second 300 row: question %q, want a2", second.QuestionID)
	}
}

func TestBoardUnavailableCell(t *testing.T) {
	b := BuildBoard(testRound(t), testCatalog(t))

	// A lone 500 shows on the first 500 row (index 4), N/A on the second.
	first := cellAt(b, 4, "art")
	second := cellAt(b, 5, "art")
	if !first.Available || first.QuestionID != "b1" {
		t.Errorf("first 500 row: %+v, want available b1", first)
	}
	if second.Available {
		t.Errorf("second 500 row: %+v, want unavailable", second)
	}

	// geo has no 100-point questions at all.
	if cellAt(b, 0, "geo").Available {
		t.Error("geo 100 row should be unavailable")
	}
}

func TestBoardAnsweredCellLocked(t *testing.T) {
	r := testRound(t)
	r.State = Apply(r.State, len(r.Teams), IncorrectAnswer{CategoryID: "geo", QuestionID: "a1"})

	b := BuildBoard(r, testCatalog(t))
	if cell := cellAt(b, 2, "geo"); !cell.Answered {
		t.Errorf("answered cell not locked: %+v", cell)
	}
	if cell := cellAt(b, 3, "geo"); cell.Answered {
		t.Errorf("unanswered cell locked: %+v", cell)
	}
}

func TestBoardColumns(t *testing.T) {
	b := BuildBoard(testRound(t), testCatalog(t))

	if len(b.Columns) != 2 {
		t.Fatalf("columns = %d, want 2", len(b.Columns))
	}
	if b.Columns[0].Name != "Geography" || b.Columns[1].Name != "Art & Music" {
		t.Errorf("column names = %v", b.Columns)
	}
}
