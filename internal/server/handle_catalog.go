package server

import (
	"net/http"

	"github.com/quizboard/api/internal/game"
)

// QuestionView is the public representation of a catalog question. Correct
// answers never leave the server through this endpoint.
type QuestionView struct {
	ID         string            `json:"id"`
	CategoryID string            `json:"categoryId"`
	Title      string            `json:"title"`
	Points     int               `json:"points"`
	Type       game.QuestionType `json:"type"`
	Choices    []string          `json:"choices,omitempty"`
	MinValue   float64           `json:"minValue,omitempty"`
	MaxValue   float64           `json:"maxValue,omitempty"`
	Unit       string            `json:"unit,omitempty"`
	Media      game.Media        `json:"media"`
}

func questionView(q game.Question) QuestionView {
	v := QuestionView{
		ID:         q.ID,
		CategoryID: q.CategoryID,
		Title:      q.Title,
		Points:     q.Points,
		Type:       q.Type,
		Media:      q.Media,
	}
	if q.Choice != nil {
		v.Choices = q.Choice.Choices
	}
	if q.Numeric != nil {
		v.MinValue = q.Numeric.MinValue
		v.MaxValue = q.Numeric.MaxValue
		v.Unit = q.Numeric.Unit
	}
	return v
}

func handleListCategories(catalog *game.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, catalog.Categories())
	}
}

func handleListQuestions(catalog *game.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var questions []game.Question
		if cid := r.URL.Query().Get("category"); cid != "" {
			if _, ok := catalog.CategoryName(cid); !ok {
				writeError(w, http.StatusNotFound, "category not found")
				return
			}
			questions = catalog.QuestionsByCategory(cid)
		} else {
			questions = catalog.Questions()
		}

		out := make([]QuestionView, 0, len(questions))
		for _, q := range questions {
			out = append(out, questionView(q))
		}
		writeJSON(w, http.StatusOK, out)
	}
}
