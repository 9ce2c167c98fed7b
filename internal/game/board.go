package game

// PointRows is the fixed row layout of the board: two rows for each point
// value, top to bottom.
var PointRows = []int{100, 100, 300, 300, 500, 500}

// Cell is one board position. Available is false when the category has no
// question for the slot; Answered marks a locked, non-navigable cell.
type Cell struct {
	CategoryID string `json:"categoryId"`
	Points     int    `json:"points"`
	QuestionID string `json:"questionId,omitempty"`
	Available  bool   `json:"available"`
	Answered   bool   `json:"answered"`
}

// BoardColumn is a category header.
type BoardColumn struct {
	CategoryID string `json:"categoryId"`
	Name       string `json:"name"`
}

// Board is the category × point grid for a round.
type Board struct {
	Columns []BoardColumn `json:"columns"`
	Rows    [][]Cell      `json:"rows"`
}

// BuildBoard lays out the grid for the round's categories. Each point value
// appears twice in the row order; the first occurrence takes the first
// question with that value in the category, the second occurrence the
// second (parity of the row index). Cells whose question key is in the
// answered set render locked.
func BuildBoard(r Round, catalog *Catalog) Board {
	board := Board{
		Columns: make([]BoardColumn, 0, len(r.Categories)),
		Rows:    make([][]Cell, 0, len(PointRows)),
	}
	for _, cid := range r.Categories {
		name, _ := catalog.CategoryName(cid)
		board.Columns = append(board.Columns, BoardColumn{CategoryID: cid, Name: name})
	}

	for rowIdx, pts := range PointRows {
		nth := rowIdx % 2
		row := make([]Cell, 0, len(r.Categories))
		for _, cid := range r.Categories {
			row = append(row, buildCell(r, catalog, cid, pts, nth))
		}
		board.Rows = append(board.Rows, row)
	}
	return board
}

func buildCell(r Round, catalog *Catalog, categoryID string, points, nth int) Cell {
	cell := Cell{CategoryID: categoryID, Points: points}

	matching := make([]Question, 0, 2)
	for _, q := range catalog.QuestionsByCategory(categoryID) {
		if q.Points == points {
			matching = append(matching, q)
		}
	}
	if nth >= len(matching) {
		return cell
	}

	q := matching[nth]
	cell.QuestionID = q.ID
	cell.Available = true
	cell.Answered = r.State.Answered(categoryID, q.ID)
	return cell
}
