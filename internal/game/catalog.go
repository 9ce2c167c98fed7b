package game

import (
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

//go:embed data/categories.json data/questions.json
var catalogFS embed.FS

// Catalog is the static reference data: categories and questions, fetched
// once and read-only at runtime.
type Catalog struct {
	categories []Category
	questions  []Question
	byID       map[string]Question
	byCategory map[string][]Question
}

// catalogQuestion mirrors the on-disk question document. Field names follow
// the published reference-data format.
type catalogQuestion struct {
	ID                string          `json:"id"`
	CategoryID        string          `json:"categoryId"`
	Title             string          `json:"title"`
	Points            int             `json:"points"`
	Type              QuestionType    `json:"question-type"`
	Choices           []string        `json:"choices"`
	CorrectIndex      *int            `json:"correct-answer-index"`
	CorrectAnswer     json.RawMessage `json:"correct-answer"`
	Range             float64         `json:"range"`
	MinValue          float64         `json:"min-value"`
	MaxValue          float64         `json:"max-value"`
	Unit              string          `json:"unit"`
	ImageHint         string          `json:"image-hint"`
	ImageInstructions string          `json:"image-instructions"`
	VideoURL          string          `json:"video-url"`
	VoiceURL          string          `json:"voice-url"`
	Transcript        string          `json:"transcript"`
}

// LoadCatalog decodes the two reference documents. Every question is
// validated against its declared type; an unknown type tag or a missing
// type-specific field is a load error, so anything the catalog serves can
// be dispatched.
func LoadCatalog(categoriesJSON, questionsJSON []byte) (*Catalog, error) {
	var categories []Category
	if err := json.Unmarshal(categoriesJSON, &categories); err != nil {
		return nil, fmt.Errorf("decoding categories: %w", err)
	}

	var raw []catalogQuestion
	if err := json.Unmarshal(questionsJSON, &raw); err != nil {
		return nil, fmt.Errorf("decoding questions: %w", err)
	}

	c := &Catalog{
		categories: categories,
		byID:       make(map[string]Question, len(raw)),
		byCategory: make(map[string][]Question),
	}
	for _, cq := range raw {
		q, err := cq.toQuestion()
		if err != nil {
			return nil, fmt.Errorf("question %q: %w", cq.ID, err)
		}
		c.questions = append(c.questions, q)
		c.byID[q.ID] = q
		c.byCategory[q.CategoryID] = append(c.byCategory[q.CategoryID], q)
	}
	return c, nil
}

// LoadEmbeddedCatalog loads the catalog bundled with the binary.
func LoadEmbeddedCatalog() (*Catalog, error) {
	categories, err := catalogFS.ReadFile("data/categories.json")
	if err != nil {
		return nil, err
	}
	questions, err := catalogFS.ReadFile("data/questions.json")
	if err != nil {
		return nil, err
	}
	return LoadCatalog(categories, questions)
}

// LoadCatalogDir loads categories.json and questions.json from dir,
// overriding the embedded defaults.
func LoadCatalogDir(dir string) (*Catalog, error) {
	categories, err := os.ReadFile(filepath.Join(dir, "categories.json"))
	if err != nil {
		return nil, fmt.Errorf("reading categories: %w", err)
	}
	questions, err := os.ReadFile(filepath.Join(dir, "questions.json"))
	if err != nil {
		return nil, fmt.Errorf("reading questions: %w", err)
	}
	return LoadCatalog(categories, questions)
}

func (cq catalogQuestion) toQuestion() (Question, error) {
	q := Question{
		ID:         cq.ID,
		CategoryID: cq.CategoryID,
		Title:      cq.Title,
		Points:     cq.Points,
		Type:       cq.Type,
		Media: Media{
			ImageHint:         cq.ImageHint,
			ImageInstructions: cq.ImageInstructions,
			VideoURL:          cq.VideoURL,
			VoiceURL:          cq.VoiceURL,
			Transcript:        cq.Transcript,
		},
	}
	if q.ID == "" || q.CategoryID == "" {
		return Question{}, fmt.Errorf("missing id or categoryId")
	}

	switch cq.Type {
	case TypeMultipleChoice, TypeVideo:
		choice, err := cq.choicePayload()
		if err != nil {
			return Question{}, err
		}
		q.Choice = choice

	case TypeImage:
		// Image questions come in two flavors: with a choice list, or
		// free-text against a stored answer.
		if len(cq.Choices) > 0 {
			choice, err := cq.choicePayload()
			if err != nil {
				return Question{}, err
			}
			q.Choice = choice
			break
		}
		text, err := cq.textAnswer()
		if err != nil {
			return Question{}, err
		}
		q.FreeText = &FreeTextPayload{CorrectAnswer: text}

	case TypeVoice:
		text, err := cq.textAnswer()
		if err != nil {
			return Question{}, err
		}
		q.FreeText = &FreeTextPayload{CorrectAnswer: text}

	case TypeRange:
		var value float64
		if err := json.Unmarshal(cq.CorrectAnswer, &value); err != nil {
			return Question{}, fmt.Errorf("correct-answer must be numeric: %w", err)
		}
		if cq.Range < 0 {
			return Question{}, fmt.Errorf("range must not be negative")
		}
		q.Numeric = &NumericPayload{
			CorrectValue: value,
			Tolerance:    cq.Range,
			MinValue:     cq.MinValue,
			MaxValue:     cq.MaxValue,
			Unit:         cq.Unit,
		}

	default:
		return Question{}, fmt.Errorf("unknown question type %q", cq.Type)
	}

	return q, nil
}

func (cq catalogQuestion) choicePayload() (*ChoicePayload, error) {
	if len(cq.Choices) < 2 {
		return nil, fmt.Errorf("choices requires at least 2 entries")
	}
	if cq.CorrectIndex == nil {
		return nil, fmt.Errorf("missing correct-answer-index")
	}
	if *cq.CorrectIndex < 0 || *cq.CorrectIndex >= len(cq.Choices) {
		return nil, fmt.Errorf("correct-answer-index %d out of bounds", *cq.CorrectIndex)
	}
	return &ChoicePayload{Choices: cq.Choices, CorrectIndex: *cq.CorrectIndex}, nil
}

func (cq catalogQuestion) textAnswer() (string, error) {
	var text string
	if err := json.Unmarshal(cq.CorrectAnswer, &text); err != nil {
		return "", fmt.Errorf("correct-answer must be a string: %w", err)
	}
	if text == "" {
		return "", fmt.Errorf("missing correct-answer")
	}
	return text, nil
}

// Categories returns all categories in catalog order.
func (c *Catalog) Categories() []Category {
	return c.categories
}

// CategoryName resolves a category id to its display name.
func (c *Catalog) CategoryName(id string) (string, bool) {
	for _, cat := range c.categories {
		if cat.ID == id {
			return cat.Name, true
		}
	}
	return "", false
}

// Questions returns all questions in catalog order.
func (c *Catalog) Questions() []Question {
	return c.questions
}

// Question looks up a question by id.
func (c *Catalog) Question(id string) (Question, bool) {
	q, ok := c.byID[id]
	return q, ok
}

// QuestionsByCategory returns the questions belonging to a category, in
// catalog order.
func (c *Catalog) QuestionsByCategory(categoryID string) []Question {
	return c.byCategory[categoryID]
}
