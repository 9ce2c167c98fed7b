package game

import (
	"strings"
	"testing"
)

func TestLoadEmbeddedCatalog(t *testing.T) {
	c, err := LoadEmbeddedCatalog()
	if err != nil {
		t.Fatalf("loading embedded catalog: %v", err)
	}

	if len(c.Categories()) == 0 {
		t.Fatal("no categories loaded")
	}
	if len(c.Questions()) == 0 {
		t.Fatal("no questions loaded")
	}

	// Every question belongs to a known category and carries a valid
	// point value.
	points := map[int]bool{100: true, 300: true, 500: true}
	for _, q := range c.Questions() {
		if _, ok := c.CategoryName(q.CategoryID); !ok {
			t.Errorf("question %s references unknown category %q", q.ID, q.CategoryID)
		}
		if !points[q.Points] {
			t.Errorf("question %s has unexpected point value %d", q.ID, q.Points)
		}
	}
}

func TestCatalogLookups(t *testing.T) {
	c, err := LoadEmbeddedCatalog()
	if err != nil {
		t.Fatalf("loading embedded catalog: %v", err)
	}

	q, ok := c.Question("q5")
	if !ok {
		t.Fatal("question q5 not found")
	}
	if q.Type != TypeRange || q.Numeric == nil {
		t.Errorf("q5 = %+v, want a range question", q)
	}
	if q.Numeric.CorrectValue != 828 || q.Numeric.Tolerance != 10 {
		t.Errorf("q5 numeric payload = %+v, want 828 ± 10", q.Numeric)
	}

	if _, ok := c.Question("nope"); ok {
		t.Error("unknown id should not resolve")
	}

	geo := c.QuestionsByCategory("geo")
	if len(geo) == 0 {
		t.Fatal("no geo questions")
	}
	for _, q := range geo {
		if q.CategoryID != "geo" {
			t.Errorf("question %s in geo listing has category %q", q.ID, q.CategoryID)
		}
	}
}

func TestLoadCatalogRejectsUnknownType(t *testing.T) {
	categories := []byte(`[{"id": "c", "name": "C"}]`)
	questions := []byte(`[{"id": "x", "categoryId": "c", "title": "t", "points": 100,
		"question-type": "riddle", "correct-answer": "y"}]`)

	_, err := LoadCatalog(categories, questions)
	if err == nil || !strings.Contains(err.Error(), "unknown question type") {
		t.Errorf("err = %v, want unknown question type error", err)
	}
}

func TestLoadCatalogRejectsBadChoiceIndex(t *testing.T) {
	categories := []byte(`[{"id": "c", "name": "C"}]`)
	questions := []byte(`[{"id": "x", "categoryId": "c", "title": "t", "points": 100,
		"question-type": "multiple-choice", "choices": ["a", "b"], "correct-answer-index": 5}]`)

	_, err := LoadCatalog(categories, questions)
	if err == nil || !strings.Contains(err.Error(), "out of bounds") {
		t.Errorf("err = %v, want out of bounds error", err)
	}
}

func TestLoadCatalogImageFlavors(t *testing.T) {
	categories := []byte(`[{"id": "c", "name": "C"}]`)
	questions := []byte(`[
		{"id": "with", "categoryId": "c", "title": "t", "points": 100,
		 "question-type": "image", "image-hint": "/i.jpg",
		 "choices": ["a", "b"], "correct-answer-index": 0},
		{"id": "without", "categoryId": "c", "title": "t", "points": 300,
		 "question-type": "image", "image-hint": "/i.jpg", "correct-answer": "Sahara"}
	]`)

	c, err := LoadCatalog(categories, questions)
	if err != nil {
		t.Fatalf("loading catalog: %v", err)
	}

	with, _ := c.Question("with")
	if with.Behavior() != BehaviorChoice {
		t.Errorf("image with choices: behavior = %v, want choice", with.Behavior())
	}
	without, _ := c.Question("without")
	if without.Behavior() != BehaviorFreeText {
		t.Errorf("image without choices: behavior = %v, want free text", without.Behavior())
	}
}
