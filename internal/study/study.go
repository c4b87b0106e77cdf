// Package study holds the study material produced by a document analysis:
// structured notes, the multiple-choice assessment and quiz scoring.
package study

// Difficulty grades a question.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

// QuestionKind tags the question format. Only multiple choice is generated.
type QuestionKind string

const KindMCQ QuestionKind = "MCQ"

// OptionCount is the number of answer options every question carries.
const OptionCount = 4

// QuestionCount is the assessment size requested from the model.
const QuestionCount = 10

// Section is one heading of the detailed notes.
type Section struct {
	Heading string `json:"heading" validate:"required"`
	Content string `json:"content" validate:"required"`
}

// Definition is a key term and its meaning.
type Definition struct {
	Term       string `json:"term" validate:"required"`
	Definition string `json:"definition" validate:"required"`
}

// Topic is one branch of the mind map.
type Topic struct {
	Topic     string   `json:"topic" validate:"required"`
	Subtopics []string `json:"subtopics" validate:"required"`
}

// StructuredNotes is the notes half of an analysis.
type StructuredNotes struct {
	Summary       string       `json:"summary" validate:"required"`
	BulletPoints  []string     `json:"bulletPoints" validate:"required"`
	DetailedNotes []Section    `json:"detailedNotes" validate:"required,dive"`
	Definitions   []Definition `json:"definitions" validate:"required,dive"`
	MindMap       []Topic      `json:"mindMap" validate:"required,dive"`
}

// Question is a single multiple-choice item.
type Question struct {
	ID                 int          `json:"id"`
	Question           string       `json:"question" validate:"required"`
	Options            []string     `json:"options" validate:"len=4"`
	CorrectAnswerIndex int          `json:"correctAnswerIndex" validate:"gte=0,lte=3"`
	Explanation        string       `json:"explanation" validate:"required"`
	Difficulty         Difficulty   `json:"difficulty" validate:"oneof=Easy Medium Hard"`
	Kind               QuestionKind `json:"type" validate:"eq=MCQ"`
}

// Result is the complete output of one document analysis.
type Result struct {
	Notes       StructuredNotes `json:"notes"`
	Assessments []Question      `json:"assessments" validate:"required,dive"`
}
