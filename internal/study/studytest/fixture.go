// Package studytest builds study results for tests.
package studytest

import (
	"fmt"

	"github.com/csheth/studygenius/internal/study"
)

var difficulties = []study.Difficulty{study.DifficultyEasy, study.DifficultyMedium, study.DifficultyHard}

// Result returns a schema-valid analysis with n questions. Question i has id
// i+1 and its correct answer at index i%4.
func Result(n int) study.Result {
	questions := make([]study.Question, 0, n)
	for i := 0; i < n; i++ {
		questions = append(questions, study.Question{
			ID:                 i + 1,
			Question:           fmt.Sprintf("Question %d about cells?", i+1),
			Options:            []string{"A", "B", "C", "D"},
			CorrectAnswerIndex: i % study.OptionCount,
			Explanation:        fmt.Sprintf("Explanation %d", i+1),
			Difficulty:         difficulties[i%len(difficulties)],
			Kind:               study.KindMCQ,
		})
	}
	return study.Result{
		Notes: study.StructuredNotes{
			Summary:      "Cells are the basic unit of life.",
			BulletPoints: []string{"Cells have membranes", "Mitochondria make ATP"},
			DetailedNotes: []study.Section{
				{Heading: "Membranes", Content: "Lipid bilayers separate the cell from its surroundings."},
			},
			Definitions: []study.Definition{
				{Term: "ATP", Definition: "Adenosine triphosphate, the energy currency of the cell."},
			},
			MindMap: []study.Topic{
				{Topic: "Cell", Subtopics: []string{"Membrane", "Nucleus", "Mitochondria"}},
			},
		},
		Assessments: questions,
	}
}

// Answers returns the correct option for every question in result, keyed by id.
func Answers(result study.Result) map[int]int {
	answers := make(map[int]int, len(result.Assessments))
	for _, q := range result.Assessments {
		answers[q.ID] = q.CorrectAnswerIndex
	}
	return answers
}
