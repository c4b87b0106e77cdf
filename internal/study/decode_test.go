package study_test

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csheth/studygenius/internal/study"
	"github.com/csheth/studygenius/internal/study/studytest"
)

func TestDecodeAcceptsValidResult(t *testing.T) {
	t.Parallel()

	want := studytest.Result(study.QuestionCount)
	raw, err := json.Marshal(want)
	require.NoError(t, err)

	got, err := study.Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestDecodeUsesProviderFieldNames(t *testing.T) {
	t.Parallel()

	raw := `{
		"notes": {
			"summary": "s",
			"bulletPoints": ["b"],
			"detailedNotes": [{"heading": "h", "content": "c"}],
			"definitions": [{"term": "t", "definition": "d"}],
			"mindMap": [{"topic": "m", "subtopics": []}]
		},
		"assessments": [{
			"id": 7,
			"question": "q?",
			"options": ["1", "2", "3", "4"],
			"correctAnswerIndex": 2,
			"explanation": "because",
			"difficulty": "Hard",
			"type": "MCQ"
		}]
	}`
	got, err := study.Decode([]byte(raw))
	require.NoError(t, err)
	require.Len(t, got.Assessments, 1)
	assert.Equal(t, 7, got.Assessments[0].ID)
	assert.Equal(t, study.DifficultyHard, got.Assessments[0].Difficulty)
	assert.Equal(t, study.KindMCQ, got.Assessments[0].Kind)
	assert.Equal(t, "m", got.Notes.MindMap[0].Topic)
}

func TestDecodeRejectsMalformedJSON(t *testing.T) {
	t.Parallel()

	_, err := study.Decode([]byte(`{"notes": `))
	require.Error(t, err)
	assert.True(t, errors.Is(err, study.ErrMalformedJSON))
	assert.False(t, errors.Is(err, study.ErrSchemaViolation))
}

func TestDecodeReportsSchemaViolations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*study.Result)
		want   string
	}{
		{"missing summary", func(r *study.Result) { r.Notes.Summary = "" }, "notes.summary"},
		{"missing bullet points", func(r *study.Result) { r.Notes.BulletPoints = nil }, "notes.bulletPoints"},
		{"three options", func(r *study.Result) { r.Assessments[0].Options = []string{"a", "b", "c"} }, "assessments[0].options"},
		{"answer index", func(r *study.Result) { r.Assessments[1].CorrectAnswerIndex = 4 }, "assessments[1].correctAnswerIndex"},
		{"difficulty", func(r *study.Result) { r.Assessments[2].Difficulty = "Trivial" }, "assessments[2].difficulty"},
		{"kind", func(r *study.Result) { r.Assessments[0].Kind = "TrueFalse" }, "assessments[0].type"},
		{"duplicate id", func(r *study.Result) { r.Assessments[1].ID = r.Assessments[0].ID }, "is not unique"},
		{"missing assessments", func(r *study.Result) { r.Assessments = nil }, "assessments"},
		{"section heading", func(r *study.Result) { r.Notes.DetailedNotes[0].Heading = "" }, "notes.detailedNotes[0].heading"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			result := studytest.Result(3)
			tt.mutate(&result)
			raw, err := json.Marshal(result)
			require.NoError(t, err)

			_, err = study.Decode(raw)
			require.Error(t, err)
			assert.True(t, errors.Is(err, study.ErrSchemaViolation))

			var schemaErr *study.SchemaError
			require.True(t, errors.As(err, &schemaErr))
			assert.True(t, containsViolation(schemaErr.Violations, tt.want), "violations: %v", schemaErr.Violations)
		})
	}
}

func TestDecodeLenientKeepsWhateverParses(t *testing.T) {
	t.Parallel()

	got, err := study.DecodeLenient([]byte(`{"notes":{"summary":"only"},"assessments":[]}`))
	require.NoError(t, err)
	assert.Equal(t, "only", got.Notes.Summary)
	assert.Empty(t, got.Assessments)
}

func TestDecodeDoesNotEnforceQuestionCount(t *testing.T) {
	t.Parallel()

	raw, err := json.Marshal(studytest.Result(4))
	require.NoError(t, err)
	got, err := study.Decode(raw)
	require.NoError(t, err)
	assert.Len(t, got.Assessments, 4)
}

func containsViolation(violations []string, fragment string) bool {
	for _, v := range violations {
		if strings.Contains(v, fragment) {
			return true
		}
	}
	return false
}
