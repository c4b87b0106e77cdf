package study_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csheth/studygenius/internal/study"
	"github.com/csheth/studygenius/internal/study/studytest"
)

func TestQuizScoresAllCorrect(t *testing.T) {
	t.Parallel()

	result := studytest.Result(study.QuestionCount)
	quiz := study.NewQuiz(result.Assessments)
	for id, option := range studytest.Answers(result) {
		require.NoError(t, quiz.Select(id, option))
	}

	require.True(t, quiz.CanSubmit())
	require.NoError(t, quiz.Submit())
	assert.Equal(t, 10, quiz.Score())
	assert.Equal(t, "10 / 10", quiz.ScoreLabel())
}

func TestQuizScoreCountsOnlyMatchingAnswers(t *testing.T) {
	t.Parallel()

	result := studytest.Result(4)
	quiz := study.NewQuiz(result.Assessments)
	for _, q := range result.Assessments {
		option := q.CorrectAnswerIndex
		if q.ID%2 == 0 {
			option = (option + 1) % study.OptionCount
		}
		require.NoError(t, quiz.Select(q.ID, option))
	}
	require.NoError(t, quiz.Submit())
	assert.Equal(t, 2, quiz.Score())
	assert.Equal(t, "2 / 4", quiz.ScoreLabel())
}

func TestQuizSubmitRequiresEveryAnswer(t *testing.T) {
	t.Parallel()

	result := studytest.Result(3)
	quiz := study.NewQuiz(result.Assessments)
	require.NoError(t, quiz.Select(1, 0))
	require.NoError(t, quiz.Select(2, 1))
	assert.False(t, quiz.CanSubmit())
	assert.True(t, errors.Is(quiz.Submit(), study.ErrQuizIncomplete))
	assert.False(t, quiz.Submitted())

	require.NoError(t, quiz.Select(2, 3))
	assert.Equal(t, 2, quiz.Answered(), "reselecting replaces the answer")

	require.NoError(t, quiz.Select(3, 2))
	assert.True(t, quiz.CanSubmit())
}

func TestQuizRejectsChangesAfterSubmit(t *testing.T) {
	t.Parallel()

	result := studytest.Result(1)
	quiz := study.NewQuiz(result.Assessments)
	require.NoError(t, quiz.Select(1, 0))
	require.NoError(t, quiz.Submit())

	assert.True(t, errors.Is(quiz.Select(1, 1), study.ErrQuizSubmitted))
	option, ok := quiz.Answer(1)
	require.True(t, ok)
	assert.Equal(t, 0, option)
	assert.True(t, errors.Is(quiz.Submit(), study.ErrQuizSubmitted))
}

func TestQuizSelectValidatesInput(t *testing.T) {
	t.Parallel()

	quiz := study.NewQuiz(studytest.Result(2).Assessments)
	assert.True(t, errors.Is(quiz.Select(99, 0), study.ErrUnknownQuestion))
	assert.True(t, errors.Is(quiz.Select(1, 4), study.ErrInvalidOption))
	assert.True(t, errors.Is(quiz.Select(1, -1), study.ErrInvalidOption))
	assert.Zero(t, quiz.Answered())
}

func TestQuizResetClearsAnswersOnly(t *testing.T) {
	t.Parallel()

	result := studytest.Result(2)
	quiz := study.NewQuiz(result.Assessments)
	require.NoError(t, quiz.Select(1, 0))
	require.NoError(t, quiz.Select(2, 1))
	require.NoError(t, quiz.Submit())

	quiz.Reset()
	assert.False(t, quiz.Submitted())
	assert.Zero(t, quiz.Answered())
	_, ok := quiz.Answer(1)
	assert.False(t, ok)
	assert.Equal(t, result.Assessments, quiz.Questions())
}

func TestQuizWithDuplicateIDsCanBeSubmitted(t *testing.T) {
	t.Parallel()

	// Lenient decoding lets repeated ids through.
	questions := studytest.Result(3).Assessments
	questions[2].ID = questions[1].ID
	quiz := study.NewQuiz(questions)

	require.NoError(t, quiz.Select(questions[0].ID, 0))
	assert.False(t, quiz.CanSubmit())
	require.NoError(t, quiz.Select(questions[1].ID, 1))

	assert.Equal(t, 3, quiz.Answered())
	require.True(t, quiz.CanSubmit())
	require.NoError(t, quiz.Submit())
	// The third question shares the second one's answer, which is not its
	// correct option.
	assert.Equal(t, "2 / 3", quiz.ScoreLabel())
}
