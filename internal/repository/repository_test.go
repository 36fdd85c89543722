package repository

import (
	"testing"
	"time"

	"puzzle_quiz_backend/internal/model"
	"puzzle_quiz_backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestResponseRepositoryRoundTrip(t *testing.T) {
	db := testutil.NewTestDB(t)
	user := testutil.CreateUser(t, db)
	repo := NewResponseRepository(db)

	resp := &model.Response{
		AuthorID:           user.ID,
		Variant:            "new",
		QuestionIDs:        []string{"q1", "q2", "q3"},
		PresentedQuestions: []string{"1+1?", "1+2?", "1+3?"},
		SubmittedAnswers:   []string{"2", "3", "x"},
		Score:              2,
		Total:              3,
	}
	require.NoError(t, repo.Create(resp))
	assert.True(t, model.IsUUID(resp.ID))

	got, err := repo.FindByID(resp.ID)
	require.NoError(t, err)
	assert.Equal(t, resp.SubmittedAnswers, got.SubmittedAnswers)
	assert.Equal(t, resp.QuestionIDs, got.QuestionIDs)
	assert.Equal(t, user.Name, got.Author.Name)

	mine, err := repo.ListByAuthor(user.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}

func TestResponseDeleteRemovesComments(t *testing.T) {
	db := testutil.NewTestDB(t)
	user := testutil.CreateUser(t, db)
	responses := NewResponseRepository(db)
	comments := NewCommentRepository(db)

	resp := &model.Response{AuthorID: user.ID, Variant: "new", Total: 0}
	require.NoError(t, responses.Create(resp))
	require.NoError(t, comments.Create(&model.Comment{Content: "nice", AuthorID: user.ID, ResponseID: &resp.ID}))

	require.NoError(t, responses.Delete(resp.ID))

	_, err := responses.FindByID(resp.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	left, err := comments.ListByResponse(resp.ID)
	require.NoError(t, err)
	assert.Empty(t, left)
}

func TestPuzzleRepositoryUpdateAndDelete(t *testing.T) {
	db := testutil.NewTestDB(t)
	user := testutil.CreateUser(t, db)
	puzzles := NewPuzzleRepository(db)
	comments := NewCommentRepository(db)

	p := &model.Puzzle{Name: "Riddle", Question: "What?", Tag: "easy", AuthorID: user.ID, ModifyDate: time.Now()}
	require.NoError(t, puzzles.Create(p))
	require.NoError(t, comments.Create(&model.Comment{Content: "hmm", AuthorID: user.ID, PuzzleID: &p.ID}))

	p.Name = "Riddle v2"
	p.ModifyDate = time.Now().Add(time.Minute)
	require.NoError(t, puzzles.Update(p))

	got, err := puzzles.FindByID(p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Riddle v2", got.Name)

	list, err := comments.ListByPuzzle(p.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, user.Name, list[0].Author.Name)

	require.NoError(t, puzzles.Delete(p.ID))
	all, err := puzzles.List()
	require.NoError(t, err)
	assert.Empty(t, all)
	list, err = comments.ListByPuzzle(p.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestUserRepositoryFindByEmail(t *testing.T) {
	db := testutil.NewTestDB(t)
	user := testutil.CreateUser(t, db)
	repo := NewUserRepository(db)

	got, err := repo.FindByEmail(user.Email)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = repo.FindByEmail("missing@example.com")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
