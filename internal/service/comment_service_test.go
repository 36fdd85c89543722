package service

import (
	"context"
	"testing"

	"puzzle_quiz_backend/internal/repository"
	"puzzle_quiz_backend/internal/testutil"
	"puzzle_quiz_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentNeedsExactlyOneParent(t *testing.T) {
	_, comments, db := newPuzzleService(t)
	user := testutil.CreateUser(t, db)

	_, err := comments.Create(user.ID, CommentTarget{}, CommentRequest{Content: "x"})
	assert.ErrorIs(t, err, util.ErrCommentParent)

	_, err = comments.Create(user.ID, CommentTarget{PuzzleID: "a", ResponseID: "b"}, CommentRequest{Content: "x"})
	assert.ErrorIs(t, err, util.ErrCommentParent)
}

func TestCommentMissingParent(t *testing.T) {
	_, comments, db := newPuzzleService(t)
	user := testutil.CreateUser(t, db)

	_, err := comments.Create(user.ID, CommentTarget{PuzzleID: "3f1c7c0e-6a36-4bb8-9d90-2b1f86f7c111"}, CommentRequest{Content: "x"})
	assert.ErrorIs(t, err, util.ErrNotFound)
	_, err = comments.Create(user.ID, CommentTarget{ResponseID: "bogus"}, CommentRequest{Content: "x"})
	assert.ErrorIs(t, err, util.ErrNotFound)
}

func TestCommentOnResponseAndDelete(t *testing.T) {
	db := testutil.NewTestDB(t)
	commentRepo := repository.NewCommentRepository(db)
	responseRepo := repository.NewResponseRepository(db)
	responses := NewResponseService(fixtureCatalog(t), responseRepo, commentRepo, nil)
	comments := NewCommentService(commentRepo, repository.NewPuzzleRepository(db), responseRepo)

	author := testutil.CreateUser(t, db)
	other := testutil.CreateUser(t, db)

	res, err := responses.Submit(context.Background(), author.ID, "new", answers("2", "4", "ocean"))
	require.NoError(t, err)
	require.Equal(t, StatePersisted, res.State)

	comment, err := comments.Create(other.ID, CommentTarget{ResponseID: res.Response.ID}, CommentRequest{Content: "well done"})
	require.NoError(t, err)
	assert.Equal(t, "/response/"+res.Response.ID, comment.ParentPath())

	refused, err := comments.Delete(author.ID, comment.ID)
	assert.ErrorIs(t, err, util.ErrPermissionDenied)
	require.NotNil(t, refused)
	assert.Equal(t, comment.ID, refused.ID)

	_, list, err := responses.GetWithComments(res.Response.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	deleted, err := comments.Delete(other.ID, comment.ID)
	require.NoError(t, err)
	assert.Equal(t, "/response/"+res.Response.ID, deleted.ParentPath())

	_, err = comments.Delete(other.ID, comment.ID)
	assert.ErrorIs(t, err, util.ErrNotFound)

	comment, err = comments.Create(other.ID, CommentTarget{ResponseID: res.Response.ID}, CommentRequest{Content: "again"})
	require.NoError(t, err)
	require.NoError(t, responses.Delete(author.ID, res.Response.ID))
	_, err = comments.CommentRepo.FindByID(comment.ID)
	assert.Error(t, err)
}
