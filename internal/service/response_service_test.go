package service

import (
	"context"
	"math/rand/v2"
	"testing"

	"puzzle_quiz_backend/internal/model"
	"puzzle_quiz_backend/internal/quiz"
	"puzzle_quiz_backend/internal/repository"
	"puzzle_quiz_backend/internal/testutil"
	"puzzle_quiz_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"gorm.io/gorm"
)

func fixtureCatalog(t *testing.T) *quiz.Catalog {
	t.Helper()
	bank, err := quiz.NewBank([]quiz.Entry{
		{ID: "x1", Question: "1+1?", Accepted: []string{"2", "two"}},
		{ID: "x2", Question: "1+3?", Accepted: []string{"4", "four"}},
		{ID: "x3", Question: "What...O?", Accepted: []string{"Ocean", "ocean", "OCEAN"}},
		{ID: "x4", Question: "Sky?", Accepted: []string{"blue"}},
		{ID: "x5", Question: "Grass?", Accepted: []string{"green"}},
	})
	require.NoError(t, err)
	catalog, err := quiz.NewCatalog(bank, []quiz.Variant{
		{Name: "new", Kind: quiz.KindFixed, Questions: []string{"x1", "x2", "x3"}, ViewPath: "/response"},
		{Name: "new2", Kind: quiz.KindFixed, Questions: []string{"x4", "x5", "x1"}, ViewPath: "/response2"},
		{Name: "random", Kind: quiz.KindSampled, Questions: []string{"x1", "x2", "x3", "x4", "x5"}, Size: 3},
	})
	require.NoError(t, err)
	return catalog
}

func newResponseService(t *testing.T) (*ResponseService, *gorm.DB) {
	t.Helper()
	db := testutil.NewTestDB(t)
	svc := NewResponseService(
		fixtureCatalog(t),
		repository.NewResponseRepository(db),
		repository.NewCommentRepository(db),
		rand.New(rand.NewPCG(7, 11)),
	)
	return svc, db
}

func answers(a ...string) Submission {
	return Submission{QuestionIDs: make([]string, len(a)), Answers: a}
}

func TestSubmitFixedVariantScores(t *testing.T) {
	svc, db := newResponseService(t)
	user := testutil.CreateUser(t, db)

	tests := []struct {
		name      string
		submitted Submission
		want      int
	}{
		{name: "all correct", submitted: answers("2", "four", "ocean"), want: 3},
		{name: "slot two compared to its own set", submitted: answers("two", "3", "x"), want: 1},
		{name: "right answers wrong slots", submitted: answers("four", "ocean", "2"), want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := svc.Submit(context.Background(), user.ID, "new", tt.submitted)
			require.NoError(t, err)
			require.Equal(t, StatePersisted, res.State)
			assert.Equal(t, tt.want, res.Response.Score)
			assert.Equal(t, 3, res.Response.Total)
			assert.Equal(t, []string{"1+1?", "1+3?", "What...O?"}, res.Response.PresentedQuestions)
			assert.Equal(t, "/response/"+res.Response.ID, svc.ViewPath(res.Response))

			stored, err := svc.Get(res.Response.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.want, stored.Score)
			assert.Equal(t, tt.submitted.Answers, stored.SubmittedAnswers)
		})
	}
}

func TestSubmitInvalidKeepsQuestionsAndSavesNothing(t *testing.T) {
	svc, db := newResponseService(t)
	user := testutil.CreateUser(t, db)

	res, err := svc.Submit(context.Background(), user.ID, "new2", answers("blue", "", "2"))
	require.NoError(t, err)
	assert.Equal(t, StateFormInvalid, res.State)
	require.NotNil(t, res.Form)
	assert.Equal(t, "This field is required.", res.Form.Errors["a2"])
	assert.Equal(t, "blue", res.Form.Questions[0].Answer)
	assert.Equal(t, "Sky?", res.Form.Questions[0].Label)

	all, err := svc.List()
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestSubmitWrongAnswerCountIsInvalid(t *testing.T) {
	svc, db := newResponseService(t)
	user := testutil.CreateUser(t, db)

	res, err := svc.Submit(context.Background(), user.ID, "new", answers("2"))
	require.NoError(t, err)
	assert.Equal(t, StateFormInvalid, res.State)
	assert.Len(t, res.Form.Errors, 3)
}

func TestPresentSampledVariant(t *testing.T) {
	svc, _ := newResponseService(t)

	res, err := svc.Present("random")
	require.NoError(t, err)
	assert.Equal(t, StateFormEmpty, res.State)
	assert.True(t, res.Form.Sampled)
	require.Len(t, res.Form.Questions, 3)

	seen := map[string]bool{}
	for i, q := range res.Form.Questions {
		assert.Equal(t, i+1, q.Index)
		assert.False(t, seen[q.ID])
		seen[q.ID] = true
	}
	assert.Equal(t, "a1", res.Form.Questions[0].AnswerField())
	assert.Equal(t, "q1", res.Form.Questions[0].IDField())
}

func TestSubmitSampledGradesAgainstOwnQuestions(t *testing.T) {
	svc, db := newResponseService(t)
	user := testutil.CreateUser(t, db)
	ctx := context.Background()

	first, err := svc.Submit(ctx, user.ID, "random", Submission{
		QuestionIDs: []string{"x1", "x2", "x3"},
		Answers:     []string{"2", "4", "ocean"},
	})
	require.NoError(t, err)
	require.Equal(t, StatePersisted, first.State)
	assert.Equal(t, 3, first.Response.Score)

	second, err := svc.Submit(ctx, user.ID, "random", Submission{
		QuestionIDs: []string{"x4", "x5", "x2"},
		Answers:     []string{"2", "4", "ocean"},
	})
	require.NoError(t, err)
	require.Equal(t, StatePersisted, second.State)
	assert.Equal(t, 0, second.Response.Score)
	assert.Equal(t, []string{"x4", "x5", "x2"}, second.Response.QuestionIDs)
}

func TestSubmitSampledRejectsTamperedIDs(t *testing.T) {
	svc, db := newResponseService(t)
	user := testutil.CreateUser(t, db)

	res, err := svc.Submit(context.Background(), user.ID, "random", Submission{
		QuestionIDs: []string{"x1", "x1", "x1"},
		Answers:     []string{"2", "2", "2"},
	})
	require.NoError(t, err)
	assert.Equal(t, StateFormInvalid, res.State)
	assert.Contains(t, res.Form.Errors, "_form")
	assert.Len(t, res.Form.Questions, 3)

	all, err := svc.List()
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestSubmitUnknownVariant(t *testing.T) {
	svc, _ := newResponseService(t)
	_, err := svc.Submit(context.Background(), 1, "nope", answers())
	assert.ErrorIs(t, err, util.ErrNotFound)
	_, err = svc.Present("nope")
	assert.ErrorIs(t, err, util.ErrNotFound)
}

func TestDeleteResponseOwnership(t *testing.T) {
	svc, db := newResponseService(t)
	author := testutil.CreateUser(t, db)
	other := testutil.CreateUser(t, db)
	ctx := context.Background()

	keep, err := svc.Submit(ctx, author.ID, "new", answers("2", "4", "x"))
	require.NoError(t, err)
	gone, err := svc.Submit(ctx, author.ID, "new", answers("1", "1", "1"))
	require.NoError(t, err)

	err = svc.Delete(other.ID, gone.Response.ID)
	assert.ErrorIs(t, err, util.ErrPermissionDenied)
	_, err = svc.Get(gone.Response.ID)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(author.ID, gone.Response.ID))
	_, err = svc.Get(gone.Response.ID)
	assert.ErrorIs(t, err, util.ErrNotFound)

	list, err := svc.List()
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, keep.Response.ID, list[0].ID)
}

func TestGetResponseNotFound(t *testing.T) {
	svc, _ := newResponseService(t)
	_, err := svc.Get("not-a-uuid")
	assert.ErrorIs(t, err, util.ErrNotFound)
	_, err = svc.Get(model.GenerateUUID())
	assert.ErrorIs(t, err, util.ErrNotFound)
}

func TestSubmissionStateString(t *testing.T) {
	assert.Equal(t, "FORM_EMPTY", StateFormEmpty.String())
	assert.Equal(t, "FORM_SUBMITTED_INVALID", StateFormInvalid.String())
	assert.Equal(t, "FORM_SUBMITTED_VALID", StateFormValid.String())
	assert.Equal(t, "PERSISTED", StatePersisted.String())
}

func TestReadSubmission(t *testing.T) {
	form := map[string]string{"q1": "x1", "a1": "2", "a2": "four"}
	sub := ReadSubmission(3, func(k string) string { return form[k] })
	assert.Equal(t, []string{"x1", "", ""}, sub.QuestionIDs)
	assert.Equal(t, []string{"2", "four", ""}, sub.Answers)
}

func TestListByAuthor(t *testing.T) {
	svc, db := newResponseService(t)
	author := testutil.CreateUser(t, db)
	other := testutil.CreateUser(t, db)
	ctx := context.Background()

	mine, err := svc.Submit(ctx, author.ID, "new", answers("2", "4", "ocean"))
	require.NoError(t, err)
	_, err = svc.Submit(ctx, other.ID, "new", answers("1", "1", "1"))
	require.NoError(t, err)

	list, err := svc.ListByAuthor(author.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, mine.Response.ID, list[0].ID)

	list, err = svc.ListByAuthor(0)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestSubmitRecordsStateOnSpan(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr)))

	svc, db := newResponseService(t)
	user := testutil.CreateUser(t, db)

	res, err := svc.Submit(context.Background(), user.ID, "new", answers("2", "4", "x"))
	require.NoError(t, err)
	require.Equal(t, StatePersisted, res.State)

	var states []string
	for _, span := range sr.Ended() {
		if span.Name() != "quiz.submit" {
			continue
		}
		for _, kv := range span.Attributes() {
			if kv.Key == "quiz.state" {
				states = append(states, kv.Value.AsString())
			}
		}
	}
	assert.Equal(t, []string{StateFormValid.String(), StatePersisted.String()}, states)
}
