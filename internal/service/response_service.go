package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"puzzle_quiz_backend/internal/model"
	"puzzle_quiz_backend/internal/quiz"
	"puzzle_quiz_backend/internal/repository"
	"puzzle_quiz_backend/internal/util"
	"puzzle_quiz_backend/pkg/monitoring"
	"puzzle_quiz_backend/pkg/tracing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// SubmissionState 答题表单的状态
type SubmissionState int

// StateFormValid 只在校验通过到保存完成之间存在，记录在 quiz.submit span 的
// quiz.state 属性上，不会出现在返回值里
const (
	StateFormEmpty SubmissionState = iota
	StateFormInvalid
	StateFormValid
	StatePersisted
)

func (s SubmissionState) String() string {
	switch s {
	case StateFormEmpty:
		return "FORM_EMPTY"
	case StateFormInvalid:
		return "FORM_SUBMITTED_INVALID"
	case StateFormValid:
		return "FORM_SUBMITTED_VALID"
	case StatePersisted:
		return "PERSISTED"
	default:
		return fmt.Sprintf("SubmissionState(%d)", int(s))
	}
}

const maxAnswerLen = 500

type FormQuestion struct {
	Index  int
	ID     string
	Label  string
	Answer string
	Error  string
}

func (q FormQuestion) AnswerField() string { return fmt.Sprintf("a%d", q.Index) }
func (q FormQuestion) IDField() string     { return fmt.Sprintf("q%d", q.Index) }

// SubmissionForm 渲染答题表单所需的数据
type SubmissionForm struct {
	Variant   quiz.Variant
	Sampled   bool
	Questions []FormQuestion
	Errors    util.FieldErrors
}

type SubmissionResult struct {
	State    SubmissionState
	Form     *SubmissionForm
	Response *model.Response
}

// Submission 提交的原始表单值，按位置对齐
type Submission struct {
	QuestionIDs []string
	Answers     []string
}

// ReadSubmission 读取 q1..qN / a1..aN
func ReadSubmission(n int, get func(string) string) Submission {
	sub := Submission{
		QuestionIDs: make([]string, n),
		Answers:     make([]string, n),
	}
	for i := 0; i < n; i++ {
		sub.QuestionIDs[i] = get(fmt.Sprintf("q%d", i+1))
		sub.Answers[i] = get(fmt.Sprintf("a%d", i+1))
	}
	return sub
}

type ResponseService struct {
	Catalog      *quiz.Catalog
	ResponseRepo *repository.ResponseRepository
	CommentRepo  *repository.CommentRepository

	mu  sync.Mutex
	rng *rand.Rand
}

func NewResponseService(catalog *quiz.Catalog, responseRepo *repository.ResponseRepository, commentRepo *repository.CommentRepository, rng *rand.Rand) *ResponseService {
	if rng == nil {
		seed := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(seed, seed>>1|1))
	}
	return &ResponseService{
		Catalog:      catalog,
		ResponseRepo: responseRepo,
		CommentRepo:  commentRepo,
		rng:          rng,
	}
}

func (s *ResponseService) Variant(name string) (quiz.Variant, error) {
	v, err := s.Catalog.Variant(name)
	if errors.Is(err, quiz.ErrUnknownVariant) {
		return quiz.Variant{}, util.ErrNotFound
	}
	return v, err
}

func (s *ResponseService) present(v quiz.Variant) ([]quiz.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Catalog.Present(v, s.rng)
}

func buildForm(v quiz.Variant, entries []quiz.Entry) *SubmissionForm {
	form := &SubmissionForm{
		Variant:   v,
		Sampled:   v.Kind == quiz.KindSampled,
		Questions: make([]FormQuestion, len(entries)),
		Errors:    util.FieldErrors{},
	}
	for i, e := range entries {
		form.Questions[i] = FormQuestion{Index: i + 1, ID: e.ID, Label: e.Question}
	}
	return form
}

// Present builds the empty form. Sampled variants draw a fresh set of
// questions on every call.
func (s *ResponseService) Present(variantName string) (*SubmissionResult, error) {
	v, err := s.Variant(variantName)
	if err != nil {
		return nil, err
	}
	entries, err := s.present(v)
	if err != nil {
		return nil, err
	}
	return &SubmissionResult{State: StateFormEmpty, Form: buildForm(v, entries)}, nil
}

// Submit validates, grades and persists. A returned error is a persistence or
// configuration failure; validation problems come back as StateFormInvalid.
func (s *ResponseService) Submit(ctx context.Context, requesterID uint, variantName string, sub Submission) (*SubmissionResult, error) {
	v, err := s.Variant(variantName)
	if err != nil {
		return nil, err
	}

	n := v.QuestionCount()
	if len(sub.Answers) != n || len(sub.QuestionIDs) != n {
		sub = ReadSubmission(n, func(key string) string { return "" })
	}

	// 题目由服务端按 id 从题库重新取出，不信任客户端传回的答案
	entries, err := s.Catalog.Selection(v, sub.QuestionIDs)
	if errors.Is(err, quiz.ErrBadSelection) || errors.Is(err, quiz.ErrUnknownQuestion) {
		result, perr := s.Present(variantName)
		if perr != nil {
			return nil, perr
		}
		result.State = StateFormInvalid
		result.Form.Errors["_form"] = "The questions on this form were not recognised. Please answer the questions below."
		return result, nil
	}
	if err != nil {
		return nil, err
	}

	form := buildForm(v, entries)
	for i := range form.Questions {
		q := &form.Questions[i]
		q.Answer = sub.Answers[i]
		util.CheckField(form.Errors, q.AnswerField(), q.Answer, fmt.Sprintf("required,max=%d", maxAnswerLen))
		q.Error = form.Errors[q.AnswerField()]
	}
	if len(form.Errors) > 0 {
		return &SubmissionResult{State: StateFormInvalid, Form: form}, nil
	}

	ctx, span := tracing.Tracer.Start(ctx, "quiz.submit")
	defer span.End()
	span.SetAttributes(
		attribute.String("quiz.variant", v.Name),
		attribute.String("quiz.state", StateFormValid.String()),
	)

	score, err := quiz.Grade(entries, sub.Answers)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int("quiz.score", score))

	resp := &model.Response{
		AuthorID:           requesterID,
		Variant:            v.Name,
		QuestionIDs:        make([]string, len(entries)),
		PresentedQuestions: make([]string, len(entries)),
		SubmittedAnswers:   append([]string(nil), sub.Answers...),
		Score:              score,
		Total:              len(entries),
	}
	for i, e := range entries {
		resp.QuestionIDs[i] = e.ID
		resp.PresentedQuestions[i] = e.Question
	}

	if err := s.ResponseRepo.Create(resp); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("save response: %w", err)
	}
	monitoring.ObserveResponse(v.Name, score)
	span.SetAttributes(attribute.String("quiz.state", StatePersisted.String()))

	return &SubmissionResult{State: StatePersisted, Response: resp}, nil
}

// ViewPath 答题记录详情页地址
func (s *ResponseService) ViewPath(resp *model.Response) string {
	base := "/response"
	if v, err := s.Catalog.Variant(resp.Variant); err == nil {
		base = v.ViewPath
	}
	return base + "/" + resp.ID
}

func (s *ResponseService) Get(id string) (*model.Response, error) {
	if !model.IsUUID(id) {
		return nil, util.ErrNotFound
	}
	resp, err := s.ResponseRepo.FindByID(id)
	if err != nil {
		return nil, notFound(err)
	}
	return resp, nil
}

func (s *ResponseService) GetWithComments(id string) (*model.Response, []model.Comment, error) {
	resp, err := s.Get(id)
	if err != nil {
		return nil, nil, err
	}
	comments, err := s.CommentRepo.ListByResponse(resp.ID)
	if err != nil {
		return nil, nil, err
	}
	return resp, comments, nil
}

func (s *ResponseService) List() ([]model.Response, error) {
	return s.ResponseRepo.List()
}

// ListByAuthor 当前用户自己的答题记录
func (s *ResponseService) ListByAuthor(authorID uint) ([]model.Response, error) {
	if authorID == 0 {
		return nil, nil
	}
	return s.ResponseRepo.ListByAuthor(authorID)
}

func (s *ResponseService) Delete(requesterID uint, id string) error {
	resp, err := s.Get(id)
	if err != nil {
		return err
	}
	if !util.CanMutate(requesterID, resp.AuthorID) {
		return util.ErrPermissionDenied
	}
	return s.ResponseRepo.Delete(resp.ID)
}
