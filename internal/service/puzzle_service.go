package service

import (
	"time"

	"puzzle_quiz_backend/internal/model"
	"puzzle_quiz_backend/internal/repository"
	"puzzle_quiz_backend/internal/util"
)

type PuzzleService struct {
	PuzzleRepo  *repository.PuzzleRepository
	CommentRepo *repository.CommentRepository
	now         func() time.Time
}

func NewPuzzleService(puzzleRepo *repository.PuzzleRepository, commentRepo *repository.CommentRepository) *PuzzleService {
	return &PuzzleService{
		PuzzleRepo:  puzzleRepo,
		CommentRepo: commentRepo,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

type PuzzleRequest struct {
	Name     string `form:"name" binding:"required,max=255"`
	Question string `form:"question" binding:"required"`
	Tag      string `form:"tag" binding:"required,max=100"`
}

func (s *PuzzleService) Create(authorID uint, req PuzzleRequest) (*model.Puzzle, error) {
	puzzle := &model.Puzzle{
		Name:       req.Name,
		Question:   req.Question,
		Tag:        req.Tag,
		AuthorID:   authorID,
		ModifyDate: s.now(),
	}
	if err := s.PuzzleRepo.Create(puzzle); err != nil {
		return nil, err
	}
	return puzzle, nil
}

func (s *PuzzleService) Get(id string) (*model.Puzzle, error) {
	if !model.IsUUID(id) {
		return nil, util.ErrNotFound
	}
	puzzle, err := s.PuzzleRepo.FindByID(id)
	if err != nil {
		return nil, notFound(err)
	}
	return puzzle, nil
}

// GetWithComments 详情页数据
func (s *PuzzleService) GetWithComments(id string) (*model.Puzzle, []model.Comment, error) {
	puzzle, err := s.Get(id)
	if err != nil {
		return nil, nil, err
	}
	comments, err := s.CommentRepo.ListByPuzzle(puzzle.ID)
	if err != nil {
		return nil, nil, err
	}
	return puzzle, comments, nil
}

func (s *PuzzleService) List() ([]model.Puzzle, error) {
	return s.PuzzleRepo.List()
}

// GetForEdit 作者本人才能进入编辑
func (s *PuzzleService) GetForEdit(requesterID uint, id string) (*model.Puzzle, error) {
	puzzle, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if !util.CanMutate(requesterID, puzzle.AuthorID) {
		return nil, util.ErrPermissionDenied
	}
	return puzzle, nil
}

func (s *PuzzleService) Update(requesterID uint, id string, req PuzzleRequest) (*model.Puzzle, error) {
	puzzle, err := s.GetForEdit(requesterID, id)
	if err != nil {
		return nil, err
	}

	puzzle.Name = req.Name
	puzzle.Question = req.Question
	puzzle.Tag = req.Tag
	puzzle.ModifyDate = s.now()

	if err := s.PuzzleRepo.Update(puzzle); err != nil {
		return nil, err
	}
	return puzzle, nil
}

func (s *PuzzleService) Delete(requesterID uint, id string) error {
	puzzle, err := s.Get(id)
	if err != nil {
		return err
	}
	if !util.CanMutate(requesterID, puzzle.AuthorID) {
		return util.ErrPermissionDenied
	}
	return s.PuzzleRepo.Delete(puzzle.ID)
}
