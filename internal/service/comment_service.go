package service

import (
	"puzzle_quiz_backend/internal/model"
	"puzzle_quiz_backend/internal/repository"
	"puzzle_quiz_backend/internal/util"
)

type CommentService struct {
	CommentRepo  *repository.CommentRepository
	PuzzleRepo   *repository.PuzzleRepository
	ResponseRepo *repository.ResponseRepository
}

func NewCommentService(commentRepo *repository.CommentRepository, puzzleRepo *repository.PuzzleRepository, responseRepo *repository.ResponseRepository) *CommentService {
	return &CommentService{
		CommentRepo:  commentRepo,
		PuzzleRepo:   puzzleRepo,
		ResponseRepo: responseRepo,
	}
}

type CommentRequest struct {
	Content string `form:"content" binding:"required,max=2000"`
}

// CommentTarget 恰好指定一个父对象
type CommentTarget struct {
	PuzzleID   string
	ResponseID string
}

func (s *CommentService) Create(authorID uint, target CommentTarget, req CommentRequest) (*model.Comment, error) {
	if (target.PuzzleID == "") == (target.ResponseID == "") {
		return nil, util.ErrCommentParent
	}

	comment := &model.Comment{
		Content:  req.Content,
		AuthorID: authorID,
	}
	if target.PuzzleID != "" {
		if !model.IsUUID(target.PuzzleID) {
			return nil, util.ErrNotFound
		}
		puzzle, err := s.PuzzleRepo.FindByID(target.PuzzleID)
		if err != nil {
			return nil, notFound(err)
		}
		comment.PuzzleID = &puzzle.ID
	} else {
		if !model.IsUUID(target.ResponseID) {
			return nil, util.ErrNotFound
		}
		resp, err := s.ResponseRepo.FindByID(target.ResponseID)
		if err != nil {
			return nil, notFound(err)
		}
		comment.ResponseID = &resp.ID
	}

	if err := s.CommentRepo.Create(comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// Delete 返回被删除（或拒绝删除）的评论，便于跳回所属页面
func (s *CommentService) Delete(requesterID uint, id string) (*model.Comment, error) {
	if !model.IsUUID(id) {
		return nil, util.ErrNotFound
	}
	comment, err := s.CommentRepo.FindByID(id)
	if err != nil {
		return nil, notFound(err)
	}
	if !util.CanMutate(requesterID, comment.AuthorID) {
		return comment, util.ErrPermissionDenied
	}
	return comment, s.CommentRepo.Delete(comment.ID)
}
