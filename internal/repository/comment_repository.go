package repository

import (
	"puzzle_quiz_backend/internal/model"

	"gorm.io/gorm"
)

type CommentRepository struct {
	DB *gorm.DB
}

func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{DB: db}
}

func (r *CommentRepository) Create(comment *model.Comment) error {
	return r.DB.Create(comment).Error
}

func (r *CommentRepository) FindByID(id string) (*model.Comment, error) {
	var comment model.Comment
	err := r.DB.Where("id = ?", id).First(&comment).Error
	return &comment, err
}

func (r *CommentRepository) ListByPuzzle(puzzleID string) ([]model.Comment, error) {
	var comments []model.Comment
	err := r.DB.Preload("Author").
		Where("puzzle_id = ?", puzzleID).
		Order("created_at desc").
		Find(&comments).Error
	return comments, err
}

func (r *CommentRepository) ListByResponse(responseID string) ([]model.Comment, error) {
	var comments []model.Comment
	err := r.DB.Preload("Author").
		Where("response_id = ?", responseID).
		Order("created_at desc").
		Find(&comments).Error
	return comments, err
}

func (r *CommentRepository) Delete(id string) error {
	return r.DB.Where("id = ?", id).Delete(&model.Comment{}).Error
}
