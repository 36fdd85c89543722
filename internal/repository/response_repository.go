package repository

import (
	"puzzle_quiz_backend/internal/model"

	"gorm.io/gorm"
)

type ResponseRepository struct {
	DB *gorm.DB
}

func NewResponseRepository(db *gorm.DB) *ResponseRepository {
	return &ResponseRepository{DB: db}
}

func (r *ResponseRepository) Create(resp *model.Response) error {
	return r.DB.Create(resp).Error
}

func (r *ResponseRepository) FindByID(id string) (*model.Response, error) {
	var resp model.Response
	err := r.DB.Preload("Author").Where("id = ?", id).First(&resp).Error
	return &resp, err
}

func (r *ResponseRepository) List() ([]model.Response, error) {
	var responses []model.Response
	err := r.DB.Preload("Author").Order("created_at desc").Find(&responses).Error
	return responses, err
}

func (r *ResponseRepository) ListByAuthor(authorID uint) ([]model.Response, error) {
	var responses []model.Response
	err := r.DB.Preload("Author").
		Where("author_id = ?", authorID).
		Order("created_at desc").
		Find(&responses).Error
	return responses, err
}

// Delete 同时删除该答题记录下的评论
func (r *ResponseRepository) Delete(id string) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("response_id = ?", id).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&model.Response{}).Error
	})
}
