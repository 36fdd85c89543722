package repository

import (
	"puzzle_quiz_backend/internal/model"

	"gorm.io/gorm"
)

type PuzzleRepository struct {
	DB *gorm.DB
}

func NewPuzzleRepository(db *gorm.DB) *PuzzleRepository {
	return &PuzzleRepository{DB: db}
}

func (r *PuzzleRepository) Create(puzzle *model.Puzzle) error {
	return r.DB.Create(puzzle).Error
}

func (r *PuzzleRepository) FindByID(id string) (*model.Puzzle, error) {
	var puzzle model.Puzzle
	err := r.DB.Preload("Author").Where("id = ?", id).First(&puzzle).Error
	return &puzzle, err
}

func (r *PuzzleRepository) List() ([]model.Puzzle, error) {
	var puzzles []model.Puzzle
	err := r.DB.Preload("Author").Order("modify_date desc").Find(&puzzles).Error
	return puzzles, err
}

func (r *PuzzleRepository) Update(puzzle *model.Puzzle) error {
	return r.DB.Model(&model.Puzzle{}).
		Where("id = ?", puzzle.ID).
		Updates(map[string]interface{}{
			"name":        puzzle.Name,
			"question":    puzzle.Question,
			"tag":         puzzle.Tag,
			"modify_date": puzzle.ModifyDate,
		}).Error
}

// Delete 同时删除该谜题下的评论
func (r *PuzzleRepository) Delete(id string) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("puzzle_id = ?", id).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&model.Puzzle{}).Error
	})
}
