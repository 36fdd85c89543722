package service

import (
	"errors"

	"puzzle_quiz_backend/internal/util"

	"gorm.io/gorm"
)

// notFound 将 gorm 的记录不存在错误统一为 util.ErrNotFound
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return util.ErrNotFound
	}
	return err
}
