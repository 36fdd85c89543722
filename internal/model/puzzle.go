package model

import "time"

type Puzzle struct {
	UUIDBase
	Name       string    `gorm:"size:255;not null" json:"name"`
	Question   string    `gorm:"type:text;not null" json:"question"`
	Tag        string    `gorm:"size:100;index" json:"tag"`
	AuthorID   uint      `gorm:"index" json:"authorId"`
	Author     User      `gorm:"foreignKey:AuthorID" json:"author"`
	ModifyDate time.Time `json:"modifyDate"`
}

func (Puzzle) TableName() string {
	return "puzzles"
}
