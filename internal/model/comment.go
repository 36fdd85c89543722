package model

// Comment 只挂在一个 Puzzle 或一个 Response 上
type Comment struct {
	UUIDBase
	Content    string  `gorm:"type:text;not null" json:"content"`
	AuthorID   uint    `gorm:"index" json:"authorId"`
	Author     User    `gorm:"foreignKey:AuthorID" json:"author"`
	PuzzleID   *string `gorm:"index;type:varchar(36)" json:"puzzleId,omitempty"`
	ResponseID *string `gorm:"index;type:varchar(36)" json:"responseId,omitempty"`
}

func (Comment) TableName() string {
	return "comments"
}

// ParentPath 评论所属页面
func (c *Comment) ParentPath() string {
	if c.PuzzleID != nil {
		return "/puzzle/" + *c.PuzzleID
	}
	if c.ResponseID != nil {
		return "/response/" + *c.ResponseID
	}
	return "/puzzles"
}
