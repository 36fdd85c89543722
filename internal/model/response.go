package model

// Response 一次答题记录，创建后不再修改
type Response struct {
	UUIDBase
	AuthorID           uint     `gorm:"index" json:"authorId"`
	Author             User     `gorm:"foreignKey:AuthorID" json:"author"`
	Variant            string   `gorm:"size:50;index" json:"variant"`
	QuestionIDs        []string `gorm:"type:text;serializer:json" json:"questionIds"`
	PresentedQuestions []string `gorm:"type:text;serializer:json" json:"presentedQuestions"`
	SubmittedAnswers   []string `gorm:"type:text;serializer:json" json:"submittedAnswers"`
	Score              int      `gorm:"not null" json:"score"`
	Total              int      `gorm:"not null" json:"total"`
}

func (Response) TableName() string {
	return "responses"
}

// ResponseItem 展示用，按位置对齐题目和答案
type ResponseItem struct {
	Question string
	Answer   string
}

func (r *Response) Items() []ResponseItem {
	items := make([]ResponseItem, len(r.PresentedQuestions))
	for i, q := range r.PresentedQuestions {
		items[i].Question = q
		if i < len(r.SubmittedAnswers) {
			items[i].Answer = r.SubmittedAnswers[i]
		}
	}
	return items
}
