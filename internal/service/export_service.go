package service

import (
	"fmt"
	"io"

	"puzzle_quiz_backend/internal/model"
	"puzzle_quiz_backend/internal/util"

	"github.com/xuri/excelize/v2"
)

const exportSheet = "Responses"

type ExportService struct{}

func NewExportService() *ExportService {
	return &ExportService{}
}

// WriteResponses 每条答题记录一行，题目和答案按位置展开成列
func (s *ExportService) WriteResponses(w io.Writer, responses []model.Response) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return err
	}

	maxQuestions := 0
	for _, r := range responses {
		if len(r.PresentedQuestions) > maxQuestions {
			maxQuestions = len(r.PresentedQuestions)
		}
	}

	header := []interface{}{"ID", "Author", "Variant", "Score", "Total", "Created"}
	for i := 1; i <= maxQuestions; i++ {
		header = append(header, fmt.Sprintf("Question %d", i), fmt.Sprintf("Answer %d", i))
	}
	if err := f.SetSheetRow(exportSheet, "A1", &header); err != nil {
		return err
	}

	for i, r := range responses {
		row := []interface{}{r.ID, r.Author.Name, r.Variant, r.Score, r.Total, r.CreatedAt.Format(util.TimeFormat)}
		for _, item := range r.Items() {
			row = append(row, item.Question, item.Answer)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return err
		}
	}

	return f.Write(w)
}
