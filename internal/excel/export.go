package excel

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/example/studytrack/pkg/models"
	"github.com/xuri/excelize/v2"
)

const (
	dailySheet    = "Daily"
	subjectsSheet = "Subjects"
)

var (
	dailyHeader = []interface{}{
		"Date", "Lecture Hours", "Question Hours", "Questions Solved",
		"Subjects Studied", "Exercise Rate", "Exercise Minutes",
	}
	subjectHeader = []interface{}{
		"Subject", "Weight", "Lecture Hours", "Question Hours", "Questions Solved",
		"Days Studied", "Total Hours", "Hours per Day", "Questions per Hour",
	}
	templateHeader = []interface{}{
		"Subject", "Weight", "Target Total Hours", "Daily Lecture Hours",
		"Daily Question Hours", "Difficulty", "Target Completion Date",
	}
)

// ExportRange writes a range analysis to an .xlsx file with one sheet of
// per-day rows and one of per-subject rows
func ExportRange(analysis *models.RangeAnalysis, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", dailySheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	if err := f.SetSheetRow(dailySheet, "A1", &dailyHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i, d := range analysis.Days {
		row := []interface{}{
			d.Date, d.LectureHours, d.QuestionHours, d.QuestionsSolved,
			d.SubjectsStudied, d.ExerciseRate, d.ExerciseMinutes,
		}
		if err := writeRow(f, dailySheet, i+2, row); err != nil {
			return err
		}
	}

	if _, err := f.NewSheet(subjectsSheet); err != nil {
		return fmt.Errorf("failed to add sheet: %w", err)
	}
	if err := f.SetSheetRow(subjectsSheet, "A1", &subjectHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i, s := range analysis.Subjects {
		row := []interface{}{
			s.SubjectName, s.Weight, s.LectureHours, s.QuestionHours, s.QuestionsSolved,
			s.DaysStudied, s.TotalHours, s.HoursPerDay, s.QuestionsPerHour,
		}
		if err := writeRow(f, subjectsSheet, i+2, row); err != nil {
			return err
		}
	}

	return save(f, path)
}

// ExportSubjectsTemplate writes the user's subjects in the layout
// DefaultImportConfig reads, so a file can be edited and imported back
func ExportSubjectsTemplate(subjects []models.Subject, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", subjectsSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	if err := f.SetSheetRow(subjectsSheet, "A1", &templateHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i, s := range subjects {
		row := []interface{}{
			s.Name, s.Weight, s.TargetTotalHours, s.DailyLectureHours,
			s.DailyQuestionHours, s.Difficulty, s.TargetCompletionDate.String,
		}
		if err := writeRow(f, subjectsSheet, i+2, row); err != nil {
			return err
		}
	}

	return save(f, path)
}

func writeRow(f *excelize.File, sheet string, rowNum int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write row %d: %w", rowNum, err)
	}
	return nil
}

func save(f *excelize.File, path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create export directory: %w", err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}
