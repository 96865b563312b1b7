package excel

import (
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/example/studytrack/internal/database"
	"github.com/example/studytrack/pkg/models"
	"github.com/xuri/excelize/v2"
)

// ImportConfig defines the import configuration
type ImportConfig struct {
	FilePath             string // Path to the Excel or CSV file
	NameColumn           string
	WeightColumn         string
	TargetHoursColumn    string
	LectureHoursColumn   string
	QuestionHoursColumn  string
	DifficultyColumn     string
	CompletionDateColumn string // optional
	SheetName            string // Excel only
	StartRow             int    // 1-based, rows above it are headers
}

// DefaultImportConfig matches the layout ExportSubjectsTemplate writes
func DefaultImportConfig() ImportConfig {
	return ImportConfig{
		NameColumn:           "A",
		WeightColumn:         "B",
		TargetHoursColumn:    "C",
		LectureHoursColumn:   "D",
		QuestionHoursColumn:  "E",
		DifficultyColumn:     "F",
		CompletionDateColumn: "G",
		SheetName:            "Subjects",
		StartRow:             2,
	}
}

// ImportResult holds the result of an import operation
type ImportResult struct {
	TotalProcessed int
	Created        int
	Updated        int
	Skipped        int
	Errors         []string
}

// ImportSubjects creates or updates the user's subjects from an Excel or
// CSV file. Existing subjects are matched by name. Bad rows are recorded in
// the result and do not stop the import.
func ImportSubjects(ctx context.Context, repo *database.SubjectRepository, userID int64, cfg ImportConfig) (*ImportResult, error) {
	rows, err := readRows(cfg)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{Errors: make([]string, 0)}
	for i, row := range rows {
		rowNum := i + 1
		if rowNum < cfg.StartRow {
			continue
		}
		if isBlank(row) {
			result.Skipped++
			continue
		}

		result.TotalProcessed++
		if err := importRow(ctx, repo, userID, cfg, row, result); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", rowNum, err))
		}
	}

	return result, nil
}

func readRows(cfg ImportConfig) ([][]string, error) {
	if strings.ToLower(filepath.Ext(cfg.FilePath)) == ".csv" {
		return readCSV(cfg.FilePath)
	}

	f, err := excelize.OpenFile(cfg.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(cfg.SheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}
	return rows, nil
}

func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV: %w", err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func importRow(ctx context.Context, repo *database.SubjectRepository, userID int64, cfg ImportConfig, row []string, result *ImportResult) error {
	subject, err := parseSubject(cfg, row)
	if err != nil {
		return err
	}
	subject.UserID = userID

	existing, err := repo.GetByName(ctx, userID, subject.Name)
	switch {
	case errors.Is(err, models.ErrNotFound):
		if err := repo.Create(ctx, subject); err != nil {
			return err
		}
		result.Created++
		return nil
	case err != nil:
		return err
	}

	subject.ID = existing.ID
	if err := repo.Update(ctx, subject); err != nil {
		return err
	}
	result.Updated++
	return nil
}

func parseSubject(cfg ImportConfig, row []string) (*models.Subject, error) {
	name := cell(row, cfg.NameColumn)
	if name == "" {
		return nil, fmt.Errorf("subject name cannot be empty")
	}

	subject := &models.Subject{
		Name:       name,
		Weight:     1.0,
		Difficulty: models.DifficultyMedium,
	}

	numbers := []struct {
		column string
		dst    *float64
	}{
		{cfg.WeightColumn, &subject.Weight},
		{cfg.TargetHoursColumn, &subject.TargetTotalHours},
		{cfg.LectureHoursColumn, &subject.DailyLectureHours},
		{cfg.QuestionHoursColumn, &subject.DailyQuestionHours},
	}
	for _, n := range numbers {
		raw := cell(row, n.column)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("column %s: %q is not a number", n.column, raw)
		}
		*n.dst = v
	}

	if d := cell(row, cfg.DifficultyColumn); d != "" {
		subject.Difficulty = d
	}
	if date := cell(row, cfg.CompletionDateColumn); date != "" {
		subject.TargetCompletionDate = sql.NullString{String: date, Valid: true}
	}

	return subject, subject.Validate()
}

// cell returns the trimmed value of column in row, or "" when the column is
// unset or past the end of the row
func cell(row []string, column string) string {
	if column == "" {
		return ""
	}
	idx, err := excelize.ColumnNameToNumber(column)
	if err != nil || idx > len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx-1])
}

func isBlank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
