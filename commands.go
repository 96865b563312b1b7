package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/example/studytrack/internal/ai"
	"github.com/example/studytrack/internal/auth"
	"github.com/example/studytrack/internal/database"
	"github.com/example/studytrack/internal/excel"
	"github.com/example/studytrack/internal/report"
	"github.com/example/studytrack/pkg/models"
	"github.com/spf13/cobra"
)

func registerCmd(a *app) *cobra.Command {
	var in auth.RegisterInput

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account with a default profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := auth.NewService(a.db, a.log).Register(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "registered %s (user %d)\n", in.Username, id)
			return nil
		},
	}

	cmd.Flags().StringVar(&in.Username, "username", "", "login handle")
	cmd.Flags().StringVar(&in.Password, "password", "", "at least 6 characters")
	cmd.Flags().StringVar(&in.DisplayName, "name", "", "display name")
	cmd.Flags().StringVar(&in.Email, "email", "", "optional email")
	cmd.Flags().StringVar(&in.Phone, "phone", "", "optional phone")
	return cmd
}

// dateRange is the --from/--to pair shared by report commands
type dateRange struct {
	from, to string
}

func (r *dateRange) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&r.from, "from", "", "first date, YYYY-MM-DD (default: 6 days before --to)")
	cmd.Flags().StringVar(&r.to, "to", "", "last date, YYYY-MM-DD (default: today)")
}

func (r *dateRange) resolve(now time.Time) (time.Time, time.Time, error) {
	end := now
	if r.to != "" {
		var err error
		if end, err = models.ParseDate(r.to); err != nil {
			return time.Time{}, time.Time{}, models.Invalid("to", "must be YYYY-MM-DD")
		}
	}
	start := end.AddDate(0, 0, -6)
	if r.from != "" {
		var err error
		if start, err = models.ParseDate(r.from); err != nil {
			return time.Time{}, time.Time{}, models.Invalid("from", "must be YYYY-MM-DD")
		}
	}
	return start, end, nil
}

func userID(a *app, cmd *cobra.Command, username string) (int64, error) {
	if username == "" {
		return 0, models.Invalid("username", "is required")
	}
	user, err := database.NewUserRepository(a.db).GetByUsername(cmd.Context(), username)
	if err != nil {
		return 0, fmt.Errorf("user %q: %w", username, err)
	}
	return user.ID, nil
}

func reportCmd(a *app) *cobra.Command {
	var (
		username string
		dates    dateRange
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the study rollup for a date range",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := userID(a, cmd, username)
			if err != nil {
				return err
			}
			start, end, err := dates.resolve(time.Now())
			if err != nil {
				return err
			}

			analysis, err := report.NewEngine(a.db).RangeAnalysis(cmd.Context(), id, start, end)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s .. %s\n", analysis.Start, analysis.End)
			for _, d := range analysis.Days {
				fmt.Fprintf(out, "%s  lecture %.1fh  questions %.1fh  solved %d  exercise %.0f%%\n",
					d.Date, d.LectureHours, d.QuestionHours, d.QuestionsSolved, d.ExerciseRate*100)
			}
			for _, s := range analysis.Subjects {
				fmt.Fprintf(out, "%-20s %.1fh over %d days, %.1f questions/h\n",
					s.SubjectName, s.TotalHours, s.DaysStudied, s.QuestionsPerHour)
			}
			sum := analysis.Summary
			fmt.Fprintf(out, "avg %.1fh lecture, %.1fh questions per study day; exercised %.0f%% of days\n",
				sum.AvgLectureHours, sum.AvgQuestionHours, sum.ExerciseRate*100)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "whose progress to report")
	dates.bind(cmd)
	return cmd
}

func exportCmd(a *app) *cobra.Command {
	var (
		username string
		out      string
		subjects bool
		dates    dateRange
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a date range, or the subject list, to an .xlsx file",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := userID(a, cmd, username)
			if err != nil {
				return err
			}

			if subjects {
				list, err := database.NewSubjectRepository(a.db).List(cmd.Context(), id)
				if err != nil {
					return err
				}
				path := outputPath(a, out, username+"_subjects.xlsx")
				if err := excel.ExportSubjectsTemplate(list, path); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), path)
				return nil
			}

			start, end, err := dates.resolve(time.Now())
			if err != nil {
				return err
			}
			analysis, err := report.NewEngine(a.db).RangeAnalysis(cmd.Context(), id, start, end)
			if err != nil {
				return err
			}
			path := outputPath(a, out, fmt.Sprintf("%s_%s_%s.xlsx", username, analysis.Start, analysis.End))
			if err := excel.ExportRange(analysis, path); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "whose data to export")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default: EXPORT_DIR/<generated name>)")
	cmd.Flags().BoolVar(&subjects, "subjects", false, "export the subject list in import layout")
	dates.bind(cmd)
	return cmd
}

func outputPath(a *app, out, name string) string {
	if out != "" {
		return out
	}
	return filepath.Join(a.cfg.ExportDir, name)
}

func importCmd(a *app) *cobra.Command {
	var (
		username string
		cfg      = excel.DefaultImportConfig()
	)

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Create or update subjects from an .xlsx or .csv file",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := userID(a, cmd, username)
			if err != nil {
				return err
			}

			result, err := excel.ImportSubjects(cmd.Context(), database.NewSubjectRepository(a.db), id, cfg)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "processed %d, created %d, updated %d, skipped %d\n",
				result.TotalProcessed, result.Created, result.Updated, result.Skipped)
			for _, e := range result.Errors {
				fmt.Fprintln(out, e)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "whose subjects to import")
	cmd.Flags().StringVarP(&cfg.FilePath, "file", "f", "", "file to import")
	cmd.Flags().StringVar(&cfg.SheetName, "sheet", cfg.SheetName, "sheet name for .xlsx files")
	cmd.Flags().IntVar(&cfg.StartRow, "start-row", cfg.StartRow, "first data row, 1-based")
	cmd.MarkFlagRequired("file")
	return cmd
}

func askCmd(a *app) *cobra.Command {
	var username string

	cmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Ask the study assistant",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := userID(a, cmd, username)
			if err != nil {
				return err
			}
			subjects, err := database.NewSubjectRepository(a.db).Names(cmd.Context(), id)
			if err != nil {
				return err
			}

			client, err := ai.New(a.cfg.GeminiAPIKey, a.cfg.GeminiModel)
			if err != nil {
				return err
			}
			answer := client.AskWithFallback(cmd.Context(), strings.Join(args, " "), subjects)
			fmt.Fprintln(cmd.OutOrStdout(), answer)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "whose subjects give the question context")
	return cmd
}
