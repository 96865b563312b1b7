package main

import (
	"database/sql"
	"fmt"
	"strconv"

	"github.com/example/studytrack/internal/database"
	"github.com/example/studytrack/pkg/models"
	"github.com/spf13/cobra"
)

// subjectFields are the flags shared by subject add and edit
type subjectFields struct {
	name       string
	weight     float64
	target     float64
	lecture    float64
	question   float64
	difficulty string
	due        string
}

func (f *subjectFields) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "subject name")
	cmd.Flags().Float64Var(&f.weight, "weight", 1.0, "importance, 0.5-3.0")
	cmd.Flags().Float64Var(&f.target, "target", 100.0, "total hours to reach")
	cmd.Flags().Float64Var(&f.lecture, "lecture", 2.0, "daily lecture hours")
	cmd.Flags().Float64Var(&f.question, "question", 1.0, "daily question hours")
	cmd.Flags().StringVar(&f.difficulty, "difficulty", models.DifficultyMedium, "Easy, Medium, Hard or Very Hard")
	cmd.Flags().StringVar(&f.due, "due", "", "target completion date, YYYY-MM-DD; empty clears it on edit")
}

// apply copies the flags that changed onto s. all applies every flag.
func (f *subjectFields) apply(s *models.Subject, changed func(string) bool, all bool) {
	set := func(flag string) bool { return all || changed(flag) }
	if set("name") {
		s.Name = f.name
	}
	if set("weight") {
		s.Weight = f.weight
	}
	if set("target") {
		s.TargetTotalHours = f.target
	}
	if set("lecture") {
		s.DailyLectureHours = f.lecture
	}
	if set("question") {
		s.DailyQuestionHours = f.question
	}
	if set("difficulty") {
		s.Difficulty = f.difficulty
	}
	if set("due") {
		s.TargetCompletionDate = sql.NullString{String: f.due, Valid: f.due != ""}
	}
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, models.Invalid("id", fmt.Sprintf("%q is not a positive number", arg))
	}
	return id, nil
}

func subjectCmd(a *app) *cobra.Command {
	var username string

	cmd := &cobra.Command{
		Use:   "subject",
		Short: "Add, edit, remove or list subjects",
	}
	cmd.PersistentFlags().StringVar(&username, "username", "", "whose subjects")

	var added subjectFields
	add := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a subject",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := userID(a, cmd, username)
			if err != nil {
				return err
			}
			s := &models.Subject{UserID: id}
			added.apply(s, cmd.Flags().Changed, true)
			s.Name = args[0]
			if err := database.NewSubjectRepository(a.db).Create(cmd.Context(), s); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added %s (subject %d)\n", s.Name, s.ID)
			return nil
		},
	}
	added.bind(add)

	var edited subjectFields
	edit := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change the given fields of a subject",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := userID(a, cmd, username)
			if err != nil {
				return err
			}
			subjectID, err := parseID(args[0])
			if err != nil {
				return err
			}
			repo := database.NewSubjectRepository(a.db)
			s, err := repo.GetByID(cmd.Context(), id, subjectID)
			if err != nil {
				return err
			}
			edited.apply(s, cmd.Flags().Changed, false)
			if err := repo.Update(cmd.Context(), s); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "updated %s\n", s.Name)
			return nil
		},
	}
	edited.bind(edit)

	rm := &cobra.Command{
		Use:   "rm <id>",
		Short: "Remove a subject with its progress and timetable slots",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := userID(a, cmd, username)
			if err != nil {
				return err
			}
			subjectID, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := database.NewSubjectRepository(a.db).Delete(cmd.Context(), id, subjectID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed subject %d\n", subjectID)
			return nil
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List subjects, most important first",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := userID(a, cmd, username)
			if err != nil {
				return err
			}
			subjects, err := database.NewSubjectRepository(a.db).List(cmd.Context(), id)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, s := range subjects {
				fmt.Fprintf(out, "%4d  %-20s w%.1f  %5.0fh  %.1f+%.1fh/day  %-9s %s\n",
					s.ID, s.Name, s.Weight, s.TargetTotalHours, s.DailyLectureHours, s.DailyQuestionHours,
					s.Difficulty, s.TargetCompletionDate.String)
			}
			return nil
		},
	}

	cmd.AddCommand(add, edit, rm, list)
	return cmd
}

// exerciseFields are the flags shared by exercise add and edit
type exerciseFields struct {
	kind      string
	day       string
	minutes   int
	intensity string
	notes     string
}

func (f *exerciseFields) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.kind, "type", "", "what the routine is")
	cmd.Flags().StringVar(&f.day, "day", "", "weekday, e.g. Monday")
	cmd.Flags().IntVar(&f.minutes, "minutes", 30, "duration in minutes")
	cmd.Flags().StringVar(&f.intensity, "intensity", models.IntensityModerate, "Light, Moderate, Hard or Very Hard")
	cmd.Flags().StringVar(&f.notes, "notes", "", "free text")
}

func (f *exerciseFields) apply(e *models.Exercise, changed func(string) bool, all bool) {
	set := func(flag string) bool { return all || changed(flag) }
	if set("type") {
		e.Type = f.kind
	}
	if set("day") {
		e.DayOfWeek = f.day
	}
	if set("minutes") {
		e.DurationMinutes = f.minutes
	}
	if set("intensity") {
		e.Intensity = f.intensity
	}
	if set("notes") {
		e.Notes = f.notes
	}
}

func findExercise(list []models.Exercise, id int64) (*models.Exercise, error) {
	for i := range list {
		if list[i].ID == id {
			return &list[i], nil
		}
	}
	return nil, fmt.Errorf("exercise %d: %w", id, models.ErrNotFound)
}

func exerciseCmd(a *app) *cobra.Command {
	var username string

	cmd := &cobra.Command{
		Use:   "exercise",
		Short: "Add, edit, remove or list weekly exercise routines",
	}
	cmd.PersistentFlags().StringVar(&username, "username", "", "whose routines")

	var added exerciseFields
	add := &cobra.Command{
		Use:   "add <type>",
		Short: "Add a routine",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := userID(a, cmd, username)
			if err != nil {
				return err
			}
			e := &models.Exercise{UserID: id}
			added.apply(e, cmd.Flags().Changed, true)
			e.Type = args[0]
			if err := database.NewExerciseRepository(a.db).Create(cmd.Context(), e); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added %s on %s (exercise %d)\n", e.Type, e.DayOfWeek, e.ID)
			return nil
		},
	}
	added.bind(add)

	var edited exerciseFields
	edit := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change the given fields of a routine",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := userID(a, cmd, username)
			if err != nil {
				return err
			}
			exerciseID, err := parseID(args[0])
			if err != nil {
				return err
			}
			repo := database.NewExerciseRepository(a.db)
			routines, err := repo.List(cmd.Context(), id)
			if err != nil {
				return err
			}
			e, err := findExercise(routines, exerciseID)
			if err != nil {
				return err
			}
			edited.apply(e, cmd.Flags().Changed, false)
			if err := repo.Update(cmd.Context(), e); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "updated exercise %d\n", e.ID)
			return nil
		},
	}
	edited.bind(edit)

	rm := &cobra.Command{
		Use:   "rm <id>",
		Short: "Remove a routine",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := userID(a, cmd, username)
			if err != nil {
				return err
			}
			exerciseID, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := database.NewExerciseRepository(a.db).Delete(cmd.Context(), id, exerciseID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed exercise %d\n", exerciseID)
			return nil
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List routines in weekday order",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := userID(a, cmd, username)
			if err != nil {
				return err
			}
			routines, err := database.NewExerciseRepository(a.db).List(cmd.Context(), id)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, e := range routines {
				fmt.Fprintf(out, "%4d  %-9s %-20s %3d min  %s\n", e.ID, e.DayOfWeek, e.Type, e.DurationMinutes, e.Intensity)
			}
			return nil
		},
	}

	cmd.AddCommand(add, edit, rm, list)
	return cmd
}
