package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/example/studytrack/internal/auth"
	"github.com/example/studytrack/internal/database"
	"github.com/example/studytrack/internal/report"
	"github.com/example/studytrack/internal/schedule"
	"github.com/example/studytrack/internal/session"
	"github.com/example/studytrack/pkg/models"
	"github.com/spf13/cobra"
)

func statusCmd(a *app) *cobra.Command {
	var username string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show onboarding progress and today's dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := userID(a, cmd, username)
			if err != nil {
				return err
			}

			stage, err := session.CurrentStage(cmd.Context(), session.NewStoreGate(a.db), id)
			if err != nil {
				return err
			}
			dash, err := report.NewEngine(a.db).Dashboard(cmd.Context(), id, time.Now())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "stage: %s\n", stage)
			fmt.Fprintf(out, "subjects: %d, exercises: %d, logged today: %t\n", dash.Subjects, dash.Exercises, dash.TodayLogged)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "whose status to show")
	return cmd
}

func timetableCmd(a *app) *cobra.Command {
	var (
		username string
		slots    []string
	)

	cmd := &cobra.Command{
		Use:   "timetable",
		Short: "Print the weekly timetable, or replace it with --slot values",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := userID(a, cmd, username)
			if err != nil {
				return err
			}
			resolver := schedule.NewResolver(a.db, a.log)

			if len(slots) > 0 {
				inputs := make([]schedule.SlotInput, 0, len(slots))
				for _, raw := range slots {
					in, err := parseSlot(raw)
					if err != nil {
						return err
					}
					inputs = append(inputs, in)
				}
				saved, err := resolver.Save(cmd.Context(), id, inputs)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "saved %d of %d slots\n", saved, len(inputs))
			}

			week, err := resolver.Week(cmd.Context(), id)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, day := range week {
				fmt.Fprintln(out, day.Day)
				for _, s := range day.Slots {
					fmt.Fprintf(out, "  %s-%s  %-10s %s\n", s.StartTime, s.EndTime, s.SessionType, s.SubjectName)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "whose timetable")
	cmd.Flags().StringArrayVar(&slots, "slot", nil, "Day,Subject,HH:MM,HH:MM,Session (repeatable)")
	return cmd
}

// parseSlot reads "Monday,Mathematics,08:00,10:00,Morning"
func parseSlot(raw string) (schedule.SlotInput, error) {
	parts := strings.Split(raw, ",")
	if len(parts) != 5 {
		return schedule.SlotInput{}, models.Invalid("slot", fmt.Sprintf("%q must be Day,Subject,Start,End,Session", raw))
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return schedule.SlotInput{
		Day:          parts[0],
		SubjectName:  parts[1],
		StartTime:    parts[2],
		EndTime:      parts[3],
		SessionLabel: parts[4],
	}, nil
}

func logCmd(a *app) *cobra.Command {
	var (
		username string
		date     string
		entries  []string
		minutes  int
		mood     string
		notes    string
	)

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Record a day's study entries and exercise/mood",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := userID(a, cmd, username)
			if err != nil {
				return err
			}
			if date == "" {
				date = models.FormatDate(time.Now())
			}

			subjects := database.NewSubjectRepository(a.db)
			study := make([]models.StudyEntry, 0, len(entries))
			for _, raw := range entries {
				name, entry, err := parseEntry(raw)
				if err != nil {
					return err
				}
				subject, err := subjects.GetByName(ctx, id, name)
				if err != nil {
					return fmt.Errorf("subject %q: %w", name, err)
				}
				entry.SubjectID = subject.ID
				study = append(study, entry)
			}

			progress := database.NewProgressRepository(a.db)
			day := models.DefaultDailyLog(id, date)
			if existing, err := progress.GetDailyLog(ctx, id, date); err != nil {
				return err
			} else if existing != nil {
				day = *existing
			}
			if cmd.Flags().Changed("exercise-minutes") {
				day.ExerciseMinutes = minutes
				day.ExerciseDone = minutes > 0
			}
			if mood != "" {
				day.Mood = mood
			}
			if notes != "" {
				day.Notes = notes
			}

			if err := progress.SaveDay(ctx, id, date, study, day); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "saved %d entries for %s\n", len(study), date)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "whose day to record")
	cmd.Flags().StringVar(&date, "date", "", "YYYY-MM-DD (default: today)")
	cmd.Flags().StringArrayVar(&entries, "entry", nil, "Subject=lectureHours,questionHours,questionsSolved (repeatable)")
	cmd.Flags().IntVar(&minutes, "exercise-minutes", 0, "minutes exercised, 0 for none")
	cmd.Flags().StringVar(&mood, "mood", "", "one of the mood labels")
	cmd.Flags().StringVar(&notes, "notes", "", "free text")
	return cmd
}

// parseEntry reads "Mathematics=2,1.5,30"
func parseEntry(raw string) (string, models.StudyEntry, error) {
	var entry models.StudyEntry
	name, values, ok := strings.Cut(raw, "=")
	name = strings.TrimSpace(name)
	parts := strings.Split(values, ",")
	if !ok || name == "" || len(parts) != 3 {
		return "", entry, models.Invalid("entry", fmt.Sprintf("%q must be Subject=lecture,question,solved", raw))
	}

	var err error
	if entry.LectureHoursActual, err = strconv.ParseFloat(strings.TrimSpace(parts[0]), 64); err != nil {
		return "", entry, models.Invalid("entry", "lecture hours must be a number")
	}
	if entry.QuestionHoursActual, err = strconv.ParseFloat(strings.TrimSpace(parts[1]), 64); err != nil {
		return "", entry, models.Invalid("entry", "question hours must be a number")
	}
	if entry.QuestionsSolved, err = strconv.Atoi(strings.TrimSpace(parts[2])); err != nil {
		return "", entry, models.Invalid("entry", "questions solved must be a whole number")
	}
	return name, entry, nil
}

func profileCmd(a *app) *cobra.Command {
	var (
		username string
		name     string
		hours    int
		wakeup   string
		bedtime  string
		photo    string
	)

	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or update the student profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := userID(a, cmd, username)
			if err != nil {
				return err
			}

			profiles := database.NewProfileRepository(a.db)
			p, err := profiles.GetByUserID(ctx, id)
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			changed := photo != ""
			for _, f := range []string{"name", "hours", "wakeup", "bedtime"} {
				changed = changed || flags.Changed(f)
			}
			if flags.Changed("name") {
				p.Name = name
			}
			if flags.Changed("hours") {
				p.TargetStudyHours = hours
			}
			if flags.Changed("wakeup") {
				p.WakeupTime = wakeup
			}
			if flags.Changed("bedtime") {
				p.Bedtime = bedtime
			}
			if photo != "" {
				f, err := os.Open(photo)
				if err != nil {
					return fmt.Errorf("failed to open photo: %w", err)
				}
				encoded, err := auth.EncodePhoto(f)
				f.Close()
				if err != nil {
					return err
				}
				p.Photo.String, p.Photo.Valid = encoded, true
			}

			if changed {
				if err := profiles.Save(ctx, p); err != nil {
					return err
				}
			}

			hasPhoto := "no"
			if stored, err := profiles.Photo(ctx, id); err == nil && stored != "" {
				hasPhoto = "yes"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %dh/day, wake %s, bed %s, photo %s\n",
				p.Name, p.TargetStudyHours, p.WakeupTime, p.Bedtime, hasPhoto)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "whose profile")
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().IntVar(&hours, "hours", models.DefaultStudyHours, "daily study target, 1-12")
	cmd.Flags().StringVar(&wakeup, "wakeup", "", "HH:MM")
	cmd.Flags().StringVar(&bedtime, "bedtime", "", "HH:MM")
	cmd.Flags().StringVar(&photo, "photo", "", "image file to store as the profile photo")
	return cmd
}
