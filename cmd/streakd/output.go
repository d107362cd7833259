package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/streakd/streakd/pkg/streakd"
)

const timeLayout = "2006-01-02 15:04:05"

func printJSON(w io.Writer, v interface{}) {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(v)
}

// printHabit prints a single habit to the writer
func printHabit(w io.Writer, habit *streakd.Habit, jsonOutput bool) {
	if jsonOutput {
		printJSON(w, habit)
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID:\t%s\n", habit.ID)
	fmt.Fprintf(tw, "Name:\t%s\n", habit.Name)
	fmt.Fprintf(tw, "Cadence:\t%s\n", habit.Cadence)
	if habit.Description != nil && *habit.Description != "" {
		fmt.Fprintf(tw, "Description:\t%s\n", *habit.Description)
	}
	if habit.ReminderTime != nil {
		fmt.Fprintf(tw, "Reminder:\t%s\n", *habit.ReminderTime)
	}
	fmt.Fprintf(tw, "Streak:\t%d (longest %d)\n", habit.CurrentStreak, habit.LongestStreak)
	if habit.LastCompletedAt != nil {
		fmt.Fprintf(tw, "Last Done:\t%s\n", habit.LastCompletedAt.Local().Format(timeLayout))
	}
	fmt.Fprintf(tw, "Created:\t%s\n", habit.CreatedAt.Local().Format(timeLayout))
	tw.Flush()
}

// printHabitList prints a page of habits with pagination info
func printHabitList(w io.Writer, list *streakd.HabitList, jsonOutput bool) {
	if jsonOutput {
		printJSON(w, map[string]interface{}{
			"data": list.Habits,
			"pagination": map[string]interface{}{
				"page":        list.Page,
				"per_page":    list.PerPage,
				"total":       list.Total,
				"total_pages": list.TotalPages,
			},
		})
		return
	}

	if len(list.Habits) == 0 {
		fmt.Fprintln(w, "No habits found")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID\tNAME\tCADENCE\tSTREAK\tLONGEST\n")
	fmt.Fprintf(tw, "--\t----\t-------\t------\t-------\n")
	for _, h := range list.Habits {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\n",
			h.ID, truncate(h.Name, 40), h.Cadence, h.CurrentStreak, h.LongestStreak)
	}
	tw.Flush()

	if list.TotalPages > 1 {
		fmt.Fprintf(w, "\nPage %d of %d (%d total habits)\n", list.Page, list.TotalPages, list.Total)
	}
}

// printCompletionResult prints the outcome of completing a habit
func printCompletionResult(w io.Writer, result *streakd.CompletionResult, jsonOutput bool) {
	if jsonOutput {
		printJSON(w, result)
		return
	}

	fmt.Fprintf(w, "Done: %s (streak %d, longest %d)\n",
		result.Habit.Name, result.Habit.CurrentStreak, result.Habit.LongestStreak)
	fmt.Fprintf(w, "+%d XP, total %d XP at level %d\n", result.XPGained, result.User.XP, result.User.Level)
	if result.LeveledUp {
		if result.LevelsGained > 1 {
			fmt.Fprintf(w, "Level up! +%d levels\n", result.LevelsGained)
		} else {
			fmt.Fprintln(w, "Level up!")
		}
	}
}

// printProgress prints a user's progression view
func printProgress(w io.Writer, p *streakd.Progress, jsonOutput bool) {
	if jsonOutput {
		printJSON(w, p)
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID:\t%s\n", p.ID)
	fmt.Fprintf(tw, "Username:\t%s\n", p.Username)
	fmt.Fprintf(tw, "Level:\t%d\n", p.Level)
	fmt.Fprintf(tw, "XP:\t%d\n", p.XP)
	fmt.Fprintf(tw, "Avatar:\t%s\n", p.AvatarState)
	tw.Flush()
}

// printUser prints a newly registered user
func printUser(w io.Writer, u *streakd.User, jsonOutput bool) {
	if jsonOutput {
		printJSON(w, u)
		return
	}

	fmt.Fprintf(w, "Registered %s (%s)\n", u.Username, u.ID)
	fmt.Fprintf(w, "Use --user %s or set STREAKD_USER to act as this user.\n", u.ID)
}

// printStats prints aggregate habit statistics
func printStats(w io.Writer, s *streakd.Stats, jsonOutput bool) {
	if jsonOutput {
		printJSON(w, s)
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Habits:\t%d\n", s.TotalHabits)
	fmt.Fprintf(tw, "Active Streaks:\t%d\n", s.HabitsWithActiveStreak)
	fmt.Fprintf(tw, "Longest Streak:\t%d\n", s.LongestStreakEver)
	fmt.Fprintf(tw, "Completions:\t%d\n", s.TotalCompletionsAllTime)
	tw.Flush()
}

// printError prints an error message
func printError(w io.Writer, err error, jsonOutput bool) {
	if jsonOutput {
		body := map[string]interface{}{"message": err.Error()}
		var apiErr *streakd.Error
		if errors.As(err, &apiErr) {
			body["code"] = apiErr.Code
			body["message"] = apiErr.Message
			if len(apiErr.Context) > 0 {
				body["context"] = apiErr.Context
			}
		}
		printJSON(w, map[string]interface{}{"error": body})
		return
	}

	var apiErr *streakd.Error
	if errors.As(err, &apiErr) {
		if details := apiErr.Details(); len(details) > 0 {
			fmt.Fprintf(w, "Error: %s\n", apiErr.Message)
			for _, d := range details {
				fmt.Fprintf(w, "  - %s\n", d)
			}
			return
		}
	}
	fmt.Fprintf(w, "Error: %s\n", err.Error())
}

// printSuccess prints a success message
func printSuccess(w io.Writer, message string, jsonOutput bool) {
	if jsonOutput {
		printJSON(w, map[string]interface{}{"message": message})
		return
	}

	fmt.Fprintln(w, message)
}

// truncate shortens s to maxLen runes
func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}
