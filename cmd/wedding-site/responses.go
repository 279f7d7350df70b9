package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"wedding-site/internal/app"
	"wedding-site/internal/logging"
	"wedding-site/internal/models"
	"wedding-site/internal/storage"
)

var (
	responsesStatus string
	responsesEmail  string
)

var responsesCmd = &cobra.Command{
	Use:   "responses",
	Short: "List RSVPs recorded in the local journal",
	RunE:  runResponses,
}

func init() {
	responsesCmd.Flags().StringVar(&responsesStatus, "status", "", "only show yes or no answers")
	responsesCmd.Flags().StringVar(&responsesEmail, "email", "", "only show the latest answer sent from this email")
}

func runResponses(cmd *cobra.Command, args []string) error {
	var status models.Attendance
	if responsesStatus != "" {
		status = models.Attendance(strings.ToLower(responsesStatus))
		if !status.Valid() {
			return fmt.Errorf("invalid status %q (want yes or no)", responsesStatus)
		}
	}

	a, err := app.New(cmd.Context(), cfg, logging.Console(cfg.Server.LogLevel))
	if err != nil {
		return err
	}
	defer a.Close()
	if a.Journal == nil {
		return errors.New("storage is disabled (set storage.enabled)")
	}

	var responses []models.Response
	switch {
	case responsesEmail != "":
		latest, err := a.Journal.LatestForEmail(cmd.Context(), responsesEmail)
		if errors.Is(err, storage.ErrNotFound) {
			break
		}
		if err != nil {
			return err
		}
		if status == models.AttendanceUnset || latest.Attendance == status {
			responses = append(responses, latest)
		}
	case status == models.AttendanceUnset:
		responses, err = a.Journal.GetAllResponses(cmd.Context())
	default:
		responses, err = a.Journal.GetResponsesByAttendance(cmd.Context(), status)
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(responses) == 0 {
		fmt.Fprintln(out, "No responses found.")
		return nil
	}

	fmt.Fprintf(out, "📋 Responses (%d total):\n", len(responses))
	fmt.Fprintln(out, strings.Repeat("-", 60))
	for _, r := range responses {
		fmt.Fprintf(out, "Name: %s\n", r.Name)
		fmt.Fprintf(out, "Email: %s\n", r.Email)
		fmt.Fprintf(out, "Attending: %s\n", r.Attendance)
		for _, m := range r.Meals {
			fmt.Fprintf(out, "Meal (%s): %s\n", m.Name, strings.Trim(m.Starter+", "+m.Main, ", "))
		}
		if r.DietaryRestrictions != "" {
			fmt.Fprintf(out, "Dietary: %s\n", r.DietaryRestrictions)
		}
		if r.SongRequest != "" {
			fmt.Fprintf(out, "Song: %s\n", r.SongRequest)
		}
		fmt.Fprintf(out, "Submitted: %s\n", r.SubmittedAt.Format("2006-01-02 15:04:05"))
		fmt.Fprintln(out, strings.Repeat("-", 60))
	}
	return nil
}
