package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"trivia-client/internal/app"
)

func NewAdminCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Admin dashboard (admin role only)",
	}

	users := &cobra.Command{
		Use:   "users",
		Short: "List users with their total score and attempts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd.Context(), *configPath, func(rt *runtime) error {
				list, err := rt.service.AdminUsers(cmd.Context())
				if err != nil {
					return err
				}
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "NAME\tEMAIL\tTOTAL SCORE\tATTEMPTS")
				for _, u := range list {
					fmt.Fprintf(w, "%s\t%s\t%d\t%d\n", u.Name, u.Email, u.TotalScore, u.Attempts)
				}
				return w.Flush()
			})
		},
	}

	var email string
	performance := &cobra.Command{
		Use:   "performance",
		Short: "Show one user's similar-pair score timeline",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd.Context(), *configPath, func(rt *runtime) error {
				perf, err := rt.service.UserPerformance(cmd.Context(), email)
				if err != nil {
					return err
				}
				printPerformance(cmd.OutOrStdout(), perf)
				return nil
			})
		},
	}
	performance.Flags().StringVar(&email, "email", "", "user email")
	_ = performance.MarkFlagRequired("email")

	cmd.AddCommand(users, performance)
	return cmd
}

func printPerformance(out io.Writer, perf app.Performance) {
	fmt.Fprintf(out, "Performance of %s\n", perf.Email)
	if len(perf.Entries) == 0 {
		fmt.Fprintln(out, "No attempts yet.")
		return
	}
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ATTEMPT\tSCORE\tSTATUS\tWHEN")
	for _, e := range perf.Entries {
		when := e.RawTimestamp
		if !e.Timestamp.IsZero() {
			when = e.Timestamp.Local().Format("2006-01-02 15:04")
		}
		fmt.Fprintf(w, "%d\t%d\t%s\t%s\n", e.Attempt, e.Score, e.Status, when)
	}
	_ = w.Flush()

	labels, scores := perf.ChartSeries()
	fmt.Fprintln(out)
	for i, s := range scores {
		fmt.Fprintf(out, "%3s | %s %d\n", labels[i], strings.Repeat("█", s*4), s)
	}
	if perf.Summary != "" {
		fmt.Fprintf(out, "\n%s\n", perf.Summary)
	}
}
