package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func NewHistoryCmd(configPath *string) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List your completed quizzes",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd.Context(), *configPath, func(rt *runtime) error {
				attempts, err := rt.service.History(cmd.Context(), limit)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(attempts) == 0 {
					fmt.Fprintln(out, "No completed quizzes yet.")
					return nil
				}
				w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "WHEN\tCATEGORY\tSCORE\tPAIR")
				for _, a := range attempts {
					category := a.Category
					if a.SubDomain != "" {
						category += "/" + a.SubDomain
					}
					if category == "" {
						category = "random"
					}
					pair := "-"
					if a.Pair != nil {
						pair = fmt.Sprintf("%s (+%d)", a.Pair.Status, a.Pair.Increment)
					}
					fmt.Fprintf(w, "%s\t%s\t%d/%d\t%s\n", a.CompletedAt.Local().Format("2006-01-02 15:04"), category, a.Correct, a.Total, pair)
				}
				return w.Flush()
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum attempts to show (0 for all)")
	return cmd
}
