package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func NewGenerateCmd(configPath *string) *cobra.Command {
	var category, subDomain string
	var count int
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate new questions with the AI and save them to the backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd.Context(), *configPath, func(rt *runtime) error {
				n, err := rt.service.GenerateQuestions(cmd.Context(), category, subDomain, count)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Saved %d new question(s) for %s/%s.\n", n, category, subDomain)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "category name")
	cmd.Flags().StringVar(&subDomain, "sub-domain", "", "sub-domain name")
	cmd.Flags().IntVar(&count, "count", 10, "number of questions to generate")
	_ = cmd.MarkFlagRequired("category")
	_ = cmd.MarkFlagRequired("sub-domain")
	return cmd
}
