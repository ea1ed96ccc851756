package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"trivia-client/internal/domain"
)

func NewHomeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "home",
		Short: "Show your saved preferences",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd.Context(), *configPath, func(rt *runtime) error {
				prefs, err := rt.service.Home(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(prefs) == 0 {
					fmt.Fprintln(out, "No preferences yet. Pick some with: trivia preferences set --pick category/subDomain")
					return nil
				}
				fmt.Fprintln(out, "Your preferences:")
				for _, p := range prefs {
					if len(p.SubDomains) == 0 {
						fmt.Fprintf(out, "  %s\n", p.Category)
						continue
					}
					fmt.Fprintf(out, "  %s: %s\n", p.Category, strings.Join(p.SubDomains, ", "))
				}
				fmt.Fprintln(out, "\nMenu: play | random | history | logout")
				return nil
			})
		},
	}
}

func NewCategoriesCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List the category catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, c := range domain.Catalog() {
				fmt.Fprintf(out, "%s\n", c.Name)
				for _, sd := range c.SubDomains {
					fmt.Fprintf(out, "  - %s\n", sd)
				}
			}
			return nil
		},
	}
}

func NewPreferencesCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preferences",
		Short: "Manage category preferences",
	}

	var picks []string
	set := &cobra.Command{
		Use:   "set",
		Short: "Save preferences as category/subDomain pairs",
		RunE: func(cmd *cobra.Command, args []string) error {
			prefs, err := parsePicks(append(picks, args...))
			if err != nil {
				return err
			}
			return withRuntime(cmd.Context(), *configPath, func(rt *runtime) error {
				if err := rt.service.SavePreferences(cmd.Context(), prefs); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Saved %d preference(s).\n", len(prefs))
				return nil
			})
		},
	}
	set.Flags().StringArrayVar(&picks, "pick", nil, "category/subDomain, repeatable")
	cmd.AddCommand(set)
	return cmd
}

func parsePicks(picks []string) ([]domain.Preference, error) {
	if len(picks) == 0 {
		return nil, domain.ErrMissingFields
	}
	prefs := make([]domain.Preference, 0, len(picks))
	for _, pick := range picks {
		category, subDomain, ok := strings.Cut(pick, "/")
		category, subDomain = strings.TrimSpace(category), strings.TrimSpace(subDomain)
		if !ok || category == "" || subDomain == "" {
			return nil, fmt.Errorf("%w: %q, want category/subDomain", domain.ErrUnknownCategory, pick)
		}
		prefs = append(prefs, domain.Preference{Category: category, SubDomain: subDomain})
	}
	return prefs, nil
}
