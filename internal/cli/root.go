package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"trivia-client/internal/app"
)

var configPath string

// Execute runs the CLI.
func Execute() error {
	cmd := newRootCmd()
	err := cmd.Execute()
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), "Error:", app.AlertText(err))
	}
	return err
}

func newRootCmd() *cobra.Command {
	envConfig := os.Getenv("CONFIG_PATH")
	if envConfig == "" {
		envConfig = "config/config.yaml"
	}

	cmd := &cobra.Command{
		Use:           "trivia",
		Short:         "Trivia quiz client: play category quizzes against the trivia backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", envConfig, "path to YAML config")
	cmd.AddCommand(
		NewSignupCmd(&configPath),
		NewLoginCmd(&configPath),
		NewLogoutCmd(&configPath),
		NewDeleteAccountCmd(&configPath),
		NewHomeCmd(&configPath),
		NewCategoriesCmd(&configPath),
		NewPreferencesCmd(&configPath),
		NewPlayCmd(&configPath),
		NewRandomCmd(&configPath),
		NewHistoryCmd(&configPath),
		NewGenerateCmd(&configPath),
		NewAdminCmd(&configPath),
		NewServeCmd(&configPath),
		NewMigrateCmd(&configPath),
	)
	return cmd
}
