package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

func NewSignupCmd(configPath *string) *cobra.Command {
	var name, email, password string
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account and log in",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd.Context(), *configPath, func(rt *runtime) error {
				in := bufio.NewReader(cmd.InOrStdin())
				out := cmd.OutOrStdout()
				name = prompt(in, out, "Name", name)
				email = prompt(in, out, "Email", email)
				password = prompt(in, out, "Password", password)
				sess, err := rt.service.Signup(cmd.Context(), name, email, password)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Signed up. Welcome, %s!\n", name)
				if sess.IsAdmin() {
					fmt.Fprintln(out, "Admin dashboard available: trivia admin users")
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&password, "password", "", "password (prompted when empty)")
	return cmd
}

func NewLoginCmd(configPath *string) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd.Context(), *configPath, func(rt *runtime) error {
				in := bufio.NewReader(cmd.InOrStdin())
				out := cmd.OutOrStdout()
				email = prompt(in, out, "Email", email)
				password = prompt(in, out, "Password", password)
				sess, err := rt.service.Login(cmd.Context(), email, password)
				if err != nil {
					return err
				}
				if sess.IsAdmin() {
					fmt.Fprintln(out, "Logged in as admin. Try: trivia admin users")
					return nil
				}
				fmt.Fprintln(out, "Logged in. Try: trivia home")
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&password, "password", "", "password (prompted when empty)")
	return cmd
}

func NewLogoutCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd.Context(), *configPath, func(rt *runtime) error {
				if err := rt.service.Logout(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
				return nil
			})
		},
	}
}

func NewDeleteAccountCmd(configPath *string) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete-account",
		Short: "Delete the account on the backend and log out",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if !yes {
				answer := prompt(bufio.NewReader(cmd.InOrStdin()), out, "Delete your account permanently? (yes/no)", "")
				if !strings.EqualFold(answer, "yes") {
					fmt.Fprintln(out, "Cancelled.")
					return nil
				}
			}
			return withRuntime(cmd.Context(), *configPath, func(rt *runtime) error {
				if err := rt.service.DeleteAccount(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(out, "Account deleted.")
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "skip the confirmation prompt")
	return cmd
}

// prompt returns current when set, otherwise reads one line from in.
func prompt(in *bufio.Reader, out io.Writer, label, current string) string {
	if current != "" {
		return current
	}
	fmt.Fprintf(out, "%s: ", label)
	line, err := in.ReadString('\n')
	if err != nil && line == "" {
		return ""
	}
	return strings.TrimSpace(line)
}
