package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jrsteele09/traveline-backoffice/auth"
	"github.com/jrsteele09/traveline-backoffice/token"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newLoginCommand(opts *rootOptions) *cobra.Command {
	var creds auth.Credentials

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to the Traveline backend and store the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in := bufio.NewReader(cmd.InOrStdin())
			if !cmd.Flags().Changed("username") {
				cmd.Print("Username: ")
				username, err := readLine(in)
				if err != nil {
					return err
				}
				creds.Username = username
			}
			if !cmd.Flags().Changed("password") {
				password, err := readPassword(cmd, in)
				if err != nil {
					return err
				}
				creds.Password = password
			}

			a, err := newApp(cmd.Context(), opts.cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			resp, err := a.auth.Login(cmd.Context(), creds)
			if err != nil {
				return fmt.Errorf("login failed: %w", err)
			}
			role := a.session.Role().String()
			if role == "" {
				role = resp.Role
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (%s)\n", creds.Username, role)
			return nil
		},
	}
	cmd.Flags().StringVarP(&creds.Username, "username", "u", "", "Operator username. Prompted for when omitted.")
	cmd.Flags().StringVarP(&creds.Password, "password", "p", "", "Operator password. Prompted for without echo when omitted.")
	return cmd
}

func readLine(in *bufio.Reader) (string, error) {
	line, err := in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// readPassword reads without echo from a terminal, or a plain line from
// anything else so the command can be scripted.
func readPassword(cmd *cobra.Command, in *bufio.Reader) (string, error) {
	if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		cmd.Print("Password: ")
		password, err := term.ReadPassword(int(f.Fd()))
		cmd.Println()
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return string(password), nil
	}
	return readLine(in)
}

func newLogoutCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), opts.cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.auth.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

func newWhoamiCommand(opts *rootOptions) *cobra.Command {
	var remote bool

	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the stored session",
		Long:  "Show the stored session. With --remote the backend profile is fetched too; a rejected profile request clears the session.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), opts.cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			accessToken := a.session.AccessToken()
			if accessToken == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "Not logged in")
				return nil
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Backend:  %s\n", a.session.Namespace())
			role := a.session.Role().String()
			if role == "" {
				role = "(none)"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Role:     %s\n", role)

			info, err := token.Inspect(accessToken)
			if err != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "Token:    unreadable (%v)\n", err)
			} else {
				if info.Username != "" {
					fmt.Fprintf(cmd.OutOrStdout(), "Username: %s\n", info.Username)
				}
				if info.Subject != "" {
					fmt.Fprintf(cmd.OutOrStdout(), "Subject:  %s\n", info.Subject)
				}
				if !info.ExpiresAt.IsZero() {
					state := "valid"
					if info.Expired {
						state = "expired"
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Expires:  %s (%s)\n", info.ExpiresAt.Format("2006-01-02 15:04:05"), state)
				}
			}

			if !remote {
				return nil
			}
			profile, err := a.auth.Profile(cmd.Context())
			if err != nil {
				return fmt.Errorf("profile request failed, session cleared: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Profile:  #%d %s (%s)\n", profile.UserID, profile.Username, profile.Role)
			return nil
		},
	}
	cmd.Flags().BoolVar(&remote, "remote", false, "Also fetch the profile from the backend.")
	return cmd
}
