package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/netondemand/portal/internal/core/domain"
)

var (
	flagLoginUsername string
	flagLoginPassword string
	flagLoginRemember bool
)

func init() {
	loginCmd.Flags().StringVarP(&flagLoginUsername, "username", "u", "", "username or email (required)")
	loginCmd.Flags().StringVarP(&flagLoginPassword, "password", "p", "", "password (prompted when omitted)")
	loginCmd.Flags().BoolVar(&flagLoginRemember, "remember", false, "ask the backend for a long-lived session")
	_ = loginCmd.MarkFlagRequired("username")

	rootCmd.AddCommand(loginCmd, logoutCmd, whoamiCmd, refreshCmd)
}

var loginCmd = &cobra.Command{
	Use:         "login",
	Short:       "Sign in and store the session for the selected profile",
	Annotations: map[string]string{annotationAnonymous: "true"},
	RunE: func(cmd *cobra.Command, _ []string) error {
		password := flagLoginPassword
		if password == "" {
			var err error
			if password, err = readPassword(cmd.InOrStdin(), cmd.ErrOrStderr()); err != nil {
				return err
			}
		}
		if strings.TrimSpace(flagLoginUsername) == "" || password == "" {
			return errors.New("username and password are required")
		}

		res, err := current.auth.Login(current.ctx, current.profile, domain.Credentials{
			Email:      flagLoginUsername,
			Password:   password,
			RememberMe: flagLoginRemember,
		})
		if err != nil {
			return err
		}

		return render(cmd, res.User, func(w io.Writer) error {
			_, err := fmt.Fprintf(w, "Logged in as %s (%s) on profile %q\n", displayName(res.User), res.User.Role, current.profile)
			return err
		})
	},
}

var logoutCmd = &cobra.Command{
	Use:         "logout",
	Short:       "Drop the stored session",
	Annotations: map[string]string{annotationAnonymous: "true"},
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := current.auth.Logout(current.ctx, current.profile); err != nil {
			return err
		}
		if current.json {
			return writeJSON(cmd.OutOrStdout(), map[string]bool{"loggedOut": true})
		}
		_, err := fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
		return err
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	RunE: func(cmd *cobra.Command, _ []string) error {
		u := current.session.User
		if u == nil {
			return ErrNotLoggedIn
		}
		return render(cmd, u, func(w io.Writer) error {
			t := newTable(w, "FIELD", "VALUE")
			t.row("ID", u.ID)
			t.row("Name", displayName(*u))
			t.row("Email", u.Email)
			t.row("Company", u.Company)
			t.row("Role", u.Role)
			if u.LastLogin != nil {
				t.row("Last login", u.LastLogin.Local().Format(time.RFC1123))
			}
			return t.flush()
		})
	},
}

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Exchange the refresh token for a new access token",
	RunE: func(cmd *cobra.Command, _ []string) error {
		res, err := current.auth.Refresh(current.ctx, current.profile)
		if err != nil {
			return err
		}
		if current.json {
			return writeJSON(cmd.OutOrStdout(), map[string]any{"user": res.User, "expiresIn": res.ExpiresIn})
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "Session refreshed, expires in %s\n", time.Duration(res.ExpiresIn)*time.Millisecond)
		return err
	},
}

func displayName(u domain.User) string {
	if name := u.FullName(); name != "" {
		return name
	}
	return u.Username
}

// readPassword prompts without echo on a terminal and reads one line otherwise.
func readPassword(in io.Reader, prompt io.Writer) (string, error) {
	fmt.Fprint(prompt, "Password: ")
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(prompt)
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(b), nil
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
