package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/netondemand/portal/internal/core/domain"
)

var (
	flagProfileFirstName string
	flagProfileLastName  string
	flagProfileEmail     string
	flagProfilePhone     string

	flagPasswordCurrent string
	flagPasswordNew     string
	flagPasswordConfirm string
)

func init() {
	f := profileUpdateCmd.Flags()
	f.StringVar(&flagProfileFirstName, "first-name", "", "first name")
	f.StringVar(&flagProfileLastName, "last-name", "", "last name")
	f.StringVar(&flagProfileEmail, "email", "", "email address")
	f.StringVar(&flagProfilePhone, "phone", "", "phone number")

	pf := profilePasswordCmd.Flags()
	pf.StringVar(&flagPasswordCurrent, "current", "", "current password (required)")
	pf.StringVar(&flagPasswordNew, "new", "", "new password, at least 8 characters (required)")
	pf.StringVar(&flagPasswordConfirm, "confirm", "", "repeat of the new password (defaults to --new)")
	_ = profilePasswordCmd.MarkFlagRequired("current")
	_ = profilePasswordCmd.MarkFlagRequired("new")

	profileCmd.AddCommand(profileShowCmd, profileUpdateCmd, profilePasswordCmd)
	rootCmd.AddCommand(profileCmd)
}

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "View and edit the signed-in user's profile",
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the profile stored by the backend",
	RunE: func(cmd *cobra.Command, _ []string) error {
		p, err := current.profiles.Get(current.ctx)
		if err != nil {
			return err
		}
		return renderProfile(cmd, p)
	},
}

var profileUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Change name, email or phone",
	RunE: func(cmd *cobra.Command, _ []string) error {
		in := domain.UpdateProfile{
			FirstName: flagProfileFirstName,
			LastName:  flagProfileLastName,
			Email:     flagProfileEmail,
			Phone:     flagProfilePhone,
		}
		if in == (domain.UpdateProfile{}) {
			return errors.New("nothing to update: pass at least one of --first-name, --last-name, --email, --phone")
		}
		p, err := current.profiles.Update(current.ctx, current.profile, in)
		if err != nil {
			return err
		}
		return renderProfile(cmd, p)
	},
}

var profilePasswordCmd = &cobra.Command{
	Use:   "password",
	Short: "Change the account password",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if len(flagPasswordNew) < 8 {
			return errors.New("password must be at least 8 characters long")
		}
		confirm := flagPasswordConfirm
		if confirm == "" {
			confirm = flagPasswordNew
		}
		msg, err := current.profiles.ChangePassword(current.ctx, current.userID(), domain.ChangePassword{
			CurrentPassword: flagPasswordCurrent,
			NewPassword:     flagPasswordNew,
			ConfirmPassword: confirm,
		})
		if err != nil {
			return err
		}
		if msg == "" {
			msg = "Password changed successfully"
		}
		if current.json {
			return writeJSON(cmd.OutOrStdout(), map[string]string{"message": msg})
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), msg)
		return err
	},
}

func renderProfile(cmd *cobra.Command, p *domain.UserProfile) error {
	return render(cmd, p, func(w io.Writer) error {
		t := newTable(w, "FIELD", "VALUE")
		t.row("ID", p.ID)
		t.row("Username", p.Username)
		t.row("Name", p.ToUser().FullName())
		t.row("Email", p.Email)
		t.row("Phone", p.Phone)
		t.row("Company", p.CompanyDisplayName())
		t.row("Role", p.Role)
		t.row("Status", p.Status)
		return t.flush()
	})
}
