package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"tiffin/internal/domain/entity"
	domainerrors "tiffin/internal/domain/errors"
	"tiffin/internal/errors"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func (c *CLI) newSessionCmds() []*cobra.Command {
	signin := &cobra.Command{Use: "signin", Short: "Sign in and store the session", Args: cobra.NoArgs, RunE: c.run(c.signIn)}
	signin.Flags().String("email", "", "account email")

	signup := &cobra.Command{Use: "signup", Short: "Create an account", Args: cobra.NoArgs, RunE: c.run(c.signUp)}
	signup.Flags().String("name", "", "display name")
	signup.Flags().String("email", "", "account email")
	signup.Flags().String("role", "", "customer, vendor or rider")
	signup.Flags().String("phone", "", "contact phone")
	signup.Flags().String("address", "", "default delivery address")

	profile := &cobra.Command{Use: "profile", Short: "Update the signed-in profile", Args: cobra.NoArgs, RunE: c.authenticated(c.updateProfile)}
	profile.Flags().String("name", "", "display name")
	profile.Flags().String("phone", "", "contact phone")
	profile.Flags().String("address", "", "default delivery address")

	return []*cobra.Command{
		signin,
		signup,
		profile,
		{Use: "signout", Short: "Forget the stored session", Args: cobra.NoArgs, RunE: c.run(c.signOut)},
		{Use: "whoami", Short: "Show the signed-in identity", Args: cobra.NoArgs, RunE: c.run(c.whoami)},
	}
}

func (c *CLI) signIn(cmd *cobra.Command, _ []string) error {
	reader := bufio.NewReader(cmd.InOrStdin())

	email, _ := cmd.Flags().GetString("email")
	if email == "" {
		var err error
		if email, err = prompt(cmd, reader, "Email: "); err != nil {
			return err
		}
	}
	password, err := promptPassword(cmd, reader, "Password: ")
	if err != nil {
		return err
	}

	identity, err := c.session.SignIn(cmd.Context(), entity.SignInRequest{Email: email, Password: password})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s (%s)\n", identity.Name, identity.Role)

	return nil
}

func (c *CLI) signUp(cmd *cobra.Command, _ []string) error {
	reader := bufio.NewReader(cmd.InOrStdin())
	flags := cmd.Flags()

	req := entity.SignUpRequest{}
	req.Name, _ = flags.GetString("name")
	req.Email, _ = flags.GetString("email")
	req.Phone, _ = flags.GetString("phone")
	req.Address, _ = flags.GetString("address")

	if raw, _ := flags.GetString("role"); raw != "" {
		role, ok := entity.ParseRole(raw)
		if !ok {
			return errors.WithStack(domainerrors.ErrValidationFailed.WithDetails("unknown role " + raw))
		}
		req.Role = role
	}
	if req.Email == "" {
		var err error
		if req.Email, err = prompt(cmd, reader, "Email: "); err != nil {
			return err
		}
	}

	password, err := promptPassword(cmd, reader, "Password: ")
	if err != nil {
		return err
	}
	req.Password = password

	if err := c.session.SignUp(cmd.Context(), req); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Account created for %s, sign in to continue\n", req.Email)

	return nil
}

func (c *CLI) signOut(cmd *cobra.Command, _ []string) error {
	c.session.SignOut(cmd.Context())
	fmt.Fprintln(cmd.OutOrStdout(), "Signed out")

	return nil
}

func (c *CLI) whoami(cmd *cobra.Command, _ []string) error {
	identity, ok := c.session.Identity()
	if !ok {
		fmt.Fprintln(cmd.OutOrStdout(), "Not signed in")

		return nil
	}

	w := newTable(cmd)
	fmt.Fprintf(w, "Name\t%s\n", identity.Name)
	fmt.Fprintf(w, "Email\t%s\n", identity.Email)
	fmt.Fprintf(w, "Role\t%s\n", identity.Role)
	fmt.Fprintf(w, "Home\t%s\n", identity.Role.HomePath())
	fmt.Fprintf(w, "Address\t%s\n", identity.DeliveryAddress())

	return w.Flush()
}

func (c *CLI) updateProfile(cmd *cobra.Command, _ []string) error {
	update := entity.ProfileUpdate{}
	for name, field := range map[string]**string{
		"name":    &update.Name,
		"phone":   &update.Phone,
		"address": &update.Address,
	} {
		if !cmd.Flags().Changed(name) {
			continue
		}
		value, _ := cmd.Flags().GetString(name)
		*field = &value
	}

	identity, err := c.session.UpdateProfile(cmd.Context(), update)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Profile saved for %s\n", identity.Name)

	return nil
}

func prompt(cmd *cobra.Command, reader *bufio.Reader, label string) (string, error) {
	fmt.Fprint(cmd.OutOrStdout(), label)

	line, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", errors.Wrap(err, "read input")
	}

	return strings.TrimSpace(line), nil
}

// promptPassword hides input on a terminal and falls back to a plain line otherwise.
func promptPassword(cmd *cobra.Command, reader *bufio.Reader, label string) (string, error) {
	file, ok := cmd.InOrStdin().(*os.File)
	if !ok || !term.IsTerminal(int(file.Fd())) {
		return prompt(cmd, reader, label)
	}

	fmt.Fprint(cmd.OutOrStdout(), label)
	password, err := term.ReadPassword(int(file.Fd()))
	fmt.Fprintln(cmd.OutOrStdout())
	if err != nil {
		return "", errors.Wrap(err, "read password")
	}

	return string(password), nil
}
