package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aussiebroadwan/inkwell/internal/blog/app"
	"github.com/aussiebroadwan/inkwell/internal/blog/service"
	"github.com/aussiebroadwan/inkwell/pkg/cryptox"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

func newUseraddCmd(opts *rootOptions) *cobra.Command {
	var passwordStdin bool

	cmd := &cobra.Command{
		Use:   "useradd <username>",
		Short: "Create an administrator account",
		Long: `Creates an administrator without going through the registration page.
The password is prompted for twice unless --password-stdin is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.LoadConfig(opts.configPath)
			if err != nil {
				return err
			}

			var password string
			if passwordStdin {
				password, err = readLine(cmd.InOrStdin())
			} else {
				password, err = promptPassword(cmd.ErrOrStderr())
			}
			if err != nil {
				return err
			}

			cryptox.SetPepperPath(cfg.PepperFile)

			db, err := app.OpenStore(cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := db.ApplyMigrations(); err != nil {
				return fmt.Errorf("apply migrations: %w", err)
			}

			users := &service.UserService{Store: db}
			user, err := users.Register(cmd.Context(), args[0], password)
			if err != nil {
				return describeRegisterError(err)
			}

			n, err := db.Users().CountUsers(cmd.Context())
			if err != nil {
				return fmt.Errorf("count users: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "created user %s (id %d), users: %d\n", user.Username, user.ID, n)
			return nil
		},
	}
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "read the password from standard input")
	return cmd
}

func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func promptPassword(w io.Writer) (string, error) {
	fmt.Fprint(w, "Password: ")
	first, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}

	fmt.Fprint(w, "Repeat password: ")
	second, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}

	if string(first) != string(second) {
		return "", errors.New("passwords do not match")
	}
	return string(first), nil
}

// describeRegisterError swaps sentinel errors for the text a user would
// see on the registration page.
func describeRegisterError(err error) error {
	var fieldErr *service.FieldError
	switch {
	case errors.Is(err, service.ErrUsernameTaken):
		return errors.New("username already exists")
	case errors.Is(err, service.ErrWeakPassword):
		return errors.New(service.PasswordPolicyMessage)
	case errors.As(err, &fieldErr):
		return errors.New(fieldErr.Message)
	default:
		return err
	}
}
