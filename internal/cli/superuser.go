package cli

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/accountapi/accountapi-go/internal/crypto"
	"github.com/accountapi/accountapi-go/internal/service"
	"github.com/accountapi/accountapi-go/internal/validate"
)

const generatedPasswordLength = 20

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

var (
	errPasswordMismatch = errors.New("passwords didn't match")
	errBlankPassword    = errors.New("password may not be blank")
)

type superuserFlags struct {
	email   string
	name    string
	noInput bool
}

func newCreateSuperuserCommand(open Opener) *cobra.Command {
	var f superuserFlags

	cmd := &cobra.Command{
		Use:   "createsuperuser",
		Short: "Create a staff account with every permission",
		Long: `Create a superuser. Missing values are prompted for unless --noinput is set.
With --noinput the password comes from SUPERUSER_PASSWORD, or is generated
and printed once.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			email, password, err := collectSuperuser(cmd, f)
			if err != nil {
				return err
			}

			return withBackend(cmd.Context(), open, func(b *Backend) error {
				_, err := b.Manager.CreateSuperuser(cmd.Context(), email, password, service.WithName(f.name))
				var verrs validate.Errors
				if errors.As(err, &verrs) {
					return fmt.Errorf("invalid superuser: %w", verrs)
				}
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Superuser created successfully.")
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&f.email, "email", "", "email address of the superuser")
	cmd.Flags().StringVar(&f.name, "name", "", "display name")
	cmd.Flags().BoolVar(&f.noInput, "noinput", false, "do not prompt for input")
	return cmd
}

func collectSuperuser(cmd *cobra.Command, f superuserFlags) (string, string, error) {
	out := cmd.OutOrStdout()

	if f.noInput {
		if strings.TrimSpace(f.email) == "" {
			return "", "", errors.New("--email is required with --noinput")
		}
		if pw := os.Getenv("SUPERUSER_PASSWORD"); pw != "" {
			return f.email, pw, nil
		}
		pw, err := crypto.GeneratePassword(generatedPasswordLength)
		if err != nil {
			return "", "", err
		}
		fmt.Fprintf(out, "Generated password: %s\n", pw)
		return f.email, pw, nil
	}

	email := f.email
	if strings.TrimSpace(email) == "" {
		var err error
		if email, err = promptLine(bufio.NewReader(cmd.InOrStdin()), "Email address: ", out); err != nil {
			return "", "", err
		}
	}

	password, err := promptPassword(out, int(os.Stdin.Fd()))
	if err != nil {
		return "", "", err
	}
	return email, password, nil
}

func promptLine(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt); err != nil {
		return "", err
	}
	line, err := reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && len(line) > 0) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// promptPassword reads the password twice without echo.
func promptPassword(w io.Writer, fd int) (string, error) {
	fmt.Fprint(w, "Password: ")
	first, err := readPassword(fd)
	fmt.Fprintln(w)
	if err != nil {
		return "", err
	}

	fmt.Fprint(w, "Password (again): ")
	second, err := readPassword(fd)
	fmt.Fprintln(w)
	if err != nil {
		return "", err
	}

	if !bytes.Equal(first, second) {
		return "", errPasswordMismatch
	}
	if len(first) == 0 {
		return "", errBlankPassword
	}
	return string(first), nil
}
