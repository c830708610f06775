// Package cli implements the administrative commands run by cmd/manage.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/accountapi/accountapi-go/internal/model"
	"github.com/accountapi/accountapi-go/internal/service"
)

// Migrator applies pending schema migrations.
type Migrator interface {
	Migrate(ctx context.Context) (int, error)
}

// SuperuserCreator is satisfied by *service.UserManager.
type SuperuserCreator interface {
	CreateSuperuser(ctx context.Context, email, password string, opts ...service.UserOption) (*model.User, error)
}

// Backend is what the commands operate on.
type Backend struct {
	DB      Migrator
	Manager SuperuserCreator
	Close   func() error
}

// Opener connects to the configured database. It is called only when a
// command runs, so --help works without one.
type Opener func(ctx context.Context) (*Backend, error)

// NewRootCommand builds the manage command tree.
func NewRootCommand(open Opener) *cobra.Command {
	root := &cobra.Command{
		Use:          "manage",
		Short:        "Account API administration",
		SilenceUsage: true,
	}

	root.AddCommand(newMigrateCommand(open))
	root.AddCommand(newCreateSuperuserCommand(open))
	return root
}

func newMigrateCommand(open Opener) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBackend(cmd.Context(), open, func(b *Backend) error {
				n, err := b.DB.Migrate(cmd.Context())
				if err != nil {
					return err
				}
				if n == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No migrations to apply.")
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Applied %d migration(s).\n", n)
				return nil
			})
		},
	}
}

func withBackend(ctx context.Context, open Opener, fn func(*Backend) error) (err error) {
	b, err := open(ctx)
	if err != nil {
		return err
	}
	if b.Close != nil {
		defer func() {
			err = errors.Join(err, b.Close())
		}()
	}
	return fn(b)
}
