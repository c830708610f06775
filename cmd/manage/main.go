package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"

	"github.com/accountapi/accountapi-go/internal/cli"
	"github.com/accountapi/accountapi-go/internal/config"
	"github.com/accountapi/accountapi-go/internal/crypto"
	"github.com/accountapi/accountapi-go/internal/repository"
	"github.com/accountapi/accountapi-go/internal/service"
	"github.com/accountapi/accountapi-go/internal/validate"
)

func main() {
	_ = godotenv.Load()

	open := func(ctx context.Context) (*cli.Backend, error) {
		cfg, err := config.Load()
		if err != nil {
			return nil, err
		}

		db, err := repository.NewDB(ctx, cfg.DatabaseDriver, cfg.DatabaseDSN)
		if err != nil {
			return nil, err
		}

		hasher, err := crypto.NewHasher(cfg.PasswordHasher)
		if err != nil {
			db.Close()
			return nil, err
		}

		users := repository.NewUserRepository(db)
		return &cli.Backend{
			DB:      db,
			Manager: service.NewUserManager(users, hasher, validate.New()),
			Close:   db.Close,
		}, nil
	}

	if err := cli.NewRootCommand(open).ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
