// Package main runs the interactive bank shell over the accounts file.
package main

import (
	"context"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/go-petr/flatbank/internal/accountrepo"
	"github.com/go-petr/flatbank/internal/accountservice"
	"github.com/go-petr/flatbank/internal/middleware"
	"github.com/go-petr/flatbank/internal/shell"
	"github.com/go-petr/flatbank/pkg/configpkg"
	"github.com/go-petr/flatbank/pkg/randompkg"
)

func main() {
	config, err := configpkg.Load("./configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}

	logger := middleware.GetLogger(config)
	ctx := logger.WithContext(context.Background())

	repo := accountrepo.NewRepoFile(config.AccountsFile)

	service, err := accountservice.New(ctx, repo, randompkg.NewDigitGenerator())
	if err != nil {
		logger.Fatal().Err(err).Str("path", repo.Path()).Msg("cannot load accounts")
	}

	if err := shell.New(service, os.Stdin, os.Stdout).Run(ctx); err != nil {
		logger.Fatal().Err(err).Msg("shell stopped")
	}
}
