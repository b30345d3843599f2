// Package main starts the bank API server.
package main

import (
	"context"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/go-petr/flatbank/cmd/httpserver"
	"github.com/go-petr/flatbank/internal/accountrepo"
	"github.com/go-petr/flatbank/internal/accountservice"
	"github.com/go-petr/flatbank/internal/middleware"
	"github.com/go-petr/flatbank/pkg/cachepkg"
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

	var cache *redis.Client

	if config.RedisURL != "" {
		cache, err = cachepkg.NewRedisClient(ctx, config.RedisURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("cannot connect to redis")
		}
		defer cache.Close()
	} else {
		logger.Warn().Msg("REDIS_URL is empty, login rate limiting is disabled")
	}

	server, err := httpserver.New(service, cache, logger, config)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot create server")
	}

	logger.Info().Str("address", config.ServerAddress).Msg("BANK API SERVER HAS STARTED")

	err = server.Engine.Run(config.ServerAddress)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot start server")
	}
}
