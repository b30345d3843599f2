// Package httpserver manages server creation and api routing.
package httpserver

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/go-petr/flatbank/internal/accountdelivery"
	"github.com/go-petr/flatbank/internal/middleware"
	"github.com/go-petr/flatbank/pkg/configpkg"
	"github.com/go-petr/flatbank/pkg/moneypkg"
	"github.com/go-petr/flatbank/pkg/tokenpkg"
)

// Server holds handlers router, token maker and configuration.
type Server struct {
	Engine     *gin.Engine
	Config     configpkg.Config
	TokenMaker tokenpkg.Maker
}

// ServeHTTP implements the http.Handler interface for the Server type.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Engine.ServeHTTP(w, r)
}

// New creates Server type with instantiated handlers and routes.
//
// A nil cache disables login rate limiting.
func New(accountService accountdelivery.Service, cache *redis.Client,
	logger zerolog.Logger, config configpkg.Config,
) (*Server, error) {
	tokenMaker, err := tokenpkg.NewMaker(config.TokenType, config.TokenSymmetricKey)
	if err != nil {
		return nil, fmt.Errorf("cannot create token maker: %w", err)
	}

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := v.RegisterValidation("kind", accountdelivery.ValidKind); err != nil {
			return nil, errors.New("cannot register kind validator")
		}

		if err := v.RegisterValidation("amount", moneypkg.ValidAmount); err != nil {
			return nil, errors.New("cannot register amount validator")
		}
	}

	accountHandler := accountdelivery.NewHandler(accountService, tokenMaker, config.AccessTokenDuration)

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(middleware.RequestLogger(logger))
	engine.Use(gin.Recovery())

	engine.POST("/accounts", accountHandler.Create)
	engine.POST("/accounts/login",
		middleware.LoginRateLimit(cache, config.LoginAttemptsPerMinute),
		accountHandler.Login)

	authRoutes := engine.Group("/accounts/me").Use(middleware.AuthMiddleware(tokenMaker))

	authRoutes.GET("", accountHandler.Get)
	authRoutes.DELETE("", accountHandler.Delete)
	authRoutes.POST("/deposit", accountHandler.Deposit)
	authRoutes.POST("/withdraw", accountHandler.Withdraw)
	authRoutes.POST("/transfer", accountHandler.Transfer)
	authRoutes.POST("/topup", accountHandler.TopUpMobile)

	server := &Server{
		Engine:     engine,
		Config:     config,
		TokenMaker: tokenMaker,
	}

	return server, nil
}
