// Package rest is the HTTP transport adapter. It only translates between
// JSON requests and the auth service; every authentication decision lives
// below it.
package rest

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/swappo/authsvc/internal/logging"
	"github.com/swappo/authsvc/internal/server/services"
)

type Server struct {
	address string
	auth    *services.AuthService
	logger  logging.Logger
}

func NewServer(address string, auth *services.AuthService, logger logging.Logger) *Server {
	return &Server{
		address: address,
		auth:    auth,
		logger:  logger.With("module", "rest_server"),
	}
}

func (s *Server) routes() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", s.health)

	api := r.Group("/api/v1/auth")
	{
		api.POST("/register", s.register)
		api.POST("/login", s.login)
		api.POST("/refresh", s.refresh)
		api.POST("/logout", s.logout)

		authed := api.Group("")
		authed.Use(s.requireAccessToken())
		{
			authed.GET("/me", s.me)
			authed.POST("/logout-all", s.logoutAll)
			authed.POST("/change-password", s.changePassword)
		}
	}

	return r
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {

	srv := &http.Server{
		Addr:    s.address,
		Handler: s.routes(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "shutdown error", "error", err.Error())
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
