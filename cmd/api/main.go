// @title        AuthUser Accounts
// @version      1.0
// @description  Registration, login, logout and admin user management.
// @BasePath     /
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/authuser/accounts/internal/api"
	"github.com/authuser/accounts/internal/api/handler"
	"github.com/authuser/accounts/internal/api/middleware"
	"github.com/authuser/accounts/internal/core/service"
	"github.com/authuser/accounts/internal/infrastructure/config"
	rdb "github.com/authuser/accounts/internal/infrastructure/db/redis"
	"github.com/authuser/accounts/internal/infrastructure/queue"
	"github.com/authuser/accounts/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		// logger is not configured yet
		l := logger.Init(logger.Options{})
		l.Fatal().Err(err).Msg("load config")
	}
	log := logger.Init(logger.OptionsFor(cfg.Env, cfg.LogLevel))

	st, err := openStores(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.StoreDriver).Msg("open store")
	}
	defer func() {
		if err := st.close(context.Background()); err != nil {
			log.Error().Err(err).Msg("close store")
		}
	}()

	redisClient, err := rdb.Connect(ctx, rdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		log.Fatal().Err(err).Msg("connect redis")
	}
	defer redisClient.Close()

	accounts := service.NewAccountService(st.users, cfg.BcryptCost, logger.For("accounts"))
	sessions := service.NewSessionService(rdb.NewSessionStore(redisClient), cfg.Session.Secret, cfg.Session.TTL, cfg.Session.RememberTTL)

	boot := service.NewBootstrapper(st.roles, accounts, cfg.Bootstrap.RoleAttempts, cfg.Bootstrap.RoleBackoff, logger.For("bootstrap"))
	if err := boot.EnsureRoles(ctx); err != nil {
		log.Fatal().Err(err).Msg("ensure roles")
	}
	if _, err := boot.EnsureAdmin(ctx, cfg.Bootstrap.AdminEmail, cfg.Bootstrap.AdminPassword); err != nil {
		log.Fatal().Err(err).Msg("ensure bootstrap admin")
	}

	dispatcher := queue.NewDispatcher(cfg.Audit.Workers, service.NewAuditService(st.audit, logger.For("audit")), logger.For("dispatcher"))
	dispatcher.Start(ctx)

	e, err := api.NewRouter(api.Dependencies{
		Accounts: accounts,
		Sessions: sessions,
		Events:   dispatcher,
		Checks: map[string]handler.Check{
			cfg.StoreDriver: st.ping,
			"redis": func(ctx context.Context) error {
				return redisClient.Ping(ctx).Err()
			},
		},
		Cookie:       middleware.SessionCookie{Name: cfg.Session.CookieName, Secure: cfg.IsProduction()},
		CookieSecret: cfg.Session.Secret,
		Secure:       cfg.IsProduction(),
		Log:          logger.For("http"),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("build router")
	}

	go func() {
		log.Info().Str("port", cfg.Port).Str("driver", cfg.StoreDriver).Msg("listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown")
		os.Exit(1)
	}
}
