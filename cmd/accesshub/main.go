package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/accesshub/accesshub/internal/app"
	"github.com/accesshub/accesshub/internal/auth"
	"github.com/accesshub/accesshub/internal/authn"
	"github.com/accesshub/accesshub/internal/menus"
	"github.com/accesshub/accesshub/internal/platform/cache"
	"github.com/accesshub/accesshub/internal/platform/db"
	"github.com/accesshub/accesshub/internal/rbac"
	"github.com/accesshub/accesshub/internal/rolemenus"
	"github.com/accesshub/accesshub/internal/roles"
	"github.com/accesshub/accesshub/internal/token"
	"github.com/accesshub/accesshub/internal/users"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis unavailable, refresh token denylist disabled", slog.Any("error", err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	tokenService := token.NewService(token.Config{
		AccessSecret:  []byte(cfg.JWTAccessSecret),
		RefreshSecret: []byte(cfg.JWTRefreshSecret),
		AccessTTL:     cfg.AccessTokenTTL,
		RefreshTTL:    cfg.RefreshTokenTTL,
	})
	denylist := token.NewDenylist(redisClient, logger)

	guard := authn.Guard{Verifier: tokenService, Logger: logger}
	resolver := rbac.NewResolver(rbac.NewPGStore(dbpool), cfg.SuperuserRole)
	authz := rbac.Middleware{Guard: guard, Resolver: resolver, Logger: logger}

	authRepo := auth.NewRepository(dbpool)
	authService := auth.NewService(authRepo, cfg.DefaultRole, cfg.BcryptCost)
	authHandler := auth.NewHandler(logger, authService, tokenService, denylist, cfg.IsProduction())

	rolesRepo := roles.NewRepository(dbpool)
	rolesService := roles.NewService(rolesRepo)
	rolesHandler := roles.NewHandler(logger, rolesService, authz)

	menusRepo := menus.NewRepository(dbpool)
	menusService := menus.NewService(menusRepo)
	menusHandler := menus.NewHandler(logger, menusService, authz)

	roleMenusRepo := rolemenus.NewRepository(dbpool)
	roleMenusService := rolemenus.NewService(roleMenusRepo)
	roleMenusHandler := rolemenus.NewHandler(logger, roleMenusService, authz)

	usersRepo := users.NewRepository(dbpool)
	usersService := users.NewService(usersRepo, cfg.BcryptCost)
	usersHandler := users.NewHandler(logger, usersService, authz)

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		AuthHandler:      authHandler,
		RolesHandler:     rolesHandler,
		MenusHandler:     menusHandler,
		RoleMenusHandler: roleMenusHandler,
		UsersHandler:     usersHandler,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server exited", slog.Any("error", err))
		os.Exit(1)
	}
}
