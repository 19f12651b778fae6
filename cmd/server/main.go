// Command server runs the game-night users service.
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/gamenight/users-service/internal/config"
	"github.com/gamenight/users-service/internal/identity"
	"github.com/gamenight/users-service/internal/limiter"
	"github.com/gamenight/users-service/internal/migrate"
	"github.com/gamenight/users-service/internal/repository/postgres"
	"github.com/gamenight/users-service/internal/server/httpapi"
	"github.com/gamenight/users-service/internal/service"
	"github.com/gamenight/users-service/internal/token"
)

func main() {
	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if err := run(log); err != nil {
		log.Fatal("server exited", zap.Error(err))
	}
}

func run(log *zap.Logger) error {
	// A local .env is a development convenience; absence is not an error.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := migrate.Up(ctx, cfg.DatabaseDSN); err != nil {
		return err
	}

	db, err := postgres.New(ctx, cfg.DatabaseDSN)
	if err != nil {
		return err
	}
	defer db.Close()

	// Either key may be absent: a verify-only deployment carries no private
	// key. The composer stays nil-tolerant, handlers map the sentinel errors.
	var privateKey, publicKey any
	if len(cfg.PrivateKeyPEM) > 0 {
		k, err := token.ParseRSAPrivateKey(cfg.PrivateKeyPEM)
		if err != nil {
			return err
		}
		privateKey = k
	} else {
		log.Warn("no private key configured, login token signing disabled")
	}
	if len(cfg.PublicKeyPEM) > 0 {
		k, err := token.ParseRSAPublicKey(cfg.PublicKeyPEM)
		if err != nil {
			return err
		}
		publicKey = k
	} else {
		log.Warn("no public key configured, token verification disabled")
	}
	composer := token.NewComposer(privateKey, publicKey)

	repo := postgres.NewUserRepo(db, log)
	lim := limiter.NewPGWithQuerier(db.Pool, cfg.LoginWindow, cfg.LoginMaxFails, cfg.LoginBlockFor)
	idClient := identity.NewClient(&http.Client{Timeout: 10 * time.Second},
		cfg.IdentityBaseURL, cfg.IdentityAppID, cfg.IdentityAppSecret)

	auth := service.NewAuthService(repo, idClient, composer, lim, log)
	users := service.NewUserService(repo)

	api := httpapi.New(auth, users, composer, log)
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
