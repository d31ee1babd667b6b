package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/rejoice-framework/menuflow"
	"github.com/rejoice-framework/menuflow/internal/adapters/bolt"
	"github.com/rejoice-framework/menuflow/internal/adapters/file"
	"github.com/rejoice-framework/menuflow/internal/adapters/httpfwd"
	"github.com/rejoice-framework/menuflow/internal/adapters/memory"
	"github.com/rejoice-framework/menuflow/internal/adapters/postgres"
	"github.com/rejoice-framework/menuflow/internal/adapters/redis"
	"github.com/rejoice-framework/menuflow/internal/adapters/sms"
	"github.com/rejoice-framework/menuflow/internal/config"
	"github.com/rejoice-framework/menuflow/internal/logging"
	"github.com/rejoice-framework/menuflow/pkg/persistence/middleware"
	"github.com/rejoice-framework/menuflow/pkg/ports"
)

// buildApp assembles the app from the environment configuration plus
// command-line overrides.
func buildApp(cmd *cobra.Command) (*menuflow.App, io.Closer, error) {
	cfg := config.FromEnv()
	if path, _ := cmd.Flags().GetString("menus"); path != "" {
		cfg.MenuPath = path
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	logger := logging.New(cfg.ParseLevel(), cfg.LogJSON)

	store, closer, err := buildStore(cfg)
	if err != nil {
		return nil, nil, err
	}

	var locker ports.Locker
	if rs, ok := store.(*redis.Store); ok {
		// Redis means a shared backend, possibly behind several instances;
		// serialize per subscriber so session writes cannot interleave.
		locker = rs.Locker()
	}

	store = middleware.Chain(store, storeMiddlewares(cfg)...)

	opts := []menuflow.Option{
		menuflow.WithConfig(cfg.Kernel),
		menuflow.WithMenuFile(cfg.MenuPath),
		menuflow.WithMenuSnapshot(cfg.SnapshotPath),
		menuflow.WithStore(store),
		menuflow.WithLogger(logger),
		menuflow.WithForwarder(httpfwd.New()),
	}
	if cfg.SMSEndpoint != "" {
		opts = append(opts, menuflow.WithSMSSender(sms.New(cfg.SMSEndpoint, cfg.SMSSenderID)))
	}
	if locker != nil {
		opts = append(opts, menuflow.WithLocker(locker))
	}

	app, err := menuflow.New(opts...)
	if err != nil {
		if closer != nil {
			closer.Close()
		}
		return nil, nil, err
	}
	return app, closer, nil
}

func buildStore(cfg config.Config) (ports.SessionStore, io.Closer, error) {
	switch cfg.Store {
	case "memory":
		return memory.New(), nil, nil
	case "file":
		return file.New(cfg.StorePath), nil, nil
	case "redis":
		store := redis.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB,
			redis.WithTTL(storeTTL(cfg.Kernel.SessionLifetime)))
		return store, store, nil
	case "bolt":
		path := cfg.StorePath
		if path == "" {
			path = "menuflow.db"
		}
		store, err := bolt.Open(path)
		if err != nil {
			return nil, nil, err
		}
		return store, store, nil
	case "postgres":
		store, err := postgres.Open(cfg.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		return store, store, nil
	}
	return nil, nil, fmt.Errorf("unknown store %q", cfg.Store)
}

// storeMiddlewares assembles the persistence middlewares from configuration.
// PII masking runs before encryption so the envelope hides masked data, not
// the other way around.
func storeMiddlewares(cfg config.Config) []middleware.Middleware {
	var mws []middleware.Middleware
	if len(cfg.PIIPatterns) > 0 {
		mws = append(mws, middleware.NewPIIMasking(cfg.PIIPatterns))
	}
	if cfg.EncryptionKey != "" {
		enc := middleware.EncryptionConfig{ActiveKey: config.DecodeKey(cfg.EncryptionKey)}
		for _, key := range cfg.EncryptionFallbackKeys {
			enc.FallbackKeys = append(enc.FallbackKeys, config.DecodeKey(key))
		}
		mws = append(mws, middleware.NewEncryption(enc))
	}
	return mws
}

// storeTTL gives Redis some slack over the engine's own expiry so a session
// is never reaped while the engine still considers it resumable.
func storeTTL(lifetime time.Duration) time.Duration {
	if lifetime <= 0 {
		return 0
	}
	return lifetime * 10
}
