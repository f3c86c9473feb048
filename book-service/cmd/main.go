package main

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"

	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/azaliaz/bookshelf/book-service/internal/activity"
	"github.com/azaliaz/bookshelf/book-service/internal/config"
	"github.com/azaliaz/bookshelf/book-service/internal/logger"
	"github.com/azaliaz/bookshelf/book-service/internal/server"
	"github.com/azaliaz/bookshelf/book-service/internal/storage"
)

type closableStorage interface {
	server.Storage
	io.Closer
}

func main() {
	cfg, err := config.ReadConfig()
	if err != nil {
		log.Fatal(err)
	}
	log := logger.Get(cfg.Debug)
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		c := make(chan os.Signal, 1)
		signal.Notify(c, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
		<-c

		log.Debug().Msg("ctx cancel; catch os signal")
		cancel()
	}()

	log.Debug().Any("cfg", cfg).Send()

	stor := openStorage(ctx, cfg)
	act := openActivity(cfg)

	serv := server.New(*cfg, stor, act)
	group, gCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		log.Info().Msgf("API → http://localhost:%d", cfg.Port)
		return serv.Run(gCtx)
	})
	group.Go(func() error {
		<-gCtx.Done()
		return serv.ShutdownServer()
	})

	if err = group.Wait(); err != nil {
		log.Info().Str("stoping reason", err.Error()).Msg("server stoped")
	} else {
		log.Info().Msg("server stoped")
	}

	var errs *multierror.Error
	errs = multierror.Append(errs, stor.Close())
	errs = multierror.Append(errs, act.Close())
	if err = errs.ErrorOrNil(); err != nil {
		log.Error().Err(err).Msg("release resources failed")
	}
}

// openStorage prefers Postgres when a DSN is configured and falls back to
// the in-memory store when it cannot be reached.
func openStorage(ctx context.Context, cfg *config.Config) closableStorage {
	log := logger.Get()
	if cfg.DBDsn == "" {
		log.Info().Msg("no database configured, using in-memory storage")
		return storage.New()
	}
	if err := storage.Migrations(cfg.DBDsn, cfg.MigratePath); err != nil {
		log.Error().Err(err).Msg("migrations failed, using in-memory storage")
		return storage.New()
	}
	stor, err := storage.NewDB(ctx, cfg.DBDsn)
	if err != nil {
		log.Error().Err(err).Msg("connecting to data base failed, using in-memory storage")
		return storage.New()
	}
	return stor
}

type closableActivity interface {
	server.Activity
	io.Closer
}

func openActivity(cfg *config.Config) closableActivity {
	log := logger.Get()
	if cfg.RedisAddr == "" {
		return activity.NewMemory(cfg.ActivityLimit)
	}
	act, err := activity.NewRedis(cfg.RedisAddr, cfg.ActivityLimit)
	if err != nil {
		log.Error().Err(err).Str("addr", cfg.RedisAddr).Msg("connecting to redis failed, keeping activity in memory")
		return activity.NewMemory(cfg.ActivityLimit)
	}
	return act
}
