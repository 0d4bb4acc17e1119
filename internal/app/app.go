package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/sharetube/syncroom/internal/controller"
	"github.com/sharetube/syncroom/internal/repository/connection/inmemory"
	roomRepo "github.com/sharetube/syncroom/internal/repository/room"
	roomRedis "github.com/sharetube/syncroom/internal/repository/room/redis"
	roomSqlite "github.com/sharetube/syncroom/internal/repository/room/sqlite"
	"github.com/sharetube/syncroom/internal/service/room"
	"github.com/sharetube/syncroom/pkg/ctxlogger"
	"github.com/sharetube/syncroom/pkg/mediainfo"
	"github.com/sharetube/syncroom/pkg/redisclient"
	"github.com/sharetube/syncroom/pkg/validator"
)

const (
	StoreRedis  = "redis"
	StoreSqlite = "sqlite"
)

type AppConfig struct {
	Host               string        `json:"host" validate:"required"`
	Port               int           `json:"port" validate:"gte=1,lte=65535"`
	LogLevel           string        `json:"log_level" validate:"required"`
	ChanlogDir         string        `json:"chanlog_dir"`
	Store              string        `json:"store" validate:"oneof=redis sqlite"`
	SqlitePath         string        `json:"sqlite_path" validate:"required_if=Store sqlite"`
	RedisHost          string        `json:"redis_host" validate:"required_if=Store redis"`
	RedisPort          int           `json:"redis_port" validate:"gte=0,lte=65535"`
	RedisPassword      string        `json:"-"`
	RoomExpire         time.Duration `json:"room_expire" validate:"gte=0"`
	YouTubeAPIKey      string        `json:"-"`
	SoundCloudClientID string        `json:"-"`
	ResolverTimeout    time.Duration `json:"resolver_timeout" validate:"gte=0"`
}

func (cfg *AppConfig) Validate() error {
	if errs, ok := validator.NewValidator().Validate(cfg); !ok {
		return fmt.Errorf("invalid config: %w", validator.Error(errs))
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(cfg.LogLevel))); err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}

	return nil
}

func newLogger(cfg *AppConfig) *slog.Logger {
	logLevel := slog.LevelInfo
	if err := logLevel.UnmarshalText([]byte(strings.ToUpper(cfg.LogLevel))); err != nil {
		log.Fatal(err)
	}

	h := ctxlogger.ContextHandler{
		Handler: slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level:     logLevel,
			AddSource: true,
		}),
	}

	return slog.New(&h)
}

// openStore returns the configured persistence store and a func releasing it.
func openStore(ctx context.Context, cfg *AppConfig) (roomRepo.Store, func() error, error) {
	switch cfg.Store {
	case StoreSqlite:
		repo, err := roomSqlite.Open(cfg.SqlitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open sqlite store: %w", err)
		}
		return repo, repo.Close, nil
	case StoreRedis:
		rc, err := redisclient.NewRedisClient(ctx, &redisclient.Config{
			Port:     cfg.RedisPort,
			Host:     cfg.RedisHost,
			Password: cfg.RedisPassword,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create redis client: %w", err)
		}
		return roomRedis.NewRepo(rc, cfg.RoomExpire), rc.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown store %q", cfg.Store)
	}
}

func Run(ctx context.Context, cfg *AppConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := newLogger(cfg)

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	room.RegisterMetrics()

	connectionRepo := inmemory.NewRepo(logger)
	roomService := room.NewService(&room.ServiceParams{
		Store:  store,
		Sender: connectionRepo,
		Resolver: mediainfo.New(mediainfo.Config{
			YouTubeAPIKey:      cfg.YouTubeAPIKey,
			SoundCloudClientID: cfg.SoundCloudClientID,
			Timeout:            cfg.ResolverTimeout,
		}),
		Logger:          logger,
		ChanlogDir:      cfg.ChanlogDir,
		ResolverTimeout: cfg.ResolverTimeout,
	})
	controller := controller.NewController(roomService, connectionRepo, logger)
	server := &http.Server{Addr: fmt.Sprintf("%s:%d", cfg.Host, cfg.Port), Handler: controller.GetMux()}

	// graceful shutdown
	serverCtx, serverStopCtx := context.WithCancel(ctx)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	go func() {
		<-sig

		shutdownCtx, c := context.WithTimeout(serverCtx, 30*time.Second)
		defer c()

		go func() {
			<-shutdownCtx.Done()
			if shutdownCtx.Err() == context.DeadlineExceeded {
				log.Fatal("graceful shutdown timed out.. forcing exit.")
			}
		}()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Fatal(err)
		}
		if err := roomService.Close(shutdownCtx); err != nil {
			logger.ErrorContext(shutdownCtx, "failed to close rooms", "error", err)
		}
		serverStopCtx()
	}()

	logger.InfoContext(serverCtx, "starting server", "address", server.Addr, "store", cfg.Store)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	<-serverCtx.Done()

	return nil
}
