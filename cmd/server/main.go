// Tubefeed pulls video metadata from subscribed provider feeds and serves
// them back through filters: typed criteria rules for what's worth
// watching, grouped into ordered, paginated views.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/oklog/run"
	"github.com/sethvargo/go-envconfig"
	_ "modernc.org/sqlite"

	"tubefeed/internal/api"
	"tubefeed/internal/extractor"
	"tubefeed/internal/filtering"
	"tubefeed/internal/ingest"
	"tubefeed/internal/migrations"
	"tubefeed/internal/notify"
	"tubefeed/internal/sqlite"
	"tubefeed/logger"
)

type config struct {
	Database string `env:"DATABASE, required"`
	Port     int    `env:"PORT, default=4444"`

	// Which format to use for logging: either text or json
	LoggerFormat string `env:"LOGGER_FORMAT, default=text"`

	CorsHeader string `env:"CORS_HEADER, default=*"`

	FetchInterval     time.Duration `env:"FETCH_INTERVAL, default=1h"`
	MaxVideosPerFetch int           `env:"MAX_VIDEOS_PER_FETCH, default=400"`
	GroupPageSize     int           `env:"GROUP_PAGE_SIZE, default=20"`
	MaxGroupVideos    int           `env:"MAX_GROUP_VIDEOS, default=100"`

	// Which extractor to pull feeds with: either ytdlp or rss
	Extractor   string `env:"EXTRACTOR, default=ytdlp"`
	YtdlpPath   string `env:"YTDLP_PATH, default=yt-dlp"`
	CookiesFile string `env:"COOKIES_FILE"`

	// Optional operator alerts for unclassified extractor failures
	TelegramToken  string `env:"TELEGRAM_TOKEN"`
	TelegramChatID int64  `env:"TELEGRAM_CHAT_ID"`
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	// Parse the config
	var cfg config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		log.Fatalf("error parsing config: %s", err)
	}

	// Determine which logger format to use
	var handler slog.Handler = slog.NewTextHandler(os.Stderr, nil)
	if cfg.LoggerFormat == "json" {
		handler = slog.NewJSONHandler(os.Stderr, nil)
	}
	l := slog.New(logger.NewContextHandler(handler))
	slog.SetDefault(l)

	if err := runApp(ctx, cfg, l); err != nil {
		slog.Error("error running", "error", err)
		os.Exit(1)
	}
}

func runApp(ctx context.Context, cfg config, l *slog.Logger) error {
	// Connect to the db
	dbx, err := sqlx.Open("sqlite", fmt.Sprintf("%s?_txlock=immediate&_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)", cfg.Database))
	if err != nil {
		return fmt.Errorf("error opening database: %s", err)
	}
	defer dbx.Close()

	// Migrate, always
	if err := migrations.Run(dbx); err != nil {
		return fmt.Errorf("error migrating: %s", err)
	}

	repo := sqlite.New(dbx)

	var notifier notify.Notifier = notify.Noop{}
	if cfg.TelegramToken != "" {
		tg, err := notify.NewTelegram(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			return fmt.Errorf("error creating telegram notifier: %s", err)
		}
		notifier = tg
	}

	var client extractor.Client
	switch cfg.Extractor {
	case "rss":
		client = extractor.NewRSS()
	case "ytdlp":
		client = extractor.NewYTDLP(cfg.YtdlpPath, cfg.CookiesFile, notifier)
	default:
		return fmt.Errorf("unknown extractor %q", cfg.Extractor)
	}

	pipeline := ingest.NewPipeline(repo, client, l, cfg.MaxVideosPerFetch)
	evaluator := filtering.NewEvaluator(repo, cfg.GroupPageSize)

	server := api.NewServer(api.ServerConfig{
		Port:           cfg.Port,
		CorsHeader:     cfg.CorsHeader,
		MaxGroupVideos: cfg.MaxGroupVideos,
	}, repo, pipeline, evaluator)

	var g run.Group
	g.Add(func() error {
		slog.Info("listening", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("error listening: %s", err)
		}

		return nil
	}, func(error) {
		downCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(downCtx); err != nil {
			slog.Error("error shutting down server", "error", err)
		}
	})

	// A zero interval turns the background fetch loop off entirely.
	if cfg.FetchInterval > 0 {
		syncer := ingest.NewSyncer(pipeline, cfg.FetchInterval)
		syncCtx, syncCancel := context.WithCancel(ctx)
		g.Add(func() error {
			if err := syncer.Run(syncCtx); err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("error running syncer: %s", err)
			}

			return nil
		}, func(error) {
			syncCancel()
		})
	}

	g.Add(run.SignalHandler(ctx, os.Interrupt))

	err = g.Run()
	if err != nil && !errors.Is(err, context.Canceled) {
		var sigErr run.SignalError
		if errors.As(err, &sigErr) {
			return nil
		}
		return fmt.Errorf("error running: %s", err)
	}

	return nil
}
