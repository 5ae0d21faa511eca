package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"tabot/internal/auth"
	"tabot/internal/config"
	"tabot/internal/db"
	"tabot/internal/events"
	"tabot/internal/guild"
	httpx "tabot/internal/http"
	"tabot/internal/hype"
	"tabot/internal/id"
	"tabot/internal/index"
	"tabot/internal/lifecycle"
	"tabot/internal/logger"
	"tabot/internal/platform"
	"tabot/internal/presence"
	"tabot/internal/question"
	"tabot/internal/settings"
	"tabot/internal/stats"
	"tabot/internal/telemetry"
)

func main() {
	// "tabot token <service>" prints a service token for the front end.
	if len(os.Args) == 3 && os.Args[1] == "token" {
		tok, err := auth.NewJWT(config.LoadTokenSecret()).Sign(os.Args[2])
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Println(tok)
		return
	}

	cfg, _ := config.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tel, err := telemetry.Setup(ctx, cfg.OTel)
	if err != nil {
		fmt.Fprintln(os.Stderr, "telemetry setup:", err)
		os.Exit(1)
	}
	logger.Setup(logger.Options{
		Production:  cfg.IsProduction(),
		OTelEnabled: cfg.OTel.Enabled(),
		ServiceName: cfg.OTel.ServiceName,
	})
	log := slog.Default()

	if err := id.Init(cfg.SnowflakeNode); err != nil {
		fatal(log, "snowflake init failed", err)
	}

	gdb, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		fatal(log, "database connect failed", err)
	}
	if err := db.AutoMigrateAndIndexes(gdb); err != nil {
		fatal(log, "database migrate failed", err)
	}

	questions := &question.Repo{DB: gdb}
	guilds := &guild.Repo{DB: gdb}
	hypes := &hype.Repo{DB: gdb}

	var publisher events.Publisher = events.Nop{}
	if cfg.RedisEnabled() {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			fatal(log, "invalid REDIS_URL", err)
		}
		publisher = events.NewRedisPublisher(redis.NewClient(opts), cfg.RedisStream, log)
	}
	defer publisher.Close()

	ix := index.New()
	plat := platform.WithTimeout(platform.NewLocal(cfg.BotUserID, cfg.LocalGuilds...), cfg.PlatformTimeout)

	settingsSvc := settings.New(guilds, ix, plat, log)
	engine := lifecycle.New(questions, ix, plat,
		lifecycle.WithPublisher(publisher),
		lifecycle.WithLogger(log),
	)
	hypeSvc := hype.NewService(hypes, ix, plat, publisher, log)
	aggregator := stats.New(questions, hypes)

	nGuilds, err := settingsSvc.Warm(ctx)
	if err != nil {
		fatal(log, "loading guild configs failed", err)
	}
	nSolved, err := engine.Warm(ctx)
	if err != nil {
		fatal(log, "loading solved questions failed", err)
	}
	log.InfoContext(ctx, "index warmed", "guilds", nGuilds, "solved_questions", nSolved)

	worker := &presence.Worker{
		Counters: aggregator,
		Platform: plat,
		Interval: cfg.PresenceInterval,
		Logger:   log,
	}
	go worker.Run(ctx)

	jwtSvc := auth.NewJWT(cfg.ServiceTokenSecret)
	r := httpx.NewRouter(cfg, httpx.Services{
		Lifecycle: engine,
		Settings:  settingsSvc,
		Hype:      hypeSvc,
		Stats:     aggregator,
	}, jwtSvc)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fatal(log, "http server failed", err)
		}
	}()

	// graceful shutdown
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	<-ch

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = srv.Shutdown(shutdownCtx)
	if err := tel.Shutdown(shutdownCtx); err != nil {
		log.Warn("telemetry shutdown failed", "error", err)
	}
}

func fatal(log *slog.Logger, msg string, err error) {
	log.Error(msg, "error", err)
	os.Exit(1)
}
