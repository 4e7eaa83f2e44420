package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	server "expedia_inspired/internal/adapters/http_server"
	"expedia_inspired/internal/adapters/mailer"
	"expedia_inspired/internal/adapters/observability"
	redisad "expedia_inspired/internal/adapters/redis"
	"expedia_inspired/internal/adapters/token"
	"expedia_inspired/internal/app"
	"expedia_inspired/internal/domain"
	"expedia_inspired/internal/shared"
	"expedia_inspired/internal/storage/jsonfs"
	mysqlrepo "expedia_inspired/internal/storage/mysql"
)

func main() {
	cfg, err := shared.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)

	// db
	db, err := mysqlrepo.Open(ctx, cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("mysql open failed")
	}
	defer db.Close()
	log.Info().Msg("database connection ok")
	if err := mysqlrepo.Migrate(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("migrations failed")
	}

	// cache stays a nil interface when disabled
	var cache domain.Cache
	if cfg.CacheEnabled() {
		rc := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		if err := rc.Ping(ctx); err != nil {
			log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable, details will not be cached")
		} else {
			defer rc.Close()
			cache = rc
		}
	}

	var mail domain.Mailer
	if cfg.DevelopmentMode {
		mail = mailer.NewDevSender(log.Logger)
	} else {
		mail = mailer.NewSMTPSender(mailer.SMTPConfig{
			Host:        cfg.SMTPHost,
			Port:        cfg.SMTPPort,
			Username:    cfg.SMTPUsername,
			Password:    cfg.SMTPPassword,
			FromEmail:   cfg.FromEmail,
			CodeMinutes: cfg.OTPExpiryMinutes,
		})
	}

	staticOTP := ""
	if cfg.DevelopmentMode {
		staticOTP = cfg.StaticOTP
	}

	// deps
	repo := mysqlrepo.New(db)
	creds := token.New(cfg.JWTSecret, cfg.TokenTTL())
	q := app.NewQueryService(jsonfs.New(cfg.DataDir), cache, cfg.CacheTTL())
	accounts := app.NewAccountService(repo, mail, creds, app.AccountConfig{
		DevMode:   cfg.DevelopmentMode,
		StaticOTP: staticOTP,
		OTPExpiry: cfg.OTPExpiry(),
	})
	bookings := app.NewBookingService(repo)

	// http
	srv := server.New(ctx, server.Options{
		Timeout:     cfg.RequestTimeout(),
		CORSOrigins: cfg.CORSOrigins,
		RateRPS:     cfg.RateLimitRPS,
		RateBurst:   cfg.RateLimitBurst,
	})
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{Q: q, Accounts: accounts, Bookings: bookings, Creds: creds})

	httpSrv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Mux(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("http shutdown failed")
		}
	}()

	log.Info().Str("addr", cfg.HTTPAddr).Str("data", cfg.DataDir).Bool("cache", cache != nil).Msg("API listening")
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("http server failed")
	}
	log.Info().Msg("API stopped")
}
