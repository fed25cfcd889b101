package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	server "airline_assistant/internal/adapters/http_server"
	"airline_assistant/internal/adapters/observability"
	"airline_assistant/internal/adapters/ollama"
	"airline_assistant/internal/adapters/search"
	"airline_assistant/internal/app"
	"airline_assistant/internal/domain"
	"airline_assistant/internal/shared"
	mysqlrepo "airline_assistant/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// db: the pool keeps no idle connections, so each action invocation
	// opens and closes its own connection.
	db, err := sql.Open("mysql", cfg.MySQLDSN())
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	defer db.Close()
	db.SetMaxIdleConns(0)
	pingCtx, cancel := context.WithTimeout(ctx, cfg.DBTimeout)
	if err := db.PingContext(pingCtx); err != nil {
		// not fatal: the review action reports connection failures per call
		log.Warn().Err(err).Msg("database not reachable at startup")
	} else {
		log.Info().Msg("database connection ok")
	}
	cancel()

	// deps
	repo := mysqlrepo.New(db, cfg.DBTimeout)
	var sc domain.SearchClient
	sc, err = search.New(cfg.SearchBase, cfg.SearchKey, cfg.SearchEngineID, cfg.SearchTimeout)
	if err != nil {
		// reviews still work; lookups answer with the retry-later reply
		log.Warn().Err(err).Msg("search client disabled")
		sc = search.Unavailable{Err: err}
	}
	chat := ollama.New(cfg.OllamaBase, cfg.GenerationTimeout)

	reg, err := app.NewRegistry(
		app.NewReviewSubmissionAction(repo, cfg.ReviewMaxChars),
		app.NewAnswerLookupAction(sc, chat, app.LookupOptions{
			Model:        cfg.OllamaModel,
			ResultsTaken: cfg.SearchResultsTaken,
			MaxChars:     cfg.SearchTextMaxChars,
		}),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("action registration failed")
	}

	// http
	metricsReg := observability.InitRegistry()
	srv := server.New(cfg.RequestTimeout)
	srv.Mount("/metrics", observability.MetricsHandler(metricsReg))
	srv.MountHandlers(&server.Handlers{Actions: reg})

	servers := []*http.Server{{Addr: cfg.HTTPAddr, Handler: srv.Mux(), ReadHeaderTimeout: 5 * time.Second}}
	if cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", observability.MetricsHandler(metricsReg))
		servers = append(servers, &http.Server{Addr: cfg.MetricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second})
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, s := range servers {
		s := s
		g.Go(func() error {
			log.Info().Str("addr", s.Addr).Strs("actions", reg.Names()).Msg("listening")
			if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		for _, s := range servers {
			if err := s.Shutdown(shutdownCtx); err != nil {
				log.Error().Err(err).Str("addr", s.Addr).Msg("shutdown failed")
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("http server failed")
	}
	log.Info().Msg("stopped")
}
