// Command verisight runs the claim-verification API server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/verisight/verisight/internal/api"
	"github.com/verisight/verisight/internal/config"
	"github.com/verisight/verisight/internal/database"
	"github.com/verisight/verisight/internal/embedding"
	"github.com/verisight/verisight/internal/engine"
	"github.com/verisight/verisight/internal/feeds"
	"github.com/verisight/verisight/internal/nlp"
)

func main() {
	configPath := flag.String("config", "verisight.yaml", "path to configuration file")
	generateConfig := flag.Bool("generate-config", false, "write a sample configuration file and exit")
	flag.Parse()

	if *generateConfig {
		if err := config.GenerateSample(*configPath); err != nil {
			fmt.Fprintf(os.Stderr, "failed to generate config: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Sample configuration written to %s\n", *configPath)
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	setupLogging(&cfg.Logging)

	store, err := database.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	defer store.Close()

	annotator, err := nlp.NewAnnotator(&cfg.NLP)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create annotator")
	}

	embedder, err := embedding.NewEmbedder(&cfg.Embedding)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create embedder")
	}

	var clients []feeds.Client
	if cfg.Feeds.GoogleNews.Enabled {
		clients = append(clients, feeds.NewGoogleNewsClient())
	}
	if cfg.Feeds.Mastodon.Enabled {
		clients = append(clients, feeds.NewMastodonClient(&cfg.Feeds.Mastodon))
	}
	feedClient := feeds.NewAggregatedClient(clients...)

	eng := engine.NewEngine(cfg, annotator, embedder, feedClient, store)
	router := api.NewRouter(cfg, eng, store)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
	}

	go func() {
		log.Info().
			Int("port", cfg.Server.Port).
			Str("nlp", annotator.Name()).
			Str("embedding", embedder.Name()).
			Msg("Server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Graceful shutdown failed")
	}
}

func setupLogging(cfg *config.LoggingConfig) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Format == "text" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}
