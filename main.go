package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"herbie/internal/adapters/catalog"
	"herbie/internal/adapters/handler"
	"herbie/internal/adapters/sender"
	"herbie/internal/core/service"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

const identityResolutionTimeout = 10 * time.Second

func main() {
	log.Info().Msg("starting herbie...")

	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("no .env file loaded")
	}

	viper.AutomaticEnv()
	viper.SetDefault("PORT", "3001")
	viper.SetDefault("RESPONSES_FILE", "responses.json")
	viper.SetDefault("WAKE_PHRASE", "hi h.e.r.b.i.e")
	viper.SetDefault("SEND_DELAY", "2s")

	var logLevel zerolog.Level

	switch viper.GetString("LOG_LEVEL") {
	case "debug":
		logLevel = zerolog.DebugLevel
	case "info":
		logLevel = zerolog.InfoLevel
	default:
		logLevel = zerolog.InfoLevel
	}

	zerolog.SetGlobalLevel(logLevel)

	apiKey := viper.GetString("TWITTER_API_KEY")
	apiSecret := viper.GetString("TWITTER_API_SECRET")
	accessToken := viper.GetString("TWITTER_ACCESS_TOKEN")
	accessSecret := viper.GetString("TWITTER_ACCESS_SECRET")

	if apiKey == "" || apiSecret == "" || accessToken == "" || accessSecret == "" {
		log.Fatal().Msg("missing twitter API credentials in environment")
	}

	responses, err := catalog.NewFromFile(viper.GetString("RESPONSES_FILE"))
	if err != nil {
		log.Fatal().Err(err).Msg("could not load response catalog")
	}

	twitter := sender.NewTwitter(apiKey, apiSecret, accessToken, accessSecret)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	// A failed identity lookup is not fatal: the bot keeps serving, it just
	// cannot filter its own messages until restarted.
	var botID string

	identityCtx, identityCancel := context.WithTimeout(ctx, identityResolutionTimeout)
	identity, err := twitter.ResolveSelf(identityCtx)
	identityCancel()

	if err != nil {
		log.Error().Err(err).Msg("twitter API authentication error, self-filtering disabled")
	} else {
		botID = identity.ID
		log.Info().Str("username", identity.Username).Msg("bot running as")
	}

	sendDelay, err := time.ParseDuration(viper.GetString("SEND_DELAY"))
	if err != nil {
		log.Fatal().Err(err).Msg("invalid send delay in config")
	}

	responder := service.NewResponder(responses, viper.GetString("WAKE_PHRASE"))
	ledger := service.NewMessageLedger()
	dispatcher := service.NewDispatcher(twitter, sendDelay)

	webhook := handler.NewWebhook(responder, ledger, dispatcher, apiSecret, botID)

	srv := &http.Server{
		Addr:              ":" + viper.GetString("PORT"),
		Handler:           webhook.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info().Str("port", viper.GetString("PORT")).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()

	log.Info().Msg("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown failed")
	}
}
