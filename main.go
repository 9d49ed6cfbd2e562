// main.go
//
// room-bot: multiplayer Wordle rooms over Discord and HTTP.
//
// Startup:
//   - config from env (.env in development), zerolog level
//   - dictionary (WORDS_FILE or the embedded list)
//   - one room controller behind one dispatcher; every adapter submits to it
//   - HTTP server always; Discord bot when DISCORD_TOKEN is set
//
// SIGINT/SIGTERM stop the adapters first, then the dispatcher.

package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle/apps/room-bot/internal/config"
	"github.com/robalobadob/wordle/apps/room-bot/internal/discord"
	"github.com/robalobadob/wordle/apps/room-bot/internal/httpserver"
	"github.com/robalobadob/wordle/apps/room-bot/internal/prompt"
	"github.com/robalobadob/wordle/apps/room-bot/internal/room"
	"github.com/robalobadob/wordle/apps/room-bot/internal/store"
	"github.com/robalobadob/wordle/apps/room-bot/internal/words"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("bad configuration")
	}
	zerolog.SetGlobalLevel(cfg.LogLevel)

	dict, err := words.Load(cfg.WordsFile)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load word list")
	}
	log.Info().Int("words", dict.Len()).Str("file", cfg.WordsFile).Msg("dictionary loaded")

	ctrl := room.NewController(dict, store.NewMemoryStore(), room.Config{
		MinLength:    cfg.MinLength,
		MaxLength:    cfg.MaxLength,
		FallbackWord: cfg.FallbackWord,
		DailySalt:    cfg.DailySalt,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	loopCtx, stopLoop := context.WithCancel(context.Background())
	defer stopLoop()
	disp := room.NewDispatcher(ctrl, 64)
	loopDone := make(chan struct{})
	go func() {
		defer close(loopDone)
		_ = disp.Run(loopCtx)
	}()

	var bot *discord.Bot
	if cfg.DiscordToken != "" {
		bot, err = discord.New(cfg.DiscordToken, disp, ctrl, prompt.NewBroker(), discord.Options{
			Prefix:        cfg.CommandPrefix,
			PromptTimeout: cfg.PromptTimeout,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("discord session")
		}
		if err := bot.Open(); err != nil {
			log.Fatal().Err(err).Msg("discord connect")
		}
	} else {
		log.Info().Msg("DISCORD_TOKEN not set, discord bot disabled")
	}

	srv := httpserver.New(disp, ctrl, dict, httpserver.Options{
		JWTSecret:    cfg.JWTSecret,
		ClientOrigin: cfg.ClientOrigin,
	})
	hs := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info().Str("port", cfg.Port).Msg("starting room-bot")
		if err := hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server exited")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := hs.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("http shutdown")
	}
	if bot != nil {
		if err := bot.Close(); err != nil {
			log.Warn().Err(err).Msg("discord close")
		}
	}
	stopLoop()
	<-loopDone
}
