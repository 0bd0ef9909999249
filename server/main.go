package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"

	"github.com/lhe/foodpollbot/server/bot"
	"github.com/lhe/foodpollbot/server/store/filestore"
	"github.com/lhe/foodpollbot/server/utils"
)

func main() {
	if err := run(); err != nil {
		slog.Error("bot exited", "error", err.Error())
		os.Exit(1)
	}
}

func run() error {
	cfg, err := bot.LoadConfiguration()
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))

	bundle, err := utils.NewBundle(cfg.TranslationsPath)
	if err != nil {
		return errors.Wrap(err, "failed to load translations")
	}
	logger.Info("discovered poll types", "types", bundle.Types())

	st, err := filestore.NewStore(cfg.PollsFile)
	if err != nil {
		return errors.Wrap(err, "failed to load poll store")
	}

	gateway, err := bot.NewTelegramGateway(cfg.BotToken, bundle, logger)
	if err != nil {
		return err
	}

	b := bot.NewFoodPollBot(st, bundle, gateway, logger)
	b.RearmPolls()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.ListenAddress != "" {
		srv := &http.Server{Addr: cfg.ListenAddress, Handler: b}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("debug api server failed", "error", err.Error())
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	logger.Info("bot is running")
	gateway.Listen(ctx, b)
	return nil
}
