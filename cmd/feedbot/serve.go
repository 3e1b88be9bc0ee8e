package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"feedbot/internal/api"
	"feedbot/internal/bot"
	"feedbot/internal/config"
	"feedbot/internal/storage"
	"feedbot/internal/telegram"
)

const pollTimeoutSeconds = 30

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the bot in the foreground",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func runServe() error {
	fmt.Fprintf(os.Stderr, "feedbot version %s\n", version)

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Initialize structured logging.
	logLevel := slog.LevelInfo
	if strings.EqualFold(cfg.Log.Level, "debug") {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))

	if cfg.UsingDefaultSalt() {
		slog.Warn("FEEDBOT_SALT is unset; anonymization runs on the built-in fallback. " +
			"A public salt lets anyone brute-force tokens back to chat ids — set a real secret.")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Validate the bot credential before touching anything else.
	tg := telegram.New(cfg.Telegram.Token)
	me, err := tg.GetMe(ctx)
	if err != nil {
		return fmt.Errorf("verifying bot credential: %w", err)
	}
	slog.Info("bot authorized", "username", me.Username)

	// Open storage.
	store, err := storage.Open(cfg.Storage.DataDir)
	if err != nil {
		return fmt.Errorf("opening storage: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			slog.Error("closing storage", "error", err)
		}
	}()

	// Wire the conversation flow.
	notifier, err := bot.NewAdminNotifier(tg, cfg.Telegram.AdminChatID)
	if err != nil {
		return err
	}
	controller, err := bot.NewController(
		bot.DefaultQuestions, tg, store, notifier,
		cfg.Anonymize.Salt, cfg.Telegram.AdminChatID,
	)
	if err != nil {
		return err
	}
	poller := bot.NewPoller(tg, controller, pollTimeoutSeconds)

	// Loopback admin API.
	apiToken, err := config.GetAPIToken(cfg.Storage.DataDir)
	if err != nil {
		return fmt.Errorf("initializing API token: %w", err)
	}
	addr := fmt.Sprintf("127.0.0.1:%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: api.NewHandler(api.Deps{Store: store, Token: apiToken}),
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		poller.Run(gctx)
		return nil
	})

	g.Go(func() error {
		slog.Info("admin API listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("admin API server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if cfg.MCP.Enabled {
		stdioSrv := server.NewStdioServer(api.NewMCPServer(api.MCPDeps{Store: store}))
		g.Go(func() error {
			if err := stdioSrv.Listen(gctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
				slog.Error("MCP stdio server error", "error", err)
			}
			return nil
		})
		slog.Info("MCP server started (stdio transport)")
	}

	err = g.Wait()
	if ctx.Err() != nil {
		slog.Info("shut down")
		return nil
	}
	return err
}
