package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/hashicorp/go-multierror"

	"iris-chat/backend/internal/api"
	"iris-chat/backend/internal/config"
	"iris-chat/backend/internal/llm"
	"iris-chat/backend/internal/logger"
	"iris-chat/backend/internal/relay"
	"iris-chat/backend/internal/service"
	"iris-chat/backend/internal/storage"
	"iris-chat/backend/internal/store"
)

const shutdownTimeout = 10 * time.Second

// App holds every long-lived component of the server.
type App struct {
	Config       *config.Config
	KV           storage.KV
	Store        *store.Store
	Registry     *llm.Registry
	Conversation *service.ConversationController
	Drafts       *service.DraftService
	Server       *http.Server

	// ProviderErr is why the provider could not be configured at startup, if it could not.
	ProviderErr error
}

// NewApp wires storage, the provider registry, the controller and the HTTP server.
// A provider configuration error is not fatal: the UI shows it as a banner.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	kv, err := storage.Open(ctx, cfg.Storage())
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}
	slog.Info("Storage ready", "driver", cfg.StorageDriver)

	st := store.New(kv)

	registry := llm.NewRegistry(nil)
	_, providerErr := registry.Configure(cfg.Provider())
	if providerErr != nil {
		slog.Warn("AI provider is not configured", logger.Err(providerErr))
	}

	conversation := service.NewConversationController(registry, st)
	conversation.Load(ctx)
	drafts := service.NewDraftService(st)

	opts := api.RouterOptions{StaticDir: cfg.StaticDir}
	if relayCfg, ok := cfg.Relay(); ok {
		opts.Relay = relay.NewHandler(relayCfg)
		slog.Info("Anthropic relay enabled", "path", llm.RelayPath, "upstream", relayCfg.UpstreamURL)
	}

	chatHandler := api.NewChatHandler(conversation, drafts, service.NewProviderStatusService(registry, providerErr))
	router := api.NewRouter(chatHandler, opts)

	providerTimeout := cfg.AITimeout
	if providerTimeout <= 0 {
		providerTimeout = llm.DefaultTimeout
	}
	server := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.AppPort),
		Handler:           router,
		ReadHeaderTimeout: 20 * time.Second,
		// Sending a turn waits for the provider.
		WriteTimeout: providerTimeout + 30*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return &App{
		Config:       cfg,
		KV:           kv,
		Store:        st,
		Registry:     registry,
		Conversation: conversation,
		Drafts:       drafts,
		Server:       server,
		ProviderErr:  providerErr,
	}, nil
}

// Close releases storage. Errors from each resource are collected.
func (a *App) Close() error {
	var result error
	if a.KV != nil {
		if err := a.KV.Close(); err != nil {
			result = multierror.Append(result, fmt.Errorf("close storage: %w", err))
		}
	}
	return result
}

// Serve runs the HTTP server until ctx is cancelled, then shuts it down.
func (a *App) Serve(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		slog.Info("Starting server", "addr", a.Server.Addr)
		errCh <- a.Server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var result error
	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		result = multierror.Append(result, fmt.Errorf("shutdown server: %w", err))
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		result = multierror.Append(result, err)
	}
	return result
}

// Run is the server entry point; it returns the process exit code.
func Run() int {
	cfg, err := config.LoadConfig()
	if err != nil {
		// slog is not yet configured, so use the default logger for this critical error.
		slog.Error("Failed to load configuration", logger.Err(err))
		return 1
	}

	logger.Setup(cfg.LogLevel, cfg.LogFormat)
	logConfigSource(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := NewApp(ctx, cfg)
	if err != nil {
		slog.Error("Failed to initialize application", logger.Err(err))
		return 1
	}
	defer func() {
		if err := application.Close(); err != nil {
			slog.Error("Failed to release resources", logger.Err(err))
		}
	}()

	if err := application.Serve(ctx); err != nil {
		slog.Error("Server failed", logger.Err(err))
		return 1
	}
	return 0
}

func logConfigSource(cfg *config.Config) {
	if cfg.ConfigFile != "" {
		slog.Info("Successfully loaded configuration from file.", "file", cfg.ConfigFile)
	} else {
		slog.Info("Configuration file not found. Using environment variables and defaults.")
	}
}
