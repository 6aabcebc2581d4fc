package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/Wldc4rd/HaloClaude/internal/config"
	"github.com/Wldc4rd/HaloClaude/internal/domain/agent"
	"github.com/Wldc4rd/HaloClaude/internal/domain/chat"
	"github.com/Wldc4rd/HaloClaude/internal/domain/completion"
	"github.com/Wldc4rd/HaloClaude/internal/domain/ticketctx"
	"github.com/Wldc4rd/HaloClaude/internal/domain/tool"
	"github.com/Wldc4rd/HaloClaude/internal/infrastructure/anthropic"
	"github.com/Wldc4rd/HaloClaude/internal/infrastructure/halo"
	"github.com/Wldc4rd/HaloClaude/internal/infrastructure/logger"
	"github.com/Wldc4rd/HaloClaude/internal/infrastructure/observability"
	"github.com/Wldc4rd/HaloClaude/internal/interfaces/httpserver"
)

type Application struct {
	httpServer *httpserver.HttpServer
	log        zerolog.Logger
}

func NewApplication(httpServer *httpserver.HttpServer, log zerolog.Logger) *Application {
	return &Application{
		httpServer: httpServer,
		log:        log,
	}
}

func (a *Application) Start(ctx context.Context) error {
	return a.httpServer.Run(ctx)
}

func main() {
	loadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := observability.Setup(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize observability")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown telemetry")
		}
	}()

	haloClient := halo.NewClient(cfg.HaloAPIURL, cfg.HaloClientID, cfg.HaloClientSecret, cfg.HaloTimeout, log)
	provider := anthropic.NewClient(cfg.AnthropicBaseURL, cfg.AnthropicAPIKey, cfg.AnthropicTimeout, log)

	dispatcher := tool.NewDispatcher(haloClient, log)
	loop := agent.NewLoop(provider, dispatcher, cfg.MaxToolRounds, cfg.LoopTimeout, log)
	injector := ticketctx.NewInjector(haloClient, ticketctx.InjectorConfig{
		Enabled:         cfg.ContextInjectionEnabled,
		CacheTTL:        cfg.ContextCacheTTL,
		CacheMaxEntries: cfg.ContextCacheMaxEntries,
		FetchTimeout:    cfg.ContextFetchTimeout,
	}, log)

	translator := chat.NewTranslator(cfg.DeploymentMappings())
	completionService := completion.NewService(translator, injector, loop, tool.Catalog(), log)

	httpServer := httpserver.New(cfg, log, completionService)
	app := NewApplication(httpServer, log)

	if err := app.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("application stopped with error")
	}

	log.Info().Msg("application exited cleanly")
}

func loadEnvFiles() {
	paths := []string{".env", "../.env"}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Overload(path); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", path, err)
			}
		}
	}
}
