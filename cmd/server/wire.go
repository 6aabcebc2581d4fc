//go:build wireinject

package main

import (
	"context"

	"github.com/google/wire"
	"github.com/rs/zerolog"

	"github.com/Wldc4rd/HaloClaude/internal/config"
	"github.com/Wldc4rd/HaloClaude/internal/domain/agent"
	"github.com/Wldc4rd/HaloClaude/internal/domain/chat"
	"github.com/Wldc4rd/HaloClaude/internal/domain/completion"
	"github.com/Wldc4rd/HaloClaude/internal/domain/llm"
	"github.com/Wldc4rd/HaloClaude/internal/domain/ticket"
	"github.com/Wldc4rd/HaloClaude/internal/domain/ticketctx"
	"github.com/Wldc4rd/HaloClaude/internal/domain/tool"
	"github.com/Wldc4rd/HaloClaude/internal/infrastructure/anthropic"
	"github.com/Wldc4rd/HaloClaude/internal/infrastructure/halo"
	"github.com/Wldc4rd/HaloClaude/internal/infrastructure/logger"
	"github.com/Wldc4rd/HaloClaude/internal/interfaces/httpserver"
)

var proxySet = wire.NewSet(
	newHaloClient,
	wire.Bind(new(ticket.API), new(*halo.Client)),
	newAnthropicClient,
	wire.Bind(new(llm.Provider), new(*anthropic.Client)),
	newDispatcher,
	wire.Bind(new(agent.ToolRunner), new(*tool.Dispatcher)),
	newAgentLoop,
	wire.Bind(new(completion.LoopRunner), new(*agent.Loop)),
	newInjector,
	wire.Bind(new(completion.ContextInjector), new(*ticketctx.Injector)),
	newTranslator,
	newCompletionService,
)

// BuildApplication demonstrates how to assemble the proxy with Wire.
func BuildApplication(ctx context.Context) (*Application, error) {
	wire.Build(
		config.Load,
		logger.New,
		proxySet,
		httpserver.New,
		NewApplication,
	)
	return nil, nil
}

func newHaloClient(cfg *config.Config, log zerolog.Logger) *halo.Client {
	return halo.NewClient(cfg.HaloAPIURL, cfg.HaloClientID, cfg.HaloClientSecret, cfg.HaloTimeout, log)
}

func newAnthropicClient(cfg *config.Config, log zerolog.Logger) *anthropic.Client {
	return anthropic.NewClient(cfg.AnthropicBaseURL, cfg.AnthropicAPIKey, cfg.AnthropicTimeout, log)
}

func newDispatcher(api ticket.API, log zerolog.Logger) *tool.Dispatcher {
	return tool.NewDispatcher(api, log)
}

func newAgentLoop(cfg *config.Config, provider llm.Provider, runner agent.ToolRunner, log zerolog.Logger) *agent.Loop {
	return agent.NewLoop(provider, runner, cfg.MaxToolRounds, cfg.LoopTimeout, log)
}

func newInjector(cfg *config.Config, api ticket.API, log zerolog.Logger) *ticketctx.Injector {
	return ticketctx.NewInjector(api, ticketctx.InjectorConfig{
		Enabled:         cfg.ContextInjectionEnabled,
		CacheTTL:        cfg.ContextCacheTTL,
		CacheMaxEntries: cfg.ContextCacheMaxEntries,
		FetchTimeout:    cfg.ContextFetchTimeout,
	}, log)
}

func newTranslator(cfg *config.Config) *chat.Translator {
	return chat.NewTranslator(cfg.DeploymentMappings())
}

func newCompletionService(
	translator *chat.Translator,
	injector completion.ContextInjector,
	loop completion.LoopRunner,
	log zerolog.Logger,
) *completion.Service {
	return completion.NewService(translator, injector, loop, tool.Catalog(), log)
}
