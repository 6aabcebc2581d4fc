package ticketctx

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/Wldc4rd/HaloClaude/internal/domain/ticket"
	"github.com/Wldc4rd/HaloClaude/internal/infrastructure/metrics"
)

// Injector enriches system prompts with pre-fetched ticket context. When the
// prompt references a ticket, the ticket and its linked entities are fetched
// (through the cache) and appended as a formatted block. Any failure degrades
// to the original prompt.
type Injector struct {
	enabled bool
	cache   *Cache
	fetcher *Fetcher
	log     zerolog.Logger
}

// InjectorConfig carries the tunables of the injector.
type InjectorConfig struct {
	Enabled         bool
	CacheTTL        time.Duration
	CacheMaxEntries int
	FetchTimeout    time.Duration
}

func NewInjector(api ticket.API, cfg InjectorConfig, log zerolog.Logger) *Injector {
	return &Injector{
		enabled: cfg.Enabled,
		cache:   NewCache(cfg.CacheTTL, cfg.CacheMaxEntries),
		fetcher: NewFetcher(api, cfg.FetchTimeout, log),
		log:     log,
	}
}

// Inject returns the system prompt with ticket context appended. The system
// prompt is scanned for a ticket reference first, the conversation text as a
// fallback. The original prompt comes back untouched when injection is
// disabled, no ticket is referenced, or the fetch fails.
func (i *Injector) Inject(ctx context.Context, systemPrompt, conversation string) string {
	if !i.enabled {
		return systemPrompt
	}

	ticketID, found := ParseTicketID(systemPrompt)
	if !found {
		ticketID, found = ParseTicketID(conversation)
	}
	if !found {
		i.log.Debug().Msg("no ticket reference found")
		return systemPrompt
	}

	data, err := i.cache.GetOrFetch(ctx, ticketID, func(ctx context.Context) (*Data, error) {
		return i.fetcher.Fetch(ctx, ticketID)
	})
	if err != nil {
		metrics.RecordContextFetch(true)
		i.log.Warn().Err(err).Int("ticket_id", ticketID).Msg("context injection failed")
		return systemPrompt
	}
	metrics.RecordContextFetch(false)

	i.log.Info().Int("ticket_id", ticketID).Msg("injected ticket context")
	if systemPrompt == "" {
		return Format(data)
	}
	return systemPrompt + "\n\n" + Format(data)
}

// ClearCache drops all cached ticket context.
func (i *Injector) ClearCache() {
	i.cache.Clear()
}
