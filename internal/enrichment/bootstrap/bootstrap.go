// Package bootstrap turns the provider file into a populated registry and
// the waterfall options it implies. Both binaries share it.
package bootstrap

import (
	"fmt"
	"log/slog"

	"heirfinder/internal/enrichment/models"
	"heirfinder/internal/enrichment/providers"
	"heirfinder/internal/enrichment/providers/apollo"
	"heirfinder/internal/enrichment/providers/endato"
	"heirfinder/internal/enrichment/providers/pdl"
	"heirfinder/internal/enrichment/registry"
	"heirfinder/internal/enrichment/waterfall"
	"heirfinder/internal/platform/config"
)

// Registry registers every known adapter with the transport settings from
// file and orders them by the file's priority lists.
func Registry(file config.ProviderFile, creds registry.CredentialSource, logger *slog.Logger) (*registry.Registry, error) {
	reg := registry.New(registry.Config{
		Priority:     ids(file.Priority),
		BulkPriority: ids(file.BulkPriority),
	}, creds, registry.WithLogger(logger))

	settings := func(id models.ProviderID) providers.Settings {
		s := file.Settings(string(id))
		return providers.Settings{BaseURL: s.BaseURL, Timeout: s.Timeout, RPS: s.RPS, Burst: s.Burst}
	}

	ed := endato.New(settings(endato.ProviderID))
	for _, p := range []providers.Provider{
		apollo.New(settings(apollo.ProviderID)),
		pdl.New(settings(pdl.ProviderID)),
		ed,
	} {
		if err := reg.Register(p); err != nil {
			return nil, fmt.Errorf("register provider: %w", err)
		}
	}
	if err := reg.RegisterBulk(ed); err != nil {
		return nil, fmt.Errorf("register bulk provider: %w", err)
	}
	return reg, nil
}

// WaterfallOptions maps the file's call timeout and retry policy.
func WaterfallOptions(file config.ProviderFile) []waterfall.Option {
	return []waterfall.Option{
		waterfall.WithCallTimeout(file.CallTimeout),
		waterfall.WithRetry(file.Retry.MaxRetries, file.Retry.Backoff),
	}
}

func ids(raw []string) []models.ProviderID {
	out := make([]models.ProviderID, 0, len(raw))
	for _, id := range raw {
		out = append(out, models.ProviderID(id))
	}
	return out
}
