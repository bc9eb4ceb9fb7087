package providers

import (
	"github.com/samber/do/v2"

	"github.com/reelwrapped/reelwrapped-server/internal/config"
	"github.com/reelwrapped/reelwrapped-server/internal/enrich"
	"github.com/reelwrapped/reelwrapped-server/internal/logger"
	"github.com/reelwrapped/reelwrapped-server/internal/tmdb"
)

// ProvideTMDBCache provides the disk-backed TMDB response cache.
func ProvideTMDBCache(i do.Injector) (*tmdb.Cache, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	cache, err := tmdb.NewCache(cfg.TMDB.CachePath, log.Logger)
	if err != nil {
		return nil, err
	}

	log.Info("TMDB response cache ready", "path", cfg.TMDB.CachePath)

	return cache, nil
}

// ProvideTMDBClient provides the rate-limited TMDB API client.
func ProvideTMDBClient(i do.Injector) (*tmdb.Client, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	cache := do.MustInvoke[*tmdb.Cache](i)

	return tmdb.New(tmdb.Config{
		APIKey:        cfg.TMDB.APIKey,
		BaseURL:       cfg.TMDB.BaseURL,
		MaxConcurrent: cfg.TMDB.MaxConcurrent,
		RPS:           cfg.TMDB.RequestsPerSecond,
		Burst:         cfg.TMDB.Burst,
	}, cache, log.Logger), nil
}

// ProvideEnricher provides the metadata enrichment pipeline. The TMDB
// client serves as both the resolver and the fetcher.
func ProvideEnricher(i do.Injector) (*enrich.Enricher, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	client := do.MustInvoke[*tmdb.Client](i)

	return enrich.New(client, client, cfg.TMDB.MaxConcurrent, log.Logger), nil
}
