package cmd

import (
	"log/slog"

	"github.com/lehigh-university-libraries/citematch/internal/config"
	"github.com/lehigh-university-libraries/citematch/internal/search"
	"github.com/lehigh-university-libraries/citematch/internal/sources"
	"github.com/lehigh-university-libraries/citematch/internal/storage"
)

// buildService wires both sources behind the configured fetch cache. The
// returned close function releases the cache.
func buildService(cfg config.Config, fallback sources.Cache) (*search.Service, func(), error) {
	var crossref sources.Source = sources.NewCrossref(cfg.Crossref)
	var worldcat sources.Source = sources.NewWorldCat(cfg.WorldCat)
	closeFn := func() {}

	cache := fallback
	if cfg.Cache.Path != "" {
		store, err := storage.NewBoltStore(cfg.Cache.Path)
		if err != nil {
			return nil, nil, err
		}
		cache = store
		closeFn = func() {
			if err := store.Close(); err != nil {
				slog.Error("Unable to close fetch cache", "err", err)
			}
		}
	}

	if cache != nil {
		crossref = sources.NewCached(crossref, cache, cfg.Cache.TTL)
		worldcat = sources.NewCached(worldcat, cache, cfg.Cache.TTL)
	}

	return search.NewDefaultService(crossref, worldcat), closeFn, nil
}
