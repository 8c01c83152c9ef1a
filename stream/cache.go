package stream

import (
	"context"
	"net/http"

	"github.com/streamplay-cli/streamplay/internal/cache"
	"github.com/streamplay-cli/streamplay/log"
)

// InspectCached is Inspect backed by the on-disk cache. Live manifests are never cached.
func InspectCached(ctx context.Context, client *http.Client, req Request) (Manifest, error) {
	cacheKey := cache.GenerateKey("manifest", string(req.Protocol), req.URL)

	var manifest Manifest
	if cache.Read(cacheKey, &manifest) {
		log.Debugf("manifest cache hit: %s", req.URL)
		return manifest, nil
	}

	manifest, err := Inspect(ctx, client, req)
	if err != nil {
		return manifest, err
	}

	if !manifest.Live {
		if err := cache.Write(cacheKey, manifest); err != nil {
			log.Warnf("cache manifest %s: %v", req.URL, err)
		}
	}
	return manifest, nil
}
