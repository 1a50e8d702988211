package core

import "context"

// CatalogName selects which external catalog a build run searches against.
type CatalogName string

const (
	CatalogSpotify    CatalogName = "spotify"
	CatalogAppleMusic CatalogName = "appleMusic"
)

// CatalogClients bundles the configured catalog implementations.
type CatalogClients struct {
	SpotifyClient    Catalog
	AppleMusicClient Catalog
}

// Get returns the client for a catalog name.
func (c *CatalogClients) Get(name CatalogName) (Catalog, error) {
	var client Catalog
	switch name {
	case CatalogSpotify:
		client = c.SpotifyClient
	case CatalogAppleMusic:
		client = c.AppleMusicClient
	default:
		return nil, NewError("unsupported catalog: %v", name)
	}
	if client == nil {
		return nil, NewError("catalog %v is not configured", name)
	}
	return client, nil
}

// AppCtx is the application-wide dependency bundle. It is constructed once at
// startup and threaded through request contexts; components hold no process-
// wide singletons of their own.
type AppCtx struct {
	Config              *Config
	TextSource          TextSource
	Catalogs            *CatalogClients
	SearchCache         SearchCacheStore // nil when caching is disabled
	ProgressBroadcaster *ProgressBroadcaster
}

type appCtxKey struct{}

// WithAppCtx attaches the AppCtx to a context.
func WithAppCtx(ctx context.Context, appCtx *AppCtx) context.Context {
	return context.WithValue(ctx, appCtxKey{}, appCtx)
}

// ToAppCtx extracts the AppCtx from a context. Panics when absent since that
// is a wiring bug, not a runtime condition.
func ToAppCtx(ctx context.Context) *AppCtx {
	appCtx, ok := ctx.Value(appCtxKey{}).(*AppCtx)
	if !ok {
		panic("AppCtx missing from context")
	}
	return appCtx
}
