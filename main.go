package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/cors"

	"github.com/sejinpark/tracklift/auth"
	"github.com/sejinpark/tracklift/core"
	"github.com/sejinpark/tracklift/database"
	"github.com/sejinpark/tracklift/datasources"
	"github.com/sejinpark/tracklift/matching"
	"github.com/sejinpark/tracklift/parsing"
	"github.com/sejinpark/tracklift/playlist_engine"
	"github.com/sejinpark/tracklift/rpc_handlers"
	"github.com/sejinpark/tracklift/services"
)

const (
	cReadTimeout  = 15 * time.Second
	cWriteTimeout = 0 // Disabled so the status stream can stay open.
)

func main() {
	config := core.MustGetConfig()
	appCtx := buildAppCtx(config)

	extractor := parsing.NewCommentMusicExtractor(parsing.NewLineParser())
	locator := playlist_engine.NewTracklistLocator(extractor)
	engine := playlist_engine.NewPlaylistEngine(locator, matchingAliases())

	mux := http.NewServeMux()
	mux.HandleFunc(
		"POST /api/extract_tracks",
		services.OrchestrateHandler(rpc_handlers.NewExtractTracksHandler(extractor)),
	)
	mux.HandleFunc(
		"POST /api/locate_list",
		services.OrchestrateHandler(rpc_handlers.NewLocateListHandler(locator)),
	)
	mux.HandleFunc(
		"POST /api/build_playlist",
		services.OrchestrateHandler(rpc_handlers.NewBuildPlaylistHandler(engine)),
	)
	mux.HandleFunc("GET /api/subscribe_build_status", rpc_handlers.SubscribeToBuildStatus)

	handler := withAppCtx(appCtx, corsHandler(config).Handler(mux))

	addr := fmt.Sprintf(":%d", config.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  cReadTimeout,
		WriteTimeout: cWriteTimeout,
	}
	core.Printf("Server listening on %s", addr)
	if err := server.ListenAndServe(); err != nil {
		core.Errorf(core.WrappedError(err, "server exited"))
		panic(err)
	}
}

// buildAppCtx wires every shared dependency once at startup. Optional pieces
// (Apple Music, the search cache) degrade to absent rather than failing the
// whole server.
func buildAppCtx(config *core.Config /*const*/) *core.AppCtx {
	appCtx := &core.AppCtx{
		Config:              config,
		TextSource:          datasources.NewYouTubeTextSource(),
		ProgressBroadcaster: core.NewProgressBroadcaster(),
		Catalogs: &core.CatalogClients{
			SpotifyClient: datasources.NewSpotifyCatalog(),
		},
	}

	if amConfig := config.AppleMusicConfig; len(amConfig.PrivateKeyPem) > 0 {
		minter, err := auth.NewDeveloperTokenMinter(
			amConfig.TeamId,
			amConfig.KeyId,
			amConfig.PrivateKeyPem,
		)
		if err != nil {
			core.Warningf("Apple Music disabled: %v", err)
		} else {
			appCtx.Catalogs.AppleMusicClient = datasources.NewAppleMusicCatalog(minter)
		}
	} else {
		core.Printf("Apple Music credentials not provided. Catalog disabled.")
	}

	if dbUrl := config.DatabaseConfig.DatabaseUrl; len(dbUrl) > 0 {
		store, err := database.NewSearchCacheStore(context.Background(), dbUrl)
		if err != nil {
			core.Warningf("Search cache disabled: %v", err)
		} else {
			appCtx.SearchCache = store
		}
	}

	return appCtx
}

// withAppCtx injects the AppCtx into every request context.
func withAppCtx(appCtx *core.AppCtx, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := core.WithAppCtx(r.Context(), appCtx)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func corsHandler(config *core.Config /*const*/) *cors.Cors {
	if config.ServerMode == core.ServerModeDev {
		return cors.AllowAll()
	}
	return cors.New(cors.Options{
		AllowedOrigins: []string{"https://tracklift.app"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type"},
	})
}

// matchingAliases holds curated comment-spelling to catalog-query overrides.
// Grown by hand as mismatches are reported.
func matchingAliases() *matching.AliasTable {
	return matching.NewAliasTable(map[[2]string]string{
		{"Through the Night", "IU"}: "밤편지 아이유",
	})
}
