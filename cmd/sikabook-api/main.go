// Command sikabook-api serves the transaction detection API
package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"sikabook/internal/core/lexicon"
	"sikabook/internal/modkit/repokit"
	"sikabook/internal/platform/config"
	"sikabook/internal/platform/logger"
	phttp "sikabook/internal/platform/net/http"
	"sikabook/internal/platform/store"

	"sikabook/internal/services/api"
	ledgerrepo "sikabook/internal/services/ledger/repo"
	vocabrepo "sikabook/internal/services/vocabulary/repo"
)

func main() {
	_ = godotenv.Load()

	root := config.New()
	apiCfg := root.Prefix("CORE_API_")
	pgCfg := root.Prefix("SERVICE_PGSQL_")
	liteCfg := root.Prefix("SERVICE_SQLITE_")

	l := logger.Get()

	// postgres when configured, embedded sqlite otherwise
	storeCfg := store.Config{AppName: "sikabook"}
	if pgCfg.MayBool("ENABLED", false) {
		storeCfg.PG = store.PGConfig{
			Enabled:     true,
			URL:         pgCfg.MustString("DBURL"),
			MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 4)),
			SlowQueryMs: pgCfg.MayInt("SLOW_MS", 500),
			LogSQL:      pgCfg.MayBool("LOG_SQL", true),
		}
	} else {
		storeCfg.Lite = store.LiteConfig{
			Enabled: true,
			Path:    liteCfg.MayString("PATH", "sikabook.db"),
			LogSQL:  liteCfg.MayBool("LOG_SQL", false),
		}
	}

	st, err := store.Open(context.Background(), storeCfg, store.WithLogger(*l))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	repokit.MustGuard(context.Background(), st)

	if err := ledgerrepo.EnsureSchema(context.Background(), st.Primary()); err != nil {
		l.Panic().Err(err).Msg("ledger schema failed")
	}
	if err := vocabrepo.EnsureSchema(context.Background(), st.Primary()); err != nil {
		l.Panic().Err(err).Msg("vocabulary schema failed")
	}

	pack, err := lexicon.Load()
	if err != nil {
		l.Panic().Err(err).Msg("lexicon load failed")
	}

	srv := phttp.NewServer(apiCfg)
	handles := api.Mount(srv.Router(), api.Options{
		Config: root,
		Store:  st,
		Logger: l,
		Lex:    pack,
	})

	if err := handles.Vocabulary.Hydrate(context.Background(), pack); err != nil {
		l.Panic().Err(err).Msg("vocabulary hydrate failed")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go handles.Engine.RunWatchdog(ctx)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Run(ctx) }()

	select {
	case err := <-errCh:
		if err != nil {
			l.Panic().Err(err).Msg("http server stopped")
		}
	case <-ctx.Done():
		shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutCtx); err != nil {
			l.Error().Err(err).Msg("shutdown failed")
		}
		handles.Engine.Close()
	}
}
