// Package api composes the HTTP API from the service modules
package api

import (
	"sikabook/internal/core/lexicon"
	"sikabook/internal/platform/config"
	"sikabook/internal/platform/logger"
	phttp "sikabook/internal/platform/net/http"
	"sikabook/internal/platform/store"

	"sikabook/internal/modkit"
	"sikabook/internal/modkit/httpkit"
	"sikabook/internal/modkit/module"

	metamod "sikabook/internal/services/api/meta/module"
	enginemod "sikabook/internal/services/engine/module"
	enginesvc "sikabook/internal/services/engine/service"
	ledgermod "sikabook/internal/services/ledger/module"
	vocabmod "sikabook/internal/services/vocabulary/module"
	vocabsvc "sikabook/internal/services/vocabulary/service"
)

// Options are the API options
type Options struct {
	Config config.Conf
	Store  *store.Store
	Logger *logger.Logger
	Lex    *lexicon.Pack
}

// Handles exposes the long-lived services the binary drives directly:
// vocabulary hydration before serving, the engine watchdog while serving,
// and engine shutdown after
type Handles struct {
	Engine     *enginesvc.Service
	Vocabulary *vocabsvc.Service
}

// Mount mounts the API onto the given router and returns lifecycle handles
func Mount(r phttp.Router, opt Options) Handles {
	deps := modkit.Deps{
		Log: *opt.Logger,
		Cfg: opt.Config,
		DB:  opt.Store.Primary(),
		Lex: opt.Lex,
	}

	// vocabulary and ledger come up first so the engine can consume their ports
	vocabulary := vocabmod.New(deps)
	ledger := ledgermod.New(deps)

	vports := vocabulary.Ports().(vocabmod.Ports)
	lports := ledger.Ports().(ledgermod.Ports)

	engine := enginemod.New(deps, enginemod.Wiring{
		VocabReader: vports.Reader,
		VocabWriter: vports.Writer,
		Ledger:      lports.Writer,
	})

	mods := []module.Module{
		metamod.New(deps),
		vocabulary,
		ledger,
		engine,
	}

	httpkit.MountUnder(r, "/api/v1", httpkit.CommonStack(), func(api httpkit.Router) {
		for _, m := range mods {
			module.Register(m.Name(), m.Ports())
			m.MountRoutes(api)
		}
	})

	return Handles{
		Engine:     engine.Service(),
		Vocabulary: vocabulary.Service(),
	}
}
