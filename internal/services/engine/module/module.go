// Package module wires the detection engine into the API using modkit
package module

import (
	"net/http"

	modkit "sikabook/internal/modkit"
	"sikabook/internal/modkit/httpkit"
	"sikabook/internal/platform/clock"
	"sikabook/internal/platform/logger"
	str "sikabook/internal/platform/strings"

	"sikabook/internal/services/engine/domain"
	enginehttp "sikabook/internal/services/engine/http"
	"sikabook/internal/services/engine/service"
	ledgerdom "sikabook/internal/services/ledger/domain"
	vocabdom "sikabook/internal/services/vocabulary/domain"
)

// Ports exposed by the engine module
type Ports struct {
	Processor domain.ProcessorPort
}

// Wiring carries the cross-module ports the engine consumes
type Wiring struct {
	VocabReader vocabdom.ReaderPort
	VocabWriter vocabdom.WriterPort
	Ledger      ledgerdom.WriterPort
	Clock       clock.Clock
}

// Module implements modkit.Module
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string
	mws    []func(http.Handler) http.Handler
	ports  Ports
	svc    *service.Service

	subrouter func(httpkit.Router) httpkit.Router
	register  func(httpkit.Router)
}

// New constructs the engine module
func New(deps modkit.Deps, w Wiring, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("engine"),
		modkit.WithPrefix("/engine"),
	}, opts...)...)

	svcOpts := FromConfig(deps.Cfg)
	svc := service.New(
		deps.Lex,
		w.VocabReader,
		w.VocabWriter,
		w.Ledger,
		w.Clock,
		nil,
		logger.Named("engine"),
		service.Config{
			IdleTimeout:   svcOpts.IdleTimeout,
			SweepInterval: svcOpts.SweepInterval,
			QueueDepth:    svcOpts.QueueDepth,
		},
	)

	m := &Module{
		deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Mw,
		subrouter: b.Subrouter,
		svc:       svc,
		ports:     Ports{Processor: svc},
	}

	external := b.Register
	m.register = func(r httpkit.Router) {
		enginehttp.Register(r, m.ports.Processor)
		if external != nil {
			external(r)
		}
	}
	return m
}

// Service exposes the engine service for lifecycle wiring (watchdog, close)
func (m *Module) Service() *service.Service { return m.svc }

// MountRoutes implements modkit.Module
func (m *Module) MountRoutes(r httpkit.Router) {
	r.Route(m.prefix, func(rr httpkit.Router) {
		for _, mw := range m.mws {
			rr.Use(mw)
		}
		if m.subrouter != nil {
			rr = m.subrouter(rr)
		}
		if m.register != nil {
			m.register(rr)
		}
	})
}

// Name implements modkit.Module
func (m *Module) Name() string { return str.MustString(m.name, "module name") }

// Ports implements modkit.Module
func (m *Module) Ports() any { return m.ports }
