// Package module wires the ledger into the API using modkit
package module

import (
	"net/http"

	modkit "sikabook/internal/modkit"
	"sikabook/internal/modkit/httpkit"
	str "sikabook/internal/platform/strings"

	"sikabook/internal/services/ledger/domain"
	ledgerhttp "sikabook/internal/services/ledger/http"
	"sikabook/internal/services/ledger/repo"
	"sikabook/internal/services/ledger/service"
)

// Ports exposed by the ledger module
type Ports struct {
	Writer domain.WriterPort
	Reader domain.ReaderPort
}

// Module implements modkit.Module
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string
	mws    []func(http.Handler) http.Handler
	ports  Ports

	subrouter func(httpkit.Router) httpkit.Router
	register  func(httpkit.Router)
}

// New constructs the ledger module
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("ledger"),
		modkit.WithPrefix("/ledger"),
	}, opts...)...)

	svcOpts := FromConfig(deps.Cfg)
	svc := service.New(deps.DB, repo.New(), service.Config{HardLimit: svcOpts.HardLimit})

	m := &Module{
		deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Mw,
		subrouter: b.Subrouter,
		ports:     Ports{Writer: svc, Reader: svc},
	}

	external := b.Register
	m.register = func(r httpkit.Router) {
		ledgerhttp.Register(r, m.ports.Reader)
		if external != nil {
			external(r)
		}
	}
	return m
}

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
