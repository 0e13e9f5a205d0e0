// Package module wires the vocabulary into the API using modkit
package module

import (
	"net/http"

	modkit "sikabook/internal/modkit"
	"sikabook/internal/modkit/httpkit"
	"sikabook/internal/platform/logger"
	str "sikabook/internal/platform/strings"

	"sikabook/internal/services/vocabulary/domain"
	vocabhttp "sikabook/internal/services/vocabulary/http"
	"sikabook/internal/services/vocabulary/repo"
	"sikabook/internal/services/vocabulary/service"
)

// Ports exposed by the vocabulary module
type Ports struct {
	Reader domain.ReaderPort
	Writer domain.WriterPort
}

// Module implements modkit.Module
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string
	mws    []func(http.Handler) http.Handler
	ports  Ports

	svc *service.Service

	subrouter func(httpkit.Router) httpkit.Router
	register  func(httpkit.Router)
}

// New constructs the vocabulary module. Call Hydrate before serving
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("vocabulary"),
		modkit.WithPrefix("/vocabulary"),
	}, opts...)...)

	svc := service.New(deps.DB, repo.New(), logger.Named("vocabulary"))

	m := &Module{
		deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Mw,
		subrouter: b.Subrouter,
		svc:       svc,
		ports:     Ports{Reader: svc, Writer: svc},
	}

	external := b.Register
	m.register = func(r httpkit.Router) {
		vocabhttp.Register(r, m.ports.Reader, m.ports.Writer)
		if external != nil {
			external(r)
		}
	}
	return m
}

// Service exposes the concrete service for bootstrap wiring (Hydrate)
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
