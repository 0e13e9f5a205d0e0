package module

import (
	"testing"

	phttp "sikabook/internal/platform/net/http"
)

type pingPort interface{ Ping() string }

type pingImpl struct{}

func (pingImpl) Ping() string { return "pong" }

func TestRegistryRoundTrip(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	Register("engine", pingImpl{})

	got, ok := PortsAs[pingPort]("engine")
	if !ok {
		t.Fatalf("expected engine ports")
	}
	if got.Ping() != "pong" {
		t.Fatalf("unexpected port behavior")
	}

	if _, ok := PortsAs[pingPort]("missing"); ok {
		t.Fatalf("missing module should not resolve")
	}

	// wrong type assertion fails cleanly
	if _, ok := PortsAs[interface{ Nope() }]("engine"); ok {
		t.Fatalf("wrong interface should not resolve")
	}
}

type stubModule struct{ ports any }

func (stubModule) MountRoutes(_ phttp.Router) {}
func (m stubModule) Ports() any               { return m.ports }
func (stubModule) Name() string               { return "stub" }

func TestPortsOf(t *testing.T) {
	m := stubModule{ports: pingImpl{}}

	if v, ok := PortsOf[pingPort](m); !ok || v.Ping() != "pong" {
		t.Fatalf("direct ports lookup failed")
	}

	// struct bundle with an exported field implementing the port
	type bundle struct{ P pingPort }
	mb := stubModule{ports: bundle{P: pingImpl{}}}
	if v, ok := PortsOf[pingPort](mb); !ok || v.Ping() != "pong" {
		t.Fatalf("bundle field lookup failed")
	}

	// nil ports
	mn := stubModule{}
	if _, ok := PortsOf[pingPort](mn); ok {
		t.Fatalf("nil ports should not resolve")
	}

	mustPanicPorts(t, func() { MustPortsOf[interface{ Nope() }](m) })
}

func mustPanicPorts(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected panic")
		}
	}()
	fn()
}
