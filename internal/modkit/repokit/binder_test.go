package repokit

import (
	"context"
	"testing"

	"sikabook/internal/platform/store"
)

type fakeQ struct{}

func (f *fakeQ) Exec(ctx context.Context, sql string, args ...any) (store.CommandTag, error) {
	var z store.CommandTag
	return z, nil
}

func (f *fakeQ) Query(ctx context.Context, sql string, args ...any) (store.Rows, error) {
	var z store.Rows
	return z, nil
}

func (f *fakeQ) QueryRow(ctx context.Context, sql string, args ...any) store.Row {
	var z store.Row
	return z
}

var _ Queryer = (*fakeQ)(nil)

func mustPanic(t *testing.T, name string, fn func()) {
	t.Helper()
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("%s: expected panic, got none", name)
		}
	}()
	fn()
}

type fakeRepo struct{ q Queryer }

func TestBindFunc_BindCallsFunc(t *testing.T) {
	t.Parallel()

	b := BindFunc[*fakeRepo](func(q Queryer) *fakeRepo { return &fakeRepo{q: q} })
	q := &fakeQ{}

	r := b.Bind(q)
	if r == nil || r.q != q {
		t.Fatalf("Bind did not pass the Queryer through")
	}
}

func TestRequireQueryer(t *testing.T) {
	t.Parallel()

	q := &fakeQ{}
	if got := RequireQueryer(q); got != Queryer(q) {
		t.Fatalf("RequireQueryer should return its input")
	}
	mustPanic(t, "nil queryer", func() { RequireQueryer(nil) })
}

func TestMustBind(t *testing.T) {
	t.Parallel()

	b := BindFunc[*fakeRepo](func(q Queryer) *fakeRepo { return &fakeRepo{q: q} })
	q := &fakeQ{}

	r := MustBind[*fakeRepo](b, q)
	if r.q != q {
		t.Fatalf("MustBind did not bind the Queryer")
	}
	mustPanic(t, "nil queryer", func() { MustBind[*fakeRepo](b, nil) })
}
