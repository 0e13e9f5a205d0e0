package store

import (
	"context"
	"errors"
	"testing"

	perr "sikabook/internal/platform/errors"
)

func memStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), Config{
		Lite: LiteConfig{Enabled: true, Path: ":memory:"},
	})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close(context.Background()) })
	return s
}

func TestOpen_RequiresABackend(t *testing.T) {
	if _, err := Open(context.Background(), Config{}); err == nil {
		t.Fatal("open with no backends should fail")
	}
}

func TestPrimary_PrefersPG(t *testing.T) {
	s := memStore(t)
	if s.Primary() != s.Lite {
		t.Fatal("lite-only store should expose lite as primary")
	}
}

func TestGuard_PingsLite(t *testing.T) {
	s := memStore(t)
	if err := s.Guard(context.Background()); err != nil {
		t.Fatalf("guard: %v", err)
	}
}

func TestExecOneAndScalar(t *testing.T) {
	s := memStore(t)
	ctx := context.Background()
	q := s.Primary()

	if _, err := q.Exec(ctx, `CREATE TABLE items (id INTEGER PRIMARY KEY, name TEXT NOT NULL)`); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := ExecOne(ctx, q, `INSERT INTO items (name) VALUES ($1)`, "kenkey"); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := ExecOne(ctx, q, `UPDATE items SET name = $1 WHERE name = $2`, "banku", "nope"); err == nil {
		t.Fatal("zero-row update should fail ExecOne")
	}

	n, err := Scalar[int64](ctx, q, `SELECT COUNT(*) FROM items`)
	if err != nil {
		t.Fatalf("scalar: %v", err)
	}
	if n != 1 {
		t.Fatalf("count = %d, want 1", n)
	}
}

func TestOneAndMany(t *testing.T) {
	s := memStore(t)
	ctx := context.Background()
	q := s.Primary()

	if _, err := q.Exec(ctx, `CREATE TABLE items (id INTEGER PRIMARY KEY, name TEXT NOT NULL)`); err != nil {
		t.Fatalf("create: %v", err)
	}
	for _, name := range []string{"gari", "waakye", "yam"} {
		if err := ExecOne(ctx, q, `INSERT INTO items (name) VALUES ($1)`, name); err != nil {
			t.Fatalf("insert %s: %v", name, err)
		}
	}

	type item struct {
		ID   int64
		Name string
	}
	scan := func(r Row) (item, error) {
		var it item
		err := r.Scan(&it.ID, &it.Name)
		return it, err
	}

	got, err := One(ctx, q, scan, `SELECT id, name FROM items WHERE name = $1`, "waakye")
	if err != nil {
		t.Fatalf("one: %v", err)
	}
	if got.Name != "waakye" {
		t.Fatalf("one = %+v", got)
	}

	_, err = One(ctx, q, scan, `SELECT id, name FROM items WHERE name = $1`, "missing")
	if !errors.Is(err, perr.ErrNotFound) {
		t.Fatalf("missing row: %v, want ErrNotFound", err)
	}

	all, err := Many(ctx, q, scan, `SELECT id, name FROM items ORDER BY id`)
	if err != nil {
		t.Fatalf("many: %v", err)
	}
	if len(all) != 3 || all[0].Name != "gari" {
		t.Fatalf("many = %+v", all)
	}
}

func TestTxRollsBackOnError(t *testing.T) {
	s := memStore(t)
	ctx := context.Background()
	q := s.Primary()

	if _, err := q.Exec(ctx, `CREATE TABLE items (id INTEGER PRIMARY KEY, name TEXT NOT NULL)`); err != nil {
		t.Fatalf("create: %v", err)
	}

	boom := errors.New("boom")
	err := q.Tx(ctx, func(tq RowQuerier) error {
		if err := ExecOne(ctx, tq, `INSERT INTO items (name) VALUES ($1)`, "okra"); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("tx err = %v", err)
	}

	n, err := Scalar[int64](ctx, q, `SELECT COUNT(*) FROM items`)
	if err != nil {
		t.Fatalf("scalar: %v", err)
	}
	if n != 0 {
		t.Fatalf("rollback left %d rows", n)
	}
}

func TestConversationContext(t *testing.T) {
	ctx := context.Background()
	if _, ok := ConversationID(ctx); ok {
		t.Fatal("bare context has no conversation")
	}
	ctx = WithConversation(ctx, "conv-1")
	id, ok := ConversationID(ctx)
	if !ok || id != "conv-1" {
		t.Fatalf("conversation = %q %v", id, ok)
	}
}
