package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/fortuna/pivotboard/internal/store"
)

func TestIsStale(t *testing.T) {
	base := time.Date(2025, 9, 7, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		age  time.Duration
		want bool
	}{
		{"fresh", 0, false},
		{"just inside", 10*time.Minute - time.Second, false},
		{"exactly ttl", 10 * time.Minute, false},
		{"expired", 10*time.Minute + time.Nanosecond, true},
	}

	for _, tt := range tests {
		if got := IsStale(base, base.Add(tt.age), DefaultTTL); got != tt.want {
			t.Errorf("%s: IsStale(age=%v) = %v, want %v", tt.name, tt.age, got, tt.want)
		}
	}
}

// upstream is a fake data source whose rows can change between calls
type upstream struct {
	calls int
	value string
}

func (u *upstream) fetch(ctx context.Context) store.Table {
	u.calls++
	return store.Table{Name: "nfl_games", Rows: []store.Row{{"concat": u.value}}}
}

func runTTLScenario(t *testing.T, s Store) {
	t.Helper()

	now := time.Date(2025, 9, 7, 12, 0, 0, 0, time.UTC)
	c := NewTableCache(s, DefaultTTL, nil).WithClock(func() time.Time { return now })
	up := &upstream{value: "A @ B"}
	ctx := context.Background()

	first := c.GetOrFetch(ctx, "nfl_games", up.fetch)
	up.value = "C @ D"

	now = now.Add(5 * time.Minute)
	second := c.GetOrFetch(ctx, "nfl_games", up.fetch)

	if up.calls != 1 {
		t.Fatalf("upstream calls within ttl = %d, want 1", up.calls)
	}
	if second.Rows[0]["concat"] != first.Rows[0]["concat"] {
		t.Fatalf("within ttl got %v, want %v", second.Rows[0]["concat"], first.Rows[0]["concat"])
	}

	now = now.Add(6 * time.Minute)
	third := c.GetOrFetch(ctx, "nfl_games", up.fetch)

	if up.calls != 2 {
		t.Fatalf("upstream calls after expiry = %d, want 2", up.calls)
	}
	if third.Rows[0]["concat"] != "C @ D" {
		t.Fatalf("after expiry got %v, want updated upstream value", third.Rows[0]["concat"])
	}
}

func TestTableCacheMemory(t *testing.T) {
	runTTLScenario(t, NewMemoryStore())
}

func TestTableCacheRedis(t *testing.T) {
	mr := miniredis.RunT(t)

	rs, err := NewRedisStore("redis://" + mr.Addr())
	if err != nil {
		t.Fatalf("NewRedisStore: %v", err)
	}
	defer rs.Close()

	runTTLScenario(t, rs)

	if !mr.Exists(keyPrefix + "nfl_games") {
		t.Error("expected entry to be written under the prefixed key")
	}
}

func TestTableCacheKeysAreIndependent(t *testing.T) {
	c := NewTableCache(NewMemoryStore(), DefaultTTL, nil)
	ctx := context.Background()

	games := &upstream{value: "A @ B"}
	props := &upstream{value: "X @ Y"}

	c.GetOrFetch(ctx, "nfl_games", games.fetch)
	c.GetOrFetch(ctx, "nfl_player_prop", props.fetch)
	c.GetOrFetch(ctx, "nfl_games", games.fetch)

	if games.calls != 1 || props.calls != 1 {
		t.Fatalf("calls = %d/%d, want 1/1", games.calls, props.calls)
	}
}

func TestRedisStoreMiss(t *testing.T) {
	mr := miniredis.RunT(t)
	rs, err := NewRedisStore("redis://" + mr.Addr())
	if err != nil {
		t.Fatalf("NewRedisStore: %v", err)
	}
	defer rs.Close()

	_, ok, err := rs.Get(context.Background(), "cfb_games")
	if err != nil || ok {
		t.Fatalf("Get on empty redis = ok %v err %v, want miss", ok, err)
	}
}
