package wallet

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/lucasvrm/ecodoacao/internal/api"
	"github.com/lucasvrm/ecodoacao/internal/database"
	"github.com/lucasvrm/ecodoacao/internal/store"
	"github.com/lucasvrm/ecodoacao/internal/token"
)

func TestBalanceCoercion(t *testing.T) {
	cases := []struct {
		name string
		in   any
		want int
	}{
		{"int", 100, 100},
		{"float", float64(150), 150},
		{"numeric string", "150", 150},
		{"nil", nil, 0},
		{"garbage string", "abc", 0},
		{"bool", true, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := New()
			w.SetBalanceValue(tc.in)
			if got := w.Balance(); got != tc.want {
				t.Errorf("balance = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestBalanceListeners(t *testing.T) {
	w := New()
	var seen []int
	w.OnBalanceChange(func(b int) { seen = append(seen, b) })

	w.SetBalance(100)
	w.SetBalance(75)

	if !reflect.DeepEqual(seen, []int{100, 75}) {
		t.Errorf("seen = %v", seen)
	}
}

func TestOwnedBadgesDedupe(t *testing.T) {
	w := New()
	w.SetOwnedBadges([]int64{1, 2, 2, 3, 1})
	if got := w.OwnedBadges(); !reflect.DeepEqual(got, []int64{1, 2, 3}) {
		t.Errorf("owned = %v, want [1 2 3]", got)
	}
}

func TestOwnedBadgesDefensiveCopy(t *testing.T) {
	w := New()
	w.SetOwnedBadges([]int64{1, 2})

	got := w.OwnedBadges()
	got[0] = 99
	got = append(got, 3)

	if fresh := w.OwnedBadges(); !reflect.DeepEqual(fresh, []int64{1, 2}) {
		t.Errorf("owned = %v, want [1 2] after caller mutation", fresh)
	}
}

func TestAddOwnedBadgeIdempotent(t *testing.T) {
	w := New()
	w.SetOwnedBadges([]int64{1, 2})
	w.AddOwnedBadge(2)
	w.AddOwnedBadge(3)
	if got := w.OwnedBadges(); !reflect.DeepEqual(got, []int64{1, 2, 3}) {
		t.Errorf("owned = %v", got)
	}
	if !w.Owns(3) || w.Owns(42) {
		t.Error("Owns gave wrong answer")
	}
}

func TestReset(t *testing.T) {
	w := New()
	w.SetBalance(500)
	w.SetOwnedBadges([]int64{1})
	w.Reset()
	if w.Balance() != 0 || len(w.OwnedBadges()) != 0 {
		t.Error("expected zeroed wallet after reset")
	}
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *api.Client {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return api.NewClient(server.URL, token.NewStore(store.NewSettingsStore(db)))
}

func TestSyncFromDashboardShapes(t *testing.T) {
	cases := []struct {
		name    string
		payload map[string]any
		want    int
	}{
		{"saldo_moedas", map[string]any{"saldo_moedas": 320}, 320},
		{"nested wallet", map[string]any{"wallet": map[string]any{"saldo": 41}}, 41},
		{"flat saldo", map[string]any{"saldo": 12}, 12},
		{"saldo_moedas wins", map[string]any{"saldo_moedas": 1, "saldo": 2}, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(tc.payload)
			})
			w := New()
			if got := w.SyncFromDashboard(context.Background(), client); got != tc.want {
				t.Errorf("synced balance = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestSyncFromDashboardFailureKeepsLocal(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	w := New()
	w.SetBalance(77)
	if got := w.SyncFromDashboard(context.Background(), client); got != 77 {
		t.Errorf("balance = %d, want last known 77", got)
	}
}
