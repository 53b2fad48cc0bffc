package wallet

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/lucasvrm/ecodoacao/internal/api"
)

// Wallet caches the server-reported coin balance and owned badge set for
// rendering. It is a mirror of the last authoritative server value, never
// an input to server decisions.
type Wallet struct {
	mu          sync.Mutex
	balance     int
	ownedBadges []int64
	listeners   []func(balance int)
	log         *slog.Logger
}

type Option func(*Wallet)

func WithLogger(log *slog.Logger) Option {
	return func(w *Wallet) { w.log = log }
}

func New(opts ...Option) *Wallet {
	w := &Wallet{log: slog.Default()}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// OnBalanceChange registers a callback fired on every SetBalance. This is
// the CLI's stand-in for the web client re-rendering balance displays.
func (w *Wallet) OnBalanceChange(fn func(balance int)) {
	w.mu.Lock()
	w.listeners = append(w.listeners, fn)
	w.mu.Unlock()
}

func (w *Wallet) Balance() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.balance
}

// SetBalance stores the balance and notifies listeners. Use SetBalanceValue
// for raw server payload fields that may not be numeric.
func (w *Wallet) SetBalance(v int) {
	w.mu.Lock()
	w.balance = v
	listeners := make([]func(int), len(w.listeners))
	copy(listeners, w.listeners)
	w.mu.Unlock()

	for _, fn := range listeners {
		fn(v)
	}
}

// SetBalanceValue coerces an arbitrary decoded JSON value to a balance.
// Anything non-numeric becomes 0, matching the web client's coercion.
func (w *Wallet) SetBalanceValue(v any) {
	w.SetBalance(coerceInt(v))
}

func coerceInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0
		}
		return int(parsed)
	default:
		return 0
	}
}

func (w *Wallet) OwnedBadges() []int64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]int64, len(w.ownedBadges))
	copy(out, w.ownedBadges)
	return out
}

// SetOwnedBadges replaces the owned set, dropping duplicates while keeping
// first-seen order.
func (w *Wallet) SetOwnedBadges(ids []int64) {
	seen := make(map[int64]bool, len(ids))
	deduped := make([]int64, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			deduped = append(deduped, id)
		}
	}

	w.mu.Lock()
	w.ownedBadges = deduped
	w.mu.Unlock()
}

// AddOwnedBadge is an idempotent insert.
func (w *Wallet) AddOwnedBadge(id int64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, owned := range w.ownedBadges {
		if owned == id {
			return
		}
	}
	w.ownedBadges = append(w.ownedBadges, id)
}

func (w *Wallet) Owns(id int64) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, owned := range w.ownedBadges {
		if owned == id {
			return true
		}
	}
	return false
}

// Reset zeroes the wallet. Used at logout and in test teardown.
func (w *Wallet) Reset() {
	w.mu.Lock()
	w.balance = 0
	w.ownedBadges = nil
	w.mu.Unlock()
}

// SyncFromDashboard reconciles the balance against the dashboard endpoint.
// The dashboard payload has shipped with several shapes; the balance is
// taken from saldo_moedas, then wallet.saldo, then saldo. Any failure is
// logged and the last known balance is returned unchanged.
func (w *Wallet) SyncFromDashboard(ctx context.Context, client *api.Client) int {
	var payload map[string]any
	err := client.Do(ctx, api.PathDashboard, api.RequestOptions{Method: http.MethodGet}, &payload)
	if err != nil {
		w.log.Debug("wallet dashboard sync failed", "error", err)
		return w.Balance()
	}

	v, ok := dashboardBalance(payload)
	if !ok {
		w.log.Debug("wallet dashboard sync: no balance field in payload")
		return w.Balance()
	}
	w.SetBalanceValue(v)
	return w.Balance()
}

func dashboardBalance(payload map[string]any) (any, bool) {
	if payload == nil {
		return nil, false
	}
	if v, ok := payload["saldo_moedas"]; ok {
		return v, true
	}
	if inner, ok := payload["wallet"].(map[string]any); ok {
		if v, ok := inner["saldo"]; ok {
			return v, true
		}
	}
	if v, ok := payload["saldo"]; ok {
		return v, true
	}
	return nil, false
}
