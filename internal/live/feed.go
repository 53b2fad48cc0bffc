// Package live keeps a WebSocket connection to the backend's
// notification feed, pushing validation results and badge conquests to
// the terminal as they happen.
package live

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	ws "github.com/coder/websocket"
	"github.com/sethvargo/go-retry"

	"github.com/lucasvrm/ecodoacao/internal/notify"
	"github.com/lucasvrm/ecodoacao/internal/wallet"
)

const (
	feedPath       = "/ws/notificacoes"
	initialBackoff = time.Second
	maxBackoff     = 60 * time.Second
)

// Event is a single message from the notification feed.
type Event struct {
	Kind    string `json:"tipo"`
	Message string `json:"mensagem"`
	Balance *int   `json:"saldo_moedas,omitempty"`
	BadgeID *int64 `json:"badge_id,omitempty"`
}

// TokenSource provides the current access token for the handshake.
type TokenSource interface {
	Access() string
}

// Feed maintains the connection and dispatches events.
type Feed struct {
	url      string
	tokens   TokenSource
	notifier *notify.Notifier
	wallet   *wallet.Wallet
	log      *slog.Logger

	// dial is swapped out in tests.
	dial func(ctx context.Context) (*ws.Conn, error)
}

type Option func(*Feed)

func WithLogger(log *slog.Logger) Option {
	return func(f *Feed) { f.log = log }
}

// New builds a feed for the given API base URL. baseURL keeps its http
// or https scheme; the dialer translates it for the handshake.
func New(baseURL string, tokens TokenSource, n *notify.Notifier, w *wallet.Wallet, opts ...Option) *Feed {
	f := &Feed{
		url:      wsURL(baseURL),
		tokens:   tokens,
		notifier: n,
		wallet:   w,
		log:      slog.Default(),
	}
	f.dial = f.dialFeed
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func wsURL(baseURL string) string {
	u := strings.TrimSuffix(baseURL, "/")
	u = strings.Replace(u, "https://", "wss://", 1)
	u = strings.Replace(u, "http://", "ws://", 1)
	return u + feedPath
}

func (f *Feed) dialFeed(ctx context.Context) (*ws.Conn, error) {
	header := http.Header{}
	if access := f.tokens.Access(); access != "" {
		header.Set("Authorization", "Bearer "+access)
	}
	conn, _, err := ws.Dial(ctx, f.url, &ws.DialOptions{HTTPHeader: header})
	if err != nil {
		return nil, fmt.Errorf("dial notification feed: %w", err)
	}
	return conn, nil
}

// Run connects and reads events until ctx is cancelled, reconnecting
// with exponential backoff. A connection that delivered at least one
// event resets the backoff.
func (f *Feed) Run(ctx context.Context) error {
	backoff := retry.WithCappedDuration(maxBackoff, retry.NewExponential(initialBackoff))

	for {
		delivered, err := f.listenOnce(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if delivered {
			backoff = retry.WithCappedDuration(maxBackoff, retry.NewExponential(initialBackoff))
		}

		wait, _ := backoff.Next()
		f.log.Debug("notification feed disconnected", "error", err, "retry_in", wait)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}

// listenOnce holds one connection open and dispatches its events,
// reporting whether anything arrived before the connection dropped.
func (f *Feed) listenOnce(ctx context.Context) (bool, error) {
	conn, err := f.dial(ctx)
	if err != nil {
		return false, err
	}
	defer conn.Close(ws.StatusNormalClosure, "")

	delivered := false
	for {
		kind, data, err := conn.Read(ctx)
		if err != nil {
			return delivered, err
		}
		if kind != ws.MessageText {
			continue
		}

		var event Event
		if err := json.Unmarshal(data, &event); err != nil {
			f.log.Debug("malformed feed event", "error", err)
			continue
		}
		delivered = true
		f.Dispatch(event)
	}
}

// Dispatch applies a feed event to the wallet and shows it to the user.
func (f *Feed) Dispatch(event Event) {
	if f.wallet != nil {
		if event.Balance != nil {
			f.wallet.SetBalance(*event.Balance)
		}
		if event.BadgeID != nil {
			f.wallet.AddOwnedBadge(*event.BadgeID)
		}
	}

	if f.notifier == nil || event.Message == "" {
		return
	}
	switch event.Kind {
	case "doacao_validada", "badge_conquistada":
		f.notifier.Show(notify.VariantSuccess, event.Message)
	case "doacao_recusada":
		f.notifier.Show(notify.VariantWarning, event.Message)
	default:
		f.notifier.Show(notify.VariantInfo, event.Message)
	}
}
