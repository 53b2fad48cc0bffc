package live

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	ws "github.com/coder/websocket"

	"github.com/lucasvrm/ecodoacao/internal/notify"
	"github.com/lucasvrm/ecodoacao/internal/wallet"
)

type staticTokens string

func (s staticTokens) Access() string { return string(s) }

func TestWSURL(t *testing.T) {
	tests := []struct {
		base string
		want string
	}{
		{"https://api.ecodoacao.org", "wss://api.ecodoacao.org/ws/notificacoes"},
		{"http://localhost:8000/", "ws://localhost:8000/ws/notificacoes"},
	}
	for _, tt := range tests {
		if got := wsURL(tt.base); got != tt.want {
			t.Errorf("wsURL(%q) = %q, want %q", tt.base, got, tt.want)
		}
	}
}

func TestDispatch(t *testing.T) {
	var out strings.Builder
	n := notify.New(&out)
	w := wallet.New()
	w.SetBalance(50)

	feed := New("http://localhost:0", staticTokens(""), n, w)

	balance := 80
	badgeID := int64(7)
	feed.Dispatch(Event{
		Kind:    "doacao_validada",
		Message: "Doação aprovada! +30 moedas",
		Balance: &balance,
		BadgeID: &badgeID,
	})

	if w.Balance() != 80 {
		t.Errorf("balance = %d, want 80", w.Balance())
	}
	if !w.Owns(7) {
		t.Error("expected badge 7 owned after event")
	}
	if !strings.Contains(out.String(), "[OK] Doação aprovada! +30 moedas") {
		t.Errorf("output = %q", out.String())
	}
}

func TestDispatchVariants(t *testing.T) {
	tests := []struct {
		kind string
		want string
	}{
		{"doacao_recusada", "[AVISO]"},
		{"badge_conquistada", "[OK]"},
		{"outra_coisa", "[INFO]"},
	}

	for _, tt := range tests {
		var out strings.Builder
		feed := New("http://localhost:0", staticTokens(""), notify.New(&out), nil)
		feed.Dispatch(Event{Kind: tt.kind, Message: "mensagem"})
		if !strings.HasPrefix(out.String(), tt.want) {
			t.Errorf("kind %q: output %q, want prefix %q", tt.kind, out.String(), tt.want)
		}
	}
}

func TestListenOnceDeliversEvents(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer token-abc" {
			t.Errorf("authorization = %q", got)
		}
		conn, err := ws.Accept(rw, r, nil)
		if err != nil {
			t.Errorf("accept: %v", err)
			return
		}
		defer conn.Close(ws.StatusNormalClosure, "")

		payload, _ := json.Marshal(Event{Kind: "doacao_validada", Message: "Aprovada!"})
		if err := conn.Write(r.Context(), ws.MessageText, payload); err != nil {
			t.Errorf("write: %v", err)
		}
		time.Sleep(50 * time.Millisecond)
	}))
	defer server.Close()

	var out strings.Builder
	feed := New(server.URL, staticTokens("token-abc"), notify.New(&out), wallet.New())

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	delivered, _ := feed.listenOnce(ctx)
	if !delivered {
		t.Fatal("expected at least one delivered event")
	}
	if !strings.Contains(out.String(), "Aprovada!") {
		t.Errorf("output = %q", out.String())
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	feed := New("http://localhost:0", staticTokens(""), nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan error, 1)
	go func() { done <- feed.Run(ctx) }()

	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("err = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
