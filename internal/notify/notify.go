// Package notify renders user-facing notifications to the terminal,
// replacing the toast stack of the web client. Repeated identical
// messages inside a short window collapse into one.
package notify

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"
)

// Variant is the visual flavour of a notification.
type Variant string

const (
	VariantSuccess Variant = "success"
	VariantDanger  Variant = "danger"
	VariantWarning Variant = "warning"
	VariantInfo    Variant = "info"
)

// dedupeWindow is how long an identical notification stays suppressed.
const dedupeWindow = 800 * time.Millisecond

var variantLabels = map[Variant]string{
	VariantSuccess: "OK",
	VariantDanger:  "ERRO",
	VariantWarning: "AVISO",
	VariantInfo:    "INFO",
}

// Notifier writes notifications to out, collapsing duplicates.
type Notifier struct {
	mu   sync.Mutex
	out  io.Writer
	log  *slog.Logger
	now  func() time.Time
	seen map[string]time.Time
}

type Option func(*Notifier)

func WithLogger(log *slog.Logger) Option {
	return func(n *Notifier) { n.log = log }
}

// WithClock replaces the notifier's clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(n *Notifier) { n.now = now }
}

func New(out io.Writer, opts ...Option) *Notifier {
	if out == nil {
		out = os.Stderr
	}
	n := &Notifier{
		out:  out,
		log:  slog.Default(),
		now:  time.Now,
		seen: make(map[string]time.Time),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Show renders a notification unless the same variant:message pair was
// shown inside the dedupe window. Returns whether it was rendered.
func (n *Notifier) Show(variant Variant, message string) bool {
	return n.ShowKeyed(string(variant)+":"+message, variant, message)
}

// ShowKeyed is Show with a caller-chosen dedupe key, for call sites that
// vary the message text but describe the same event.
func (n *Notifier) ShowKeyed(key string, variant Variant, message string) bool {
	n.mu.Lock()
	now := n.now()
	if last, ok := n.seen[key]; ok && now.Sub(last) < dedupeWindow {
		n.mu.Unlock()
		n.log.Debug("notification suppressed", "key", key)
		return false
	}
	n.seen[key] = now
	n.prune(now)
	n.mu.Unlock()

	label, ok := variantLabels[variant]
	if !ok {
		label = variantLabels[VariantInfo]
	}
	fmt.Fprintf(n.out, "[%s] %s\n", label, message)
	return true
}

// prune drops expired dedupe entries. Caller holds the lock.
func (n *Notifier) prune(now time.Time) {
	for key, last := range n.seen {
		if now.Sub(last) >= dedupeWindow {
			delete(n.seen, key)
		}
	}
}

func (n *Notifier) Success(message string) bool {
	return n.Show(VariantSuccess, message)
}

func (n *Notifier) Info(message string) bool {
	return n.Show(VariantInfo, message)
}

// ShowAPIError maps a request error onto a notification: server faults
// (status >= 500) are danger, everything else a warning.
func (n *Notifier) ShowAPIError(status int, message string) bool {
	variant := VariantWarning
	if status >= http.StatusInternalServerError {
		variant = VariantDanger
	}
	return n.Show(variant, message)
}
