package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/lucasvrm/ecodoacao/internal/live"
)

// runWatch holds the terminal open streaming validation results and
// badge conquests as the backend emits them.
func (a *app) runWatch(ctx context.Context, args []string) int {
	if err := a.requireAuth(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	a.wallet.OnBalanceChange(func(balance int) {
		fmt.Printf("Saldo atual: %d moedas\n", balance)
	})

	feed := live.New(a.cfg.APIBase, a.tokens, a.notifier, a.wallet)

	fmt.Println("Acompanhando notificações. Ctrl+C para sair.")
	err := feed.Run(ctx)
	if errors.Is(err, context.Canceled) {
		return 0
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
