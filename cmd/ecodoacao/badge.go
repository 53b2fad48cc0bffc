package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/lucasvrm/ecodoacao/internal/badge"
	"github.com/lucasvrm/ecodoacao/internal/notify"
)

func (a *app) runGallery(ctx context.Context, args []string) int {
	if err := a.requireAuth(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	mine, err := a.badges.ListMine(ctx)
	if err != nil {
		return a.showAPIError(err)
	}
	available, err := a.badges.ListAvailable(ctx)
	if err != nil {
		return a.showAPIError(err)
	}

	if len(mine) > 0 {
		fmt.Println("Conquistadas:")
		for _, ub := range mine {
			fmt.Printf("  %-25s %s\n", ub.Badge.Name, badge.FormatEarnedDate(ub.EarnedAt))
		}
	}

	fmt.Println("Disponíveis:")
	for _, b := range available {
		owned := ""
		if a.wallet.Owns(b.ID) {
			owned = " (já conquistada)"
		}
		fmt.Printf("  #%-4d %-25s %d moedas%s\n", b.ID, b.Name, b.CoinCost, owned)
	}
	return 0
}

func (a *app) runPurchase(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("comprar", flag.ExitOnError)
	badgeID := fs.Int64("badge", 0, "id da badge (veja: ecodoacao galeria)")
	fs.Parse(args)

	if err := a.requireAuth(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *badgeID == 0 {
		fmt.Fprintln(os.Stderr, "informe -badge")
		return 2
	}

	if a.wallet.Owns(*badgeID) {
		a.notifier.Show(notify.VariantWarning, "Você já possui esta badge.")
		return 1
	}

	result, err := a.badges.Purchase(ctx, *badgeID)
	if err != nil {
		return a.showAPIError(err)
	}
	if !result.Success {
		a.notifier.Show(notify.VariantWarning, result.Message)
		return 1
	}

	a.notifier.Success(fmt.Sprintf("%s Saldo: %d moedas", result.Message, a.wallet.Balance()))
	return 0
}
