package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/lucasvrm/ecodoacao/internal/donation"
	"github.com/lucasvrm/ecodoacao/internal/notify"
)

func (a *app) runSubmit(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("submeter", flag.ExitOnError)
	typeID := fs.Int64("tipo", 0, "id do tipo de doação (veja: ecodoacao tipos)")
	description := fs.String("descricao", "", "descrição opcional (10 a 240 caracteres)")
	photo := fs.String("foto", "", "caminho da foto de evidência (JPG ou PNG)")
	fs.Parse(args)

	if err := a.requireAuth(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *typeID == 0 || *photo == "" {
		fmt.Fprintln(os.Stderr, "informe -tipo e -foto")
		return 2
	}

	if msg := donation.ValidateDescription(*description); msg != "" {
		a.notifier.Show(notify.VariantWarning, msg)
		return 1
	}

	evidence, err := os.ReadFile(*photo)
	if err != nil {
		a.notifier.Show(notify.VariantDanger, fmt.Sprintf("não foi possível ler a foto: %v", err))
		return 1
	}
	if msg := donation.ValidateEvidenceImage(evidence); msg != "" {
		a.notifier.Show(notify.VariantWarning, msg)
		return 1
	}

	created, err := a.donations.Submit(ctx, donation.SubmitInput{
		TypeID:      *typeID,
		Description: *description,
		FileName:    filepath.Base(*photo),
		Evidence:    evidence,
	})
	if err != nil {
		return a.showAPIError(err)
	}

	a.notifier.Success(fmt.Sprintf("Doação #%d enviada. Aguardando validação.", created.ID))
	return 0
}

func (a *app) runHistory(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("historico", flag.ExitOnError)
	status := fs.String("status", "", "filtrar por status (PENDENTE, APROVADA, RECUSADA)")
	page := fs.Int("pagina", 0, "página")
	fs.Parse(args)

	if err := a.requireAuth(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	result, err := a.donations.History(ctx, donation.HistoryQuery{Status: *status, Page: *page})
	if err != nil {
		return a.showAPIError(err)
	}

	if len(result.Results) == 0 {
		fmt.Println("Nenhuma doação encontrada.")
		return 0
	}
	for _, d := range result.Results {
		info := donation.GetStatusInfo(string(d.Status))
		fmt.Printf("#%-5d %-20s %-10s %s\n", d.ID, d.Type, info.Label, donation.FormatDate(d.SubmittedAt))
		if d.RejectReason != nil && *d.RejectReason != "" {
			fmt.Printf("       Motivo: %s\n", *d.RejectReason)
		}
	}
	fmt.Printf("Total: %d\n", result.Count)
	return 0
}

func (a *app) runTypes(ctx context.Context, args []string) int {
	types, err := a.donations.Types(ctx)
	if err != nil {
		return a.showAPIError(err)
	}
	for _, t := range types {
		fmt.Printf("%-4d %-25s %d moedas\n", t.ID, t.Name, t.Coins)
	}
	return 0
}
