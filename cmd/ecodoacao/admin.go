package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/lucasvrm/ecodoacao/internal/api"
	"github.com/lucasvrm/ecodoacao/internal/badge"
	"github.com/lucasvrm/ecodoacao/internal/donation"
	"github.com/lucasvrm/ecodoacao/internal/model"
	"github.com/lucasvrm/ecodoacao/internal/prompt"
)

func (a *app) requireAdmin() error {
	if err := a.requireAuth(); err != nil {
		return err
	}
	if !a.accounts.IsAdmin() {
		return fmt.Errorf("este comando exige perfil administrador")
	}
	return nil
}

func (a *app) runAdmin(ctx context.Context, args []string) int {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "uso: ecodoacao admin <pendentes|validar|badges>")
		return 2
	}
	if err := a.requireAdmin(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	switch args[0] {
	case "pendentes":
		return a.runAdminPending(ctx, args[1:])
	case "validar":
		return a.runAdminValidate(ctx, args[1:])
	case "badges":
		return a.runAdminBadges(ctx, args[1:])
	default:
		fmt.Fprintf(os.Stderr, "subcomando desconhecido: %s\n", args[0])
		return 2
	}
}

func (a *app) runAdminPending(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("admin pendentes", flag.ExitOnError)
	page := fs.Int("pagina", 0, "página")
	fs.Parse(args)

	result, err := a.donations.ListPending(ctx, *page)
	if err != nil {
		return a.showAPIError(err)
	}

	if len(result.Results) == 0 {
		fmt.Println("Nenhuma doação pendente.")
		return 0
	}
	for _, d := range result.Results {
		fmt.Printf("#%-5d %-15s %-20s %s\n", d.ID, d.Donor, d.Type, donation.FormatDate(d.SubmittedAt))
	}
	fmt.Printf("Total pendente: %d\n", result.Count)
	return 0
}

func (a *app) runAdminValidate(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("admin validar", flag.ExitOnError)
	id := fs.Int64("id", 0, "id da doação")
	reject := fs.Bool("recusar", false, "recusar em vez de aprovar")
	fs.Parse(args)

	if *id == 0 {
		fmt.Fprintln(os.Stderr, "informe -id")
		return 2
	}

	status := model.DonationApproved
	reason := ""
	if *reject {
		status = model.DonationRejected
		answer, err := a.prompter.ConfirmWithInput("Motivo da recusa (mínimo 3 caracteres)", prompt.InputOptions{})
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		if answer == nil {
			fmt.Fprintln(os.Stderr, "recusa cancelada: motivo inválido")
			return 1
		}
		reason = *answer
	} else {
		ok, err := a.prompter.Confirm(fmt.Sprintf("Aprovar a doação #%d?", *id))
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		if !ok {
			fmt.Println("Operação cancelada.")
			return 0
		}
	}

	result, err := a.donations.Validate(ctx, *id, status, reason)
	if err != nil {
		return a.showAPIError(err)
	}

	a.notifier.Success(result.Message)
	if result.CoinsAwarded != nil {
		fmt.Printf("Moedas concedidas: %d\n", *result.CoinsAwarded)
	}
	for _, earned := range result.BadgesEarned {
		fmt.Printf("Badge conquistada: %s\n", earned)
	}
	return 0
}

func (a *app) runAdminBadges(ctx context.Context, args []string) int {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "uso: ecodoacao admin badges <criar|editar|excluir>")
		return 2
	}
	switch args[0] {
	case "criar":
		return a.runAdminBadgeCreate(ctx, args[1:])
	case "editar":
		return a.runAdminBadgeUpdate(ctx, args[1:])
	case "excluir":
		return a.runAdminBadgeDelete(ctx, args[1:])
	default:
		fmt.Fprintf(os.Stderr, "subcomando desconhecido: %s\n", args[0])
		return 2
	}
}

func badgeFlags(fs *flag.FlagSet) (name, description, kind, icon *string, cost, donations, coins *int, inactive *bool) {
	name = fs.String("nome", "", "nome da badge")
	description = fs.String("descricao", "", "descrição")
	kind = fs.String("tipo", "", "COMPRA ou CONQUISTA")
	icon = fs.String("icone", "", "caminho do ícone (opcional)")
	cost = fs.Int("custo", -1, "custo em moedas (tipo COMPRA)")
	donations = fs.Int("criterio-doacoes", -1, "doações necessárias (tipo CONQUISTA)")
	coins = fs.Int("criterio-moedas", -1, "moedas necessárias (tipo CONQUISTA)")
	inactive = fs.Bool("inativa", false, "criar desativada")
	return
}

func buildAdminInput(name, description, kind, icon string, cost, donations, coins int, inactive bool) (badge.AdminInput, error) {
	in := badge.AdminInput{
		Name:        name,
		Description: description,
		Kind:        model.BadgeKind(kind),
	}
	if cost >= 0 {
		in.CoinCost = &cost
	}
	if donations >= 0 {
		in.DonationCriteria = &donations
	}
	if coins >= 0 {
		in.CoinCriteria = &coins
	}
	if inactive {
		active := false
		in.Active = &active
	}
	if icon != "" {
		content, err := os.ReadFile(icon)
		if err != nil {
			return in, fmt.Errorf("ler ícone: %w", err)
		}
		in.Icon = &api.FormFile{Field: "icone", Name: filepath.Base(icon), Content: content}
	}
	return in, nil
}

func (a *app) runAdminBadgeCreate(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("admin badges criar", flag.ExitOnError)
	name, description, kind, icon, cost, donations, coins, inactive := badgeFlags(fs)
	fs.Parse(args)

	if *name == "" || *kind == "" {
		fmt.Fprintln(os.Stderr, "informe -nome e -tipo")
		return 2
	}

	in, err := buildAdminInput(*name, *description, *kind, *icon, *cost, *donations, *coins, *inactive)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	created, err := a.badges.Create(ctx, in)
	if err != nil {
		return a.showAPIError(err)
	}
	a.notifier.Success(fmt.Sprintf("Badge #%d criada: %s", created.ID, created.Name))
	return 0
}

func (a *app) runAdminBadgeUpdate(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("admin badges editar", flag.ExitOnError)
	id := fs.Int64("id", 0, "id da badge")
	name, description, kind, icon, cost, donations, coins, inactive := badgeFlags(fs)
	fs.Parse(args)

	if *id == 0 {
		fmt.Fprintln(os.Stderr, "informe -id")
		return 2
	}

	in, err := buildAdminInput(*name, *description, *kind, *icon, *cost, *donations, *coins, *inactive)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	updated, err := a.badges.Update(ctx, *id, in)
	if err != nil {
		return a.showAPIError(err)
	}
	a.notifier.Success(fmt.Sprintf("Badge #%d atualizada: %s", updated.ID, updated.Name))
	return 0
}

func (a *app) runAdminBadgeDelete(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("admin badges excluir", flag.ExitOnError)
	id := fs.Int64("id", 0, "id da badge")
	fs.Parse(args)

	if *id == 0 {
		fmt.Fprintln(os.Stderr, "informe -id")
		return 2
	}

	ok, err := a.prompter.Confirm(fmt.Sprintf("Excluir a badge #%d? Esta ação não pode ser desfeita.", *id))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if !ok {
		fmt.Println("Operação cancelada.")
		return 0
	}

	if err := a.badges.Delete(ctx, *id); err != nil {
		return a.showAPIError(err)
	}
	a.notifier.Success("Badge excluída.")
	return 0
}
