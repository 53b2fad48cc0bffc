package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/lucasvrm/ecodoacao/internal/account"
	"github.com/lucasvrm/ecodoacao/internal/notify"
)

func (a *app) runLogin(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	username := fs.String("usuario", "", "nome de usuário")
	password := fs.String("senha", "", "senha (pedida no terminal se omitida)")
	fs.Parse(args)

	if *username == "" {
		fmt.Fprintln(os.Stderr, "informe -usuario")
		return 2
	}
	if *password == "" {
		answer, err := a.prompter.ConfirmWithInput("Senha", promptPassword())
		if err != nil || answer == nil {
			fmt.Fprintln(os.Stderr, "senha não informada")
			return 2
		}
		*password = *answer
	}

	if err := a.accounts.Login(ctx, *username, *password); err != nil {
		return a.showAPIError(err)
	}

	balance := a.wallet.SyncFromDashboard(ctx, a.client)
	a.notifier.Success(fmt.Sprintf("Bem-vindo, %s! Saldo: %d moedas", *username, balance))
	return 0
}

func (a *app) runRegister(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("cadastro", flag.ExitOnError)
	username := fs.String("usuario", "", "nome de usuário")
	email := fs.String("email", "", "e-mail")
	password := fs.String("senha", "", "senha")
	fs.Parse(args)

	if *username == "" || *email == "" || *password == "" {
		fmt.Fprintln(os.Stderr, "informe -usuario, -email e -senha")
		return 2
	}

	user, err := a.accounts.Register(ctx, account.RegisterInput{
		Username: *username,
		Email:    *email,
		Password: *password,
	})
	if err != nil {
		return a.showAPIError(err)
	}

	a.notifier.Success(fmt.Sprintf("Conta criada para %s. Use: ecodoacao login", user.Username))
	return 0
}

func (a *app) runLogout(args []string) int {
	if err := a.accounts.Logout(); err != nil {
		a.notifier.Show(notify.VariantDanger, err.Error())
		return 1
	}
	a.notifier.Info("Sessão encerrada.")
	return 0
}

func (a *app) runDashboard(ctx context.Context, args []string) int {
	if err := a.requireAuth(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	dash, err := a.accounts.Dashboard(ctx)
	if err != nil {
		return a.showAPIError(err)
	}
	a.wallet.SetBalance(dash.CoinBalance)

	fmt.Printf("Usuário:  %s <%s>\n", dash.Username, dash.Email)
	fmt.Printf("Saldo:    %d moedas\n", dash.CoinBalance)
	if a.accounts.IsAdmin() {
		fmt.Println("Papel:    administrador")
	}
	if len(dash.Badges) > 0 {
		fmt.Printf("Badges:   %d conquistadas\n", len(dash.Badges))
		for _, b := range dash.Badges {
			fmt.Printf("  - %s\n", b.Name)
		}
	}
	return 0
}

func (a *app) runProfile(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("perfil", flag.ExitOnError)
	username := fs.String("usuario", "", "novo nome de usuário")
	email := fs.String("email", "", "novo e-mail")
	fs.Parse(args)

	if err := a.requireAuth(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if *username == "" && *email == "" {
		dash, err := a.accounts.Dashboard(ctx)
		if err != nil {
			return a.showAPIError(err)
		}
		fmt.Printf("Usuário: %s\nE-mail:  %s\n", dash.Username, dash.Email)
		return 0
	}

	user, err := a.accounts.UpdateProfile(ctx, *username, *email)
	if err != nil {
		return a.showAPIError(err)
	}
	a.notifier.Success(fmt.Sprintf("Perfil atualizado: %s <%s>", user.Username, user.Email))
	return 0
}

func (a *app) runPassword(ctx context.Context, args []string) int {
	if err := a.requireAuth(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	current, err := a.prompter.ConfirmWithInput("Senha atual", promptPassword())
	if err != nil || current == nil {
		fmt.Fprintln(os.Stderr, "senha atual não informada")
		return 2
	}
	next, err := a.prompter.ConfirmWithInput("Nova senha", promptPassword())
	if err != nil || next == nil {
		fmt.Fprintln(os.Stderr, "nova senha não informada")
		return 2
	}
	if strings.TrimSpace(*next) == strings.TrimSpace(*current) {
		fmt.Fprintln(os.Stderr, "a nova senha deve ser diferente da atual")
		return 2
	}

	if err := a.accounts.ChangePassword(ctx, *current, *next); err != nil {
		return a.showAPIError(err)
	}
	a.notifier.Success("Senha alterada.")
	return 0
}
