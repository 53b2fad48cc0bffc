// Command ecodoacao is the terminal client for the EcoDoação platform:
// submit donations with photo evidence, follow validation, and spend
// earned coins on badges.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/lucasvrm/ecodoacao/internal/account"
	"github.com/lucasvrm/ecodoacao/internal/api"
	"github.com/lucasvrm/ecodoacao/internal/backup"
	"github.com/lucasvrm/ecodoacao/internal/badge"
	"github.com/lucasvrm/ecodoacao/internal/database"
	"github.com/lucasvrm/ecodoacao/internal/donation"
	"github.com/lucasvrm/ecodoacao/internal/logging"
	"github.com/lucasvrm/ecodoacao/internal/notify"
	"github.com/lucasvrm/ecodoacao/internal/prompt"
	"github.com/lucasvrm/ecodoacao/internal/store"
	"github.com/lucasvrm/ecodoacao/internal/token"
	"github.com/lucasvrm/ecodoacao/internal/wallet"
)

type config struct {
	APIBase   string
	DBPath    string
	LogLevel  string
	Timeout   time.Duration
	S3        backup.S3Config
	Retention int
}

func loadConfig() config {
	cfg := config{
		APIBase:   envOr("ECODOACAO_API_BASE", "http://localhost:8000"),
		DBPath:    envOr("ECODOACAO_DB_PATH", "ecodoacao.db"),
		LogLevel:  envOr("ECODOACAO_LOG_LEVEL", "info"),
		Retention: 30,
		S3: backup.S3Config{
			Endpoint:  os.Getenv("ECODOACAO_S3_ENDPOINT"),
			Bucket:    os.Getenv("ECODOACAO_S3_BUCKET"),
			Region:    envOr("ECODOACAO_S3_REGION", "us-east-1"),
			AccessKey: os.Getenv("ECODOACAO_S3_ACCESS_KEY"),
			SecretKey: os.Getenv("ECODOACAO_S3_SECRET_KEY"),
		},
	}
	if ms, err := strconv.Atoi(os.Getenv("ECODOACAO_TIMEOUT_MS")); err == nil && ms > 0 {
		cfg.Timeout = time.Duration(ms) * time.Millisecond
	}
	if days, err := strconv.Atoi(os.Getenv("ECODOACAO_BACKUP_RETENTION_DAYS")); err == nil && days > 0 {
		cfg.Retention = days
	}
	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// app bundles everything the subcommands need.
type app struct {
	cfg       config
	db        *sql.DB
	tokens    *token.Store
	client    *api.Client
	wallet    *wallet.Wallet
	accounts  *account.Service
	donations *donation.Service
	badges    *badge.Service
	backups   *backup.Manager
	notifier  *notify.Notifier
	prompter  *prompt.Prompter
}

func newApp(cfg config) (*app, error) {
	log := logging.Setup(cfg.LogLevel)

	db, err := database.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open state database: %w", err)
	}

	settings := store.NewSettingsStore(db)
	tokens := token.NewStore(settings)

	var clientOpts []api.Option
	if cfg.Timeout > 0 {
		clientOpts = append(clientOpts, api.WithTimeout(cfg.Timeout))
	}
	client := api.NewClient(cfg.APIBase, tokens, clientOpts...)

	w := wallet.New(wallet.WithLogger(log))
	backups := store.NewBackupStore(db)

	a := &app{
		cfg:       cfg,
		db:        db,
		tokens:    tokens,
		client:    client,
		wallet:    w,
		accounts:  account.NewService(client, tokens, w),
		donations: donation.NewService(client, store.NewSubmissionStore(db), store.NewDonationTypeStore(db)),
		badges:    badge.NewService(client, w),
		backups:   backup.NewManager(backup.Config{S3: cfg.S3, DBPath: cfg.DBPath}, db, backups, settings, backup.WithLogger(log)),
		notifier:  notify.New(os.Stderr, notify.WithLogger(log)),
		prompter:  prompt.New(os.Stdin, os.Stdout),
	}
	return a, nil
}

func (a *app) close() {
	a.db.Close()
}

// requireAuth stops commands that need a session before they hit the API.
func (a *app) requireAuth() error {
	if !a.accounts.IsAuthenticated() {
		return fmt.Errorf("você não está autenticado. Use: ecodoacao login")
	}
	return nil
}

// showAPIError routes request failures through the notifier so repeated
// failures collapse, then returns a non-zero exit.
func (a *app) showAPIError(err error) int {
	if apiErr, ok := err.(*api.Error); ok {
		a.notifier.ShowAPIError(apiErr.Status, apiErr.Message)
	} else {
		a.notifier.Show(notify.VariantDanger, err.Error())
	}
	return 1
}

func usage() {
	fmt.Fprint(os.Stderr, `Uso: ecodoacao <comando> [opções]

Comandos:
  login       Entrar com usuário e senha
  cadastro    Criar uma conta
  logout      Encerrar a sessão local
  dashboard   Resumo da conta: saldo, badges, papel
  submeter    Enviar uma doação com foto de evidência
  historico   Histórico de doações
  tipos       Tipos de doação e moedas atribuídas
  galeria     Badges disponíveis e conquistadas
  comprar     Comprar uma badge com moedas
  perfil      Ver ou alterar o perfil
  senha       Alterar a senha
  admin       Operações administrativas (pendentes, validar, badges)
  watch       Acompanhar notificações em tempo real
  backup      Backup criptografado do estado local

Variáveis de ambiente: ECODOACAO_API_BASE, ECODOACAO_DB_PATH,
ECODOACAO_LOG_LEVEL, ECODOACAO_TIMEOUT_MS, ECODOACAO_S3_*
`)
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	a, err := newApp(loadConfig())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer a.close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd, args := os.Args[1], os.Args[2:]
	var code int
	switch cmd {
	case "login":
		code = a.runLogin(ctx, args)
	case "cadastro":
		code = a.runRegister(ctx, args)
	case "logout":
		code = a.runLogout(args)
	case "dashboard":
		code = a.runDashboard(ctx, args)
	case "submeter":
		code = a.runSubmit(ctx, args)
	case "historico":
		code = a.runHistory(ctx, args)
	case "tipos":
		code = a.runTypes(ctx, args)
	case "galeria":
		code = a.runGallery(ctx, args)
	case "comprar":
		code = a.runPurchase(ctx, args)
	case "perfil":
		code = a.runProfile(ctx, args)
	case "senha":
		code = a.runPassword(ctx, args)
	case "admin":
		code = a.runAdmin(ctx, args)
	case "watch":
		code = a.runWatch(ctx, args)
	case "backup":
		code = a.runBackup(ctx, args)
	case "help", "-h", "--help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "comando desconhecido: %s\n", cmd)
		usage()
		code = 2
	}
	os.Exit(code)
}
