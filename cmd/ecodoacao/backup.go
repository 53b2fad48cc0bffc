package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/lucasvrm/ecodoacao/internal/model"
)

func (a *app) runBackup(ctx context.Context, args []string) int {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "uso: ecodoacao backup <agora|listar|restaurar|limpar>")
		return 2
	}
	if !a.backups.Enabled() && args[0] != "listar" {
		fmt.Fprintln(os.Stderr, "backup não configurado: defina ECODOACAO_S3_BUCKET, ECODOACAO_S3_ACCESS_KEY e ECODOACAO_S3_SECRET_KEY")
		return 1
	}

	switch args[0] {
	case "agora":
		return a.runBackupNow(ctx, args[1:])
	case "listar":
		return a.runBackupList()
	case "restaurar":
		return a.runBackupRestore(ctx, args[1:])
	case "limpar":
		return a.runBackupCleanup(ctx)
	default:
		fmt.Fprintf(os.Stderr, "subcomando desconhecido: %s\n", args[0])
		return 2
	}
}

func (a *app) askPassphrase(question string) (string, bool) {
	answer, err := a.prompter.ConfirmWithInput(question, promptPassword())
	if err != nil || answer == nil {
		fmt.Fprintln(os.Stderr, "senha de backup não informada")
		return "", false
	}
	return *answer, true
}

func (a *app) runBackupNow(ctx context.Context, args []string) int {
	passphrase, ok := a.askPassphrase("Senha do backup")
	if !ok {
		return 2
	}

	id, err := a.backups.RunNow(ctx, passphrase)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	a.notifier.Success(fmt.Sprintf("Backup #%d enviado.", id))
	return 0
}

func (a *app) runBackupList() int {
	backups, err := a.backups.List()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if len(backups) == 0 {
		fmt.Println("Nenhum backup registrado.")
		return 0
	}
	for _, b := range backups {
		size := ""
		if b.Status == model.BackupStatusCompleted {
			size = fmt.Sprintf(" (%d bytes)", b.SizeBytes)
		}
		fmt.Printf("#%-4d %-35s %s%s\n", b.ID, b.Filename, b.Status, size)
	}
	return 0
}

func (a *app) runBackupRestore(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("backup restaurar", flag.ExitOnError)
	id := fs.Int64("id", 0, "id do backup (veja: ecodoacao backup listar)")
	fs.Parse(args)

	if *id == 0 {
		fmt.Fprintln(os.Stderr, "informe -id")
		return 2
	}

	ok, err := a.prompter.Confirm("Restaurar substitui o estado local atual. Continuar?")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if !ok {
		fmt.Println("Operação cancelada.")
		return 0
	}

	passphrase, got := a.askPassphrase("Senha do backup")
	if !got {
		return 2
	}

	if err := a.backups.Restore(ctx, *id, passphrase); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	a.notifier.Success("Backup restaurado. Execute o comando novamente para usar o estado restaurado.")
	return 0
}

func (a *app) runBackupCleanup(ctx context.Context) int {
	if err := a.backups.Cleanup(ctx, a.cfg.Retention); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	a.notifier.Info(fmt.Sprintf("Backups com mais de %d dias removidos.", a.cfg.Retention))
	return 0
}
