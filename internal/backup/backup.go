// Package backup copies the local state database to S3-compatible
// storage, encrypted with a user passphrase.
package backup

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/lucasvrm/ecodoacao/internal/model"
	"github.com/lucasvrm/ecodoacao/internal/store"
)

// saltSettingKey holds the hex-encoded passphrase salt in the settings
// table so every backup of this install derives the same key.
const saltSettingKey = "backup_salt"

// s3Client is an interface for testability.
type s3Client interface {
	PutObject(ctx context.Context, input *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, input *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObject(ctx context.Context, input *s3.DeleteObjectInput, opts ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Config holds S3-compatible storage configuration.
type S3Config struct {
	Endpoint  string
	Bucket    string
	Region    string
	AccessKey string
	SecretKey string
}

// Config holds backup manager configuration.
type Config struct {
	S3     S3Config
	DBPath string
}

// Manager runs encrypted backups of the state database.
type Manager struct {
	cfg      Config
	db       *sql.DB
	backups  *store.BackupStore
	settings *store.SettingsStore
	client   s3Client
	log      *slog.Logger
}

type Option func(*Manager)

func WithLogger(log *slog.Logger) Option {
	return func(m *Manager) { m.log = log }
}

// withS3Client replaces the S3 client, for tests.
func withS3Client(client s3Client) Option {
	return func(m *Manager) { m.client = client }
}

// NewManager creates a backup manager. It is disabled (Enabled returns
// false) until the S3 bucket and credentials are configured.
func NewManager(cfg Config, db *sql.DB, bs *store.BackupStore, ss *store.SettingsStore, opts ...Option) *Manager {
	m := &Manager{
		cfg:      cfg,
		db:       db,
		backups:  bs,
		settings: ss,
		log:      slog.Default(),
	}
	if cfg.S3.Bucket != "" && cfg.S3.AccessKey != "" && cfg.S3.SecretKey != "" {
		m.client = newS3Client(cfg.S3)
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func newS3Client(cfg S3Config) *s3.Client {
	opts := s3.Options{
		Region:       cfg.Region,
		Credentials:  credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		UsePathStyle: true,
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
	}
	return s3.New(opts)
}

// Enabled reports whether S3 storage is configured.
func (m *Manager) Enabled() bool {
	return m.client != nil
}

// salt loads the install's passphrase salt, generating and persisting
// one on first use.
func (m *Manager) salt() ([]byte, error) {
	stored, err := m.settings.Get(saltSettingKey)
	if err != nil {
		return nil, fmt.Errorf("load backup salt: %w", err)
	}
	if stored != "" {
		salt, err := hex.DecodeString(stored)
		if err != nil {
			return nil, fmt.Errorf("decode backup salt: %w", err)
		}
		return salt, nil
	}

	salt, err := GenerateSalt()
	if err != nil {
		return nil, err
	}
	if err := m.settings.Set(saltSettingKey, hex.EncodeToString(salt)); err != nil {
		return nil, fmt.Errorf("persist backup salt: %w", err)
	}
	return salt, nil
}

// RunNow snapshots the state database, encrypts it and uploads it.
// Returns the backup record ID.
func (m *Manager) RunNow(ctx context.Context, passphrase string) (int64, error) {
	if m.client == nil {
		return 0, fmt.Errorf("backup not configured: S3 credentials missing")
	}

	salt, err := m.salt()
	if err != nil {
		return 0, err
	}

	timestamp := time.Now().UTC().Format("2006-01-02T150405Z")
	filename := fmt.Sprintf("ecodoacao-%s.db.enc", timestamp)

	record, err := m.backups.Create(filename, filename)
	if err != nil {
		return 0, fmt.Errorf("create backup record: %w", err)
	}

	fail := func(err error) (int64, error) {
		m.backups.UpdateStatus(record.ID, model.BackupStatusFailed, err.Error())
		return 0, err
	}

	m.backups.UpdateStatus(record.ID, model.BackupStatusUploading, "")

	// Checkpoint WAL so the file on disk is complete.
	if _, err := m.db.ExecContext(ctx, "PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		return fail(fmt.Errorf("wal checkpoint: %w", err))
	}

	plaintext, err := os.ReadFile(m.cfg.DBPath)
	if err != nil {
		return fail(fmt.Errorf("read database: %w", err))
	}

	encrypted, err := Encrypt(plaintext, passphrase, salt)
	if err != nil {
		return fail(fmt.Errorf("encrypt: %w", err))
	}

	_, err = m.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(m.cfg.S3.Bucket),
		Key:           aws.String(record.S3Key),
		Body:          bytes.NewReader(encrypted),
		ContentLength: aws.Int64(int64(len(encrypted))),
	})
	if err != nil {
		return fail(fmt.Errorf("upload to s3: %w", err))
	}

	if err := m.backups.UpdateCompleted(record.ID, int64(len(encrypted))); err != nil {
		return 0, fmt.Errorf("mark backup completed: %w", err)
	}

	m.log.Info("backup uploaded", "id", record.ID, "key", record.S3Key, "bytes", len(encrypted))
	return record.ID, nil
}

// Restore downloads a backup, decrypts it, checks SQLite integrity and
// replaces the local database file. The caller must reopen the database
// afterwards.
func (m *Manager) Restore(ctx context.Context, backupID int64, passphrase string) error {
	if m.client == nil {
		return fmt.Errorf("backup not configured")
	}

	record, err := m.backups.GetByID(backupID)
	if err != nil {
		return fmt.Errorf("get backup: %w", err)
	}
	if record == nil {
		return fmt.Errorf("backup not found")
	}

	result, err := m.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(m.cfg.S3.Bucket),
		Key:    aws.String(record.S3Key),
	})
	if err != nil {
		return fmt.Errorf("download from s3: %w", err)
	}
	defer result.Body.Close()

	encrypted, err := io.ReadAll(result.Body)
	if err != nil {
		return fmt.Errorf("read downloaded backup: %w", err)
	}

	plaintext, err := Decrypt(encrypted, passphrase)
	if err != nil {
		return fmt.Errorf("decrypt backup: %w", err)
	}

	decFile := m.cfg.DBPath + ".restore"
	if err := os.WriteFile(decFile, plaintext, 0600); err != nil {
		return fmt.Errorf("write restored database: %w", err)
	}
	defer os.Remove(decFile)

	if err := checkIntegrity(decFile); err != nil {
		return err
	}

	if err := os.Rename(decFile, m.cfg.DBPath); err != nil {
		return fmt.Errorf("replace database: %w", err)
	}
	os.Remove(m.cfg.DBPath + "-wal")
	os.Remove(m.cfg.DBPath + "-shm")

	m.log.Info("backup restored", "id", backupID)
	return nil
}

func checkIntegrity(path string) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("open restored db: %w", err)
	}
	defer db.Close()

	var integrity string
	if err := db.QueryRow("PRAGMA integrity_check").Scan(&integrity); err != nil {
		return fmt.Errorf("integrity check: %w", err)
	}
	if integrity != "ok" {
		return fmt.Errorf("integrity check failed: %s", integrity)
	}
	return nil
}

// List returns the recorded backups, newest first.
func (m *Manager) List() ([]model.Backup, error) {
	return m.backups.List()
}

// Cleanup deletes backups older than the retention period, locally and
// from S3.
func (m *Manager) Cleanup(ctx context.Context, retentionDays int) error {
	if m.client == nil {
		return nil
	}
	if retentionDays <= 0 {
		retentionDays = 30
	}

	before := time.Now().UTC().AddDate(0, 0, -retentionDays)
	keys, err := m.backups.DeleteOlderThan(before)
	if err != nil {
		return fmt.Errorf("delete old backups: %w", err)
	}

	for _, key := range keys {
		if _, err := m.client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(m.cfg.S3.Bucket),
			Key:    aws.String(key),
		}); err != nil {
			m.log.Warn("failed to delete S3 object", "key", key, "error", err)
		}
	}
	return nil
}
