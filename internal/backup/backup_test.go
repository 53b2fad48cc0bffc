package backup

import (
	"bytes"
	"context"
	"database/sql"
	"io"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/lucasvrm/ecodoacao/internal/database"
	"github.com/lucasvrm/ecodoacao/internal/model"
	"github.com/lucasvrm/ecodoacao/internal/store"
)

// mockS3Client implements s3Client for testing.
type mockS3Client struct {
	mu      sync.Mutex
	objects map[string][]byte
	putErr  error
	getErr  error
}

func newMockS3() *mockS3Client {
	return &mockS3Client{objects: make(map[string][]byte)}
}

func (m *mockS3Client) PutObject(_ context.Context, input *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if m.putErr != nil {
		return nil, m.putErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	data, _ := io.ReadAll(input.Body)
	m.objects[*input.Key] = data
	return &s3.PutObjectOutput{}, nil
}

func (m *mockS3Client) GetObject(_ context.Context, input *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[*input.Key]
	if !ok {
		return nil, &s3NotFound{}
	}
	return &s3.GetObjectOutput{
		Body: io.NopCloser(bytes.NewReader(data)),
	}, nil
}

func (m *mockS3Client) DeleteObject(_ context.Context, input *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, *input.Key)
	return &s3.DeleteObjectOutput{}, nil
}

type s3NotFound struct{}

func (e *s3NotFound) Error() string { return "NoSuchKey" }

func setupManager(t *testing.T, client s3Client) (*Manager, *sql.DB, string) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "state.db")
	db, err := database.Open(dbPath)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	m := NewManager(
		Config{S3: S3Config{Bucket: "test"}, DBPath: dbPath},
		db,
		store.NewBackupStore(db),
		store.NewSettingsStore(db),
		withS3Client(client),
	)
	return m, db, dbPath
}

func TestManagerDisabledWithoutCredentials(t *testing.T) {
	m := NewManager(Config{}, nil, nil, nil)
	if m.Enabled() {
		t.Error("expected manager disabled without S3 credentials")
	}
	if _, err := m.RunNow(context.Background(), "senha"); err == nil {
		t.Error("expected error running backup without configuration")
	}
}

func TestRunNowUploadsEncrypted(t *testing.T) {
	mock := newMockS3()
	m, db, _ := setupManager(t, mock)

	settings := store.NewSettingsStore(db)
	if err := settings.Set("marker", "antes-do-backup"); err != nil {
		t.Fatalf("set marker: %v", err)
	}

	id, err := m.RunNow(context.Background(), "senha-forte")
	if err != nil {
		t.Fatalf("run backup: %v", err)
	}

	record, err := store.NewBackupStore(db).GetByID(id)
	if err != nil || record == nil {
		t.Fatalf("get record: %v", err)
	}
	if record.Status != model.BackupStatusCompleted {
		t.Errorf("status = %q, want completed", record.Status)
	}
	if record.SizeBytes <= 0 {
		t.Errorf("size = %d, want > 0", record.SizeBytes)
	}

	mock.mu.Lock()
	uploaded := mock.objects[record.S3Key]
	mock.mu.Unlock()
	if len(uploaded) == 0 {
		t.Fatal("no object uploaded")
	}
	if bytes.Contains(uploaded, []byte("antes-do-backup")) {
		t.Error("uploaded object should be encrypted")
	}
}

func TestRunNowReusesSalt(t *testing.T) {
	mock := newMockS3()
	m, db, _ := setupManager(t, mock)

	if _, err := m.RunNow(context.Background(), "senha"); err != nil {
		t.Fatalf("first backup: %v", err)
	}
	salt1, err := store.NewSettingsStore(db).Get("backup_salt")
	if err != nil || salt1 == "" {
		t.Fatalf("salt after first backup: %q, %v", salt1, err)
	}

	if _, err := m.RunNow(context.Background(), "senha"); err != nil {
		t.Fatalf("second backup: %v", err)
	}
	salt2, _ := store.NewSettingsStore(db).Get("backup_salt")
	if salt1 != salt2 {
		t.Error("salt should persist across backups")
	}
}

func TestRunNowUploadFailureMarksRecord(t *testing.T) {
	mock := newMockS3()
	mock.putErr = &s3NotFound{}
	m, db, _ := setupManager(t, mock)

	if _, err := m.RunNow(context.Background(), "senha"); err == nil {
		t.Fatal("expected upload error")
	}

	backups, err := store.NewBackupStore(db).List()
	if err != nil || len(backups) != 1 {
		t.Fatalf("list backups: %v (%d)", err, len(backups))
	}
	if backups[0].Status != model.BackupStatusFailed {
		t.Errorf("status = %q, want failed", backups[0].Status)
	}
}

func TestRestoreRoundTrip(t *testing.T) {
	mock := newMockS3()
	m, db, dbPath := setupManager(t, mock)

	settings := store.NewSettingsStore(db)
	if err := settings.Set("marker", "valor-original"); err != nil {
		t.Fatalf("set marker: %v", err)
	}

	id, err := m.RunNow(context.Background(), "senha-restauro")
	if err != nil {
		t.Fatalf("run backup: %v", err)
	}

	if err := settings.Set("marker", "valor-alterado"); err != nil {
		t.Fatalf("overwrite marker: %v", err)
	}

	if err := m.Restore(context.Background(), id, "senha-restauro"); err != nil {
		t.Fatalf("restore: %v", err)
	}

	restored, err := database.Open(dbPath)
	if err != nil {
		t.Fatalf("reopen restored db: %v", err)
	}
	defer restored.Close()

	value, err := store.NewSettingsStore(restored).Get("marker")
	if err != nil {
		t.Fatalf("read marker: %v", err)
	}
	if value != "valor-original" {
		t.Errorf("marker = %q, want valor-original", value)
	}
}

func TestRestoreWrongPassphrase(t *testing.T) {
	mock := newMockS3()
	m, _, _ := setupManager(t, mock)

	id, err := m.RunNow(context.Background(), "senha-certa")
	if err != nil {
		t.Fatalf("run backup: %v", err)
	}

	if err := m.Restore(context.Background(), id, "senha-errada"); err == nil {
		t.Fatal("expected error restoring with wrong passphrase")
	}
}

func TestRestoreUnknownBackup(t *testing.T) {
	m, _, _ := setupManager(t, newMockS3())
	if err := m.Restore(context.Background(), 999, "senha"); err == nil {
		t.Fatal("expected error for unknown backup id")
	}
}

func TestCleanupDeletesOldBackups(t *testing.T) {
	mock := newMockS3()
	m, db, _ := setupManager(t, mock)

	id, err := m.RunNow(context.Background(), "senha")
	if err != nil {
		t.Fatalf("run backup: %v", err)
	}
	record, _ := store.NewBackupStore(db).GetByID(id)

	// Age the record past the retention window.
	old := time.Now().UTC().AddDate(0, 0, -60)
	if _, err := db.Exec(`UPDATE backups SET created_at = ? WHERE id = ?`, old, id); err != nil {
		t.Fatalf("age record: %v", err)
	}

	if err := m.Cleanup(context.Background(), 30); err != nil {
		t.Fatalf("cleanup: %v", err)
	}

	remaining, _ := store.NewBackupStore(db).List()
	if len(remaining) != 0 {
		t.Errorf("remaining records = %d, want 0", len(remaining))
	}
	mock.mu.Lock()
	_, stillThere := mock.objects[record.S3Key]
	mock.mu.Unlock()
	if stillThere {
		t.Error("S3 object should have been deleted")
	}
}
