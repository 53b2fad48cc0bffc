package store

import (
	"testing"
	"time"

	"github.com/lucasvrm/ecodoacao/internal/model"
)

func TestBackupLifecycle(t *testing.T) {
	s := NewBackupStore(setupTestDB(t))

	b, err := s.Create("backup-2026-01-02T030405Z.db.enc", "state/backup-2026-01-02T030405Z.db.enc")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if b.Status != model.BackupStatusPending {
		t.Errorf("status = %q, want pending", b.Status)
	}

	if err := s.UpdateStatus(b.ID, model.BackupStatusUploading, ""); err != nil {
		t.Fatalf("update status: %v", err)
	}
	if err := s.UpdateCompleted(b.ID, 2048); err != nil {
		t.Fatalf("update completed: %v", err)
	}

	got, err := s.GetByID(b.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != model.BackupStatusCompleted {
		t.Errorf("status = %q, want completed", got.Status)
	}
	if got.SizeBytes != 2048 {
		t.Errorf("size = %d, want 2048", got.SizeBytes)
	}
	if got.CompletedAt == nil {
		t.Error("expected completed_at set")
	}
}

func TestBackupFailedKeepsError(t *testing.T) {
	s := NewBackupStore(setupTestDB(t))

	b, _ := s.Create("f.db.enc", "state/f.db.enc")
	if err := s.UpdateStatus(b.ID, model.BackupStatusFailed, "upload to s3: timeout"); err != nil {
		t.Fatalf("update status: %v", err)
	}
	got, _ := s.GetByID(b.ID)
	if got.ErrorMessage != "upload to s3: timeout" {
		t.Errorf("error = %q", got.ErrorMessage)
	}
}

func TestBackupDeleteOlderThan(t *testing.T) {
	s := NewBackupStore(setupTestDB(t))

	old, _ := s.Create("old.db.enc", "state/old.db.enc")
	kept, _ := s.Create("kept.db.enc", "state/kept.db.enc")

	// Age the first record past the cutoff.
	if _, err := s.db.Exec(`UPDATE backups SET created_at = ? WHERE id = ?`,
		time.Now().UTC().AddDate(0, 0, -60), old.ID); err != nil {
		t.Fatalf("age record: %v", err)
	}

	keys, err := s.DeleteOlderThan(time.Now().UTC().AddDate(0, 0, -30))
	if err != nil {
		t.Fatalf("delete older than: %v", err)
	}
	if len(keys) != 1 || keys[0] != "state/old.db.enc" {
		t.Errorf("keys = %v", keys)
	}

	remaining, err := s.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(remaining) != 1 || remaining[0].ID != kept.ID {
		t.Errorf("remaining = %+v", remaining)
	}
}
