package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/lucasvrm/ecodoacao/internal/model"
)

// SubmissionStore mirrors donations submitted from this machine so history
// stays browsable when the backend is unreachable.
type SubmissionStore struct {
	db *sql.DB
}

func NewSubmissionStore(db *sql.DB) *SubmissionStore {
	return &SubmissionStore{db: db}
}

func scanSubmission(scanner interface{ Scan(...any) error }) (*model.Submission, error) {
	var sub model.Submission
	err := scanner.Scan(&sub.ID, &sub.Type, &sub.Description, &sub.FileName, &sub.SubmittedAt, &sub.Status)
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

const submissionCols = `id, type, description, file_name, submitted_at, status`

func (s *SubmissionStore) Save(subType, description, fileName, status string) (*model.Submission, error) {
	if status == "" {
		status = string(model.DonationPending)
	}
	now := time.Now().UTC()
	result, err := s.db.Exec(
		`INSERT INTO submissions (type, description, file_name, submitted_at, status) VALUES (?, ?, ?, ?, ?)`,
		subType, description, fileName, now, status,
	)
	if err != nil {
		return nil, fmt.Errorf("insert submission: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *SubmissionStore) GetByID(id int64) (*model.Submission, error) {
	row := s.db.QueryRow(`SELECT `+submissionCols+` FROM submissions WHERE id = ?`, id)
	sub, err := scanSubmission(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get submission: %w", err)
	}
	return sub, nil
}

// List returns all mirrored submissions, newest first.
func (s *SubmissionStore) List() ([]model.Submission, error) {
	rows, err := s.db.Query(`SELECT ` + submissionCols + ` FROM submissions ORDER BY submitted_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	defer rows.Close()

	var subs []model.Submission
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, fmt.Errorf("scan submission: %w", err)
		}
		subs = append(subs, *sub)
	}
	return subs, rows.Err()
}

func (s *SubmissionStore) UpdateStatus(id int64, status string) error {
	result, err := s.db.Exec(`UPDATE submissions SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return fmt.Errorf("update submission status: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("submission %d not found", id)
	}
	return nil
}

func (s *SubmissionStore) Clear() error {
	if _, err := s.db.Exec(`DELETE FROM submissions`); err != nil {
		return fmt.Errorf("clear submissions: %w", err)
	}
	return nil
}
