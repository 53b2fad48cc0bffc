package store

import (
	"database/sql"
	"fmt"

	"github.com/lucasvrm/ecodoacao/internal/model"
)

// DonationTypeStore caches the donation-type reference list fetched from
// the backend. When the cache is empty it seeds the stock categories so
// the submission form works offline.
type DonationTypeStore struct {
	db *sql.DB
}

func NewDonationTypeStore(db *sql.DB) *DonationTypeStore {
	return &DonationTypeStore{db: db}
}

var defaultTypes = []model.DonationType{
	{ID: 1, Name: "Reuso de Livros"},
	{ID: 2, Name: "Descarte Eletrônico"},
	{ID: 3, Name: "Doação de Roupas"},
	{ID: 4, Name: "Doação de Alimentos"},
}

// List returns the cached types, seeding defaults when the table is empty.
func (s *DonationTypeStore) List() ([]model.DonationType, error) {
	types, err := s.list()
	if err != nil {
		return nil, err
	}
	if len(types) == 0 {
		if err := s.Replace(defaultTypes); err != nil {
			return nil, err
		}
		return s.list()
	}
	return types, nil
}

func (s *DonationTypeStore) list() ([]model.DonationType, error) {
	rows, err := s.db.Query(`SELECT id, name, coins FROM donation_types ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list donation types: %w", err)
	}
	defer rows.Close()

	var types []model.DonationType
	for rows.Next() {
		var t model.DonationType
		if err := rows.Scan(&t.ID, &t.Name, &t.Coins); err != nil {
			return nil, fmt.Errorf("scan donation type: %w", err)
		}
		types = append(types, t)
	}
	return types, rows.Err()
}

// Replace swaps the whole cached list for the given one.
func (s *DonationTypeStore) Replace(types []model.DonationType) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM donation_types`); err != nil {
		return fmt.Errorf("clear donation types: %w", err)
	}
	for _, t := range types {
		if _, err := tx.Exec(`INSERT INTO donation_types (id, name, coins) VALUES (?, ?, ?)`, t.ID, t.Name, t.Coins); err != nil {
			return fmt.Errorf("insert donation type %q: %w", t.Name, err)
		}
	}
	return tx.Commit()
}

func (s *DonationTypeStore) GetByID(id int64) (*model.DonationType, error) {
	var t model.DonationType
	err := s.db.QueryRow(`SELECT id, name, coins FROM donation_types WHERE id = ?`, id).Scan(&t.ID, &t.Name, &t.Coins)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get donation type: %w", err)
	}
	return &t, nil
}
