package store

import (
	"database/sql"
	"errors"
	"time"
)

// Phrase overrides the text spoken and written for one sign.
type Phrase struct {
	Label     string
	Text      string
	UpdatedAt time.Time
}

// PhraseRepository provides CRUD operations for phrases.
type PhraseRepository struct {
	db *sql.DB
}

// Phrases returns the phrase repository for this store.
func (s *Store) Phrases() *PhraseRepository {
	return &PhraseRepository{db: s.db}
}

// Upsert inserts or replaces the phrase for p.Label.
func (r *PhraseRepository) Upsert(p *Phrase) error {
	p.UpdatedAt = time.Now()

	_, err := r.db.Exec(
		`INSERT INTO phrases (label, text, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(label) DO UPDATE SET text = excluded.text, updated_at = excluded.updated_at`,
		p.Label, p.Text, p.UpdatedAt,
	)
	return err
}

// Get retrieves the phrase for a label.
func (r *PhraseRepository) Get(label string) (*Phrase, error) {
	p := &Phrase{}
	err := r.db.QueryRow(
		`SELECT label, text, updated_at FROM phrases WHERE label = ?`,
		label,
	).Scan(&p.Label, &p.Text, &p.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

// List retrieves all phrases ordered by label.
func (r *PhraseRepository) List() ([]*Phrase, error) {
	rows, err := r.db.Query(`SELECT label, text, updated_at FROM phrases ORDER BY label`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var phrases []*Phrase
	for rows.Next() {
		p := &Phrase{}
		if err := rows.Scan(&p.Label, &p.Text, &p.UpdatedAt); err != nil {
			return nil, err
		}
		phrases = append(phrases, p)
	}

	return phrases, rows.Err()
}

// Delete removes the phrase for a label.
func (r *PhraseRepository) Delete(label string) error {
	result, err := r.db.Exec(`DELETE FROM phrases WHERE label = ?`, label)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}
