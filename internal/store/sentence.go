package store

import (
	"context"
	"database/sql"
	"time"
)

// Sentence is a finalized sentence kept for the history view.
type Sentence struct {
	ID        string
	SessionID string
	Text      string
	Words     int
	CreatedAt time.Time
}

// SentenceRepository stores finalized sentences.
type SentenceRepository struct {
	db *sql.DB
}

// Sentences returns the sentence repository for this store.
func (s *Store) Sentences() *SentenceRepository {
	return &SentenceRepository{db: s.db}
}

// Create inserts a sentence. A zero CreatedAt is set to now.
func (r *SentenceRepository) Create(s *Sentence) error {
	return r.CreateContext(context.Background(), s)
}

// CreateContext inserts a sentence, giving up when ctx ends while waiting
// for the connection or the write.
func (r *SentenceRepository) CreateContext(ctx context.Context, s *Sentence) error {
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO sentences (id, session_id, text, words, created_at) VALUES (?, ?, ?, ?, ?)`,
		s.ID, s.SessionID, s.Text, s.Words, s.CreatedAt,
	)
	return err
}

// Recent returns up to limit sentences, newest first.
func (r *SentenceRepository) Recent(limit int) ([]*Sentence, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.Query(
		`SELECT id, session_id, text, words, created_at FROM sentences
		 ORDER BY created_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sentences []*Sentence
	for rows.Next() {
		s := &Sentence{}
		if err := rows.Scan(&s.ID, &s.SessionID, &s.Text, &s.Words, &s.CreatedAt); err != nil {
			return nil, err
		}
		sentences = append(sentences, s)
	}

	return sentences, rows.Err()
}

// Clear deletes all sentences and returns how many were removed.
func (r *SentenceRepository) Clear() (int64, error) {
	result, err := r.db.Exec(`DELETE FROM sentences`)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
