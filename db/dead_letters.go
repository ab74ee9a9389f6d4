package db

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"flightops/entity"
)

type DeadLettersPostgresRepository struct {
	db *sqlx.DB
}

func NewDeadLettersPostgresRepository(db *sqlx.DB) *DeadLettersPostgresRepository {
	return &DeadLettersPostgresRepository{db: db}
}

func (r *DeadLettersPostgresRepository) Store(ctx context.Context, deadLetter entity.DeadLetter) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO dead_letters (message_id, topic, handler, reason, payload, occurred_at)
		VALUES (:message_id, :topic, :handler, :reason, :payload, :occurred_at)
		ON CONFLICT DO NOTHING -- redelivered poison messages are recorded once
	`, deadLetter)
	if err != nil {
		return fmt.Errorf("could not store dead letter: %w", err)
	}
	return nil
}

func (r *DeadLettersPostgresRepository) List(ctx context.Context) ([]entity.DeadLetter, error) {
	var deadLetters []entity.DeadLetter
	err := r.db.SelectContext(ctx, &deadLetters, `
		SELECT message_id, topic, handler, reason, payload, occurred_at
		FROM dead_letters
		ORDER BY occurred_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("could not list dead letters: %w", err)
	}
	return deadLetters, nil
}
