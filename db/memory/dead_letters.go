package memory

import (
	"context"
	"sync"

	"flightops/entity"
)

type DeadLettersRepository struct {
	mu          sync.Mutex
	deadLetters []entity.DeadLetter
}

func NewDeadLettersRepository() *DeadLettersRepository {
	return &DeadLettersRepository{}
}

func (r *DeadLettersRepository) Store(ctx context.Context, deadLetter entity.DeadLetter) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.deadLetters {
		if existing.MessageID == deadLetter.MessageID {
			return nil
		}
	}
	r.deadLetters = append(r.deadLetters, deadLetter)
	return nil
}

func (r *DeadLettersRepository) List(ctx context.Context) ([]entity.DeadLetter, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]entity.DeadLetter, len(r.deadLetters))
	copy(out, r.deadLetters)
	return out, nil
}
