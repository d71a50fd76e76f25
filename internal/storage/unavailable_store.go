package storage

import (
	"context"
	"fmt"

	"github.com/2beens/trainingtracker/internal/training"
)

// UnavailableStore stands in for a store that could not be set up (e.g. missing credentials).
// Every operation fails with the setup error.
type UnavailableStore struct {
	err error
}

func NewUnavailableStore(err error) *UnavailableStore {
	return &UnavailableStore{
		err: err,
	}
}

func (s *UnavailableStore) ReadAll(_ context.Context) ([]training.WorkoutRecord, error) {
	return nil, fmt.Errorf("store unavailable: %w", s.err)
}

func (s *UnavailableStore) OverwriteAll(_ context.Context, _ []training.WorkoutRecord) error {
	return fmt.Errorf("store unavailable: %w", s.err)
}
